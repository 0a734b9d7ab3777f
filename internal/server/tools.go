package server

import (
	"resolvemcp/internal/mediator"

	"github.com/mark3labs/mcp-go/mcp"
)

// toolFromOperation converts an operation descriptor into an MCP tool
// definition. The argument contract is mirrored into JSON Schema so clients
// can pre-validate input; the dispatcher still revalidates every call.
func toolFromOperation(op *mediator.Operation) mcp.Tool {
	properties := make(map[string]interface{})
	required := []string{}

	for _, spec := range op.Args {
		prop := map[string]interface{}{
			"description": spec.Description,
		}
		// "any" arguments are free-typed; omitting "type" leaves them
		// unconstrained in the schema.
		if spec.Type != "" && spec.Type != "any" {
			prop["type"] = spec.Type
		}
		if len(spec.Enum) > 0 {
			prop["enum"] = spec.Enum
		}
		if spec.Default != nil {
			prop["default"] = spec.Default
		}
		if spec.Min != nil {
			prop["minimum"] = *spec.Min
		}
		if spec.Max != nil {
			prop["maximum"] = *spec.Max
		}
		if spec.Step != nil {
			prop["multipleOf"] = *spec.Step
		}
		properties[spec.Name] = prop

		if spec.Required {
			required = append(required, spec.Name)
		}
	}

	description := op.Description
	if description == "" {
		description = op.Title
	}

	return mcp.Tool{
		Name:        op.Name,
		Description: description,
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: properties,
			Required:   required,
		},
	}
}
