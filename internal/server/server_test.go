package server

import (
	"context"
	"encoding/json"
	"testing"

	"resolvemcp/internal/config"
	"resolvemcp/internal/mediator"
	"resolvemcp/internal/resolve"
	"resolvemcp/internal/resolve/resolvetest"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestToolFromOperationSchema(t *testing.T) {
	op := &mediator.Operation{
		Name:        "add_marker",
		Title:       "Add Marker",
		Description: "Adds a marker to the current timeline.",
		Args: []mediator.ArgSpec{
			{Name: "frame", Type: "integer", Description: "Frame position", Required: true, Min: floatPtr(0)},
			{Name: "color", Type: "string", Description: "Marker color", Default: "Blue", Enum: []string{"Blue", "Red"}},
			{Name: "duration", Type: "integer", Description: "Duration in frames", Default: 1, Min: floatPtr(1), Max: floatPtr(600)},
			{Name: "value", Type: "any", Description: "Free-typed value"},
		},
	}

	tool := toolFromOperation(op)

	assert.Equal(t, "add_marker", tool.Name)
	assert.Equal(t, "Adds a marker to the current timeline.", tool.Description)
	assert.Equal(t, "object", tool.InputSchema.Type)
	assert.Equal(t, []string{"frame"}, tool.InputSchema.Required)

	frame, ok := tool.InputSchema.Properties["frame"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "integer", frame["type"])
	assert.Equal(t, float64(0), frame["minimum"])

	color, ok := tool.InputSchema.Properties["color"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []string{"Blue", "Red"}, color["enum"])
	assert.Equal(t, "Blue", color["default"])

	duration, ok := tool.InputSchema.Properties["duration"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(600), duration["maximum"])

	value, ok := tool.InputSchema.Properties["value"].(map[string]interface{})
	require.True(t, ok)
	_, hasType := value["type"]
	assert.False(t, hasType, "free-typed arguments carry no type constraint")
}

func TestToolDescriptionFallsBackToTitle(t *testing.T) {
	tool := toolFromOperation(&mediator.Operation{Name: "probe", Title: "Probe"})
	assert.Equal(t, "Probe", tool.Description)
}

func newTestServer(t *testing.T) (*Server, *resolvetest.Host) {
	t.Helper()

	host := resolvetest.NewHost()
	session := mediator.NewSession(func() (resolve.Host, error) { return host, nil })

	registry := mediator.NewRegistry()
	registry.MustRegister(mediator.Operation{
		Name:        "echo",
		Description: "Echoes its input back.",
		Args: []mediator.ArgSpec{
			{Name: "text", Type: "string", Required: true, NonEmpty: true},
		},
		Handler: func(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
			return &mediator.Result{
				Message: "echoed",
				Data:    map[string]interface{}{"text": args.String("text")},
			}, nil
		},
	})

	dispatcher := mediator.NewDispatcher(registry, session, mediator.Options{})
	return New(dispatcher, config.ServerConfig{Transport: config.TransportStdio}, "test"), host
}

func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) (*mcp.CallToolResult, mediator.Envelope) {
	t.Helper()

	handler := s.handlerFor(name)
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)

	var env mediator.Envelope
	require.NoError(t, json.Unmarshal([]byte(text.Text), &env))
	return result, env
}

func TestHandlerWrapsSuccessEnvelope(t *testing.T) {
	s, _ := newTestServer(t)

	result, env := callTool(t, s, "echo", map[string]interface{}{"text": "hello"})

	assert.False(t, result.IsError)
	assert.Equal(t, mediator.StatusSuccess, env.Status)
	assert.Equal(t, "hello", env.Data["text"])
}

func TestHandlerWrapsFailureEnvelope(t *testing.T) {
	s, _ := newTestServer(t)

	result, env := callTool(t, s, "echo", map[string]interface{}{})

	assert.True(t, result.IsError)
	assert.Equal(t, mediator.StatusError, env.Status)
	assert.Equal(t, mediator.CodeValidation, env.Code)
}

func TestHandlerToleratesMissingArguments(t *testing.T) {
	s, _ := newTestServer(t)

	result, env := callTool(t, s, "echo", nil)

	assert.True(t, result.IsError)
	assert.Equal(t, mediator.CodeValidation, env.Code)
}
