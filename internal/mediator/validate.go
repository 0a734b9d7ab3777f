package mediator

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// ArgSpec declares one parameter of an operation: its JSON schema surface
// (exported to MCP clients) and its validation constraints. Constraints run
// in a fixed order per argument: presence, type, then the declared checks.
type ArgSpec struct {
	Name        string
	Type        string // "string", "number", "integer", "boolean", "array", "object", "any"
	Description string
	Required    bool
	Default     interface{}

	// Enum restricts a string argument to a closed set. Matching is
	// case-insensitive and the canonical casing is written back into the
	// validated args, matching how Resolve expects its setting values.
	Enum []string

	// Min/Max are inclusive numeric bounds; Step additionally requires the
	// value to land on min + k*step.
	Min  *float64
	Max  *float64
	Step *float64

	// NonEmpty rejects blank strings.
	NonEmpty bool

	// PathMustExist requires a string argument to name an existing file or
	// directory. DirWritable requires the parent directory of the path to
	// be writable (used for output destinations).
	PathMustExist bool
	DirWritable   bool
}

// Rule is a named cross-field predicate. Rules run after all per-argument
// checks, in declaration order, and the first failure aborts validation.
type Rule struct {
	Name  string
	Check func(args Args) *ValidationError
}

// Implies requires that whenever flag is supplied and true, field is also
// supplied.
func Implies(flag, field string) Rule {
	return Rule{
		Name: fmt.Sprintf("%s_implies_%s", flag, field),
		Check: func(args Args) *ValidationError {
			if args.Bool(flag) && !args.Has(field) {
				return &ValidationError{
					Param:   field,
					Rule:    fmt.Sprintf("%s_implies_%s", flag, field),
					Value:   nil,
					Message: fmt.Sprintf("%s is required when %s is set", field, flag),
				}
			}
			return nil
		},
	}
}

// Conflicts rejects requests that supply both fields.
func Conflicts(a, b string) Rule {
	return Rule{
		Name: fmt.Sprintf("%s_conflicts_%s", a, b),
		Check: func(args Args) *ValidationError {
			if args.Has(a) && args.Has(b) {
				return &ValidationError{
					Param:   b,
					Rule:    fmt.Sprintf("%s_conflicts_%s", a, b),
					Value:   args[b],
					Message: fmt.Sprintf("%s cannot be combined with %s", b, a),
				}
			}
			return nil
		},
	}
}

// RequireOneOf requires at least one of the listed fields to be supplied.
func RequireOneOf(fields ...string) Rule {
	return Rule{
		Name: "one_of_" + strings.Join(fields, "_"),
		Check: func(args Args) *ValidationError {
			for _, f := range fields {
				if args.Has(f) {
					return nil
				}
			}
			return &ValidationError{
				Param:   fields[0],
				Rule:    "one_of_" + strings.Join(fields, "_"),
				Value:   nil,
				Message: fmt.Sprintf("one of %s is required", strings.Join(fields, ", ")),
			}
		},
	}
}

// validate runs an operation's full contract against the supplied arguments.
// It returns the normalized arguments (defaults filled, enums canonicalized)
// or the first failing check; the leaf never runs on a failed contract and
// no partial normalization escapes.
func validate(op *Operation, raw Args) (Args, *ValidationError) {
	args := raw.clone()

	for i := range op.Args {
		spec := &op.Args[i]
		if verr := validateArg(spec, args); verr != nil {
			return nil, verr
		}
	}

	for _, rule := range op.Rules {
		if verr := rule.Check(args); verr != nil {
			return nil, verr
		}
	}

	return args, nil
}

func validateArg(spec *ArgSpec, args Args) *ValidationError {
	value, present := args[spec.Name]
	if !present || value == nil {
		if spec.Default != nil {
			args[spec.Name] = spec.Default
			return nil
		}
		if spec.Required {
			return &ValidationError{
				Param:   spec.Name,
				Rule:    "required",
				Value:   nil,
				Message: "required argument is missing",
			}
		}
		return nil
	}

	if verr := checkType(spec, value); verr != nil {
		return verr
	}

	switch spec.Type {
	case "string", "":
		return checkString(spec, args, value.(string))
	case "number", "integer":
		return checkNumber(spec, toFloat(value))
	}
	return nil
}

func checkType(spec *ArgSpec, value interface{}) *ValidationError {
	ok := true
	switch spec.Type {
	case "string", "":
		_, ok = value.(string)
	case "number":
		ok = isNumeric(value)
	case "integer":
		ok = isNumeric(value) && toFloat(value) == math.Trunc(toFloat(value))
	case "boolean":
		_, ok = value.(bool)
	case "array":
		switch value.(type) {
		case []interface{}, []string:
		default:
			ok = false
		}
	case "object":
		_, ok = value.(map[string]interface{})
	case "any":
		// Free-typed argument, constrained only by the leaf.
	}
	if !ok {
		return &ValidationError{
			Param:   spec.Name,
			Rule:    "type",
			Value:   value,
			Message: fmt.Sprintf("must be a %s, got %T", typeLabel(spec.Type), value),
		}
	}
	return nil
}

func checkString(spec *ArgSpec, args Args, s string) *ValidationError {
	if spec.NonEmpty && strings.TrimSpace(s) == "" {
		return &ValidationError{
			Param:   spec.Name,
			Rule:    "non_empty",
			Value:   s,
			Message: "cannot be empty",
		}
	}

	if len(spec.Enum) > 0 {
		matched := ""
		for _, choice := range spec.Enum {
			if strings.EqualFold(choice, s) {
				matched = choice
				break
			}
		}
		if matched == "" {
			return &ValidationError{
				Param:   spec.Name,
				Rule:    "enum",
				Value:   s,
				Message: fmt.Sprintf("must be one of [%s]", strings.Join(spec.Enum, ", ")),
			}
		}
		// Write back the canonical casing.
		args[spec.Name] = matched
	}

	if spec.PathMustExist {
		if _, err := os.Stat(s); err != nil {
			return &ValidationError{
				Param:   spec.Name,
				Rule:    "path_exists",
				Value:   s,
				Message: "path does not exist",
			}
		}
	}

	if spec.DirWritable {
		dir := filepath.Dir(s)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return &ValidationError{
				Param:   spec.Name,
				Rule:    "dir_writable",
				Value:   s,
				Message: fmt.Sprintf("parent directory %s does not exist", dir),
			}
		}
		probe, err := os.CreateTemp(dir, ".resolvemcp-probe-*")
		if err != nil {
			return &ValidationError{
				Param:   spec.Name,
				Rule:    "dir_writable",
				Value:   s,
				Message: fmt.Sprintf("parent directory %s is not writable", dir),
			}
		}
		probe.Close()
		os.Remove(probe.Name())
	}

	return nil
}

func checkNumber(spec *ArgSpec, v float64) *ValidationError {
	if spec.Min != nil && v < *spec.Min {
		return &ValidationError{
			Param:   spec.Name,
			Rule:    "range",
			Value:   v,
			Message: fmt.Sprintf("must be at least %v", *spec.Min),
		}
	}
	if spec.Max != nil && v > *spec.Max {
		return &ValidationError{
			Param:   spec.Name,
			Rule:    "range",
			Value:   v,
			Message: fmt.Sprintf("must be at most %v", *spec.Max),
		}
	}
	if spec.Step != nil && *spec.Step > 0 {
		base := 0.0
		if spec.Min != nil {
			base = *spec.Min
		}
		steps := (v - base) / *spec.Step
		if math.Abs(steps-math.Round(steps)) > 1e-9 {
			return &ValidationError{
				Param:   spec.Name,
				Rule:    "step",
				Value:   v,
				Message: fmt.Sprintf("must be a multiple of %v from %v", *spec.Step, base),
			}
		}
	}
	return nil
}

func isNumeric(v interface{}) bool {
	switch v.(type) {
	case int, int64, float64:
		return true
	}
	return false
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

func typeLabel(t string) string {
	if t == "" {
		return "string"
	}
	return t
}

// FloatPtr is a convenience for bound declarations in operation contracts.
func FloatPtr(v float64) *float64 { return &v }
