package ops

import (
	"context"
	"fmt"
	"reflect"

	"resolvemcp/internal/mediator"
)

// The inspect area is a free-form probe over the bridged object graph, for
// callers exploring what the scripting surface offers before committing to
// the typed operations.

var inspectPaths = []string{
	"resolve", "project_manager", "project", "timeline", "timeline_item", "media_pool", "root_folder",
}

func registerInspect(reg *mediator.Registry) {
	reg.MustRegister(mediator.Operation{
		Name:        "inspect_object",
		Title:       "Inspect Object",
		Description: "Describe a bridged scripting object: its type and callable methods.",
		Args: []mediator.ArgSpec{
			{
				Name: "path", Type: "string", Default: "resolve",
				Enum:        inspectPaths,
				Description: "Object to inspect.",
			},
		},
		Handler: inspectObject,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "list_object_methods",
		Title:       "List Object Methods",
		Description: "List the methods of a bridged scripting object with their signatures.",
		Args: []mediator.ArgSpec{
			{
				Name: "path", Type: "string", Default: "resolve",
				Enum:        inspectPaths,
				Description: "Object to list.",
			},
		},
		Handler: listObjectMethods,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "call_object_method",
		Title:       "Call Object Method",
		Description: "Call a method on a bridged scripting object with positional arguments.",
		Args: []mediator.ArgSpec{
			{
				Name: "path", Type: "string", Default: "resolve",
				Enum:        inspectPaths,
				Description: "Object to call into.",
			},
			{Name: "method", Type: "string", Required: true, NonEmpty: true, Description: "Method name."},
			{Name: "args", Type: "array", Description: "Positional arguments; strings, numbers, and booleans only."},
		},
		Handler: callObjectMethod,
	})
}

// inspectTarget navigates the object graph to the named position.
func inspectTarget(s *mediator.Session, path string) (interface{}, error) {
	switch path {
	case "resolve":
		return s.Host()
	case "project_manager":
		return projectManager(s)
	case "project":
		return currentProject(s)
	case "timeline":
		return currentTimeline(s)
	case "timeline_item":
		return currentVideoItem(s, "inspect_object")
	case "media_pool":
		return mediaPool(s)
	case "root_folder":
		pool, err := mediaPool(s)
		if err != nil {
			return nil, err
		}
		folder, err := pool.RootFolder()
		if err != nil {
			return nil, mediator.NewLeafError("inspect_object", err)
		}
		return folder, nil
	}
	return nil, mediator.Leaff("inspect_object", "unknown object path %q", path)
}

func methodSignatures(target interface{}) []map[string]interface{} {
	t := reflect.TypeOf(target)
	methods := make([]map[string]interface{}, 0, t.NumMethod())
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		methods = append(methods, map[string]interface{}{
			"name":      m.Name,
			"signature": m.Type.String(),
		})
	}
	return methods
}

func inspectObject(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	path := args.String("path")
	target, err := inspectTarget(s, path)
	if err != nil {
		return nil, err
	}
	methods := methodSignatures(target)
	return &mediator.Result{
		Message: fmt.Sprintf("%s: %T, %d method(s)", path, target, len(methods)),
		Data: map[string]interface{}{
			"path":    path,
			"type":    fmt.Sprintf("%T", target),
			"methods": methods,
		},
		Info: true,
	}, nil
}

func listObjectMethods(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	path := args.String("path")
	target, err := inspectTarget(s, path)
	if err != nil {
		return nil, err
	}
	methods := methodSignatures(target)
	return &mediator.Result{
		Message: fmt.Sprintf("%d method(s) on %s", len(methods), path),
		Data:    map[string]interface{}{"path": path, "methods": methods},
		Info:    true,
	}, nil
}

func callObjectMethod(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	path := args.String("path")
	target, err := inspectTarget(s, path)
	if err != nil {
		return nil, err
	}
	name := args.String("method")
	method := reflect.ValueOf(target).MethodByName(name)
	if !method.IsValid() {
		return nil, mediator.Leaff("call_object_method", "%s has no method %q", path, name)
	}

	raw, _ := args["args"].([]interface{})
	in, err := convertCallArgs(method.Type(), raw)
	if err != nil {
		return nil, err
	}

	outs := method.Call(in)
	results := make([]interface{}, 0, len(outs))
	for _, out := range outs {
		if e, ok := out.Interface().(error); ok {
			if e != nil {
				return nil, mediator.NewLeafError("call_object_method", e)
			}
			continue
		}
		results = append(results, renderCallResult(out))
	}
	return &mediator.Result{
		Message: fmt.Sprintf("called %s.%s", path, name),
		Data:    map[string]interface{}{"path": path, "method": name, "results": results},
	}, nil
}

// convertCallArgs coerces the JSON argument list to the method's parameter
// types. Only scalar parameters are supported; object-valued parameters need
// the typed operations.
func convertCallArgs(mt reflect.Type, raw []interface{}) ([]reflect.Value, error) {
	if mt.IsVariadic() {
		return nil, mediator.Leaff("call_object_method", "variadic methods are not callable through the probe")
	}
	if len(raw) != mt.NumIn() {
		return nil, mediator.Leaff("call_object_method", "method wants %d argument(s), got %d", mt.NumIn(), len(raw))
	}
	in := make([]reflect.Value, mt.NumIn())
	for i := 0; i < mt.NumIn(); i++ {
		want := mt.In(i)
		v := reflect.ValueOf(raw[i])
		switch want.Kind() {
		case reflect.String, reflect.Bool:
			if v.Kind() != want.Kind() {
				return nil, mediator.Leaff("call_object_method", "argument %d must be a %s", i+1, want.Kind())
			}
			in[i] = v
		case reflect.Int, reflect.Int64, reflect.Float64:
			f, ok := raw[i].(float64)
			if !ok {
				return nil, mediator.Leaff("call_object_method", "argument %d must be a number", i+1)
			}
			in[i] = reflect.ValueOf(f).Convert(want)
		default:
			return nil, mediator.Leaff("call_object_method", "argument %d has unsupported type %s", i+1, want)
		}
	}
	return in, nil
}

// renderCallResult flattens a return value into something JSON-friendly.
// Bridged objects come back as their type name; scalar values pass through.
func renderCallResult(v reflect.Value) interface{} {
	switch v.Kind() {
	case reflect.String, reflect.Bool, reflect.Int, reflect.Int64, reflect.Float64:
		return v.Interface()
	case reflect.Slice, reflect.Map:
		return v.Interface()
	default:
		if !v.IsValid() || (v.Kind() == reflect.Interface && v.IsNil()) {
			return nil
		}
		return fmt.Sprintf("%T", v.Interface())
	}
}
