package ops

import (
	"context"
	"fmt"

	"resolvemcp/internal/mediator"
	"resolvemcp/internal/resolve"
)

// Keyframe operations act on the clip under the playhead and require the
// edit page, where the inspector's keyframe surface lives.

// interpolationModes maps the interpolation names to Resolve's numeric codes.
var interpolationModes = map[string]int{"linear": 0, "ease_in": 1, "ease_out": 2, "ease_in_out": 3}

func registerKeyframe(reg *mediator.Registry) {
	reg.MustRegister(mediator.Operation{
		Name:        "get_keyframes",
		Title:       "Get Keyframes",
		Description: "List the keyframes of one property of the current clip.",
		Page:        resolve.PageEdit,
		Args: []mediator.ArgSpec{
			{Name: "property", Type: "string", Required: true, NonEmpty: true, Description: "Property name, e.g. ZoomX, Opacity."},
		},
		Handler: getKeyframes,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "add_keyframe",
		Title:       "Add Keyframe",
		Description: "Set a property value at a frame, creating a keyframe.",
		Page:        resolve.PageEdit,
		Args: []mediator.ArgSpec{
			{Name: "property", Type: "string", Required: true, NonEmpty: true, Description: "Property name."},
			{Name: "frame", Type: "integer", Required: true, Min: mediator.FloatPtr(0), Description: "Timeline frame."},
			{Name: "value", Type: "number", Required: true, Description: "Property value at the frame."},
		},
		Handler: addKeyframe,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "modify_keyframe",
		Title:       "Modify Keyframe",
		Description: "Change the value of an existing keyframe.",
		Page:        resolve.PageEdit,
		Args: []mediator.ArgSpec{
			{Name: "property", Type: "string", Required: true, NonEmpty: true, Description: "Property name."},
			{Name: "frame", Type: "integer", Required: true, Min: mediator.FloatPtr(0), Description: "Frame of the keyframe."},
			{Name: "value", Type: "number", Required: true, Description: "New value."},
		},
		Handler: modifyKeyframe,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "delete_keyframe",
		Title:       "Delete Keyframe",
		Description: "Remove the keyframe of a property at a frame.",
		Page:        resolve.PageEdit,
		Args: []mediator.ArgSpec{
			{Name: "property", Type: "string", Required: true, NonEmpty: true, Description: "Property name."},
			{Name: "frame", Type: "integer", Required: true, Min: mediator.FloatPtr(0), Description: "Frame of the keyframe."},
		},
		Handler: deleteKeyframe,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "set_keyframe_interpolation",
		Title:       "Set Keyframe Interpolation",
		Description: "Set the interpolation of a keyframe.",
		Page:        resolve.PageEdit,
		Args: []mediator.ArgSpec{
			{Name: "property", Type: "string", Required: true, NonEmpty: true, Description: "Property name."},
			{Name: "frame", Type: "integer", Required: true, Min: mediator.FloatPtr(0), Description: "Frame of the keyframe."},
			{
				Name: "interpolation", Type: "string", Required: true,
				Enum:        []string{"linear", "ease_in", "ease_out", "ease_in_out"},
				Description: "Interpolation curve.",
			},
		},
		Handler: setKeyframeInterpolation,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "enable_keyframes",
		Title:       "Enable Keyframes",
		Description: "Enable a keyframe mode group on the current clip.",
		Page:        resolve.PageEdit,
		Args: []mediator.ArgSpec{
			{
				Name: "mode", Type: "string", Default: "all",
				Enum:        []string{"all", "color", "sizing"},
				Description: "Keyframe group to enable.",
			},
		},
		Handler: enableKeyframes,
	})
}

func getKeyframes(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	item, err := currentVideoItem(s, "get_keyframes")
	if err != nil {
		return nil, err
	}
	property := args.String("property")
	frames, err := item.Keyframes(property)
	if err != nil {
		return nil, mediator.NewLeafError("get_keyframes", err)
	}
	out := make([]map[string]interface{}, 0, len(frames))
	for frame, value := range frames {
		out = append(out, map[string]interface{}{"frame": frame, "value": value})
	}
	return &mediator.Result{
		Message: fmt.Sprintf("%d keyframe(s) on %s", len(out), property),
		Data:    map[string]interface{}{"property": property, "keyframes": out},
	}, nil
}

func addKeyframe(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	item, err := currentVideoItem(s, "add_keyframe")
	if err != nil {
		return nil, err
	}
	property := args.String("property")
	frame := args.Int("frame")
	value := args.Float("value")
	ok, err := item.SetPropertyAtFrame(property, value, frame)
	if err != nil {
		return nil, mediator.NewLeafError("add_keyframe", err)
	}
	if !ok {
		return nil, mediator.Leaff("add_keyframe", "frame %d is outside the clip", frame)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("keyframed %s=%v at frame %d", property, value, frame),
		Data:    map[string]interface{}{"property": property, "frame": frame, "value": value},
	}, nil
}

func modifyKeyframe(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	item, err := currentVideoItem(s, "modify_keyframe")
	if err != nil {
		return nil, err
	}
	property := args.String("property")
	frame := args.Int("frame")
	frames, err := item.Keyframes(property)
	if err != nil {
		return nil, mediator.NewLeafError("modify_keyframe", err)
	}
	if _, exists := frames[frame]; !exists {
		return nil, mediator.Leaff("modify_keyframe", "no keyframe on %s at frame %d", property, frame)
	}
	value := args.Float("value")
	ok, err := item.SetPropertyAtFrame(property, value, frame)
	if err != nil {
		return nil, mediator.NewLeafError("modify_keyframe", err)
	}
	if !ok {
		return nil, mediator.Leaff("modify_keyframe", "Resolve rejected the new value")
	}
	return &mediator.Result{
		Message: fmt.Sprintf("keyframe on %s at frame %d set to %v", property, frame, value),
		Data:    map[string]interface{}{"property": property, "frame": frame, "value": value},
	}, nil
}

func deleteKeyframe(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	item, err := currentVideoItem(s, "delete_keyframe")
	if err != nil {
		return nil, err
	}
	property := args.String("property")
	frame := args.Int("frame")
	ok, err := item.DeleteKeyframe(property, frame)
	if err != nil {
		return nil, mediator.NewLeafError("delete_keyframe", err)
	}
	if !ok {
		return nil, mediator.Leaff("delete_keyframe", "no keyframe on %s at frame %d", property, frame)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("deleted keyframe on %s at frame %d", property, frame),
		Data:    map[string]interface{}{"property": property, "frame": frame},
	}, nil
}

func setKeyframeInterpolation(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	item, err := currentVideoItem(s, "set_keyframe_interpolation")
	if err != nil {
		return nil, err
	}
	property := args.String("property")
	frame := args.Int("frame")
	curve := args.String("interpolation")
	ok, err := item.SetKeyframeInterpolation(property, frame, interpolationModes[curve])
	if err != nil {
		return nil, mediator.NewLeafError("set_keyframe_interpolation", err)
	}
	if !ok {
		return nil, mediator.Leaff("set_keyframe_interpolation", "no keyframe on %s at frame %d", property, frame)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("%s keyframe at frame %d set to %s", property, frame, curve),
		Data:    map[string]interface{}{"property": property, "frame": frame, "interpolation": curve},
	}, nil
}

func enableKeyframes(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	item, err := currentVideoItem(s, "enable_keyframes")
	if err != nil {
		return nil, err
	}
	mode := args.String("mode")
	ok, err := item.EnableKeyframes(mode)
	if err != nil {
		return nil, mediator.NewLeafError("enable_keyframes", err)
	}
	if !ok {
		return nil, mediator.Leaff("enable_keyframes", "keyframe mode %q was rejected", mode)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("enabled %s keyframes", mode),
		Data:    map[string]interface{}{"mode": mode},
	}, nil
}
