package ops

import (
	"context"
	"fmt"

	"resolvemcp/internal/mediator"
	"resolvemcp/internal/resolve"
)

// Color operations act on the clip under the playhead and require the color
// page; the mediator switches there and back around each leaf.

func registerColor(reg *mediator.Registry) {
	reg.MustRegister(mediator.Operation{
		Name:        "apply_lut",
		Title:       "Apply LUT",
		Description: "Apply a LUT file to a node of the current clip's grade.",
		Page:        resolve.PageColor,
		Args: []mediator.ArgSpec{
			{Name: "lut_path", Type: "string", Required: true, NonEmpty: true, PathMustExist: true, Description: "Path to the .cube file."},
			{Name: "node_index", Type: "integer", Default: 1, Min: mediator.FloatPtr(1), Description: "1-based node index."},
		},
		Handler: applyLUT,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "get_current_node_label",
		Title:       "Get Node Label",
		Description: "Read the label of a node in the current clip's grade.",
		Page:        resolve.PageColor,
		Args: []mediator.ArgSpec{
			{Name: "node_index", Type: "integer", Default: 1, Min: mediator.FloatPtr(1), Description: "1-based node index."},
		},
		Handler: getNodeLabel,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "set_node_label",
		Title:       "Set Node Label",
		Description: "Label a node in the current clip's grade.",
		Page:        resolve.PageColor,
		Args: []mediator.ArgSpec{
			{Name: "label", Type: "string", Required: true, Description: "New node label."},
			{Name: "node_index", Type: "integer", Default: 1, Min: mediator.FloatPtr(1), Description: "1-based node index."},
		},
		Handler: setNodeLabel,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "add_color_version",
		Title:       "Add Color Version",
		Description: "Add a named grade version to the current clip.",
		Page:        resolve.PageColor,
		Args: []mediator.ArgSpec{
			{Name: "name", Type: "string", Required: true, NonEmpty: true, Description: "Version name."},
			{
				Name: "version_type", Type: "string", Default: "local",
				Enum:        []string{"local", "remote"},
				Description: "Version kind.",
			},
		},
		Handler: addColorVersion,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "load_color_version",
		Title:       "Load Color Version",
		Description: "Load a named grade version on the current clip.",
		Page:        resolve.PageColor,
		Args: []mediator.ArgSpec{
			{Name: "name", Type: "string", Required: true, NonEmpty: true, Description: "Version name."},
			{
				Name: "version_type", Type: "string", Default: "local",
				Enum:        []string{"local", "remote"},
				Description: "Version kind.",
			},
		},
		Handler: loadColorVersion,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "copy_grade",
		Title:       "Copy Grade",
		Description: "Copy the current clip's grade to every other clip on the same video track.",
		Page:        resolve.PageColor,
		Args: []mediator.ArgSpec{
			{Name: "track_index", Type: "integer", Default: 1, Min: mediator.FloatPtr(1), Description: "1-based video track index."},
		},
		Handler: copyGrade,
	})
}

// versionTypeCode maps the version kind to Resolve's numeric encoding.
func versionTypeCode(kind string) int {
	if kind == "remote" {
		return 1
	}
	return 0
}

func applyLUT(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	item, err := currentVideoItem(s, "apply_lut")
	if err != nil {
		return nil, err
	}
	path := args.String("lut_path")
	node := args.Int("node_index")
	ok, err := item.ApplyLUT(node, path)
	if err != nil {
		return nil, mediator.NewLeafError("apply_lut", err)
	}
	if !ok {
		return nil, mediator.Leaff("apply_lut", "Resolve rejected LUT %q on node %d", path, node)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("applied LUT to node %d", node),
		Data:    map[string]interface{}{"node_index": node, "lut_path": path},
	}, nil
}

func getNodeLabel(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	item, err := currentVideoItem(s, "get_current_node_label")
	if err != nil {
		return nil, err
	}
	node := args.Int("node_index")
	label, err := item.NodeLabel(node)
	if err != nil {
		return nil, mediator.NewLeafError("get_current_node_label", err)
	}
	return &mediator.Result{
		Message: label,
		Data:    map[string]interface{}{"node_index": node, "label": label},
		Info:    true,
	}, nil
}

func setNodeLabel(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	item, err := currentVideoItem(s, "set_node_label")
	if err != nil {
		return nil, err
	}
	node := args.Int("node_index")
	label := args.String("label")
	ok, err := item.SetNodeLabel(node, label)
	if err != nil {
		return nil, mediator.NewLeafError("set_node_label", err)
	}
	if !ok {
		return nil, mediator.Leaff("set_node_label", "node %d does not exist on the current grade", node)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("labeled node %d %q", node, label),
		Data:    map[string]interface{}{"node_index": node, "label": label},
	}, nil
}

func addColorVersion(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	item, err := currentVideoItem(s, "add_color_version")
	if err != nil {
		return nil, err
	}
	name := args.String("name")
	kind := args.String("version_type")
	ok, err := item.AddVersion(name, versionTypeCode(kind))
	if err != nil {
		return nil, mediator.NewLeafError("add_color_version", err)
	}
	if !ok {
		return nil, mediator.Leaff("add_color_version", "version %q could not be added", name)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("added %s version %q", kind, name),
		Data:    map[string]interface{}{"name": name, "version_type": kind},
	}, nil
}

func loadColorVersion(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	item, err := currentVideoItem(s, "load_color_version")
	if err != nil {
		return nil, err
	}
	name := args.String("name")
	kind := args.String("version_type")
	ok, err := item.LoadVersionByName(name, versionTypeCode(kind))
	if err != nil {
		return nil, mediator.NewLeafError("load_color_version", err)
	}
	if !ok {
		return nil, mediator.Leaff("load_color_version", "version %q not found", name)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("loaded %s version %q", kind, name),
		Data:    map[string]interface{}{"name": name, "version_type": kind},
	}, nil
}

func copyGrade(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	timeline, err := currentTimeline(s)
	if err != nil {
		return nil, err
	}
	source, err := timeline.CurrentVideoItem()
	if err != nil {
		return nil, mediator.NewLeafError("copy_grade", err)
	}
	track := args.Int("track_index")
	items, err := timeline.ItemsInTrack("video", track)
	if err != nil {
		return nil, mediator.NewLeafError("copy_grade", err)
	}

	sourceID, err := source.UniqueID()
	if err != nil {
		return nil, mediator.NewLeafError("copy_grade", err)
	}
	targets := make([]resolve.TimelineItem, 0, len(items))
	for _, item := range items {
		id, err := item.UniqueID()
		if err != nil {
			return nil, mediator.NewLeafError("copy_grade", err)
		}
		if id != sourceID {
			targets = append(targets, item)
		}
	}
	if len(targets) == 0 {
		return nil, mediator.Leaff("copy_grade", "no other clips on video track %d", track)
	}

	ok, err := source.CopyGrades(targets...)
	if err != nil {
		return nil, mediator.NewLeafError("copy_grade", err)
	}
	if !ok {
		return nil, mediator.Leaff("copy_grade", "Resolve refused to copy the grade")
	}
	return &mediator.Result{
		Message: fmt.Sprintf("copied grade to %d clip(s)", len(targets)),
		Data:    map[string]interface{}{"targets": len(targets), "track_index": track},
	}, nil
}
