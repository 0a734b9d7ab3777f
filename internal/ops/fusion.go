package ops

import (
	"context"
	"fmt"

	"resolvemcp/internal/mediator"
	"resolvemcp/internal/resolve"
)

func registerFusion(reg *mediator.Registry) {
	reg.MustRegister(mediator.Operation{
		Name:        "get_fusion_composition",
		Title:       "Get Fusion Composition",
		Description: "Report the Fusion compositions attached to the current clip.",
		Page:        resolve.PageFusion,
		Handler:     getFusionComposition,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "get_fusion_nodes",
		Title:       "Get Fusion Nodes",
		Description: "List the nodes of the current clip's first Fusion composition.",
		Page:        resolve.PageFusion,
		Handler:     getFusionNodes,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "add_fusion_node",
		Title:       "Add Fusion Node",
		Description: "Add a node of the given type to the current composition.",
		Page:        resolve.PageFusion,
		Args: []mediator.ArgSpec{
			{Name: "node_type", Type: "string", Required: true, NonEmpty: true, Description: "Fusion tool type, e.g. Blur, Merge, Transform."},
			{Name: "pos_x", Type: "number", Default: 0.0, Description: "Flow view X position."},
			{Name: "pos_y", Type: "number", Default: 0.0, Description: "Flow view Y position."},
		},
		Handler: addFusionNode,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "connect_fusion_nodes",
		Title:       "Connect Fusion Nodes",
		Description: "Connect an output of one node to an input of another.",
		Page:        resolve.PageFusion,
		Args: []mediator.ArgSpec{
			{Name: "source", Type: "string", Required: true, NonEmpty: true, Description: "Source node name."},
			{Name: "target", Type: "string", Required: true, NonEmpty: true, Description: "Target node name."},
			{Name: "source_output", Type: "string", Default: "Output", Description: "Source output socket."},
			{Name: "target_input", Type: "string", Default: "Input", Description: "Target input socket."},
		},
		Handler: connectFusionNodes,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "delete_fusion_node",
		Title:       "Delete Fusion Node",
		Description: "Remove a node from the current composition.",
		Page:        resolve.PageFusion,
		Args: []mediator.ArgSpec{
			{Name: "node_name", Type: "string", Required: true, NonEmpty: true, Description: "Node to remove."},
		},
		Handler: deleteFusionNode,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "set_node_parameter",
		Title:       "Set Node Parameter",
		Description: "Set an input value on a node of the current composition.",
		Page:        resolve.PageFusion,
		Args: []mediator.ArgSpec{
			{Name: "node_name", Type: "string", Required: true, NonEmpty: true, Description: "Node name."},
			{Name: "parameter", Type: "string", Required: true, NonEmpty: true, Description: "Input name, e.g. Blend."},
			{Name: "value", Type: "any", Required: true, Description: "New value; type depends on the input."},
		},
		Handler: setNodeParameter,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "add_text_node",
		Title:       "Add Text Node",
		Description: "Add a Text+ node with the given content.",
		Page:        resolve.PageFusion,
		Args: []mediator.ArgSpec{
			{Name: "text", Type: "string", Required: true, Description: "Text content."},
			{Name: "size", Type: "number", Default: 0.08, Min: mediator.FloatPtr(0), Description: "Character size in Fusion units."},
		},
		Handler: addTextNode,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "add_background_node",
		Title:       "Add Background Node",
		Description: "Add a Background node with a solid color.",
		Page:        resolve.PageFusion,
		Args: []mediator.ArgSpec{
			{Name: "red", Type: "number", Default: 0.0, Min: mediator.FloatPtr(0), Max: mediator.FloatPtr(1), Description: "Red channel."},
			{Name: "green", Type: "number", Default: 0.0, Min: mediator.FloatPtr(0), Max: mediator.FloatPtr(1), Description: "Green channel."},
			{Name: "blue", Type: "number", Default: 0.0, Min: mediator.FloatPtr(0), Max: mediator.FloatPtr(1), Description: "Blue channel."},
		},
		Handler: addBackgroundNode,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "create_fusion_clip",
		Title:       "Create Fusion Clip",
		Description: "Attach a new Fusion composition to the current clip.",
		Page:        resolve.PageFusion,
		Handler:     createFusionClip,
	})
}

// currentComp resolves the first Fusion composition of the clip under the
// playhead, which is where Resolve's own Fusion page lands.
func currentComp(s *mediator.Session, op string) (resolve.FusionComp, error) {
	item, err := currentVideoItem(s, op)
	if err != nil {
		return nil, err
	}
	count, err := item.FusionCompCount()
	if err != nil {
		return nil, mediator.NewLeafError(op, err)
	}
	if count == 0 {
		return nil, mediator.Leaff(op, "the current clip has no Fusion composition")
	}
	comp, err := item.FusionCompByIndex(1)
	if err != nil {
		return nil, mediator.NewLeafError(op, err)
	}
	return comp, nil
}

func getFusionComposition(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	item, err := currentVideoItem(s, "get_fusion_composition")
	if err != nil {
		return nil, err
	}
	count, err := item.FusionCompCount()
	if err != nil {
		return nil, mediator.NewLeafError("get_fusion_composition", err)
	}
	data := map[string]interface{}{"composition_count": count}
	if count > 0 {
		comp, err := item.FusionCompByIndex(1)
		if err != nil {
			return nil, mediator.NewLeafError("get_fusion_composition", err)
		}
		if name, err := comp.Name(); err == nil {
			data["name"] = name
		}
	}
	return &mediator.Result{
		Message: fmt.Sprintf("%d composition(s)", count),
		Data:    data,
		Info:    true,
	}, nil
}

func getFusionNodes(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	comp, err := currentComp(s, "get_fusion_nodes")
	if err != nil {
		return nil, err
	}
	names, err := comp.ToolNames()
	if err != nil {
		return nil, mediator.NewLeafError("get_fusion_nodes", err)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("%d node(s)", len(names)),
		Data:    map[string]interface{}{"nodes": names},
	}, nil
}

func addFusionNode(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	comp, err := currentComp(s, "add_fusion_node")
	if err != nil {
		return nil, err
	}
	nodeType := args.String("node_type")
	tool, err := comp.AddTool(nodeType, args.Float("pos_x"), args.Float("pos_y"))
	if err != nil {
		return nil, mediator.NewLeafError("add_fusion_node", err)
	}
	name, err := tool.Name()
	if err != nil {
		return nil, mediator.NewLeafError("add_fusion_node", err)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("added %s node %q", nodeType, name),
		Data:    map[string]interface{}{"name": name, "type": nodeType},
	}, nil
}

func connectFusionNodes(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	comp, err := currentComp(s, "connect_fusion_nodes")
	if err != nil {
		return nil, err
	}
	source := args.String("source")
	target := args.String("target")
	ok, err := comp.ConnectTools(source, args.String("source_output"), target, args.String("target_input"))
	if err != nil {
		return nil, mediator.NewLeafError("connect_fusion_nodes", err)
	}
	if !ok {
		return nil, mediator.Leaff("connect_fusion_nodes", "could not connect %s to %s; check node and socket names", source, target)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("connected %s to %s", source, target),
	}, nil
}

func deleteFusionNode(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	comp, err := currentComp(s, "delete_fusion_node")
	if err != nil {
		return nil, err
	}
	name := args.String("node_name")
	ok, err := comp.RemoveTool(name)
	if err != nil {
		return nil, mediator.NewLeafError("delete_fusion_node", err)
	}
	if !ok {
		return nil, mediator.Leaff("delete_fusion_node", "node %q not found", name)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("deleted node %q", name),
	}, nil
}

func setNodeParameter(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	comp, err := currentComp(s, "set_node_parameter")
	if err != nil {
		return nil, err
	}
	name := args.String("node_name")
	tool, err := comp.ToolByName(name)
	if err != nil {
		return nil, mediator.NewLeafError("set_node_parameter", err)
	}
	parameter := args.String("parameter")
	value := args["value"]
	ok, err := tool.SetInput(parameter, value)
	if err != nil {
		return nil, mediator.NewLeafError("set_node_parameter", err)
	}
	if !ok {
		return nil, mediator.Leaff("set_node_parameter", "node %q rejected %s=%v", name, parameter, value)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("set %s on %q", parameter, name),
		Data:    map[string]interface{}{"node": name, "parameter": parameter},
	}, nil
}

func addTextNode(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	comp, err := currentComp(s, "add_text_node")
	if err != nil {
		return nil, err
	}
	tool, err := comp.AddTool("TextPlus", 0, 0)
	if err != nil {
		return nil, mediator.NewLeafError("add_text_node", err)
	}
	if _, err := tool.SetInput("StyledText", args.String("text")); err != nil {
		return nil, mediator.NewLeafError("add_text_node", err)
	}
	if _, err := tool.SetInput("Size", args.Float("size")); err != nil {
		return nil, mediator.NewLeafError("add_text_node", err)
	}
	name, err := tool.Name()
	if err != nil {
		return nil, mediator.NewLeafError("add_text_node", err)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("added text node %q", name),
		Data:    map[string]interface{}{"name": name},
	}, nil
}

func addBackgroundNode(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	comp, err := currentComp(s, "add_background_node")
	if err != nil {
		return nil, err
	}
	tool, err := comp.AddTool("Background", 0, 0)
	if err != nil {
		return nil, mediator.NewLeafError("add_background_node", err)
	}
	channels := map[string]float64{
		"TopLeftRed":   args.Float("red"),
		"TopLeftGreen": args.Float("green"),
		"TopLeftBlue":  args.Float("blue"),
	}
	for input, v := range channels {
		if _, err := tool.SetInput(input, v); err != nil {
			return nil, mediator.NewLeafError("add_background_node", err)
		}
	}
	name, err := tool.Name()
	if err != nil {
		return nil, mediator.NewLeafError("add_background_node", err)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("added background node %q", name),
		Data:    map[string]interface{}{"name": name},
	}, nil
}

func createFusionClip(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	item, err := currentVideoItem(s, "create_fusion_clip")
	if err != nil {
		return nil, err
	}
	comp, err := item.AddFusionComp()
	if err != nil {
		return nil, mediator.NewLeafError("create_fusion_clip", err)
	}
	name, err := comp.Name()
	if err != nil {
		return nil, mediator.NewLeafError("create_fusion_clip", err)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("created composition %q", name),
		Data:    map[string]interface{}{"name": name},
	}, nil
}
