package ops

import (
	"context"
	"fmt"

	"resolvemcp/internal/mediator"
)

// markerColors is the closed set Resolve accepts for timeline markers.
var markerColors = []string{
	"Blue", "Cyan", "Green", "Yellow", "Red", "Pink", "Purple", "Fuchsia",
	"Rose", "Lavender", "Sky", "Mint", "Lemon", "Sand", "Cocoa", "Cream",
}

func registerTimeline(reg *mediator.Registry) {
	reg.MustRegister(mediator.Operation{
		Name:        "list_timelines",
		Title:       "List Timelines",
		Description: "List the timelines of the current project.",
		Handler:     listTimelines,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "get_current_timeline",
		Title:       "Get Current Timeline",
		Description: "Report name and frame range of the current timeline.",
		Handler:     getCurrentTimeline,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "create_timeline",
		Title:       "Create Timeline",
		Description: "Create a new empty timeline in the current project.",
		Args: []mediator.ArgSpec{
			{Name: "name", Type: "string", Required: true, NonEmpty: true, Description: "Name for the new timeline."},
		},
		Handler: createTimeline,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "set_current_timeline",
		Title:       "Set Current Timeline",
		Description: "Make the named timeline current.",
		Args: []mediator.ArgSpec{
			{Name: "name", Type: "string", Required: true, NonEmpty: true, Description: "Timeline name."},
		},
		Handler: setCurrentTimeline,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "add_marker",
		Title:       "Add Marker",
		Description: "Add a marker to the current timeline.",
		Args: []mediator.ArgSpec{
			{Name: "frame", Type: "integer", Required: true, Min: mediator.FloatPtr(0), Description: "Timeline frame for the marker."},
			{Name: "color", Type: "string", Default: "Blue", Enum: markerColors, Description: "Marker color."},
			{Name: "name", Type: "string", Default: "", Description: "Marker title."},
			{Name: "note", Type: "string", Default: "", Description: "Marker note text."},
			{Name: "duration", Type: "integer", Default: 1, Min: mediator.FloatPtr(1), Description: "Marker duration in frames."},
		},
		Handler: addMarker,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "delete_marker",
		Title:       "Delete Marker",
		Description: "Delete the marker at the given timeline frame.",
		Args: []mediator.ArgSpec{
			{Name: "frame", Type: "integer", Required: true, Min: mediator.FloatPtr(0), Description: "Frame of the marker to delete."},
		},
		Handler: deleteMarker,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "list_markers",
		Title:       "List Markers",
		Description: "List all markers of the current timeline.",
		Handler:     listMarkers,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "get_timeline_item_list",
		Title:       "Get Timeline Items",
		Description: "List the clips in one track of the current timeline.",
		Args: []mediator.ArgSpec{
			{
				Name: "track_type", Type: "string", Default: "video",
				Enum:        []string{"video", "audio", "subtitle"},
				Description: "Track type.",
			},
			{
				Name: "track_index", Type: "integer", Default: 1, Min: mediator.FloatPtr(1),
				Description: "1-based track index.",
			},
		},
		Handler: getTimelineItemList,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "get_current_timecode",
		Title:       "Get Current Timecode",
		Description: "Report the playhead timecode of the current timeline.",
		Handler:     getCurrentTimecode,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "set_current_timecode",
		Title:       "Set Current Timecode",
		Description: "Move the playhead of the current timeline.",
		Args: []mediator.ArgSpec{
			{Name: "timecode", Type: "string", Required: true, NonEmpty: true, Description: "Target timecode, e.g. 01:00:00:00."},
		},
		Handler: setCurrentTimecode,
	})
}

func listTimelines(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	project, err := currentProject(s)
	if err != nil {
		return nil, err
	}
	count, err := project.TimelineCount()
	if err != nil {
		return nil, mediator.NewLeafError("list_timelines", err)
	}
	names := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		timeline, err := project.TimelineByIndex(i)
		if err != nil {
			return nil, mediator.NewLeafError("list_timelines", err)
		}
		name, err := timeline.Name()
		if err != nil {
			return nil, mediator.NewLeafError("list_timelines", err)
		}
		names = append(names, name)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("%d timeline(s)", len(names)),
		Data:    map[string]interface{}{"timelines": names},
	}, nil
}

func getCurrentTimeline(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	timeline, err := currentTimeline(s)
	if err != nil {
		return nil, err
	}
	name, err := timeline.Name()
	if err != nil {
		return nil, mediator.NewLeafError("get_current_timeline", err)
	}
	start, err := timeline.StartFrame()
	if err != nil {
		return nil, mediator.NewLeafError("get_current_timeline", err)
	}
	end, err := timeline.EndFrame()
	if err != nil {
		return nil, mediator.NewLeafError("get_current_timeline", err)
	}
	return &mediator.Result{
		Message: name,
		Data: map[string]interface{}{
			"name":        name,
			"start_frame": start,
			"end_frame":   end,
		},
		Info: true,
	}, nil
}

func createTimeline(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	pool, err := mediaPool(s)
	if err != nil {
		return nil, err
	}
	name := args.String("name")
	timeline, err := pool.CreateEmptyTimeline(name)
	if err != nil {
		return nil, mediator.NewLeafError("create_timeline", err)
	}
	if timeline == nil {
		return nil, mediator.Leaff("create_timeline", "timeline %q could not be created; the name may be in use", name)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("created timeline %q", name),
		Data:    map[string]interface{}{"name": name},
	}, nil
}

func setCurrentTimeline(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	project, err := currentProject(s)
	if err != nil {
		return nil, err
	}
	name := args.String("name")
	ok, err := project.SetCurrentTimeline(name)
	if err != nil {
		return nil, mediator.NewLeafError("set_current_timeline", err)
	}
	if !ok {
		return nil, mediator.Leaff("set_current_timeline", "timeline %q not found in the current project", name)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("current timeline is now %q", name),
		Data:    map[string]interface{}{"name": name},
	}, nil
}

func addMarker(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	timeline, err := currentTimeline(s)
	if err != nil {
		return nil, err
	}
	frame := args.Int("frame")
	color := args.String("color")
	ok, err := timeline.AddMarker(frame, color, args.String("name"), args.String("note"), args.Int("duration"))
	if err != nil {
		return nil, mediator.NewLeafError("add_marker", err)
	}
	if !ok {
		return nil, mediator.Leaff("add_marker", "marker at frame %d was rejected; a marker may already exist there", frame)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("added %s marker at frame %d", color, frame),
		Data:    map[string]interface{}{"frame": frame, "color": color},
	}, nil
}

func deleteMarker(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	timeline, err := currentTimeline(s)
	if err != nil {
		return nil, err
	}
	frame := args.Int("frame")
	ok, err := timeline.DeleteMarkerAtFrame(frame)
	if err != nil {
		return nil, mediator.NewLeafError("delete_marker", err)
	}
	if !ok {
		return nil, mediator.Leaff("delete_marker", "no marker at frame %d", frame)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("deleted marker at frame %d", frame),
		Data:    map[string]interface{}{"frame": frame},
	}, nil
}

func listMarkers(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	timeline, err := currentTimeline(s)
	if err != nil {
		return nil, err
	}
	markers, err := timeline.Markers()
	if err != nil {
		return nil, mediator.NewLeafError("list_markers", err)
	}
	out := make([]map[string]interface{}, 0, len(markers))
	for frame, m := range markers {
		out = append(out, map[string]interface{}{
			"frame":    frame,
			"name":     m.Name,
			"color":    m.Color,
			"note":     m.Note,
			"duration": m.Duration,
		})
	}
	return &mediator.Result{
		Message: fmt.Sprintf("%d marker(s)", len(out)),
		Data:    map[string]interface{}{"markers": out},
	}, nil
}

func getTimelineItemList(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	timeline, err := currentTimeline(s)
	if err != nil {
		return nil, err
	}
	trackType := args.String("track_type")
	trackIndex := args.Int("track_index")
	items, err := timeline.ItemsInTrack(trackType, trackIndex)
	if err != nil {
		return nil, mediator.NewLeafError("get_timeline_item_list", err)
	}
	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		name, err := item.Name()
		if err != nil {
			return nil, mediator.NewLeafError("get_timeline_item_list", err)
		}
		start, _ := item.Start()
		end, _ := item.End()
		out = append(out, map[string]interface{}{
			"name":  name,
			"start": start,
			"end":   end,
		})
	}
	return &mediator.Result{
		Message: fmt.Sprintf("%d item(s) on %s track %d", len(out), trackType, trackIndex),
		Data:    map[string]interface{}{"items": out},
	}, nil
}

func getCurrentTimecode(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	timeline, err := currentTimeline(s)
	if err != nil {
		return nil, err
	}
	tc, err := timeline.CurrentTimecode()
	if err != nil {
		return nil, mediator.NewLeafError("get_current_timecode", err)
	}
	return &mediator.Result{
		Message: tc,
		Data:    map[string]interface{}{"timecode": tc},
		Info:    true,
	}, nil
}

func setCurrentTimecode(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	timeline, err := currentTimeline(s)
	if err != nil {
		return nil, err
	}
	tc := args.String("timecode")
	ok, err := timeline.SetCurrentTimecode(tc)
	if err != nil {
		return nil, mediator.NewLeafError("set_current_timecode", err)
	}
	if !ok {
		return nil, mediator.Leaff("set_current_timecode", "timecode %q was rejected", tc)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("playhead moved to %s", tc),
		Data:    map[string]interface{}{"timecode": tc},
	}, nil
}
