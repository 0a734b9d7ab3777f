package ops

import (
	"context"
	"fmt"

	"resolvemcp/internal/mediator"
	"resolvemcp/internal/resolve"
)

func registerMedia(reg *mediator.Registry) {
	reg.MustRegister(mediator.Operation{
		Name:        "import_media",
		Title:       "Import Media",
		Description: "Import media files into the current media pool bin.",
		Args: []mediator.ArgSpec{
			{Name: "file_path", Type: "string", Required: true, NonEmpty: true, PathMustExist: true, Description: "Absolute path of the file to import."},
		},
		Handler: importMedia,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "create_bin",
		Title:       "Create Bin",
		Description: "Create a new bin under the root of the media pool.",
		Args: []mediator.ArgSpec{
			{Name: "name", Type: "string", Required: true, NonEmpty: true, Description: "Name for the new bin."},
		},
		Handler: createBin,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "list_bins",
		Title:       "List Bins",
		Description: "List the bins under the root of the media pool.",
		Handler:     listBins,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "list_media_clips",
		Title:       "List Media Clips",
		Description: "List the clips in a bin, defaulting to the current bin.",
		Args: []mediator.ArgSpec{
			{Name: "bin", Type: "string", Description: "Bin to list; current bin when omitted."},
		},
		Handler: listMediaClips,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "move_clip_to_bin",
		Title:       "Move Clip To Bin",
		Description: "Move a named clip into a named bin.",
		Args: []mediator.ArgSpec{
			{Name: "clip_name", Type: "string", Required: true, NonEmpty: true, Description: "Clip to move."},
			{Name: "bin_name", Type: "string", Required: true, NonEmpty: true, Description: "Destination bin."},
		},
		Handler: moveClipToBin,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "get_clip_property",
		Title:       "Get Clip Property",
		Description: "Read a property of a media pool clip.",
		Args: []mediator.ArgSpec{
			{Name: "clip_name", Type: "string", Required: true, NonEmpty: true, Description: "Clip name."},
			{Name: "property", Type: "string", Required: true, NonEmpty: true, Description: "Property name, e.g. FPS."},
		},
		Handler: getClipProperty,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "set_clip_property",
		Title:       "Set Clip Property",
		Description: "Write a property of a media pool clip.",
		Args: []mediator.ArgSpec{
			{Name: "clip_name", Type: "string", Required: true, NonEmpty: true, Description: "Clip name."},
			{Name: "property", Type: "string", Required: true, NonEmpty: true, Description: "Property name."},
			{Name: "value", Type: "string", Required: true, Description: "New value."},
		},
		Handler: setClipProperty,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "append_to_timeline",
		Title:       "Append To Timeline",
		Description: "Append a named media pool clip to the end of the current timeline.",
		Args: []mediator.ArgSpec{
			{Name: "clip_name", Type: "string", Required: true, NonEmpty: true, Description: "Clip to append."},
		},
		Handler: appendToTimeline,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "delete_clips",
		Title:       "Delete Clips",
		Description: "Delete named clips from the media pool.",
		Args: []mediator.ArgSpec{
			{Name: "clip_names", Type: "array", Required: true, Description: "Names of the clips to delete."},
		},
		Handler: deleteClips,
	})
}

func importMedia(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	pool, err := mediaPool(s)
	if err != nil {
		return nil, err
	}
	path := args.String("file_path")
	items, err := pool.ImportMedia([]string{path})
	if err != nil {
		return nil, mediator.NewLeafError("import_media", err)
	}
	if len(items) == 0 {
		return nil, mediator.Leaff("import_media", "Resolve did not import %q; the format may be unsupported", path)
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		if name, err := item.Name(); err == nil {
			names = append(names, name)
		}
	}
	return &mediator.Result{
		Message: fmt.Sprintf("imported %d clip(s)", len(items)),
		Data:    map[string]interface{}{"clips": names},
	}, nil
}

func createBin(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	pool, err := mediaPool(s)
	if err != nil {
		return nil, err
	}
	root, err := pool.RootFolder()
	if err != nil {
		return nil, mediator.NewLeafError("create_bin", err)
	}
	name := args.String("name")
	folder, err := pool.AddSubFolder(root, name)
	if err != nil {
		return nil, mediator.NewLeafError("create_bin", err)
	}
	if folder == nil {
		return nil, mediator.Leaff("create_bin", "bin %q could not be created", name)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("created bin %q", name),
		Data:    map[string]interface{}{"name": name},
	}, nil
}

func listBins(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	pool, err := mediaPool(s)
	if err != nil {
		return nil, err
	}
	root, err := pool.RootFolder()
	if err != nil {
		return nil, mediator.NewLeafError("list_bins", err)
	}
	subs, err := root.SubFolders()
	if err != nil {
		return nil, mediator.NewLeafError("list_bins", err)
	}
	names := make([]string, 0, len(subs))
	for _, sub := range subs {
		if name, err := sub.Name(); err == nil {
			names = append(names, name)
		}
	}
	return &mediator.Result{
		Message: fmt.Sprintf("%d bin(s)", len(names)),
		Data:    map[string]interface{}{"bins": names},
	}, nil
}

func listMediaClips(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	pool, err := mediaPool(s)
	if err != nil {
		return nil, err
	}
	var folder resolve.Folder
	if args.Has("bin") {
		folder, err = findFolder(pool, args.String("bin"))
	} else {
		folder, err = pool.CurrentFolder()
		if err != nil {
			err = mediator.NewLeafError("list_media_clips", err)
		}
	}
	if err != nil {
		return nil, err
	}
	clips, err := folder.Clips()
	if err != nil {
		return nil, mediator.NewLeafError("list_media_clips", err)
	}
	names := make([]string, 0, len(clips))
	for _, clip := range clips {
		if name, err := clip.Name(); err == nil {
			names = append(names, name)
		}
	}
	return &mediator.Result{
		Message: fmt.Sprintf("%d clip(s)", len(names)),
		Data:    map[string]interface{}{"clips": names},
	}, nil
}

func moveClipToBin(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	pool, err := mediaPool(s)
	if err != nil {
		return nil, err
	}
	clip, err := findClip(pool, args.String("clip_name"))
	if err != nil {
		return nil, err
	}
	bin, err := findFolder(pool, args.String("bin_name"))
	if err != nil {
		return nil, err
	}
	ok, err := pool.MoveClips([]resolve.MediaPoolItem{clip}, bin)
	if err != nil {
		return nil, mediator.NewLeafError("move_clip_to_bin", err)
	}
	if !ok {
		return nil, mediator.Leaff("move_clip_to_bin", "Resolve refused to move clip %q", args.String("clip_name"))
	}
	return &mediator.Result{
		Message: fmt.Sprintf("moved %q to bin %q", args.String("clip_name"), args.String("bin_name")),
	}, nil
}

func getClipProperty(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	pool, err := mediaPool(s)
	if err != nil {
		return nil, err
	}
	clip, err := findClip(pool, args.String("clip_name"))
	if err != nil {
		return nil, err
	}
	property := args.String("property")
	value, err := clip.ClipProperty(property)
	if err != nil {
		return nil, mediator.NewLeafError("get_clip_property", err)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("%s = %s", property, value),
		Data:    map[string]interface{}{"property": property, "value": value},
		Info:    true,
	}, nil
}

func setClipProperty(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	pool, err := mediaPool(s)
	if err != nil {
		return nil, err
	}
	clip, err := findClip(pool, args.String("clip_name"))
	if err != nil {
		return nil, err
	}
	property := args.String("property")
	value := args.String("value")
	ok, err := clip.SetClipProperty(property, value)
	if err != nil {
		return nil, mediator.NewLeafError("set_clip_property", err)
	}
	if !ok {
		return nil, mediator.Leaff("set_clip_property", "Resolve rejected %s=%s on clip %q", property, value, args.String("clip_name"))
	}
	return &mediator.Result{
		Message: fmt.Sprintf("set %s = %s on %q", property, value, args.String("clip_name")),
	}, nil
}

func appendToTimeline(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	pool, err := mediaPool(s)
	if err != nil {
		return nil, err
	}
	clip, err := findClip(pool, args.String("clip_name"))
	if err != nil {
		return nil, err
	}
	ok, err := pool.AppendToTimeline([]resolve.MediaPoolItem{clip})
	if err != nil {
		return nil, mediator.NewLeafError("append_to_timeline", err)
	}
	if !ok {
		return nil, mediator.Leaff("append_to_timeline", "Resolve refused to append %q; is a timeline open?", args.String("clip_name"))
	}
	return &mediator.Result{
		Message: fmt.Sprintf("appended %q to the current timeline", args.String("clip_name")),
	}, nil
}

func deleteClips(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	pool, err := mediaPool(s)
	if err != nil {
		return nil, err
	}
	names := args.Strings("clip_names")
	if len(names) == 0 {
		return nil, mediator.Leaff("delete_clips", "clip_names is empty")
	}
	items := make([]resolve.MediaPoolItem, 0, len(names))
	for _, name := range names {
		clip, err := findClip(pool, name)
		if err != nil {
			return nil, err
		}
		items = append(items, clip)
	}
	ok, err := pool.DeleteClips(items)
	if err != nil {
		return nil, mediator.NewLeafError("delete_clips", err)
	}
	if !ok {
		return nil, mediator.Leaff("delete_clips", "Resolve refused to delete the clips")
	}
	return &mediator.Result{
		Message: fmt.Sprintf("deleted %d clip(s)", len(items)),
		Data:    map[string]interface{}{"deleted": names},
	}, nil
}
