package ops

import (
	"context"
	"fmt"

	"resolvemcp/internal/mediator"
	"resolvemcp/internal/resolve"
)

// Cache-related project settings take the mode words and resolution names
// verbatim; the enum contract canonicalizes the caller's casing.
var (
	cacheModeValues    = []string{"Auto", "On", "Off"}
	proxyQualityValues = []string{"Quarter Resolution", "Half Resolution", "Three Quarter Resolution", "Full Resolution"}
)

func registerCache(reg *mediator.Registry) {
	reg.MustRegister(mediator.Operation{
		Name:        "get_cache_settings",
		Title:       "Get Cache Settings",
		Description: "Report the cache, optimized media, and proxy settings of the current project.",
		Handler:     getCacheSettings,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "set_cache_mode",
		Title:       "Set Cache Mode",
		Description: "Set the render cache mode of the current project.",
		Args: []mediator.ArgSpec{
			{
				Name: "mode", Type: "string", Required: true,
				Enum:        cacheModeValues,
				Description: "Cache mode.",
			},
		},
		Handler: setCacheMode,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "set_optimized_media_mode",
		Title:       "Set Optimized Media Mode",
		Description: "Control whether playback prefers optimized media.",
		Args: []mediator.ArgSpec{
			{
				Name: "mode", Type: "string", Required: true,
				Enum:        cacheModeValues,
				Description: "Optimized media mode.",
			},
		},
		Handler: setOptimizedMediaMode,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "set_proxy_mode",
		Title:       "Set Proxy Mode",
		Description: "Control whether playback prefers proxy media.",
		Args: []mediator.ArgSpec{
			{
				Name: "mode", Type: "string", Required: true,
				Enum:        cacheModeValues,
				Description: "Proxy mode.",
			},
		},
		Handler: setProxyMode,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "set_proxy_quality",
		Title:       "Set Proxy Quality",
		Description: "Set the resolution fraction used for proxy media.",
		Args: []mediator.ArgSpec{
			{
				Name: "quality", Type: "string", Required: true,
				Enum:        proxyQualityValues,
				Description: "Proxy resolution.",
			},
		},
		Handler: setProxyQuality,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "generate_optimized_media",
		Title:       "Generate Optimized Media",
		Description: "Generate optimized media for named clips, or every clip in the current bin.",
		Args: []mediator.ArgSpec{
			{Name: "clip_names", Type: "array", Description: "Clips to optimize; the whole current bin when omitted."},
		},
		Handler: generateOptimizedMedia,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "delete_optimized_media",
		Title:       "Delete Optimized Media",
		Description: "Discard optimized media for named clips, or every clip in the current bin.",
		Args: []mediator.ArgSpec{
			{Name: "clip_names", Type: "array", Description: "Clips to clean up; the whole current bin when omitted."},
		},
		Handler: deleteOptimizedMedia,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "clear_render_cache",
		Title:       "Clear Render Cache",
		Description: "Discard the render cache files of the current project.",
		Handler:     clearRenderCache,
	})
}

func getCacheSettings(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	project, err := currentProject(s)
	if err != nil {
		return nil, err
	}
	keys := map[string]string{
		"cache_mode":           "cacheModeClipColor",
		"optimized_media_mode": "optimizedMediaOn",
		"proxy_media_mode":     "proxyOn",
		"proxy_quality":        "proxyQuality",
	}
	settings := map[string]interface{}{}
	for name, key := range keys {
		value, err := project.Setting(key)
		if err != nil {
			return nil, mediator.NewLeafError("get_cache_settings", err)
		}
		settings[name] = value
	}
	return &mediator.Result{
		Message: "cache settings",
		Data:    map[string]interface{}{"settings": settings},
		Info:    true,
	}, nil
}

// setCacheSetting writes one mode-style project setting. Values go through
// verbatim; the enum contract already canonicalized them.
func setCacheSetting(s *mediator.Session, op, key, value string) (*mediator.Result, error) {
	project, err := currentProject(s)
	if err != nil {
		return nil, err
	}
	ok, err := project.SetSetting(key, value)
	if err != nil {
		return nil, mediator.NewLeafError(op, err)
	}
	if !ok {
		return nil, mediator.Leaff(op, "Resolve rejected %s=%s", key, value)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("%s set to %s", key, value),
		Data:    map[string]interface{}{"setting": key, "mode": value},
	}, nil
}

func setCacheMode(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	return setCacheSetting(s, "set_cache_mode", "cacheModeClipColor", args.String("mode"))
}

func setOptimizedMediaMode(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	return setCacheSetting(s, "set_optimized_media_mode", "optimizedMediaOn", args.String("mode"))
}

func setProxyMode(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	return setCacheSetting(s, "set_proxy_mode", "proxyOn", args.String("mode"))
}

func setProxyQuality(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	return setCacheSetting(s, "set_proxy_quality", "proxyQuality", args.String("quality"))
}

// resolveClipSelection maps the optional clip_names argument to media pool
// items, defaulting to everything in the current bin.
func resolveClipSelection(pool resolve.MediaPool, op string, args mediator.Args) ([]resolve.MediaPoolItem, error) {
	if args.Has("clip_names") {
		names := args.Strings("clip_names")
		items := make([]resolve.MediaPoolItem, 0, len(names))
		for _, name := range names {
			clip, err := findClip(pool, name)
			if err != nil {
				return nil, err
			}
			items = append(items, clip)
		}
		return items, nil
	}
	folder, err := pool.CurrentFolder()
	if err != nil {
		return nil, mediator.NewLeafError(op, err)
	}
	items, err := folder.Clips()
	if err != nil {
		return nil, mediator.NewLeafError(op, err)
	}
	if len(items) == 0 {
		return nil, mediator.Leaff(op, "the current bin has no clips")
	}
	return items, nil
}

func generateOptimizedMedia(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	pool, err := mediaPool(s)
	if err != nil {
		return nil, err
	}
	items, err := resolveClipSelection(pool, "generate_optimized_media", args)
	if err != nil {
		return nil, err
	}
	ok, err := pool.GenerateOptimizedMedia(items)
	if err != nil {
		return nil, mediator.NewLeafError("generate_optimized_media", err)
	}
	if !ok {
		return nil, mediator.Leaff("generate_optimized_media", "Resolve refused to generate optimized media")
	}
	return &mediator.Result{
		Message: fmt.Sprintf("generating optimized media for %d clip(s)", len(items)),
		Data:    map[string]interface{}{"clips": len(items)},
	}, nil
}

func deleteOptimizedMedia(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	pool, err := mediaPool(s)
	if err != nil {
		return nil, err
	}
	items, err := resolveClipSelection(pool, "delete_optimized_media", args)
	if err != nil {
		return nil, err
	}
	ok, err := pool.DeleteOptimizedMedia(items)
	if err != nil {
		return nil, mediator.NewLeafError("delete_optimized_media", err)
	}
	if !ok {
		return nil, mediator.Leaff("delete_optimized_media", "Resolve refused to delete the optimized media")
	}
	return &mediator.Result{
		Message: fmt.Sprintf("deleted optimized media for %d clip(s)", len(items)),
		Data:    map[string]interface{}{"clips": len(items)},
	}, nil
}

func clearRenderCache(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	project, err := currentProject(s)
	if err != nil {
		return nil, err
	}
	ok, err := project.ClearRenderCache()
	if err != nil {
		return nil, mediator.NewLeafError("clear_render_cache", err)
	}
	if !ok {
		return nil, mediator.Leaff("clear_render_cache", "Resolve refused to clear the render cache")
	}
	return &mediator.Result{Message: "render cache cleared"}, nil
}
