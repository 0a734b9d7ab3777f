package ops

import (
	"context"
	"fmt"

	"resolvemcp/internal/mediator"
	"resolvemcp/internal/resolve"
)

func registerFairlight(reg *mediator.Registry) {
	reg.MustRegister(mediator.Operation{
		Name:        "get_fairlight_status",
		Title:       "Get Fairlight Status",
		Description: "Report the audio track layout of the current timeline.",
		Page:        resolve.PageFairlight,
		Handler:     getFairlightStatus,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "add_audio_track",
		Title:       "Add Audio Track",
		Description: "Add an audio track of the given channel layout to the current timeline.",
		Page:        resolve.PageFairlight,
		Args: []mediator.ArgSpec{
			{
				Name: "track_type", Type: "string", Default: "stereo",
				Enum:        []string{"mono", "stereo", "5.1", "7.1", "adaptive"},
				Description: "Channel layout of the new track.",
			},
		},
		Handler: addAudioTrack,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "set_audio_levels",
		Title:       "Set Audio Levels",
		Description: "Set the volume of the clips in one audio track.",
		Page:        resolve.PageFairlight,
		Args: []mediator.ArgSpec{
			{Name: "track_index", Type: "integer", Required: true, Min: mediator.FloatPtr(1), Description: "1-based audio track index."},
			{
				Name: "level", Type: "number", Required: true,
				Min: mediator.FloatPtr(-96), Max: mediator.FloatPtr(12),
				Description: "Volume in dB.",
			},
		},
		Handler: setAudioLevels,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "export_audio_mixdown",
		Title:       "Export Audio Mixdown",
		Description: "Queue an audio-only render of the current timeline.",
		Page:        resolve.PageDeliver,
		Args: []mediator.ArgSpec{
			{Name: "target_dir", Type: "string", Required: true, NonEmpty: true, DirWritable: true, Description: "Output file path."},
			{
				Name: "format", Type: "string", Default: "wav",
				Enum:        []string{"wav", "mp3", "aac"},
				Description: "Audio container.",
			},
		},
		Handler: exportAudioMixdown,
	})
}

func getFairlightStatus(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	timeline, err := currentTimeline(s)
	if err != nil {
		return nil, err
	}
	count, err := timeline.TrackCount("audio")
	if err != nil {
		return nil, mediator.NewLeafError("get_fairlight_status", err)
	}
	tracks := make([]map[string]interface{}, 0, count)
	for i := 1; i <= count; i++ {
		items, err := timeline.ItemsInTrack("audio", i)
		if err != nil {
			return nil, mediator.NewLeafError("get_fairlight_status", err)
		}
		tracks = append(tracks, map[string]interface{}{
			"index": i,
			"clips": len(items),
		})
	}
	return &mediator.Result{
		Message: fmt.Sprintf("%d audio track(s)", count),
		Data:    map[string]interface{}{"tracks": tracks},
		Info:    true,
	}, nil
}

func addAudioTrack(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	timeline, err := currentTimeline(s)
	if err != nil {
		return nil, err
	}
	layout := args.String("track_type")
	ok, err := timeline.AddTrack("audio", layout)
	if err != nil {
		return nil, mediator.NewLeafError("add_audio_track", err)
	}
	if !ok {
		return nil, mediator.Leaff("add_audio_track", "Resolve refused to add a %s audio track", layout)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("added %s audio track", layout),
		Data:    map[string]interface{}{"track_type": layout},
	}, nil
}

func setAudioLevels(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	timeline, err := currentTimeline(s)
	if err != nil {
		return nil, err
	}
	track := args.Int("track_index")
	level := args.Float("level")
	items, err := timeline.ItemsInTrack("audio", track)
	if err != nil {
		return nil, mediator.NewLeafError("set_audio_levels", err)
	}
	if len(items) == 0 {
		return nil, mediator.Leaff("set_audio_levels", "audio track %d has no clips", track)
	}
	for _, item := range items {
		ok, err := item.SetProperty("Volume", level)
		if err != nil {
			return nil, mediator.NewLeafError("set_audio_levels", err)
		}
		if !ok {
			return nil, mediator.Leaff("set_audio_levels", "a clip on track %d rejected the volume", track)
		}
	}
	return &mediator.Result{
		Message: fmt.Sprintf("set %d clip(s) on audio track %d to %.1f dB", len(items), track, level),
		Data:    map[string]interface{}{"track_index": track, "level": level, "clips": len(items)},
	}, nil
}

func exportAudioMixdown(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	project, err := currentProject(s)
	if err != nil {
		return nil, err
	}
	target := args.String("target_dir")
	format := args.String("format")
	ok, err := project.SetRenderSettings(map[string]interface{}{
		"TargetDir":       target,
		"ExportVideo":     false,
		"ExportAudio":     true,
		"AudioCodec":      format,
		"AudioSampleRate": 48000,
	})
	if err != nil {
		return nil, mediator.NewLeafError("export_audio_mixdown", err)
	}
	if !ok {
		return nil, mediator.Leaff("export_audio_mixdown", "Resolve rejected the mixdown render settings")
	}
	jobID, err := project.AddRenderJob()
	if err != nil {
		return nil, mediator.NewLeafError("export_audio_mixdown", err)
	}
	if _, err := project.StartRendering(jobID); err != nil {
		return nil, mediator.NewLeafError("export_audio_mixdown", err)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("audio mixdown job %s started", jobID),
		Data:    map[string]interface{}{"job_id": jobID, "target_dir": target, "format": format},
	}, nil
}
