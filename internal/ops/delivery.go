package ops

import (
	"context"
	"fmt"

	"resolvemcp/internal/mediator"
	"resolvemcp/internal/resolve"
)

func registerDelivery(reg *mediator.Registry) {
	reg.MustRegister(mediator.Operation{
		Name:        "list_render_presets",
		Title:       "List Render Presets",
		Description: "List the render presets available to the current project.",
		Page:        resolve.PageDeliver,
		Handler:     listRenderPresets,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "add_render_job",
		Title:       "Add Render Job",
		Description: "Queue a render of the current timeline.",
		Page:        resolve.PageDeliver,
		Args: []mediator.ArgSpec{
			{Name: "target_dir", Type: "string", Required: true, NonEmpty: true, DirWritable: true, Description: "Output directory or file path."},
			{Name: "preset_name", Type: "string", Description: "Render preset to apply before queueing."},
			{Name: "custom_name", Type: "string", Description: "Custom output file name."},
		},
		Handler: addRenderJob,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "start_render",
		Title:       "Start Render",
		Description: "Start rendering the queued jobs.",
		Page:        resolve.PageDeliver,
		Handler:     startRender,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "get_render_status",
		Title:       "Get Render Status",
		Description: "Report whether a render is in progress, and job detail when asked.",
		Page:        resolve.PageDeliver,
		Args: []mediator.ArgSpec{
			{Name: "job_id", Type: "string", Description: "Job to inspect; overall status when omitted."},
		},
		Handler: getRenderStatus,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "delete_render_job",
		Title:       "Delete Render Job",
		Description: "Remove one job from the render queue.",
		Page:        resolve.PageDeliver,
		Args: []mediator.ArgSpec{
			{Name: "job_id", Type: "string", Required: true, NonEmpty: true, Description: "Job to remove."},
		},
		Handler: deleteRenderJob,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "clear_render_queue",
		Title:       "Clear Render Queue",
		Description: "Remove every job from the render queue.",
		Page:        resolve.PageDeliver,
		Handler:     clearRenderQueue,
	})
}

func listRenderPresets(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	project, err := currentProject(s)
	if err != nil {
		return nil, err
	}
	presets, err := project.RenderPresets()
	if err != nil {
		return nil, mediator.NewLeafError("list_render_presets", err)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("%d preset(s)", len(presets)),
		Data:    map[string]interface{}{"presets": presets},
	}, nil
}

func addRenderJob(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	project, err := currentProject(s)
	if err != nil {
		return nil, err
	}
	settings := map[string]interface{}{
		"TargetDir": args.String("target_dir"),
	}
	if args.Has("preset_name") {
		settings["SelectPreset"] = args.String("preset_name")
	}
	if args.Has("custom_name") {
		settings["CustomName"] = args.String("custom_name")
	}
	ok, err := project.SetRenderSettings(settings)
	if err != nil {
		return nil, mediator.NewLeafError("add_render_job", err)
	}
	if !ok {
		return nil, mediator.Leaff("add_render_job", "Resolve rejected the render settings")
	}
	jobID, err := project.AddRenderJob()
	if err != nil {
		return nil, mediator.NewLeafError("add_render_job", err)
	}
	if jobID == "" {
		return nil, mediator.Leaff("add_render_job", "no render job was created; is a timeline open?")
	}
	return &mediator.Result{
		Message: fmt.Sprintf("queued render job %s", jobID),
		Data:    map[string]interface{}{"job_id": jobID},
	}, nil
}

func startRender(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	project, err := currentProject(s)
	if err != nil {
		return nil, err
	}
	ok, err := project.StartRendering()
	if err != nil {
		return nil, mediator.NewLeafError("start_render", err)
	}
	if !ok {
		return nil, mediator.Leaff("start_render", "the render queue is empty or rendering is already running")
	}
	return &mediator.Result{Message: "rendering started"}, nil
}

func getRenderStatus(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	project, err := currentProject(s)
	if err != nil {
		return nil, err
	}
	rendering, err := project.IsRenderingInProgress()
	if err != nil {
		return nil, mediator.NewLeafError("get_render_status", err)
	}
	data := map[string]interface{}{"rendering": rendering}
	if args.Has("job_id") {
		status, err := project.RenderJobStatus(args.String("job_id"))
		if err != nil {
			return nil, mediator.NewLeafError("get_render_status", err)
		}
		data["job"] = status
	}
	message := "no render in progress"
	if rendering {
		message = "render in progress"
	}
	return &mediator.Result{Message: message, Data: data, Info: true}, nil
}

func deleteRenderJob(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	project, err := currentProject(s)
	if err != nil {
		return nil, err
	}
	jobID := args.String("job_id")
	ok, err := project.DeleteRenderJob(jobID)
	if err != nil {
		return nil, mediator.NewLeafError("delete_render_job", err)
	}
	if !ok {
		return nil, mediator.Leaff("delete_render_job", "job %s not found in the queue", jobID)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("deleted render job %s", jobID),
		Data:    map[string]interface{}{"job_id": jobID},
	}, nil
}

func clearRenderQueue(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	project, err := currentProject(s)
	if err != nil {
		return nil, err
	}
	ok, err := project.DeleteAllRenderJobs()
	if err != nil {
		return nil, mediator.NewLeafError("clear_render_queue", err)
	}
	if !ok {
		return nil, mediator.Leaff("clear_render_queue", "Resolve refused to clear the queue")
	}
	return &mediator.Result{Message: "render queue cleared"}, nil
}
