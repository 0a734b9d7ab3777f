package ops

import (
	"context"
	"fmt"

	"resolvemcp/internal/mediator"
)

func registerProject(reg *mediator.Registry) {
	reg.MustRegister(mediator.Operation{
		Name:        "list_projects",
		Title:       "List Projects",
		Description: "List the projects in the current project manager folder.",
		Handler:     listProjects,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "get_current_project",
		Title:       "Get Current Project",
		Description: "Report the name of the currently open project.",
		Handler:     getCurrentProject,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "open_project",
		Title:       "Open Project",
		Description: "Open an existing project by name.",
		Args: []mediator.ArgSpec{
			{Name: "name", Type: "string", Required: true, NonEmpty: true, Description: "Project name."},
		},
		Handler: openProject,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "create_project",
		Title:       "Create Project",
		Description: "Create a new project and open it.",
		Args: []mediator.ArgSpec{
			{Name: "name", Type: "string", Required: true, NonEmpty: true, Description: "Name for the new project."},
		},
		Handler: createProject,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "save_project",
		Title:       "Save Project",
		Description: "Save the currently open project.",
		Handler:     saveProject,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "close_project",
		Title:       "Close Project",
		Description: "Close the currently open project without saving.",
		Handler:     closeProject,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "get_project_setting",
		Title:       "Get Project Setting",
		Description: "Read one setting of the current project.",
		Args: []mediator.ArgSpec{
			{Name: "key", Type: "string", Required: true, NonEmpty: true, Description: "Setting key, e.g. timelineFrameRate."},
		},
		Handler: getProjectSetting,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "set_project_setting",
		Title:       "Set Project Setting",
		Description: "Write one setting of the current project.",
		Args: []mediator.ArgSpec{
			{Name: "key", Type: "string", Required: true, NonEmpty: true, Description: "Setting key."},
			{Name: "value", Type: "string", Required: true, Description: "New value, as Resolve expects it."},
		},
		Handler: setProjectSetting,
	})
}

func listProjects(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	pm, err := projectManager(s)
	if err != nil {
		return nil, err
	}
	names, err := pm.ProjectNames()
	if err != nil {
		return nil, mediator.NewLeafError("list_projects", err)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("%d project(s)", len(names)),
		Data:    map[string]interface{}{"projects": names},
	}, nil
}

func getCurrentProject(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	project, err := currentProject(s)
	if err != nil {
		return nil, err
	}
	name, err := project.Name()
	if err != nil {
		return nil, mediator.NewLeafError("get_current_project", err)
	}
	return &mediator.Result{
		Message: name,
		Data:    map[string]interface{}{"name": name},
		Info:    true,
	}, nil
}

func openProject(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	pm, err := projectManager(s)
	if err != nil {
		return nil, err
	}
	name := args.String("name")
	project, err := pm.LoadProject(name)
	if err != nil {
		return nil, mediator.NewLeafError("open_project", err)
	}
	if project == nil {
		return nil, mediator.Leaff("open_project", "project %q could not be opened", name)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("opened project %q", name),
		Data:    map[string]interface{}{"name": name},
	}, nil
}

func createProject(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	pm, err := projectManager(s)
	if err != nil {
		return nil, err
	}
	name := args.String("name")
	project, err := pm.CreateProject(name)
	if err != nil {
		return nil, mediator.NewLeafError("create_project", err)
	}
	if project == nil {
		return nil, mediator.Leaff("create_project", "project %q could not be created; a project with that name may already exist", name)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("created project %q", name),
		Data:    map[string]interface{}{"name": name},
	}, nil
}

func saveProject(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	pm, err := projectManager(s)
	if err != nil {
		return nil, err
	}
	ok, err := pm.SaveProject()
	if err != nil {
		return nil, mediator.NewLeafError("save_project", err)
	}
	if !ok {
		return nil, mediator.Leaff("save_project", "Resolve refused to save the project")
	}
	return &mediator.Result{Message: "project saved"}, nil
}

func closeProject(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	pm, err := projectManager(s)
	if err != nil {
		return nil, err
	}
	ok, err := pm.CloseCurrentProject()
	if err != nil {
		return nil, mediator.NewLeafError("close_project", err)
	}
	if !ok {
		return nil, mediator.Leaff("close_project", "no project is open")
	}
	return &mediator.Result{Message: "project closed"}, nil
}

func getProjectSetting(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	project, err := currentProject(s)
	if err != nil {
		return nil, err
	}
	key := args.String("key")
	value, err := project.Setting(key)
	if err != nil {
		return nil, mediator.NewLeafError("get_project_setting", err)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("%s = %s", key, value),
		Data:    map[string]interface{}{"key": key, "value": value},
		Info:    true,
	}, nil
}

func setProjectSetting(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	project, err := currentProject(s)
	if err != nil {
		return nil, err
	}
	key := args.String("key")
	value := args.String("value")
	ok, err := project.SetSetting(key, value)
	if err != nil {
		return nil, mediator.NewLeafError("set_project_setting", err)
	}
	if !ok {
		return nil, mediator.Leaff("set_project_setting", "Resolve rejected setting %s=%s", key, value)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("set %s = %s", key, value),
		Data:    map[string]interface{}{"key": key, "value": value},
	}, nil
}
