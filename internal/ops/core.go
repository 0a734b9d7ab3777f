package ops

import (
	"context"
	"fmt"
	"strings"

	"resolvemcp/internal/mediator"
	"resolvemcp/internal/resolve"
)

func registerCore(reg *mediator.Registry) {
	reg.MustRegister(mediator.Operation{
		Name:        "switch_page",
		Title:       "Switch Page",
		Description: "Switch the Resolve UI to the named page.",
		Args: []mediator.ArgSpec{
			{
				Name: "page", Type: "string", Required: true,
				Description: "Target page.",
				Enum:        resolve.Pages(),
			},
		},
		Handler: switchPage,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "get_product_info",
		Title:       "Get Product Info",
		Description: "Report the product name and version of the connected Resolve instance.",
		Handler:     getProductInfo,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "get_connection_status",
		Title:       "Get Connection Status",
		Description: "Report whether the bridge currently holds a live scripting handle.",
		NoHost:      true,
		Handler:     getConnectionStatus,
	})

	reg.MustRegister(mediator.Operation{
		Name:        "reconnect",
		Title:       "Reconnect",
		Description: "Drop the scripting handle and dial Resolve fresh.",
		NoHost:      true,
		Handler:     reconnect,
	})
}

func switchPage(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	host, err := s.Host()
	if err != nil {
		return nil, err
	}
	page := strings.ToLower(args.String("page"))
	ok, err := host.OpenPage(page)
	if err != nil {
		return nil, &mediator.PageSwitchError{Page: page, Cause: err}
	}
	if !ok {
		return nil, &mediator.PageSwitchError{Page: page}
	}
	return &mediator.Result{
		Message: fmt.Sprintf("switched to %s page", page),
		Data:    map[string]interface{}{"page": page},
	}, nil
}

func getProductInfo(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	host, err := s.Host()
	if err != nil {
		return nil, err
	}
	name, err := host.ProductName()
	if err != nil {
		return nil, mediator.NewLeafError("get_product_info", err)
	}
	version, err := host.Version()
	if err != nil {
		return nil, mediator.NewLeafError("get_product_info", err)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("%s %s", name, version),
		Data: map[string]interface{}{
			"product": name,
			"version": version,
		},
		Info: true,
	}, nil
}

func getConnectionStatus(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	snap := s.Snapshot()
	data := map[string]interface{}{
		"connected": snap.Connected,
		"page":      snap.Page,
	}
	if !snap.LastCall.IsZero() {
		data["last_successful_call"] = snap.LastCall.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	message := "connected to DaVinci Resolve"
	if !snap.Connected {
		message = "not connected to DaVinci Resolve"
	}
	return &mediator.Result{Message: message, Data: data, Info: true}, nil
}

func reconnect(ctx context.Context, s *mediator.Session, args mediator.Args) (*mediator.Result, error) {
	s.Reset()
	host, err := s.Acquire()
	if err != nil {
		return nil, err
	}
	name, err := host.ProductName()
	if err != nil {
		return nil, mediator.NewLeafError("reconnect", err)
	}
	return &mediator.Result{
		Message: fmt.Sprintf("reconnected to %s", name),
		Data:    map[string]interface{}{"product": name},
	}, nil
}
