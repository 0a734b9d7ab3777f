// Package app bootstraps the bridge: it loads configuration, wires the
// scripting connection, the operation catalogue and the dispatcher together,
// and runs the MCP server until the process is told to stop.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"resolvemcp/internal/config"
	"resolvemcp/internal/mediator"
	"resolvemcp/internal/ops"
	"resolvemcp/internal/resolve"
	"resolvemcp/internal/resolve/scriptbridge"
	"resolvemcp/internal/server"
	"resolvemcp/pkg/logging"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Options carries the command-line overrides. Zero values mean "use the
// configuration file".
type Options struct {
	ConfigPath string
	LogLevel   string
	Transport  string
	Port       int
}

// Application holds the wired components for one server process.
type Application struct {
	cfg        config.Config
	cfgPath    string
	dispatcher *mediator.Dispatcher
	server     *server.Server
}

// NewApplication performs the bootstrap sequence: configuration, logging,
// session, catalogue, dispatcher, server. It fails fast on configuration
// errors; a missing Resolve instance is not an error here, the session dials
// lazily on the first call.
func NewApplication(opts Options) (*Application, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.Transport != "" {
		cfg.Server.Transport = opts.Transport
	}
	if opts.Port != 0 {
		cfg.Server.Port = opts.Port
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// The stdio transport owns stdout for the protocol stream, so logs
	// always go to stderr.
	logging.Init(logging.ParseLevel(cfg.LogLevel), os.Stderr)
	logging.Info("Bootstrap", "resolvemcp %s starting (transport=%s)", Version, cfg.Server.Transport)

	gatewayURL := cfg.Resolve.GatewayURL
	session := mediator.NewSession(func() (resolve.Host, error) {
		return scriptbridge.Dial(gatewayURL)
	})

	registry := mediator.NewRegistry()
	ops.RegisterAll(registry)
	logging.Info("Bootstrap", "Operation catalogue holds %d operations", registry.Len())

	dispatcher := mediator.NewDispatcher(registry, session, mediator.Options{
		QueueTimeout: cfg.Timeouts.Queue,
		ExecTimeout:  cfg.Timeouts.Exec,
	})

	return &Application{
		cfg:        cfg,
		cfgPath:    path,
		dispatcher: dispatcher,
		server:     server.New(dispatcher, cfg.Server, Version),
	}, nil
}

// Dispatcher exposes the wired dispatcher, used by the CLI inspection
// commands.
func (a *Application) Dispatcher() *mediator.Dispatcher {
	return a.dispatcher
}

// Run starts the server and blocks until the context is cancelled or the
// process receives SIGINT/SIGTERM. The configuration file is watched for the
// lifetime of the process; timeout and log-level changes apply without a
// restart.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.server.Start(ctx); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	go func() {
		if err := config.Watch(ctx, a.cfgPath, a.applyConfig); err != nil {
			logging.Warn("Bootstrap", "Configuration watcher stopped: %v", err)
		}
	}()

	<-ctx.Done()
	logging.Info("Bootstrap", "Shutdown signal received")

	return a.server.Stop(context.Background())
}

// applyConfig folds a reloaded configuration into the running process. Only
// the hot-reloadable fields take effect; transport and address changes need
// a restart.
func (a *Application) applyConfig(cfg config.Config) {
	a.dispatcher.SetTimeouts(cfg.Timeouts.Queue, cfg.Timeouts.Exec)
	if cfg.LogLevel != a.cfg.LogLevel {
		logging.SetLevel(logging.ParseLevel(cfg.LogLevel))
		logging.Info("Bootstrap", "Log level changed to %s", cfg.LogLevel)
	}
	a.cfg.Timeouts = cfg.Timeouts
	a.cfg.LogLevel = cfg.LogLevel
}
