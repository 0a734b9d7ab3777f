// Package server exposes the operation catalogue over MCP. Every registered
// operation becomes one MCP tool; tool calls are forwarded to the dispatcher
// and the resulting envelope is returned verbatim as the tool payload, so
// clients see one stable response shape regardless of outcome.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"resolvemcp/internal/config"
	"resolvemcp/internal/mediator"
	"resolvemcp/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Server runs the MCP endpoint on one of the supported transports.
type Server struct {
	cfg        config.ServerConfig
	dispatcher *mediator.Dispatcher
	mcp        *mcpserver.MCPServer

	sse        *mcpserver.SSEServer
	streamable *mcpserver.StreamableHTTPServer
	stdio      *mcpserver.StdioServer

	ctx        context.Context
	cancelFunc context.CancelFunc
	mu         sync.Mutex
}

// New builds the MCP server and registers one tool per operation. The
// catalogue is static, so registration happens once here rather than through
// capability updates.
func New(dispatcher *mediator.Dispatcher, cfg config.ServerConfig, version string) *Server {
	m := mcpserver.NewMCPServer(
		"resolvemcp",
		version,
		mcpserver.WithToolCapabilities(false),
	)

	s := &Server{
		cfg:        cfg,
		dispatcher: dispatcher,
		mcp:        m,
	}

	ops := dispatcher.Registry().Operations()
	for _, op := range ops {
		m.AddTool(toolFromOperation(op), s.handlerFor(op.Name))
	}
	logging.Info("Server", "Registered %d tools", len(ops))

	return s
}

// Start launches the configured transport. The transport runs in the
// background; the caller owns process lifetime and calls Stop on shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx != nil {
		return fmt.Errorf("server already started")
	}
	s.ctx, s.cancelFunc = context.WithCancel(ctx)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	switch s.cfg.Transport {
	case config.TransportSSE:
		logging.Info("Server", "Starting MCP server with SSE transport on %s", addr)
		s.sse = mcpserver.NewSSEServer(
			s.mcp,
			mcpserver.WithBaseURL(fmt.Sprintf("http://%s", addr)),
			mcpserver.WithSSEEndpoint("/sse"),
			mcpserver.WithMessageEndpoint("/message"),
			mcpserver.WithKeepAlive(true),
			mcpserver.WithKeepAliveInterval(30*time.Second),
		)
		sse := s.sse
		go func() {
			if err := sse.Start(addr); err != nil && err != http.ErrServerClosed {
				logging.Error("Server", err, "SSE server error")
			}
		}()

	case config.TransportStreamable:
		logging.Info("Server", "Starting MCP server with streamable-http transport on %s", addr)
		s.streamable = mcpserver.NewStreamableHTTPServer(s.mcp)
		streamable := s.streamable
		go func() {
			if err := streamable.Start(addr); err != nil && err != http.ErrServerClosed {
				logging.Error("Server", err, "Streamable HTTP server error")
			}
		}()

	case config.TransportStdio:
		fallthrough
	default:
		logging.Info("Server", "Starting MCP server with stdio transport")
		s.stdio = mcpserver.NewStdioServer(s.mcp)
		stdio := s.stdio
		runCtx := s.ctx
		go func() {
			if err := stdio.Listen(runCtx, os.Stdin, os.Stdout); err != nil && runCtx.Err() == nil {
				logging.Error("Server", err, "Stdio server error")
			}
		}()
	}

	return nil
}

// Stop shuts the transport down. The stdio transport stops on context
// cancellation and needs no explicit shutdown.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return fmt.Errorf("server not started")
	}

	logging.Info("Server", "Stopping MCP server")
	s.cancelFunc()

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if s.sse != nil {
		if err := s.sse.Shutdown(shutdownCtx); err != nil {
			logging.Error("Server", err, "Error shutting down SSE server")
		}
	}
	if s.streamable != nil {
		if err := s.streamable.Shutdown(shutdownCtx); err != nil {
			logging.Error("Server", err, "Error shutting down streamable HTTP server")
		}
	}

	s.ctx = nil
	s.sse = nil
	s.streamable = nil
	s.stdio = nil
	return nil
}

// handlerFor adapts one operation into an MCP tool handler. The envelope is
// the payload: errors travel inside it with IsError set, never as transport
// errors, so the dispatcher's no-raise guarantee extends to the wire.
func (s *Server) handlerFor(name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := map[string]interface{}{}
		if m, ok := req.Params.Arguments.(map[string]interface{}); ok {
			args = m
		}

		env := s.dispatcher.Dispatch(ctx, name, args)

		payload, err := json.Marshal(env)
		if err != nil {
			return nil, fmt.Errorf("failed to encode response for %s: %w", name, err)
		}

		result := mcp.NewToolResultText(string(payload))
		result.IsError = env.IsError()
		return result, nil
	}
}
