package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/scout/pkg/log"
	"github.com/macropower/scout/pkg/present"
	"github.com/macropower/scout/pkg/suggest"
	"github.com/macropower/scout/pkg/version"
)

// ErrNoSnapshot is returned by tools before a [Snapshot] is set.
var ErrNoSnapshot = errors.New("no agent registry loaded")

// Snapshot is the configuration a [Server] answers with. It is replaced as a
// whole when the configuration is reloaded.
type Snapshot struct {
	Suggester *suggest.Suggester
	Presenter *present.Presenter
}

// NewSnapshot creates a [Snapshot]. A nil presenter uses [present.New].
func NewSnapshot(s *suggest.Suggester, p *present.Presenter) *Snapshot {
	if p == nil {
		p = present.New()
	}

	return &Snapshot{Suggester: s, Presenter: p}
}

// Server implements the MCP server for scout.
type Server struct {
	tracer   trace.Tracer
	server   *mcp.Server
	current  atomic.Pointer[Snapshot]
	address  string
	timeout  time.Duration
	reloaded atomic.Int64
}

// ServerOpt is a functional option for configuring a [Server].
type ServerOpt func(*Server)

// WithAddress serves streamable HTTP on addr instead of stdio.
func WithAddress(addr string) ServerOpt {
	return func(s *Server) {
		s.address = addr
	}
}

// WithShutdownTimeout sets how long the HTTP server waits for open
// connections when the context is canceled. Defaults to 5 seconds.
func WithShutdownTimeout(d time.Duration) ServerOpt {
	return func(s *Server) {
		s.timeout = d
	}
}

// NewServer creates a new MCP server instance answering with snap.
func NewServer(snap *Snapshot, opts ...ServerOpt) *Server {
	impl := &mcp.Implementation{
		Name:    name,
		Version: version.GetVersion(),
	}

	s := &Server{
		tracer:  otel.Tracer("mcp"),
		server:  mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.current.Store(snap)
	s.registerTools()

	return s
}

// registerTools registers all available tools with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "suggest_agents",
		Description: "Suggest the specialized agents best suited to a task. Returns a primary agent, up to two alternatives, and the command that launches each.",
	}, WithTracing(s.tracer, s.handleSuggestAgents))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_agents",
		Description: "List every available agent with its priority, trigger phrases, and the file rules that imply it.",
	}, WithTracing(s.tracer, s.handleListAgents))
}

// Swap replaces the active [Snapshot]. In-flight tool calls finish with the
// snapshot they started with.
func (s *Server) Swap(snap *Snapshot) {
	s.current.Store(snap)
	s.reloaded.Add(1)
}

// Snapshot returns the active [Snapshot].
func (s *Server) Snapshot() *Snapshot {
	return s.current.Load()
}

// Reloads returns how many times the snapshot was replaced.
func (s *Server) Reloads() int64 {
	return s.reloaded.Load()
}

// Server returns the underlying MCP server.
func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve serves on stdio, or on HTTP when an address was given, until ctx is
// canceled.
func (s *Server) Serve(ctx context.Context) error {
	if s.address != "" {
		return s.serveHTTP(ctx)
	}

	err := s.server.Run(ctx, &mcp.StdioTransport{})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serve stdio: %w", err)
	}

	return nil
}

func (s *Server) serveHTTP(ctx context.Context) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	server := &http.Server{
		Addr:              s.address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		log.WithContext(ctx).InfoContext(ctx, "serving MCP over HTTP", slog.String("address", s.address))

		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve HTTP: %w", err)
		}

		return nil

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			return fmt.Errorf("shutdown HTTP: %w", err)
		}

		return nil
	}
}
