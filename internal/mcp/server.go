package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/project-sentry/internal/domain/dashboard"
	"github.com/ganot/project-sentry/internal/domain/project"
	"github.com/ganot/project-sentry/internal/repository"
	"github.com/ganot/project-sentry/internal/transport"
)

// StateStore is the dashboard state the tools read and drive.
type StateStore interface {
	Snapshot() dashboard.Snapshot
	Props() dashboard.ViewProps
	SelectProject(id string) error
	SetView(v dashboard.View)
	LoadProjects(ctx context.Context) dashboard.LoadResult
	UploadFile(ctx context.Context, file dashboard.File, onProgress func(int)) (dashboard.UploadResult, error)
}

// Insights are the read-only API calls outside the dashboard state.
type Insights interface {
	Health(ctx context.Context) (transport.HealthStatus, error)
	GetProject(ctx context.Context, id string) (project.Detail, error)
	Dashboard(ctx context.Context) (transport.Dashboard, error)
	Issues(ctx context.Context, projectID string) ([]transport.Issue, error)
}

// Config contains server configuration.
type Config struct {
	Store    StateStore
	Insights Insights
	// KV is optional; the kv_* tools are registered only when set.
	KV            repository.KeyValueStore
	MaxFileSize   int64
	TransportMode string // "stdio" or "http"
	Version       string
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = project.MaxFileSize
	}
	if cfg.Version == "" {
		cfg.Version = "0.1.0"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "project-sentry",
		Version: cfg.Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)
	registerStateResource(server, cfg.Store)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg)

	cfg.Logger.Debug("mcp server configured", "transport", cfg.TransportMode, "kv", cfg.KV != nil)
	return server
}
