package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/project-sentry/internal/config"
	"github.com/ganot/project-sentry/internal/domain/dashboard"
	"github.com/ganot/project-sentry/internal/logging"
	"github.com/ganot/project-sentry/internal/mcp"
	"github.com/ganot/project-sentry/internal/sqlite"
	"github.com/ganot/project-sentry/internal/transport"
)

// Version is set at build time.
var Version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// stdout carries JSON-RPC in stdio mode.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	logger, logCloser := logging.New(logWriter, cfg.Log.Level)
	defer logCloser.Close()

	if err := sqlite.EnsureDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	client := transport.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger)

	opts := dashboard.DefaultOptions()
	opts.TickInterval = cfg.Upload.TickInterval
	opts.MaxTickStep = cfg.Upload.MaxTickStep
	opts.FallbackEnabled = cfg.Loader.FallbackEnabled
	opts.MaskUploadFailures = cfg.Upload.MaskFailures
	store := dashboard.NewStore(client, logger, opts)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	res := store.Start(ctx)
	logger.Info("projects loaded", "outcome", res.Outcome, "count", res.Count, "api", client.BaseURL())

	mcpServer := mcp.NewServer(mcp.Config{
		Store:         store,
		Insights:      client,
		KV:            sqlite.NewKVStore(db, logger),
		MaxFileSize:   cfg.Upload.MaxFileSize,
		TransportMode: cfg.Transport.Mode,
		Version:       Version,
		Logger:        logger,
	})

	if cfg.Transport.Mode == "stdio" {
		err = runStdioMode(ctx, logger, mcpServer)
	} else {
		err = runHTTPMode(ctx, logger, mcpServer, cfg.Server.Host, cfg.Server.Port)
	}
	if err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")
	// Run blocks until stdin closes or ctx is cancelled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server, host string, port int) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)

	e := newRouter(mcpHandler)

	addr := fmt.Sprintf("%s:%d", host, port)
	errc := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}

func newRouter(mcpHandler http.Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	e.Any("/mcp", echo.WrapHandler(mcpHandler))
	e.Any("/mcp/*", echo.WrapHandler(mcpHandler))
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	return e
}
