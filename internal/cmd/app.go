package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ganot/project-sentry/internal/config"
	"github.com/ganot/project-sentry/internal/domain/dashboard"
	"github.com/ganot/project-sentry/internal/logging"
	"github.com/ganot/project-sentry/internal/sqlite"
	"github.com/ganot/project-sentry/internal/transport"
)

// KV keys for state kept between runs.
const (
	keySelectedProject = "sentry.selected_project"
	keyCurrentView     = "sentry.current_view"
)

// app is the wiring shared by the commands.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	client *transport.Client
	db     *sqlite.DB
	kv     *sqlite.KVStore
	store  *dashboard.Store

	closers []io.Closer
}

func (o *options) loadConfig() (config.Config, error) {
	path := o.configPath
	if path == "" {
		path = os.Getenv("SENTRY_CONFIG_PATH")
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return config.Config{}, err
	}
	if o.apiURL != "" {
		cfg.API.BaseURL = o.apiURL
	}
	if o.dbPath != "" {
		cfg.DB.Path = o.dbPath
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// openApp wires config, logging, the API client and the local store.
// Logs go to the command's stderr.
func openApp(cmd *cobra.Command, o *options) (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger, logCloser := logging.New(cmd.ErrOrStderr(), cfg.Log.Level)
	a := &app{cfg: cfg, logger: logger, closers: []io.Closer{logCloser}}

	if err := sqlite.EnsureDir(cfg.DB.Path); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, db)
	if err := db.RunMigrations(); err != nil {
		a.Close()
		return nil, err
	}
	a.db = db
	a.kv = sqlite.NewKVStore(db, logger)

	a.client = transport.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger)

	opts := dashboard.DefaultOptions()
	opts.TickInterval = cfg.Upload.TickInterval
	opts.MaxTickStep = cfg.Upload.MaxTickStep
	opts.FallbackEnabled = cfg.Loader.FallbackEnabled
	opts.MaskUploadFailures = cfg.Upload.MaskFailures
	a.store = dashboard.NewStore(a.client, logger, opts)

	return a, nil
}

// start loads projects and restores the selection and view from the last run.
func (a *app) start(ctx context.Context) dashboard.LoadResult {
	res := a.store.Start(ctx)

	if id := sqlite.GetAs(ctx, a.kv, keySelectedProject, ""); id != "" {
		if err := a.store.SelectProject(id); err != nil {
			a.logger.Debug("saved selection no longer present", "id", id)
		}
	}
	if v := sqlite.GetAs(ctx, a.kv, keyCurrentView, ""); v != "" {
		a.store.SetView(dashboard.View(v))
	}
	return res
}

// persist saves the selection and view for the next run.
func (a *app) persist(ctx context.Context) {
	snap := a.store.Snapshot()
	if snap.Selected != nil {
		a.kv.Set(ctx, keySelectedProject, snap.Selected.ID)
	} else {
		a.kv.Remove(ctx, keySelectedProject)
	}
	a.kv.Set(ctx, keyCurrentView, string(snap.View))
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}
