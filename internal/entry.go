// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/ehwaz/internal/attach"
	"github.com/starford/ehwaz/internal/bundle"
	"github.com/starford/ehwaz/internal/ident"
	"github.com/starford/ehwaz/internal/link"
	"github.com/starford/ehwaz/internal/raw"
	"github.com/starford/ehwaz/internal/watch"
)

// Run executes an import with the given options. Configuration errors abort
// before anything is mutated; per-file failures are summarized and do not
// make the run fail.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	mode, err := link.ParseMode(cfg.Link.Mode)
	if err != nil {
		return err
	}

	logger.Info("Configuration loaded",
		slog.String("sync_path", cfg.Sync.Path),
		slog.String("files_path", cfg.Files.Path),
		slog.String("link_mode", mode.String()),
		slog.Bool("watch", cfg.App.Watch),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Snapshot every identifier already in use, once, before any allocation.
	existing, err := ident.Scan(cfg.Sync.Path)
	if err != nil {
		return fmt.Errorf("scan sync target: %w", err)
	}
	logger.Info("Sync target scanned", slog.Int("known_ids", len(existing)))

	alloc := ident.New(existing)

	// File mode needs the attach directory table before anything moves.
	var registry *attach.Registry
	if mode == link.ModeFile {
		if cfg.Link.AttachConfig == "" {
			return fmt.Errorf("file mode: %w", attach.ErrMissingConfig)
		}
		registry, err = attach.Load(cfg.Link.AttachConfig)
		if err != nil {
			return err
		}
		if err := registry.EnsurePrimary(); err != nil {
			return err
		}
		primary := registry.Primary()
		logger.Info("Attach directory ready",
			slog.String("link_name", primary.LinkName),
			slog.String("dir", primary.Dir),
			slog.Int("entries", len(registry.Entries())))
	}

	resolver, err := link.NewResolver(mode, registry)
	if err != nil {
		return err
	}

	out, err := raw.Create(cfg.Files.Path)
	if err != nil {
		return err
	}
	logger.Info("RAW bundle created", slog.String("path", out.Root()))

	builder := bundle.New(cfg.Files.Path, alloc, resolver, out, logger)

	if _, err := builder.Sweep(); err != nil {
		return fmt.Errorf("import run: %w", err)
	}

	if !cfg.App.Watch {
		logSummary(logger, builder.Report())
		return nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	watchCtx, stop := context.WithCancel(gCtx)
	defer stop()

	g.Go(func() error {
		return watch.Run(watchCtx, cfg.Files.Path, builder, logger)
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
		}
		stop()
		return nil
	})

	err = g.Wait()
	logSummary(logger, builder.Report())
	if err != nil {
		return fmt.Errorf("watch run: %w", err)
	}
	return nil
}

// logSummary reports the run outcome: counts always, failed files one by one
// so the user can retry just those.
func logSummary(logger *slog.Logger, report *bundle.Report) {
	logger.Info("Run complete",
		slog.Int("imported", len(report.Imported)),
		slog.Int("failed", len(report.Failed)))
	for _, f := range report.Failed {
		logger.Warn("File was skipped",
			slog.String("file", f.File),
			slog.String("error", f.Err.Error()))
	}
}
