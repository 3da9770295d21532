package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/formgridgo/internal/ctxlog"
	"github.com/vk/formgridgo/internal/graph"
	"github.com/vk/formgridgo/internal/hclform"
	"github.com/vk/formgridgo/internal/model"
	"github.com/vk/formgridgo/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	res      *graph.Resolution
	opts     *model.Options
}

// NewApp loads the form, populates the registry, and resolves the dependency
// graph. Registration-time errors (invalid specs, cycles) are the one error
// class surfaced synchronously: an invalid graph cannot be partially
// resolved, so nothing executes.
func NewApp(outW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	opts, err := loadProfile(cfg.ProfilePath)
	if err != nil {
		return nil, err
	}
	logger.Debug("Execution profile loaded.",
		"timeout", opts.Timeout, "max_results", opts.MaxResults, "progress_threshold", opts.ProgressThreshold)

	specs, err := hclform.Load(ctx, cfg.FormPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load form: %w", err)
	}

	reg := registry.New()
	if err := reg.RegisterAll(specs); err != nil {
		return nil, err
	}
	logger.Debug("All parameters registered.", "count", reg.Len())

	res, err := graph.Resolve(ctx, reg)
	if err != nil {
		return nil, err
	}
	logger.Debug("Dependency graph resolved.", "order", res.Order())

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		res:      res,
		opts:     opts,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
