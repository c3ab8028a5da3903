package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/objectmomma/internal/actualize"
	"github.com/specialistvlad/objectmomma/internal/ctxlog"
	"github.com/specialistvlad/objectmomma/internal/dispatch"
	"github.com/specialistvlad/objectmomma/internal/manifest"
	"github.com/specialistvlad/objectmomma/internal/overlay"
	"github.com/specialistvlad/objectmomma/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	engine   *actualize.Engine
	router   *dispatch.Router
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// When no modules are given the core modules are registered.
func NewApp(ctx context.Context, outW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New(nil, manifest.NewDirLoader(cfg.ModulesPath))
	if len(modules) == 0 {
		modules = coreModules()
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	if err := reg.Preload(ctx); err != nil {
		return nil, fmt.Errorf("failed to load builders: %w", err)
	}
	logger.Debug("Builders loaded.", "types", reg.Types())

	var opts []actualize.Option
	if cfg.AttributesPath != "" {
		src, err := overlay.NewYAMLDir(cfg.AttributesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open attributes path: %w", err)
		}
		opts = append(opts, actualize.WithOverlays(src))
		logger.Debug("Attribute overlays enabled.", "path", cfg.AttributesPath)
	}

	engine := actualize.New(reg, opts...)
	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		engine:   engine,
		router:   dispatch.New(engine, reg),
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Engine returns the application's actualization engine.
func (a *App) Engine() *actualize.Engine {
	return a.engine
}
