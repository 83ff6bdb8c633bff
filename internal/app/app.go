// Package app wires the pipeline together: logger, registry, configuration
// loading, interpretation, and composition.
package app

import (
	"io"
	"log/slog"

	"github.com/astrokit/ptapipe/internal/registry"
)

// App encapsulates one run's dependencies and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
}

// New constructs an App with its own isolated logger and registry. With no
// explicit modules, the built-in factory modules are registered.
func New(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("Modules registered.",
		"count", len(modules),
		"classes", len(reg.Classes),
		"functions", len(reg.Functions),
		"models", len(reg.Models),
	)

	return &App{outW: outW, logger: logger, registry: reg}
}

// Registry returns the application's registry, primarily for tests.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
