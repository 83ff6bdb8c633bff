package app

import (
	"context"
	"fmt"

	"github.com/astrokit/ptapipe/internal/builder"
	"github.com/astrokit/ptapipe/internal/ctxlog"
	"github.com/astrokit/ptapipe/internal/iniconf"
	"github.com/astrokit/ptapipe/internal/pta"
)

// Run interprets the configuration and composes the PTA. The composed model
// is returned so callers (analysis drivers, tests) can hand it to a sampler.
func (a *App) Run(ctx context.Context, cfg *Config) (*pta.PTA, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run started.", "config", cfg.ConfigPath)

	doc, err := iniconf.Load(ctx, cfg.ConfigPath)
	if err != nil {
		return nil, err
	}

	settings := builder.New(a.registry)
	if err := settings.UpdateFromDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to interpret configuration: %w", err)
	}
	a.logger.Debug("Configuration interpreted.", "sections", len(settings.Sections()))

	composed, err := settings.Composer().Assemble(ctx)
	if err != nil {
		return nil, fmt.Errorf("composition failed: %w", err)
	}

	fmt.Fprintf(a.outW, "composed PTA: %d pulsar models, %d free parameters\n",
		len(composed.Models()), len(composed.ParamNames()))
	for _, name := range composed.ParamNames() {
		fmt.Fprintf(a.outW, "  %s\n", name)
	}

	a.logger.Debug("App.Run finished.")
	return composed, nil
}
