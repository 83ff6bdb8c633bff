// Package priors provides prior-distribution classes instantiable from
// class sections and a grid helper usable with custom_return.
package priors

import (
	"fmt"

	"github.com/astrokit/ptapipe/internal/registry"
)

// Module implements registry.Module for this package.
type Module struct{}

// UniformParams configures the Uniform prior class.
type UniformParams struct {
	PMin float64 `pta:"pmin"`
	PMax float64 `pta:"pmax"`
}

// Uniform is a flat prior over [PMin, PMax].
type Uniform struct {
	PMin, PMax float64
}

// Bounds returns the prior's support.
func (u *Uniform) Bounds() (float64, float64) { return u.PMin, u.PMax }

// NewUniform constructs a Uniform prior.
func NewUniform(p *UniformParams) (any, error) {
	if p.PMax <= p.PMin {
		return nil, fmt.Errorf("uniform prior: pmax %v must exceed pmin %v", p.PMax, p.PMin)
	}
	return &Uniform{PMin: p.PMin, PMax: p.PMax}, nil
}

// LogUniformParams configures the LogUniform prior class.
type LogUniformParams struct {
	LogMin float64 `pta:"log_min"`
	LogMax float64 `pta:"log_max"`
}

// LogUniform is a prior flat in log space over [LogMin, LogMax].
type LogUniform struct {
	LogMin, LogMax float64
}

// Bounds returns the prior's support in log space.
func (u *LogUniform) Bounds() (float64, float64) { return u.LogMin, u.LogMax }

// NewLogUniform constructs a LogUniform prior.
func NewLogUniform(p *LogUniformParams) (any, error) {
	if p.LogMax <= p.LogMin {
		return nil, fmt.Errorf("log-uniform prior: log_max %v must exceed log_min %v", p.LogMax, p.LogMin)
	}
	return &LogUniform{LogMin: p.LogMin, LogMax: p.LogMax}, nil
}

// GridParams configures the Grid helper.
type GridParams struct {
	Lo    float64 `pta:"lo"`
	Hi    float64 `pta:"hi"`
	Count int     `pta:"count"`
}

// Grid returns Count evenly spaced values from Lo to Hi inclusive; handy as
// a custom_return feeding vector-valued parameters of later sections.
func Grid(p *GridParams) ([]float64, error) {
	if p.Count < 2 {
		return nil, fmt.Errorf("grid: count must be at least 2, got %d", p.Count)
	}
	step := (p.Hi - p.Lo) / float64(p.Count-1)
	out := make([]float64, p.Count)
	for i := range out {
		out[i] = p.Lo + float64(i)*step
	}
	return out, nil
}

// Register registers the prior classes and the grid helper.
func (m Module) Register(r *registry.Registry) {
	r.RegisterClass("priors", "Uniform", &registry.RegisteredClass{
		NewParams: func() any { return &UniformParams{PMin: 0, PMax: 1} },
		Construct: NewUniform,
	})
	r.RegisterClass("priors", "LogUniform", &registry.RegisteredClass{
		NewParams: func() any { return &LogUniformParams{LogMin: -18, LogMax: -11} },
		Construct: NewLogUniform,
	})
	r.RegisterFunction("priors", "Grid", &registry.RegisteredFunction{
		NewParams: func() any { return &GridParams{Lo: 0, Hi: 1, Count: 10} },
		Fn:        Grid,
	})
}
