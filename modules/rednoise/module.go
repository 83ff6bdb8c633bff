// Package rednoise provides the power-law red-noise signal block.
package rednoise

import (
	"github.com/astrokit/ptapipe/internal/pta"
	"github.com/astrokit/ptapipe/internal/pulsar"
	"github.com/astrokit/ptapipe/internal/registry"
)

// Module implements registry.Module for this package.
type Module struct{}

// Input defines the parameters accepted by the PowerLaw factory. Prior is
// deliberately untyped: it can only be set through a CUSTOM_CLASS or
// CUSTOM_FUNCTION_RETURN directive referencing an earlier section.
type Input struct {
	Components int       `pta:"components"`
	LogARange  []float64 `pta:"log10_A_range"`
	GammaRange []float64 `pta:"gamma_range"`
	Prior      any       `pta:"prior"`
}

// Block is the power-law red-noise signal block.
type Block struct {
	components int
	logARange  []float64
	gammaRange []float64
	prior      any
}

// Add combines this block with another signal.
func (b *Block) Add(other pta.Signal) pta.Signal { return pta.Join(b, other) }

// Instantiate contributes the pulsar's red-noise amplitude and spectral
// index parameters.
func (b *Block) Instantiate(p *pulsar.Pulsar) *pta.PulsarModel {
	return &pta.PulsarModel{
		Pulsar: p,
		Signal: b,
		Params: []string{
			p.Name + "_red_noise_log10_A",
			p.Name + "_red_noise_gamma",
		},
	}
}

// PowerLaw builds a red-noise block from resolved parameters.
func PowerLaw(in *Input) (pta.Signal, error) {
	return &Block{
		components: in.Components,
		logARange:  in.LogARange,
		gammaRange: in.GammaRange,
		prior:      in.Prior,
	}, nil
}

// Register registers the factory with the registry.
func (m Module) Register(r *registry.Registry) {
	r.RegisterFunction("rednoise", "PowerLaw", &registry.RegisteredFunction{
		NewParams: func() any {
			return &Input{
				Components: 30,
				LogARange:  []float64{-20, -11},
				GammaRange: []float64{0, 7},
			}
		},
		Fn: PowerLaw,
	})
}
