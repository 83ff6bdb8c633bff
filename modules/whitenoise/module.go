// Package whitenoise provides the measurement-noise signal block: per-backend
// EFAC and EQUAD scaling of TOA uncertainties, with optional ECORR.
package whitenoise

import (
	"github.com/astrokit/ptapipe/internal/pta"
	"github.com/astrokit/ptapipe/internal/pulsar"
	"github.com/astrokit/ptapipe/internal/registry"
)

// Module implements registry.Module for this package.
type Module struct{}

// Input defines the parameters accepted by the MeasurementNoise factory.
// Field values are the declared defaults.
type Input struct {
	Vary      bool    `pta:"vary"`
	EFAC      float64 `pta:"efac"`
	LogEQUAD  float64 `pta:"log10_equad"`
	IncECORR  bool    `pta:"inc_ecorr"`
	Selection string  `pta:"selection"`
}

// Block is the white-noise signal block.
type Block struct {
	vary     bool
	efac     float64
	logEquad float64
	incEcorr bool
}

// Add combines this block with another signal.
func (b *Block) Add(other pta.Signal) pta.Signal { return pta.Join(b, other) }

// Instantiate applies the block to one pulsar. When the block varies, each
// pulsar contributes its own EFAC/EQUAD (and optionally ECORR) parameters;
// fixed blocks contribute none and rely on the noise dictionary defaults.
func (b *Block) Instantiate(p *pulsar.Pulsar) *pta.PulsarModel {
	m := &pta.PulsarModel{Pulsar: p, Signal: b}
	if !b.vary {
		return m
	}
	m.Params = append(m.Params, p.Name+"_efac", p.Name+"_log10_equad")
	if b.incEcorr {
		m.Params = append(m.Params, p.Name+"_log10_ecorr")
	}
	return m
}

// MeasurementNoise builds a white-noise block from resolved parameters.
func MeasurementNoise(in *Input) (pta.Signal, error) {
	return &Block{
		vary:     in.Vary,
		efac:     in.EFAC,
		logEquad: in.LogEQUAD,
		incEcorr: in.IncECORR,
	}, nil
}

// Register registers the factory with the registry.
func (m Module) Register(r *registry.Registry) {
	r.RegisterFunction("whitenoise", "MeasurementNoise", &registry.RegisteredFunction{
		NewParams: func() any {
			return &Input{EFAC: 1.0, LogEQUAD: -8.5, Selection: "backend"}
		},
		Fn: MeasurementNoise,
	})
}
