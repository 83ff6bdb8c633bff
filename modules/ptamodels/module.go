// Package ptamodels is the well-known model namespace: full-PTA factories
// addressable from a configuration section by bare name.
package ptamodels

import (
	"fmt"

	"github.com/astrokit/ptapipe/internal/pta"
	"github.com/astrokit/ptapipe/internal/pulsar"
	"github.com/astrokit/ptapipe/internal/registry"
	"github.com/astrokit/ptapipe/modules/rednoise"
	"github.com/astrokit/ptapipe/modules/whitenoise"
)

// Module implements registry.Module for this package.
type Module struct{}

// SimpleParams configures model_simple. The NoiseDict slot is filled with
// the shared noise dictionary after loading.
type SimpleParams struct {
	WhiteVary     bool               `pta:"white_vary"`
	IncECORR      bool               `pta:"inc_ecorr"`
	RedNoise      bool               `pta:"red_noise"`
	RedComponents int                `pta:"red_components"`
	NoiseDict     map[string]float64 `pta:"noisedict"`
}

// ModelSimple builds the standard single-pulsar-noise PTA: white measurement
// noise plus optional power-law red noise, applied uniformly to every
// pulsar.
func ModelSimple(psrs []*pulsar.Pulsar, p *SimpleParams) (*pta.PTA, error) {
	if len(psrs) == 0 {
		return nil, fmt.Errorf("model_simple: no pulsars to model")
	}

	white, err := whitenoise.MeasurementNoise(&whitenoise.Input{
		Vary:     p.WhiteVary,
		EFAC:     1.0,
		IncECORR: p.IncECORR,
	})
	if err != nil {
		return nil, err
	}

	signal := white
	if p.RedNoise {
		red, err := rednoise.PowerLaw(&rednoise.Input{
			Components: p.RedComponents,
			LogARange:  []float64{-20, -11},
			GammaRange: []float64{0, 7},
		})
		if err != nil {
			return nil, err
		}
		signal = signal.Add(red)
	}

	models := make([]*pta.PulsarModel, 0, len(psrs))
	for _, psr := range psrs {
		models = append(models, signal.Instantiate(psr))
	}
	built := pta.NewPTA(models)
	built.SetDefaultParams(p.NoiseDict)
	return built, nil
}

// Register registers the model factories under their namespace names.
func (m Module) Register(r *registry.Registry) {
	r.RegisterModel("model_simple", &registry.RegisteredModel{
		NewParams: func() any {
			return &SimpleParams{WhiteVary: true, RedNoise: true, RedComponents: 30}
		},
		Fn: ModelSimple,
	})
}
