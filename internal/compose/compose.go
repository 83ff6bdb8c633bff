// Package compose turns the builder's registered factories into the final
// PTA: it loads the pulsar records, invokes every PTA and signal factory,
// folds the resulting signal blocks into one collection, instantiates that
// collection per pulsar, and applies the shared noise dictionary as default
// parameter values.
package compose

import (
	"context"
	"fmt"

	"github.com/astrokit/ptapipe/internal/ctxlog"
	"github.com/astrokit/ptapipe/internal/introspect"
	"github.com/astrokit/ptapipe/internal/pta"
	"github.com/astrokit/ptapipe/internal/pulsar"
)

// noiseDictKey is the parameter slot that receives the shared noise
// dictionary when a PTA factory declares it.
const noiseDictKey = "noisedict"

// CompositionError reports a run with nothing to compose.
type CompositionError struct {
	Reason string
}

func (e *CompositionError) Error() string {
	return "cannot compose model: " + e.Reason
}

// Factory is one registered callable with its fully resolved parameters.
// Model factories are shaped func([]*pulsar.Pulsar, *P) (*pta.PTA, error);
// signal factories func(*P) (pta.Signal, error).
type Factory struct {
	Name      string
	NewParams func() any
	Fn        any
	Params    map[string]any
}

// Composer assembles one PTA from the registered factories. Model-derived
// signals precede direct signal-factory signals; within each group,
// declaration order is preserved.
type Composer struct {
	Loader          *pulsar.Loader
	ModelFactories  []Factory
	SignalFactories []Factory
}

// Assemble builds the composed PTA. Any factory error propagates unchanged
// and aborts the run.
func (c *Composer) Assemble(ctx context.Context) (*pta.PTA, error) {
	logger := ctxlog.FromContext(ctx)

	if err := c.Loader.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	pulsars := c.Loader.Pulsars()
	noise := c.Loader.NoiseDict()

	// Factories that declare a noisedict slot get the loaded dictionary.
	for _, f := range c.ModelFactories {
		if _, ok := f.Params[noiseDictKey]; ok {
			f.Params[noiseDictKey] = noise
		}
	}

	var signals []pta.Signal
	for _, f := range c.ModelFactories {
		logger.Debug("Invoking PTA factory.", "factory", f.Name)
		prototype, err := newPrototype(f)
		if err != nil {
			return nil, err
		}
		result, err := introspect.Invoke(f.Fn, pulsars, prototype)
		if err != nil {
			return nil, err
		}
		built, ok := result.(*pta.PTA)
		if !ok {
			return nil, fmt.Errorf("PTA factory %q returned %T, want *pta.PTA", f.Name, result)
		}
		if len(built.Models()) == 0 {
			return nil, fmt.Errorf("PTA factory %q produced no pulsar models", f.Name)
		}
		// One model shape is assumed across all pulsars within a factory's
		// PTA; the first pulsar's signal stands for all of them.
		signals = append(signals, built.Models()[0].Signal)
	}

	for _, f := range c.SignalFactories {
		logger.Debug("Invoking signal factory.", "factory", f.Name)
		prototype, err := newPrototype(f)
		if err != nil {
			return nil, err
		}
		result, err := introspect.Invoke(f.Fn, prototype)
		if err != nil {
			return nil, err
		}
		sig, ok := result.(pta.Signal)
		if !ok {
			return nil, fmt.Errorf("signal factory %q returned %T, want pta.Signal", f.Name, result)
		}
		signals = append(signals, sig)
	}

	if len(signals) == 0 {
		return nil, &CompositionError{Reason: "no signal blocks registered"}
	}

	combined := signals[0]
	for _, sig := range signals[1:] {
		combined = combined.Add(sig)
	}

	models := make([]*pta.PulsarModel, 0, len(pulsars))
	for _, p := range pulsars {
		models = append(models, combined.Instantiate(p))
	}

	composed := pta.NewPTA(models)
	composed.SetDefaultParams(noise)
	logger.Info("Model composed.", "pulsars", len(models), "signal_blocks", len(signals), "parameters", len(composed.ParamNames()))
	return composed, nil
}

// newPrototype builds a fresh parameter struct for one invocation, with the
// factory's resolved parameters applied over its declared defaults.
func newPrototype(f Factory) (any, error) {
	prototype := f.NewParams()
	if err := introspect.Populate(prototype, f.Params); err != nil {
		return nil, fmt.Errorf("factory %q: %w", f.Name, err)
	}
	return prototype, nil
}
