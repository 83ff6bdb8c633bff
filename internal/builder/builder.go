// Package builder interprets a config.Document into the run's object graph:
// constructed helper classes, computed function returns, and the ordered
// signal and PTA factory registries later consumed by composition. Sections
// are processed strictly in file order; a section may reference anything
// built by an earlier section, never a later one.
package builder

import (
	"math"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/astrokit/ptapipe/internal/compose"
	"github.com/astrokit/ptapipe/internal/pulsar"
	"github.com/astrokit/ptapipe/internal/registry"
)

// noiseDictKey is the parameter slot name that receives the shared noise
// dictionary when a PTA factory declares it.
const noiseDictKey = "noisedict"

// RunSettings is the single owner of all state accumulated while a
// configuration is interpreted. It is built once per run, mutated only by
// its own methods, and consumed exactly once by composition. Not safe for
// concurrent use.
type RunSettings struct {
	// File-supplied run inputs, set by input/output/DEFAULT sections.
	PulsarFile    string `pta:"pulsar_file"`
	NoiseDictFile string `pta:"noisedict_file"`
	OutDir        string `pta:"outdir"`

	reg *registry.Registry

	customClasses         map[string]any
	customFunctionReturns map[string]any

	signalFactories map[string]*registry.RegisteredFunction
	signalParams    map[string]map[string]any
	signalOrder     []string

	ptaFactories map[string]factory
	ptaParams    map[string]map[string]any
	ptaOrder     []string

	// Audit trails: raw section contents and the coerced view per section.
	sections      map[string]map[string]string
	typedSections map[string]map[string]any
}

// factory pairs a registered callable with its prototype constructor; PTA
// factories come both from pta_return function sections and from implicit
// model-namespace sections, which register under different handler types.
type factory struct {
	newParams func() any
	fn        any
}

// New creates an empty RunSettings resolving symbols against reg.
func New(reg *registry.Registry) *RunSettings {
	return &RunSettings{
		reg:                   reg,
		customClasses:         make(map[string]any),
		customFunctionReturns: make(map[string]any),
		signalFactories:       make(map[string]*registry.RegisteredFunction),
		signalParams:          make(map[string]map[string]any),
		ptaFactories:          make(map[string]factory),
		ptaParams:             make(map[string]map[string]any),
		sections:              make(map[string]map[string]string),
		typedSections:         make(map[string]map[string]any),
	}
}

// CustomFunctionReturn implements coerce.Scope.
func (rs *RunSettings) CustomFunctionReturn(label string) (any, bool) {
	v, ok := rs.customFunctionReturns[label]
	return v, ok
}

// CustomClass implements coerce.Scope.
func (rs *RunSettings) CustomClass(name string) (any, bool) {
	v, ok := rs.customClasses[name]
	return v, ok
}

// EvalVariables implements coerce.Scope. Expression directives see the
// custom function returns computed so far (those representable as cty
// values) under `returns`, plus a couple of constants.
func (rs *RunSettings) EvalVariables() map[string]cty.Value {
	returns := make(map[string]cty.Value)
	for label, val := range rs.customFunctionReturns {
		ty, err := gocty.ImpliedType(val)
		if err != nil {
			continue
		}
		ctyVal, err := gocty.ToCtyValue(val, ty)
		if err != nil {
			continue
		}
		returns[label] = ctyVal
	}
	vars := map[string]cty.Value{
		"pi": cty.NumberFloatVal(math.Pi),
		"e":  cty.NumberFloatVal(math.E),
	}
	if len(returns) > 0 {
		vars["returns"] = cty.ObjectVal(returns)
	}
	return vars
}

// TypedSections returns the coerced parameter view recorded per section.
func (rs *RunSettings) TypedSections() map[string]map[string]any { return rs.typedSections }

// Sections returns the raw key/value audit trail per section.
func (rs *RunSettings) Sections() map[string]map[string]string { return rs.sections }

// Composer assembles the composition stage from the accumulated registries.
// Factory order follows section declaration order within each registry.
func (rs *RunSettings) Composer() *compose.Composer {
	c := &compose.Composer{
		Loader: &pulsar.Loader{PulsarFile: rs.PulsarFile, NoiseDictFile: rs.NoiseDictFile},
	}
	for _, name := range rs.ptaOrder {
		f := rs.ptaFactories[name]
		c.ModelFactories = append(c.ModelFactories, compose.Factory{
			Name:      name,
			NewParams: f.newParams,
			Fn:        f.fn,
			Params:    rs.ptaParams[name],
		})
	}
	for _, name := range rs.signalOrder {
		f := rs.signalFactories[name]
		c.SignalFactories = append(c.SignalFactories, compose.Factory{
			Name:      name,
			NewParams: f.NewParams,
			Fn:        f.Fn,
			Params:    rs.signalParams[name],
		})
	}
	return c
}
