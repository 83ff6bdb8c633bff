// Package pta is the narrow modeling surface the pipeline composes against:
// signal blocks that combine associatively, per-pulsar model instances, and
// the PTA container that holds one model per pulsar.
package pta

import "github.com/astrokit/ptapipe/internal/pulsar"

// Signal is one composable block of model structure. Add must be
// associative over the blocks used in a run; Instantiate applies the block
// to a single pulsar's data.
type Signal interface {
	Add(other Signal) Signal
	Instantiate(p *pulsar.Pulsar) *PulsarModel
}

// PulsarModel is a signal block instantiated against one pulsar. Params
// holds the model's free parameter names for that pulsar.
type PulsarModel struct {
	Pulsar *pulsar.Pulsar
	Signal Signal
	Params []string
}

// Collection is the composition of several signal blocks. It is what Join
// produces and is itself a Signal, so collections nest flat.
type Collection struct {
	blocks []Signal
}

// Blocks returns the collection's members in composition order.
func (c *Collection) Blocks() []Signal { return c.blocks }

// Add appends another signal to the collection.
func (c *Collection) Add(other Signal) Signal { return Join(c, other) }

// Instantiate applies every block to the pulsar and concatenates the
// resulting parameter names in block order.
func (c *Collection) Instantiate(p *pulsar.Pulsar) *PulsarModel {
	m := &PulsarModel{Pulsar: p, Signal: c}
	for _, b := range c.blocks {
		sub := b.Instantiate(p)
		m.Params = append(m.Params, sub.Params...)
	}
	return m
}

// Join combines two signals into one flat collection.
func Join(a, b Signal) Signal {
	blocks := append(flatten(a), flatten(b)...)
	return &Collection{blocks: blocks}
}

func flatten(s Signal) []Signal {
	if c, ok := s.(*Collection); ok {
		out := make([]Signal, len(c.blocks))
		copy(out, c.blocks)
		return out
	}
	return []Signal{s}
}

// PTA is the composed model: one instantiated model per pulsar plus the
// shared default parameter values applied after composition.
type PTA struct {
	models   []*PulsarModel
	defaults map[string]float64
}

// NewPTA builds the container from per-pulsar models.
func NewPTA(models []*PulsarModel) *PTA {
	return &PTA{models: models}
}

// Models returns the per-pulsar models in pulsar order.
func (t *PTA) Models() []*PulsarModel { return t.models }

// SetDefaultParams records fixed values used for any model parameter not
// sampled during analysis.
func (t *PTA) SetDefaultParams(pars map[string]float64) { t.defaults = pars }

// DefaultParams returns the values set by SetDefaultParams.
func (t *PTA) DefaultParams() map[string]float64 { return t.defaults }

// ParamNames returns the union of all per-pulsar parameter names in first
// occurrence order.
func (t *PTA) ParamNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, m := range t.models {
		for _, p := range m.Params {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			names = append(names, p)
		}
	}
	return names
}
