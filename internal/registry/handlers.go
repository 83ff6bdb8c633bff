package registry

import (
	"fmt"
	"log/slog"
)

// RegisteredClass holds the Go parts of an instantiable class: a prototype
// constructor whose field values are the declared defaults, and the
// construction function, shaped func(p *P) (any, error).
type RegisteredClass struct {
	NewParams func() any
	Construct any
}

// RegisteredFunction holds a callable usable from function sections. Fn is
// shaped func(p *P) (T, error); T is pta.Signal for signal factories and
// anything for custom-return helpers.
type RegisteredFunction struct {
	NewParams func() any
	Fn        any
}

// RegisteredModel holds a full-model factory from the well-known model
// namespace, shaped func(psrs []*pulsar.Pulsar, p *P) (*pta.PTA, error).
type RegisteredModel struct {
	NewParams func() any
	Fn        any
}

// RegisterClass registers a class under module.name.
func (r *Registry) RegisterClass(module, name string, h *RegisteredClass) {
	key := Key(module, name)
	if _, exists := r.Classes[key]; exists {
		panic(fmt.Sprintf("class %q already registered", key))
	}
	slog.Debug("Registering class.", "key", key)
	r.Classes[key] = h
}

// RegisterFunction registers a function under module.name.
func (r *Registry) RegisterFunction(module, name string, h *RegisteredFunction) {
	key := Key(module, name)
	if _, exists := r.Functions[key]; exists {
		panic(fmt.Sprintf("function %q already registered", key))
	}
	slog.Debug("Registering function.", "key", key)
	r.Functions[key] = h
}

// RegisterModel registers a model factory under its bare name.
func (r *Registry) RegisterModel(name string, h *RegisteredModel) {
	if _, exists := r.Models[name]; exists {
		panic(fmt.Sprintf("model factory %q already registered", name))
	}
	slog.Debug("Registering model factory.", "name", name)
	r.Models[name] = h
}
