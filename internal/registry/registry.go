package registry

// Module is the interface built-in factory packages implement to be
// registered with an application instance.
type Module interface {
	Register(r *Registry)
}

// Registry holds all registered classes, functions, and model factories for
// a single application instance.
type Registry struct {
	Classes   map[string]*RegisteredClass
	Functions map[string]*RegisteredFunction
	Models    map[string]*RegisteredModel
}

// New creates and initializes an empty Registry.
func New() *Registry {
	return &Registry{
		Classes:   make(map[string]*RegisteredClass),
		Functions: make(map[string]*RegisteredFunction),
		Models:    make(map[string]*RegisteredModel),
	}
}

// Key joins a module path and symbol name into a registry key.
func Key(module, symbol string) string {
	return module + "." + symbol
}

// LookupClass resolves a class by module path and name.
func (r *Registry) LookupClass(module, name string) (*RegisteredClass, bool) {
	c, ok := r.Classes[Key(module, name)]
	return c, ok
}

// LookupFunction resolves a function by module path and name.
func (r *Registry) LookupFunction(module, name string) (*RegisteredFunction, bool) {
	f, ok := r.Functions[Key(module, name)]
	return f, ok
}

// LookupModel resolves a model factory from the well-known model namespace.
func (r *Registry) LookupModel(name string) (*RegisteredModel, bool) {
	m, ok := r.Models[name]
	return m, ok
}
