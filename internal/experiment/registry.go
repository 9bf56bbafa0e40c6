package experiment

import (
	"github.com/san-kum/attractors/internal/dynamo"
	"github.com/san-kum/attractors/internal/physics"
)

// Registry is the closed, ordered set of systems available for selection.
type Registry struct {
	systems []dynamo.System
	byName  map[string]dynamo.System
}

// NewRegistry returns the registry of built-in systems: Lorenz, Rössler, Thomas.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]dynamo.System)}
	for _, sys := range []dynamo.System{
		physics.NewLorenz(),
		physics.NewRossler(),
		physics.NewThomas(),
	} {
		r.systems = append(r.systems, sys)
		r.byName[sys.Name()] = sys
	}
	return r
}

// Lookup returns the system registered under exactly name.
func (r *Registry) Lookup(name string) (dynamo.System, error) {
	sys, ok := r.byName[name]
	if !ok {
		return nil, &dynamo.UnknownSystemError{Name: name, Known: r.Names()}
	}
	return sys, nil
}

// Resolve is Lookup for typed input: it ignores case, accents and surrounding
// space, so "rossler" finds "Rössler".
func (r *Registry) Resolve(name string) (dynamo.System, error) {
	if sys, ok := r.byName[name]; ok {
		return sys, nil
	}
	key := dynamo.FoldName(name)
	for _, sys := range r.systems {
		if dynamo.FoldName(sys.Name()) == key {
			return sys, nil
		}
	}
	return nil, &dynamo.UnknownSystemError{Name: name, Known: r.Names()}
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.systems))
	for i, sys := range r.systems {
		names[i] = sys.Name()
	}
	return names
}

func (r *Registry) Systems() []dynamo.System {
	return append([]dynamo.System(nil), r.systems...)
}
