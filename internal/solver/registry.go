package solver

import (
	"sort"

	"github.com/san-kum/spinsim/internal/data"
)

type Registry struct {
	solvers map[string]func() Solver
}

func NewRegistry() *Registry {
	r := &Registry{
		solvers: make(map[string]func() Solver),
	}

	r.solvers["euler"] = func() Solver { return NewEuler() }
	r.solvers["heun"] = func() Solver { return NewHeun() }
	r.solvers["vp"] = func() Solver { return NewVP() }

	return r
}

// Get builds a fresh solver. Unknown names fail with data.ErrNotImplemented.
func (r *Registry) Get(name string) (Solver, error) {
	fn, ok := r.solvers[name]
	if !ok {
		return nil, data.Errorf("solver", data.ErrNotImplemented, "unknown solver: %s", name)
	}
	return fn(), nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.solvers))
	for name := range r.solvers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// New builds a solver from the default registry.
func New(name string) (Solver, error) {
	return defaultRegistry.Get(name)
}

func List() []string {
	return defaultRegistry.List()
}
