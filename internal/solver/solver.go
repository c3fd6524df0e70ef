package solver

import "github.com/san-kum/spinsim/internal/spin"

// Direction writes the update direction for spins into out: dS/dt for
// dynamics, the projected force for relaxations.
type Direction func(spins spin.Field, out spin.Field)

// Solver advances a spin field by one step. Implementations keep scratch
// buffers and must not be shared between methods.
type Solver interface {
	Name() string
	// Step updates spins in place and leaves every spin normalized.
	Step(spins spin.Field, dir Direction, dt float64)
}

// Resetter is implemented by solvers that carry state between steps.
type Resetter interface {
	Reset()
}

func ensure(buf *spin.Field, n int) {
	if len(*buf) != n {
		*buf = spin.NewField(n)
	}
}
