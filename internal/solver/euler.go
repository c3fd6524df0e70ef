package solver

import "github.com/san-kum/spinsim/internal/spin"

type Euler struct {
	d spin.Field
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(spins spin.Field, dir Direction, dt float64) {
	ensure(&e.d, len(spins))
	dir(spins, e.d)
	for i := range spins {
		spins[i] = spins[i].Add(e.d[i].Scale(dt)).Normalize()
	}
}
