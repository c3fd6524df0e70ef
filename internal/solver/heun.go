package solver

import "github.com/san-kum/spinsim/internal/spin"

// Heun is the second order predictor-corrector scheme with renormalization.
type Heun struct {
	d1, d2    spin.Field
	predictor spin.Field
}

func NewHeun() *Heun {
	return &Heun{}
}

func (h *Heun) Name() string { return "heun" }

func (h *Heun) Step(spins spin.Field, dir Direction, dt float64) {
	n := len(spins)
	ensure(&h.d1, n)
	ensure(&h.d2, n)
	ensure(&h.predictor, n)

	dir(spins, h.d1)
	for i := 0; i < n; i++ {
		h.predictor[i] = spins[i].Add(h.d1[i].Scale(dt)).Normalize()
	}

	dir(h.predictor, h.d2)
	half := 0.5 * dt
	for i := 0; i < n; i++ {
		spins[i] = spins[i].Add(h.d1[i].Add(h.d2[i]).Scale(half)).Normalize()
	}
}
