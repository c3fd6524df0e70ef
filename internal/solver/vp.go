package solver

import "github.com/san-kum/spinsim/internal/spin"

// VP is the velocity projection optimizer. The velocity is kept only along the
// current force and is dropped whenever it points against it.
type VP struct {
	velocity  spin.Field
	force     spin.Field
	prevForce spin.Field
	started   bool
}

func NewVP() *VP {
	return &VP{}
}

func (v *VP) Name() string { return "vp" }

func (v *VP) Reset() {
	v.started = false
	for i := range v.velocity {
		v.velocity[i] = spin.Vector{}
	}
}

func (v *VP) Step(spins spin.Field, dir Direction, dt float64) {
	n := len(spins)
	if len(v.velocity) != n {
		v.velocity = spin.NewField(n)
		v.force = spin.NewField(n)
		v.prevForce = spin.NewField(n)
		v.started = false
	}

	dir(spins, v.force)

	if v.started {
		half := 0.5 * dt
		for i := 0; i < n; i++ {
			v.velocity[i] = v.velocity[i].Add(v.prevForce[i].Add(v.force[i]).Scale(half))
		}
	}

	projection := v.velocity.Dot(v.force)
	ff := v.force.Dot(v.force)
	if projection <= 0 || ff == 0 {
		for i := range v.velocity {
			v.velocity[i] = spin.Vector{}
		}
	} else {
		ratio := projection / ff
		for i := 0; i < n; i++ {
			v.velocity[i] = v.force[i].Scale(ratio)
		}
	}

	dt2 := 0.5 * dt * dt
	for i := 0; i < n; i++ {
		step := v.velocity[i].Scale(dt).Add(v.force[i].Scale(dt2))
		spins[i] = spins[i].Add(step).Normalize()
	}

	v.prevForce.CopyFrom(v.force)
	v.started = true
}
