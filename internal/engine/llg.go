package engine

import (
	"github.com/google/uuid"
	"github.com/san-kum/spinsim/internal/data"
	"github.com/san-kum/spinsim/internal/solver"
	"github.com/san-kum/spinsim/internal/spin"
)

// LLG integrates the damped Landau-Lifshitz-Gilbert equation on one image and
// converges when the largest torque |s x B_eff| drops below the threshold.
type LLG struct {
	base
	chain   *data.Chain
	imageID uuid.UUID
	params  data.LLGParams

	hamiltonian spin.Hamiltonian
	work        spin.Field
	grad        spin.Field
	torque      spin.Field
}

func newLLG(chain *data.Chain, im *data.Image, s solver.Solver, params data.LLGParams) *LLG {
	m := &LLG{
		base:    newBase(Relaxation, s, params.ForceConvergence, params.MaxIterations),
		chain:   chain,
		imageID: im.ID(),
		params:  params,
	}
	m.step = m.iterate
	m.energy = func() float64 { return imageEnergy(chain, m.imageID) }
	return m
}

func (m *LLG) iterate() (float64, error) {
	im, _, ok := m.chain.ByID(m.imageID)
	if !ok {
		return 0, data.Errorf("llg", ErrStaleTarget, "image %s", m.imageID)
	}

	var measure float64
	var err error
	im.Update(func(cfg *spin.Configuration) {
		n := cfg.NOS()
		ensureField(&m.work, n)
		ensureField(&m.grad, n)
		ensureField(&m.torque, n)

		m.hamiltonian = cfg.Hamiltonian
		m.work.CopyFrom(cfg.Spins)
		m.solver.Step(m.work, m.direction, m.params.Dt)
		if !m.work.IsValid() {
			err = data.Errorf("llg", data.ErrNumericFailure, "solver %s produced a non-finite state", m.solver.Name())
			return
		}
		cfg.Spins.CopyFrom(m.work)

		cfg.Hamiltonian.Gradient(cfg.Spins, m.grad)
		for i, s := range cfg.Spins {
			m.torque[i] = s.Cross(m.grad[i].Scale(-1))
		}
		measure = m.torque.MaxNorm()
	})
	return measure, err
}

// direction writes dS/dt = -1/(1+a^2) [s x B + a s x (s x B)] with B = -dE/ds.
func (m *LLG) direction(spins spin.Field, out spin.Field) {
	alpha := m.params.Damping
	prefactor := -1 / (1 + alpha*alpha)

	m.hamiltonian.Gradient(spins, m.grad)
	for i, s := range spins {
		b := m.grad[i].Scale(-1)
		sxb := s.Cross(b)
		out[i] = sxb.Add(s.Cross(sxb).Scale(alpha)).Scale(prefactor)
	}
}

func ensureField(f *spin.Field, n int) {
	if len(*f) != n {
		*f = spin.NewField(n)
	}
}

func imageEnergy(chain *data.Chain, id uuid.UUID) float64 {
	im, _, ok := chain.ByID(id)
	if !ok {
		return 0
	}
	return im.Energy()
}
