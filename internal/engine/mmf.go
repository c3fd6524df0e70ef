package engine

import (
	"math"

	"github.com/google/uuid"
	"github.com/san-kum/spinsim/internal/data"
	"github.com/san-kum/spinsim/internal/solver"
	"github.com/san-kum/spinsim/internal/spin"
)

const (
	// hessianStep is the finite difference displacement for Hessian-vector products.
	hessianStep = 1e-4
	// modeRate is the gradient step used to refine the lowest eigenmode.
	modeRate = 0.2
)

// MMF follows the lowest eigenmode of the Hessian of one image uphill towards a
// first order saddle point. It converges when both the eigenmode residual
// |Hv - lambda v| and the largest per-site force drop below the threshold.
type MMF struct {
	base
	chain   *data.Chain
	imageID uuid.UUID
	params  data.MMFParams

	hamiltonian spin.Hamiltonian
	work        spin.Field
	grad        spin.Field
	mode        spin.Field
	hv          spin.Field
	shifted     spin.Field
	gradPlus    spin.Field
	gradMinus   spin.Field
	forces      spin.Field

	// lambda and residual are owned by the stepping goroutine; eigenvalue is
	// the copy published under mu.
	lambda     float64
	residual   float64
	eigenvalue float64
}

func newMMF(chain *data.Chain, im *data.Image, s solver.Solver, params data.MMFParams) *MMF {
	m := &MMF{
		base:    newBase(ModeFollowing, s, params.ForceConvergence, params.MaxIterations),
		chain:   chain,
		imageID: im.ID(),
		params:  params,
	}
	m.step = m.iterate
	m.energy = func() float64 { return imageEnergy(chain, m.imageID) }
	return m
}

// Eigenvalue returns the current estimate of the lowest Hessian eigenvalue.
func (m *MMF) Eigenvalue() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.eigenvalue
}

func (m *MMF) iterate() (float64, error) {
	im, _, ok := m.chain.ByID(m.imageID)
	if !ok {
		return 0, data.Errorf("mmf", ErrStaleTarget, "image %s", m.imageID)
	}

	var measure float64
	var err error
	im.Update(func(cfg *spin.Configuration) {
		n := cfg.NOS()
		for _, f := range []*spin.Field{&m.work, &m.grad, &m.hv, &m.shifted, &m.gradPlus, &m.gradMinus, &m.forces} {
			ensureField(f, n)
		}
		if len(m.mode) != n {
			m.mode = spin.NewField(n)
			m.initMode(cfg.Spins)
		}

		m.hamiltonian = cfg.Hamiltonian
		m.work.CopyFrom(cfg.Spins)

		spin.ProjectTangent(m.work, m.mode)
		normalizeField(m.mode)
		iterations := m.params.ModeIterations
		if iterations < 1 {
			iterations = 1
		}
		for k := 0; k < iterations; k++ {
			m.refineMode(m.work)
		}

		m.solver.Step(m.work, m.direction, m.params.Dt)
		if !m.work.IsValid() {
			err = data.Errorf("mmf", data.ErrNumericFailure, "solver %s produced a non-finite state", m.solver.Name())
			return
		}
		cfg.Spins.CopyFrom(m.work)

		cfg.Hamiltonian.Gradient(cfg.Spins, m.grad)
		for i := range m.forces {
			m.forces[i] = m.grad[i].Scale(-1)
		}
		spin.ProjectTangent(cfg.Spins, m.forces)
		measure = math.Max(m.residual, m.forces.MaxNorm())
	})

	m.mu.Lock()
	m.eigenvalue = m.lambda
	m.mu.Unlock()
	return measure, err
}

// initMode seeds the mode with a fixed in-plane pattern; refinement takes over from there.
func (m *MMF) initMode(spins spin.Field) {
	for i, s := range spins {
		v := spin.UnitX.Sub(s.Scale(s[0]))
		if v.Norm() < 1e-8 {
			v = spin.UnitY.Sub(s.Scale(s[1]))
		}
		m.mode[i] = v
	}
}

// hessianProduct writes the Riemannian Hessian applied to v at spins into out:
// P(d2E v) - (s . dE) v per site, with d2E v from central differences.
func (m *MMF) hessianProduct(spins, v, out spin.Field) {
	for i, s := range spins {
		m.shifted[i] = s.Add(v[i].Scale(hessianStep)).Normalize()
	}
	m.hamiltonian.Gradient(m.shifted, m.gradPlus)
	for i, s := range spins {
		m.shifted[i] = s.Sub(v[i].Scale(hessianStep)).Normalize()
	}
	m.hamiltonian.Gradient(m.shifted, m.gradMinus)
	m.hamiltonian.Gradient(spins, m.grad)

	for i, s := range spins {
		d := m.gradPlus[i].Sub(m.gradMinus[i]).Scale(1 / (2 * hessianStep))
		d = d.Sub(s.Scale(d.Dot(s)))
		out[i] = d.Sub(v[i].Scale(s.Dot(m.grad[i])))
	}
}

// refineMode takes one gradient step of the Rayleigh quotient towards the lowest eigenmode.
func (m *MMF) refineMode(spins spin.Field) {
	m.hessianProduct(spins, m.mode, m.hv)
	lambda := m.mode.Dot(m.hv)

	for i := range m.hv {
		m.hv[i] = m.hv[i].Sub(m.mode[i].Scale(lambda))
	}
	m.residual = m.hv.Norm()
	m.lambda = lambda

	for i := range m.mode {
		m.mode[i] = m.mode[i].Sub(m.hv[i].Scale(modeRate))
	}
	spin.ProjectTangent(spins, m.mode)
	normalizeField(m.mode)
}

// direction writes the mode-following force: the force component along the
// mode is inverted in a negative curvature region and is the only component
// kept in a positive curvature region.
func (m *MMF) direction(spins spin.Field, out spin.Field) {
	m.hamiltonian.Gradient(spins, m.grad)
	for i := range out {
		out[i] = m.grad[i].Scale(-1)
	}
	spin.ProjectTangent(spins, out)

	along := out.Dot(m.mode)
	if m.lambda < 0 {
		for i := range out {
			out[i] = out[i].Sub(m.mode[i].Scale(2 * along))
		}
		return
	}
	for i := range out {
		out[i] = m.mode[i].Scale(-along)
	}
}

func normalizeField(f spin.Field) {
	if n := f.Norm(); n > 0 {
		f.Scale(1 / n)
	}
}
