package engine

import (
	"math"

	"github.com/google/uuid"
	"github.com/san-kum/spinsim/internal/data"
	"github.com/san-kum/spinsim/internal/solver"
	"github.com/san-kum/spinsim/internal/spin"
)

// GNEB relaxes a whole chain towards a minimum energy path with the geodesic
// nudged elastic band method. The first and last images are fixed. It converges
// when the largest per-site path force drops below the threshold.
type GNEB struct {
	base
	chain  *data.Chain
	ids    []uuid.UUID
	params data.GNEBParams
	nos    int

	cfgs     []*spin.Configuration
	path     spin.Field
	forces   spin.Field
	grad     spin.Field
	tangent  spin.Field
	energies []float64
}

func newGNEB(chain *data.Chain, s solver.Solver, params data.GNEBParams) *GNEB {
	images := chain.Images()
	ids := make([]uuid.UUID, len(images))
	for i, im := range images {
		ids[i] = im.ID()
	}

	m := &GNEB{
		base:   newBase(PathRelaxation, s, params.ForceConvergence, params.MaxIterations),
		chain:  chain,
		ids:    ids,
		params: params,
		nos:    chain.NOS(),
	}
	m.step = m.iterate
	m.energy = m.maxEnergy
	return m
}

func (m *GNEB) images() ([]*data.Image, error) {
	images := m.chain.Images()
	if len(images) != len(m.ids) {
		return nil, data.Errorf("gneb", ErrStaleTarget, "chain has %d images, method was bound to %d", len(images), len(m.ids))
	}
	for i, im := range images {
		if im.ID() != m.ids[i] {
			return nil, data.Errorf("gneb", ErrStaleTarget, "image %d was replaced", i)
		}
	}
	return images, nil
}

func (m *GNEB) iterate() (float64, error) {
	images, err := m.images()
	if err != nil {
		return 0, err
	}

	noi, nos := len(images), m.nos
	ensureField(&m.path, noi*nos)
	ensureField(&m.forces, noi*nos)
	ensureField(&m.grad, noi*nos)
	ensureField(&m.tangent, nos)
	if len(m.energies) != noi {
		m.energies = make([]float64, noi)
	}

	var measure float64
	data.UpdateAll(images, func(cfgs []*spin.Configuration) {
		m.cfgs = cfgs
		defer func() { m.cfgs = nil }()

		for i, cfg := range cfgs {
			copy(m.path[i*nos:(i+1)*nos], cfg.Spins)
		}

		m.solver.Step(m.path, m.direction, m.params.Dt)
		if !m.path.IsValid() {
			err = data.Errorf("gneb", data.ErrNumericFailure, "solver %s produced a non-finite path", m.solver.Name())
			return
		}

		// endpoints are fixed and written back untouched
		for i := 1; i < noi-1; i++ {
			cfgs[i].Spins.CopyFrom(m.path[i*nos : (i+1)*nos])
		}

		m.direction(m.path, m.forces)
		measure = m.forces.MaxNorm()
	})
	return measure, err
}

// direction writes the GNEB force of every image of path into out.
func (m *GNEB) direction(path spin.Field, out spin.Field) {
	noi, nos := len(m.cfgs), m.nos
	image := func(f spin.Field, i int) spin.Field { return f[i*nos : (i+1)*nos] }

	for i, cfg := range m.cfgs {
		spins := image(path, i)
		cfg.Hamiltonian.Gradient(spins, image(m.grad, i))
		m.energies[i] = cfg.Hamiltonian.Energy(spins)
	}

	for i := 0; i < noi; i++ {
		f := image(out, i)
		if i == 0 || i == noi-1 {
			for j := range f {
				f[j] = spin.Vector{}
			}
			continue
		}

		spins := image(path, i)
		prev, next := image(path, i-1), image(path, i+1)
		m.pathTangent(spins, prev, next, m.energies[i-1], m.energies[i], m.energies[i+1])

		g := image(m.grad, i)
		for j := range f {
			f[j] = g[j].Scale(-1)
		}
		spin.ProjectTangent(spins, f)

		along := f.Dot(m.tangent)
		if i == m.params.ClimbingImage {
			for j := range f {
				f[j] = f[j].Sub(m.tangent[j].Scale(2 * along))
			}
			continue
		}

		spring := m.params.SpringConstant * (spin.GeodesicDistance(next, spins) - spin.GeodesicDistance(spins, prev))
		for j := range f {
			f[j] = f[j].Sub(m.tangent[j].Scale(along)).Add(m.tangent[j].Scale(spring))
		}
	}
}

// pathTangent writes the energy-weighted upwind tangent at spins into m.tangent,
// projected onto the tangent space and normalized.
func (m *GNEB) pathTangent(spins, prev, next spin.Field, ePrev, e, eNext float64) {
	t := m.tangent
	switch {
	case eNext > e && e > ePrev:
		for j := range t {
			t[j] = next[j].Sub(spins[j])
		}
	case eNext < e && e < ePrev:
		for j := range t {
			t[j] = spins[j].Sub(prev[j])
		}
	default:
		dMax := math.Max(math.Abs(eNext-e), math.Abs(ePrev-e))
		dMin := math.Min(math.Abs(eNext-e), math.Abs(ePrev-e))
		wNext, wPrev := dMin, dMax
		if eNext > ePrev {
			wNext, wPrev = dMax, dMin
		}
		if dMax == 0 {
			wNext, wPrev = 1, 1
		}
		for j := range t {
			t[j] = next[j].Sub(spins[j]).Scale(wNext).Add(spins[j].Sub(prev[j]).Scale(wPrev))
		}
	}

	spin.ProjectTangent(spins, t)
	if n := t.Norm(); n > 0 {
		t.Scale(1 / n)
	}
}

func (m *GNEB) maxEnergy() float64 {
	images, err := m.images()
	if err != nil {
		return 0
	}
	max := math.Inf(-1)
	for _, im := range images {
		if e := im.Energy(); e > max {
			max = e
		}
	}
	return max
}
