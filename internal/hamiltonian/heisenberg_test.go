package hamiltonian

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/spinsim/internal/spin"
)

func TestHeisenbergFerromagnetEnergy(t *testing.T) {
	g := spin.NewLattice(4, 1, 1)
	h := NewHeisenberg(g)

	spins := spin.NewField(g.NOS())
	spin.Homogeneous(spins, spin.UnitZ)

	// 3 bonds on an open chain of 4 sites
	if got := h.Energy(spins); math.Abs(got-(-3.0)) > 1e-12 {
		t.Errorf("expected energy -3, got %f", got)
	}
}

func TestHeisenbergZeemanMinimum(t *testing.T) {
	g := spin.NewLattice(1, 1, 1)
	h := NewHeisenberg(g)
	h.Field = spin.Vector{0, 0, 2}

	up := spin.Field{spin.UnitZ}
	down := spin.Field{spin.UnitZ.Scale(-1)}

	if h.Energy(up) >= h.Energy(down) {
		t.Errorf("spin along the field should have lower energy: up=%f down=%f", h.Energy(up), h.Energy(down))
	}
}

func TestHeisenbergGradientMatchesFiniteDifference(t *testing.T) {
	g := spin.NewLattice(3, 3, 1)
	h := NewHeisenberg(g)
	h.Field = spin.Vector{0.1, 0, 0.3}
	h.Anisotropy = 0.2

	spins := spin.NewField(g.NOS())
	spin.Random(spins, rand.New(rand.NewSource(3)))

	grad := spin.NewField(g.NOS())
	h.Gradient(spins, grad)

	eps := 1e-6
	for i := range spins {
		for c := 0; c < 3; c++ {
			orig := spins[i][c]
			spins[i][c] = orig + eps
			ep := h.Energy(spins)
			spins[i][c] = orig - eps
			em := h.Energy(spins)
			spins[i][c] = orig

			fd := (ep - em) / (2 * eps)
			if math.Abs(fd-grad[i][c]) > 1e-5 {
				t.Fatalf("site %d comp %d: gradient %f, finite difference %f", i, c, grad[i][c], fd)
			}
		}
	}
}

func TestHeisenbergSetParam(t *testing.T) {
	h := NewHeisenberg(spin.NewLattice(1, 1, 1))

	if err := h.SetParam("field_z", 1.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Field[2] != 1.5 {
		t.Errorf("expected field_z 1.5, got %f", h.Field[2])
	}
	if err := h.SetParam("nonexistent", 1); err == nil {
		t.Error("expected error for unknown param")
	}
}
