package engine

import (
	"math"
	"testing"

	"github.com/san-kum/spinsim/internal/data"
	"github.com/san-kum/spinsim/internal/hamiltonian"
	"github.com/san-kum/spinsim/internal/spin"
)

func newImage(nos int, setup func(h *hamiltonian.Heisenberg), spins spin.Field) *data.Image {
	g := spin.NewLattice(nos, 1, 1)
	h := hamiltonian.NewHeisenberg(g)
	if setup != nil {
		setup(h)
	}
	cfg := spin.NewConfiguration(g, h)
	if spins != nil {
		cfg.Spins.CopyFrom(spins)
	}
	return data.NewImage(cfg, data.DefaultParams())
}

func newChain(t *testing.T, images ...*data.Image) *data.Chain {
	t.Helper()
	c, err := data.NewChain(images, data.DefaultGNEBParams())
	if err != nil {
		t.Fatalf("new chain failed: %v", err)
	}
	return c
}

// nanHamiltonian produces non-finite gradients.
type nanHamiltonian struct{}

func (nanHamiltonian) Name() string                { return "nan" }
func (nanHamiltonian) Energy(spin.Field) float64   { return math.NaN() }
func (nanHamiltonian) Gradient(_, grad spin.Field) {
	for i := range grad {
		grad[i] = spin.Vector{math.NaN(), 0, 0}
	}
}

func nanImage(nos int) *data.Image {
	g := spin.NewLattice(nos, 1, 1)
	cfg := spin.NewConfiguration(g, nanHamiltonian{})
	spin.Homogeneous(cfg.Spins, spin.UnitX)
	return data.NewImage(cfg, data.DefaultParams())
}
