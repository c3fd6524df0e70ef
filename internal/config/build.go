package config

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/spinsim/internal/data"
	"github.com/san-kum/spinsim/internal/hamiltonian"
	"github.com/san-kum/spinsim/internal/spin"
)

// BuildChain constructs the lattice, the Hamiltonian and the initial images
// described by cfg. All images share the geometry and the Hamiltonian.
func BuildChain(cfg *Config) (*data.Chain, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	g := spin.NewLattice(cfg.Lattice.Nx, cfg.Lattice.Ny, cfg.Lattice.Nz)
	h := hamiltonian.NewHeisenberg(g)
	h.Exchange = cfg.Hamiltonian.Exchange
	h.Field = vector(cfg.Hamiltonian.Field)
	h.Anisotropy = cfg.Hamiltonian.Anisotropy
	h.Axis = vector(cfg.Hamiltonian.Axis)

	noi := cfg.Chain.Images
	rng := rand.New(rand.NewSource(cfg.Chain.Seed))
	images := make([]*data.Image, noi)

	for i := range images {
		c := spin.NewConfiguration(g, h)
		if err := initial(cfg, g, c.Spins, i, rng); err != nil {
			return nil, err
		}
		images[i] = data.NewImage(c, cfg.Params())
	}

	chain, err := data.NewChain(images, cfg.GNEB)
	if err != nil {
		return nil, fmt.Errorf("build chain: %w", err)
	}
	return chain, nil
}

func initial(cfg *Config, g *spin.Geometry, f spin.Field, i int, rng *rand.Rand) error {
	up, down := spin.UnitZ, spin.UnitZ.Scale(-1)

	switch cfg.Chain.Initial {
	case "random":
		spin.Random(f, rng)
	case "plus_z":
		spin.Homogeneous(f, up)
	case "minus_z":
		spin.Homogeneous(f, down)
	case "skyrmion":
		spin.Homogeneous(f, up)
		spin.Skyrmion(g, f, g.Center(), cfg.Chain.Radius)
	case "transition":
		a, b := spin.NewField(len(f)), spin.NewField(len(f))
		spin.Homogeneous(a, up)
		spin.Homogeneous(b, down)
		t := float64(i) / float64(cfg.Chain.Images-1)
		spin.Interpolate(a, b, t, f)
	default:
		return fmt.Errorf("unknown initial state: %s", cfg.Chain.Initial)
	}
	return nil
}

func vector(v []float64) spin.Vector {
	return spin.Vector{v[0], v[1], v[2]}
}
