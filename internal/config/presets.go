package config

import "sort"

var Presets = map[string]*Config{
	"ferromagnet": {
		Lattice:     LatticeConfig{Nx: 16, Ny: 16, Nz: 1},
		Hamiltonian: HamiltonianConfig{Exchange: 1, Field: []float64{0, 0, 0.1}, Axis: []float64{0, 0, 1}},
		Chain:       ChainConfig{Images: 1, Initial: "random", Seed: 1},
	},
	"skyrmion": {
		Lattice:     LatticeConfig{Nx: 24, Ny: 24, Nz: 1},
		Hamiltonian: HamiltonianConfig{Exchange: 1, Field: []float64{0, 0, 0.05}, Anisotropy: 0.02, Axis: []float64{0, 0, 1}},
		Chain:       ChainConfig{Images: 1, Initial: "skyrmion", Radius: 5},
	},
	"reversal": {
		Lattice:     LatticeConfig{Nx: 1, Ny: 1, Nz: 1},
		Hamiltonian: HamiltonianConfig{Exchange: 1, Field: []float64{0, 0, 0}, Anisotropy: 1, Axis: []float64{0, 0, 1}},
		Chain:       ChainConfig{Images: 7, Initial: "transition"},
	},
	"macrospin": {
		Lattice:     LatticeConfig{Nx: 4, Ny: 1, Nz: 1},
		Hamiltonian: HamiltonianConfig{Exchange: 1, Field: []float64{0, 0, 0}, Anisotropy: 0.5, Axis: []float64{0, 0, 1}},
		Chain:       ChainConfig{Images: 3, Initial: "random", Seed: 7},
	},
}

// GetPreset returns a copy of the named preset completed with defaults, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Lattice = p.Lattice
	cfg.Hamiltonian = p.Hamiltonian
	cfg.Chain = p.Chain
	if cfg.Chain.Radius == 0 {
		cfg.Chain.Radius = DefaultRadius
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
