package spin

// Hamiltonian evaluates the energy landscape of a spin configuration.
type Hamiltonian interface {
	Name() string
	Energy(spins Field) float64
	// Gradient writes dE/ds for every site into grad.
	Gradient(spins Field, grad Field)
}

// Configuration is one spin vector field together with the immutable
// geometry and Hamiltonian it is evaluated against.
type Configuration struct {
	Spins       Field
	Geometry    *Geometry
	Hamiltonian Hamiltonian
}

// NewConfiguration creates a configuration with every spin along +z.
func NewConfiguration(g *Geometry, h Hamiltonian) *Configuration {
	spins := NewField(g.NOS())
	Homogeneous(spins, UnitZ)
	return &Configuration{
		Spins:       spins,
		Geometry:    g,
		Hamiltonian: h,
	}
}

func (c *Configuration) NOS() int { return len(c.Spins) }

// Clone deep-copies the spins. Geometry and Hamiltonian are shared.
func (c *Configuration) Clone() *Configuration {
	return &Configuration{
		Spins:       c.Spins.Clone(),
		Geometry:    c.Geometry,
		Hamiltonian: c.Hamiltonian,
	}
}

// Energy returns 0 when no Hamiltonian is attached.
func (c *Configuration) Energy() float64 {
	if c.Hamiltonian == nil {
		return 0
	}
	return c.Hamiltonian.Energy(c.Spins)
}
