package hamiltonian

import (
	"fmt"

	"github.com/san-kum/spinsim/internal/spin"
)

// parallelChunk is the minimum number of sites handed to one worker.
const parallelChunk = 4096

// Tunable is a Hamiltonian whose scalar parameters can be read and set by name.
type Tunable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Heisenberg is a nearest-neighbour exchange model with a Zeeman term and a
// uniaxial anisotropy:
//
//	E = -J/2 sum_<ij> s_i.s_j - sum_i B.s_i - K sum_i (s_i.e)^2
type Heisenberg struct {
	Exchange   float64
	Field      spin.Vector
	Anisotropy float64
	Axis       spin.Vector

	geometry *spin.Geometry
}

func NewHeisenberg(g *spin.Geometry) *Heisenberg {
	return &Heisenberg{
		Exchange:   1.0,
		Anisotropy: 0.0,
		Axis:       spin.UnitZ,
		geometry:   g,
	}
}

func (h *Heisenberg) Name() string { return "heisenberg" }

func (h *Heisenberg) Energy(spins spin.Field) float64 {
	axis := h.Axis.Normalize()
	exchange, zeeman, anisotropy := 0.0, 0.0, 0.0

	for i, s := range spins {
		for _, j := range h.geometry.Neighbours(i) {
			exchange += s.Dot(spins[j])
		}
		zeeman += h.Field.Dot(s)
		d := s.Dot(axis)
		anisotropy += d * d
	}

	return -0.5*h.Exchange*exchange - zeeman - h.Anisotropy*anisotropy
}

func (h *Heisenberg) Gradient(spins spin.Field, grad spin.Field) {
	axis := h.Axis.Normalize()

	spin.ParallelFor(len(spins), parallelChunk, func(start, end int) {
		for i := start; i < end; i++ {
			s := spins[i]
			var sum spin.Vector
			for _, j := range h.geometry.Neighbours(i) {
				sum = sum.Add(spins[j])
			}
			g := sum.Scale(-h.Exchange).Sub(h.Field)
			g = g.Sub(axis.Scale(2 * h.Anisotropy * s.Dot(axis)))
			grad[i] = g
		}
	})
}

func (h *Heisenberg) GetParams() map[string]float64 {
	return map[string]float64{
		"exchange":   h.Exchange,
		"anisotropy": h.Anisotropy,
		"field_x":    h.Field[0],
		"field_y":    h.Field[1],
		"field_z":    h.Field[2],
	}
}

func (h *Heisenberg) SetParam(name string, value float64) error {
	switch name {
	case "exchange":
		h.Exchange = value
	case "anisotropy":
		h.Anisotropy = value
	case "field_x":
		h.Field[0] = value
	case "field_y":
		h.Field[1] = value
	case "field_z":
		h.Field[2] = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
