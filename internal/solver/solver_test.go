package solver

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/spinsim/internal/data"
	"github.com/san-kum/spinsim/internal/spin"
)

// towardsZ is the tangent force of a Zeeman field along +z.
func towardsZ(spins spin.Field, out spin.Field) {
	for i, s := range spins {
		out[i] = spin.UnitZ.Sub(s.Scale(s.Dot(spin.UnitZ)))
	}
}

func TestRegistry_Unknown(t *testing.T) {
	for _, name := range []string{"sib", "depondt", "ncg", ""} {
		_, err := New(name)
		if !errors.Is(err, data.ErrNotImplemented) {
			t.Errorf("%q: expected ErrNotImplemented, got %v", name, err)
		}
	}
}

func TestRegistry_FreshInstances(t *testing.T) {
	a, err := New("vp")
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	b, _ := New("vp")
	if a == b {
		t.Error("registry returned a shared solver instance")
	}
}

func TestSolvers_RelaxAlongField(t *testing.T) {
	for _, name := range List() {
		t.Run(name, func(t *testing.T) {
			s, err := New(name)
			if err != nil {
				t.Fatalf("new failed: %v", err)
			}

			spins := spin.Field{spin.Vector{1, 0, 0.1}.Normalize(), spin.Vector{0, 1, -0.5}.Normalize()}
			for i := 0; i < 2000; i++ {
				s.Step(spins, towardsZ, 0.05)
			}

			for i, v := range spins {
				if math.Abs(v.Norm()-1) > 1e-12 {
					t.Errorf("site %d lost normalization: %v", i, v.Norm())
				}
				if v[2] < 0.999 {
					t.Errorf("site %d did not relax along +z: %v", i, v)
				}
			}
		})
	}
}

func TestVP_Reset(t *testing.T) {
	v := NewVP()
	spins := spin.Field{spin.UnitX}
	v.Step(spins, towardsZ, 0.1)
	v.Step(spins, towardsZ, 0.1)

	v.Reset()
	if v.started {
		t.Error("reset did not clear the started flag")
	}
	for _, vel := range v.velocity {
		if vel != (spin.Vector{}) {
			t.Errorf("velocity not cleared: %v", vel)
		}
	}
}
