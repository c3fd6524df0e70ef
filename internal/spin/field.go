package spin

import "math"

// Field is a vector field over the sites of a lattice, one Vector per site.
type Field []Vector

func NewField(nos int) Field {
	return make(Field, nos)
}

func (f Field) Clone() Field {
	c := make(Field, len(f))
	copy(c, f)
	return c
}

// CopyFrom overwrites f with src. Both fields must have the same length.
func (f Field) CopyFrom(src Field) {
	copy(f, src)
}

func (f Field) IsValid() bool {
	for _, v := range f {
		if !v.IsValid() {
			return false
		}
	}
	return true
}

// Equal reports whether both fields hold bit-identical values.
func (f Field) Equal(o Field) bool {
	if len(f) != len(o) {
		return false
	}
	for i := range f {
		for c := 0; c < 3; c++ {
			if math.Float64bits(f[i][c]) != math.Float64bits(o[i][c]) {
				return false
			}
		}
	}
	return true
}

func (f Field) Dot(o Field) float64 {
	sum := 0.0
	for i := range f {
		sum += f[i].Dot(o[i])
	}
	return sum
}

func (f Field) Norm() float64 {
	return math.Sqrt(f.Dot(f))
}

// MaxNorm returns the largest per-site norm.
func (f Field) MaxNorm() float64 {
	max := 0.0
	for _, v := range f {
		if n := v.Norm(); n > max {
			max = n
		}
	}
	return max
}

func (f Field) Scale(factor float64) {
	for i := range f {
		f[i] = f[i].Scale(factor)
	}
}

func (f Field) Normalize() {
	for i := range f {
		f[i] = f[i].Normalize()
	}
}

// ProjectTangent removes from v the per-site component parallel to spins,
// leaving a vector in the tangent space of the configuration.
func ProjectTangent(spins, v Field) {
	for i := range v {
		v[i] = v[i].Sub(spins[i].Scale(v[i].Dot(spins[i])))
	}
}
