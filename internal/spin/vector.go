package spin

import "math"

type Vector [3]float64

var (
	UnitX = Vector{1, 0, 0}
	UnitY = Vector{0, 1, 0}
	UnitZ = Vector{0, 0, 1}
)

func (v Vector) Dot(o Vector) float64 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

func (v Vector) Cross(o Vector) Vector {
	return Vector{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

func (v Vector) Add(o Vector) Vector {
	return Vector{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

func (v Vector) Sub(o Vector) Vector {
	return Vector{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

func (v Vector) Scale(factor float64) Vector {
	return Vector{v[0] * factor, v[1] * factor, v[2] * factor}
}

func (v Vector) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vector) Normalize() Vector {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

func (v Vector) IsValid() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
