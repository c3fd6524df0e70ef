package spin

import (
	"math"
	"math/rand"
)

// Homogeneous points every spin along dir.
func Homogeneous(f Field, dir Vector) {
	d := dir.Normalize()
	for i := range f {
		f[i] = d
	}
}

// Random draws every spin uniformly from the unit sphere.
func Random(f Field, rng *rand.Rand) {
	for i := range f {
		z := 2*rng.Float64() - 1
		phi := 2 * math.Pi * rng.Float64()
		r := math.Sqrt(1 - z*z)
		f[i] = Vector{r * math.Cos(phi), r * math.Sin(phi), z}
	}
}

// Skyrmion writes a Neel skyrmion of the given radius centered at center into a
// +z background. Sites outside the radius are left untouched.
func Skyrmion(g *Geometry, f Field, center Vector, radius float64) {
	if radius <= 0 {
		return
	}
	for i := range f {
		d := g.Position(i).Sub(center)
		d[2] = 0
		r := d.Norm()
		if r > radius {
			continue
		}
		theta := math.Pi * (1 - r/radius)
		phi := math.Atan2(d[1], d[0])
		f[i] = Vector{
			math.Sin(theta) * math.Cos(phi),
			math.Sin(theta) * math.Sin(phi),
			math.Cos(theta),
		}
	}
}

// Interpolate rotates every spin of a towards the corresponding spin of b along the
// great circle and stores the fraction t of the way in dst. dst may alias a or b.
func Interpolate(a, b Field, t float64, dst Field) {
	for i := range dst {
		dst[i] = slerp(a[i], b[i], t)
	}
}

func slerp(a, b Vector, t float64) Vector {
	cos := math.Max(-1, math.Min(1, a.Dot(b)))
	angle := math.Acos(cos)
	if angle < 1e-12 {
		return a
	}

	axis := a.Cross(b)
	if axis.Norm() < 1e-12 {
		// antiparallel: any axis orthogonal to a will do
		axis = a.Cross(UnitX)
		if axis.Norm() < 1e-12 {
			axis = a.Cross(UnitY)
		}
	}
	axis = axis.Normalize()

	return rotate(a, axis, angle*t)
}

// rotate applies Rodrigues' rotation of v around the unit axis k.
func rotate(v, k Vector, angle float64) Vector {
	c, s := math.Cos(angle), math.Sin(angle)
	return v.Scale(c).Add(k.Cross(v).Scale(s)).Add(k.Scale(k.Dot(v) * (1 - c))).Normalize()
}

// GeodesicDistance is the distance between a and b on the product of unit spheres:
// the root of the summed squared great-circle angles.
func GeodesicDistance(a, b Field) float64 {
	sum := 0.0
	for i := range a {
		cos := math.Max(-1, math.Min(1, a[i].Dot(b[i])))
		angle := math.Acos(cos)
		sum += angle * angle
	}
	return math.Sqrt(sum)
}
