package spin

// Geometry is an immutable simple-cubic lattice with open boundaries.
// Sites are ordered x fastest, then y, then z.
type Geometry struct {
	dims       [3]int
	positions  []Vector
	neighbours [][]int
}

func NewLattice(nx, ny, nz int) *Geometry {
	if nx < 1 {
		nx = 1
	}
	if ny < 1 {
		ny = 1
	}
	if nz < 1 {
		nz = 1
	}

	nos := nx * ny * nz
	g := &Geometry{
		dims:       [3]int{nx, ny, nz},
		positions:  make([]Vector, nos),
		neighbours: make([][]int, nos),
	}

	index := func(x, y, z int) int { return x + nx*(y+ny*z) }

	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				i := index(x, y, z)
				g.positions[i] = Vector{float64(x), float64(y), float64(z)}

				nb := make([]int, 0, 6)
				if x > 0 {
					nb = append(nb, index(x-1, y, z))
				}
				if x < nx-1 {
					nb = append(nb, index(x+1, y, z))
				}
				if y > 0 {
					nb = append(nb, index(x, y-1, z))
				}
				if y < ny-1 {
					nb = append(nb, index(x, y+1, z))
				}
				if z > 0 {
					nb = append(nb, index(x, y, z-1))
				}
				if z < nz-1 {
					nb = append(nb, index(x, y, z+1))
				}
				g.neighbours[i] = nb
			}
		}
	}

	return g
}

func (g *Geometry) NOS() int     { return len(g.positions) }
func (g *Geometry) Dims() [3]int { return g.dims }

func (g *Geometry) Position(i int) Vector { return g.positions[i] }

// Neighbours returns the nearest-neighbour indices of site i. The slice must not be modified.
func (g *Geometry) Neighbours(i int) []int { return g.neighbours[i] }

// Center returns the geometric center of the lattice.
func (g *Geometry) Center() Vector {
	return Vector{
		float64(g.dims[0]-1) / 2,
		float64(g.dims[1]-1) / 2,
		float64(g.dims[2]-1) / 2,
	}
}
