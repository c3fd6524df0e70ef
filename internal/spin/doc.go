// Package spin provides the numeric data of a classical spin system.
//
// The package defines the leaf types every other package builds on:
//
//   - [Vector]: a single three-component spin or force
//   - [Field]: a vector field over the nos sites of a lattice
//   - [Geometry]: the immutable lattice the spins live on
//   - [Hamiltonian]: energy and gradient evaluation for a [Field]
//   - [Configuration]: spins together with their geometry and Hamiltonian
//
// # Example
//
//	g := spin.NewLattice(10, 10, 1)
//	cfg := spin.NewConfiguration(g, hamiltonian.NewHeisenberg(g))
//	spin.Random(cfg.Spins, rand.New(rand.NewSource(1)))
//
// # Thread Safety
//
// Fields are plain slices and are NOT safe for concurrent mutation. Ownership and
// locking live one level up, in the data package.
package spin
