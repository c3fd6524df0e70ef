// Package hamiltonian provides energy models for spin configurations.
//
// Each model implements [spin.Hamiltonian]. The models here are reference
// implementations used by the command line tool and the tests; the engine only
// relies on the interface.
package hamiltonian
