// Package solver provides the numerical update rules methods apply per iteration.
//
// A [Solver] only knows how to move a spin field along a [Direction]; what the
// direction means (precession and damping, a path force, a mode-following force)
// is decided by the method that owns the solver.
package solver
