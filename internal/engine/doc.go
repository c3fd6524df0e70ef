// Package engine provides the iterative methods that drive spin configurations.
//
// Every method kind shares one lifecycle:
//
//	Idle -> Running -> {Converged, Stopped, Failed}
//
//   - [LLG]: damped spin dynamics on one image, converges on the largest torque
//   - [GNEB]: geodesic nudged elastic band on a chain, converges on the path force
//   - [MMF]: minimum mode following on one image, converges once both the eigenmode residual and the force are small
//
// A method owns its [solver.Solver]. It holds a back-reference to its chain and
// the identity of its image, never ownership, and re-resolves the image on
// every step so that a vanished target fails the method instead of dangling.
//
// # Thread Safety
//
// Iterate, Stop and Status may be called from different goroutines. Iterate
// calls are serialized; Status never waits for a step in flight. Once Stop
// returns, the method no longer mutates its target.
package engine
