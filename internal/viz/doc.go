// Package viz renders method status and convergence histories for the terminal.
//
//   - [PhaseStyle] and [StatusLine]: colored one-line method status
//   - [ConvergenceBar] and [SparklineChart]: compact convergence indicators
//   - [PlotHistory]: asciigraph plot of a recorded force or energy history
//
// Colors are dropped automatically when the output is not a terminal.
package viz
