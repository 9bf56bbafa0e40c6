// Package analysis summarizes solved trajectories.
//
//   - [Describe]: per-column count, mean, spread and quantiles
//   - [Project]: 2D projection onto the XY, XZ or YZ plane
//   - [FirstNonFinite]: where a run diverged, if it did
//   - [LyapunovExponent]: largest Lyapunov exponent by two-trajectory renormalization
//   - [Bifurcation]: local maxima of one coordinate across a parameter sweep
//   - [PowerSpectrum]: spectrum of one coordinate and its dominant frequency
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda, err := analysis.LyapunovExponent(ctx, sys, run, 1e-8)
//	if err == nil && lambda > 0 {
//	    // System is chaotic
//	}
package analysis
