// Package analysis extracts orbital characteristics from runs and scenes.
//
// The package includes tools for characterizing trajectories:
//
//   - [DominantPeriod]: spectral period estimate of a sampled series
//   - [Periapses] and [Precession]: periapsis passages and apsidal advance
//   - [LyapunovExponent]: largest Lyapunov exponent via scene separation
//   - [VelocitySweep]: orbit shape as a body's launch speed is scaled
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda, err := analysis.LyapunovExponent(build, "planet", 1e-6, dt, duration)
//	if lambda > 0 {
//	    // System is chaotic
//	}
package analysis
