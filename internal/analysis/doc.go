// Package analysis provides diagnostics over finished or running orbits.
//
//   - [PowerSpectrum] and [DominantPeriod]: frequency content of a sampled
//     series, e.g. kinetic energy, whose peak gives the orbital period
//   - [LyapunovExponent]: largest Lyapunov exponent of a preset via
//     trajectory separation
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda, err := analysis.LyapunovExponent(preset, stepper, cfg)
//	if err == nil && lambda > 0 {
//	    // orbits are chaotic
//	}
package analysis
