// Package physics implements the point-mass model of the orbit simulator.
//
// A [Body] carries position, velocity, acceleration and a sampled trail.
// Gravity between bodies uses a scaled, softened inverse-square law:
//
//	delta = (other.Position - b.Position) * DistanceScaling
//	a     = normalize(delta) * G * other.Mass / (|delta|² + Softening²)
//
// One leapfrog sub-step is split into phases ([Body.HalfKick],
// [Body.SampleTrail], [Body.Drift], [Body.ComputeAcceleration]) so an
// integrator can run each phase over every body before the next, or run all
// phases for one body at a time via [Body.ApplyStep].
//
// # Energy Conservation
//
// [TotalEnergy] uses the potential that matches the softened force law, so
// its drift is a direct measure of integration error:
//
//	e0 := physics.TotalEnergy(bodies)
//	// ... integrate ...
//	drift := math.Abs(physics.TotalEnergy(bodies)-e0) / math.Abs(e0)
package physics
