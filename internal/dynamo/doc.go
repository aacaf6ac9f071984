// Package dynamo provides the shared primitives of the orbit simulator.
//
// The package defines the small set of types every other package builds on:
//
//   - [Vec2]: immutable 2D vector with value semantics
//   - domain errors ([ErrInvalidMass], [ErrUnknownPreset], ...)
//   - [ParallelFor]: chunked fan-out used to shard force computation
//
// # Value Semantics
//
// Every [Vec2] operation returns a new value. Callers reassign:
//
//	b.Position = b.Position.Add(b.Velocity.Scale(h))
//
// Normalizing the zero vector yields the zero vector rather than NaN, so
// two coincident bodies exert no force on each other.
package dynamo
