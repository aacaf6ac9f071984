package integrators

import "github.com/san-kum/orbitsim/internal/physics"

// Euler is the semi-implicit (symplectic) Euler method: kick with the
// current acceleration, then drift with the new velocity. First order; kept
// as a baseline for energy drift comparisons.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(bodies []*physics.Body, h float64, sampleInterval int) {
	for _, b := range bodies {
		b.ComputeAcceleration(bodies)
	}
	for _, b := range bodies {
		b.HalfKick(2 * h)
		b.SampleTrail(sampleInterval)
		b.Drift(h)
	}
}
