package integrators

import (
	"fmt"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Stepper advances a body set by one sub-step of size h.
type Stepper interface {
	Name() string
	Step(bodies []*physics.Body, h float64, sampleInterval int)
}

// Names lists the registered steppers, default first.
func Names() []string {
	return []string{"leapfrog", "sequential", "euler"}
}

// New returns the stepper registered under name. workers only applies to
// leapfrog.
func New(name string, workers int) (Stepper, error) {
	switch name {
	case "", "leapfrog":
		return NewLeapfrog().WithWorkers(workers, 0), nil
	case "sequential":
		return NewSequential(), nil
	case "euler":
		return NewEuler(), nil
	default:
		return nil, fmt.Errorf("%w: %q (available: %v)", dynamo.ErrUnknownIntegrator, name, Names())
	}
}
