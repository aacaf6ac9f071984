package metrics

import (
	"github.com/san-kum/orbitsim/internal/physics"
)

// Stability reports the fraction of frames in which every body stayed
// within radius of the centre of mass.
type Stability struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewStability(radius float64) *Stability {
	return &Stability{
		name:   "stability",
		radius: radius,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(bodies []*physics.Body, t float64) {
	s.samples++
	com := physics.CenterOfMass(bodies)
	for _, b := range bodies {
		if b.Position.Dist(com) > s.radius {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
