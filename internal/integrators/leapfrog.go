package integrators

import (
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Leapfrog advances every body through each kick-drift-kick phase before
// any body starts the next one. Accelerations are therefore computed from a
// consistent set of positions, which keeps pairwise forces symmetric and
// total momentum conserved.
type Leapfrog struct {
	workers  int
	minChunk int
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{workers: 1, minChunk: 16}
}

// WithWorkers shards the acceleration pass across n goroutines. Each shard
// writes only its own bodies' accelerations and reads positions that are
// not modified during the pass.
func (l *Leapfrog) WithWorkers(n, minChunk int) *Leapfrog {
	if n < 1 {
		n = 1
	}
	l.workers = n
	if minChunk > 0 {
		l.minChunk = minChunk
	}
	return l
}

func (l *Leapfrog) Name() string { return "leapfrog" }

func (l *Leapfrog) Step(bodies []*physics.Body, h float64, sampleInterval int) {
	for _, b := range bodies {
		b.HalfKick(h)
		b.SampleTrail(sampleInterval)
		b.Drift(h)
	}

	dynamo.ParallelFor(len(bodies), l.workers, l.minChunk, func(start, end int) {
		for _, b := range bodies[start:end] {
			b.ComputeAcceleration(bodies)
		}
	})

	for _, b := range bodies {
		b.HalfKick(h)
	}
}

// Sequential runs a complete sub-step for one body before moving to the
// next, so later bodies see the already-drifted positions of earlier ones.
type Sequential struct{}

func NewSequential() *Sequential {
	return &Sequential{}
}

func (s *Sequential) Name() string { return "sequential" }

func (s *Sequential) Step(bodies []*physics.Body, h float64, sampleInterval int) {
	for _, b := range bodies {
		b.ApplyStep(bodies, h, sampleInterval)
	}
}
