package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	// G is the gravitational constant in simulator units.
	G = 10.0
	// Softening is added (squared) to every squared separation.
	Softening = 0.01
	// DistanceScaling converts pixel separations to physical separations.
	DistanceScaling = 1.0 / 10
	// BaseSampleInterval is the trail sampling interval, in sub-steps, at
	// the reference accuracy.
	BaseSampleInterval = 1000
	// ReferenceAccuracy is the accuracy value BaseSampleInterval is tuned for.
	ReferenceAccuracy = 1000
	// RotationStep is added to a body's rotation on every trail sample.
	RotationStep = 0.1
	// DefaultBaseRadius is the render radius of a unit-mass body.
	DefaultBaseRadius = 50.0
)

// Body is a point mass.
type Body struct {
	Mass         float64
	Position     dynamo.Vec2
	Velocity     dynamo.Vec2
	Acceleration dynamo.Vec2
	RadiusScale  float64
	Rotation     float64

	trail         *Trail
	sampleCounter int
}

type Option func(*Body)

// WithRadiusScale sets the render radius multiplier.
func WithRadiusScale(s float64) Option {
	return func(b *Body) { b.RadiusScale = s }
}

// WithTrailLimit bounds the trail to the most recent n samples. n <= 0
// keeps every sample.
func WithTrailLimit(n int) Option {
	return func(b *Body) { b.trail = NewTrail(n) }
}

// NewBody creates a body at rest acceleration-wise. The first half-kick of
// a new body is therefore a no-op until its acceleration is computed.
func NewBody(mass float64, position, velocity dynamo.Vec2, opts ...Option) (*Body, error) {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return nil, fmt.Errorf("%w: got %v", dynamo.ErrInvalidMass, mass)
	}
	b := &Body{
		Mass:        mass,
		Position:    position,
		Velocity:    velocity,
		RadiusScale: 1.0,
		trail:       NewTrail(0),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// AccelerationFrom returns the acceleration b experiences due to other.
//
// The separation is scaled by DistanceScaling and softened, so the
// magnitude is G*m/(d² + ε²) and stays finite as the bodies approach.
func (b *Body) AccelerationFrom(other *Body) dynamo.Vec2 {
	delta := other.Position.Sub(b.Position).Scale(DistanceScaling)
	d2 := delta.X*delta.X + delta.Y*delta.Y + Softening*Softening
	invDist := 1 / d2
	mag := G * other.Mass * invDist
	return delta.Normalize().Scale(mag)
}

// ComputeAcceleration replaces b's acceleration with the sum of the
// accelerations due to every other body in bodies.
func (b *Body) ComputeAcceleration(bodies []*Body) {
	acc := dynamo.Vec2{}
	for _, other := range bodies {
		if other == b {
			continue
		}
		acc = acc.Add(b.AccelerationFrom(other))
	}
	b.Acceleration = acc
}

func (b *Body) HalfKick(h float64) {
	b.Velocity = b.Velocity.Add(b.Acceleration.Scale(h / 2))
}

func (b *Body) Drift(h float64) {
	b.Position = b.Position.Add(b.Velocity.Scale(h))
}

// SampleTrail records the current position every interval calls and
// reports whether it did so on this call.
func (b *Body) SampleTrail(interval int) bool {
	if interval < 1 {
		interval = 1
	}
	b.FitSampleCounter(interval)
	if b.trail == nil {
		b.trail = NewTrail(0)
	}
	sampled := false
	if b.sampleCounter%interval == 0 {
		b.Rotation += RotationStep
		b.trail.Push(b.Position)
		sampled = true
	}
	b.sampleCounter = (b.sampleCounter + 1) % interval
	return sampled
}

// FitSampleCounter reduces the sample counter into [0, interval) after
// the interval has shrunk.
func (b *Body) FitSampleCounter(interval int) {
	if interval < 1 {
		interval = 1
	}
	if b.sampleCounter >= interval {
		b.sampleCounter %= interval
	}
}

// ApplyStep advances b alone by one leapfrog sub-step of size h against
// the current positions of bodies.
func (b *Body) ApplyStep(bodies []*Body, h float64, interval int) {
	b.HalfKick(h)
	b.SampleTrail(interval)
	b.Drift(h)
	b.ComputeAcceleration(bodies)
	b.HalfKick(h)
}

// PracticalSampleInterval scales BaseSampleInterval with accuracy so trail
// density per unit of simulated time stays constant.
func PracticalSampleInterval(accuracy int) int {
	n := int(math.Round(float64(BaseSampleInterval) * float64(accuracy) / ReferenceAccuracy))
	if n < 1 {
		return 1
	}
	return n
}

func (b *Body) Radius(baseRadius float64) float64 {
	return b.Mass * baseRadius * b.RadiusScale
}

// Overlaps reports whether point lies strictly inside b's render disc.
func (b *Body) Overlaps(point dynamo.Vec2, baseRadius float64) bool {
	return b.Position.Dist(point) < b.Radius(baseRadius)
}

func (b *Body) Trail() []dynamo.Vec2 { return b.trail.Points() }
func (b *Body) TrailLen() int        { return b.trail.Len() }
func (b *Body) ClearTrail()          { b.trail.Clear() }

// SampleCounter returns the sub-steps elapsed since the last trail sample.
func (b *Body) SampleCounter() int { return b.sampleCounter }

func (b *Body) IsValid() bool {
	return b.Position.IsValid() && b.Velocity.IsValid() && b.Acceleration.IsValid()
}

// Clone returns a deep copy of b, trail included.
func (b *Body) Clone() *Body {
	c := *b
	c.trail = b.trail.Clone()
	return &c
}
