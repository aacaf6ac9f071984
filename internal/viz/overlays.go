package viz

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/sim"
)

const (
	velocityArrowScale = 100
	minArrow           = 40
	maxArrow           = 100
	accelArrowGain     = 1000
)

// Segment is a line in world coordinates.
type Segment struct {
	From, To dynamo.Vec2
}

// VelocityArrow points along v with length 100·|v|.
func VelocityArrow(b sim.BodyView) Segment {
	return Segment{From: b.Position, To: b.Position.Add(b.Velocity.Scale(velocityArrowScale))}
}

// AccelerationArrow points along a with length clamped to [40, 100].
func AccelerationArrow(b sim.BodyView) Segment {
	l := math.Min(math.Max(b.Acceleration.Norm()*accelArrowGain, minArrow), maxArrow)
	return Segment{From: b.Position, To: b.Position.Add(b.Acceleration.Normalize().Scale(l))}
}

// ForceArrows points from body i toward every other body. Bodies sharing
// its position contribute nothing.
func ForceArrows(bodies []sim.BodyView, i int) []Segment {
	self := bodies[i]
	out := make([]Segment, 0, len(bodies)-1)
	for j, other := range bodies {
		if j == i {
			continue
		}
		dir := other.Position.Sub(self.Position).Normalize()
		if dir.IsZero() {
			continue
		}
		out = append(out, Segment{From: self.Position, To: self.Position.Add(dir.Scale(maxArrow))})
	}
	return out
}
