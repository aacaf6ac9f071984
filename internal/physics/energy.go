package physics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// KineticEnergy returns Σ ½·m·|v|².
func KineticEnergy(bodies []*Body) float64 {
	ke := 0.0
	for _, b := range bodies {
		ke += 0.5 * b.Mass * b.Velocity.NormSq()
	}
	return ke
}

// PairPotential is the potential energy of two masses separated by r pixels
// under the scaled, softened force law. It is zero at infinite separation
// and its negative derivative is exactly G·mA·mB/((s·r)² + ε²).
func PairPotential(mA, mB, r float64) float64 {
	s, eps := DistanceScaling, Softening
	return G * mA * mB / (s * eps) * (math.Atan(s*r/eps) - math.Pi/2)
}

func PotentialEnergy(bodies []*Body) float64 {
	pe := 0.0
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			r := bodies[i].Position.Dist(bodies[j].Position)
			pe += PairPotential(bodies[i].Mass, bodies[j].Mass, r)
		}
	}
	return pe
}

func TotalEnergy(bodies []*Body) float64 {
	return KineticEnergy(bodies) + PotentialEnergy(bodies)
}

// Momentum returns Σ m·v.
func Momentum(bodies []*Body) dynamo.Vec2 {
	p := dynamo.Vec2{}
	for _, b := range bodies {
		p = p.Add(b.Velocity.Scale(b.Mass))
	}
	return p
}

// MomentumScale returns Σ m·|v|, a natural yardstick for momentum error
// in systems whose total momentum is zero.
func MomentumScale(bodies []*Body) float64 {
	s := 0.0
	for _, b := range bodies {
		s += b.Mass * b.Velocity.Norm()
	}
	return s
}

// AngularMomentum returns the z component of Σ m·(r − origin)×v.
func AngularMomentum(bodies []*Body, origin dynamo.Vec2) float64 {
	l := 0.0
	for _, b := range bodies {
		l += b.Mass * b.Position.Sub(origin).Cross(b.Velocity)
	}
	return l
}

func CenterOfMass(bodies []*Body) dynamo.Vec2 {
	total := 0.0
	c := dynamo.Vec2{}
	for _, b := range bodies {
		total += b.Mass
		c = c.Add(b.Position.Scale(b.Mass))
	}
	if total == 0 {
		return dynamo.Vec2{}
	}
	return c.Scale(1 / total)
}
