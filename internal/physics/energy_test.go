package physics_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

var _ = Describe("diagnostics", func() {
	It("uses a potential whose slope matches the force law", func() {
		mA, mB, r := 2.0, 3.0, 40.0
		h := 1e-4
		slope := (physics.PairPotential(mA, mB, r+h) - physics.PairPotential(mA, mB, r-h)) / (2 * h)

		a := mustBody(mA, dynamo.V(0, 0), dynamo.Vec2{})
		b := mustBody(mB, dynamo.V(r, 0), dynamo.Vec2{})
		force := a.AccelerationFrom(b).Norm() * mA

		Expect(slope).To(BeNumerically("~", force, 1e-6))
	})

	It("vanishes at large separation and is negative when bound", func() {
		Expect(physics.PairPotential(1, 1, 1e12)).To(BeNumerically("~", 0, 1e-6))
		Expect(physics.PairPotential(1, 1, 10)).To(BeNumerically("<", 0))
	})

	It("sums momentum and kinetic energy", func() {
		bodies := []*physics.Body{
			mustBody(1, dynamo.V(100, 0), dynamo.V(-0.2, 0.6)),
			mustBody(1, dynamo.V(-100, 0), dynamo.V(0.2, -0.6)),
		}
		p := physics.Momentum(bodies)
		Expect(p.X).To(BeNumerically("~", 0, 1e-15))
		Expect(p.Y).To(BeNumerically("~", 0, 1e-15))
		Expect(physics.KineticEnergy(bodies)).To(BeNumerically("~", 0.4, 1e-12))
		Expect(physics.MomentumScale(bodies)).To(BeNumerically(">", 0))
		Expect(physics.CenterOfMass(bodies)).To(Equal(dynamo.Vec2{}))
		Expect(physics.AngularMomentum(bodies, dynamo.Vec2{})).To(BeNumerically("~", 120, 1e-9))
	})

	It("returns the origin as centre of mass of nothing", func() {
		Expect(physics.CenterOfMass(nil)).To(Equal(dynamo.Vec2{}))
	})
})
