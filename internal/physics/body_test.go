package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

func mustBody(mass float64, pos, vel dynamo.Vec2, opts ...physics.Option) *physics.Body {
	b, err := physics.NewBody(mass, pos, vel, opts...)
	Expect(err).NotTo(HaveOccurred())
	return b
}

var _ = Describe("Body", func() {
	Describe("NewBody", func() {
		DescribeTable("rejects non-positive masses",
			func(mass float64) {
				b, err := physics.NewBody(mass, dynamo.Vec2{}, dynamo.Vec2{})
				Expect(err).To(MatchError(dynamo.ErrInvalidMass))
				Expect(b).To(BeNil())
			},
			Entry("zero", 0.0),
			Entry("negative", -1.0),
			Entry("NaN", math.NaN()),
			Entry("+Inf", math.Inf(1)),
		)

		It("starts with zero acceleration, empty trail and unit radius scale", func() {
			b := mustBody(2, dynamo.V(1, 2), dynamo.V(3, 4))
			Expect(b.Acceleration).To(Equal(dynamo.Vec2{}))
			Expect(b.TrailLen()).To(Equal(0))
			Expect(b.RadiusScale).To(Equal(1.0))
			Expect(b.SampleCounter()).To(Equal(0))
		})
	})

	Describe("AccelerationFrom", func() {
		It("obeys Newton's third law", func() {
			a := mustBody(2, dynamo.V(10, 20), dynamo.Vec2{})
			b := mustBody(5, dynamo.V(-30, 55), dynamo.Vec2{})

			fa := a.AccelerationFrom(b).Scale(a.Mass)
			fb := b.AccelerationFrom(a).Scale(b.Mass)

			Expect(fa.X).To(BeNumerically("~", -fb.X, 1e-12))
			Expect(fa.Y).To(BeNumerically("~", -fb.Y, 1e-12))
			Expect(fa.Norm()).To(BeNumerically(">", 0))
		})

		It("points toward the other body", func() {
			a := mustBody(1, dynamo.V(0, 0), dynamo.Vec2{})
			b := mustBody(1, dynamo.V(100, 0), dynamo.Vec2{})
			acc := a.AccelerationFrom(b)
			Expect(acc.X).To(BeNumerically(">", 0))
			Expect(acc.Y).To(BeNumerically("==", 0))
		})

		It("follows the scaled inverse-square law at large separation", func() {
			a := mustBody(1, dynamo.V(0, 0), dynamo.Vec2{})
			b := mustBody(3, dynamo.V(0, 1000), dynamo.Vec2{})
			// scaled separation is 100
			want := physics.G * 3 / (100*100 + physics.Softening*physics.Softening)
			Expect(a.AccelerationFrom(b).Norm()).To(BeNumerically("~", want, 1e-15))
		})

		It("stays bounded by G·m/ε² as separation vanishes", func() {
			bound := physics.G * 4 / (physics.Softening * physics.Softening)
			a := mustBody(1, dynamo.V(5, 5), dynamo.Vec2{})
			for _, gap := range []float64{1, 1e-3, 1e-6, 1e-9} {
				b := mustBody(4, dynamo.V(5+gap, 5), dynamo.Vec2{})
				acc := a.AccelerationFrom(b)
				Expect(acc.IsValid()).To(BeTrue())
				Expect(acc.Norm()).To(BeNumerically("<=", bound*(1+1e-12)))
			}
			b := mustBody(4, dynamo.V(5+1e-9, 5), dynamo.Vec2{})
			Expect(a.AccelerationFrom(b).Norm()).To(BeNumerically("~", bound, 1e-6))
		})

		It("is zero, not NaN, for coincident bodies", func() {
			a := mustBody(1, dynamo.V(7, 7), dynamo.Vec2{})
			b := mustBody(1, dynamo.V(7, 7), dynamo.Vec2{})
			Expect(a.AccelerationFrom(b)).To(Equal(dynamo.Vec2{}))
		})
	})

	Describe("ApplyStep", func() {
		var bodies []*physics.Body

		BeforeEach(func() {
			center := dynamo.V(640, 400)
			bodies = []*physics.Body{
				mustBody(1, center.Add(dynamo.V(100, 0)), dynamo.V(-0.2, 0.6)),
				mustBody(1, center.Add(dynamo.V(-100, 0)), dynamo.V(0.2, -0.6)),
			}
		})

		It("changes velocity by the reproducible leapfrog delta", func() {
			before := bodies[0].Velocity
			bodies[0].ApplyStep(bodies, 0.001, physics.PracticalSampleInterval(1000))
			dv := bodies[0].Velocity.Sub(before)

			Expect(dv.X).To(BeNumerically("~", -1.2500021874861655e-05, 1e-15))
			Expect(dv.Y).To(BeNumerically("~", -3.7500114125066375e-11, 1e-15))
		})

		It("leaves the other body untouched", func() {
			other := *bodies[1]
			bodies[0].ApplyStep(bodies, 0.001, 1000)
			Expect(bodies[1].Position).To(Equal(other.Position))
			Expect(bodies[1].Velocity).To(Equal(other.Velocity))
		})

		It("samples the starting position on the first sub-step", func() {
			start := bodies[0].Position
			bodies[0].ApplyStep(bodies, 0.001, 1000)
			Expect(bodies[0].Trail()).To(Equal([]dynamo.Vec2{start}))
			Expect(bodies[0].Rotation).To(BeNumerically("~", physics.RotationStep, 1e-15))
		})
	})

	Describe("trail sampling cadence", func() {
		run := func(b *physics.Body, steps, interval int) {
			solo := []*physics.Body{b}
			for i := 0; i < steps; i++ {
				b.ApplyStep(solo, 0.001, interval)
				Expect(b.SampleCounter()).To(BeNumerically("<", interval))
			}
		}

		DescribeTable("samples once per practical interval",
			func(accuracy, interval int) {
				Expect(physics.PracticalSampleInterval(accuracy)).To(Equal(interval))

				b := mustBody(1, dynamo.Vec2{}, dynamo.V(1, 0))
				run(b, interval, interval)
				Expect(b.TrailLen()).To(Equal(1))
				run(b, 1, interval)
				Expect(b.TrailLen()).To(Equal(2))
				run(b, interval-1, interval)
				Expect(b.TrailLen()).To(Equal(2))
				run(b, 1, interval)
				Expect(b.TrailLen()).To(Equal(3))
			},
			Entry("reference accuracy", 1000, 1000),
			Entry("double accuracy", 2000, 2000),
			Entry("minimum accuracy", 500, 500),
		)

		It("keeps the counter in range when the interval shrinks", func() {
			b := mustBody(1, dynamo.Vec2{}, dynamo.Vec2{})
			for i := 0; i < 1500; i++ {
				b.SampleTrail(2000)
			}
			Expect(b.SampleCounter()).To(Equal(1500))
			b.SampleTrail(1000)
			Expect(b.SampleCounter()).To(BeNumerically("<", 1000))
		})

		It("treats a zero interval as sampling every sub-step", func() {
			b := mustBody(1, dynamo.Vec2{}, dynamo.Vec2{})
			Expect(b.SampleTrail(0)).To(BeTrue())
			Expect(b.SampleTrail(0)).To(BeTrue())
			Expect(b.TrailLen()).To(Equal(2))
		})

		It("never goes below one sub-step", func() {
			Expect(physics.PracticalSampleInterval(0)).To(Equal(1))
		})
	})

	Describe("ClearTrail", func() {
		It("is idempotent and leaves the kinematics alone", func() {
			b := mustBody(1, dynamo.V(1, 1), dynamo.V(2, 0))
			b.Acceleration = dynamo.V(0.5, 0.5)
			for i := 0; i < 5; i++ {
				b.SampleTrail(1)
			}
			pos, vel, acc := b.Position, b.Velocity, b.Acceleration

			b.ClearTrail()
			Expect(b.Trail()).To(BeEmpty())
			b.ClearTrail()
			Expect(b.Trail()).To(BeEmpty())

			Expect(b.Position).To(Equal(pos))
			Expect(b.Velocity).To(Equal(vel))
			Expect(b.Acceleration).To(Equal(acc))
		})
	})

	Describe("bounded trails", func() {
		It("keeps only the newest samples, oldest first", func() {
			b := mustBody(1, dynamo.Vec2{}, dynamo.Vec2{}, physics.WithTrailLimit(3))
			for i := 1; i <= 5; i++ {
				b.Position = dynamo.V(float64(i), 0)
				b.SampleTrail(1)
			}
			Expect(b.Trail()).To(Equal([]dynamo.Vec2{{X: 3}, {X: 4}, {X: 5}}))
		})
	})

	Describe("Overlaps", func() {
		It("hit-tests against mass × base radius × radius scale", func() {
			b := mustBody(1, dynamo.V(100, 100), dynamo.Vec2{})
			Expect(b.Overlaps(dynamo.V(149, 100), physics.DefaultBaseRadius)).To(BeTrue())
			Expect(b.Overlaps(dynamo.V(150, 100), physics.DefaultBaseRadius)).To(BeFalse())

			big := mustBody(0.3, dynamo.V(0, 0), dynamo.Vec2{}, physics.WithRadiusScale(3))
			Expect(big.Radius(physics.DefaultBaseRadius)).To(BeNumerically("~", 45, 1e-12))
		})
	})

	Describe("Clone", func() {
		It("copies the trail instead of sharing it", func() {
			b := mustBody(1, dynamo.Vec2{}, dynamo.Vec2{})
			b.SampleTrail(1)
			c := b.Clone()
			b.ClearTrail()
			Expect(c.TrailLen()).To(Equal(1))
		})
	})

	It("works on a zero-value body", func() {
		b := &physics.Body{Mass: 1}
		Expect(b.SampleTrail(1)).To(BeTrue())
		Expect(b.TrailLen()).To(Equal(1))
		Expect((&physics.Body{}).Trail()).To(BeEmpty())
	})
})
