package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/scenario"
)

func twoBody(t *testing.T) []*physics.Body {
	t.Helper()
	bodies, err := scenario.Build(0, dynamo.V(640, 400))
	if err != nil {
		t.Fatal(err)
	}
	return bodies
}

func TestEnergy(t *testing.T) {
	bodies := twoBody(t)
	m := NewEnergy()

	m.Observe(bodies, 0)
	expected := physics.TotalEnergy(bodies)
	if math.Abs(m.Value()-expected) > 1e-12 {
		t.Errorf("expected energy %f, got %f", expected, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	bodies := twoBody(t)
	m := NewEnergyDrift()
	lf := integrators.NewLeapfrog()

	m.Observe(bodies, 0)
	if m.Value() != 0 {
		t.Errorf("expected zero drift on first frame, got %g", m.Value())
	}
	for frame := 1; frame <= 10; frame++ {
		for i := 0; i < 1000; i++ {
			lf.Step(bodies, 0.001, 1000)
		}
		m.Observe(bodies, float64(frame))
	}

	if m.Value() <= 0 || m.Value() > 5e-6 {
		t.Errorf("unexpected leapfrog energy drift %g", m.Value())
	}
	if m.Current() != physics.TotalEnergy(bodies) {
		t.Error("Current should report the last observed energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestMomentumDrift(t *testing.T) {
	bodies := twoBody(t)
	m := NewMomentumDrift()
	m.Observe(bodies, 0)

	bodies[0].Velocity = bodies[0].Velocity.Add(dynamo.V(0.1, 0))
	m.Observe(bodies, 1)

	scale := 2 * math.Hypot(0.2, 0.6)
	if math.Abs(m.Value()-0.1/scale) > 1e-12 {
		t.Errorf("expected drift %g, got %g", 0.1/scale, m.Value())
	}
}

func TestStability(t *testing.T) {
	bodies := twoBody(t)
	s := NewStability(150)

	s.Observe(bodies, 0)
	if s.Value() != 1 {
		t.Errorf("bodies within radius: expected 1, got %v", s.Value())
	}

	bodies[0].Position = dynamo.V(2000, 400)
	s.Observe(bodies, 1)
	if s.Value() != 0.5 {
		t.Errorf("expected 0.5 after one escape, got %v", s.Value())
	}
}

func TestTrailPointsAndRecorder(t *testing.T) {
	bodies := twoBody(t)
	lf := integrators.NewLeapfrog()
	for i := 0; i < 2001; i++ {
		lf.Step(bodies, 0.001, 1000)
	}

	tp := NewTrailPoints()
	tp.Observe(bodies, 2.001)
	if tp.Value() != 6 {
		t.Errorf("expected 6 trail points, got %v", tp.Value())
	}

	r := NewRecorder()
	r.OnFrame(1, 2.001, bodies)
	r.OnFrame(2, 2.001, bodies)
	samples := r.Samples()
	if len(samples) != 2 || samples[1].Frame != 2 || samples[0].TrailPoints != 6 {
		t.Fatalf("unexpected samples %+v", samples)
	}
	if math.Abs(samples[0].Total-(samples[0].Kinetic+samples[0].Potential)) > 1e-12 {
		t.Error("total should be kinetic plus potential")
	}
	if got := Totals(samples); len(got) != 2 || got[0] != samples[0].Total {
		t.Errorf("unexpected totals %v", got)
	}

	r.Reset()
	if len(r.Samples()) != 0 {
		t.Error("recorder not reset")
	}
}
