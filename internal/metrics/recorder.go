package metrics

import (
	"github.com/san-kum/orbitsim/internal/physics"
)

// Sample is one row of per-frame diagnostics.
type Sample struct {
	Frame           int
	Time            float64
	Kinetic         float64
	Potential       float64
	Total           float64
	MomentumX       float64
	MomentumY       float64
	AngularMomentum float64
	TrailPoints     int
}

// Recorder collects a Sample after every frame. It satisfies the
// controller's observer hook.
type Recorder struct {
	samples []Sample
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) OnFrame(frame int, t float64, bodies []*physics.Body) {
	r.samples = append(r.samples, Measure(frame, t, bodies))
}

func (r *Recorder) Samples() []Sample { return r.samples }
func (r *Recorder) Reset()            { r.samples = r.samples[:0] }

func Measure(frame int, t float64, bodies []*physics.Body) Sample {
	ke := physics.KineticEnergy(bodies)
	pe := physics.PotentialEnergy(bodies)
	p := physics.Momentum(bodies)
	trail := 0
	for _, b := range bodies {
		trail += b.TrailLen()
	}
	return Sample{
		Frame:           frame,
		Time:            t,
		Kinetic:         ke,
		Potential:       pe,
		Total:           ke + pe,
		MomentumX:       p.X,
		MomentumY:       p.Y,
		AngularMomentum: physics.AngularMomentum(bodies, physics.CenterOfMass(bodies)),
		TrailPoints:     trail,
	}
}

// Totals extracts the total energy series, for plotting.
func Totals(samples []Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Total
	}
	return out
}
