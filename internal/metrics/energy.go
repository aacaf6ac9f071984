package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/physics"
)

// Energy reports the mean total energy over observed frames.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(bodies []*physics.Body, t float64) {
	e.totalEnergy += physics.TotalEnergy(bodies)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift reports the largest relative deviation from the energy of the
// first observed frame.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(bodies []*physics.Body, t float64) {
	energy := physics.TotalEnergy(bodies)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Current() float64 {
	return e.currentEnergy
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// MomentumDrift reports the largest |P − P₀| seen, relative to Σ m·|v| of
// the first observed frame.
type MomentumDrift struct {
	name     string
	initial  [2]float64
	scale    float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(bodies []*physics.Body, t float64) {
	p := physics.Momentum(bodies)
	if m.samples == 0 {
		m.initial = [2]float64{p.X, p.Y}
		m.scale = physics.MomentumScale(bodies)
	}
	m.samples++

	if m.scale == 0 {
		return
	}
	drift := math.Hypot(p.X-m.initial[0], p.Y-m.initial[1]) / m.scale
	m.maxDrift = math.Max(m.maxDrift, drift)
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = [2]float64{}
	m.scale = 0
	m.maxDrift = 0
	m.samples = 0
}

// TrailPoints reports the number of trail samples held by the body set at
// the last observed frame.
type TrailPoints struct {
	points int
}

func NewTrailPoints() *TrailPoints { return &TrailPoints{} }

func (tp *TrailPoints) Name() string { return "trail_points" }

func (tp *TrailPoints) Observe(bodies []*physics.Body, t float64) {
	tp.points = 0
	for _, b := range bodies {
		tp.points += b.TrailLen()
	}
}

func (tp *TrailPoints) Value() float64 { return float64(tp.points) }
func (tp *TrailPoints) Reset()         { tp.points = 0 }
