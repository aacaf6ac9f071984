package sim

import (
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Metric accumulates a diagnostic over completed frames.
type Metric interface {
	Name() string
	Observe(bodies []*physics.Body, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every completed frame. bodies must not be
// retained or modified.
type Observer interface {
	OnFrame(frame int, t float64, bodies []*physics.Body)
}

type ObserverFunc func(frame int, t float64, bodies []*physics.Body)

func (f ObserverFunc) OnFrame(frame int, t float64, bodies []*physics.Body) { f(frame, t, bodies) }

type BodyView struct {
	Mass         float64
	RadiusScale  float64
	Radius       float64
	Rotation     float64
	Position     dynamo.Vec2
	Velocity     dynamo.Vec2
	Acceleration dynamo.Vec2
	Trail        []dynamo.Vec2
}

// Ghost is a trail kept from a previous run for display only.
type Ghost struct {
	Body   int
	Points []dynamo.Vec2
}

type Snapshot struct {
	Bodies         []BodyView
	Ghosts         []Ghost
	Preset         int
	PresetName     string
	Integrator     string
	Speed          int
	Accuracy       int
	SubStepCount   int
	SubStepSize    float64
	SampleInterval int
	Time           float64
	Frames         int
	Paused         bool
	KeepGhosts     bool
	BaseRadius     float64
	Center         dynamo.Vec2
}
