package sim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/scenario"
)

const (
	MinSpeed        = 1
	MaxSpeed        = 400
	DefaultSpeed    = 100
	MinAccuracy     = 500
	MaxAccuracy     = 5000
	DefaultAccuracy = physics.ReferenceAccuracy

	// DragVelocityScale converts a drag vector in world units into a velocity.
	DragVelocityScale = 100
)

// Controller owns the body set and the user controls, and turns speed and
// accuracy into sub-steps per frame. It is not safe for concurrent use.
type Controller struct {
	bodies  []*physics.Body
	stepper integrators.Stepper

	speed      int
	accuracy   int
	preset     int
	center     dynamo.Vec2
	baseRadius float64
	trailLimit int

	paused     bool
	keepGhosts bool
	ghosts     []Ghost

	time   float64
	frames int

	metrics   []Metric
	observers []Observer
	log       *slog.Logger
}

type Option func(*Controller)

func WithSpeed(n int) Option           { return func(c *Controller) { c.speed = n } }
func WithAccuracy(n int) Option        { return func(c *Controller) { c.accuracy = n } }
func WithPreset(i int) Option          { return func(c *Controller) { c.preset = i } }
func WithCenter(p dynamo.Vec2) Option  { return func(c *Controller) { c.center = p } }
func WithBaseRadius(r float64) Option  { return func(c *Controller) { c.baseRadius = r } }
func WithTrailLimit(n int) Option      { return func(c *Controller) { c.trailLimit = n } }
func WithPaused(p bool) Option         { return func(c *Controller) { c.paused = p } }
func WithLogger(l *slog.Logger) Option { return func(c *Controller) { c.log = l } }
func WithStepper(s integrators.Stepper) Option {
	return func(c *Controller) { c.stepper = s }
}

func New(opts ...Option) *Controller {
	c := &Controller{
		speed:      DefaultSpeed,
		accuracy:   DefaultAccuracy,
		center:     dynamo.V(640, 400),
		baseRadius: physics.DefaultBaseRadius,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = slog.New(slog.DiscardHandler)
	}
	if c.stepper == nil {
		c.stepper = integrators.NewLeapfrog()
	}
	c.speed = clamp(c.speed, MinSpeed, MaxSpeed)
	c.accuracy = clamp(c.accuracy, MinAccuracy, MaxAccuracy)
	c.Reset(c.preset)
	return c
}

func (c *Controller) AddMetric(m Metric)     { c.metrics = append(c.metrics, m) }
func (c *Controller) AddObserver(o Observer) { c.observers = append(c.observers, o) }

// SubStepCount is ceil(10 · speed · accuracy / ReferenceAccuracy).
func (c *Controller) SubStepCount() int {
	num := 10 * c.speed * c.accuracy
	return (num + physics.ReferenceAccuracy - 1) / physics.ReferenceAccuracy
}

func (c *Controller) SubStepSize() float64 { return 1 / float64(c.accuracy) }

func (c *Controller) SimTimePerFrame() float64 {
	return float64(c.SubStepCount()) * c.SubStepSize()
}

func (c *Controller) SampleInterval() int {
	return physics.PracticalSampleInterval(c.accuracy)
}

// Frame runs one frame unless paused. It returns the number of sub-steps
// completed; on cancellation the body set is left at a sub-step boundary.
func (c *Controller) Frame(ctx context.Context) (int, error) {
	if c.paused {
		return 0, nil
	}
	return c.runFrame(ctx)
}

// StepOnce runs one frame regardless of pause.
func (c *Controller) StepOnce(ctx context.Context) (int, error) {
	return c.runFrame(ctx)
}

func (c *Controller) runFrame(ctx context.Context) (int, error) {
	n := c.SubStepCount()
	h := c.SubStepSize()
	interval := c.SampleInterval()

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return i, ctx.Err()
		default:
		}
		c.stepper.Step(c.bodies, h, interval)
		c.time += h
	}

	c.frames++
	for _, m := range c.metrics {
		m.Observe(c.bodies, c.time)
	}
	for _, o := range c.observers {
		o.OnFrame(c.frames, c.time, c.bodies)
	}
	return n, nil
}

// Reset rebuilds the body set from preset i (wrapped into the catalog).
func (c *Controller) Reset(i int) {
	c.preset = scenario.Wrap(i)
	bodies, err := scenario.Build(c.preset, c.center, physics.WithTrailLimit(c.trailLimit))
	if err != nil {
		panic(fmt.Sprintf("sim: building wrapped preset %d: %v", c.preset, err))
	}
	c.bodies = bodies
	c.time = 0
	c.frames = 0
	for _, m := range c.metrics {
		m.Reset()
	}
	c.log.Debug("reset", "preset", c.preset, "bodies", len(bodies))
}

func (c *Controller) NextPreset() { c.Reset(c.preset + 1) }
func (c *Controller) PrevPreset() { c.Reset(c.preset - 1) }

// Restart resets the current preset. With ghosts enabled the trails of the
// run being discarded are kept for display.
func (c *Controller) Restart() {
	if c.keepGhosts {
		c.ghosts = c.ghosts[:0:0]
		for i, b := range c.bodies {
			if b.TrailLen() > 0 {
				c.ghosts = append(c.ghosts, Ghost{Body: i, Points: b.Trail()})
			}
		}
	}
	c.Reset(c.preset)
}

// SpawnBody adds a unit mass at rest at pos and returns its index.
func (c *Controller) SpawnBody(pos dynamo.Vec2) int {
	b, err := physics.NewBody(1, pos, dynamo.Vec2{}, physics.WithTrailLimit(c.trailLimit))
	if err != nil {
		panic(err)
	}
	c.bodies = append(c.bodies, b)
	c.log.Debug("spawn", "index", len(c.bodies)-1, "pos", pos)
	return len(c.bodies) - 1
}

func (c *Controller) ClearTrails() {
	for _, b := range c.bodies {
		b.ClearTrail()
	}
}

func (c *Controller) ClearGhosts() { c.ghosts = nil }

func (c *Controller) SetBodyVelocity(i int, v dynamo.Vec2) error {
	if i < 0 || i >= len(c.bodies) {
		return &dynamo.BodyError{Index: i, Wrapped: dynamo.ErrBodyIndex}
	}
	if !v.IsValid() {
		return &dynamo.BodyError{Index: i, Wrapped: dynamo.ErrInvalidState}
	}
	c.bodies[i].Velocity = v
	c.log.Debug("velocity", "index", i, "v", v)
	return nil
}

// AimBody sets body i's velocity from a drag released at target.
func (c *Controller) AimBody(i int, target dynamo.Vec2) error {
	if i < 0 || i >= len(c.bodies) {
		return &dynamo.BodyError{Index: i, Wrapped: dynamo.ErrBodyIndex}
	}
	return c.SetBodyVelocity(i, target.Sub(c.bodies[i].Position).Scale(1.0/DragVelocityScale))
}

// BodyAt returns the topmost body whose disc contains p.
func (c *Controller) BodyAt(p dynamo.Vec2) (int, bool) {
	for i := len(c.bodies) - 1; i >= 0; i-- {
		if c.bodies[i].Overlaps(p, c.baseRadius) {
			return i, true
		}
	}
	return -1, false
}

func (c *Controller) TogglePause()     { c.paused = !c.paused }
func (c *Controller) SetPaused(p bool) { c.paused = p }
func (c *Controller) Paused() bool     { return c.paused }

func (c *Controller) ToggleGhosts() { c.keepGhosts = !c.keepGhosts }

func (c *Controller) SetSpeed(n int) {
	c.speed = clamp(n, MinSpeed, MaxSpeed)
	if c.speed != n {
		c.log.Debug("speed clamped", "requested", n, "speed", c.speed)
	}
}

func (c *Controller) SetAccuracy(n int) {
	c.accuracy = clamp(n, MinAccuracy, MaxAccuracy)
	if c.accuracy != n {
		c.log.Debug("accuracy clamped", "requested", n, "accuracy", c.accuracy)
	}
	interval := c.SampleInterval()
	for _, b := range c.bodies {
		b.FitSampleCounter(interval)
	}
}

func (c *Controller) Speed() int          { return c.speed }
func (c *Controller) Accuracy() int       { return c.accuracy }
func (c *Controller) Preset() int         { return c.preset }
func (c *Controller) Len() int            { return len(c.bodies) }
func (c *Controller) Time() float64       { return c.time }
func (c *Controller) Frames() int         { return c.frames }
func (c *Controller) Center() dynamo.Vec2 { return c.center }
func (c *Controller) BaseRadius() float64 { return c.baseRadius }
func (c *Controller) Integrator() string  { return c.stepper.Name() }

func (c *Controller) Snapshot() Snapshot {
	views := make([]BodyView, len(c.bodies))
	for i, b := range c.bodies {
		views[i] = BodyView{
			Mass:         b.Mass,
			RadiusScale:  b.RadiusScale,
			Radius:       b.Radius(c.baseRadius),
			Rotation:     b.Rotation,
			Position:     b.Position,
			Velocity:     b.Velocity,
			Acceleration: b.Acceleration,
			Trail:        b.Trail(),
		}
	}
	ghosts := make([]Ghost, len(c.ghosts))
	for i, g := range c.ghosts {
		ghosts[i] = Ghost{Body: g.Body, Points: append([]dynamo.Vec2(nil), g.Points...)}
	}

	p, _ := scenario.Get(c.preset)
	return Snapshot{
		Bodies:         views,
		Ghosts:         ghosts,
		Preset:         c.preset,
		PresetName:     p.Name,
		Integrator:     c.stepper.Name(),
		Speed:          c.speed,
		Accuracy:       c.accuracy,
		SubStepCount:   c.SubStepCount(),
		SubStepSize:    c.SubStepSize(),
		SampleInterval: c.SampleInterval(),
		Time:           c.time,
		Frames:         c.frames,
		Paused:         c.paused,
		KeepGhosts:     c.keepGhosts,
		BaseRadius:     c.baseRadius,
		Center:         c.center,
	}
}

// Validate reports the first body whose state is no longer finite.
func (c *Controller) Validate() error {
	for i, b := range c.bodies {
		if !b.IsValid() {
			return &dynamo.BodyError{Index: i, Wrapped: dynamo.ErrInvalidState}
		}
	}
	return nil
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
