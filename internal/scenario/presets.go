// Package scenario holds the fixed, ordered catalog of starting
// configurations. Positions are offsets from a centre supplied by the
// caller, so the same preset fits any world size.
package scenario

import (
	"fmt"
	"math"
	"strconv"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

type BodySpec struct {
	Mass        float64
	Offset      dynamo.Vec2
	Velocity    dynamo.Vec2
	RadiusScale float64
}

type Preset struct {
	Name        string
	Description string
	Bodies      []BodySpec
}

var (
	// degrees are converted at runtime in float64, not as an exact constant
	deg   = math.Pi / 180
	sin60 = math.Sin(60 * deg)
	cos60 = math.Cos(60 * deg)

	f8Pos = dynamo.V(0.97000436*300, -0.24308753*300)
	f8Vel = dynamo.V(-0.93240737, 0.86473146)
)

func equilateral(r, v float64) []BodySpec {
	return []BodySpec{
		{Mass: 1, Offset: dynamo.V(0, r), Velocity: dynamo.V(v, 0)},
		{Mass: 1, Offset: dynamo.V(sin60*r, -cos60*r), Velocity: dynamo.V(-cos60*v, -sin60*v)},
		{Mass: 1, Offset: dynamo.V(-sin60*r, -cos60*r), Velocity: dynamo.V(-cos60*v, sin60*v)},
	}
}

func figureEight(mass, radiusScale float64) []BodySpec {
	half := f8Vel.Scale(1.0 / -2)
	return []BodySpec{
		{Mass: mass, Velocity: f8Vel, RadiusScale: radiusScale},
		{Mass: mass, Offset: dynamo.V(f8Pos.X, -f8Pos.Y), Velocity: half, RadiusScale: radiusScale},
		{Mass: mass, Offset: dynamo.V(-f8Pos.X, f8Pos.Y), Velocity: half, RadiusScale: radiusScale},
	}
}

var catalog = []Preset{
	{
		Name:        "two-body",
		Description: "two equal masses on an eccentric mutual orbit",
		Bodies: []BodySpec{
			{Mass: 1, Offset: dynamo.V(100, 0), Velocity: dynamo.V(-0.2, 0.6)},
			{Mass: 1, Offset: dynamo.V(-100, 0), Velocity: dynamo.V(0.2, -0.6)},
		},
	},
	{
		Name:        "two-body-fast",
		Description: "two equal masses with higher opposing velocities",
		Bodies: []BodySpec{
			{Mass: 1, Offset: dynamo.V(100, 0), Velocity: dynamo.V(0, 1)},
			{Mass: 1, Offset: dynamo.V(-100, 0), Velocity: dynamo.V(0, -1)},
		},
	},
	{
		Name:        "equilateral",
		Description: "three equal masses on an equilateral triangle",
		Bodies:      equilateral(100, 1),
	},
	{
		Name:        "figure-eight",
		Description: "three-body figure-eight choreography",
		Bodies:      figureEight(1, 1),
	},
	{
		Name:        "figure-eight-half",
		Description: "two bodies from the figure-eight with halved velocity",
		Bodies: []BodySpec{
			{Mass: 1, Velocity: f8Vel.Scale(0.5)},
			{Mass: 1, Offset: dynamo.V(f8Pos.X, -f8Pos.Y), Velocity: f8Vel.Scale(-0.5)},
		},
	},
	{
		Name:        "figure-eight-light",
		Description: "figure-eight with light, oversized bodies",
		Bodies:      figureEight(0.3, 3),
	},
}

func Len() int { return len(catalog) }

// Wrap maps any integer onto a catalog index, in both directions.
func Wrap(i int) int {
	n := len(catalog)
	return ((i % n) + n) % n
}

func Get(i int) (Preset, error) {
	if i < 0 || i >= len(catalog) {
		return Preset{}, fmt.Errorf("%w: index %d", dynamo.ErrUnknownPreset, i)
	}
	p := catalog[i]
	p.Bodies = append([]BodySpec(nil), p.Bodies...)
	return p, nil
}

func All() []Preset {
	out := make([]Preset, len(catalog))
	for i := range catalog {
		out[i], _ = Get(i)
	}
	return out
}

func Names() []string {
	names := make([]string, len(catalog))
	for i, p := range catalog {
		names[i] = p.Name
	}
	return names
}

// Index resolves a preset by name or by decimal index.
func Index(ref string) (int, error) {
	for i, p := range catalog {
		if p.Name == ref {
			return i, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 0 && n < len(catalog) {
		return n, nil
	}
	return 0, fmt.Errorf("%w: %q (available: %v)", dynamo.ErrUnknownPreset, ref, Names())
}

// Build returns freshly allocated bodies for preset i around center. opts
// apply to every body; a preset's own radius scale is applied after them.
func Build(i int, center dynamo.Vec2, opts ...physics.Option) ([]*physics.Body, error) {
	p, err := Get(i)
	if err != nil {
		return nil, err
	}
	bodies := make([]*physics.Body, 0, len(p.Bodies))
	for j, s := range p.Bodies {
		bopts := opts
		if s.RadiusScale > 0 {
			bopts = append(append([]physics.Option(nil), opts...), physics.WithRadiusScale(s.RadiusScale))
		}
		b, err := physics.NewBody(s.Mass, center.Add(s.Offset), s.Velocity, bopts...)
		if err != nil {
			return nil, fmt.Errorf("preset %s body %d: %w", p.Name, j, err)
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}
