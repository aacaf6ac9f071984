package viz

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Viewport maps the world rectangle [0,W]x[0,H] (y down) onto a canvas,
// preserving aspect ratio and centring the world.
type Viewport struct {
	World      dynamo.Vec2
	Cols, Rows int
}

func (v Viewport) Scale() float64 {
	if v.World.X <= 0 || v.World.Y <= 0 {
		return 1
	}
	return math.Min(float64(2*v.Cols)/v.World.X, float64(4*v.Rows)/v.World.Y)
}

func (v Viewport) offset() (float64, float64) {
	s := v.Scale()
	return (float64(2*v.Cols) - v.World.X*s) / 2, (float64(4*v.Rows) - v.World.Y*s) / 2
}

// ToCanvas returns the dot under world point p. Points outside the canvas
// map to coordinates the canvas ignores.
func (v Viewport) ToCanvas(p dynamo.Vec2) (int, int) {
	s := v.Scale()
	ox, oy := v.offset()
	return int(math.Floor(ox + p.X*s)), int(math.Floor(oy + p.Y*s))
}

// CellToWorld returns the world point at the centre of terminal cell
// (col, row) of the canvas.
func (v Viewport) CellToWorld(col, row int) dynamo.Vec2 {
	s := v.Scale()
	ox, oy := v.offset()
	px := float64(2*col) + 1
	py := float64(4*row) + 2
	return dynamo.V((px-ox)/s, (py-oy)/s)
}

// Length converts a world distance into dots.
func (v Viewport) Length(d float64) int {
	return int(math.Round(d * v.Scale()))
}
