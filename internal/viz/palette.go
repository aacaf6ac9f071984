package viz

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const goldenAngle = 137.50776405003785

var (
	SunColor   = colorful.Color{R: 240.0 / 255, G: 150.0 / 255, B: 55.0 / 255}
	EarthColor = colorful.Color{R: 137.0 / 255, G: 227.0 / 255, B: 228.0 / 255}
	MoonColor  = colorful.Color{R: 238.0 / 255, G: 252.0 / 255, B: 252.0 / 255}

	space = colorful.Color{R: 10.0 / 255, G: 10.0 / 255, B: 10.0 / 255}
)

// BodyColor is the stable colour of body i. The first three bodies of every
// preset are sun, earth and moon; later bodies step around the hue circle
// by the golden angle so neighbours never look alike.
func BodyColor(i int) colorful.Color {
	switch i {
	case 0:
		return SunColor
	case 1:
		return EarthColor
	case 2:
		return MoonColor
	}
	h := math.Mod(30+float64(i-3)*goldenAngle, 360)
	return colorful.Hcl(h, 0.6, 0.75).Clamped()
}

// GhostColor is BodyColor faded toward the background.
func GhostColor(i int) colorful.Color {
	return BodyColor(i).BlendLab(space, 0.6).Clamped()
}
