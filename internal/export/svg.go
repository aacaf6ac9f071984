package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/viz"
)

type Path struct {
	Points  []dynamo.Vec2
	Color   string
	Opacity float64
}

type Disc struct {
	Center dynamo.Vec2
	Radius float64
	Color  string
}

// Scene is drawn in world coordinates, y pointing down.
type Scene struct {
	Width, Height float64
	Background    string
	Paths         []Path
	Discs         []Disc
}

// FromSnapshot lays out trails, ghost trails and bodies of a controller
// snapshot, coloured the way the live view colours them.
func FromSnapshot(snap sim.Snapshot, width, height float64) Scene {
	scene := Scene{Width: width, Height: height, Background: "#0a0a0a"}
	for _, g := range snap.Ghosts {
		scene.Paths = append(scene.Paths, Path{Points: g.Points, Color: viz.BodyColor(g.Body).Hex(), Opacity: 0.35})
	}
	for i, b := range snap.Bodies {
		scene.Paths = append(scene.Paths, Path{Points: b.Trail, Color: viz.BodyColor(i).Hex(), Opacity: 1})
	}
	for i, b := range snap.Bodies {
		scene.Discs = append(scene.Discs, Disc{Center: b.Position, Radius: b.Radius / 2, Color: viz.BodyColor(i).Hex()})
	}
	return scene
}

// SaveSnapshot writes the SVG of a snapshot, ghosts and bodies included.
func SaveSnapshot(path string, snap sim.Snapshot, width, height float64) error {
	return os.WriteFile(path, []byte(SceneToSVG(FromSnapshot(snap, width, height))), 0644)
}

// TrailsToSVG builds a scene from bare trails, as loaded from storage.
func TrailsToSVG(trails [][]dynamo.Vec2, width, height float64) string {
	scene := Scene{Width: width, Height: height, Background: "#0a0a0a"}
	for i, t := range trails {
		scene.Paths = append(scene.Paths, Path{Points: t, Color: viz.BodyColor(i).Hex(), Opacity: 1})
	}
	return SceneToSVG(scene)
}

func SceneToSVG(s Scene) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.Width, s.Height, s.Width, s.Height, s.Background)

	for _, p := range s.Paths {
		if len(p.Points) < 2 {
			continue
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-opacity="%.2f" stroke-width="1.5" d="`, p.Color, p.Opacity)
		for i, pt := range p.Points {
			if i == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", pt.X, pt.Y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", pt.X, pt.Y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	for _, d := range s.Discs {
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, d.Center.X, d.Center.Y, d.Radius, d.Color)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
