package viz

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/sim"
)

func TestCanvas(t *testing.T) {
	c := NewCanvas(4, 2)
	if c.SubWidth() != 8 || c.SubHeight() != 8 {
		t.Fatalf("unexpected sub-pixel size %dx%d", c.SubWidth(), c.SubHeight())
	}

	c.Set(0, 0)
	c.Set(1, 3)
	if c.Grid[0][0] != rune(blank|0x1|0x80) {
		t.Errorf("unexpected cell %U", c.Grid[0][0])
	}
	c.Set(-1, 0)
	c.Set(100, 100)

	c.Clear()
	c.DrawLine(0, 0, 7, 7)
	for i := 0; i < 8; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("diagonal dot %d not set", i)
		}
	}

	lines := strings.Split(strings.TrimRight(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Errorf("expected 2 rows, got %d", len(lines))
	}
}

func TestCanvasPen(t *testing.T) {
	c := NewCanvas(3, 1)
	c.SetPen("#ff0000")
	c.Set(0, 0)
	c.SetPen("")
	c.Set(4, 0)
	if c.Colors[0][0] != "#ff0000" || c.Colors[0][2] != "" {
		t.Errorf("unexpected colours %v", c.Colors[0])
	}
}

func TestFillCircleAndDashes(t *testing.T) {
	c := NewCanvas(10, 5)
	c.FillCircle(10, 10, 2)
	if !c.IsSet(10, 10) || !c.IsSet(12, 10) || c.IsSet(12, 12) {
		t.Error("unexpected circle shape")
	}

	c.Clear()
	c.DrawDashed(0, 0, 9, 0, 2)
	want := []bool{true, true, false, false, true, true, false, false, true, true}
	for x, on := range want {
		if c.IsSet(x, 0) != on {
			t.Errorf("dash dot %d: expected %v", x, on)
		}
	}
}

func TestViewport(t *testing.T) {
	v := Viewport{World: dynamo.V(1280, 800), Cols: 80, Rows: 50}
	// 160x200 dots: width limits the scale
	if v.Scale() != 0.125 {
		t.Fatalf("expected scale 0.125, got %v", v.Scale())
	}
	x, y := v.ToCanvas(dynamo.V(640, 400))
	if x != 80 || y != 100 {
		t.Errorf("centre maps to (%d, %d)", x, y)
	}
	x, y = v.ToCanvas(dynamo.V(0, 0))
	if x != 0 || y != 50 {
		t.Errorf("origin maps to (%d, %d), expected letterboxed (0, 50)", x, y)
	}

	for _, cell := range [][2]int{{0, 13}, {40, 25}, {79, 36}} {
		p := v.CellToWorld(cell[0], cell[1])
		px, py := v.ToCanvas(p)
		if px/2 != cell[0] || py/4 != cell[1] {
			t.Errorf("cell %v round trips to dot (%d, %d)", cell, px, py)
		}
	}
	if v.Length(80) != 10 {
		t.Errorf("expected 10 dots, got %d", v.Length(80))
	}
}

func TestOverlays(t *testing.T) {
	b := sim.BodyView{
		Position:     dynamo.V(100, 100),
		Velocity:     dynamo.V(0.5, 0),
		Acceleration: dynamo.V(0, 0.001),
	}
	if s := VelocityArrow(b); s.To != dynamo.V(150, 100) {
		t.Errorf("velocity arrow ends at %v", s.To)
	}
	// |a|·1000 = 1 is clamped up to 40
	if s := AccelerationArrow(b); math.Abs(s.To.Y-140) > 1e-12 || s.To.X != 100 {
		t.Errorf("acceleration arrow ends at %v", s.To)
	}
	b.Acceleration = dynamo.Vec2{}
	if s := AccelerationArrow(b); s.To != b.Position {
		t.Errorf("zero acceleration should give a degenerate arrow, got %v", s.To)
	}

	bodies := []sim.BodyView{
		{Position: dynamo.V(0, 0)},
		{Position: dynamo.V(10, 0)},
		{Position: dynamo.V(0, 0)},
	}
	arrows := ForceArrows(bodies, 0)
	if len(arrows) != 1 || arrows[0].To != dynamo.V(100, 0) {
		t.Errorf("unexpected force arrows %v", arrows)
	}
}

func TestBodyColors(t *testing.T) {
	if BodyColor(0) != SunColor || BodyColor(1) != EarthColor || BodyColor(2) != MoonColor {
		t.Error("first three bodies should be sun, earth and moon")
	}
	seen := map[string]bool{}
	for i := 0; i < 12; i++ {
		hex := BodyColor(i).Hex()
		if seen[hex] {
			t.Errorf("colour %s repeated at body %d", hex, i)
		}
		seen[hex] = true
		if !BodyColor(i).IsValid() {
			t.Errorf("body %d colour out of gamut", i)
		}
	}
	if GhostColor(0) == BodyColor(0) {
		t.Error("ghost colour should be faded")
	}
}

func TestGIFRecorder(t *testing.T) {
	r := NewGIFRecorder(0)
	path := filepath.Join(t.TempDir(), "out.gif")
	if err := r.Save(path); err == nil {
		t.Error("expected error saving an empty recording")
	}

	c := NewCanvas(4, 2)
	c.SetPen(SunColor.Hex())
	c.DrawLine(0, 0, 7, 7)
	r.Capture(c)
	r.Capture(c)
	if r.Len() != 2 {
		t.Fatalf("expected 2 frames, got %d", r.Len())
	}
	if err := r.Save(path); err != nil {
		t.Fatal(err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("gif not written: %v", err)
	}
	if r.Len() != 0 {
		t.Error("frames should be dropped after saving")
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(tm tea.Model, keys ...string) Model {
	for _, k := range keys {
		tm, _ = tm.Update(key(k))
	}
	return tm.(Model)
}

func TestModelKeys(t *testing.T) {
	ctrl := sim.New(sim.WithPaused(true), sim.WithSpeed(1))
	m := NewModel(context.Background(), ctrl, Options{})

	m = press(m, "p")
	if ctrl.Paused() {
		t.Error("p should resume")
	}
	m = press(m, "space")
	if !ctrl.Paused() {
		t.Error("space should pause")
	}

	m = press(m, "right")
	if ctrl.Frames() != 1 {
		t.Errorf("right arrow should run one frame, got %d", ctrl.Frames())
	}

	m = press(m, "+", "+")
	if ctrl.Preset() != 2 {
		t.Errorf("expected preset 2, got %d", ctrl.Preset())
	}
	m = press(m, "-", "-", "-")
	if ctrl.Preset() != 5 {
		t.Errorf("expected wrap to preset 5, got %d", ctrl.Preset())
	}

	m = press(m, "up", "]", "n", "s", "v", "a", "f", "t", "h")
	if ctrl.Speed() != 11 || ctrl.Accuracy() != 1100 {
		t.Errorf("expected speed 11 accuracy 1100, got %d %d", ctrl.Speed(), ctrl.Accuracy())
	}
	if ctrl.Len() != 4 {
		t.Errorf("n should spawn a body, got %d bodies", ctrl.Len())
	}
	if !m.showVel || !m.showAccel || !m.showForces || m.showHelp || m.theme != 1 {
		t.Error("toggles not applied")
	}
	if !ctrl.Snapshot().KeepGhosts {
		t.Error("s should enable ghosts")
	}

	view := m.View()
	if !strings.Contains(view, "6/6") || !strings.Contains(view, "PAUSED") {
		t.Errorf("view missing preset or status:\n%s", view)
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestModelTick(t *testing.T) {
	ctrl := sim.New(sim.WithSpeed(1))
	var tm tea.Model = NewModel(context.Background(), ctrl, Options{FPS: 10})

	for i := 0; i < 3; i++ {
		var cmd tea.Cmd
		tm, cmd = tm.Update(TickMsg{})
		if cmd == nil {
			t.Fatal("tick should schedule the next tick")
		}
	}
	m := tm.(Model)
	if ctrl.Frames() != 3 || len(m.energy.values) != 3 {
		t.Errorf("expected 3 frames and energy samples, got %d and %d", ctrl.Frames(), len(m.energy.values))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tm = NewModel(ctx, sim.New(), Options{})
	tm, cmd := tm.Update(TickMsg{})
	if cmd == nil || tm.(Model).Err() == nil {
		t.Error("a cancelled context should end the program with an error")
	}
}

func TestModelMouse(t *testing.T) {
	ctrl := sim.New(sim.WithPaused(true))
	var tm tea.Model = NewModel(context.Background(), ctrl, Options{World: dynamo.V(1280, 800)})
	tm, _ = tm.Update(tea.WindowSizeMsg{Width: 80 + statsWidth + 2*canvasPadLeft + 2, Height: 50 + 2*canvasPadTop + 1})
	m := tm.(Model)

	cellOf := func(p dynamo.Vec2) (int, int) {
		x, y := m.view.ToCanvas(p)
		return x/2 + canvasPadLeft, y/4 + canvasPadTop
	}

	// shift+click on empty space spawns
	x, y := cellOf(dynamo.V(640, 100))
	tm, _ = tm.Update(tea.MouseMsg{X: x, Y: y, Shift: true, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if ctrl.Len() != 3 {
		t.Fatalf("expected a spawned body, got %d", ctrl.Len())
	}

	// drag body 0 and release to the right
	x, y = cellOf(dynamo.V(740, 400))
	tm, _ = tm.Update(tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if !tm.(Model).drag.active || tm.(Model).drag.body != 0 {
		t.Fatal("press on body 0 should start a drag")
	}
	x, y = cellOf(dynamo.V(940, 400))
	tm, _ = tm.Update(tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	tm, _ = tm.Update(tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonNone, Action: tea.MouseActionRelease})

	target := m.view.CellToWorld(x-canvasPadLeft, y-canvasPadTop)
	want := target.Sub(dynamo.V(740, 400)).Scale(1.0 / sim.DragVelocityScale)
	v := ctrl.Snapshot().Bodies[0].Velocity
	if v.Sub(want).Norm() > 1e-12 || math.Abs(v.X-2) > 0.1 {
		t.Errorf("expected velocity %v, got %v", want, v)
	}
	if tm.(Model).drag.active {
		t.Error("release should end the drag")
	}
}
