package viz

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/scenario"
	"github.com/san-kum/orbitsim/internal/sim"
)

const (
	defaultCols     = 80
	defaultRows     = 30
	statsWidth      = 38
	historyCapacity = 300
	speedStep       = 10
	accuracyStep    = 100

	// canvas placement inside the terminal, used to map mouse cells
	canvasPadTop  = 1
	canvasPadLeft = 2
)

var canvasStyle = lipgloss.NewStyle().Padding(canvasPadTop, canvasPadLeft)

const instructions = `p/space  pause          →  single frame
r        restart        +/-  preset
s        keep ghosts    c  clear trails
v a f    vectors        n  spawn at centre
↑/↓      speed          ]/[  accuracy
t theme  g record GIF   h  hide this
shift+click spawn   drag body  aim
q        quit`

type TickMsg time.Time

type Options struct {
	World   dynamo.Vec2
	FPS     int
	GIFPath string
	Theme   string
	Logger  *slog.Logger
}

type energyHistory struct {
	values []float64
}

func (h *energyHistory) OnFrame(frame int, _ float64, bodies []*physics.Body) {
	if frame == 1 {
		h.values = h.values[:0]
	}
	h.values = append(h.values, physics.TotalEnergy(bodies))
	if len(h.values) > historyCapacity {
		h.values = h.values[1:]
	}
}

type drag struct {
	active bool
	body   int
	to     dynamo.Vec2
}

// Model hosts a controller in a bubbletea program. All controller calls
// happen on the update goroutine.
type Model struct {
	ctx      context.Context
	ctrl     *sim.Controller
	canvas   *Canvas
	view     Viewport
	interval time.Duration
	theme    int

	showHelp   bool
	showVel    bool
	showAccel  bool
	showForces bool

	recording bool
	recorder  *GIFRecorder
	gifPath   string

	energy *energyHistory
	drag   drag
	status string
	err    error
	log    *slog.Logger
}

func NewModel(ctx context.Context, ctrl *sim.Controller, opts Options) Model {
	if opts.FPS < 1 {
		opts.FPS = 30
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "orbitsim.gif"
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	world := opts.World
	if world.X <= 0 || world.Y <= 0 {
		world = ctrl.Center().Scale(2)
	}

	hist := &energyHistory{values: make([]float64, 0, historyCapacity)}
	ctrl.AddObserver(hist)

	return Model{
		ctx:      ctx,
		ctrl:     ctrl,
		canvas:   NewCanvas(defaultCols, defaultRows),
		view:     Viewport{World: world, Cols: defaultCols, Rows: defaultRows},
		interval: time.Second / time.Duration(opts.FPS),
		theme:    ThemeIndex(opts.Theme),
		showHelp: true,
		gifPath:  opts.GIFPath,
		energy:   hist,
		log:      opts.Logger,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Err reports the error that ended the program, if any.
func (m Model) Err() error { return m.err }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case TickMsg:
		if _, err := m.ctrl.Frame(m.ctx); err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.draw()
		if m.recording {
			m.recorder.Capture(m.canvas)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	cols := w - statsWidth - 2*canvasPadLeft - 2
	rows := h - 2*canvasPadTop - 1
	if cols < 10 {
		cols = 10
	}
	if rows < 5 {
		rows = 5
	}
	m.canvas = NewCanvas(cols, rows)
	m.view.Cols, m.view.Rows = cols, rows
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.recording {
			m.stopRecording()
		}
		return m, tea.Quit
	case "p", " ":
		m.ctrl.TogglePause()
	case "right":
		if _, err := m.ctrl.StepOnce(m.ctx); err != nil {
			m.err = err
			return m, tea.Quit
		}
	case "r":
		m.ctrl.Restart()
	case "+", "=":
		m.ctrl.NextPreset()
	case "-", "_":
		m.ctrl.PrevPreset()
	case "c":
		m.ctrl.ClearTrails()
	case "s":
		m.ctrl.ToggleGhosts()
	case "v":
		m.showVel = !m.showVel
	case "a":
		m.showAccel = !m.showAccel
	case "f":
		m.showForces = !m.showForces
	case "h", "?":
		m.showHelp = !m.showHelp
	case "up":
		m.ctrl.SetSpeed(m.ctrl.Speed() + speedStep)
	case "down":
		m.ctrl.SetSpeed(m.ctrl.Speed() - speedStep)
	case "]":
		m.ctrl.SetAccuracy(m.ctrl.Accuracy() + accuracyStep)
	case "[":
		m.ctrl.SetAccuracy(m.ctrl.Accuracy() - accuracyStep)
	case "n":
		m.ctrl.SpawnBody(m.ctrl.Center())
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
	case "g":
		if m.recording {
			m.stopRecording()
		} else {
			m.recording = true
			m.recorder = NewGIFRecorder(100 / int(time.Second/m.interval))
			m.status = "recording"
		}
	}
	m.draw()
	return m, nil
}

func (m *Model) stopRecording() {
	m.recording = false
	if err := m.recorder.Save(m.gifPath); err != nil {
		m.status = "gif: " + err.Error()
		m.log.Warn("gif not saved", "err", err)
		return
	}
	m.status = "saved " + m.gifPath
	m.log.Info("gif saved", "path", m.gifPath)
}

func (m *Model) mouseWorld(msg tea.MouseMsg) dynamo.Vec2 {
	return m.view.CellToWorld(msg.X-canvasPadLeft, msg.Y-canvasPadTop)
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease {
		return
	}
	p := m.mouseWorld(msg)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Shift {
			m.ctrl.SpawnBody(p)
			return
		}
		if i, ok := m.ctrl.BodyAt(p); ok {
			m.drag = drag{active: true, body: i, to: p}
		}
	case tea.MouseActionMotion:
		if m.drag.active {
			m.drag.to = p
		}
	case tea.MouseActionRelease:
		if m.drag.active {
			if err := m.ctrl.AimBody(m.drag.body, p); err != nil {
				m.log.Debug("aim", "err", err)
			}
			m.drag = drag{}
		}
	}
	m.draw()
}

func (m *Model) line(a, b dynamo.Vec2) {
	x0, y0 := m.view.ToCanvas(a)
	x1, y1 := m.view.ToCanvas(b)
	m.canvas.DrawLine(x0, y0, x1, y1)
}

func (m *Model) dashed(a, b dynamo.Vec2) {
	x0, y0 := m.view.ToCanvas(a)
	x1, y1 := m.view.ToCanvas(b)
	m.canvas.DrawDashed(x0, y0, x1, y1, 2)
}

func (m *Model) polyline(points []dynamo.Vec2) {
	for i := 1; i < len(points); i++ {
		m.line(points[i-1], points[i])
	}
}

func (m *Model) draw() {
	snap := m.ctrl.Snapshot()
	m.canvas.Clear()

	for _, g := range snap.Ghosts {
		m.canvas.SetPen(GhostColor(g.Body).Hex())
		m.polyline(g.Points)
	}

	for i, b := range snap.Bodies {
		m.canvas.SetPen(BodyColor(i).Hex())
		m.polyline(b.Trail)
		if n := len(b.Trail); n > 0 {
			m.line(b.Trail[n-1], b.Position)
		}
	}

	for i, b := range snap.Bodies {
		m.canvas.SetPen(BodyColor(i).Hex())
		if m.showVel {
			s := VelocityArrow(b)
			m.line(s.From, s.To)
		}
		if m.showAccel {
			s := AccelerationArrow(b)
			m.dashed(s.From, s.To)
		}
		if m.showForces {
			for _, s := range ForceArrows(snap.Bodies, i) {
				m.dashed(s.From, s.To)
			}
		}
		x, y := m.view.ToCanvas(b.Position)
		m.canvas.FillCircle(x, y, m.view.Length(b.Radius/4))
	}

	if m.drag.active && m.drag.body < len(snap.Bodies) {
		m.canvas.SetPen(BodyColor(m.drag.body).Hex())
		m.line(snap.Bodies[m.drag.body].Position, m.drag.to)
	}
	m.canvas.SetPen("")
}

func (m Model) View() string {
	th := Themes[m.theme].styles()
	snap := m.ctrl.Snapshot()

	var s strings.Builder
	s.WriteString(th.title.Render("ORBITSIM") + "\n")

	status := th.running.Render("RUNNING")
	if snap.Paused {
		status = th.paused.Render("PAUSED")
	}
	if m.recording {
		status += " " + th.alert.Render(fmt.Sprintf("● REC %d", m.recorder.Len()))
	}
	s.WriteString(status + "\n\n")

	row := func(label, value string) {
		s.WriteString(th.label.Render(label) + th.value.Render(value) + "\n")
	}
	row("Preset", fmt.Sprintf("%d/%d %s", snap.Preset+1, scenario.Len(), snap.PresetName))
	row("Bodies", fmt.Sprintf("%d", len(snap.Bodies)))
	row("Speed", fmt.Sprintf("%d", snap.Speed))
	row("Accuracy", fmt.Sprintf("%d", snap.Accuracy))
	row("Sub-steps", fmt.Sprintf("%d × %.2g", snap.SubStepCount, snap.SubStepSize))
	row("Trail every", fmt.Sprintf("%d steps", snap.SampleInterval))
	row("Time", fmt.Sprintf("%.2f", snap.Time))
	row("Integrator", snap.Integrator)

	if hist := m.energy.values; len(hist) > 0 {
		row("Energy", fmt.Sprintf("%.6g", hist[len(hist)-1]))
		if len(hist) > 1 {
			chart := asciigraph.Plot(hist, asciigraph.Height(4), asciigraph.Width(statsWidth-12), asciigraph.Caption("total energy"))
			s.WriteString("\n" + th.graph.Render(chart) + "\n")
		}
	}

	var flags []string
	for _, f := range []struct {
		on   bool
		name string
	}{
		{snap.KeepGhosts, "ghosts"}, {m.showVel, "vel"}, {m.showAccel, "acc"}, {m.showForces, "force"},
	} {
		if f.on {
			flags = append(flags, f.name)
		}
	}
	if len(flags) > 0 {
		row("Showing", strings.Join(flags, " "))
	}
	if m.status != "" {
		s.WriteString("\n" + th.hint.Render(m.status) + "\n")
	}
	if m.showHelp {
		s.WriteString("\n" + th.hint.Render(instructions))
	}

	canvasView := canvasStyle.Render(m.canvas.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, th.panel.Render(s.String()))
}

// Run starts the live view and blocks until the user quits or ctx ends.
func Run(ctx context.Context, ctrl *sim.Controller, opts Options) error {
	p := tea.NewProgram(NewModel(ctx, ctrl, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}
