package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/mppic/internal/experiment"
	"github.com/san-kum/mppic/internal/models"
	"github.com/san-kum/mppic/internal/mppi"
	"github.com/san-kum/mppic/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 300
	speedStep       = 10.0
)

type TickMsg time.Time

// LiveConfig sets the pacing of the live view.
type LiveConfig struct {
	Name        string
	Dt          float64
	Duration    float64
	GoalReached float64
	// Samples is how many sampled trajectories are drawn per frame.
	Samples int
}

// Model steps one closed loop per tick and draws path, trail, sampled rollouts and the
// optimal trajectory.
type Model struct {
	loop    *experiment.Loop
	path    mppi.Path
	cfg     LiveConfig
	ctx     context.Context
	x0      sim.State
	state   sim.State
	u       sim.Control
	t       float64
	trail   []mppi.Pose
	speeds  []float64
	canvas  *Canvas
	view    Viewport
	running bool
	done    bool
	err     error
	samples bool
	percent float64
}

func NewModel(ctx context.Context, loop *experiment.Loop, path mppi.Path, x0 sim.State, cfg LiveConfig) Model {
	canvas := NewCanvas(width, height)
	pose, _ := models.SplitState(x0)
	frame := append(append([]mppi.Point(nil), path...), mppi.Point{X: pose.X, Y: pose.Y})
	if cfg.Samples <= 0 {
		cfg.Samples = 20
	}

	return Model{
		loop:    loop,
		path:    path,
		cfg:     cfg,
		ctx:     ctx,
		x0:      x0.Clone(),
		state:   x0.Clone(),
		u:       make(sim.Control, 2),
		trail:   make([]mppi.Pose, 0, historyCapacity),
		speeds:  make([]float64, 0, historyCapacity),
		canvas:  canvas,
		view:    FitViewport(canvas, frame),
		running: true,
		samples: true,
		percent: 100,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(m.cfg.Dt*float64(time.Second)), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "s":
			m.samples = !m.samples
		case "+", "=":
			m.setSpeed(m.percent + speedStep)
		case "-", "_":
			m.setSpeed(m.percent - speedStep)
		}
	case TickMsg:
		if m.running && !m.done {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

// step advances controller and plant by one tick.
func (m *Model) step() {
	u, err := m.loop.Controller.Compute(m.ctx, m.state, m.t)
	if err != nil {
		m.err = err
		m.done = true
		return
	}
	m.u = u
	m.state = m.loop.Integrator.Step(m.loop.Plant, m.state, u, m.t, m.cfg.Dt)
	m.t += m.cfg.Dt

	pose, vel := models.SplitState(m.state)
	m.trail = appendCapped(m.trail, pose)
	m.speeds = appendCapped(m.speeds, vel.V)

	if m.t >= m.cfg.Duration {
		m.done = true
	}
	if tol := m.cfg.GoalReached; tol > 0 && pose.DistanceTo(m.path.Last()) <= tol {
		m.done = true
	}
}

func appendCapped[T any](s []T, v T) []T {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func (m *Model) reset() {
	m.loop.Optimizer.Reset()
	m.state = m.x0.Clone()
	m.u = make(sim.Control, 2)
	m.t = 0
	m.trail = m.trail[:0]
	m.speeds = m.speeds[:0]
	m.done = false
	m.err = nil
}

func (m *Model) setSpeed(percent float64) {
	percent = min(max(percent, speedStep), 100)
	if err := m.loop.Optimizer.SetSpeedLimit(percent, true); err == nil {
		m.percent = percent
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	m.canvas.Polyline(m.view, m.path)

	pose, vel := models.SplitState(m.state)
	if m.samples && m.t > 0 {
		gen := m.loop.Optimizer.GeneratedTrajectories()
		n, _ := gen.Dims()
		stride := max(n/m.cfg.Samples, 1)
		for i := 0; i < n; i += stride {
			m.canvas.Dots(m.view, gen.Sample(i))
		}
		m.canvas.Polyline(m.view, posesToPoints(m.loop.Optimizer.OptimizedTrajectory(pose, vel)))
	}

	m.canvas.Dots(m.view, m.trail)
	m.canvas.Robot(m.view, pose)
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return statusFailed.Render("FAILED")
	case m.done:
		return statusPaused.Render("DONE")
	case !m.running:
		return statusPaused.Render("PAUSED")
	}
	return statusRunning.Render("RUNNING")
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	pose, vel := models.SplitState(m.state)
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.cfg.Name)) + "\n")
	s.WriteString(m.status() + "\n\n")
	s.WriteString(row("Time", fmt.Sprintf("%.2fs", m.t)))
	s.WriteString(row("Pose", fmt.Sprintf("%.2f, %.2f, %.2f", pose.X, pose.Y, pose.Yaw)))
	s.WriteString(row("Velocity", fmt.Sprintf("%.2f m/s %.2f rad/s", vel.V, vel.W)))
	s.WriteString(row("Command", fmt.Sprintf("%.2f m/s %.2f rad/s", m.u[0], m.u[1])))
	s.WriteString(row("Goal", fmt.Sprintf("%.2fm", pose.DistanceTo(m.path.Last()))))
	s.WriteString(row("Speed", fmt.Sprintf("%.0f%%", m.percent)))
	if m.err != nil {
		s.WriteString(row("Error", m.err.Error()))
	}

	if chart := PlotSeries(m.speeds, 30, 4, "Speed"); chart != "" {
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit\nS:Samples +/-:Speed limit"))
	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
