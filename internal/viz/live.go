package viz

import (
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/jakecoffman/cp"

	"github.com/san-kum/gravsim/internal/camera"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/frame"
	"github.com/san-kum/gravsim/internal/input"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	statsWidth      = 44
	historyCapacity = 600
	energyStride    = 5
	amplifierStep   = 1.25
	maxCoord        = 1 << 20
)

// unitQuad lists the corners the frame indices refer to.
var unitQuad = [4]cp.Vector{{X: -0.5, Y: -0.5}, {X: 0.5, Y: -0.5}, {X: 0.5, Y: 0.5}, {X: -0.5, Y: 0.5}}

type TickMsg time.Time

// ConfigMsg replaces the running configuration, typically after the config
// file changed on disk.
type ConfigMsg struct {
	Config *config.Config
}

// Options tunes the live view.
type Options struct {
	FPS    int
	Hold   time.Duration
	Logger *log.Logger
}

// Model drives a simulation from terminal input and renders it onto a
// braille canvas.
type Model struct {
	cfg    *config.Config
	opts   Options
	logger *log.Logger

	sim      *sim.Simulation
	recorder *metrics.Recorder
	latch    *Latch
	bound    map[input.Key]struct{}

	canvas        *Canvas
	width, height int
	resized       bool

	err      error
	showHelp bool
	now      func() time.Time
}

// NewModel validates cfg and builds the simulation it describes.
func NewModel(cfg *config.Config, opts Options) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	m := Model{
		opts:   opts,
		logger: opts.Logger,
		latch:  NewLatch(opts.Hold),
		width:  width,
		height: height,
		canvas: NewCanvas(width, height),
		now:    time.Now,
	}
	m.load(cfg)
	return m, nil
}

// load replaces the simulation with a fresh one built from cfg.
func (m *Model) load(cfg *config.Config) {
	m.cfg = cfg
	m.sim = sim.New(cfg.SimConfig(m.logger))
	m.recorder = metrics.NewRecorder(energyStride, historyCapacity)
	m.sim.AddObserver(m.recorder)
	m.bound = boundKeys(m.sim.View.Bindings)
	m.err = nil
	m.latch.Flush()
	m.fit()
}

func boundKeys(b camera.Bindings) map[input.Key]struct{} {
	keys := []input.Key{
		b.RotateLeft, b.RotateRight, b.ZoomIn, b.ZoomOut,
		b.Up, b.Left, b.Down, b.Right,
		b.Wireframe, b.Pause, b.Texture,
	}
	out := make(map[input.Key]struct{}, len(keys))
	for _, k := range keys {
		out[k] = struct{}{}
	}
	return out
}

func (m *Model) fit() {
	cw, ch := m.canvas.Dots()
	m.sim.View.FitZoom(float64(cw), float64(ch), m.cfg.WorldRadius)
}

// Simulation exposes the driven simulation.
func (m Model) Simulation() *sim.Simulation {
	return m.sim
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case ConfigMsg:
		if msg.Config != nil {
			m.load(msg.Config)
			m.logger.Printf("viz: configuration reloaded (%d bodies)", len(m.sim.Bodies()))
		}
	case TickMsg:
		m.frame(time.Time(msg))
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	m.width = max(w-statsWidth-4, 10)
	m.height = max(h-1, 5)
	m.canvas = NewCanvas(m.width, m.height)
	if !m.resized {
		m.fit()
		m.resized = true
	}
}

// keyFor maps bubbletea key names onto logical keys.
func keyFor(msg tea.KeyMsg) input.Key {
	if s := msg.String(); s != " " {
		return input.Key(s)
	}
	return "space"
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := keyFor(msg)
	if k == "ctrl+c" {
		return m, tea.Quit
	}
	if _, ok := m.bound[k]; ok {
		if m.latch.Observe(k, m.now()) {
			m.sim.Press(k)
		}
		return m, nil
	}

	switch k {
	case "esc":
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
	case "t":
		NextTheme()
	case "r":
		m.reset()
	case "+", "=":
		m.sim.SetAmplifier(m.sim.Field().Amplifier * amplifierStep)
	case "-", "_":
		m.sim.SetAmplifier(m.sim.Field().Amplifier / amplifierStep)
	}
	return m, nil
}

func (m *Model) reset() {
	m.sim.Reset()
	m.recorder.Reset()
	for _, k := range m.latch.Flush() {
		m.sim.Release(k)
	}
	m.err = nil
}

// frame expires latched keys, then runs one simulation frame. After a step
// error the simulation is frozen until reset.
func (m *Model) frame(now time.Time) {
	for _, k := range m.latch.Expire(now) {
		m.sim.Release(k)
	}
	if m.err == nil {
		if err := m.sim.Frame(now); err != nil {
			m.err = err
			m.logger.Printf("viz: %v", err)
		}
	}
	m.draw()
}

func (m *Model) toScreen(p cp.Vector) (int, int) {
	cw, ch := m.canvas.Dots()
	v := m.sim.View.WorldToView(p)
	x := math.Max(-maxCoord, math.Min(maxCoord, float64(cw)/2+v.X))
	y := math.Max(-maxCoord, math.Min(maxCoord, float64(ch)/2-v.Y))
	return int(math.Round(x)), int(math.Round(y))
}

// draw renders the current frame descriptor onto the canvas.
func (m *Model) draw() {
	m.canvas.Clear()
	cw, ch := m.canvas.Dots()
	d := frame.Build(m.sim, float64(cw), float64(ch))

	q := m.sim.Engine()
	bodies := m.sim.Bodies()
	for i, t := range d.Bodies {
		m.canvas.Pen(BodyColor(d.Texture, bodies[i].Velocity(q).Length(), m.cfg.MaxSpeed))
		if d.Wireframe {
			m.drawQuad(t, d.Indices)
		} else {
			m.drawDisc(t, d.Camera.Zoom)
		}
	}

	m.canvas.Pen(CurrentTheme.Attractor)
	for _, a := range d.Attractors {
		x, y := m.toScreen(cp.Vector{X: a.X, Y: a.Y})
		m.canvas.DrawLine(x-2, y, x+2, y)
		m.canvas.DrawLine(x, y-2, x, y+2)
	}
}

// drawQuad outlines the body's quad along the index line loop.
func (m *Model) drawQuad(t frame.Transform, indices []uint16) {
	center, rot := cp.Vector{X: t.X, Y: t.Y}, cp.ForAngle(t.Rotation)
	var pts [4][2]int
	for i, c := range unitQuad {
		pts[i][0], pts[i][1] = m.toScreen(center.Add(c.Mult(t.Scale).Rotate(rot)))
	}
	for i := 1; i < len(indices); i++ {
		a, b := pts[indices[i-1]], pts[indices[i]]
		m.canvas.DrawLine(a[0], a[1], b[0], b[1])
	}
}

// drawDisc fills the body and carves a spoke along its rotation.
func (m *Model) drawDisc(t frame.Transform, zoom float64) {
	x, y := m.toScreen(cp.Vector{X: t.X, Y: t.Y})
	r := int(math.Min(t.Scale/2*zoom, maxCoord))
	m.canvas.FillCircle(x, y, r)
	if r < 3 {
		return
	}
	// Screen y grows downwards, so the view-space angle flips sign.
	dir := cp.ForAngle(-(t.Rotation - m.sim.View.Rotation))
	for i := 1; i < r; i++ {
		m.canvas.Unset(x+int(math.Round(dir.X*float64(i))), y+int(math.Round(dir.Y*float64(i))))
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.Render())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(m.stats()))
	if m.showHelp {
		return m.help() + "\n\n" + mainView
	}
	return mainView
}

func (m Model) stats() string {
	var s strings.Builder
	title := "GRAVSIM"
	if m.cfg.Name != "" {
		title += " · " + strings.ToUpper(m.cfg.Name)
	}
	s.WriteString(headerStyle().Render(GradientText(title, CurrentTheme.Primary, CurrentTheme.Secondary)) + "\n")

	status := "RUNNING"
	switch {
	case m.err != nil:
		status = "HALTED"
	case m.sim.Paused():
		status = "PAUSED"
	}
	s.WriteString(statusStyle(m.sim.Paused(), m.err).Render(status) + "\n")
	if m.err != nil {
		s.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Error).Width(statsWidth-4).Render(m.err.Error()) + "\n")
	}

	energy := m.recorder.Series(func(x metrics.Sample) float64 { return x.Total })
	if len(energy) > 1 {
		chart := asciigraph.Plot(energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Foreground(CurrentTheme.Secondary).Render(chart) + "\n")
	} else {
		s.WriteString("\n")
	}

	v := m.sim.View
	mode := "filled"
	if v.Wireframe {
		mode = "wireframe"
	}
	held := make([]string, 0)
	for _, k := range m.sim.Input.Active() {
		held = append(held, string(k))
	}
	rows := [][2]string{
		{"Tick", fmt.Sprintf("%d", m.sim.Tick())},
		{"Time", fmt.Sprintf("%.2fs", m.sim.Elapsed())},
		{"Bodies", fmt.Sprintf("%d", len(m.sim.Bodies()))},
		{"Collisions", fmt.Sprintf("%d", m.sim.Engine().Collisions())},
		{"Amplifier", fmt.Sprintf("%.3g", m.sim.Field().Amplifier)},
		{"Zoom", fmt.Sprintf("%.3g", v.Zoom)},
		{"Pan", fmt.Sprintf("(%.1f, %.1f)", v.Pan.X, v.Pan.Y)},
		{"Rotation", fmt.Sprintf("%.2f", v.Rotation)},
		{"Texture", v.Texture()},
		{"Mode", mode},
		{"Keys", strings.Join(held, " ")},
		{"Theme", CurrentTheme.Name},
	}
	if n := len(energy); n > 0 {
		rows = append(rows, [2]string{"Energy", fmt.Sprintf("%.4g", energy[n-1])})
	}
	for _, r := range rows {
		s.WriteString(labelStyle().Render(r[0]) + valueStyle().Render(r[1]) + "\n")
	}

	b := v.Bindings
	s.WriteString("\n" + Separator(statsWidth-6) + "\n")
	s.WriteString(hintStyle().Render(fmt.Sprintf("%s%s%s%s:Pan %s/%s:Zoom %s/%s:Rotate\n%s:Pause %s:Wire %s:Texture\nR:Reset T:Theme ?:Help Esc:Quit",
		b.Up, b.Left, b.Down, b.Right, b.ZoomIn, b.ZoomOut, b.RotateLeft, b.RotateRight,
		b.Pause, b.Wireframe, b.Texture)))
	return s.String()
}

func (m Model) help() string {
	b := m.sim.View.Bindings
	rows := [][2]string{
		{string(b.Up) + "/" + string(b.Down), "pan up/down"},
		{string(b.Left) + "/" + string(b.Right), "pan left/right"},
		{string(b.ZoomIn) + "/" + string(b.ZoomOut), "zoom in/out"},
		{string(b.RotateLeft) + "/" + string(b.RotateRight), "rotate view"},
		{string(b.Pause), "pause/resume physics"},
		{string(b.Wireframe), "toggle wireframe"},
		{string(b.Texture), "cycle texture"},
		{"+/-", "scale gravity"},
		{"r", "respawn bodies"},
		{"t", "cycle themes"},
		{"?", "toggle this help"},
		{"esc", "quit"},
	}
	var s strings.Builder
	s.WriteString(headerStyle().Render("KEYBOARD SHORTCUTS") + "\n")
	for _, r := range rows {
		s.WriteString(labelStyle().Width(14).Render(r[0]) + valueStyle().Render(r[1]) + "\n")
	}
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(CurrentTheme.Muted).Padding(0, 2).Render(s.String())
}
