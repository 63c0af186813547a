package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/orbitsim/internal/component"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/ecs"
	"github.com/san-kum/orbitsim/internal/orbit"
	"github.com/san-kum/orbitsim/internal/persist"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/scene"
	"github.com/san-kum/orbitsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	frameRate       = 30
)

type TickMsg time.Time

// Options configures the live view.
type Options struct {
	Title string
	Dt    float64
	// Substeps is the number of ticks advanced per frame.
	Substeps    int
	TrailLength int
	Theme       string
	GIFPath     string
}

func DefaultOptions() Options {
	return Options{
		Dt:          0.05,
		Substeps:    4,
		TrailLength: 240,
		Theme:       ThemeDeepSpace.Name,
		GIFPath:     "orbits.gif",
	}
}

// Model is the bubbletea model of a running scene seen from above.
type Model struct {
	scene   *scene.Scene
	initial *persist.Blob
	opts    Options
	pool    *sim.BodyPool

	width, height int
	canvas        *Canvas
	camera        *Camera
	perspective   bool
	trails        map[ecs.Entity][]dynamo.Vec3

	running  bool
	e0       float64
	drift    []float64
	theme    Theme
	status   string
	showHelp bool

	recording bool
	frames    []*image.Paletted
}

// NewModel wraps sc. The scene's current state is kept so that reset can
// return to it.
func NewModel(sc *scene.Scene, opts Options) Model {
	def := DefaultOptions()
	if opts.Dt <= 0 {
		opts.Dt = def.Dt
	}
	if opts.Substeps <= 0 {
		opts.Substeps = def.Substeps
	}
	if opts.TrailLength <= 0 {
		opts.TrailLength = def.TrailLength
	}
	if opts.GIFPath == "" {
		opts.GIFPath = def.GIFPath
	}

	m := Model{
		scene:   sc,
		initial: persist.Capture(sc),
		opts:    opts,
		pool:    sim.NewBodyPool(16),
		width:   width,
		height:  height,
		canvas:  NewCanvas(width, height),
		trails:  make(map[ecs.Entity][]dynamo.Vec3),
		running: true,
		drift:   make([]float64, 0, historyCapacity),
		theme:   GetTheme(opts.Theme),
	}
	m.e0 = physics.Energy(sc.World(), sc.Config().Gravity)
	m.camera = NewCamera(1)
	m.fit()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.saveGIF()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "f":
			m.fit()
		case "p":
			m.perspective = !m.perspective
			if m.perspective {
				m.camera.Distance = 2
			} else {
				m.camera.Distance = 0
			}
		case "up", "k":
			m.camera.RotateTilt(0.1)
		case "down", "j":
			m.camera.RotateTilt(-0.1)
		case "left", "h":
			m.camera.RotateSpin(-0.1)
		case "right", "l":
			m.camera.RotateSpin(0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case ">", ".":
			m.opts.Substeps = min(m.opts.Substeps*2, 1024)
		case "<", ",":
			m.opts.Substeps = max(m.opts.Substeps/2, 1)
		case "t":
			m.theme = NextTheme(m.theme)
		case "g":
			if m.recording {
				m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
				m.status = "recording"
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		if m.running {
			m.advance()
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

// advance steps the scene one frame and records telemetry.
func (m *Model) advance() {
	for i := 0; i < m.opts.Substeps; i++ {
		m.scene.Step(m.opts.Dt)
	}

	e := physics.Energy(m.scene.World(), m.scene.Config().Gravity)
	d := 0.0
	if m.e0 != 0 {
		d = math.Abs(e-m.e0) / math.Abs(m.e0)
	}
	if !math.IsNaN(e) && !math.IsInf(e, 0) {
		m.drift = append(m.drift, d)
		if len(m.drift) > historyCapacity {
			m.drift = m.drift[1:]
		}
	}

	buf := m.pool.Snapshot(m.scene)
	defer m.pool.Put(buf)
	seen := make(map[ecs.Entity]bool, len(*buf))
	for _, b := range *buf {
		seen[b.Entity] = true
		if !b.Position.IsValid() {
			m.running = false
			m.status = fmt.Sprintf("%s diverged", m.label(b))
			continue
		}
		t := append(m.trails[b.Entity], b.Position)
		if len(t) > m.opts.TrailLength {
			t = t[len(t)-m.opts.TrailLength:]
		}
		m.trails[b.Entity] = t
	}
	for e := range m.trails {
		if !seen[e] {
			delete(m.trails, e)
		}
	}
}

// reset restores the scene captured when the model was built.
func (m *Model) reset() {
	if err := persist.Restore(m.initial, m.scene); err != nil {
		m.status = "reset failed: " + err.Error()
		return
	}
	clear(m.trails)
	m.drift = m.drift[:0]
	m.status = "reset"
}

func (m *Model) resize(w, h int) {
	cw, ch := max(w-50, 20), max(h-4, 8)
	if cw == m.width && ch == m.height {
		return
	}
	m.width, m.height = cw, ch
	m.canvas = NewCanvas(cw, ch)
}

// focus is the dominant attractor's position, or the origin.
func (m *Model) focus() dynamo.Vec3 {
	w := m.scene.World()
	if c, ok := physics.DominantAttractor(w); ok {
		return component.TransformOf(w, c).Position
	}
	return dynamo.Vec3{}
}

// fit zooms the camera so every body is visible.
func (m *Model) fit() {
	bodies := m.scene.Bodies()
	pts := make([]dynamo.Vec3, len(bodies))
	for i, b := range bodies {
		pts[i] = b.Position
	}
	m.camera.Center = m.focus()
	m.camera.Span = FitSpan(m.camera.Center, pts)
}

func (m *Model) draw() {
	m.canvas.Clear()
	m.camera.Center = m.focus()

	for _, t := range m.trails {
		DrawPath(m.canvas, m.camera, t)
	}

	pp := m.camera.PixelsPer(m.canvas)
	buf := m.pool.Snapshot(m.scene)
	defer m.pool.Put(buf)
	for _, b := range *buf {
		x, y, ok := m.camera.Project(b.Position, m.canvas)
		if !ok {
			continue
		}
		m.canvas.FillCircle(x, y, math.Min(b.Radius*pp, 6))
	}
}

func (m *Model) label(b scene.BodyState) string {
	if b.Name != "" {
		return b.Name
	}
	return fmt.Sprintf("body-%d", b.Entity)
}

// View renders the TUI interface.
func (m Model) View() string {
	th := m.theme
	header := lipgloss.NewStyle().Foreground(th.Primary).Bold(true).MarginBottom(1)
	label := lipgloss.NewStyle().Foreground(th.Muted).Width(10)
	value := lipgloss.NewStyle().Foreground(th.Text)
	graph := lipgloss.NewStyle().Foreground(th.Accent)
	help := lipgloss.NewStyle().Foreground(th.Muted).MarginTop(1)

	m.draw()
	canvasView := lipgloss.NewStyle().Foreground(th.Secondary).Padding(1, 2).Render(m.canvas.String())

	var s strings.Builder
	title := m.opts.Title
	if title == "" {
		title = "orbitsim"
	}
	s.WriteString(header.Render(strings.ToUpper(title)) + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	if m.recording {
		status += " ● REC"
	}
	s.WriteString(lipgloss.NewStyle().Foreground(th.Success).Bold(true).Render(status) + "\n")
	if m.status != "" {
		s.WriteString(lipgloss.NewStyle().Foreground(th.Warning).Render(m.status) + "\n")
	}
	s.WriteString("\n")

	s.WriteString(label.Render("Time") + value.Render(fmt.Sprintf("%.2f", m.scene.Time())) + "\n")
	s.WriteString(label.Render("Steps") + value.Render(fmt.Sprintf("%d ×%d", m.scene.Steps(), m.opts.Substeps)) + "\n")
	s.WriteString(label.Render("Solver") + value.Render(m.scene.Integrator().Name()) + "\n")
	if n := len(m.drift); n > 0 {
		s.WriteString(label.Render("ΔE/E") + value.Render(fmt.Sprintf("%.2e", m.drift[n-1])) + "\n")
	}
	if len(m.drift) > 1 {
		chart := asciigraph.Plot(m.drift, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("energy drift"))
		s.WriteString(graph.Render(chart) + "\n")
	}

	s.WriteString("\nBODIES\n")
	for _, b := range m.scene.Bodies() {
		dot := lipgloss.NewStyle().Foreground(ColorOf(b.Color)).Render("●")
		orbits := m.scene.Tracker().Count(b.Entity)
		s.WriteString(fmt.Sprintf("%s %-10s %-10s %3d\n", dot, m.label(b), b.Class, orbits))
	}

	s.WriteString("\nORBITS\n")
	s.WriteString(m.viewMarkers(value, 5))

	s.WriteString(help.Render(Separator(28) + "\nSP:Pause R:Reset Q:Quit\nT:Theme G:Record ?:Help"))

	stats := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(th.Muted).
		Padding(1, 2).
		Width(46).
		Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, stats)
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

func (m Model) viewMarkers(style lipgloss.Style, n int) string {
	all := m.scene.Tracker().Markers().All()
	if len(all) == 0 {
		return style.Render("  (none yet)") + "\n"
	}
	var b strings.Builder
	for _, mk := range all[max(0, len(all)-n):] {
		b.WriteString(style.Render(formatMarker(mk)) + "\n")
	}
	return b.String()
}

func formatMarker(mk orbit.Marker) string {
	name := mk.Name
	if name == "" {
		name = fmt.Sprintf("body-%d", mk.Entity)
	}
	return fmt.Sprintf("  #%-3d %-10s t=%-8.1f T=%.1f", mk.Number, name, mk.Time, mk.Period)
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset to initial state   ║
║  Q        - Quit                     ║
║  F        - Fit all bodies           ║
║  P        - Toggle perspective       ║
║  ↑/↓      - Tilt camera              ║
║  ←/→      - Spin camera              ║
║  +/-      - Zoom                     ║
║  </>      - Slower/faster            ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

func (m *Model) captureFrame() {
	charW, charH := 8, 16
	imgW, imgH := m.width*charW, m.height*charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), color.Palette{color.Black, color.White})
	dotW, dotH := charW/2, charH/4
	for y := 0; y < m.canvas.PixelHeight(); y++ {
		for x := 0; x < m.canvas.PixelWidth(); x++ {
			if !m.canvas.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH-1; py++ {
				for px := 0; px < dotW-1; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 100/frameRate)
	}
	f, err := os.Create(m.opts.GIFPath)
	if err != nil {
		m.status = "gif: " + err.Error()
		return
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		m.status = "gif: " + err.Error()
		return
	}
	m.status = fmt.Sprintf("saved %d frames to %s", len(m.frames), m.opts.GIFPath)
}

// RunLive shows sc until the user quits.
func RunLive(sc *scene.Scene, opts Options) error {
	_, err := tea.NewProgram(NewModel(sc, opts), tea.WithAltScreen()).Run()
	return err
}
