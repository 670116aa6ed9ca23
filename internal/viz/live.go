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
	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	maxListed       = 6
	recordingFile   = "lorentz.gif"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model renders a sim.World and forwards key presses to it.
type Model struct {
	world         *sim.World
	name          string
	canvas        *Canvas
	view          Viewport
	stepsPerFrame int
	speedHistory  []float64
	energyHistory []float64
	showHelp      bool
	recording     bool
	frames        []*image.Paletted
}

// NewModel builds a view of world. stepsPerFrame ticks are taken on each
// 60 Hz frame while the world plays; values below one mean one.
func NewModel(world *sim.World, name string, stepsPerFrame int) Model {
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}
	m := Model{
		world:         world,
		name:          name,
		canvas:        NewCanvas(width, height),
		stepsPerFrame: stepsPerFrame,
		speedHistory:  make([]float64, 0, historyCapacity),
		energyHistory: make([]float64, 0, historyCapacity),
	}
	m.view = Viewport{Scale: world.Scale, W: m.canvas.SubWidth(), H: m.canvas.SubHeight()}
	return m
}

// Fit zooms to the regions and particles and stores the scale on the world.
func (m *Model) Fit() {
	lo, hi, ok := field.Regions(m.world.Regions()).Bounds()
	for _, p := range m.world.Particles() {
		if !ok {
			lo, hi, ok = p.Pos, p.Pos, true
		}
		lo = dynamo.Vec2{X: math.Min(lo.X, p.Pos.X), Y: math.Min(lo.Y, p.Pos.Y)}
		hi = dynamo.Vec2{X: math.Max(hi.X, p.Pos.X), Y: math.Max(hi.Y, p.Pos.Y)}
	}
	if !ok {
		return
	}
	m.view.Fit(lo, hi)
	m.world.Scale = m.view.Scale
}

func (m Model) Viewport() Viewport { return m.view }

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
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
			return m, tea.Quit
		case " ":
			m.world.Toggle()
		case "r":
			m.world.Reset()
			m.speedHistory = m.speedHistory[:0]
			m.energyHistory = m.energyHistory[:0]
		case "g":
			m.world.ToggleGravity()
		case ".":
			if !m.world.Playing {
				m.world.Step()
				m.record()
			}
		case "+", "=":
			m.view.Zoom(1.25)
			m.world.Scale = m.view.Scale
		case "-", "_":
			m.view.Zoom(0.8)
			m.world.Scale = m.view.Scale
		case "left", "h":
			m.view.Pan(-0.1, 0)
		case "right", "l":
			m.view.Pan(0.1, 0)
		case "up", "k":
			m.view.Pan(0, 0.1)
		case "down", "j":
			m.view.Pan(0, -0.1)
		case "f":
			m.Fit()
		case "v":
			if m.recording {
				m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			names := ThemeNames()
			for i, name := range names {
				if name == CurrentTheme.Name {
					SetTheme(names[(i+1)%len(names)])
					break
				}
			}
		}
	case TickMsg:
		for i := 0; i < m.stepsPerFrame; i++ {
			if !m.world.Tick() {
				break
			}
			m.record()
		}
		if m.recording {
			m.draw()
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

// record appends the mean speed and total kinetic energy to the history.
func (m *Model) record() {
	ps := m.world.Particles()
	if len(ps) == 0 {
		return
	}
	var speed, energy float64
	for i := range ps {
		speed += ps[i].Speed()
		energy += ps[i].KineticEnergy()
	}
	m.speedHistory = appendCapped(m.speedHistory, speed/float64(len(ps)))
	m.energyHistory = appendCapped(m.energyHistory, energy)
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.Render(lipgloss.NewStyle().Foreground(CurrentTheme.Muted)))

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	if m.world.Playing {
		s.WriteString(StatusRunning.Render("RUNNING"))
	} else {
		s.WriteString(StatusPaused.Render("PAUSED"))
	}
	if m.recording {
		s.WriteString("  " + StatusRecording.Render("● REC"))
	}
	s.WriteString("\n\n")

	if len(m.speedHistory) > 1 {
		chart := asciigraph.Plot(m.speedHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Mean speed"))
		s.WriteString(graphStyle.Render(chart) + "\n")
		s.WriteString(labelStyle.Render("Energy") + SparklineChart(m.energyHistory, 28) + "\n\n")
	}

	gravity := "off"
	if m.world.Gravity {
		gravity = "on"
	}
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.world.Elapsed)) + "\n")
	s.WriteString(labelStyle.Render("Ticks") + valueStyle.Render(fmt.Sprintf("%d", m.world.Ticks())) + "\n")
	s.WriteString(labelStyle.Render("Integrator") + valueStyle.Render(m.world.Integrator().Name()) + "\n")
	s.WriteString(labelStyle.Render("Gravity") + valueStyle.Render(gravity) + "\n")
	s.WriteString(labelStyle.Render("Scale") + valueStyle.Render(fmt.Sprintf("%.3g px/u", m.view.Scale)) + "\n")

	s.WriteString("\nPARTICLES\n")
	ps := m.world.Particles()
	if len(ps) == 0 {
		s.WriteString(labelStyle.Render("  (none)") + "\n")
	}
	for i := range ps {
		if i == maxListed {
			s.WriteString(KeyHint.Render(fmt.Sprintf("  +%d more", len(ps)-maxListed)) + "\n")
			break
		}
		p := &ps[i]
		line := fmt.Sprintf("%-8s q=%-5.3g m=%-5.3g |v|=%.3g", p.ID, p.Charge, p.Mass, p.Speed())
		s.WriteString(lipgloss.NewStyle().Foreground(m.colorOf(i)).Render("● ") + valueStyle.Render(line) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset G:Gravity Q:Quit\n+/-:Zoom ←↑↓→:Pan F:Fit ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Play/Pause               ║
║  .        - Single tick when paused  ║
║  R        - Reset to initial state   ║
║  G        - Toggle gravity           ║
║  + / -    - Zoom in / out            ║
║  Arrows   - Pan                      ║
║  F        - Fit scene to view        ║
║  V        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func (m Model) colorOf(i int) lipgloss.Color {
	ps := m.world.Particles()
	if i < len(ps) && ps[i].Color != "" {
		return lipgloss.Color(ps[i].Color)
	}
	return CurrentTheme.Particle(i)
}

// draw renders regions as outlines, paths as polylines and each particle as
// a disc at its current position.
func (m *Model) draw() {
	m.canvas.Clear()
	drawRegions(m.canvas, m.view, m.world.Regions())
	ps := m.world.Particles()
	for i := range ps {
		drawPath(m.canvas, m.view, ps[i].Path.Points())
	}
	for i := range ps {
		if !ps[i].Pos.IsValid() {
			continue
		}
		x, y := m.view.Project(ps[i].Pos)
		m.canvas.FillCircle(x, y, ps[i].Radius*m.view.Scale, m.colorOf(i))
	}
}

func drawRegions(c *Canvas, v Viewport, regions []field.Region) {
	for _, r := range regions {
		x0, y0 := v.Project(dynamo.Vec2{X: r.X, Y: r.Y + r.Height})
		x1, y1 := v.Project(dynamo.Vec2{X: r.X + r.Width, Y: r.Y})
		c.DrawRect(x0, y0, x1, y1, CurrentTheme.Region(r))
	}
}

// drawPath skips non-finite points and segments far outside the view.
func drawPath(c *Canvas, v Viewport, pts []dynamo.Vec2) {
	for j := 1; j < len(pts); j++ {
		if !pts[j-1].IsValid() || !pts[j].IsValid() {
			continue
		}
		x0, y0 := v.Project(pts[j-1])
		x1, y1 := v.Project(pts[j])
		if absInt(x1-x0)+absInt(y1-y0) > 4*(v.W+v.H) {
			continue
		}
		c.DrawLine(x0, y0, x1, y1)
	}
}

// RenderStatic draws regions and recorded paths onto a new canvas of
// w x h cells fitted to their bounds. The last point of each path is
// marked in its colour.
func RenderStatic(regions []field.Region, paths [][]dynamo.Vec2, colors []lipgloss.Color, w, h int) *Canvas {
	c := NewCanvas(w, h)
	v := Viewport{Scale: 1, W: c.SubWidth(), H: c.SubHeight()}

	lo, hi, ok := field.Regions(regions).Bounds()
	for _, path := range paths {
		for _, p := range path {
			if !p.IsValid() {
				continue
			}
			if !ok {
				lo, hi, ok = p, p, true
			}
			lo = dynamo.Vec2{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y)}
			hi = dynamo.Vec2{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y)}
		}
	}
	if ok {
		v.Fit(lo, hi)
	}

	drawRegions(c, v, regions)
	for i, path := range paths {
		drawPath(c, v, path)
		if len(path) == 0 || !path[len(path)-1].IsValid() {
			continue
		}
		color := CurrentTheme.Particle(i)
		if i < len(colors) && colors[i] != "" {
			color = colors[i]
		}
		x, y := v.Project(path[len(path)-1])
		c.FillCircle(x, y, 1, color)
	}
	return c
}

func (m *Model) captureFrame() {
	charW, charH := 8, 16
	dotW, dotH := charW/2, charH/4
	img := image.NewPaletted(image.Rect(0, 0, m.canvas.Width*charW, m.canvas.Height*charH), color.Palette{color.Black, color.White})
	for y := 0; y < m.canvas.SubHeight(); y++ {
		for x := 0; x < m.canvas.SubWidth(); x++ {
			if !m.canvas.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
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
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(recordingFile)
	if err != nil {
		return
	}
	defer f.Close()
	gif.EncodeAll(f, &anim)
}
