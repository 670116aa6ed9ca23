package viz

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/integrators"
	"github.com/san-kum/lorentz/internal/sim"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("expected dot 8, got %U", c.Grid[0][1])
	}
	if !c.IsSet(3, 3) || c.IsSet(1, 1) {
		t.Error("IsSet mismatch")
	}

	c.Unset(0, 0)
	if c.Grid[0][0] != blank {
		t.Errorf("expected blank, got %U", c.Grid[0][0])
	}
	c.Clear()
	if strings.Trim(c.String(), "⠀\n") != "" {
		t.Error("canvas not cleared")
	}
}

func TestCanvasDrawRect(t *testing.T) {
	c := NewCanvas(5, 3)
	c.DrawRect(8, 10, 1, 2, "")

	for x := 1; x <= 8; x++ {
		if !c.IsSet(x, 2) || !c.IsSet(x, 10) {
			t.Fatalf("horizontal edge missing at x=%d", x)
		}
	}
	for y := 2; y <= 10; y++ {
		if !c.IsSet(1, y) || !c.IsSet(8, y) {
			t.Fatalf("vertical edge missing at y=%d", y)
		}
	}
	if c.IsSet(4, 5) {
		t.Error("rect interior should be empty")
	}

	// enormous rectangles are clipped rather than walked
	c.DrawRect(-1<<40, -1<<40, 1<<40, 1<<40, "")
}

func TestCanvasFillCircle(t *testing.T) {
	c := NewCanvas(10, 5)
	c.FillCircle(10, 10, 2, "#ff0000")
	if !c.IsSet(10, 10) || !c.IsSet(12, 10) || c.IsSet(13, 10) {
		t.Error("disc extent wrong")
	}
	if c.Colors[10/4][10/2] != "#ff0000" {
		t.Error("centre cell not coloured")
	}

	c.FillCircle(0, 0, 0.2, "#00ff00")
	if !c.IsSet(0, 0) {
		t.Error("tiny disc should light its centre")
	}

	out := c.Render(KeyHint)
	if strings.Count(out, "\n") != 5 {
		t.Errorf("expected 5 rows, got %q", out)
	}
}

func TestViewport(t *testing.T) {
	v := Viewport{Scale: 2, W: 100, H: 80}
	x, y := v.Project(dynamo.Vec2{X: 10, Y: 5})
	if x != 70 || y != 30 {
		t.Errorf("expected (70, 30), got (%d, %d)", x, y)
	}
	p := v.Unproject(x, y)
	if math.Abs(p.X-10.25) > 1e-12 || math.Abs(p.Y-4.75) > 1e-12 {
		t.Errorf("unproject gave %v", p)
	}

	v.Fit(dynamo.Vec2{X: -50, Y: -10}, dynamo.Vec2{X: 50, Y: 10})
	if v.Center != (dynamo.Vec2{}) {
		t.Errorf("expected centre at origin, got %v", v.Center)
	}
	if math.Abs(v.Scale-100/120.0) > 1e-12 {
		t.Errorf("expected width-limited scale, got %v", v.Scale)
	}

	before := v.Scale
	v.Fit(dynamo.Vec2{X: 1, Y: 1}, dynamo.Vec2{X: 1, Y: 1})
	if v.Scale != before {
		t.Error("degenerate fit should keep the scale")
	}
}

func newTestModel(t *testing.T) (Model, *sim.World) {
	t.Helper()
	cfg := dynamo.DefaultConfig()
	w := sim.NewWorld(integrators.NewBoris(), cfg)
	if err := w.SetRegions([]field.Region{{ID: "m", X: -50, Y: -50, Width: 100, Height: 100, Bz: 5}}); err != nil {
		t.Fatal(err)
	}
	p := dynamo.NewParticle("p", dynamo.Vec2{}, dynamo.Vec2{X: 100}, 1, 1, cfg.MaxPath)
	if err := w.AddParticle(p); err != nil {
		t.Fatal(err)
	}
	m := NewModel(w, "test", 2)
	m.Fit()
	return m, w
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelKeys(t *testing.T) {
	m, w := newTestModel(t)

	next, cmd := m.Update(TickMsg{})
	m = next.(Model)
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if w.Ticks() != 0 {
		t.Error("paused world should not advance")
	}

	m = press(m, " ")
	if !w.Playing {
		t.Fatal("space should start the world")
	}
	next, _ = m.Update(TickMsg{})
	m = next.(Model)
	if w.Ticks() != 2 {
		t.Errorf("expected 2 ticks per frame, got %d", w.Ticks())
	}
	if len(m.speedHistory) != 2 {
		t.Errorf("expected 2 history samples, got %d", len(m.speedHistory))
	}

	m = press(m, "g")
	if !w.Gravity {
		t.Error("g should toggle gravity")
	}

	scale := m.Viewport().Scale
	m = press(m, "+")
	if m.Viewport().Scale <= scale || w.Scale != m.Viewport().Scale {
		t.Error("+ should zoom in and store the scale")
	}
	center := m.Viewport().Center
	m = press(m, "left")
	if m.Viewport().Center.X >= center.X {
		t.Error("left should pan left")
	}

	m = press(m, "r")
	if w.Ticks() != 0 || w.Playing || len(m.speedHistory) != 0 {
		t.Error("r should reset and pause")
	}
	if w.Particles()[0].Pos != (dynamo.Vec2{}) {
		t.Error("reset should restore the initial position")
	}

	m = press(m, ".")
	if w.Ticks() != 1 {
		t.Error(". should single-step while paused")
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Error("q should quit")
	}
}

func TestModelView(t *testing.T) {
	m, _ := newTestModel(t)
	out := m.View()
	for _, want := range []string{"TEST", "PAUSED", "boris", "PARTICLES"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = press(m, "?")
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("help overlay not shown")
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != ThemeCyberpunk.Name {
		t.Error("unknown theme should fall back to cyberpunk")
	}
	defer SetTheme(CurrentTheme.Name)
	SetTheme("ocean")
	if CurrentTheme.Name != "ocean" {
		t.Error("SetTheme failed")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names mismatch")
	}

	theme := GetTheme("cyberpunk")
	if got := theme.Region(field.Region{Bz: 1}); got != theme.FieldOut {
		t.Errorf("+Bz region coloured %q", got)
	}
	if got := theme.Region(field.Region{Bz: -1}); got != theme.FieldIn {
		t.Errorf("-Bz region coloured %q", got)
	}
	if got := theme.Region(field.Region{Ey: 3}); got != theme.Electric {
		t.Errorf("electric region coloured %q", got)
	}
	if theme.Particle(len(theme.Particles)) != theme.Particle(0) {
		t.Error("particle palette should wrap")
	}
}

func TestCanvasDrawRectColor(t *testing.T) {
	c := NewCanvas(5, 3)
	c.DrawRect(0, 0, 9, 11, "#123456")
	if c.Colors[0][0] != "#123456" || c.Colors[2][4] != "#123456" {
		t.Error("outline cells should take the rect colour")
	}
	if c.Colors[1][2] != "" {
		t.Error("interior cell should stay uncoloured")
	}
}

func TestSparkline(t *testing.T) {
	if got := SparklineChart(nil, 3); got != "───" {
		t.Errorf("empty sparkline %q", got)
	}
	out := SparklineChart([]float64{1, 2, 3, 4}, 2)
	if !strings.Contains(out, "█") {
		t.Errorf("maximum should render full block: %q", out)
	}
}

func TestRenderStatic(t *testing.T) {
	regions := []field.Region{{X: 0, Y: 0, Width: 10, Height: 10, Bz: 1}}
	paths := [][]dynamo.Vec2{{{X: 1, Y: 1}, {X: 9, Y: 9}}}
	c := RenderStatic(regions, paths, []lipgloss.Color{"#abcdef"}, 20, 10)

	found := false
	for _, row := range c.Colors {
		for _, col := range row {
			if col == "#abcdef" {
				found = true
			}
		}
	}
	if !found {
		t.Error("path head not coloured")
	}
	if strings.Trim(c.String(), "⠀\n") == "" {
		t.Error("nothing drawn")
	}
}
