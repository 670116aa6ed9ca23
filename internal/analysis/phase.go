package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/lorentz/internal/dynamo"
)

type PortraitKind int

const (
	// Position traces x against y.
	Position PortraitKind = iota
	// Velocity traces vx against vy. A pure magnetic orbit is a circle
	// centred on the origin; E×B drift shifts the circle by the drift.
	Velocity
)

// Portrait holds one particle's recorded trace.
type Portrait struct {
	Kind   PortraitKind
	Points []dynamo.Vec2
}

// GeneratePortrait extracts particle idx from recorded frames.
func GeneratePortrait(frames []dynamo.Frame, idx int, kind PortraitKind) *Portrait {
	portrait := &Portrait{Kind: kind, Points: make([]dynamo.Vec2, 0, len(frames))}
	for _, f := range frames {
		if idx < 0 || idx >= len(f.Kinematics) {
			return nil
		}
		k := f.Kinematics[idx]
		if kind == Velocity {
			portrait.Points = append(portrait.Points, k.Vel)
		} else {
			portrait.Points = append(portrait.Points, k.Pos)
		}
	}
	return portrait
}

// PortraitToASCII converts portrait to ASCII art
func PortraitToASCII(portrait *Portrait, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	lo, hi, _ := Extent(portrait.Points)
	minX, maxX, minY, maxY := lo.X, hi.X, lo.Y, hi.Y

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, p := range portrait.Points {
		if !p.IsValid() {
			continue
		}
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// axes where they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// Crossings records, once per gyration, where a particle was when its vy
// went from negative to non-negative.
type Crossings struct {
	Times  []float64
	Points []dynamo.Vec2
}

// GenerateCrossings scans frames of particle idx. Crossing positions are
// linearly interpolated between the bracketing frames.
func GenerateCrossings(frames []dynamo.Frame, idx int) *Crossings {
	c := &Crossings{}
	if len(frames) == 0 || idx < 0 || idx >= len(frames[0].Kinematics) {
		return c
	}
	prev := frames[0]
	for _, cur := range frames[1:] {
		if idx >= len(cur.Kinematics) {
			break
		}
		a, b := prev.Kinematics[idx], cur.Kinematics[idx]
		if a.Vel.Y < 0 && b.Vel.Y >= 0 {
			frac := -a.Vel.Y / (b.Vel.Y - a.Vel.Y)
			if math.IsNaN(frac) || math.IsInf(frac, 0) {
				frac = 0.5
			}
			c.Times = append(c.Times, prev.Time+frac*(cur.Time-prev.Time))
			c.Points = append(c.Points, a.Pos.Add(b.Pos.Sub(a.Pos).Scale(frac)))
		}
		prev = cur
	}
	return c
}

// MeanDrift is the average guiding-centre velocity between the first and
// last crossing. ok is false with fewer than two crossings.
func (c *Crossings) MeanDrift() (v dynamo.Vec2, ok bool) {
	n := len(c.Points)
	if n < 2 {
		return dynamo.Vec2{}, false
	}
	dt := c.Times[n-1] - c.Times[0]
	if dt <= 0 {
		return dynamo.Vec2{}, false
	}
	return c.Points[n-1].Sub(c.Points[0]).Scale(1 / dt), true
}

// MeanPeriod is the average time between successive crossings.
func (c *Crossings) MeanPeriod() (float64, bool) {
	n := len(c.Times)
	if n < 2 {
		return 0, false
	}
	return (c.Times[n-1] - c.Times[0]) / float64(n-1), true
}
