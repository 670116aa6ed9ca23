package viz

import (
	"math"

	"github.com/san-kum/lorentz/internal/dynamo"
)

// Viewport maps world coordinates (y up) onto canvas sub-pixels (y down).
// Scale is sub-pixels per world unit.
type Viewport struct {
	Center dynamo.Vec2
	Scale  float64
	W, H   int
}

func (v Viewport) Project(p dynamo.Vec2) (int, int) {
	x := float64(v.W)/2 + (p.X-v.Center.X)*v.Scale
	y := float64(v.H)/2 - (p.Y-v.Center.Y)*v.Scale
	return int(math.Floor(x)), int(math.Floor(y))
}

// Unproject is the inverse of Project for the centre of sub-pixel (x, y).
func (v Viewport) Unproject(x, y int) dynamo.Vec2 {
	return dynamo.Vec2{
		X: v.Center.X + (float64(x)+0.5-float64(v.W)/2)/v.Scale,
		Y: v.Center.Y - (float64(y)+0.5-float64(v.H)/2)/v.Scale,
	}
}

// Fit centres the box [lo, hi] with a 10% margin. A degenerate box keeps
// the current scale.
func (v *Viewport) Fit(lo, hi dynamo.Vec2) {
	v.Center = dynamo.Vec2{X: (lo.X + hi.X) / 2, Y: (lo.Y + hi.Y) / 2}
	dx, dy := (hi.X-lo.X)*1.2, (hi.Y-lo.Y)*1.2
	scale := math.Inf(1)
	if dx > 0 {
		scale = float64(v.W) / dx
	}
	if dy > 0 {
		scale = math.Min(scale, float64(v.H)/dy)
	}
	if !math.IsInf(scale, 0) && scale > 0 {
		v.Scale = scale
	}
}

func (v *Viewport) Zoom(factor float64) {
	v.Scale *= factor
}

// Pan moves the view by a fraction of its visible extent.
func (v *Viewport) Pan(fx, fy float64) {
	v.Center.X += fx * float64(v.W) / v.Scale
	v.Center.Y += fy * float64(v.H) / v.Scale
}
