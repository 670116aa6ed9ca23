// Package field samples the superposed electric and magnetic field produced
// by a set of axis-aligned rectangular regions.
//
// Membership is boundary-inclusive and contributions add: a point inside two
// regions feels the sum of both, a point inside none feels nothing.
package field

import (
	"fmt"
	"math"

	"github.com/san-kum/lorentz/internal/dynamo"
)

// Region is an axis-aligned rectangle with lower-left corner (X, Y) carrying
// a uniform electric field (Ex, Ey) and magnetic field Bz (positive = into
// the plane).
type Region struct {
	ID     string
	X, Y   float64
	Width  float64
	Height float64
	Ex, Ey float64
	Bz     float64
}

// Contains reports whether p lies inside the closed rectangle.
func (r Region) Contains(p dynamo.Vec2) bool {
	return r.X <= p.X && p.X <= r.X+r.Width &&
		r.Y <= p.Y && p.Y <= r.Y+r.Height
}

func (r Region) Field() dynamo.Field {
	return dynamo.Field{E: dynamo.Vec2{X: r.Ex, Y: r.Ey}, Bz: r.Bz}
}

func (r Region) Center() dynamo.Vec2 {
	return dynamo.Vec2{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Validate rejects negative sizes and non-finite values. Zero-area regions
// are valid.
func (r Region) Validate() error {
	for _, v := range []float64{r.X, r.Y, r.Width, r.Height, r.Ex, r.Ey, r.Bz} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("region %q has non-finite value: %w", r.ID, dynamo.ErrInvalidRegion)
		}
	}
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("region %q size %gx%g: %w", r.ID, r.Width, r.Height, dynamo.ErrInvalidRegion)
	}
	return nil
}

// Sample returns the field at p summed over every region containing it.
func Sample(p dynamo.Vec2, regions []Region) dynamo.Field {
	var f dynamo.Field
	for i := range regions {
		if regions[i].Contains(p) {
			f.E.X += regions[i].Ex
			f.E.Y += regions[i].Ey
			f.Bz += regions[i].Bz
		}
	}
	return f
}

// Regions is the brute-force sampler: every region is tested per lookup.
type Regions []Region

func (rs Regions) Sample(p dynamo.Vec2) dynamo.Field { return Sample(p, rs) }

// Bounds returns the smallest rectangle covering every region.
func (rs Regions) Bounds() (lo, hi dynamo.Vec2, ok bool) {
	if len(rs) == 0 {
		return lo, hi, false
	}
	lo = dynamo.Vec2{X: rs[0].X, Y: rs[0].Y}
	hi = dynamo.Vec2{X: rs[0].X + rs[0].Width, Y: rs[0].Y + rs[0].Height}
	for _, r := range rs[1:] {
		lo.X = math.Min(lo.X, r.X)
		lo.Y = math.Min(lo.Y, r.Y)
		hi.X = math.Max(hi.X, r.X+r.Width)
		hi.Y = math.Max(hi.Y, r.Y+r.Height)
	}
	return lo, hi, true
}
