package analysis

import (
	"math"

	"github.com/san-kum/lorentz/internal/dynamo"
)

// GyroRadius is m|v|/(|q||Bz|). It is +Inf for a neutral particle or Bz = 0.
func GyroRadius(charge, mass, speed, bz float64) float64 {
	den := math.Abs(charge) * math.Abs(bz)
	if den == 0 {
		return math.Inf(1)
	}
	return mass * math.Abs(speed) / den
}

// CyclotronFrequency is |q||Bz|/(2πm) in Hz.
func CyclotronFrequency(charge, mass, bz float64) float64 {
	return math.Abs(charge) * math.Abs(bz) / (2 * math.Pi * mass)
}

// CyclotronPeriod is 2πm/(|q||Bz|). It is +Inf when there is no gyration.
func CyclotronPeriod(charge, mass, bz float64) float64 {
	f := CyclotronFrequency(charge, mass, bz)
	if f == 0 {
		return math.Inf(1)
	}
	return 1 / f
}

// DriftVelocity is the E×B guiding-centre velocity (-Ey/Bz, Ex/Bz). It does
// not depend on charge or mass, and is zero when Bz = 0.
func DriftVelocity(f dynamo.Field) dynamo.Vec2 {
	if f.Bz == 0 {
		return dynamo.Vec2{}
	}
	return dynamo.Vec2{X: -f.E.Y / f.Bz, Y: f.E.X / f.Bz}
}

// Extent returns the bounding box of points and the radius of the largest
// circle it inscribes along either axis.
func Extent(points []dynamo.Vec2) (lo, hi dynamo.Vec2, radius float64) {
	if len(points) == 0 {
		return
	}
	lo, hi = points[0], points[0]
	for _, p := range points[1:] {
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
	}
	radius = math.Max(hi.X-lo.X, hi.Y-lo.Y) / 2
	return
}
