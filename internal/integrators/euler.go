package integrators

import "github.com/san-kum/lorentz/internal/dynamo"

// Euler is the naive explicit Lorentz step. In a pure magnetic field every
// tick scales the speed by sqrt(1 + (qBz/m·dt)²), so orbits spiral outward.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(k dynamo.Kinematics, charge, mass float64, f dynamo.Field, g, dt float64) dynamo.Kinematics {
	a := lorentz(k.Vel, charge/mass, f, g)
	vel := k.Vel.Add(a.Scale(dt))
	return dynamo.Kinematics{
		Pos: k.Pos.Add(vel.Scale(dt)),
		Vel: vel,
	}
}

// lorentz returns q/m·(E + v×B) - g·ŷ with B = -Bz·ẑ.
func lorentz(v dynamo.Vec2, qm float64, f dynamo.Field, g float64) dynamo.Vec2 {
	return dynamo.Vec2{
		X: qm * (f.E.X - v.Y*f.Bz),
		Y: qm*(f.E.Y+v.X*f.Bz) - g,
	}
}
