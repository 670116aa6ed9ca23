package integrators

import "github.com/san-kum/lorentz/internal/dynamo"

// RK4 integrates (pos, vel) with the classical fourth-order scheme, the field
// frozen at the tick-start sample. Energy decays slowly in magnetic orbits.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) Step(k dynamo.Kinematics, charge, mass float64, f dynamo.Field, g, dt float64) dynamo.Kinematics {
	qm := charge / mass
	v0 := k.Vel

	a1 := lorentz(v0, qm, f, g)
	v1 := v0

	v2 := v0.Add(a1.Scale(dt * 0.5))
	a2 := lorentz(v2, qm, f, g)

	v3 := v0.Add(a2.Scale(dt * 0.5))
	a3 := lorentz(v3, qm, f, g)

	v4 := v0.Add(a3.Scale(dt))
	a4 := lorentz(v4, qm, f, g)

	dt6 := dt / 6.0
	return dynamo.Kinematics{
		Pos: dynamo.Vec2{
			X: k.Pos.X + dt6*(v1.X+2*v2.X+2*v3.X+v4.X),
			Y: k.Pos.Y + dt6*(v1.Y+2*v2.Y+2*v3.Y+v4.Y),
		},
		Vel: dynamo.Vec2{
			X: v0.X + dt6*(a1.X+2*a2.X+2*a3.X+a4.X),
			Y: v0.Y + dt6*(a1.Y+2*a2.Y+2*a3.Y+a4.Y),
		},
	}
}
