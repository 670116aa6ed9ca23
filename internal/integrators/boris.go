package integrators

import "github.com/san-kum/lorentz/internal/dynamo"

// Boris advances a charged particle through the sampled E and Bz with a
// speed-preserving magnetic rotation between two electric half kicks.
type Boris struct{}

func NewBoris() *Boris {
	return &Boris{}
}

func (b *Boris) Name() string { return "boris" }

// Step applies the Boris scheme for F = q(E + v×B) with B along the
// out-of-plane axis. Mass is not validated: m == 0 yields non-finite output.
func (b *Boris) Step(k dynamo.Kinematics, charge, mass float64, f dynamo.Field, g, dt float64) dynamo.Kinematics {
	qm := charge / mass
	halfKick := qm * dt / 2

	// v⁻
	vx := k.Vel.X + halfKick*f.E.X
	vy := k.Vel.Y + halfKick*f.E.Y

	// positive Bz points into the plane
	w := qm * -f.Bz * dt / 2

	// v'
	px := vx + vy*w
	py := vy - vx*w

	// s makes the two half rotations an exact rotation, so |v⁺| == |v⁻|.
	s := 2 * w / (1 + w*w)

	// v⁺ builds on v⁻, v' only feeds the correction term
	vx += py * s
	vy -= px * s

	vx += halfKick * f.E.X
	vy += halfKick * f.E.Y

	vy -= g * dt

	return dynamo.Kinematics{
		Pos: dynamo.Vec2{X: k.Pos.X + vx*dt, Y: k.Pos.Y + vy*dt},
		Vel: dynamo.Vec2{X: vx, Y: vy},
	}
}
