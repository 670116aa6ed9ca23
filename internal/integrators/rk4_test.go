package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/lorentz/internal/dynamo"
)

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()
	f := dynamo.Field{Bz: 5}
	k := dynamo.Kinematics{Vel: dynamo.Vec2{X: 100}}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		k = integ.Step(k, 1, 1, f, 0, dt)
	}

	// counter-clockwise circle of radius 20 centred on (0, 20)
	tEnd := float64(steps) * dt
	wantX := 20 * math.Sin(5*tEnd)
	wantY := 20 - 20*math.Cos(5*tEnd)

	if math.Abs(k.Pos.X-wantX) > 1e-3 || math.Abs(k.Pos.Y-wantY) > 1e-3 {
		t.Errorf("position error too large: got %v, expected (%.6f, %.6f)", k.Pos, wantX, wantY)
	}
}

func TestComparisonSteppersDrift(t *testing.T) {
	f := dynamo.Field{Bz: 5}
	start := dynamo.Kinematics{Vel: dynamo.Vec2{X: 100}}

	run := func(integ dynamo.Integrator) float64 {
		k := start
		for i := 0; i < 5000; i++ {
			k = integ.Step(k, 1, 1, f, 0, 0.01)
		}
		return k.Vel.Norm() / start.Vel.Norm()
	}

	if ratio := run(NewEuler()); ratio <= 1.5 {
		t.Errorf("explicit Euler should gain speed in a magnetic field, ratio %.4f", ratio)
	}
	if ratio := run(NewRK4()); ratio >= 1 {
		t.Errorf("RK4 should lose speed slowly in a magnetic field, ratio %.10f", ratio)
	}
	if ratio := run(NewBoris()); math.Abs(ratio-1) > 1e-10 {
		t.Errorf("Boris should hold speed, ratio %.12f", ratio)
	}
}

func TestSteppersAgreeWithoutMagneticField(t *testing.T) {
	f := dynamo.Field{E: dynamo.Vec2{X: 2, Y: -1}}
	start := dynamo.Kinematics{Vel: dynamo.Vec2{X: 1, Y: 1}}

	for _, integ := range []dynamo.Integrator{NewBoris(), NewEuler(), NewRK4()} {
		k := integ.Step(start, 1, 1, f, 9.81, 0.01)
		want := dynamo.Vec2{X: 1 + 2*0.01, Y: 1 - 0.01 - 9.81*0.01}
		if !k.Vel.Equal(want, 1e-12) {
			t.Errorf("%s: velocity %v, want %v", integ.Name(), k.Vel, want)
		}
	}
}
