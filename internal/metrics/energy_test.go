package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/lorentz/internal/dynamo"
)

func particle(x, y, vx, vy, mass float64) dynamo.Particle {
	return dynamo.NewParticle("p", dynamo.Vec2{X: x, Y: y}, dynamo.Vec2{X: vx, Y: vy}, mass, 1, 10)
}

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy()
	ps := []dynamo.Particle{particle(0, 0, 3, 4, 2), particle(0, 0, 1, 0, 1)}

	m.Observe(ps, 0)
	expected := 0.5*2*25 + 0.5*1*1
	if math.Abs(m.Value()-expected) > 1e-12 {
		t.Errorf("expected energy %f, got %f", expected, m.Value())
	}

	ps[0].Vel = dynamo.Vec2{}
	m.Observe(ps, 0.01)
	if math.Abs(m.Last()-0.5) > 1e-12 {
		t.Errorf("expected last 0.5, got %f", m.Last())
	}
	if math.Abs(m.Value()-(expected+0.5)/2) > 1e-12 {
		t.Errorf("expected mean %f, got %f", (expected+0.5)/2, m.Value())
	}
}

func TestKineticEnergyReset(t *testing.T) {
	m := NewKineticEnergy()
	m.Observe([]dynamo.Particle{particle(0, 0, 1, 1, 1)}, 0)
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestSpeedDrift(t *testing.T) {
	d := NewSpeedDrift()
	ps := []dynamo.Particle{particle(0, 0, 10, 0, 1), particle(0, 0, 0, 0, 1)}

	d.Observe(ps, 0)
	if d.Value() != 0 {
		t.Fatalf("first observation sets the baseline, got %v", d.Value())
	}

	ps[0].Vel = dynamo.Vec2{X: 0, Y: 11}
	ps[1].Vel = dynamo.Vec2{X: 5, Y: 0}
	d.Observe(ps, 0.01)
	if math.Abs(d.Value()-0.1) > 1e-12 {
		t.Errorf("expected drift 0.1, got %v", d.Value())
	}

	ps[0].Vel = dynamo.Vec2{X: 10, Y: 0}
	d.Observe(ps, 0.02)
	if math.Abs(d.Value()-0.1) > 1e-12 {
		t.Errorf("drift should keep its maximum, got %v", d.Value())
	}

	d.Reset()
	if d.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestSpeedDrift_NonFinite(t *testing.T) {
	d := NewSpeedDrift()
	ps := []dynamo.Particle{particle(0, 0, 1, 0, 1)}
	d.Observe(ps, 0)
	ps[0].Vel = dynamo.Vec2{X: math.NaN()}
	d.Observe(ps, 0.01)
	if !math.IsInf(d.Value(), 1) {
		t.Errorf("expected +Inf drift, got %v", d.Value())
	}
}

func TestContainment(t *testing.T) {
	c := NewContainment(dynamo.Vec2{X: 0, Y: 0}, dynamo.Vec2{X: 10, Y: 10})
	ps := []dynamo.Particle{particle(10, 10, 0, 0, 1)}

	c.Observe(ps, 0)
	ps[0].Pos = dynamo.Vec2{X: 10.5, Y: 5}
	c.Observe(ps, 0.01)
	ps[0].Pos = dynamo.Vec2{X: 5, Y: 5}
	c.Observe(ps, 0.02)
	ps[0].Pos = dynamo.Vec2{X: 5, Y: -1}
	c.Observe(ps, 0.03)

	if math.Abs(c.Value()-0.5) > 1e-12 {
		t.Errorf("expected containment 0.5, got %v", c.Value())
	}

	c.Reset()
	if c.Value() != 1 {
		t.Errorf("expected 1 after reset, got %v", c.Value())
	}
}

func TestUnboundedContainment(t *testing.T) {
	c := NewUnboundedContainment()
	c.Observe([]dynamo.Particle{particle(1e9, -1e9, 0, 0, 1)}, 0)
	if c.Value() != 1 {
		t.Errorf("expected 1, got %v", c.Value())
	}
}
