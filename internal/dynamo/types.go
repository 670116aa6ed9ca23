package dynamo

import (
	"fmt"
	"math"
)

// StandardGravity is the default downward acceleration used when gravity is on.
const StandardGravity = 9.81

// DefaultMaxPath bounds the number of trail samples kept per particle.
const DefaultMaxPath = 500

// Vec2 is a planar vector in world coordinates (y up).
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Norm() float64        { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64  { return v.Sub(o).Norm() }
func (v Vec2) String() string       { return fmt.Sprintf("(%.4f, %.4f)", v.X, v.Y) }
func (v Vec2) IsValid() bool        { return isFinite(v.X) && isFinite(v.Y) }
func (v Vec2) Equal(o Vec2, tol float64) bool {
	return math.Abs(v.X-o.X) <= tol && math.Abs(v.Y-o.Y) <= tol
}

// Field is the field acting at a point: the in-plane electric vector and
// the out-of-plane magnetic component (positive = into the plane).
type Field struct {
	E  Vec2
	Bz float64
}

func (f Field) Add(o Field) Field {
	return Field{E: f.E.Add(o.E), Bz: f.Bz + o.Bz}
}

func (f Field) IsZero() bool {
	return f.E.X == 0 && f.E.Y == 0 && f.Bz == 0
}

// Kinematics is a particle's position and velocity.
type Kinematics struct {
	Pos Vec2
	Vel Vec2
}

func (k Kinematics) IsValid() bool { return k.Pos.IsValid() && k.Vel.IsValid() }

// Particle is a charged point mass. Initial is the authoritative starting
// state used by reset; it is never derived from Path.
type Particle struct {
	ID      string
	Pos     Vec2
	Vel     Vec2
	Mass    float64
	Charge  float64
	Radius  float64
	Color   string
	Initial Kinematics
	Path    Path
}

// NewParticle creates a particle at rest in its initial state, with a path
// holding only the initial position.
func NewParticle(id string, pos, vel Vec2, mass, charge float64, maxPath int) Particle {
	p := Particle{
		ID:      id,
		Pos:     pos,
		Vel:     vel,
		Mass:    mass,
		Charge:  charge,
		Radius:  1,
		Initial: Kinematics{Pos: pos, Vel: vel},
		Path:    NewPath(maxPath),
	}
	p.Path.Record(pos)
	return p
}

func (p *Particle) Kinematics() Kinematics { return Kinematics{Pos: p.Pos, Vel: p.Vel} }

func (p *Particle) Speed() float64 { return p.Vel.Norm() }

func (p *Particle) KineticEnergy() float64 {
	return 0.5 * p.Mass * p.Vel.Dot(p.Vel)
}

// Validate reports whether the particle can be handed to an integrator.
func (p *Particle) Validate() error {
	if !(p.Mass > 0) || math.IsInf(p.Mass, 0) {
		return fmt.Errorf("particle %q mass %v: %w", p.ID, p.Mass, ErrNonPositiveMass)
	}
	if !isFinite(p.Charge) || !p.Kinematics().IsValid() || !p.Initial.IsValid() {
		return fmt.Errorf("particle %q: %w", p.ID, ErrInvalidState)
	}
	return nil
}

// Reset restores the initial snapshot and restarts the trail there.
func (p *Particle) Reset() {
	p.Pos = p.Initial.Pos
	p.Vel = p.Initial.Vel
	p.Path.Clear()
	p.Path.Record(p.Pos)
}

// Reseed replaces the initial snapshot (e.g. after the user drags a particle)
// and resets to it.
func (p *Particle) Reseed(k Kinematics) {
	p.Initial = k
	p.Reset()
}

// Clone returns a copy that shares no path storage with p.
func (p Particle) Clone() Particle {
	p.Path = p.Path.Clone()
	return p
}

// Integrator advances a single particle by one tick under a field that is
// held constant for the tick. g is the downward acceleration (0 disables it).
type Integrator interface {
	Name() string
	Step(k Kinematics, charge, mass float64, f Field, g, dt float64) Kinematics
}

// Sampler returns the superposed field at a point.
type Sampler interface {
	Sample(p Vec2) Field
}

// SamplerFunc adapts a plain function to Sampler.
type SamplerFunc func(p Vec2) Field

func (fn SamplerFunc) Sample(p Vec2) Field { return fn(p) }

type Metric interface {
	Name() string
	Observe(ps []Particle, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(ps []Particle, t float64)
}

type Config struct {
	Dt            float64
	Duration      float64
	Gravity       bool
	G             float64
	MaxPath       int
	Workers       int
	ParallelMin   int
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		G:             StandardGravity,
		MaxPath:       DefaultMaxPath,
		ParallelMin:   256,
		SampleEvery:   1,
		ValidateState: true,
	}
}

// Acceleration returns the downward acceleration for the tick.
func (c Config) Acceleration() float64 {
	if !c.Gravity {
		return 0
	}
	return c.G
}

// Steps is the number of whole ticks in Duration.
func (c Config) Steps() int {
	if c.Dt <= 0 {
		return 0
	}
	return int(math.Round(c.Duration / c.Dt))
}

// Frame is the state of every particle at one recorded instant.
type Frame struct {
	Tick       int
	Time       float64
	Kinematics []Kinematics
}

type Result struct {
	Frames     []Frame
	Particles  []Particle
	Metrics    map[string]float64
	SpeedDrift float64
	TicksTaken int
	Errors     []error
}

func isFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
