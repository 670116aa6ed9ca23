package sim

import (
	"fmt"

	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/field"
)

// World is the interactive simulation state: regions, particles, the play
// flag, elapsed time, display scale and the gravity toggle. The driver calls
// Tick once per frame.
type World struct {
	Playing bool
	Elapsed float64
	Scale   float64
	Gravity bool

	regions    []field.Region
	particles  []dynamo.Particle
	sampler    dynamo.Sampler
	integrator dynamo.Integrator
	cfg        dynamo.Config
	ticks      int
}

func NewWorld(integrator dynamo.Integrator, cfg dynamo.Config) *World {
	if cfg.MaxPath <= 0 {
		cfg.MaxPath = dynamo.DefaultMaxPath
	}
	return &World{
		Scale:      1,
		Gravity:    cfg.Gravity,
		sampler:    field.Regions(nil),
		integrator: integrator,
		cfg:        cfg,
	}
}

func (w *World) Dt() float64 { return w.cfg.Dt }

func (w *World) Ticks() int { return w.ticks }

func (w *World) Integrator() dynamo.Integrator { return w.integrator }

func (w *World) Regions() []field.Region { return w.regions }

// Particles exposes the live particles for rendering. Callers must not
// modify them.
func (w *World) Particles() []dynamo.Particle { return w.particles }

// Snapshot returns a deep copy of the particles.
func (w *World) Snapshot() []dynamo.Particle {
	out := make([]dynamo.Particle, len(w.particles))
	for i := range w.particles {
		out[i] = w.particles[i].Clone()
	}
	return out
}

// SetRegions replaces the region set after validating every region.
func (w *World) SetRegions(regions []field.Region) error {
	for i := range regions {
		if err := regions[i].Validate(); err != nil {
			return fmt.Errorf("regions[%d]: %w", i, err)
		}
	}
	w.regions = append([]field.Region(nil), regions...)
	w.sampler = NewSampler(w.regions)
	return nil
}

// AddParticle validates p and appends it with a trail bounded by the
// world's path limit.
func (w *World) AddParticle(p dynamo.Particle) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p = p.Clone()
	p.Path.SetMax(w.cfg.MaxPath)
	if p.Path.Len() == 0 {
		p.Path.Record(p.Pos)
	}
	w.particles = append(w.particles, p)
	return nil
}

// RemoveParticle deletes the particle with the given ID.
func (w *World) RemoveParticle(id string) bool {
	for i := range w.particles {
		if w.particles[i].ID == id {
			w.particles = append(w.particles[:i], w.particles[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateParticle re-seeds a particle's initial state, as when the user edits
// it. The new state is validated before anything changes.
func (w *World) UpdateParticle(id string, k dynamo.Kinematics, mass, charge float64) error {
	for i := range w.particles {
		if w.particles[i].ID != id {
			continue
		}
		p := w.particles[i].Clone()
		p.Mass, p.Charge = mass, charge
		p.Reseed(k)
		if err := p.Validate(); err != nil {
			return err
		}
		w.particles[i] = p
		return nil
	}
	return fmt.Errorf("unknown particle %q", id)
}

func (w *World) Play()   { w.Playing = true }
func (w *World) Pause()  { w.Playing = false }
func (w *World) Toggle() { w.Playing = !w.Playing }

func (w *World) ToggleGravity() { w.Gravity = !w.Gravity }

// Tick advances one tick if the world is playing.
func (w *World) Tick() bool {
	if !w.Playing {
		return false
	}
	w.Step()
	return true
}

// Step advances one tick regardless of the play flag. Elapsed time moves by
// exactly the integration dt.
func (w *World) Step() {
	cfg := w.cfg
	cfg.Gravity = w.Gravity
	step(w.particles, w.sampler, w.integrator, cfg)
	w.ticks++
	w.Elapsed = float64(w.ticks) * cfg.Dt
}

// Reset returns every particle to its initial snapshot, pauses and zeroes
// the clock.
func (w *World) Reset() {
	for i := range w.particles {
		w.particles[i].Reset()
	}
	w.ticks = 0
	w.Elapsed = 0
	w.Playing = false
}

// Clear removes all particles and regions.
func (w *World) Clear() {
	w.particles = nil
	w.regions = nil
	w.sampler = field.Regions(nil)
	w.ticks = 0
	w.Elapsed = 0
	w.Playing = false
}

// FieldAt samples the current region set, for inspection overlays.
func (w *World) FieldAt(p dynamo.Vec2) dynamo.Field { return w.sampler.Sample(p) }
