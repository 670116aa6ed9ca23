package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/field"
)

// gridThreshold is the region count above which ticks sample through a
// field.Grid instead of scanning every region.
const gridThreshold = 64

// Advance returns the particles one tick later, in the same order. The input
// slice and its paths are not modified. Masses are not checked here.
func Advance(particles []dynamo.Particle, sampler dynamo.Sampler, integ dynamo.Integrator, cfg dynamo.Config) []dynamo.Particle {
	out := make([]dynamo.Particle, len(particles))
	g := cfg.Acceleration()
	dynamo.ParallelFor(len(particles), cfg.ParallelMin, cfg.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = particles[i].Clone()
			advance(&out[i], sampler, integ, g, cfg.Dt)
		}
	})
	return out
}

// step advances particles in place.
func step(particles []dynamo.Particle, sampler dynamo.Sampler, integ dynamo.Integrator, cfg dynamo.Config) {
	g := cfg.Acceleration()
	dynamo.ParallelFor(len(particles), cfg.ParallelMin, cfg.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			advance(&particles[i], sampler, integ, g, cfg.Dt)
		}
	})
}

func advance(p *dynamo.Particle, sampler dynamo.Sampler, integ dynamo.Integrator, g, dt float64) {
	f := sampler.Sample(p.Pos)
	k := integ.Step(p.Kinematics(), p.Charge, p.Mass, f, g, dt)
	p.Pos, p.Vel = k.Pos, k.Vel
	p.Path.Record(p.Pos)
}

// NewSampler picks the brute-force scan for small region sets and a grid
// index for large ones.
func NewSampler(regions []field.Region) dynamo.Sampler {
	if len(regions) > gridThreshold {
		return field.NewGrid(regions, 0)
	}
	return field.Regions(append([]field.Region(nil), regions...))
}

type Simulator struct {
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
}

func New(integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) Integrator() dynamo.Integrator { return s.integrator }

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Run advances the scene for cfg.Duration and records a frame every
// cfg.SampleEvery ticks. Inputs are validated first; the given particles are
// not modified.
func (s *Simulator) Run(ctx context.Context, regions []field.Region, particles []dynamo.Particle, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if err := ValidateScene(regions, particles); err != nil {
		return nil, err
	}
	if cfg.SampleEvery < 1 {
		cfg.SampleEvery = 1
	}

	steps := cfg.Steps()
	ps := make([]dynamo.Particle, len(particles))
	for i := range particles {
		ps[i] = particles[i].Clone()
	}

	result := &dynamo.Result{
		Frames:  make([]dynamo.Frame, 0, steps/cfg.SampleEvery+2),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	sampler := NewSampler(regions)
	speed0 := make([]float64, len(ps))
	for i := range ps {
		speed0[i] = ps[i].Speed()
	}

	t := 0.0
	result.Frames = append(result.Frames, frame(0, t, ps))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			result.Particles = ps
			return result, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		for _, m := range s.metrics {
			m.Observe(ps, t)
		}
		for _, obs := range s.observers {
			obs.OnTick(ps, t)
		}

		step(ps, sampler, s.integrator, cfg)
		t = float64(i+1) * cfg.Dt
		result.TicksTaken++

		if cfg.ValidateState {
			if err := firstInvalid(ps, i, t); err != nil {
				result.Errors = append(result.Errors, err)
				break
			}
		}

		for j := range ps {
			if speed0[j] > 0 {
				drift := math.Abs(ps[j].Speed()-speed0[j]) / speed0[j]
				result.SpeedDrift = math.Max(result.SpeedDrift, drift)
			}
		}

		if (i+1)%cfg.SampleEvery == 0 || i == steps-1 {
			result.Frames = append(result.Frames, frame(i+1, t, ps))
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Particles = ps

	return result, nil
}

// RunWithCallback ticks until Duration elapses or callback returns false.
func (s *Simulator) RunWithCallback(ctx context.Context, regions []field.Region, particles []dynamo.Particle, cfg dynamo.Config, callback func(ps []dynamo.Particle, t float64) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if err := ValidateScene(regions, particles); err != nil {
		return err
	}

	ps := make([]dynamo.Particle, len(particles))
	for i := range particles {
		ps[i] = particles[i].Clone()
	}
	sampler := NewSampler(regions)
	steps := cfg.Steps()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt
		if !callback(ps, t) {
			return nil
		}

		step(ps, sampler, s.integrator, cfg)

		if cfg.ValidateState {
			if err := firstInvalid(ps, i, t+cfg.Dt); err != nil {
				return err
			}
		}
	}

	return nil
}

// ValidateScene rejects the inputs a tick cannot handle: non-positive mass,
// non-finite kinematics and malformed regions.
func ValidateScene(regions []field.Region, particles []dynamo.Particle) error {
	var errs []error
	for i := range regions {
		if err := regions[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("regions[%d]: %w", i, err))
		}
	}
	for i := range particles {
		if err := particles[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("particles[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func validateConfig(cfg dynamo.Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("dt must be positive, got %f: %w", cfg.Dt, dynamo.ErrInvalidConfig)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %f: %w", cfg.Duration, dynamo.ErrInvalidConfig)
	}
	if cfg.Gravity && (math.IsNaN(cfg.G) || math.IsInf(cfg.G, 0)) {
		return fmt.Errorf("gravity must be finite, got %f: %w", cfg.G, dynamo.ErrInvalidConfig)
	}
	return nil
}

func firstInvalid(ps []dynamo.Particle, tick int, t float64) error {
	for j := range ps {
		if !ps[j].Kinematics().IsValid() {
			return &dynamo.SimulationError{Tick: tick, Time: t, Particle: ps[j].ID, Wrapped: dynamo.ErrInvalidState}
		}
	}
	return nil
}

func frame(tick int, t float64, ps []dynamo.Particle) dynamo.Frame {
	f := dynamo.Frame{Tick: tick, Time: t, Kinematics: make([]dynamo.Kinematics, len(ps))}
	for i := range ps {
		f.Kinematics[i] = ps[i].Kinematics()
	}
	return f
}
