package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/lorentz/internal/config"
	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/sim"
)

// Experiment binds one run configuration to a simulator.
type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulator
	regions   []field.Region
	particles []dynamo.Particle
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup resolves and validates the scene, then builds the simulator. With
// no metrics given the registry defaults are used.
func (e *Experiment) Setup(reg *Registry, metrics ...dynamo.Metric) error {
	integ, err := reg.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}
	s, err := e.cfg.ResolveScene()
	if err != nil {
		return err
	}
	regions, particles, err := s.Build(e.cfg.MaxPath)
	if err != nil {
		return fmt.Errorf("scene %q: %w", s.Name, err)
	}
	e.regions, e.particles = regions, particles

	if len(metrics) == 0 {
		metrics = reg.DefaultMetrics(regions)
	}
	e.simulator = sim.New(integ)
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.regions, e.particles, e.cfg.DynamoConfig())
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Config() *config.Config { return e.cfg }

func (e *Experiment) Regions() []field.Region { return e.regions }

func (e *Experiment) Particles() []dynamo.Particle { return e.particles }
