package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/san-kum/lorentz/internal/analysis"
	"github.com/san-kum/lorentz/internal/config"
	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/experiment"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. It starts from a preset or a config file and
// applies overrides on top.
type ScenarioStep struct {
	Preset     string             `yaml:"preset"`
	Config     string             `yaml:"config"`
	SceneFile  string             `yaml:"scene_file"`
	Integrator string             `yaml:"integrator"`
	Duration   float64            `yaml:"duration"`
	Dt         float64            `yaml:"dt"`
	Gravity    *bool              `yaml:"gravity"`
	Params     map[string]float64 `yaml:"params"`
	SaveAs     string             `yaml:"save_as"`
}

// StepResult pairs a finished run with the configuration that produced it.
type StepResult struct {
	Name   string
	SaveAs string
	Config *config.Config
	Result *dynamo.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// Resolve builds the run configuration for a step.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case s.Preset != "":
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	case s.Config != "":
		loaded, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		cfg = config.DefaultConfig()
	}

	if s.SceneFile != "" {
		cfg.Scene = nil
		cfg.SceneFile = s.SceneFile
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if s.Gravity != nil {
		cfg.Gravity = *s.Gravity
	}
	if len(s.Params) > 0 {
		sc, err := cfg.ResolveScene()
		if err != nil {
			return nil, err
		}
		// sorted so errors are reported deterministically
		names := make([]string, 0, len(s.Params))
		for name := range s.Params {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := SetParam(sc, name, s.Params[name]); err != nil {
				return nil, err
			}
		}
	}
	return cfg, nil
}

func (s ScenarioStep) label() string {
	switch {
	case s.SaveAs != "":
		return s.SaveAs
	case s.Preset != "":
		return s.Preset
	case s.Config != "":
		return s.Config
	}
	return s.SceneFile
}

// RunScenario executes all steps in a scenario
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		fmt.Printf("Running step %d/%d: %s\n", i+1, len(scenario.Steps), step.label())

		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(registry); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Name: step.label(), SaveAs: step.SaveAs, Config: cfg, Result: result})
	}

	return results, nil
}

// ParameterSweep runs the base configuration once per value of one scene
// parameter, spaced evenly over [ParamMin, ParamMax].
type ParameterSweep struct {
	Base     *config.Config
	Param    string
	ParamMin float64
	ParamMax float64
	NumSteps int
}

// SweepResult summarises one sweep point. Radius holds the half-extent of
// each particle's recorded trajectory, which for a closed orbit is its
// gyro radius.
type SweepResult struct {
	ParamValue  float64
	Radius      []float64
	SpeedDrift  float64
	Containment float64
	Final       []dynamo.Kinematics
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step")
	}
	results := make([]SweepResult, 0, sweep.NumSteps)

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := cloneScene(sweep.Base)
		sc, err := cfg.ResolveScene()
		if err != nil {
			return nil, err
		}
		if err := SetParam(sc, sweep.Param, paramVal); err != nil {
			return nil, err
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(registry); err != nil {
			return nil, err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue:  paramVal,
			Radius:      radii(result),
			SpeedDrift:  result.SpeedDrift,
			Containment: result.Metrics["containment"],
			Final:       finalState(result),
		})

		fmt.Printf("Sweep %d/%d: %s=%.4f\n", i+1, sweep.NumSteps, sweep.Param, paramVal)
	}

	return results, nil
}

// MonteCarloConfig perturbs every particle's velocity by a uniform relative
// factor in [1-Perturbation, 1+Perturbation].
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Seed         int64
}

// MonteCarloResult holds statistics from Monte Carlo runs
type MonteCarloResult struct {
	TrialID    int
	Initial    []dynamo.Kinematics
	Final      []dynamo.Kinematics
	SpeedDrift float64
	Stable     bool // stayed inside the field regions and finite
}

// RunMonteCarlo executes multiple trials with random perturbations
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		run := cloneScene(cfg.Base)
		if _, err := run.ResolveScene(); err != nil {
			return nil, err
		}

		initial := make([]dynamo.Kinematics, len(run.Scene.Particles))
		for i := range run.Scene.Particles {
			p := &run.Scene.Particles[i]
			p.VX *= 1 + (rng.Float64()-0.5)*2*cfg.Perturbation
			p.VY *= 1 + (rng.Float64()-0.5)*2*cfg.Perturbation
			initial[i] = dynamo.Kinematics{Pos: dynamo.Vec2{X: p.X, Y: p.Y}, Vel: dynamo.Vec2{X: p.VX, Y: p.VY}}
		}

		exp := experiment.New(run)
		if err := exp.Setup(registry); err != nil {
			return nil, err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		final := finalState(result)
		stable := len(result.Errors) == 0 && result.Metrics["containment"] == 1
		for _, k := range final {
			if !k.IsValid() {
				stable = false
			}
		}

		results = append(results, MonteCarloResult{
			TrialID:    trial,
			Initial:    initial,
			Final:      final,
			SpeedDrift: result.SpeedDrift,
			Stable:     stable,
		})

		if (trial+1)%10 == 0 {
			fmt.Printf("Monte Carlo: %d/%d trials complete\n", trial+1, cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}

// cloneScene copies base and, when the scene lives in a file, loads it so
// the copy can be edited.
func cloneScene(base *config.Config) *config.Config {
	cfg := base.Clone()
	if cfg.Scene == nil && cfg.SceneFile != "" {
		if s, err := cfg.ResolveScene(); err == nil {
			cfg.Scene = s
			cfg = cfg.Clone()
		}
	}
	return cfg
}

func radii(result *dynamo.Result) []float64 {
	if len(result.Frames) == 0 {
		return nil
	}
	n := len(result.Frames[0].Kinematics)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		portrait := analysis.GeneratePortrait(result.Frames, i, analysis.Position)
		if portrait == nil {
			continue
		}
		_, _, out[i] = analysis.Extent(portrait.Points)
	}
	return out
}

func finalState(result *dynamo.Result) []dynamo.Kinematics {
	out := make([]dynamo.Kinematics, len(result.Particles))
	for i := range result.Particles {
		out[i] = result.Particles[i].Kinematics()
	}
	return out
}
