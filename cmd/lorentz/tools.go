package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/lorentz/internal/automation"
	"github.com/san-kum/lorentz/internal/config"
	"github.com/san-kum/lorentz/internal/experiment"
	"github.com/san-kum/lorentz/internal/scene"
	"github.com/san-kum/lorentz/internal/sim"
	"github.com/san-kum/lorentz/internal/storage"
	"github.com/spf13/cobra"
)

var (
	sweepParam   string
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
	trials       int
	perturbation float64
	beamSpec     scene.BeamSpec
	beamBz       float64
	beamSize     float64
)

func toolCommands() []*cobra.Command {
	compareCmd := &cobra.Command{
		Use:   "compare [preset|scene] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same scene",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	compareCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "benchmark tick throughput",
		Args:  cobra.ExactArgs(1),
		RunE:  benchScene,
	}

	validateCmd := &cobra.Command{
		Use:   "validate [scene]",
		Short: "check a scene file",
		Args:  cobra.ExactArgs(1),
		RunE:  validateScene,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "sweep one scene parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "region.0.bz", "parameter, e.g. region.magnet.bz or particle.0.charge")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 10, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [scene]",
		Short: "perturb initial velocities and count confined runs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addRunFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 50, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturbation, "perturb", 0.1, "relative velocity perturbation")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of scenes",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	beamCmd := &cobra.Command{
		Use:   "beam",
		Short: "generate a beam scene in a uniform field",
		RunE:  makeBeam,
	}
	beamCmd.Flags().IntVar(&beamSpec.Count, "count", 12, "particles")
	beamCmd.Flags().Float64Var(&beamSpec.Speed, "speed", 50, "mean speed")
	beamCmd.Flags().Float64Var(&beamSpec.Angle, "angle", 0, "direction (radians)")
	beamCmd.Flags().Float64Var(&beamSpec.Spread, "spread", 0.2, "angular spread (radians)")
	beamCmd.Flags().Float64Var(&beamSpec.SpeedJitter, "jitter", 0.1, "relative speed spread")
	beamCmd.Flags().Float64Var(&beamSpec.Mass, "mass", 1, "particle mass")
	beamCmd.Flags().Float64Var(&beamSpec.Charge, "charge", 1, "particle charge")
	beamCmd.Flags().Int64Var(&beamSpec.Seed, "seed", 1, "noise seed")
	beamCmd.Flags().Float64Var(&beamBz, "bz", 2, "field strength of the surrounding region")
	beamCmd.Flags().Float64Var(&beamSize, "size", 200, "half-width of the surrounding region")
	beamCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (.yaml or .json)")

	return []*cobra.Command{compareCmd, benchCmd, validateCmd, sweepCmd, monteCarloCmd, scenarioCmd, beamCmd}
}

// loadNamed returns a preset by name, or loads a scene file.
func loadNamed(name string) (*config.Config, error) {
	if cfg := config.GetPreset(name); cfg != nil {
		return cfg, nil
	}
	s, err := scene.Load(name)
	if err != nil {
		return nil, fmt.Errorf("%s is neither a preset nor a readable scene: %w", name, err)
	}
	cfg := config.DefaultConfig()
	cfg.Scene = s
	return cfg, nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadNamed(args[0])
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	regions, particles, err := cfg.Scene.Build(cfg.MaxPath)
	if err != nil {
		return err
	}
	runCfg := cfg.DynamoConfig()
	runCfg.ValidateState = false

	registry := experiment.NewRegistry()

	fmt.Printf("comparing integrators for %s (dt=%.4f, duration=%.1fs)\n\n", args[0], cfg.Dt, cfg.Duration)
	fmt.Printf("%-12s  %-12s  %-12s  %-12s\n", "integrator", "final_dist", "speed_drift", "time_ms")
	fmt.Println(strings.Repeat("-", 52))

	for _, intName := range args[1:] {
		integ, err := registry.GetIntegrator(intName)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", intName, err)
			continue
		}

		s := sim.New(integ)
		start := time.Now()
		result, err := s.Run(context.Background(), regions, particles, runCfg)
		elapsed := time.Since(start)

		if err != nil {
			fmt.Printf("%-12s  error: %v\n", intName, err)
			continue
		}

		// distance of the first particle from its start
		finalDist := 0.0
		if len(result.Particles) > 0 {
			finalDist = result.Particles[0].Pos.Dist(particles[0].Pos)
		}

		fmt.Printf("%-12s  %12.6f  %12.2e  %12.2f\n", intName, finalDist, result.SpeedDrift, float64(elapsed.Microseconds())/1000)
	}

	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadNamed(args[0])
	if err != nil {
		return err
	}
	regions, particles, err := cfg.Scene.Build(cfg.MaxPath)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()

	durations := []float64{1.0, 5.0, 10.0}
	dts := []float64{0.001, 0.01}

	fmt.Printf("benchmarking %s (%d particles)\n\n", args[0], len(particles))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEG\tDURATION\tDT\tTICKS\tTIME\tTICKS/SEC")

	for _, name := range registry.ListIntegrators() {
		integ, err := registry.GetIntegrator(name)
		if err != nil {
			return err
		}
		for _, dur := range durations {
			for _, step := range dts {
				runCfg := cfg.DynamoConfig()
				runCfg.Dt, runCfg.Duration = step, dur
				runCfg.SampleEvery = runCfg.Steps() + 1

				start := time.Now()
				result, err := sim.New(integ).Run(context.Background(), regions, particles, runCfg)
				if err != nil {
					return err
				}
				elapsed := time.Since(start)
				fmt.Fprintf(w, "%s\t%.1fs\t%.4fs\t%d\t%v\t%.0f\n",
					name, dur, step, result.TicksTaken, elapsed, float64(result.TicksTaken)/elapsed.Seconds())
			}
		}
	}
	return w.Flush()
}

func validateScene(cmd *cobra.Command, args []string) error {
	s, err := scene.Load(args[0])
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		fmt.Printf("%s: invalid\n", args[0])
		return err
	}
	fmt.Printf("%s: ok (%d regions, %d particles)\n", args[0], len(s.Regions), len(s.Particles))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{
		Base:     cfg,
		Param:    sweepParam,
		ParamMin: sweepMin,
		ParamMax: sweepMax,
		NumSteps: sweepSteps,
	}
	results, err := automation.RunSweep(context.Background(), sweep, experiment.NewRegistry())
	if err != nil {
		return err
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tRADIUS\tSPEED_DRIFT\tCONTAINED\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		radii := make([]string, len(r.Radius))
		for i, v := range r.Radius {
			radii[i] = fmt.Sprintf("%.3f", v)
		}
		fmt.Fprintf(w, "%.4f\t%s\t%.2e\t%.0f%%\n", r.ParamValue, strings.Join(radii, " "), r.SpeedDrift, 100*r.Containment)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	mc := &automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: perturbation,
		NumTrials:    trials,
		Seed:         cfg.Seed,
	}
	results, err := automation.RunMonteCarlo(context.Background(), mc, experiment.NewRegistry())
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	worst := 0.0
	for _, r := range results {
		worst = math.Max(worst, r.SpeedDrift)
	}
	fmt.Printf("\ntrials: %d\n", len(results))
	fmt.Printf("confined: %d, escaped: %d\n", stable, unstable)
	fmt.Printf("worst speed drift: %.3e\n", worst)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}

	results, err := automation.RunScenario(context.Background(), scenario, experiment.NewRegistry())
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	for _, r := range results {
		if r.SaveAs == "" {
			fmt.Printf("  %s: %d ticks, speed drift %.2e\n", r.Name, r.Result.TicksTaken, r.Result.SpeedDrift)
			continue
		}
		runID, err := st.Save(storage.RunMetadata{
			Name:       r.SaveAs,
			Seed:       r.Config.Seed,
			Dt:         r.Config.Dt,
			Duration:   r.Config.Duration,
			Integrator: r.Config.Integrator,
			Gravity:    r.Config.DynamoConfig().Gravity,
			G:          r.Config.G,
			Scene:      r.Config.Scene,
		}, r.Result)
		if err != nil {
			return err
		}
		fmt.Printf("  %s: saved as %s\n", r.Name, runID)
	}
	return nil
}

func makeBeam(cmd *cobra.Command, args []string) error {
	s := &scene.Scene{
		Name:        "beam",
		Description: fmt.Sprintf("%d particle beam in Bz=%g", beamSpec.Count, beamBz),
		Regions: []scene.RegionSpec{
			{ID: "field", X: beamSpec.X - beamSize, Y: beamSpec.Y - beamSize, Width: 2 * beamSize, Height: 2 * beamSize, Bz: beamBz},
		},
		Particles: scene.Beam(beamSpec),
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if outFile == "" {
		data, err := scene.Marshal(s, "yaml")
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := scene.Save(outFile, s); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d particles)\n", outFile, len(s.Particles))
	return nil
}

