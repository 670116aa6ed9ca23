package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/lorentz/internal/config"
	"github.com/san-kum/lorentz/internal/experiment"
	"github.com/san-kum/lorentz/internal/sim"
	"github.com/san-kum/lorentz/internal/storage"
	"github.com/san-kum/lorentz/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	dt          float64
	duration    float64
	seed        int64
	integrator  string
	gravity     bool
	gravityG    float64
	maxPath     int
	sampleEvery int
	workers     int
	// Config file
	configFile string
	// Preset name
	preset string
	// Ticks per frame for live view
	stepsPerFrame int
	theme         string
	// Output file, stdout when empty
	outFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "lorentz",
		Short:        "charged particles in electric and magnetic fields",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".lorentz", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene and store the trajectories",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "interactive terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&stepsPerFrame, "speed", 1, "ticks per 60 Hz frame")
	liveCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenes",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, presetsCmd)
	rootCmd.AddCommand(runCommands()...)
	rootCmd.AddCommand(toolCommands()...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed recorded with the run")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (boris, euler, rk4)")
	cmd.Flags().BoolVar(&gravity, "gravity", false, "enable uniform gravity")
	cmd.Flags().Float64Var(&gravityG, "g", 9.81, "gravitational acceleration")
	cmd.Flags().IntVar(&maxPath, "max-path", 500, "trail length per particle")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "record every n-th tick")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig layers preset, config file, scene argument and explicitly
// set flags, in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Scene = nil
		cfg.SceneFile = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if flags.Changed("g") {
		cfg.G = gravityG
	}
	if flags.Changed("max-path") {
		cfg.MaxPath = maxPath
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}

	if cfg.Scene == nil && cfg.SceneFile == "" {
		return nil, fmt.Errorf("no scene: pass a scene file, --preset or --config")
	}
	if _, err := cfg.ResolveScene(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func sceneName(cfg *config.Config) string {
	if cfg.Scene != nil && cfg.Scene.Name != "" {
		return cfg.Scene.Name
	}
	if preset != "" {
		return preset
	}
	return "scene"
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(cfg)
	if err := exp.Setup(registry); err != nil {
		return err
	}

	name := sceneName(cfg)
	fmt.Printf("running %s (%d particles, %d regions, %s)...\n", name, len(exp.Particles()), len(exp.Regions()), cfg.Integrator)
	start := time.Now()

	ctx, cancel := signalContext()
	defer cancel()
	result, err := exp.Run(ctx)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		fmt.Printf("interrupted: %v\n", err)
	}
	for _, e := range result.Errors {
		fmt.Printf("warning: %v\n", e)
	}

	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Name:       name,
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Integrator: cfg.Integrator,
		Gravity:    cfg.DynamoConfig().Gravity,
		G:          cfg.G,
		Scene:      cfg.Scene,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d, frames: %d\n", result.TicksTaken, len(result.Frames))
	fmt.Printf("speed drift: %.3e\n", result.SpeedDrift)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for n := range result.Metrics {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %s: %.6f\n", n, result.Metrics[n])
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	integ, err := experiment.NewRegistry().GetIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}
	regions, particles, err := cfg.Scene.Build(cfg.MaxPath)
	if err != nil {
		return err
	}

	world := sim.NewWorld(integ, cfg.DynamoConfig())
	if err := world.SetRegions(regions); err != nil {
		return err
	}
	for _, p := range particles {
		if err := world.AddParticle(p); err != nil {
			return err
		}
	}
	if cfg.Scene.Scale > 0 {
		world.Scale = cfg.Scene.Scale
	}

	viz.SetTheme(theme)
	m := viz.NewModel(world, sceneName(cfg), stepsPerFrame)
	if cfg.Scene.Scale == 0 {
		m.Fit()
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("presets:")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Printf("  %-14s %s\n", name, cfg.Scene.Description)
	}
	return nil
}
