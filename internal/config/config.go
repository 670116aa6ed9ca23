package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/scene"
	"gopkg.in/yaml.v3"
)

const (
	DefaultIntegrator  = "boris"
	DefaultDt          = 0.01
	DefaultDuration    = 10.0
	DefaultSampleEvery = 1
)

type Config struct {
	Integrator  string       `yaml:"integrator"`
	Dt          float64      `yaml:"dt"`
	Duration    float64      `yaml:"duration"`
	Gravity     bool         `yaml:"gravity"`
	G           float64      `yaml:"g"`
	MaxPath     int          `yaml:"max_path"`
	Workers     int          `yaml:"workers,omitempty"`
	SampleEvery int          `yaml:"sample_every"`
	Seed        int64        `yaml:"seed,omitempty"`
	Scene       *scene.Scene `yaml:"scene,omitempty"`
	SceneFile   string       `yaml:"scene_file,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator:  DefaultIntegrator,
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		G:           dynamo.StandardGravity,
		MaxPath:     dynamo.DefaultMaxPath,
		SampleEvery: DefaultSampleEvery,
	}
}

// Load reads a YAML config over the defaults. A relative scene_file is
// resolved against the config file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.SceneFile != "" && !filepath.IsAbs(cfg.SceneFile) {
		cfg.SceneFile = filepath.Join(filepath.Dir(path), cfg.SceneFile)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DynamoConfig converts the file-level settings into the simulator's run
// configuration. A scene's gravity flag turns gravity on as well.
func (c *Config) DynamoConfig() dynamo.Config {
	dc := dynamo.DefaultConfig()
	dc.Dt = c.Dt
	dc.Duration = c.Duration
	dc.Gravity = c.Gravity || (c.Scene != nil && c.Scene.Gravity)
	dc.G = c.G
	dc.MaxPath = c.MaxPath
	dc.Workers = c.Workers
	if c.SampleEvery > 0 {
		dc.SampleEvery = c.SampleEvery
	}
	return dc
}

// ResolveScene returns the inline scene, or loads scene_file when no inline
// scene is set.
func (c *Config) ResolveScene() (*scene.Scene, error) {
	if c.Scene != nil {
		return c.Scene, nil
	}
	if c.SceneFile == "" {
		return nil, fmt.Errorf("config has neither scene nor scene_file")
	}
	s, err := scene.Load(c.SceneFile)
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", c.SceneFile, err)
	}
	c.Scene = s
	return s, nil
}

// Clone returns a copy whose scene can be edited without touching c.
func (c *Config) Clone() *Config {
	out := *c
	if c.Scene != nil {
		s := *c.Scene
		s.Regions = append([]scene.RegionSpec(nil), c.Scene.Regions...)
		s.Particles = append([]scene.ParticleSpec(nil), c.Scene.Particles...)
		out.Scene = &s
	}
	return &out
}
