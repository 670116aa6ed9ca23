package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Integrator != "boris" {
		t.Errorf("expected integrator boris, got %s", cfg.Integrator)
	}
	if cfg.Dt != 0.01 {
		t.Errorf("expected dt 0.01, got %v", cfg.Dt)
	}
	if cfg.G != 9.81 {
		t.Errorf("expected g 9.81, got %v", cfg.G)
	}
	if cfg.MaxPath != 500 {
		t.Errorf("expected max path 500, got %d", cfg.MaxPath)
	}
	if cfg.Gravity {
		t.Error("gravity should default to off")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("cyclotron")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Scene == nil || len(cfg.Scene.Regions) != 1 {
		t.Fatal("cyclotron should carry one region")
	}
	if cfg.Scene.Regions[0].Bz != 5 {
		t.Errorf("expected bz 5, got %v", cfg.Scene.Regions[0].Bz)
	}
}

func TestGetPreset_ReturnsCopy(t *testing.T) {
	a := GetPreset("cyclotron")
	a.Scene.Particles[0].VX = -1
	a.Dt = 1

	b := GetPreset("cyclotron")
	if b.Scene.Particles[0].VX != 100 || b.Dt != 0.01 {
		t.Error("editing a preset copy changed the registry")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
}

func TestPresetsAreValid(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			if err := cfg.Scene.Validate(); err != nil {
				t.Fatalf("invalid scene: %v", err)
			}
			dc := cfg.DynamoConfig()
			if dc.Dt <= 0 || dc.Duration <= 0 || dc.Steps() <= 0 {
				t.Errorf("bad run config %+v", dc)
			}
		})
	}
}

func TestDynamoConfig_SceneGravity(t *testing.T) {
	cfg := GetPreset("parabola")
	cfg.Gravity = false
	if !cfg.DynamoConfig().Gravity {
		t.Error("scene gravity flag should enable gravity")
	}
	if cfg.DynamoConfig().Acceleration() != 9.81 {
		t.Errorf("expected acceleration 9.81, got %v", cfg.DynamoConfig().Acceleration())
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")

	cfg := GetPreset("drift")
	cfg.Duration = 2.5
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Duration != 2.5 || got.Integrator != "boris" {
		t.Errorf("round trip lost settings: %+v", got)
	}
	if got.Scene == nil || got.Scene.Regions[0].Ey != 10 {
		t.Error("round trip lost the inline scene")
	}
}

func TestLoad_DefaultsAndSceneFile(t *testing.T) {
	dir := t.TempDir()
	sceneYAML := "regions:\n  - {x: 0, y: 0, width: 10, height: 10, bz: 1}\nparticles:\n  - {x: 1, y: 1, vx: 1, vy: 0, mass: 1, charge: 1}\n"
	if err := os.WriteFile(filepath.Join(dir, "s.yaml"), []byte(sceneYAML), 0644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "c.yaml")
	if err := os.WriteFile(cfgPath, []byte("duration: 1\nscene_file: s.yaml\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dt != DefaultDt || cfg.MaxPath != 500 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	s, err := cfg.ResolveScene()
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Regions) != 1 || len(s.Particles) != 1 {
		t.Errorf("unexpected scene %+v", s)
	}
}

func TestResolveScene_Missing(t *testing.T) {
	if _, err := DefaultConfig().ResolveScene(); err == nil {
		t.Error("expected error without a scene")
	}
}
