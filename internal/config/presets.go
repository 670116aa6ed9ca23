package config

import (
	"sort"

	"github.com/san-kum/lorentz/internal/scene"
)

// Presets are ready-made scenes covering the textbook cases.
var Presets = map[string]*Config{
	// One proton-like particle on a radius-20 circle, period 2π/5.
	"cyclotron": {
		Integrator: "boris", Dt: 0.01, Duration: 5.0, G: 9.81, MaxPath: 500, SampleEvery: 1,
		Scene: &scene.Scene{
			Name:        "cyclotron",
			Description: "uniform Bz, gyro radius 20",
			Regions: []scene.RegionSpec{
				{ID: "magnet", X: -200, Y: -200, Width: 400, Height: 400, Bz: 5},
			},
			Particles: []scene.ParticleSpec{
				{ID: "p", X: 0, Y: 0, VX: 100, VY: 0, Mass: 1, Charge: 1, Color: "#ff5f5f"},
				{ID: "e", X: 0, Y: 0, VX: 100, VY: 0, Mass: 1, Charge: -1, Color: "#5fafff"},
			},
		},
	},
	// Crossed fields pass only the particle with v = -Ey/Bz undeflected.
	"selector": {
		Integrator: "boris", Dt: 0.005, Duration: 3.0, G: 9.81, MaxPath: 800, SampleEvery: 2,
		Scene: &scene.Scene{
			Name:        "selector",
			Description: "Wien filter passing v = 50",
			Regions: []scene.RegionSpec{
				{ID: "filter", X: 0, Y: -40, Width: 150, Height: 80, Ey: -100, Bz: 2},
			},
			Particles: []scene.ParticleSpec{
				{ID: "slow", X: -10, Y: 0, VX: 30, Mass: 1, Charge: 1, Color: "#ffaf5f"},
				{ID: "match", X: -10, Y: 0, VX: 50, Mass: 1, Charge: 1, Color: "#5fff87"},
				{ID: "fast", X: -10, Y: 0, VX: 80, Mass: 1, Charge: 1, Color: "#af87ff"},
			},
		},
	},
	// E×B drift at (-Ey/Bz, Ex/Bz) = (-5, 0) whatever the charge sign.
	"drift": {
		Integrator: "boris", Dt: 0.01, Duration: 10.0, G: 9.81, MaxPath: 1000, SampleEvery: 1,
		Scene: &scene.Scene{
			Name:        "drift",
			Description: "E cross B drift",
			Regions: []scene.RegionSpec{
				{ID: "crossed", X: -300, Y: -100, Width: 600, Height: 200, Ey: 10, Bz: 2},
			},
			Particles: []scene.ParticleSpec{
				{ID: "ion", X: 0, Y: 0, VX: 0, VY: 20, Mass: 1, Charge: 1, Color: "#ff5f5f"},
				{ID: "electron", X: 0, Y: 10, VX: 0, VY: 20, Mass: 1, Charge: -1, Color: "#5fafff"},
			},
		},
	},
	// Field-free projectiles under gravity.
	"parabola": {
		Integrator: "boris", Dt: 0.01, Duration: 4.0, Gravity: true, G: 9.81, MaxPath: 500, SampleEvery: 1,
		Scene: &scene.Scene{
			Name:        "parabola",
			Description: "neutral particles under gravity",
			Gravity:     true,
			Particles: []scene.ParticleSpec{
				{ID: "shallow", X: 0, Y: 0, VX: 20, VY: 10, Mass: 1, Color: "#ffd75f"},
				{ID: "steep", X: 0, Y: 0, VX: 10, VY: 20, Mass: 1, Color: "#87d7ff"},
			},
		},
	},
	// Equal charges, different masses: an accelerating gap then a half-plane
	// magnet separates them by gyro radius.
	"spectrometer": {
		Integrator: "boris", Dt: 0.005, Duration: 4.0, G: 9.81, MaxPath: 1000, SampleEvery: 2,
		Scene: &scene.Scene{
			Name:        "spectrometer",
			Description: "mass separation in a half-plane magnet",
			Regions: []scene.RegionSpec{
				{ID: "gap", X: 0, Y: -10, Width: 20, Height: 20, Ex: 200},
				{ID: "magnet", X: 20, Y: -200, Width: 300, Height: 400, Bz: 1},
			},
			Particles: []scene.ParticleSpec{
				{ID: "light", X: 0, Y: 0, VX: 5, Mass: 1, Charge: 1, Color: "#ff87af"},
				{ID: "heavy", X: 0, Y: 0, VX: 5, Mass: 2, Charge: 1, Color: "#87ffaf"},
			},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
