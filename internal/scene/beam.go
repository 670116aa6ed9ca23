package scene

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
)

// BeamSpec describes a fan of identical particles leaving one point. The
// spread in direction and speed follows 1D Perlin noise, so neighbouring
// particles differ smoothly and a given seed always gives the same beam.
type BeamSpec struct {
	Count       int     `yaml:"count"`
	X           float64 `yaml:"x"`
	Y           float64 `yaml:"y"`
	Speed       float64 `yaml:"speed"`
	Angle       float64 `yaml:"angle"`        // radians, 0 = +x
	Spread      float64 `yaml:"spread"`       // max angular deviation, radians
	SpeedJitter float64 `yaml:"speed_jitter"` // max relative speed deviation
	Mass        float64 `yaml:"mass"`
	Charge      float64 `yaml:"charge"`
	Color       string  `yaml:"color"`
	Seed        int64   `yaml:"seed"`
}

func Beam(spec BeamSpec) []ParticleSpec {
	if spec.Count <= 0 {
		return nil
	}
	noise := perlin.NewPerlin(2, 2, 3, spec.Seed)
	out := make([]ParticleSpec, spec.Count)
	for i := range out {
		u := float64(i) / float64(spec.Count)
		angle := spec.Angle + spec.Spread*clamp(noise.Noise1D(u+0.5))
		speed := spec.Speed * (1 + spec.SpeedJitter*clamp(noise.Noise1D(u+7.25)))
		out[i] = ParticleSpec{
			ID:     fmt.Sprintf("beam%d", i),
			X:      spec.X,
			Y:      spec.Y,
			VX:     speed * math.Cos(angle),
			VY:     speed * math.Sin(angle),
			Mass:   spec.Mass,
			Charge: spec.Charge,
			Color:  spec.Color,
		}
	}
	return out
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
