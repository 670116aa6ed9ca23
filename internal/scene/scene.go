// Package scene is the exchange format for regions and particles, shared by
// hand-authored files, presets and imported problem statements. A scene must
// pass Validate before it is built into simulation values.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/field"
	"gopkg.in/yaml.v3"
)

const DefaultRadius = 5.0

type RegionSpec struct {
	ID     string  `yaml:"id,omitempty" json:"id,omitempty"`
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
	Ex     float64 `yaml:"ex" json:"ex"`
	Ey     float64 `yaml:"ey" json:"ey"`
	Bz     float64 `yaml:"bz" json:"bz"`
}

type ParticleSpec struct {
	ID     string  `yaml:"id,omitempty" json:"id,omitempty"`
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	VX     float64 `yaml:"vx" json:"vx"`
	VY     float64 `yaml:"vy" json:"vy"`
	Mass   float64 `yaml:"mass" json:"mass"`
	Charge float64 `yaml:"charge" json:"charge"`
	Radius float64 `yaml:"radius,omitempty" json:"radius,omitempty"`
	Color  string  `yaml:"color,omitempty" json:"color,omitempty"`
}

type Scene struct {
	Name        string         `yaml:"name,omitempty" json:"name,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Gravity     bool           `yaml:"gravity,omitempty" json:"gravity,omitempty"`
	Scale       float64        `yaml:"scale,omitempty" json:"scale,omitempty"`
	Regions     []RegionSpec   `yaml:"regions" json:"regions"`
	Particles   []ParticleSpec `yaml:"particles" json:"particles"`
}

func (r RegionSpec) Region(i int) field.Region {
	id := r.ID
	if id == "" {
		id = fmt.Sprintf("r%d", i)
	}
	return field.Region{ID: id, X: r.X, Y: r.Y, Width: r.Width, Height: r.Height, Ex: r.Ex, Ey: r.Ey, Bz: r.Bz}
}

func (p ParticleSpec) Particle(i, maxPath int) dynamo.Particle {
	id := p.ID
	if id == "" {
		id = fmt.Sprintf("p%d", i)
	}
	out := dynamo.NewParticle(id, dynamo.Vec2{X: p.X, Y: p.Y}, dynamo.Vec2{X: p.VX, Y: p.VY}, p.Mass, p.Charge, maxPath)
	out.Radius = p.Radius
	if out.Radius <= 0 {
		out.Radius = DefaultRadius
	}
	out.Color = p.Color
	return out
}

// Validate reports every problem in the scene. Mass must be strictly
// positive; all numbers must be finite; region sizes must be non-negative.
func (s *Scene) Validate() error {
	var errs []error
	for i, r := range s.Regions {
		if err := r.Region(i).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("regions[%d]: %w", i, err))
		}
	}
	seen := make(map[string]int)
	for i, p := range s.Particles {
		if !(p.Mass > 0) || math.IsInf(p.Mass, 0) {
			errs = append(errs, fmt.Errorf("particles[%d]: mass %v: %w", i, p.Mass, dynamo.ErrNonPositiveMass))
		}
		if !finite(p.X, p.Y, p.VX, p.VY, p.Charge, p.Radius) {
			errs = append(errs, fmt.Errorf("particles[%d]: %w", i, dynamo.ErrInvalidState))
		}
		if p.ID != "" {
			if j, dup := seen[p.ID]; dup {
				errs = append(errs, fmt.Errorf("particles[%d]: id %q already used by particles[%d]", i, p.ID, j))
			}
			seen[p.ID] = i
		}
	}
	if s.Scale < 0 || !finite(s.Scale) {
		errs = append(errs, fmt.Errorf("scale %v must be non-negative", s.Scale))
	}
	return errors.Join(errs...)
}

// Build validates the scene and converts it into simulation values. Each
// particle's initial snapshot is its authored position and velocity.
func (s *Scene) Build(maxPath int) ([]field.Region, []dynamo.Particle, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	regions := make([]field.Region, len(s.Regions))
	for i, r := range s.Regions {
		regions[i] = r.Region(i)
	}
	particles := make([]dynamo.Particle, len(s.Particles))
	for i, p := range s.Particles {
		particles[i] = p.Particle(i, maxPath)
	}
	return regions, particles, nil
}

// FromState converts live values back into a scene, using each particle's
// initial snapshot so a saved scene reloads to its starting point.
func FromState(name string, regions []field.Region, particles []dynamo.Particle, gravity bool) *Scene {
	s := &Scene{Name: name, Gravity: gravity}
	for _, r := range regions {
		s.Regions = append(s.Regions, RegionSpec{ID: r.ID, X: r.X, Y: r.Y, Width: r.Width, Height: r.Height, Ex: r.Ex, Ey: r.Ey, Bz: r.Bz})
	}
	for _, p := range particles {
		s.Particles = append(s.Particles, ParticleSpec{
			ID:   p.ID, X: p.Initial.Pos.X, Y: p.Initial.Pos.Y, VX: p.Initial.Vel.X, VY: p.Initial.Vel.Y,
			Mass: p.Mass, Charge: p.Charge, Radius: p.Radius, Color: p.Color,
		})
	}
	return s
}

// Parse decodes a scene. format is "json" or "yaml".
func Parse(data []byte, format string) (*Scene, error) {
	var s Scene
	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode scene json: %w", err)
		}
	case "yaml", "yml", "":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode scene yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown scene format %q", format)
	}
	return &s, nil
}

// Load reads a scene file; the extension selects JSON or YAML.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, formatOf(path))
}

// Marshal encodes a scene as "json" or "yaml".
func Marshal(s *Scene, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		return json.MarshalIndent(s, "", "  ")
	case "yaml", "yml", "":
		return yaml.Marshal(s)
	}
	return nil, fmt.Errorf("unknown scene format %q", format)
}

func Save(path string, s *Scene) error {
	data, err := Marshal(s, formatOf(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func formatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "yaml"
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
