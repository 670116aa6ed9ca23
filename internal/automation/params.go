package automation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/lorentz/internal/scene"
)

// SetParam assigns one numeric scene value addressed as
// "region.<id|index>.<field>" or "particle.<id|index>.<field>".
// Region fields: x y width height ex ey bz. Particle fields: x y vx vy mass charge.
func SetParam(s *scene.Scene, name string, v float64) error {
	p, err := lookup(s, name)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// GetParam reads the value SetParam would assign.
func GetParam(s *scene.Scene, name string) (float64, error) {
	p, err := lookup(s, name)
	if err != nil {
		return 0, err
	}
	return *p, nil
}

func lookup(s *scene.Scene, name string) (*float64, error) {
	parts := strings.Split(name, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("parameter %q: want kind.target.field", name)
	}
	kind, target, fieldName := parts[0], parts[1], strings.ToLower(parts[2])

	switch kind {
	case "region", "regions":
		i := index(target, len(s.Regions), func(i int) string { return s.Regions[i].ID })
		if i < 0 {
			return nil, fmt.Errorf("parameter %q: no region %s", name, target)
		}
		r := &s.Regions[i]
		switch fieldName {
		case "x":
			return &r.X, nil
		case "y":
			return &r.Y, nil
		case "width":
			return &r.Width, nil
		case "height":
			return &r.Height, nil
		case "ex":
			return &r.Ex, nil
		case "ey":
			return &r.Ey, nil
		case "bz":
			return &r.Bz, nil
		}
	case "particle", "particles":
		i := index(target, len(s.Particles), func(i int) string { return s.Particles[i].ID })
		if i < 0 {
			return nil, fmt.Errorf("parameter %q: no particle %s", name, target)
		}
		p := &s.Particles[i]
		switch fieldName {
		case "x":
			return &p.X, nil
		case "y":
			return &p.Y, nil
		case "vx":
			return &p.VX, nil
		case "vy":
			return &p.VY, nil
		case "mass":
			return &p.Mass, nil
		case "charge":
			return &p.Charge, nil
		}
	default:
		return nil, fmt.Errorf("parameter %q: unknown kind %s", name, kind)
	}
	return nil, fmt.Errorf("parameter %q: unknown field %s", name, fieldName)
}

// index matches target against IDs first, then as a position.
func index(target string, n int, id func(int) string) int {
	for i := 0; i < n; i++ {
		if id(i) == target {
			return i
		}
	}
	if i, err := strconv.Atoi(target); err == nil && i >= 0 && i < n {
		return i
	}
	return -1
}
