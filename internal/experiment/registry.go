package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/integrators"
	"github.com/san-kum/lorentz/internal/metrics"
)

type Registry struct {
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.integrators["boris"] = func() dynamo.Integrator { return integrators.NewBoris() }
	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics measures energy, speed drift and whether particles stay
// inside the bounding box of the field regions.
func (r *Registry) DefaultMetrics(regions []field.Region) []dynamo.Metric {
	containment := metrics.NewUnboundedContainment()
	if lo, hi, ok := field.Regions(regions).Bounds(); ok {
		containment = metrics.NewContainment(lo, hi)
	}
	return []dynamo.Metric{
		metrics.NewKineticEnergy(),
		metrics.NewSpeedDrift(),
		containment,
	}
}
