package metrics

import (
	"math"

	"github.com/san-kum/lorentz/internal/dynamo"
)

// KineticEnergy averages the total kinetic energy of all particles over the
// observed ticks.
type KineticEnergy struct {
	name    string
	samples int
	total   float64
	last    float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(ps []dynamo.Particle, t float64) {
	e.last = totalKinetic(ps)
	e.total += e.last
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

// Last is the energy at the most recent observation.
func (e *KineticEnergy) Last() float64 { return e.last }

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.last = 0
	e.samples = 0
}

// SpeedDrift is the largest relative change of any particle's speed from
// its speed at the first observation. A pure magnetic field keeps it near
// zero for Boris and lets it grow for explicit Euler.
type SpeedDrift struct {
	name     string
	initial  []float64
	maxDrift float64
}

func NewSpeedDrift() *SpeedDrift {
	return &SpeedDrift{name: "speed_drift"}
}

func (d *SpeedDrift) Name() string { return d.name }

func (d *SpeedDrift) Observe(ps []dynamo.Particle, t float64) {
	if d.initial == nil {
		d.initial = make([]float64, len(ps))
		for i := range ps {
			d.initial[i] = ps[i].Speed()
		}
		return
	}
	for i := range ps {
		if i >= len(d.initial) || d.initial[i] == 0 {
			continue
		}
		drift := math.Abs(ps[i].Speed()-d.initial[i]) / d.initial[i]
		if math.IsNaN(drift) {
			drift = math.Inf(1)
		}
		d.maxDrift = math.Max(d.maxDrift, drift)
	}
}

func (d *SpeedDrift) Value() float64 {
	return d.maxDrift
}

func (d *SpeedDrift) Reset() {
	d.initial = nil
	d.maxDrift = 0
}

func totalKinetic(ps []dynamo.Particle) float64 {
	var sum float64
	for i := range ps {
		sum += ps[i].KineticEnergy()
	}
	return sum
}
