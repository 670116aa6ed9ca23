package metrics

import (
	"github.com/san-kum/lorentz/internal/dynamo"
)

// Containment is the fraction of observed ticks at which every particle was
// inside the box [lo, hi]. An empty box means the field regions' bounds
// were empty, and every tick counts as contained.
type Containment struct {
	name       string
	lo, hi     dynamo.Vec2
	bounded    bool
	violations int
	samples    int
}

func NewContainment(lo, hi dynamo.Vec2) *Containment {
	return &Containment{name: "containment", lo: lo, hi: hi, bounded: true}
}

// NewUnboundedContainment never reports a violation.
func NewUnboundedContainment() *Containment {
	return &Containment{name: "containment"}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(ps []dynamo.Particle, t float64) {
	c.samples++
	if !c.bounded {
		return
	}
	for i := range ps {
		p := ps[i].Pos
		if p.X < c.lo.X || p.X > c.hi.X || p.Y < c.lo.Y || p.Y > c.hi.Y || !p.IsValid() {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
