package sim_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/integrators"
	"github.com/san-kum/lorentz/internal/sim"
)

func tickConfig() dynamo.Config {
	cfg := dynamo.DefaultConfig()
	cfg.MaxPath = 50
	return cfg
}

var _ = Describe("Advance", func() {
	var (
		boris   dynamo.Integrator
		regions field.Regions
		cfg     dynamo.Config
	)

	BeforeEach(func() {
		boris = integrators.NewBoris()
		regions = field.Regions{{X: -100, Y: -100, Width: 200, Height: 200, Bz: 5}}
		cfg = tickConfig()
	})

	It("returns a new slice in the same order and leaves the input untouched", func() {
		in := []dynamo.Particle{
			dynamo.NewParticle("a", dynamo.Vec2{}, dynamo.Vec2{X: 100}, 1, 1, cfg.MaxPath),
			dynamo.NewParticle("b", dynamo.Vec2{X: 10}, dynamo.Vec2{Y: -3}, 2, -1, cfg.MaxPath),
			dynamo.NewParticle("c", dynamo.Vec2{Y: 10}, dynamo.Vec2{}, 1, 0, cfg.MaxPath),
		}
		in[1].Radius, in[1].Color = 4, "#ff0000"

		out := sim.Advance(in, regions, boris, cfg)

		Expect(out).To(HaveLen(3))
		for i := range in {
			Expect(out[i].ID).To(Equal(in[i].ID))
			Expect(out[i].Mass).To(Equal(in[i].Mass))
			Expect(out[i].Charge).To(Equal(in[i].Charge))
			Expect(in[i].Path.Len()).To(Equal(1))
			Expect(out[i].Path.Len()).To(Equal(2))
		}
		Expect(out[1].Radius).To(Equal(4.0))
		Expect(out[1].Color).To(Equal("#ff0000"))
		Expect(in[0].Pos).To(Equal(dynamo.Vec2{}))
		Expect(out[0].Pos).NotTo(Equal(dynamo.Vec2{}))
	})

	It("steps each particle independently of the others", func() {
		a := dynamo.NewParticle("a", dynamo.Vec2{X: 1}, dynamo.Vec2{X: 100}, 1, 1, cfg.MaxPath)
		b := dynamo.NewParticle("b", dynamo.Vec2{X: 5}, dynamo.Vec2{X: -7, Y: 2}, 3, -2, cfg.MaxPath)

		alone := sim.Advance([]dynamo.Particle{a}, regions, boris, cfg)
		together := sim.Advance([]dynamo.Particle{b, a}, regions, boris, cfg)

		Expect(together[1].Kinematics()).To(Equal(alone[0].Kinematics()))
	})

	It("keeps the path bounded and ending at the current position", func() {
		ps := []dynamo.Particle{dynamo.NewParticle("a", dynamo.Vec2{}, dynamo.Vec2{X: 100}, 1, 1, cfg.MaxPath)}
		for i := 0; i < 300; i++ {
			ps = sim.Advance(ps, regions, boris, cfg)
			Expect(ps[0].Path.Len()).To(BeNumerically("<=", cfg.MaxPath))
			last, ok := ps[0].Path.Last()
			Expect(ok).To(BeTrue())
			Expect(last).To(Equal(ps[0].Pos))
		}
		Expect(ps[0].Path.Len()).To(Equal(cfg.MaxPath))
	})

	It("keeps the initial position as the first path entry until the trail fills", func() {
		ps := []dynamo.Particle{dynamo.NewParticle("a", dynamo.Vec2{X: 3, Y: 4}, dynamo.Vec2{X: 1}, 1, 1, cfg.MaxPath)}
		for i := 0; i < cfg.MaxPath-1; i++ {
			ps = sim.Advance(ps, regions, boris, cfg)
			first, _ := ps[0].Path.First()
			Expect(first).To(Equal(ps[0].Initial.Pos))
		}
	})

	It("gives identical results serially and in parallel", func() {
		many := make([]dynamo.Particle, 1000)
		for i := range many {
			v := dynamo.Vec2{X: math.Cos(float64(i)), Y: math.Sin(float64(i))}.Scale(10)
			many[i] = dynamo.NewParticle("", dynamo.Vec2{X: float64(i%50) - 25}, v, 1+float64(i%3), float64(i%5)-2, cfg.MaxPath)
		}

		serial := cfg
		serial.Workers = 1
		parallel := cfg
		parallel.Workers = 8
		parallel.ParallelMin = 16

		a := sim.Advance(many, regions, boris, serial)
		b := sim.Advance(many, regions, boris, parallel)
		for i := range a {
			Expect(b[i].Kinematics()).To(Equal(a[i].Kinematics()))
		}
	})

	It("applies gravity only when enabled", func() {
		p := []dynamo.Particle{dynamo.NewParticle("n", dynamo.Vec2{}, dynamo.Vec2{}, 1, 0, cfg.MaxPath)}

		still := sim.Advance(p, field.Regions{}, boris, cfg)
		Expect(still[0].Vel).To(Equal(dynamo.Vec2{}))

		cfg.Gravity = true
		falling := sim.Advance(p, field.Regions{}, boris, cfg)
		Expect(falling[0].Vel.Y).To(BeNumerically("~", -dynamo.StandardGravity*cfg.Dt, 1e-15))
	})
})

var _ = Describe("NewSampler", func() {
	It("returns the same field whether or not it indexes", func() {
		regions := make([]field.Region, 100)
		for i := range regions {
			regions[i] = field.Region{X: float64(i), Y: float64(i), Width: 10, Height: 10, Ex: float64(i), Bz: 1}
		}
		indexed := sim.NewSampler(regions)
		Expect(indexed).To(BeAssignableToTypeOf(&field.Grid{}))

		for _, p := range []dynamo.Vec2{{X: 5, Y: 5}, {X: 50.5, Y: 52}, {X: -1, Y: 0}, {X: 109, Y: 109}} {
			Expect(indexed.Sample(p)).To(Equal(field.Sample(p, regions)))
		}
	})
})
