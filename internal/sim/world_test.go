package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/integrators"
	"github.com/san-kum/lorentz/internal/sim"
)

var _ = Describe("World", func() {
	var w *sim.World

	BeforeEach(func() {
		cfg := tickConfig()
		w = sim.NewWorld(integrators.NewBoris(), cfg)
		Expect(w.SetRegions([]field.Region{{X: -50, Y: -50, Width: 100, Height: 100, Bz: 5}})).To(Succeed())
		Expect(w.AddParticle(dynamo.NewParticle("p", dynamo.Vec2{}, dynamo.Vec2{X: 100}, 1, 1, 10))).To(Succeed())
	})

	It("does not advance while paused", func() {
		Expect(w.Tick()).To(BeFalse())
		Expect(w.Elapsed).To(Equal(0.0))
		Expect(w.Particles()[0].Pos).To(Equal(dynamo.Vec2{}))
	})

	It("advances the clock by exactly dt per tick", func() {
		w.Play()
		for i := 0; i < 250; i++ {
			Expect(w.Tick()).To(BeTrue())
		}
		Expect(w.Ticks()).To(Equal(250))
		Expect(w.Elapsed).To(Equal(250 * w.Dt()))
	})

	It("resets to the initial snapshot, not the trail", func() {
		w.Play()
		for i := 0; i < 400; i++ {
			w.Tick()
		}
		p := w.Particles()[0]
		Expect(p.Path.Len()).To(Equal(tickConfig().MaxPath))
		first, _ := p.Path.First()
		Expect(first).NotTo(Equal(dynamo.Vec2{}))

		w.Reset()

		p = w.Particles()[0]
		Expect(w.Playing).To(BeFalse())
		Expect(w.Elapsed).To(Equal(0.0))
		Expect(p.Pos).To(Equal(dynamo.Vec2{}))
		Expect(p.Vel).To(Equal(dynamo.Vec2{X: 100}))
		Expect(p.Path.Points()).To(Equal([]dynamo.Vec2{{}}))
	})

	It("rejects particles without positive mass", func() {
		err := w.AddParticle(dynamo.NewParticle("bad", dynamo.Vec2{}, dynamo.Vec2{}, 0, 1, 10))
		Expect(err).To(MatchError(dynamo.ErrNonPositiveMass))
		Expect(w.Particles()).To(HaveLen(1))
	})

	It("rejects edits that would zero the mass", func() {
		err := w.UpdateParticle("p", dynamo.Kinematics{}, -1, 1)
		Expect(err).To(MatchError(dynamo.ErrNonPositiveMass))
		Expect(w.Particles()[0].Mass).To(Equal(1.0))
	})

	It("re-seeds the initial state on edit", func() {
		k := dynamo.Kinematics{Pos: dynamo.Vec2{X: 2}, Vel: dynamo.Vec2{Y: 3}}
		Expect(w.UpdateParticle("p", k, 2, -1)).To(Succeed())
		w.Play()
		w.Tick()
		w.Reset()
		Expect(w.Particles()[0].Kinematics()).To(Equal(k))
		Expect(w.Particles()[0].Charge).To(Equal(-1.0))
	})

	It("rejects malformed regions and keeps the old set", func() {
		err := w.SetRegions([]field.Region{{Width: -1}})
		Expect(err).To(MatchError(dynamo.ErrInvalidRegion))
		Expect(w.Regions()).To(HaveLen(1))
		Expect(w.FieldAt(dynamo.Vec2{}).Bz).To(Equal(5.0))
	})

	It("toggles gravity between ticks", func() {
		Expect(w.RemoveParticle("p")).To(BeTrue())
		Expect(w.AddParticle(dynamo.NewParticle("n", dynamo.Vec2{X: 80}, dynamo.Vec2{}, 1, 0, 10))).To(Succeed())

		w.Step()
		Expect(w.Particles()[0].Vel.Y).To(Equal(0.0))

		w.ToggleGravity()
		w.Step()
		Expect(w.Particles()[0].Vel.Y).To(BeNumerically("<", 0))
	})

	It("snapshots without sharing trails", func() {
		snap := w.Snapshot()
		w.Step()
		Expect(snap[0].Path.Len()).To(Equal(1))
		Expect(w.Particles()[0].Path.Len()).To(Equal(2))
	})

	It("trims a longer incoming trail to the world's path limit", func() {
		p := dynamo.NewParticle("long", dynamo.Vec2{}, dynamo.Vec2{X: 1}, 1, 1, 100)
		for i := 1; i <= 80; i++ {
			p.Path.Record(dynamo.Vec2{X: float64(i)})
		}
		Expect(p.Path.Len()).To(Equal(81))

		Expect(w.AddParticle(p)).To(Succeed())

		added := w.Particles()[1]
		Expect(added.Path.Max).To(Equal(tickConfig().MaxPath))
		Expect(added.Path.Len()).To(Equal(tickConfig().MaxPath))
		last, _ := added.Path.Last()
		Expect(last).To(Equal(dynamo.Vec2{X: 80}))
		Expect(p.Path.Len()).To(Equal(81))
	})
})
