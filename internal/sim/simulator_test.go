package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/integrators"
	"github.com/san-kum/lorentz/internal/sim"
)

type countingMetric struct{ n int }

func (c *countingMetric) Name() string                           { return "count" }
func (c *countingMetric) Observe(_ []dynamo.Particle, _ float64) { c.n++ }
func (c *countingMetric) Value() float64                         { return float64(c.n) }
func (c *countingMetric) Reset()                                 { c.n = 0 }

var _ = Describe("Simulator", func() {
	var (
		s         *sim.Simulator
		regions   []field.Region
		particles []dynamo.Particle
		cfg       dynamo.Config
	)

	BeforeEach(func() {
		s = sim.New(integrators.NewBoris())
		regions = []field.Region{{X: -100, Y: -100, Width: 200, Height: 200, Bz: 5}}
		particles = []dynamo.Particle{dynamo.NewParticle("p", dynamo.Vec2{}, dynamo.Vec2{X: 100}, 1, 1, 100)}
		cfg = dynamo.DefaultConfig()
		cfg.Duration = 1.0
	})

	It("records the initial frame and one frame per tick", func() {
		result, err := s.Run(context.Background(), regions, particles, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.TicksTaken).To(Equal(100))
		Expect(result.Frames).To(HaveLen(101))
		Expect(result.Frames[0].Time).To(Equal(0.0))
		Expect(result.Frames[100].Time).To(BeNumerically("~", 1.0, 1e-12))
		Expect(result.SpeedDrift).To(BeNumerically("<", 1e-12))
		Expect(particles[0].Pos).To(Equal(dynamo.Vec2{}))
	})

	It("samples frames at the configured stride and always keeps the last", func() {
		cfg.SampleEvery = 30
		result, err := s.Run(context.Background(), regions, particles, cfg)
		Expect(err).NotTo(HaveOccurred())
		ticks := make([]int, len(result.Frames))
		for i, f := range result.Frames {
			ticks[i] = f.Tick
		}
		Expect(ticks).To(Equal([]int{0, 30, 60, 90, 100}))
	})

	It("collects metrics", func() {
		m := &countingMetric{}
		s.AddMetric(m)
		result, err := s.Run(context.Background(), regions, particles, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Metrics).To(HaveKeyWithValue("count", 100.0))
	})

	It("rejects invalid configs", func() {
		for _, bad := range []dynamo.Config{
			{Dt: 0, Duration: 1},
			{Dt: -0.1, Duration: 1},
			{Dt: 0.1, Duration: 0},
			{Dt: math.NaN(), Duration: 1},
		} {
			_, err := s.Run(context.Background(), regions, particles, bad)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		}
	})

	It("rejects zero mass before integrating", func() {
		particles = append(particles, dynamo.NewParticle("z", dynamo.Vec2{}, dynamo.Vec2{}, 0, 1, 10))
		_, err := s.Run(context.Background(), regions, particles, cfg)
		Expect(errors.Is(err, dynamo.ErrNonPositiveMass)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("particles[1]"))
	})

	It("stops on cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		result, err := s.Run(ctx, regions, particles, cfg)
		Expect(errors.Is(err, dynamo.ErrContextCanceled)).To(BeTrue())
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(result.TicksTaken).To(Equal(0))
	})

	It("stops at the first non-finite state", func() {
		bad := dynamo.NewParticle("hot", dynamo.Vec2{}, dynamo.Vec2{X: 1e308}, 1, 1, 10)
		cfg.Dt = 1e300
		cfg.Duration = 1e301
		result, err := s.Run(context.Background(), nil, []dynamo.Particle{bad}, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Errors).To(HaveLen(1))
		var simErr *dynamo.SimulationError
		Expect(errors.As(result.Errors[0], &simErr)).To(BeTrue())
		Expect(simErr.Particle).To(Equal("hot"))
	})

	It("stops when the callback declines", func() {
		calls := 0
		err := s.RunWithCallback(context.Background(), regions, particles, cfg, func(ps []dynamo.Particle, t float64) bool {
			calls++
			return calls < 10
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal(10))
	})
})
