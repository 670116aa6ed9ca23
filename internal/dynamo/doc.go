// Package dynamo provides the core primitives for charged-particle motion.
//
// The package defines the fundamental types shared by every other package:
//
//   - [Vec2]: planar vector used for positions, velocities and electric fields
//   - [Field]: superposed electric vector and out-of-plane magnetic scalar at a point
//   - [Particle]: charged point mass with an immutable [Kinematics] snapshot for reset
//   - [Path]: bounded trail of past positions, oldest samples dropped first
//   - [Integrator]: single-particle stepper under a sampled field
//   - [Sampler]: field lookup over a set of regions
//
// # Example
//
//	p := dynamo.NewParticle("p0", dynamo.Vec2{}, dynamo.Vec2{X: 100}, 1, 1, 500)
//	f := regions.Sample(p.Pos)
//	k := integ.Step(p.Kinematics(), p.Charge, p.Mass, f, 0, 0.01)
//
// # Thread Safety
//
// Particles are plain values. A tick may advance distinct particles from
// different goroutines; see [ParallelFor].
package dynamo
