// Package integrators advances a single charged particle by one fixed tick
// under a field held constant for that tick.
//
// [Boris] is the production stepper: half electric kick, exact magnetic
// rotation, half electric kick, then a separate gravity kick and an explicit
// position update with the new velocity. [Euler] and [RK4] exist for
// comparison runs; neither preserves speed in a pure magnetic field.
package integrators
