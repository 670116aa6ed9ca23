// Package analysis turns recorded trajectories into numbers that can be
// checked against closed-form gyromotion.
//
//   - [GyroRadius], [CyclotronFrequency], [CyclotronPeriod], [DriftVelocity]:
//     textbook values for a uniform field
//   - [PowerSpectrum], [DominantFrequency]: spectral estimate of a sampled signal
//   - [GeneratePortrait]: velocity-space (hodograph) or position trace of one particle
//   - [GenerateCrossings]: positions where a particle's vy turns positive,
//     one per gyration, giving the guiding-centre drift
//
// # Checking an orbit
//
//	f := analysis.DominantFrequency(vx, dt)
//	want := analysis.CyclotronFrequency(q, m, bz)
//	if math.Abs(f-want)/want > 0.05 {
//	    // integrator or dt is off
//	}
package analysis
