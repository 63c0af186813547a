// Package physics computes gravitational force contributions over an
// ecs.World and the conserved quantities used to check a run.
//
// Solvers only accumulate into [component.Physics].Force. Positions and
// velocities are advanced by the integrators package, after every force for
// the tick has been accumulated:
//
//	physics.PairwiseNBody(w, q, params)
//	integrators.SymplecticEuler(w, q, dt)
//
// Diagnostics ([Energy], [Momentum], [AngularMomentum]) are read-only.
package physics
