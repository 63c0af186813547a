// Package dynamo provides the shared primitives of the gravity simulation.
//
//   - [Vec3]: engine-space vector (y is up)
//   - [Config]: run parameters (timestep, duration, sampling)
//   - [Result]: sampled trajectories and metrics of a finished run
//
// # Example
//
//	sc, _ := scene.Load(cfg, log)
//	result, _ := sim.New(log).Run(ctx, sc, dynamo.DefaultConfig())
//
// # Thread Safety
//
// Nothing in this module is safe for concurrent mutation. A scene is owned
// by the goroutine that steps it; [sim.Ensemble] runs independent scenes.
package dynamo
