// Package physics provides the strange attractors the solver knows about.
//
// Each attractor comes in two parts: a system type implementing
// [dynamo.System] that describes defaults, parameter ranges and equations,
// and a small value type holding bound coefficients that implements
// [dynamo.Field]:
//
//   - [LorenzSystem] / [Lorenz]: butterfly attractor
//   - [RosslerSystem] / [Rossler]: single-lobe spiral attractor
//   - [ThomasSystem] / [Thomas]: cyclically symmetric attractor
//
// # Binding Parameters
//
// Parameter names are resolved once when binding, so the integrator's inner
// loop only touches struct fields:
//
//	sys := physics.NewLorenz()
//	f := sys.Bind(dynamo.Defaults(sys))
//	dx := f.Derive(sys.DefaultState(), 0)
package physics
