// Package dynamo provides the core primitives for three-variable autonomous
// dynamical systems.
//
// The package defines the shared types the rest of the module works with:
//
//   - [State]: the (x, y, z) state vector
//   - [Params] and [Param]: a parameter set and its per-name schema
//   - [System]: immutable descriptor of an attractor (defaults, ranges, equations)
//   - [Field]: a vector field bound to concrete parameter values
//   - [Settings]: time horizon and output step of a solve
//   - [Trajectory]: the sampled output of a solve
//
// # Example
//
//	sys := physics.NewLorenz()
//	p := dynamo.Defaults(sys)
//	d := dynamo.Derive(sys, sys.DefaultState(), 0, p)
//
// # Errors
//
// Validation failures wrap one of [ErrInvalidState], [ErrParameterMismatch],
// [ErrInvalidConfiguration] or [ErrUnknownSystem] and are meant to be tested
// with [errors.Is]. Numerical divergence is never an error: NaN and Inf values
// propagate into the trajectory.
package dynamo
