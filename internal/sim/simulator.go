package sim

import (
	"context"
	"math"

	"github.com/san-kum/attractors/internal/dynamo"
	"github.com/san-kum/attractors/internal/integrators"
)

// pollEvery is how many fixed-step grid points pass between context checks.
// Adaptive intervals are checked one by one.
const pollEvery = 1024

// Solve integrates sys from run.Initial over the grid t_i = i*dt, t_i < t_max.
// Settings must lie within the documented bounds and run.Params must name
// exactly the parameters of sys. Divergence is not an error: once the field
// yields NaN or Inf the remaining samples carry it.
func Solve(ctx context.Context, sys dynamo.System, run Run) (*dynamo.Trajectory, error) {
	if err := run.Settings.Validate(); err != nil {
		return nil, err
	}
	if !run.Initial.IsValid() {
		return nil, &dynamo.StateError{Values: run.Initial.Slice(), Reason: "non-finite value"}
	}
	if err := dynamo.CheckParams(sys, run.Params); err != nil {
		return nil, err
	}
	stepper, err := integrators.New(run.Method, run.Tolerance)
	if err != nil {
		return nil, err
	}

	params := run.Params.Clone()
	times, states, err := Integrate(ctx, sys.Bind(params), stepper, run.Initial, run.Settings)
	if err != nil {
		return nil, err
	}

	return &dynamo.Trajectory{
		System: sys.Name(),
		Params: params,
		Dt:     run.Settings.Dt,
		Times:  times,
		States: states,
	}, nil
}

// Integrate samples f on the grid of s without the interactive bounds of
// Settings.Validate; it only needs a positive, finite horizon and step.
func Integrate(ctx context.Context, f dynamo.Field, stepper integrators.Stepper, x0 dynamo.State, s dynamo.Settings) ([]float64, []dynamo.State, error) {
	if err := validatePositive(s); err != nil {
		return nil, nil, err
	}

	n := s.Points()
	times := make([]float64, n)
	states := make([]dynamo.State, n)

	adv, adaptive := stepper.(integrators.Advancer)
	x := x0
	h := s.Dt

	for i := 0; i < n; i++ {
		t := float64(i) * s.Dt
		if adaptive || i%pollEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, &StepError{Step: i, Time: t, Wrapped: err}
			}
		}

		times[i] = t
		states[i] = x
		if i == n-1 {
			break
		}

		if adaptive {
			x, h = adv.Advance(f, x, t, float64(i+1)*s.Dt, h)
		} else {
			x = stepper.Step(f, x, t, s.Dt)
		}
	}

	return times, states, nil
}

func validatePositive(s dynamo.Settings) error {
	if !(s.TMax > 0) || math.IsInf(s.TMax, 0) {
		return &dynamo.ConfigurationError{Field: "t_max", Value: s.TMax, Min: 0, Max: math.Inf(1)}
	}
	if !(s.Dt > 0) || math.IsInf(s.Dt, 0) {
		return &dynamo.ConfigurationError{Field: "dt", Value: s.Dt, Min: 0, Max: math.Inf(1)}
	}
	return nil
}
