package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/attractors/internal/dynamo"
	"github.com/san-kum/attractors/internal/integrators"
	"github.com/san-kum/attractors/internal/sim"
)

// settleFraction of the horizon is integrated before separations count.
const settleFraction = 0.2

// LyapunovExponent estimates the largest Lyapunov exponent of sys along the
// orbit of run. A positive value indicates chaos.
//
// Algorithm:
// 1. Settle onto the attractor for the first fifth of run.Settings.TMax
// 2. Run a second trajectory offset by perturbation along x
// 3. After every step add ln(d/d0) and pull the offset back to length d0
// 4. λ ≈ Σ ln(d/d0) / (steps * dt)
//
// It returns NaN if either trajectory stops being finite.
func LyapunovExponent(ctx context.Context, sys dynamo.System, run sim.Run, perturbation float64) (float64, error) {
	s := run.Settings
	if err := checkPositive("t_max", s.TMax); err != nil {
		return 0, err
	}
	if err := checkPositive("dt", s.Dt); err != nil {
		return 0, err
	}
	if !(perturbation > 0) || math.IsInf(perturbation, 0) {
		return 0, fmt.Errorf("%w: perturbation must be positive, got %g", dynamo.ErrInvalidConfiguration, perturbation)
	}
	if !run.Initial.IsValid() {
		return 0, &dynamo.StateError{Values: run.Initial.Slice(), Reason: "non-finite value"}
	}
	if err := dynamo.CheckParams(sys, run.Params); err != nil {
		return 0, err
	}
	stepper, err := integrators.New(run.Method, run.Tolerance)
	if err != nil {
		return 0, err
	}

	f := sys.Bind(run.Params.Clone())
	n := s.Points()
	poll := 1024
	if _, ok := stepper.(integrators.Advancer); ok {
		poll = 1
	}
	settle := int(float64(n) * settleFraction)

	x := run.Initial
	t := 0.0
	for i := 0; i < settle; i++ {
		if i%poll == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		x = stepper.Step(f, x, t, s.Dt)
		t += s.Dt
	}

	xp := x
	xp[0] += perturbation

	sumLog := 0.0
	count := 0
	for i := settle; i < n; i++ {
		if i%poll == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		x = stepper.Step(f, x, t, s.Dt)
		xp = stepper.Step(f, xp, t, s.Dt)
		t += s.Dt

		if !x.IsValid() || !xp.IsValid() {
			return math.NaN(), nil
		}

		sep := xp.Sub(x).Norm()
		if sep == 0 {
			xp = x
			xp[0] += perturbation
			count++
			continue
		}
		sumLog += math.Log(sep / perturbation)
		count++

		// renormalize
		xp = x.AddScaled(perturbation/sep, xp.Sub(x))
	}

	if count == 0 {
		return 0, nil
	}
	return sumLog / (float64(count) * s.Dt), nil
}

func checkPositive(field string, v float64) error {
	if v > 0 && !math.IsInf(v, 0) {
		return nil
	}
	return &dynamo.ConfigurationError{Field: field, Value: v, Min: 0, Max: math.Inf(1)}
}
