package integrators

import (
	"fmt"

	"github.com/san-kum/attractors/internal/dynamo"
)

// Stepper advances a state by one output step.
type Stepper interface {
	Step(f dynamo.Field, x dynamo.State, t, dt float64) dynamo.State
}

// Advancer integrates across an interval with internal step control, carrying
// the suggested step size from one interval to the next.
type Advancer interface {
	Stepper
	Advance(f dynamo.Field, x dynamo.State, t0, t1, h float64) (dynamo.State, float64)
}

const (
	MethodEuler = "euler"
	MethodRK4   = "rk4"
	MethodRK45  = "rk45"

	DefaultMethod = MethodRK45
)

var methods = []struct {
	name    string
	summary string
	build   func(Tolerance) Stepper
}{
	{MethodRK45, "Dormand-Prince 5(4), adaptive internal steps on the output grid", func(tol Tolerance) Stepper { return NewRK45WithTolerance(tol) }},
	{MethodRK4, "classical Runge-Kutta, fixed step dt", func(Tolerance) Stepper { return NewRK4() }},
	{MethodEuler, "forward Euler, fixed step dt (comparison only)", func(Tolerance) Stepper { return NewEuler() }},
}

// New returns a fresh stepper for the named method. An empty name selects
// DefaultMethod; a zero tolerance selects DefaultTolerance.
func New(name string, tol Tolerance) (Stepper, error) {
	if name == "" {
		name = DefaultMethod
	}
	if tol == (Tolerance{}) {
		tol = DefaultTolerance()
	}
	if err := tol.Validate(); err != nil {
		return nil, err
	}
	for _, m := range methods {
		if m.name == name {
			return m.build(tol), nil
		}
	}
	return nil, fmt.Errorf("%w: %q (available: %v)", dynamo.ErrUnknownMethod, name, Methods())
}

// Methods lists the available method names, default first.
func Methods() []string {
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.name
	}
	return names
}

// Describe returns a one-line summary of a method, or "" if unknown.
func Describe(name string) string {
	for _, m := range methods {
		if m.name == name {
			return m.summary
		}
	}
	return ""
}
