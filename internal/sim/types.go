package sim

import (
	"fmt"

	"github.com/san-kum/attractors/internal/dynamo"
	"github.com/san-kum/attractors/internal/integrators"
)

// Run holds the per-call inputs of a solve.
type Run struct {
	Params    dynamo.Params
	Initial   dynamo.State
	Settings  dynamo.Settings
	Method    string
	Tolerance integrators.Tolerance
}

// DefaultRun returns the documented defaults of sys with the default method.
func DefaultRun(sys dynamo.System) Run {
	return Run{
		Params:    dynamo.Defaults(sys),
		Initial:   sys.DefaultState(),
		Settings:  sys.DefaultSettings(),
		Method:    integrators.DefaultMethod,
		Tolerance: integrators.DefaultTolerance(),
	}
}

// StepError reports where along the grid a solve stopped.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
