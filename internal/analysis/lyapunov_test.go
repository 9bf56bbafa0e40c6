package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/attractors/internal/dynamo"
	"github.com/san-kum/attractors/internal/integrators"
	"github.com/san-kum/attractors/internal/physics"
	"github.com/san-kum/attractors/internal/sim"
)

func lorenzRun(rho float64) sim.Run {
	sys := physics.NewLorenz()
	run := sim.DefaultRun(sys)
	run.Method = integrators.MethodRK4
	run.Params["rho"] = rho
	run.Settings = dynamo.Settings{TMax: 100, Dt: 0.01}
	return run
}

func TestLyapunovExponent(t *testing.T) {
	tests := []struct {
		name     string
		rho      float64
		min, max float64
	}{
		{"chaotic", 28, 0.5, 1.5},
		{"steady", 14, -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lambda, err := LyapunovExponent(context.Background(), physics.NewLorenz(), lorenzRun(tt.rho), 1e-8)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if lambda <= tt.min || lambda >= tt.max {
				t.Errorf("lambda = %f, want in (%v, %v)", lambda, tt.min, tt.max)
			}
		})
	}
}

func TestLyapunovExponentValidation(t *testing.T) {
	sys := physics.NewLorenz()
	ctx := context.Background()

	if _, err := LyapunovExponent(ctx, sys, lorenzRun(28), 0); !errors.Is(err, dynamo.ErrInvalidConfiguration) {
		t.Errorf("zero perturbation: got %v", err)
	}

	run := lorenzRun(28)
	delete(run.Params, "beta")
	if _, err := LyapunovExponent(ctx, sys, run, 1e-8); !errors.Is(err, dynamo.ErrParameterMismatch) {
		t.Errorf("missing param: got %v", err)
	}

	run = lorenzRun(28)
	run.Settings.Dt = 0
	var ce *dynamo.ConfigurationError
	if _, err := LyapunovExponent(ctx, sys, run, 1e-8); !errors.As(err, &ce) || ce.Field != "dt" {
		t.Errorf("zero dt: got %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := LyapunovExponent(canceled, sys, lorenzRun(28), 1e-8); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled: got %v", err)
	}
}
