package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/attractors/internal/dynamo"
	"github.com/san-kum/attractors/internal/integrators"
	"github.com/san-kum/attractors/internal/physics"
	"github.com/san-kum/attractors/internal/sim"
)

func baseRun(sys dynamo.System) sim.Run {
	run := sim.DefaultRun(sys)
	run.Method = integrators.MethodRK4
	run.Settings = dynamo.Settings{TMax: 10, Dt: 0.01}
	return run
}

func TestGridSearch(t *testing.T) {
	sys := physics.NewLorenz()
	tests := []struct {
		name     string
		maximize bool
		wantRho  float64
	}{
		{"minimize", false, 5},
		{"maximize", true, 28},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGridSearch([]string{"rho", "beta"}, [][]float64{{5, 28}, {8.0 / 3.0}})
			g.Maximize = tt.maximize

			best, err := g.Search(context.Background(), sys, baseRun(sys), "max_radius")
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}
			if best.Evaluated != 2 {
				t.Errorf("evaluated %d runs, want 2", best.Evaluated)
			}
			if best.Params["rho"] != tt.wantRho {
				t.Errorf("best rho = %v, want %v (value %v)", best.Params["rho"], tt.wantRho, best.Value)
			}
			if best.Params["sigma"] != 10 {
				t.Errorf("parameters off the grid should keep their base values, got %v", best.Params)
			}
		})
	}
}

func TestGridSearchErrors(t *testing.T) {
	sys := physics.NewLorenz()
	ctx := context.Background()

	_, err := NewGridSearch([]string{"gamma"}, [][]float64{{1}}).Search(ctx, sys, baseRun(sys), "max_radius")
	if !errors.Is(err, dynamo.ErrParameterMismatch) {
		t.Errorf("expected ErrParameterMismatch, got %v", err)
	}

	if _, err := NewGridSearch([]string{"rho"}, nil).Search(ctx, sys, baseRun(sys), "max_radius"); err == nil {
		t.Error("mismatched names and ranges should be rejected")
	}

	if _, err := NewGridSearch([]string{"rho"}, [][]float64{{10}}).Search(ctx, sys, baseRun(sys), "energy"); err == nil {
		t.Error("an unknown metric should be an error")
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := NewGridSearch([]string{"rho"}, [][]float64{{10}}).Search(canceled, sys, baseRun(sys), "max_radius"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestParseAxis(t *testing.T) {
	name, values, err := ParseAxis("rho = 20:30:5")
	if err != nil {
		t.Fatal(err)
	}
	if name != "rho" || len(values) != 5 || values[0] != 20 || values[2] != 25 || values[4] != 30 {
		t.Errorf("ParseAxis = %s %v", name, values)
	}

	for _, bad := range []string{"rho", "=1:2:3", "rho=1:2", "rho=a:2:3", "rho=1:b:3", "rho=1:2:0", "rho=1:2:x"} {
		if _, _, err := ParseAxis(bad); err == nil {
			t.Errorf("ParseAxis(%q) should fail", bad)
		}
	}
}
