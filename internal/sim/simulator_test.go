package sim

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/san-kum/attractors/internal/dynamo"
	"github.com/san-kum/attractors/internal/integrators"
	"github.com/san-kum/attractors/internal/physics"
)

func TestSolveGrid(t *testing.T) {
	tests := []struct {
		name     string
		settings dynamo.Settings
		want     int
	}{
		{"boundary", dynamo.Settings{TMax: 10, Dt: 0.1}, 100},
		{"uneven", dynamo.Settings{TMax: 10, Dt: 0.03}, 334},
		{"lorenz default", dynamo.Settings{TMax: 50, Dt: 0.01}, 5000},
	}

	sys := physics.NewLorenz()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := DefaultRun(sys)
			run.Settings = tt.settings

			tr, err := Solve(context.Background(), sys, run)
			if err != nil {
				t.Fatalf("solve failed: %v", err)
			}
			if tr.Len() != tt.want {
				t.Fatalf("expected %d points, got %d", tt.want, tr.Len())
			}
			if len(tr.States) != tt.want {
				t.Fatalf("expected %d states, got %d", tt.want, len(tr.States))
			}
			for i, ti := range tr.Times {
				if ti != float64(i)*tt.settings.Dt {
					t.Fatalf("time %d = %v, want %v", i, ti, float64(i)*tt.settings.Dt)
				}
			}
			if last := tr.Times[tr.Len()-1]; last >= tt.settings.TMax {
				t.Errorf("last sample %v should be below t_max", last)
			}
		})
	}
}

func TestSolveStartsAtInitialState(t *testing.T) {
	for _, sys := range []dynamo.System{physics.NewLorenz(), physics.NewRossler(), physics.NewThomas()} {
		t.Run(sys.Name(), func(t *testing.T) {
			run := DefaultRun(sys)
			run.Settings.TMax = 10

			tr, err := Solve(context.Background(), sys, run)
			if err != nil {
				t.Fatalf("solve failed: %v", err)
			}
			if tr.Times[0] != 0 {
				t.Errorf("first time = %v, want 0", tr.Times[0])
			}
			if tr.States[0] != sys.DefaultState() {
				t.Errorf("first state = %v, want %v", tr.States[0], sys.DefaultState())
			}
			if tr.System != sys.Name() {
				t.Errorf("trajectory system = %s", tr.System)
			}
		})
	}
}

func TestSolveValidation(t *testing.T) {
	sys := physics.NewLorenz()

	tests := []struct {
		name   string
		mutate func(*Run)
		want   error
	}{
		{"missing param", func(r *Run) { delete(r.Params, "rho") }, dynamo.ErrParameterMismatch},
		{"extra param", func(r *Run) { r.Params["gamma"] = 1 }, dynamo.ErrParameterMismatch},
		{"t_max too small", func(r *Run) { r.Settings.TMax = 1 }, dynamo.ErrInvalidConfiguration},
		{"dt too large", func(r *Run) { r.Settings.Dt = 0.5 }, dynamo.ErrInvalidConfiguration},
		{"NaN initial", func(r *Run) { r.Initial[1] = math.NaN() }, dynamo.ErrInvalidState},
		{"unknown method", func(r *Run) { r.Method = "magic" }, dynamo.ErrUnknownMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := DefaultRun(sys)
			tt.mutate(&run)

			tr, err := Solve(context.Background(), sys, run)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if tr != nil {
				t.Error("expected nil trajectory on error")
			}
		})
	}
}

func TestSolveDoesNotMutateInputs(t *testing.T) {
	sys := physics.NewRossler()
	run := DefaultRun(sys)
	run.Settings.TMax = 10

	tr, err := Solve(context.Background(), sys, run)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	tr.Params["a"] = 0.9
	if run.Params["a"] != 0.2 {
		t.Error("trajectory params should not alias the caller's map")
	}
}

func TestSolveDeterministic(t *testing.T) {
	for _, method := range integrators.Methods() {
		t.Run(method, func(t *testing.T) {
			sys := physics.NewThomas()
			run := DefaultRun(sys)
			run.Method = method
			run.Settings = dynamo.Settings{TMax: 50, Dt: 0.05}

			a, err := Solve(context.Background(), sys, run)
			if err != nil {
				t.Fatalf("solve failed: %v", err)
			}
			b, err := Solve(context.Background(), sys, run)
			if err != nil {
				t.Fatalf("solve failed: %v", err)
			}
			for i := range a.States {
				if a.States[i] != b.States[i] {
					t.Fatalf("state %d differs: %v vs %v", i, a.States[i], b.States[i])
				}
			}
		})
	}
}

func TestLorenzStaysBounded(t *testing.T) {
	sys := physics.NewLorenz()
	run := DefaultRun(sys)

	tr, err := Solve(context.Background(), sys, run)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	for i, s := range tr.States {
		if !s.IsValid() {
			t.Fatalf("non-finite state at %d: %v", i, s)
		}
		if math.Abs(s[0]) > 30 || math.Abs(s[1]) > 40 || s[2] < -5 || s[2] > 60 {
			t.Fatalf("state %d left the attractor: %v", i, s)
		}
	}
}

func TestMethodsAgreeOnShortHorizon(t *testing.T) {
	sys := physics.NewLorenz()
	f := sys.Bind(dynamo.Defaults(sys))
	s := dynamo.Settings{TMax: 1.0, Dt: 0.01}

	_, adaptive, err := Integrate(context.Background(), f, integrators.NewRK45(), sys.DefaultState(), s)
	if err != nil {
		t.Fatal(err)
	}
	_, fixed, err := Integrate(context.Background(), f, integrators.NewRK4(), sys.DefaultState(), s)
	if err != nil {
		t.Fatal(err)
	}

	if len(adaptive) != 100 || len(fixed) != 100 {
		t.Fatalf("expected 100 points, got %d and %d", len(adaptive), len(fixed))
	}
	for i := range adaptive {
		if !adaptive[i].IsValid() {
			t.Fatalf("non-finite state at %d", i)
		}
		if d := adaptive[i].Sub(fixed[i]).Norm(); d > 1e-3*(1+adaptive[i].Norm()) {
			t.Fatalf("methods diverge at %d by %e", i, d)
		}
	}
}

func TestIntegrateRequiresPositiveSettings(t *testing.T) {
	f := physics.Lorenz{Sigma: 10, Rho: 28, Beta: 8.0 / 3.0}
	for _, s := range []dynamo.Settings{{TMax: 0, Dt: 0.1}, {TMax: 1, Dt: -0.1}, {TMax: math.NaN(), Dt: 0.1}} {
		if _, _, err := Integrate(context.Background(), f, integrators.NewRK4(), dynamo.State{1, 1, 1}, s); !errors.Is(err, dynamo.ErrInvalidConfiguration) {
			t.Errorf("settings %+v: expected ErrInvalidConfiguration, got %v", s, err)
		}
	}
}

func TestSolveCanceled(t *testing.T) {
	sys := physics.NewLorenz()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Solve(ctx, sys, DefaultRun(sys))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	var se *StepError
	if !errors.As(err, &se) || se.Step != 0 {
		t.Errorf("expected StepError at step 0, got %v", err)
	}
}

func TestSolveDivergenceIsNotAnError(t *testing.T) {
	sys := physics.NewLorenz()
	for _, method := range integrators.Methods() {
		t.Run(method, func(t *testing.T) {
			run := DefaultRun(sys)
			run.Method = method
			run.Params["sigma"] = 1e200
			run.Settings = dynamo.Settings{TMax: 10, Dt: 0.1}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			tr, err := Solve(ctx, sys, run)
			if err != nil {
				t.Fatalf("divergence should not fail the solve: %v", err)
			}
			if tr.Len() != 100 {
				t.Fatalf("expected full grid, got %d", tr.Len())
			}
			if tr.Final().IsValid() {
				t.Errorf("expected non-finite tail, got %v", tr.Final())
			}
		})
	}
}

func TestSolveStiffFieldFinishes(t *testing.T) {
	sys := physics.NewLorenz()
	run := DefaultRun(sys)
	run.Method = integrators.MethodRK45
	run.Params["sigma"] = 1e9
	run.Settings = dynamo.Settings{TMax: 10, Dt: 0.1}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	start := time.Now()
	tr, err := Solve(ctx, sys, run)
	if err != nil {
		t.Fatalf("stiff solve did not finish: %v", err)
	}
	if tr.Len() != 100 {
		t.Fatalf("expected full grid, got %d", tr.Len())
	}
	t.Logf("sigma=1e9 solved in %v", time.Since(start))
}
