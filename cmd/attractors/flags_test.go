package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/attractors/internal/dynamo"
	"github.com/san-kum/attractors/internal/integrators"
)

func newRunCmd(t *testing.T, flags ...string) *cobra.Command {
	t.Helper()
	tMax, dt, initial, method = 0, 0, "", ""
	paramFlags, configFile, preset = nil, "", ""

	cmd := &cobra.Command{Use: "run"}
	addRunFlags(cmd)
	if err := cmd.ParseFlags(flags); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd
}

func TestParseParams(t *testing.T) {
	p, err := parseParams([]string{"rho=28", " sigma = 10.5 "})
	if err != nil {
		t.Fatal(err)
	}
	if p["rho"] != 28 || p["sigma"] != 10.5 || len(p) != 2 {
		t.Errorf("parseParams = %v", p)
	}

	for _, bad := range []string{"rho", "=1", "rho=x"} {
		if _, err := parseParams([]string{bad}); err == nil {
			t.Errorf("parseParams(%q) should fail", bad)
		}
	}
}

func TestParseState(t *testing.T) {
	s, err := parseState("1, -2.5,3e-2")
	if err != nil {
		t.Fatal(err)
	}
	if len(s) != 3 || s[0] != 1 || s[1] != -2.5 || s[2] != 0.03 {
		t.Errorf("parseState = %v", s)
	}
	if _, err := parseState("1,a,3"); err == nil {
		t.Error("non-numeric state should fail")
	}
}

func TestParseAxis(t *testing.T) {
	for i, name := range []string{"x", "Y", " z "} {
		got, err := parseAxis(name)
		if err != nil || got != i {
			t.Errorf("parseAxis(%q) = %d, %v", name, got, err)
		}
	}
	if _, err := parseAxis("w"); err == nil {
		t.Error("unknown axis should fail")
	}
}

func TestRunConfigDefaults(t *testing.T) {
	sys, run, err := runConfig(newRunCmd(t), []string{"rossler"})
	if err != nil {
		t.Fatal(err)
	}
	if sys.Name() != "Rössler" {
		t.Errorf("resolved %s", sys.Name())
	}
	if run.Method != integrators.DefaultMethod || run.Params["c"] != 5.7 {
		t.Errorf("unexpected defaults %+v", run)
	}
}

func TestRunConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	body := "system: Lorenz\nmethod: euler\nt_max: 40\nparams:\n  rho: 20\n  sigma: 12\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newRunCmd(t,
		"--preset", "steady",
		"--config", path,
		"--method", "rk4",
		"--x0", "2,3,4",
		"-p", "sigma=9",
	)
	sys, run, err := runConfig(cmd, nil)
	if err != nil {
		t.Fatal(err)
	}
	if sys.Name() != "Lorenz" {
		t.Fatalf("system should come from the config file, got %s", sys.Name())
	}
	if run.Method != integrators.MethodRK4 {
		t.Errorf("flag should override the file method, got %s", run.Method)
	}
	if run.Settings.TMax != 40 {
		t.Errorf("file should override the preset t_max, got %g", run.Settings.TMax)
	}
	if run.Params["rho"] != 20 || run.Params["sigma"] != 9 {
		t.Errorf("unexpected params %v", run.Params)
	}
	if run.Initial != (dynamo.State{2, 3, 4}) {
		t.Errorf("unexpected initial state %v", run.Initial)
	}
}

func TestRunConfigErrors(t *testing.T) {
	if _, _, err := runConfig(newRunCmd(t), nil); err == nil {
		t.Error("missing system should fail")
	}
	if _, _, err := runConfig(newRunCmd(t), []string{"chua"}); !errors.Is(err, dynamo.ErrUnknownSystem) {
		t.Errorf("expected ErrUnknownSystem, got %v", err)
	}
	if _, _, err := runConfig(newRunCmd(t, "--preset", "nope"), []string{"lorenz"}); err == nil {
		t.Error("unknown preset should fail")
	}
	if _, _, err := runConfig(newRunCmd(t, "-p", "rho=1000"), []string{"lorenz"}); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
	if _, _, err := runConfig(newRunCmd(t, "--x0", "1,2"), []string{"thomas"}); !errors.Is(err, dynamo.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if _, _, err := runConfig(newRunCmd(t, "--dt", "0.5"), []string{"thomas"}); !errors.Is(err, dynamo.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
	for _, zero := range [][]string{{"--tmax", "0"}, {"--dt", "0"}} {
		if _, _, err := runConfig(newRunCmd(t, zero...), []string{"lorenz"}); !errors.Is(err, dynamo.ErrInvalidConfiguration) {
			t.Errorf("%v: expected ErrInvalidConfiguration, got %v", zero, err)
		}
	}
	if _, _, err := runConfig(newRunCmd(t, "--method", "leapfrog"), []string{"thomas"}); !errors.Is(err, dynamo.ErrUnknownMethod) {
		t.Errorf("expected ErrUnknownMethod, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "thomas.yaml")
	if err := os.WriteFile(path, []byte("system: Thomas\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runConfig(newRunCmd(t, "--config", path), []string{"lorenz"}); err == nil {
		t.Error("a config for another system should fail")
	}

	zeroPath := filepath.Join(t.TempDir(), "zero.yaml")
	if err := os.WriteFile(zeroPath, []byte("system: Lorenz\nt_max: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runConfig(newRunCmd(t, "--preset", "steady", "--config", zeroPath), nil); !errors.Is(err, dynamo.ErrInvalidConfiguration) {
		t.Errorf("t_max: 0 in a config file should fail, got %v", err)
	}
}
