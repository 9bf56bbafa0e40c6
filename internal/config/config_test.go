package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/attractors/internal/dynamo"
	"github.com/san-kum/attractors/internal/integrators"
	"github.com/san-kum/attractors/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig(physics.NewThomas())

	if cfg.System != "Thomas" {
		t.Errorf("expected system Thomas, got %s", cfg.System)
	}
	if *cfg.TMax != 500 || *cfg.Dt != 0.05 {
		t.Errorf("unexpected settings: t_max=%v dt=%v", *cfg.TMax, *cfg.Dt)
	}
	if len(cfg.InitialState) != 3 || cfg.InitialState[2] != -0.01 {
		t.Errorf("unexpected initial state: %v", cfg.InitialState)
	}
	if cfg.Params["b"] != 0.208186 {
		t.Errorf("unexpected params: %v", cfg.Params)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := DefaultConfig(physics.NewLorenz())
	cfg.Params["rho"] = 35

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.System != "Lorenz" || loaded.Method != integrators.DefaultMethod {
		t.Errorf("unexpected header: %+v", loaded)
	}
	if loaded.Params["rho"] != 35 || loaded.Params["sigma"] != 10 {
		t.Errorf("unexpected params: %v", loaded.Params)
	}
	if loaded.Tolerance == nil || *loaded.Tolerance != integrators.DefaultTolerance() {
		t.Errorf("unexpected tolerance: %v", loaded.Tolerance)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestConfigRun(t *testing.T) {
	sys := physics.NewLorenz()

	run, err := (&Config{System: "Lorenz", Params: map[string]float64{"rho": 14}, TMax: Float64(20)}).Run(sys)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if run.Params["rho"] != 14 || run.Params["sigma"] != 10 {
		t.Errorf("partial params should overlay defaults: %v", run.Params)
	}
	if run.Settings != (dynamo.Settings{TMax: 20, Dt: 0.01}) {
		t.Errorf("unexpected settings: %+v", run.Settings)
	}
	if run.Initial != sys.DefaultState() {
		t.Errorf("unexpected initial state: %v", run.Initial)
	}
}

func TestConfigRunRejects(t *testing.T) {
	sys := physics.NewLorenz()

	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"out of range param", Config{Params: map[string]float64{"rho": 150}}, dynamo.ErrParameterBounds},
		{"unknown param", Config{Params: map[string]float64{"gamma": 1}}, dynamo.ErrParameterMismatch},
		{"short state", Config{InitialState: []float64{1, 2}}, dynamo.ErrInvalidState},
		{"t_max too large", Config{TMax: Float64(5000)}, dynamo.ErrInvalidConfiguration},
		{"dt too small", Config{Dt: Float64(0.0001)}, dynamo.ErrInvalidConfiguration},
		{"explicit zero t_max", Config{TMax: Float64(0)}, dynamo.ErrInvalidConfiguration},
		{"explicit zero dt", Config{Dt: Float64(0)}, dynamo.ErrInvalidConfiguration},
		{"unusable tolerance", Config{Tolerance: &integrators.Tolerance{Rel: 1e-30}}, dynamo.ErrInvalidConfiguration},
		{"unknown method", Config{Method: "leapfrog"}, dynamo.ErrUnknownMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.cfg.Run(sys); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := DefaultConfig(physics.NewRossler())
	merged := base.Merge(&Config{Dt: Float64(0.02), Params: map[string]float64{"c": 4}})

	if *merged.Dt != 0.02 || *merged.TMax != 100 {
		t.Errorf("unexpected settings: %+v", merged)
	}
	if merged.Params["c"] != 4 || merged.Params["a"] != 0.2 {
		t.Errorf("unexpected params: %v", merged.Params)
	}
	if base.Params["c"] != 5.7 || *base.Dt != 0.01 {
		t.Error("Merge should not modify the receiver")
	}
	if base.Merge(nil).System != "Rössler" {
		t.Error("Merge(nil) should copy the receiver")
	}
}

func TestLoadKeepsExplicitZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zero.yaml")
	if err := os.WriteFile(path, []byte("system: Lorenz\nt_max: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.TMax == nil || *cfg.TMax != 0 || cfg.Dt != nil {
		t.Fatalf("t_max: 0 should be kept and dt left unset, got %v %v", cfg.TMax, cfg.Dt)
	}

	var ce *dynamo.ConfigurationError
	if _, err := cfg.Run(physics.NewLorenz()); !errors.As(err, &ce) || ce.Field != "t_max" {
		t.Errorf("expected a t_max ConfigurationError, got %v", err)
	}
}
