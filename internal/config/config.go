package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/attractors/internal/dynamo"
	"github.com/san-kum/attractors/internal/integrators"
	"github.com/san-kum/attractors/internal/sim"
)

// Config is a run file. Omitted fields fall back to the system's defaults.
// TMax and Dt are pointers so that an explicit 0 reaches validation.
type Config struct {
	System       string                 `yaml:"system"`
	Method       string                 `yaml:"method,omitempty"`
	TMax         *float64               `yaml:"t_max,omitempty"`
	Dt           *float64               `yaml:"dt,omitempty"`
	InitialState []float64              `yaml:"initial_state,omitempty"`
	Params       map[string]float64     `yaml:"params,omitempty"`
	Tolerance    *integrators.Tolerance `yaml:"tolerance,omitempty"`
}

// DefaultConfig spells out every default of sys.
func DefaultConfig(sys dynamo.System) *Config {
	s := sys.DefaultSettings()
	tol := integrators.DefaultTolerance()
	return &Config{
		System:       sys.Name(),
		Method:       integrators.DefaultMethod,
		TMax:         Float64(s.TMax),
		Dt:           Float64(s.Dt),
		InitialState: sys.DefaultState().Slice(),
		Params:       dynamo.Defaults(sys),
		Tolerance:    &tol,
	}
}

// Float64 returns a pointer to v, for the optional settings of a Config.
func Float64(v float64) *float64 { return &v }

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	if c.InitialState != nil {
		out.InitialState = append([]float64(nil), c.InitialState...)
	}
	if c.Params != nil {
		out.Params = make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			out.Params[k] = v
		}
	}
	if c.Tolerance != nil {
		tol := *c.Tolerance
		out.Tolerance = &tol
	}
	if c.TMax != nil {
		out.TMax = Float64(*c.TMax)
	}
	if c.Dt != nil {
		out.Dt = Float64(*c.Dt)
	}
	return &out
}

// Merge overlays the set fields of other onto a copy of c.
func (c *Config) Merge(other *Config) *Config {
	out := c.Clone()
	if other == nil {
		return out
	}
	if other.System != "" {
		out.System = other.System
	}
	if other.Method != "" {
		out.Method = other.Method
	}
	if other.TMax != nil {
		out.TMax = Float64(*other.TMax)
	}
	if other.Dt != nil {
		out.Dt = Float64(*other.Dt)
	}
	if other.InitialState != nil {
		out.InitialState = append([]float64(nil), other.InitialState...)
	}
	if len(other.Params) > 0 && out.Params == nil {
		out.Params = make(map[string]float64, len(other.Params))
	}
	for k, v := range other.Params {
		out.Params[k] = v
	}
	if other.Tolerance != nil {
		tol := *other.Tolerance
		out.Tolerance = &tol
	}
	return out
}

// Run converts c into solver inputs for sys. Parameters not named in c keep
// their defaults. Unlike the solver, Run also rejects parameter values outside
// their declared ranges, since a Config is user input.
func (c *Config) Run(sys dynamo.System) (sim.Run, error) {
	run := sim.DefaultRun(sys)

	if c.Method != "" {
		run.Method = c.Method
	}
	if c.Tolerance != nil {
		run.Tolerance = *c.Tolerance
	}
	if c.TMax != nil {
		run.Settings.TMax = *c.TMax
	}
	if c.Dt != nil {
		run.Settings.Dt = *c.Dt
	}
	if err := run.Settings.Validate(); err != nil {
		return sim.Run{}, err
	}

	if c.InitialState != nil {
		x0, err := dynamo.NewState(c.InitialState)
		if err != nil {
			return sim.Run{}, err
		}
		run.Initial = x0
	}

	for k, v := range c.Params {
		run.Params[k] = v
	}
	if err := dynamo.CheckRanges(sys, run.Params); err != nil {
		return sim.Run{}, err
	}

	if _, err := integrators.New(run.Method, run.Tolerance); err != nil {
		return sim.Run{}, err
	}
	return run, nil
}
