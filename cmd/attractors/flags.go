package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/attractors/internal/config"
	"github.com/san-kum/attractors/internal/dynamo"
	"github.com/san-kum/attractors/internal/sim"
)

// runConfig resolves the system and solver inputs of a command. Presets are
// applied first, then the config file, then explicit flags. The system comes
// from the first argument or, failing that, from the config file.
func runConfig(cmd *cobra.Command, args []string) (dynamo.System, sim.Run, error) {
	var fileCfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, sim.Run{}, fmt.Errorf("failed to load config: %w", err)
		}
		fileCfg = loaded
	}

	var name string
	switch {
	case len(args) > 0:
		name = args[0]
	case fileCfg != nil && fileCfg.System != "":
		name = fileCfg.System
	default:
		return nil, sim.Run{}, fmt.Errorf("no system given (available: %s)", strings.Join(registry.Names(), ", "))
	}
	sys, err := registry.Resolve(name)
	if err != nil {
		return nil, sim.Run{}, err
	}
	if fileCfg != nil && fileCfg.System != "" {
		other, err := registry.Resolve(fileCfg.System)
		if err != nil {
			return nil, sim.Run{}, fmt.Errorf("config %s: %w", configFile, err)
		}
		if other.Name() != sys.Name() {
			return nil, sim.Run{}, fmt.Errorf("config %s is for %s, not %s", configFile, other.Name(), sys.Name())
		}
	}

	cfg := &config.Config{System: sys.Name()}
	if preset != "" {
		p := config.GetPreset(sys.Name(), preset)
		if p == nil {
			return nil, sim.Run{}, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(sys.Name()))
		}
		cfg = cfg.Merge(p)
	}
	cfg = cfg.Merge(fileCfg)

	flags := cmd.Flags()
	if flags.Changed("tmax") {
		cfg.TMax = config.Float64(tMax)
	}
	if flags.Changed("dt") {
		cfg.Dt = config.Float64(dt)
	}
	if flags.Changed("method") {
		cfg.Method = method
	}
	if flags.Changed("x0") {
		x0, err := parseState(initial)
		if err != nil {
			return nil, sim.Run{}, err
		}
		cfg.InitialState = x0
	}
	if len(paramFlags) > 0 {
		params, err := parseParams(paramFlags)
		if err != nil {
			return nil, sim.Run{}, err
		}
		cfg = cfg.Merge(&config.Config{Params: params})
	}

	run, err := cfg.Run(sys)
	if err != nil {
		return nil, sim.Run{}, err
	}
	return sys, run, nil
}

// parseParams reads name=value pairs.
func parseParams(pairs []string) (map[string]float64, error) {
	params := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid parameter %q: want name=value", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid parameter %q: %w", pair, err)
		}
		params[name] = v
	}
	return params, nil
}

// parseState reads a comma separated initial state. Its length and values
// are checked by dynamo.NewState later.
func parseState(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid initial state %q: %w", s, err)
		}
		values[i] = v
	}
	return values, nil
}

// parseAxis maps x, y or z to a state index.
func parseAxis(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return 0, nil
	case "y":
		return 1, nil
	case "z":
		return 2, nil
	}
	return 0, fmt.Errorf("unknown axis %q (want x, y or z)", s)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// createOutput opens path for writing, or stdout when path is empty or "-".
func createOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}
