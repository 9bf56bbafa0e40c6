package config

import "sort"

// Preset is a named parameter regime of a system.
type Preset struct {
	Description string
	Config      *Config
}

var Presets = map[string]map[string]Preset{
	"Lorenz": {
		"classic": {
			Description: "Lorenz's original chaotic butterfly",
			Config:      &Config{System: "Lorenz", Params: map[string]float64{"sigma": 10, "rho": 28, "beta": 8.0 / 3.0}},
		},
		"steady": {
			Description: "rho below the Hopf point, spirals into a fixed point",
			Config:      &Config{System: "Lorenz", TMax: Float64(30), Params: map[string]float64{"rho": 14}},
		},
		"transient": {
			Description: "transient chaos before settling, rho=21",
			Config:      &Config{System: "Lorenz", TMax: Float64(100), Params: map[string]float64{"rho": 21}},
		},
		"periodic": {
			Description: "stable periodic orbit at large rho",
			Config:      &Config{System: "Lorenz", TMax: Float64(50), Dt: Float64(0.005), Params: map[string]float64{"rho": 99.96}},
		},
	},
	"Rössler": {
		"classic": {
			Description: "chaotic spiral, c=5.7",
			Config:      &Config{System: "Rössler", Params: map[string]float64{"a": 0.2, "b": 0.2, "c": 5.7}},
		},
		"period-1": {
			Description: "simple limit cycle, c=2.5",
			Config:      &Config{System: "Rössler", Params: map[string]float64{"c": 2.5}},
		},
		"period-2": {
			Description: "after the first period doubling, c=3.5",
			Config:      &Config{System: "Rössler", Params: map[string]float64{"c": 3.5}},
		},
		"period-4": {
			Description: "after the second period doubling, c=4",
			Config:      &Config{System: "Rössler", Params: map[string]float64{"c": 4}},
		},
	},
	"Thomas": {
		"classic": {
			Description: "chaotic attractor at b=0.208186",
			Config:      &Config{System: "Thomas", Params: map[string]float64{"b": 0.208186}},
		},
		"labyrinth": {
			Description: "undamped labyrinth chaos, b=0",
			Config:      &Config{System: "Thomas", TMax: Float64(300), Params: map[string]float64{"b": 0}},
		},
		"damped": {
			Description: "strong damping, b=0.32",
			Config:      &Config{System: "Thomas", TMax: Float64(200), Params: map[string]float64{"b": 0.32}},
		},
	},
}

// GetPreset returns a copy of the named preset's config, or nil.
func GetPreset(system, preset string) *Config {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	p, ok := systemPresets[preset]
	if !ok {
		return nil
	}
	return p.Config.Clone()
}

// ListPresets returns the preset names of a system in sorted order.
func ListPresets(system string) []string {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(systemPresets))
	for name := range systemPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
