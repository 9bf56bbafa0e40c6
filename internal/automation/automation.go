package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/attractors/internal/config"
	"github.com/san-kum/attractors/internal/dynamo"
	"github.com/san-kum/attractors/internal/experiment"
	"github.com/san-kum/attractors/internal/sim"
	"github.com/san-kum/attractors/internal/storage"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. Preset, when set, is applied
// first and the inline config fields override it.
type ScenarioStep struct {
	config.Config `yaml:",inline"`
	Preset        string `yaml:"preset,omitempty"`
	SaveAs        string `yaml:"save_as,omitempty"`
}

// StepResult is the outcome of one scenario step. ID is empty when the
// scenario ran without a store.
type StepResult struct {
	Step   int
	System string
	ID     string
	Result *experiment.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// RunScenario executes all steps in order and saves each result when store
// is not nil. It stops at the first failing step and returns the results of
// the steps before it.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, store storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		sys, err := registry.Resolve(step.System)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		cfg := &step.Config
		if step.Preset != "" {
			preset := config.GetPreset(sys.Name(), step.Preset)
			if preset == nil {
				return results, fmt.Errorf("step %d: no preset %q for %s", i+1, step.Preset, sys.Name())
			}
			cfg = preset.Merge(cfg)
		}

		run, err := cfg.Run(sys)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(sys, run)
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: i + 1, System: sys.Name(), Result: result}
		if store != nil {
			id, err := store.Save(ctx, result.Trajectory, exp.Metadata(result, step.SaveAs))
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.ID = id
		}
		results = append(results, sr)

		slog.Info("scenario step done",
			"scenario", scenario.Name,
			"step", i+1,
			"of", len(scenario.Steps),
			"system", sys.Name(),
			"id", sr.ID,
			"elapsed", result.Elapsed)
	}

	return results, nil
}

// EnsembleConfig perturbs the initial state of a base run to measure
// sensitivity to initial conditions.
type EnsembleConfig struct {
	Run          sim.Run
	Perturbation float64
	Trials       int
	Seed         int64
	Workers      int
}

// Trial holds the endpoints of one perturbed run.
type Trial struct {
	ID      int
	Initial dynamo.State
	Final   dynamo.State
	Bounded bool // final state finite and within 1e6 on every axis
}

// RunEnsemble solves Trials copies of cfg.Run, each starting from the base
// initial state moved by up to Perturbation per coordinate. Initial states
// are drawn up front, so a fixed Seed reproduces the ensemble.
func RunEnsemble(ctx context.Context, sys dynamo.System, cfg EnsembleConfig) ([]Trial, error) {
	if cfg.Trials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d", cfg.Trials)
	}
	if !(cfg.Perturbation >= 0) || math.IsInf(cfg.Perturbation, 0) {
		return nil, fmt.Errorf("perturbation must be a finite non-negative number, got %g", cfg.Perturbation)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	trials := make([]Trial, cfg.Trials)
	for i := range trials {
		x0 := cfg.Run.Initial
		for k := range x0 {
			x0[k] += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
		}
		trials[i] = Trial{ID: i, Initial: x0}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range trials {
		g.Go(func() error {
			run := cfg.Run
			run.Params = cfg.Run.Params.Clone()
			run.Initial = trials[i].Initial

			tr, err := sim.Solve(gctx, sys, run)
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			final := tr.Final()
			trials[i].Final = final
			trials[i].Bounded = bounded(final)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return trials, nil
}

func bounded(s dynamo.State) bool {
	if !s.IsValid() {
		return false
	}
	for _, v := range s {
		if math.Abs(v) > 1e6 {
			return false
		}
	}
	return true
}

// EnsembleStats summarizes trials: how many stayed bounded and the RMS
// distance of the bounded final states from their centroid.
func EnsembleStats(trials []Trial) (boundedCount, unboundedCount int, spread float64) {
	var centroid dynamo.State
	for _, t := range trials {
		if t.Bounded {
			boundedCount++
			centroid = centroid.Add(t.Final)
		} else {
			unboundedCount++
		}
	}
	if boundedCount == 0 {
		return boundedCount, unboundedCount, math.NaN()
	}
	centroid = centroid.Scale(1 / float64(boundedCount))

	sum := 0.0
	for _, t := range trials {
		if t.Bounded {
			d := t.Final.Sub(centroid).Norm()
			sum += d * d
		}
	}
	return boundedCount, unboundedCount, math.Sqrt(sum / float64(boundedCount))
}
