package experiment

import (
	"context"
	"time"

	"github.com/san-kum/attractors/internal/analysis"
	"github.com/san-kum/attractors/internal/dynamo"
	"github.com/san-kum/attractors/internal/integrators"
	"github.com/san-kum/attractors/internal/metrics"
	"github.com/san-kum/attractors/internal/sim"
	"github.com/san-kum/attractors/internal/storage"
)

// Experiment is one configured solve of a system.
type Experiment struct {
	sys dynamo.System
	run sim.Run
}

// Result is a solved trajectory with bookkeeping for the caller.
type Result struct {
	Trajectory *dynamo.Trajectory
	Method     string
	Elapsed    time.Duration
	// Diverged is the index of the first non-finite sample, or -1.
	Diverged int
	Metrics  map[string]float64
}

func New(sys dynamo.System, run sim.Run) *Experiment {
	if run.Method == "" {
		run.Method = integrators.DefaultMethod
	}
	return &Experiment{sys: sys, run: run}
}

func (e *Experiment) System() dynamo.System { return e.sys }
func (e *Experiment) Config() sim.Run     { return e.run }

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	tr, err := sim.Solve(ctx, e.sys, e.run)
	if err != nil {
		return nil, err
	}

	return &Result{
		Trajectory: tr,
		Method:     e.run.Method,
		Elapsed:    time.Since(start),
		Diverged:   analysis.FirstNonFinite(tr),
		Metrics:    metrics.Collect(tr, metrics.Defaults()...),
	}, nil
}

// Metadata describes a result of e for a store. An empty id lets the store
// generate one.
func (e *Experiment) Metadata(r *Result, id string) storage.RunMetadata {
	return storage.RunMetadata{
		ID:       id,
		Method:   r.Method,
		TMax:     e.run.Settings.TMax,
		Initial:  e.run.Initial,
		Diverged: r.Diverged,
		Elapsed:  r.Elapsed,
		Metrics:  r.Metrics,
	}
}
