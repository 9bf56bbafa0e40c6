package sim

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/attractors/internal/dynamo"
)

// SweepPoint is the trajectory obtained for one value of the swept parameter.
type SweepPoint struct {
	Value      float64
	Trajectory *dynamo.Trajectory
}

// Sweep solves sys once per value of param, running at most workers solves at
// a time (GOMAXPROCS when workers <= 0). Results keep the order of values.
// The first failing solve cancels the rest.
func Sweep(ctx context.Context, sys dynamo.System, base Run, param string, values []float64, workers int) ([]SweepPoint, error) {
	if !declares(sys, param) {
		return nil, &dynamo.ParameterMismatchError{System: sys.Name(), Unexpected: []string{param}}
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	points := make([]SweepPoint, len(values))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, v := range values {
		g.Go(func() error {
			run := base
			run.Params = base.Params.Clone()
			run.Params[param] = v

			tr, err := Solve(gctx, sys, run)
			if err != nil {
				return err
			}
			points[i] = SweepPoint{Value: v, Trajectory: tr}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

func declares(sys dynamo.System, name string) bool {
	for _, p := range sys.Params() {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
