package optim

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/attractors/internal/dynamo"
	"github.com/san-kum/attractors/internal/experiment"
	"github.com/san-kum/attractors/internal/sim"
)

// GridSearch tries every combination of the given parameter values and keeps
// the one whose run metric is lowest, or highest when Maximize is set.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	Maximize   bool
}

// Best is the winning combination of a search.
type Best struct {
	Params    map[string]float64
	Value     float64
	Evaluated int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search solves sys at every grid point, starting from base, and compares
// results by metricName. Runs whose metric is NaN never win. It fails if a
// grid parameter is not declared by sys or no run reports the metric.
func (g *GridSearch) Search(ctx context.Context, sys dynamo.System, base sim.Run, metricName string) (*Best, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("grid has %d names but %d ranges", len(g.paramNames), len(g.ranges))
	}
	declared := dynamo.Defaults(sys)
	var unknown []string
	for _, name := range g.paramNames {
		if _, ok := declared[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return nil, &dynamo.ParameterMismatchError{System: sys.Name(), Unexpected: unknown}
	}

	best := &Best{Value: math.NaN()}
	if err := g.searchRecursive(ctx, 0, base.Params.Clone(), sys, base, metricName, best); err != nil {
		return nil, err
	}
	if best.Params == nil {
		return nil, fmt.Errorf("no run reported metric %q", metricName)
	}
	return best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current dynamo.Params,
	sys dynamo.System,
	base sim.Run,
	metricName string,
	best *Best,
) error {
	if depth == len(g.paramNames) {
		run := base
		run.Params = current.Clone()

		result, err := experiment.New(sys, run).Run(ctx)
		if err != nil {
			return err
		}
		best.Evaluated++

		val, ok := result.Metrics[metricName]
		if !ok || math.IsNaN(val) {
			return nil
		}
		if best.Params == nil || g.better(val, best.Value) {
			best.Value = val
			best.Params = current.Clone()
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[paramName] = val
		if err := g.searchRecursive(ctx, depth+1, current, sys, base, metricName, best); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) better(a, b float64) bool {
	if g.Maximize {
		return a > b
	}
	return a < b
}

// ParseAxis reads a grid axis written as name=lo:hi:n, for example
// rho=20:30:5, into n evenly spaced values.
func ParseAxis(s string) (string, []float64, error) {
	name, spec, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", nil, fmt.Errorf("axis %q: want name=lo:hi:n", s)
	}
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("axis %q: want name=lo:hi:n", s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return "", nil, fmt.Errorf("axis %q: lo: %w", s, err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return "", nil, fmt.Errorf("axis %q: hi: %w", s, err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("axis %q: n must be a positive integer", s)
	}
	return name, sim.Linspace(lo, hi, n), nil
}
