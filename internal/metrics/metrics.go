// Package metrics reduces a trajectory to scalar figures saved with each run.
package metrics

import (
	"github.com/san-kum/attractors/internal/dynamo"
)

// Metric observes the samples of a trajectory in order.
type Metric interface {
	Name() string
	Observe(x dynamo.State, t float64)
	Value() float64
	Reset()
}

// Defaults returns the metrics recorded for every run.
func Defaults() []Metric {
	return []Metric{NewBounded(DefaultBound), NewRadius(), NewSpeed()}
}

// Collect feeds tr through each metric and returns their values by name.
func Collect(tr *dynamo.Trajectory, ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
	}
	for i, x := range tr.States {
		for _, m := range ms {
			m.Observe(x, tr.Times[i])
		}
	}
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
