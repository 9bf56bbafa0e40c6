package integrators

import (
	"testing"

	"github.com/san-kum/attractors/internal/dynamo"
)

type lorenzBench struct{}

func (lorenzBench) Derive(s dynamo.State, _ float64) dynamo.State {
	return dynamo.State{10 * (s[1] - s[0]), s[0]*(28-s[2]) - s[1], s[0]*s[1] - 8.0/3.0*s[2]}
}

func BenchmarkEuler(b *testing.B) {
	integrator := NewEuler()
	x := dynamo.State{1, 1, 1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(lorenzBench{}, x, 0, 0.001)
	}
}

func BenchmarkRK4(b *testing.B) {
	integrator := NewRK4()
	x := dynamo.State{1, 1, 1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(lorenzBench{}, x, 0, 0.001)
	}
}

func BenchmarkRK45(b *testing.B) {
	integrator := NewRK45()
	x := dynamo.State{1, 1, 1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(lorenzBench{}, x, 0, 0.01)
	}
}
