package integrators

import "github.com/san-kum/attractors/internal/dynamo"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(f dynamo.Field, x dynamo.State, t float64, dt float64) dynamo.State {
	return x.AddScaled(dt, f.Derive(x, t))
}
