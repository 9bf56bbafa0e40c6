package integrators

import "github.com/san-kum/attractors/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta stepper.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(f dynamo.Field, x dynamo.State, t, dt float64) dynamo.State {
	half := dt * 0.5

	k1 := f.Derive(x, t)
	k2 := f.Derive(x.AddScaled(half, k1), t+half)
	k3 := f.Derive(x.AddScaled(half, k2), t+half)
	k4 := f.Derive(x.AddScaled(dt, k3), t+dt)

	dt6 := dt / 6.0
	var result dynamo.State
	for i := range x {
		result[i] = x[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return result
}
