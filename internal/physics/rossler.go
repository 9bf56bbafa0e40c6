package physics

import "github.com/san-kum/attractors/internal/dynamo"

// Rossler is the Rössler vector field for fixed a, b and c.
type Rossler struct{ A, B, C float64 }

// Derive calculates the Rossler attractor derivatives.
func (r Rossler) Derive(s dynamo.State, _ float64) dynamo.State {
	return dynamo.State{-s[1] - s[2], s[0] + r.A*s[1], r.B + s[2]*(s[0]-r.C)}
}

type RosslerSystem struct{}

func NewRossler() RosslerSystem { return RosslerSystem{} }

func (RosslerSystem) Name() string  { return "Rössler" }
func (RosslerSystem) Title() string { return "Rössler Attractor" }
func (RosslerSystem) Params() []dynamo.Param {
	return []dynamo.Param{
		{Name: "a", Symbol: "a", Default: 0.2, Min: 0.0, Max: 1.0},
		{Name: "b", Symbol: "b", Default: 0.2, Min: 0.0, Max: 2.0},
		{Name: "c", Symbol: "c", Default: 5.7, Min: 0.0, Max: 20.0},
	}
}
func (RosslerSystem) DefaultState() dynamo.State { return dynamo.State{1.0, 1.0, 1.0} }
func (RosslerSystem) DefaultSettings() dynamo.Settings {
	return dynamo.Settings{TMax: 100.0, Dt: 0.01}
}

func (RosslerSystem) Equations() dynamo.Equations {
	return dynamo.Equations{
		Plain: "dx/dt = −y − z\ndy/dt = x + ay\ndz/dt = b + z(x − c)",
		LaTeX: `\begin{aligned}
\frac{dx}{dt} &= -y - z \\
\frac{dy}{dt} &= x + ay \\
\frac{dz}{dt} &= b + z(x - c)
\end{aligned}`,
	}
}

func (RosslerSystem) Bind(p dynamo.Params) dynamo.Field {
	return Rossler{A: p["a"], B: p["b"], C: p["c"]}
}
