package physics

import (
	"math"

	"github.com/san-kum/attractors/internal/dynamo"
)

// Thomas is Thomas' cyclically symmetric vector field with damping B.
type Thomas struct{ B float64 }

// Derive calculates the Thomas attractor derivatives.
func (th Thomas) Derive(s dynamo.State, _ float64) dynamo.State {
	return dynamo.State{
		math.Sin(s[1]) - th.B*s[0],
		math.Sin(s[2]) - th.B*s[1],
		math.Sin(s[0]) - th.B*s[2],
	}
}

type ThomasSystem struct{}

func NewThomas() ThomasSystem { return ThomasSystem{} }

func (ThomasSystem) Name() string  { return "Thomas" }
func (ThomasSystem) Title() string { return "Thomas Cyclically Symmetric Attractor" }
func (ThomasSystem) Params() []dynamo.Param {
	return []dynamo.Param{
		{Name: "b", Symbol: "b", Default: 0.208186, Min: 0.0, Max: 1.0},
	}
}
func (ThomasSystem) DefaultState() dynamo.State { return dynamo.State{1.1, 1.1, -0.01} }
func (ThomasSystem) DefaultSettings() dynamo.Settings {
	return dynamo.Settings{TMax: 500.0, Dt: 0.05}
}

func (ThomasSystem) Equations() dynamo.Equations {
	return dynamo.Equations{
		Plain: "dx/dt = sin(y) − bx\ndy/dt = sin(z) − by\ndz/dt = sin(x) − bz",
		LaTeX: `\begin{aligned}
\frac{dx}{dt} &= \sin(y) - bx \\
\frac{dy}{dt} &= \sin(z) - by \\
\frac{dz}{dt} &= \sin(x) - bz
\end{aligned}`,
	}
}

func (ThomasSystem) Bind(p dynamo.Params) dynamo.Field {
	return Thomas{B: p["b"]}
}
