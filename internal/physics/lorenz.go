package physics

import "github.com/san-kum/attractors/internal/dynamo"

// Lorenz is the Lorenz vector field for fixed sigma, rho and beta.
type Lorenz struct{ Sigma, Rho, Beta float64 }

// Derive calculates the Lorenz attractor derivatives.
func (l Lorenz) Derive(s dynamo.State, _ float64) dynamo.State {
	return dynamo.State{l.Sigma * (s[1] - s[0]), s[0]*(l.Rho-s[2]) - s[1], s[0]*s[1] - l.Beta*s[2]}
}

type LorenzSystem struct{}

func NewLorenz() LorenzSystem { return LorenzSystem{} }

func (LorenzSystem) Name() string  { return "Lorenz" }
func (LorenzSystem) Title() string { return "Lorenz Attractor" }
func (LorenzSystem) Params() []dynamo.Param {
	return []dynamo.Param{
		{Name: "sigma", Symbol: "σ", Default: 10.0, Min: 0.1, Max: 50.0},
		{Name: "rho", Symbol: "ρ", Default: 28.0, Min: 0.1, Max: 100.0},
		{Name: "beta", Symbol: "β", Default: 8.0 / 3.0, Min: 0.1, Max: 20.0},
	}
}
func (LorenzSystem) DefaultState() dynamo.State { return dynamo.State{1.0, 1.0, 1.0} }
func (LorenzSystem) DefaultSettings() dynamo.Settings {
	return dynamo.Settings{TMax: 50.0, Dt: 0.01}
}

func (LorenzSystem) Equations() dynamo.Equations {
	return dynamo.Equations{
		Plain: "dx/dt = σ(y − x)\ndy/dt = x(ρ − z) − y\ndz/dt = xy − βz",
		LaTeX: `\begin{aligned}
\frac{dx}{dt} &= \sigma(y - x) \\
\frac{dy}{dt} &= x(\rho - z) - y \\
\frac{dz}{dt} &= xy - \beta z
\end{aligned}`,
	}
}

func (LorenzSystem) Bind(p dynamo.Params) dynamo.Field {
	return Lorenz{Sigma: p["sigma"], Rho: p["rho"], Beta: p["beta"]}
}
