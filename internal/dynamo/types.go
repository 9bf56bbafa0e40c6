package dynamo

import (
	"math"
)

// Dim is the dimensionality of every state vector.
const Dim = 3

// State is an (x, y, z) point in phase space.
type State [Dim]float64

// NewState validates values and converts them to a State.
func NewState(values []float64) (State, error) {
	if len(values) != Dim {
		return State{}, &StateError{Values: values, Reason: "wrong dimension"}
	}
	s := State{values[0], values[1], values[2]}
	if !s.IsValid() {
		return State{}, &StateError{Values: values, Reason: "non-finite value"}
	}
	return s, nil
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	return math.Sqrt(s[0]*s[0] + s[1]*s[1] + s[2]*s[2])
}

func (s State) Add(other State) State {
	return State{s[0] + other[0], s[1] + other[1], s[2] + other[2]}
}

func (s State) Sub(other State) State {
	return State{s[0] - other[0], s[1] - other[1], s[2] - other[2]}
}

func (s State) Scale(factor float64) State {
	return State{s[0] * factor, s[1] * factor, s[2] * factor}
}

// AddScaled returns s + h*d, the building block of every explicit stepper.
func (s State) AddScaled(h float64, d State) State {
	return State{s[0] + h*d[0], s[1] + h*d[1], s[2] + h*d[2]}
}

func (s State) Slice() []float64 {
	return []float64{s[0], s[1], s[2]}
}

// Params maps parameter names to values.
type Params map[string]float64

func (p Params) Clone() Params {
	c := make(Params, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Param describes one named parameter of a system.
type Param struct {
	Name    string
	Symbol  string
	Default float64
	Min     float64
	Max     float64
}

// Contains reports whether v lies in the closed interval [Min, Max].
func (p Param) Contains(v float64) bool {
	return v >= p.Min && v <= p.Max
}

// Clamp limits v to [Min, Max]. Only user interfaces clamp; the core rejects.
func (p Param) Clamp(v float64) float64 {
	return math.Max(p.Min, math.Min(p.Max, v))
}

// Equations holds display forms of a system's governing equations.
type Equations struct {
	Plain string
	LaTeX string
}

// Field is a vector field bound to concrete parameter values.
type Field interface {
	Derive(x State, t float64) State
}

// FieldFunc adapts a plain function to Field.
type FieldFunc func(x State, t float64) State

func (f FieldFunc) Derive(x State, t float64) State { return f(x, t) }

// System is an immutable description of a dynamical system.
type System interface {
	// Name is the registry key, e.g. "Lorenz".
	Name() string
	// Title is the long display name.
	Title() string
	// Params returns the ordered parameter schema. Callers may modify the result.
	Params() []Param
	DefaultState() State
	DefaultSettings() Settings
	Equations() Equations
	// Bind returns the vector field for p. p must satisfy CheckParams.
	Bind(p Params) Field
}

// Defaults returns the default parameter set of sys.
func Defaults(sys System) Params {
	specs := sys.Params()
	p := make(Params, len(specs))
	for _, spec := range specs {
		p[spec.Name] = spec.Default
	}
	return p
}

// Derive evaluates the vector field of sys at x for the parameter set p.
func Derive(sys System, x State, t float64, p Params) State {
	return sys.Bind(p).Derive(x, t)
}

// Bounds on simulation settings.
const (
	MinTMax = 10.0
	MaxTMax = 2000.0
	MinDt   = 0.001
	MaxDt   = 0.1
)

// Settings are the time horizon and output step of a solve.
type Settings struct {
	TMax float64
	Dt   float64
}

func (s Settings) Validate() error {
	if math.IsNaN(s.TMax) || s.TMax < MinTMax || s.TMax > MaxTMax {
		return &ConfigurationError{Field: "t_max", Value: s.TMax, Min: MinTMax, Max: MaxTMax}
	}
	if math.IsNaN(s.Dt) || s.Dt < MinDt || s.Dt > MaxDt {
		return &ConfigurationError{Field: "dt", Value: s.Dt, Min: MinDt, Max: MaxDt}
	}
	return nil
}

// Points returns the number of grid samples i*Dt that are strictly below TMax.
// A ratio within rounding distance of an integer counts as that integer, so
// TMax=10, Dt=0.1 gives 100 points.
func (s Settings) Points() int {
	if s.Dt <= 0 || s.TMax <= 0 {
		return 0
	}
	ratio := s.TMax / s.Dt
	if n := math.Round(ratio); math.Abs(ratio-n) <= 1e-9*n {
		return int(n)
	}
	return int(math.Ceil(ratio))
}

// Row is one (t, x, y, z) sample of a trajectory.
type Row struct {
	T, X, Y, Z float64
}

// Trajectory is the sampled output of a solve, ordered by strictly increasing time.
type Trajectory struct {
	System string
	Params Params
	Dt     float64
	Times  []float64
	States []State
}

func (tr *Trajectory) Len() int { return len(tr.Times) }

func (tr *Trajectory) Row(i int) Row {
	s := tr.States[i]
	return Row{T: tr.Times[i], X: s[0], Y: s[1], Z: s[2]}
}

func (tr *Trajectory) Rows() []Row {
	rows := make([]Row, tr.Len())
	for i := range rows {
		rows[i] = tr.Row(i)
	}
	return rows
}

// Column returns the samples of one state axis (0, 1 or 2).
func (tr *Trajectory) Column(axis int) []float64 {
	col := make([]float64, len(tr.States))
	for i, s := range tr.States {
		col[i] = s[axis]
	}
	return col
}

// Final returns the last state, or the zero state for an empty trajectory.
func (tr *Trajectory) Final() State {
	if len(tr.States) == 0 {
		return State{}
	}
	return tr.States[len(tr.States)-1]
}
