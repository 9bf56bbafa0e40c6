package dynamo

import (
	"errors"
	"testing"
)

type stubSystem struct{ params []Param }

func (s stubSystem) Name() string              { return "stub" }
func (s stubSystem) Title() string             { return "Stub System" }
func (s stubSystem) Params() []Param           { return append([]Param(nil), s.params...) }
func (s stubSystem) DefaultState() State       { return State{1, 1, 1} }
func (s stubSystem) DefaultSettings() Settings { return Settings{TMax: 10, Dt: 0.1} }
func (s stubSystem) Equations() Equations      { return Equations{Plain: "dx = -a x"} }
func (s stubSystem) Bind(p Params) Field {
	a := p["a"]
	return FieldFunc(func(x State, _ float64) State { return x.Scale(-a) })
}

func newStub() stubSystem {
	return stubSystem{params: []Param{
		{Name: "a", Default: 1, Min: 0, Max: 2},
		{Name: "b", Default: 3, Min: 1, Max: 5},
	}}
}

func TestCheckParams(t *testing.T) {
	sys := newStub()

	tests := []struct {
		name       string
		p          Params
		missing    []string
		unexpected []string
	}{
		{"exact", Params{"a": 1, "b": 2}, nil, nil},
		{"missing", Params{"a": 1}, []string{"b"}, nil},
		{"extra", Params{"a": 1, "b": 2, "c": 3}, nil, []string{"c"}},
		{"both", Params{"b": 2, "z": 1, "y": 0}, []string{"a"}, []string{"y", "z"}},
		{"empty", Params{}, []string{"a", "b"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckParams(sys, tt.p)
			if tt.missing == nil && tt.unexpected == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrParameterMismatch) {
				t.Fatalf("expected ErrParameterMismatch, got %v", err)
			}
			var pm *ParameterMismatchError
			if !errors.As(err, &pm) {
				t.Fatalf("expected *ParameterMismatchError, got %T", err)
			}
			if !equalStrings(pm.Missing, tt.missing) {
				t.Errorf("missing = %v, want %v", pm.Missing, tt.missing)
			}
			if !equalStrings(pm.Unexpected, tt.unexpected) {
				t.Errorf("unexpected = %v, want %v", pm.Unexpected, tt.unexpected)
			}
		})
	}
}

func TestCheckRanges(t *testing.T) {
	sys := newStub()

	if err := CheckRanges(sys, Params{"a": 0, "b": 5}); err != nil {
		t.Fatalf("endpoints should be accepted: %v", err)
	}

	err := CheckRanges(sys, Params{"a": 2.5, "b": 0})
	if !errors.Is(err, ErrParameterBounds) {
		t.Fatalf("expected ErrParameterBounds, got %v", err)
	}
	var be *BoundsError
	if !errors.As(err, &be) {
		t.Fatalf("expected *BoundsError, got %T", err)
	}
	if be.Param.Name != "a" {
		t.Errorf("first bounds error should name a, got %s", be.Param.Name)
	}

	if err := CheckRanges(sys, Params{"a": 1}); !errors.Is(err, ErrParameterMismatch) {
		t.Errorf("missing names should be reported before ranges, got %v", err)
	}
}

func TestDefaultsAndDerive(t *testing.T) {
	sys := newStub()
	p := Defaults(sys)
	if p["a"] != 1 || p["b"] != 3 || len(p) != 2 {
		t.Fatalf("Defaults = %v", p)
	}

	d := Derive(sys, State{1, 2, 3}, 0, p)
	if d != (State{-1, -2, -3}) {
		t.Errorf("Derive = %v", d)
	}

	clone := p.Clone()
	clone["a"] = 9
	if p["a"] != 1 {
		t.Error("Clone should not alias the original map")
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&UnknownSystemError{Name: "Nope", Known: []string{"Lorenz", "Thomas"}}, `dynamo: unknown system "Nope" (available: Lorenz, Thomas)`},
		{&ConfigurationError{Field: "dt", Value: 0.5, Min: 0.001, Max: 0.1}, "dynamo: invalid simulation settings: dt=0.5 outside [0.001, 0.1]"},
		{&ParameterMismatchError{System: "Lorenz", Missing: []string{"rho"}}, "dynamo: parameter names do not match system Lorenz: missing rho"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
