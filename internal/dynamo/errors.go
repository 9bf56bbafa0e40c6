package dynamo

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Domain errors for system configuration and solving.
var (
	// ErrInvalidState indicates an initial state that is not exactly 3 finite numbers.
	ErrInvalidState = errors.New("dynamo: invalid state (need 3 finite values)")

	// ErrParameterMismatch indicates a parameter set whose names differ from the system's.
	ErrParameterMismatch = errors.New("dynamo: parameter names do not match system")

	// ErrInvalidConfiguration indicates t_max or dt outside their allowed bounds.
	ErrInvalidConfiguration = errors.New("dynamo: invalid simulation settings")

	// ErrUnknownSystem indicates a registry lookup for a name that is not present.
	ErrUnknownSystem = errors.New("dynamo: unknown system")

	// ErrParameterBounds indicates a parameter value is outside its declared range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownMethod indicates an integration method name that is not available.
	ErrUnknownMethod = errors.New("dynamo: unknown integration method")
)

// StateError reports why an initial state was rejected.
type StateError struct {
	Values []float64
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s %v", ErrInvalidState, e.Reason, e.Values)
}

func (e *StateError) Unwrap() error { return ErrInvalidState }

// ParameterMismatchError lists the names that are missing from or unexpected in
// a parameter set.
type ParameterMismatchError struct {
	System     string
	Missing    []string
	Unexpected []string
}

func (e *ParameterMismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, "unexpected "+strings.Join(e.Unexpected, ", "))
	}
	return fmt.Sprintf("%s %s: %s", ErrParameterMismatch, e.System, strings.Join(parts, "; "))
}

func (e *ParameterMismatchError) Unwrap() error { return ErrParameterMismatch }

// ConfigurationError names the setting that violated its bounds.
type ConfigurationError struct {
	Field    string
	Value    float64
	Min, Max float64
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s=%g outside [%g, %g]", ErrInvalidConfiguration, e.Field, e.Value, e.Min, e.Max)
}

func (e *ConfigurationError) Unwrap() error { return ErrInvalidConfiguration }

// UnknownSystemError carries the name that failed to resolve.
type UnknownSystemError struct {
	Name  string
	Known []string
}

func (e *UnknownSystemError) Error() string {
	return fmt.Sprintf("%s %q (available: %s)", ErrUnknownSystem, e.Name, strings.Join(e.Known, ", "))
}

func (e *UnknownSystemError) Unwrap() error { return ErrUnknownSystem }

// BoundsError reports a parameter value outside its declared interval.
type BoundsError struct {
	Param Param
	Value float64
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s: %s=%g outside [%g, %g]", ErrParameterBounds, e.Param.Name, e.Value, e.Param.Min, e.Param.Max)
}

func (e *BoundsError) Unwrap() error { return ErrParameterBounds }

// CheckParams verifies that p supplies exactly the parameter names declared by sys.
func CheckParams(sys System, p Params) error {
	declared := make(map[string]struct{})
	var missing []string
	for _, spec := range sys.Params() {
		declared[spec.Name] = struct{}{}
		if _, ok := p[spec.Name]; !ok {
			missing = append(missing, spec.Name)
		}
	}

	var unexpected []string
	for name := range p {
		if _, ok := declared[name]; !ok {
			unexpected = append(unexpected, name)
		}
	}
	sort.Strings(unexpected)

	if len(missing) == 0 && len(unexpected) == 0 {
		return nil
	}
	return &ParameterMismatchError{System: sys.Name(), Missing: missing, Unexpected: unexpected}
}

// CheckRanges verifies every value in p lies within its declared interval.
// The solver never calls it; it is the check for callers that accept user input.
func CheckRanges(sys System, p Params) error {
	if err := CheckParams(sys, p); err != nil {
		return err
	}
	var errs []error
	for _, spec := range sys.Params() {
		if v := p[spec.Name]; !spec.Contains(v) {
			errs = append(errs, &BoundsError{Param: spec, Value: v})
		}
	}
	return errors.Join(errs...)
}
