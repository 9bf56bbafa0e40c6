package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/attractors/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// Tolerance bounds the local error of an adaptive step per component:
// |err_i| <= Abs + Rel*|x_i|.
type Tolerance struct {
	Rel float64 `yaml:"rtol" json:"rtol"`
	Abs float64 `yaml:"atol" json:"atol"`
}

func DefaultTolerance() Tolerance {
	return Tolerance{Rel: 1e-9, Abs: 1e-12}
}

// minRel is the tightest relative tolerance double precision can honor.
const minRel = 1e-14

// Validate rejects tolerances no step can satisfy. Rel is 0 or in
// [1e-14, 1]; Abs is finite and non-negative; at least one is positive.
func (tol Tolerance) Validate() error {
	if math.IsNaN(tol.Rel) || (tol.Rel != 0 && (tol.Rel < minRel || tol.Rel > 1)) {
		return &dynamo.ConfigurationError{Field: "rtol", Value: tol.Rel, Min: minRel, Max: 1}
	}
	if math.IsNaN(tol.Abs) || tol.Abs < 0 || math.IsInf(tol.Abs, 0) {
		return &dynamo.ConfigurationError{Field: "atol", Value: tol.Abs, Min: 0, Max: math.Inf(1)}
	}
	if tol.Rel == 0 && tol.Abs == 0 {
		return fmt.Errorf("%w: rtol and atol are both zero", dynamo.ErrInvalidConfiguration)
	}
	return nil
}

// Stats counts the work done by an adaptive stepper. Forced counts intervals
// closed by a single step after the step budget ran out.
type Stats struct {
	Accepted    int
	Rejected    int
	Forced      int
	Evaluations int
}

// maxAdvanceSteps caps the internal steps one Advance call may take.
const maxAdvanceSteps = 4096

// RK45 is an embedded Dormand-Prince 5(4) stepper with step size control.
// It keeps counters, so use one instance per solve.
type RK45 struct {
	Tol Tolerance

	safety   float64
	minScale float64
	maxScale float64
	minStep  float64

	stats Stats
}

func NewRK45() *RK45 {
	return NewRK45WithTolerance(DefaultTolerance())
}

func NewRK45WithTolerance(tol Tolerance) *RK45 {
	return &RK45{
		Tol:      tol,
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
		minStep:  1e-10,
	}
}

func (r *RK45) Stats() Stats { return r.stats }

// Step advances x from t to exactly t+dt, taking as many internal steps as
// the tolerance requires.
func (r *RK45) Step(f dynamo.Field, x dynamo.State, t, dt float64) dynamo.State {
	next, _ := r.Advance(f, x, t, t+dt, dt)
	return next
}

// Advance integrates from t0 to exactly t1 starting with trial step h and
// returns the state at t1 with the step size to try next. A step whose error
// estimate is not finite is accepted as is so divergence propagates. After
// maxAdvanceSteps attempts the rest of the interval is covered by one step,
// so stiff fields cost bounded work per call.
func (r *RK45) Advance(f dynamo.Field, x dynamo.State, t0, t1, h float64) (dynamo.State, float64) {
	if h <= 0 || math.IsNaN(h) {
		h = t1 - t0
	}
	t := t0
	for n := 0; t < t1; n++ {
		remaining := t1 - t
		step := h
		clamped := false
		if step >= remaining || remaining-step <= 1e-12*math.Abs(t1) || t+step == t {
			step = remaining
			clamped = true
		}
		if n >= maxAdvanceSteps {
			x, _ = r.StepAdaptive(f, x, t, remaining)
			r.stats.Accepted++
			r.stats.Forced++
			return x, math.Max(h, r.minStep)
		}

		xNew, errRatio := r.StepAdaptive(f, x, t, step)

		if errRatio <= 1 || math.IsNaN(errRatio) || math.IsInf(errRatio, 0) || step <= r.minStep {
			r.stats.Accepted++
			x = xNew
			if clamped {
				t = t1
			} else {
				t += step
			}
			next := math.Max(step*r.growth(errRatio), r.minStep)
			if !clamped || next > h {
				h = next
			}
			continue
		}

		r.stats.Rejected++
		h = math.Max(step*r.growth(errRatio), r.minStep)
	}
	return x, h
}

// growth returns the factor to scale the step by for a given error ratio.
func (r *RK45) growth(errRatio float64) float64 {
	switch {
	case math.IsNaN(errRatio) || math.IsInf(errRatio, 0):
		return 1
	case errRatio > 1:
		return math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
	case errRatio > 0:
		return math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2))
	default:
		return r.maxScale
	}
}

// StepAdaptive takes one Dormand-Prince step of size dt and returns the new
// state with its RMS error relative to the tolerance (<= 1 means acceptable).
func (r *RK45) StepAdaptive(f dynamo.Field, x dynamo.State, t, dt float64) (dynamo.State, float64) {
	k1 := f.Derive(x, t)

	var x2, x3, x4, x5, x6, xNew dynamo.State
	for i := range x {
		x2[i] = x[i] + dt*b21*k1[i]
	}
	k2 := f.Derive(x2, t+a2*dt)

	for i := range x {
		x3[i] = x[i] + dt*(b31*k1[i]+b32*k2[i])
	}
	k3 := f.Derive(x3, t+a3*dt)

	for i := range x {
		x4[i] = x[i] + dt*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4 := f.Derive(x4, t+a4*dt)

	for i := range x {
		x5[i] = x[i] + dt*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5 := f.Derive(x5, t+a5*dt)

	for i := range x {
		x6[i] = x[i] + dt*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6 := f.Derive(x6, t+dt)

	for i := range x {
		xNew[i] = x[i] + dt*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}

	k7 := f.Derive(xNew, t+dt)
	r.stats.Evaluations += 7

	sum := 0.0
	for i := range x {
		errEst := dt * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		scale := r.Tol.Abs + r.Tol.Rel*math.Max(math.Abs(x[i]), math.Abs(xNew[i]))
		if scale <= 0 {
			scale = 1e-300
		}
		e := errEst / scale
		sum += e * e
	}

	return xNew, math.Sqrt(sum / float64(len(x)))
}
