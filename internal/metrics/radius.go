package metrics

import (
	"math"

	"github.com/san-kum/attractors/internal/dynamo"
)

// Radius is the largest distance from the origin over the finite samples.
type Radius struct {
	name string
	max  float64
}

func NewRadius() *Radius {
	return &Radius{name: "max_radius"}
}

func (r *Radius) Name() string { return r.name }

func (r *Radius) Observe(x dynamo.State, t float64) {
	if !x.IsValid() {
		return
	}
	r.max = math.Max(r.max, x.Norm())
}

func (r *Radius) Value() float64 { return r.max }

func (r *Radius) Reset() { r.max = 0 }

// Speed is the mean of |x(t_i) - x(t_{i-1})| / (t_i - t_{i-1}) over
// consecutive finite samples.
type Speed struct {
	name    string
	prev    dynamo.State
	prevT   float64
	started bool
	sum     float64
	samples int
}

func NewSpeed() *Speed {
	return &Speed{name: "mean_speed"}
}

func (s *Speed) Name() string { return s.name }

func (s *Speed) Observe(x dynamo.State, t float64) {
	if !x.IsValid() {
		s.started = false
		return
	}
	if s.started && t > s.prevT {
		s.sum += x.Sub(s.prev).Norm() / (t - s.prevT)
		s.samples++
	}
	s.prev, s.prevT, s.started = x, t, true
}

func (s *Speed) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *Speed) Reset() {
	s.prev = dynamo.State{}
	s.prevT = 0
	s.started = false
	s.sum = 0
	s.samples = 0
}
