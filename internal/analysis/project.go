package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/attractors/internal/dynamo"
)

// Plane selects two coordinates of the state.
type Plane int

const (
	PlaneXY Plane = iota
	PlaneXZ
	PlaneYZ
)

var planeNames = [...]string{"xy", "xz", "yz"}

func (p Plane) String() string {
	if p < 0 || int(p) >= len(planeNames) {
		return fmt.Sprintf("Plane(%d)", int(p))
	}
	return planeNames[p]
}

// Axes returns the state indices drawn horizontally and vertically.
func (p Plane) Axes() (int, int) {
	switch p {
	case PlaneXZ:
		return 0, 2
	case PlaneYZ:
		return 1, 2
	default:
		return 0, 1
	}
}

// Labels returns the axis names, e.g. "x" and "z" for PlaneXZ.
func (p Plane) Labels() (string, string) {
	i, j := p.Axes()
	return Columns[i+1], Columns[j+1]
}

// Next cycles XY, XZ, YZ.
func (p Plane) Next() Plane {
	return (p + 1) % Plane(len(planeNames))
}

func ParsePlane(s string) (Plane, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range planeNames {
		if key == name {
			return Plane(i), nil
		}
	}
	return 0, fmt.Errorf("unknown plane %q (want xy, xz or yz)", s)
}

type Point struct{ X, Y float64 }

// Project drops the coordinate not in p.
func Project(tr *dynamo.Trajectory, p Plane) []Point {
	i, j := p.Axes()
	pts := make([]Point, len(tr.States))
	for k, s := range tr.States {
		pts[k] = Point{X: s[i], Y: s[j]}
	}
	return pts
}

// FirstNonFinite returns the index of the first state holding NaN or Inf,
// or -1 when the whole trajectory is finite.
func FirstNonFinite(tr *dynamo.Trajectory) int {
	for i, s := range tr.States {
		if !s.IsValid() {
			return i
		}
	}
	return -1
}
