package viz

import (
	"math"
	"sort"

	"github.com/san-kum/attractors/internal/dynamo"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vec3) Normalize() Vec3 {
	if l := v.Length(); l != 0 {
		return v.Scale(1 / l)
	}
	return Vec3{}
}
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}

// Camera manages 3D projection to a 2D plane.
type Camera struct {
	Position, Target, Up Vec3
	FOV, Near, Far       float64
	RotX, RotY, RotZ     float64
	Zoom                 float64
}

func NewCamera() *Camera {
	return &Camera{Position: Vec3{0, 0, 50}, Up: Vec3{0, 1, 0}, FOV: math.Pi / 4, Near: 0.1, Far: 1000, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// RotatePoint rotates a point around the camera's axes.
func (c *Camera) RotatePoint(p Vec3) Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project converts 3D world coordinates to 2D screen coordinates.
// Returns x, y, depth, and visibility.
func (c *Camera) Project(p Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.RotatePoint(p).Scale(c.Zoom)
	dist := c.Position.Z
	if rot.Z >= dist-c.Near {
		return 0, 0, 0, false
	}
	scale := dist / (dist - rot.Z)
	minDim := float64(sh)
	if float64(sw) < minDim {
		minDim = float64(sw)
	}
	pScale := minDim / 3.0
	sx := int(rot.X*scale*pScale) + sw/2
	sy := int(-rot.Y*scale*pScale) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End Vec3
	Color      rune
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe                 { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e Vec3, c rune) { w.Edges = append(w.Edges, Edge{s, e, c}) }
func (w *Wireframe) AddPoint(p Vec3, c rune)   { w.Edges = append(w.Edges, Edge{p, p, c}) }

type ProjectedEdge struct {
	X1, Y1, X2, Y2 int
	Depth          float64
	Color          rune
	Visible        bool
}

// Render3D draws the wireframe to the canvas using a simple painter's algorithm.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.PixelSize()
	proj := make([]ProjectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 && v2 {
			proj = append(proj, ProjectedEdge{x1, y1, x2, y2, (d1 + d2) / 2, e.Color, true})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].Depth < proj[j].Depth })
	for _, e := range proj {
		if e.X1 == e.X2 && e.Y1 == e.Y2 {
			c.Set(e.X1, e.Y1)
		} else {
			c.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
		}
	}
}

// TrailWireframe joins consecutive finite states into edges, centered on
// the midpoint of their bounding box and scaled to fit a unit cube. The y
// and z coordinates swap so that z points up on screen.
func TrailWireframe(states []dynamo.State) *Wireframe {
	w := NewWireframe()
	center, scale, ok := fit3D(states)
	if !ok {
		return w
	}
	toVec := func(s dynamo.State) Vec3 {
		return Vec3{(s[0] - center[0]) * scale, (s[2] - center[2]) * scale, (s[1] - center[1]) * scale}
	}

	glyphs := []rune{'░', '▒', '▓', '█'}
	n := len(states)
	for i := 1; i < n; i++ {
		if !states[i-1].IsValid() || !states[i].IsValid() {
			continue
		}
		w.AddEdge(toVec(states[i-1]), toVec(states[i]), glyphs[min(len(glyphs)*i/n, len(glyphs)-1)])
	}
	if last := states[n-1]; last.IsValid() {
		w.AddPoint(toVec(last), '●')
	}
	return w
}

func fit3D(states []dynamo.State) (dynamo.State, float64, bool) {
	var lo, hi dynamo.State
	found := false
	for _, s := range states {
		if !s.IsValid() {
			continue
		}
		if !found {
			lo, hi, found = s, s, true
			continue
		}
		for i := range s {
			lo[i] = math.Min(lo[i], s[i])
			hi[i] = math.Max(hi[i], s[i])
		}
	}
	if !found {
		return dynamo.State{}, 0, false
	}
	span := 0.0
	var center dynamo.State
	for i := range lo {
		center[i] = (lo[i] + hi[i]) / 2
		span = math.Max(span, hi[i]-lo[i])
	}
	if span == 0 {
		span = 1
	}
	if math.IsInf(span, 0) || !center.IsValid() {
		return dynamo.State{}, 0, false
	}
	return center, 2 / span, true
}

// sceneAxis is the half-length of the drawn axes; trails fit in [-1, 1].
const sceneAxis = 1.2

// SceneWireframe is the trail of states with the x, y and z axes through
// the center of its bounding box.
func SceneWireframe(states []dynamo.State) *Wireframe {
	w := TrailWireframe(states)
	w.Merge(CreateAxesWireframe(sceneAxis))
	return w
}

// CreateAxesWireframe draws the three axes from the origin. Screen y is
// state z, matching TrailWireframe.
func CreateAxesWireframe(l float64) *Wireframe {
	w, o := NewWireframe(), Vec3{0, 0, 0}
	w.AddEdge(o, Vec3{l, 0, 0}, 'X')
	w.AddEdge(o, Vec3{0, 0, l}, 'Y')
	w.AddEdge(o, Vec3{0, l, 0}, 'Z')
	return w
}

// Merge appends the edges of o.
func (w *Wireframe) Merge(o *Wireframe) {
	w.Edges = append(w.Edges, o.Edges...)
}
