package mesh

import (
	"math"

	"github.com/golang/geo/r2"
)

// AnchorCount is the number of stationary boundary points appended after
// the drifting points.
const AnchorCount = 8

// OffCanvas is where the pointer sits until the first input event.
const OffCanvas = -9999

// Point is one simulated particle or boundary anchor.
type Point struct {
	Pos    r2.Point
	Origin r2.Point
	Phase  float64
	Speed  float64
	Anchor bool
}

// Displacement returns how far the point currently sits from its origin.
func (p Point) Displacement() float64 {
	return p.Pos.Sub(p.Origin).Norm()
}

// Triangle indexes three points of a Field.
type Triangle [3]int

// Centroid returns the centroid of t over pts.
func (t Triangle) Centroid(pts []Point) r2.Point {
	a, b, c := pts[t[0]].Pos, pts[t[1]].Pos, pts[t[2]].Pos
	return r2.Point{X: (a.X + b.X + c.X) / 3, Y: (a.Y + b.Y + c.Y) / 3}
}

// Pointer is the last known pointer location and its velocity.
type Pointer struct {
	Pos    r2.Point
	Prev   r2.Point
	Vel    r2.Point
	Active bool
}

func newPointer() Pointer {
	off := r2.Point{X: OffCanvas, Y: OffCanvas}
	return Pointer{Pos: off, Prev: off}
}

// Move records a new pointer position. The first move after construction
// has zero velocity since there is no earlier position to diff against.
func (p *Pointer) Move(x, y float64) {
	next := r2.Point{X: x, Y: y}
	if p.Active {
		p.Vel = next.Sub(p.Pos)
	} else {
		p.Vel = r2.Point{}
	}
	p.Prev = p.Pos
	p.Pos = next
	p.Active = true
}

// Speed returns the velocity magnitude divided by norm, clamped to [0, 1].
func (p Pointer) Speed(norm float64) float64 {
	if norm <= 0 {
		return 0
	}
	s := p.Vel.Norm() / norm
	if math.IsNaN(s) {
		return 0
	}
	return math.Min(s, 1)
}
