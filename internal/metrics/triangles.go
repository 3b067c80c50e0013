package metrics

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/san-kum/driftmesh/internal/render"
)

type TriangleCount struct {
	name    string
	sum     float64
	samples int
}

func NewTriangleCount() *TriangleCount {
	return &TriangleCount{
		name: "triangles",
	}
}

func (c *TriangleCount) Name() string {
	return c.name
}

func (c *TriangleCount) Observe(info render.FrameInfo) {
	c.sum += float64(len(info.Triangles))
	c.samples++
}

// Value is the mean triangle count per frame.
func (c *TriangleCount) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *TriangleCount) Reset() {
	c.sum = 0
	c.samples = 0
}

// MinAngle tracks the smallest interior angle, in degrees, of any triangle
// seen. Delaunay triangulations maximise it, so a sudden drop means slivers.
type MinAngle struct {
	name string
	min  float64
}

func NewMinAngle() *MinAngle {
	return &MinAngle{name: "min_angle", min: math.Inf(1)}
}

func (m *MinAngle) Name() string { return m.name }

func (m *MinAngle) Observe(info render.FrameInfo) {
	for _, t := range info.Triangles {
		a, b, c := info.Points[t[0]].Pos, info.Points[t[1]].Pos, info.Points[t[2]].Pos
		for _, ang := range [3]float64{angleAt(a, b, c), angleAt(b, c, a), angleAt(c, a, b)} {
			if ang < m.min {
				m.min = ang
			}
		}
	}
}

func (m *MinAngle) Value() float64 {
	if math.IsInf(m.min, 1) {
		return 0
	}
	return m.min
}

func (m *MinAngle) Reset() { m.min = math.Inf(1) }

// angleAt returns the angle at p between rays to q and r, in degrees.
func angleAt(p, q, r r2.Point) float64 {
	u, v := q.Sub(p), r.Sub(p)
	return math.Abs(math.Atan2(u.Cross(v), u.Dot(v))) * 180 / math.Pi
}
