package metrics

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/golang/geo/r2"

	"github.com/san-kum/driftmesh/internal/mesh"
	"github.com/san-kum/driftmesh/internal/render"
)

func rightTriangle() render.FrameInfo {
	pts := []mesh.Point{
		{Pos: r2.Point{X: 0, Y: 0}},
		{Pos: r2.Point{X: 4, Y: 0}},
		{Pos: r2.Point{X: 0, Y: 4}},
	}
	return render.FrameInfo{Points: pts, Triangles: []mesh.Triangle{{0, 1, 2}}}
}

func TestTriangleCount(t *testing.T) {
	m := NewTriangleCount()
	if m.Value() != 0 {
		t.Errorf("expected 0 before samples")
	}
	m.Observe(render.FrameInfo{Triangles: make([]mesh.Triangle, 10)})
	m.Observe(render.FrameInfo{Triangles: make([]mesh.Triangle, 20)})
	if m.Value() != 15 {
		t.Errorf("expected mean 15, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %f", m.Value())
	}
}

func TestMinAngle(t *testing.T) {
	m := NewMinAngle()
	m.Observe(rightTriangle())
	if math.Abs(m.Value()-45) > 1e-9 {
		t.Errorf("expected 45 degrees, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %f", m.Value())
	}
}

func TestMaxDrift(t *testing.T) {
	m := NewMaxDrift()
	m.Observe(render.FrameInfo{Points: []mesh.Point{
		{Pos: r2.Point{X: 3, Y: 4}},
		{Pos: r2.Point{X: 100, Y: 0}, Anchor: true},
	}})
	if m.Value() != 5 {
		t.Errorf("expected 5, got %f", m.Value())
	}
}

func TestHealth(t *testing.T) {
	h := NewHealth()
	if h.Value() != 1 {
		t.Errorf("expected 1 with no samples")
	}
	h.Observe(render.FrameInfo{})
	h.Observe(render.FrameInfo{Err: errors.New("x")})
	if h.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", h.Value())
	}
}

func TestFrameTime(t *testing.T) {
	f := NewFrameTime()
	f.Observe(render.FrameInfo{Simulate: time.Millisecond, Triangulate: 2 * time.Millisecond, Paint: time.Millisecond})
	f.Observe(render.FrameInfo{Paint: 2 * time.Millisecond})
	if f.Value() != 3 {
		t.Errorf("expected 3ms, got %f", f.Value())
	}
}

func TestSetAsObserver(t *testing.T) {
	s := Standard()
	info := rightTriangle()
	s.OnFrame(info)
	vals := s.Values()
	for _, name := range []string{"triangles", "min_angle", "max_drift", "frame_ms", "health"} {
		if _, ok := vals[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
	if vals["triangles"] != 1 {
		t.Errorf("expected 1 triangle, got %f", vals["triangles"])
	}
	s.Reset()
	if s.Values()["triangles"] != 0 {
		t.Error("reset did not propagate")
	}
}

func TestIdleMeshQuality(t *testing.T) {
	f, err := mesh.NewField(mesh.DefaultParams(), 800, 600, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	drift := NewMaxDrift()
	count := NewTriangleCount()
	for i := 0; i < 300; i++ {
		f.Step()
		tris, err := f.Triangulate()
		if err != nil {
			t.Fatal(err)
		}
		info := render.FrameInfo{Points: f.Points(), Triangles: tris}
		drift.Observe(info)
		count.Observe(info)
	}
	if drift.Value() > mesh.DefaultDriftRadius*math.Sqrt2+1e-9 {
		t.Errorf("idle drift %f exceeds radius bound", drift.Value())
	}
	// 2n - 2 - h triangles for n points with h on the hull
	n := float64(f.Len())
	if count.Value() < n || count.Value() > 2*n {
		t.Errorf("unexpected mean triangle count %f for %v points", count.Value(), n)
	}
}
