package mesh

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/fogleman/delaunay"
)

func randomPoints(n int, seed int64) []delaunay.Point {
	rng := rand.New(rand.NewSource(seed))
	pts := make([]delaunay.Point, n)
	for i := range pts {
		pts[i] = delaunay.Point{X: rng.Float64() * 800, Y: rng.Float64() * 600}
	}
	return pts
}

func circumcenter(a, b, c delaunay.Point) delaunay.Point {
	dx, dy := b.X-a.X, b.Y-a.Y
	ex, ey := c.X-a.X, c.Y-a.Y
	bl := dx*dx + dy*dy
	cl := ex*ex + ey*ey
	d := 0.5 / (dx*ey - dy*ex)
	return delaunay.Point{X: a.X + (ey*bl-dy*cl)*d, Y: a.Y + (dx*cl-ex*bl)*d}
}

func TestTriangulateSquare(t *testing.T) {
	pts := []delaunay.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	tris, err := triangulate(pts)
	if err != nil {
		t.Fatalf("triangulate failed: %v", err)
	}
	if len(tris) != 2 {
		t.Errorf("expected 2 triangles, got %d", len(tris))
	}
}

func TestTriangulateEmptyCircumcircle(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		pts := randomPoints(200, seed)
		tris, err := triangulate(pts)
		if err != nil {
			t.Fatalf("seed %d: triangulate failed: %v", seed, err)
		}

		for n, tr := range tris {
			a, b, c := pts[tr[0]], pts[tr[1]], pts[tr[2]]
			center := circumcenter(a, b, c)
			r := math.Hypot(center.X-a.X, center.Y-a.Y)
			for j, p := range pts {
				if j == tr[0] || j == tr[1] || j == tr[2] {
					continue
				}
				if d := math.Hypot(center.X-p.X, center.Y-p.Y); d < r-1e-6 {
					t.Fatalf("seed %d: point %d inside circumcircle of triangle %d (d=%f r=%f)", seed, j, n, d, r)
				}
			}
		}
	}
}

func TestTriangulateAreaMatchesHull(t *testing.T) {
	pts := randomPoints(150, 7)
	tris, err := triangulate(pts)
	if err != nil {
		t.Fatalf("triangulate failed: %v", err)
	}
	var triArea float64
	for _, tr := range tris {
		a, b, c := pts[tr[0]], pts[tr[1]], pts[tr[2]]
		triArea += math.Abs((b.X-a.X)*(c.Y-a.Y)-(c.X-a.X)*(b.Y-a.Y)) / 2
	}

	tri, err := delaunay.Triangulate(pts)
	if err != nil {
		t.Fatal(err)
	}
	var hullArea float64
	hull := tri.ConvexHull
	for i := range hull {
		p, q := hull[i], hull[(i+1)%len(hull)]
		hullArea += p.X*q.Y - q.X*p.Y
	}
	hullArea = math.Abs(hullArea) / 2

	if math.Abs(triArea-hullArea)/hullArea > 1e-9 {
		t.Errorf("triangle area %f does not match hull area %f", triArea, hullArea)
	}
}

func TestTriangulateDegenerate(t *testing.T) {
	tests := []struct {
		name string
		pts  []delaunay.Point
	}{
		{"empty", nil},
		{"two points", []delaunay.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}},
		{"collinear", []delaunay.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}},
		{"coincident", []delaunay.Point{{X: 5, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 5}}},
		{"nan", []delaunay.Point{{X: 0, Y: 0}, {X: math.NaN(), Y: 1}, {X: 2, Y: 0}}},
		{"inf", []delaunay.Point{{X: 0, Y: 0}, {X: 1, Y: math.Inf(1)}, {X: 2, Y: 0}}},
	}

	for _, tt := range tests {
		if _, err := triangulate(tt.pts); !errors.Is(err, ErrDegenerate) {
			t.Errorf("%s: expected ErrDegenerate, got %v", tt.name, err)
		}
	}
}

func TestTriangulateNearCoincident(t *testing.T) {
	pts := randomPoints(60, 11)
	pts = append(pts, pts[0], delaunay.Point{X: pts[1].X + 1e-12, Y: pts[1].Y})
	tris, err := triangulate(pts)
	if err != nil {
		t.Fatalf("triangulate failed: %v", err)
	}
	if len(tris) == 0 {
		t.Error("expected triangles for near-coincident input")
	}
}

func TestFieldTriangulateDegenerate(t *testing.T) {
	f := newTestField(t, 800, 600)
	f.Reset(math.NaN(), 600)
	if _, err := f.Triangulate(); !errors.Is(err, ErrDegenerate) {
		t.Errorf("expected ErrDegenerate for NaN viewport, got %v", err)
	}

	f.Reset(800, 600)
	if tris, err := f.Triangulate(); err != nil || len(tris) == 0 {
		t.Errorf("expected recovery after valid reset, got %d triangles, %v", len(tris), err)
	}
}
