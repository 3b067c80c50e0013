package mesh

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r2"
)

func newTestField(t *testing.T, w, h float64) *Field {
	t.Helper()
	f, err := NewField(DefaultParams(), w, h, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("new field: %v", err)
	}
	return f
}

func TestNewFieldPointCount(t *testing.T) {
	f := newTestField(t, 800, 600)
	if f.Len() != DefaultPoints+AnchorCount {
		t.Fatalf("expected %d points, got %d", DefaultPoints+AnchorCount, f.Len())
	}
	for i, p := range f.Drifting() {
		if p.Anchor {
			t.Errorf("point %d: drifting point flagged as anchor", i)
		}
		if p.Phase < 0 || p.Phase >= 2*math.Pi {
			t.Errorf("point %d: phase %f out of range", i, p.Phase)
		}
		if p.Speed < DefaultSpeedMin || p.Speed >= DefaultSpeedMax {
			t.Errorf("point %d: speed %f out of range", i, p.Speed)
		}
		r := DefaultDriftRadius
		if p.Origin.X < -r || p.Origin.X > 800+r || p.Origin.Y < -r || p.Origin.Y > 600+r {
			t.Errorf("point %d: origin %v outside scatter bounds", i, p.Origin)
		}
	}
	for i, a := range f.Anchors() {
		if !a.Anchor || a.Speed != 0 || a.Phase != 0 {
			t.Errorf("anchor %d: unexpected %+v", i, a)
		}
	}
}

func TestNewFieldInvalidParams(t *testing.T) {
	p := DefaultParams()
	p.RepelRadius = p.InfluenceRadius
	if _, err := NewField(p, 800, 600, nil); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}

	p = DefaultParams()
	p.Points = 0
	if _, err := NewField(p, 800, 600, nil); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams for zero points, got %v", err)
	}
}

func TestAnchorsNeverMove(t *testing.T) {
	f := newTestField(t, 800, 600)
	want := AnchorPositions(800, 600, DefaultAnchorMargin)

	for i := 0; i < 500; i++ {
		if i%50 == 0 {
			f.MovePointer(float64(i), float64(i)/2)
		}
		f.Step()
		for j, a := range f.Anchors() {
			if a.Pos != a.Origin || a.Pos != want[j] {
				t.Fatalf("step %d: anchor %d moved to %v", i, j, a.Pos)
			}
		}
	}
}

func TestDriftBounded(t *testing.T) {
	f := newTestField(t, 800, 600)
	f.MovePointer(400, 300)
	limit := DefaultDriftRadius + f.Params().MaxPointerDisplacement() + 1e-9

	for i := 0; i < 2000; i++ {
		f.Step()
		for j, p := range f.Drifting() {
			if d := p.Displacement(); d > limit {
				t.Fatalf("step %d: point %d displaced %f > %f", i, j, d, limit)
			}
		}
	}
}

func TestDriftPeriodic(t *testing.T) {
	params := DefaultParams()
	p := Point{Origin: r2.Point{X: 100, Y: 200}, Phase: 1.3, Speed: 0.8}
	period := 2 * math.Pi * 100 / p.Speed

	for _, clk := range []float64{0, 0.006, 1.5, 12.345} {
		a := Drift(p, clk, params)
		b := Drift(p, clk+period, params)
		if a.Sub(b).Norm() > 1e-6 {
			t.Errorf("t=%f: %v != %v after one period", clk, a, b)
		}
	}
}

func TestInfluenceZones(t *testing.T) {
	params := DefaultParams()
	pointer := r2.Point{X: 0, Y: 0}

	tests := []struct {
		name string
		d    float64
		sign float64 // +1 toward pointer, -1 away, 0 none
	}{
		{"far", 500, 0},
		{"edge", 300, 0},
		{"attract", 200, 1},
		{"repel", 30, -1},
		{"on pointer", 0, 0},
	}

	for _, tt := range tests {
		pos := r2.Point{X: tt.d, Y: 0}
		disp := Influence(pos, pointer, params)
		toward := -disp.X
		switch {
		case tt.sign == 0 && disp.Norm() != 0:
			t.Errorf("%s: expected no displacement, got %v", tt.name, disp)
		case tt.sign > 0 && toward <= 0:
			t.Errorf("%s: expected attraction, got %v", tt.name, disp)
		case tt.sign < 0 && toward >= 0:
			t.Errorf("%s: expected repulsion, got %v", tt.name, disp)
		}
	}
}

func TestInfluenceContinuousAtRepelBoundary(t *testing.T) {
	params := DefaultParams()
	pointer := r2.Point{X: 400, Y: 300}
	dir := r2.Point{X: 0.6, Y: 0.8}

	for _, eps := range []float64{1e-3, 1e-6, 1e-9} {
		in := Influence(pointer.Add(dir.Mul(params.RepelRadius-eps)), pointer, params)
		out := Influence(pointer.Add(dir.Mul(params.RepelRadius+eps)), pointer, params)
		if gap := in.Sub(out).Norm(); gap > 10*eps+1e-9 {
			t.Errorf("eps=%g: jump of %g across repel boundary", eps, gap)
		}
	}

	in := Influence(pointer.Add(dir.Mul(params.InfluenceRadius-1e-9)), pointer, params)
	if in.Norm() > 1e-9 {
		t.Errorf("expected vanishing displacement at influence edge, got %v", in)
	}
}

func TestEndToEndIdlePointer(t *testing.T) {
	f := newTestField(t, 800, 600)
	anchors := append([]Point(nil), f.Anchors()...)

	for i := 0; i < 1000; i++ {
		f.Step()
	}

	if got := len(f.Drifting()); got != 90 {
		t.Fatalf("expected 90 drifting points, got %d", got)
	}
	for i, p := range f.Drifting() {
		if d := p.Displacement(); d > DefaultDriftRadius+1e-9 {
			t.Errorf("point %d: displaced %f beyond drift radius", i, d)
		}
	}
	for i, a := range f.Anchors() {
		if a.Pos != anchors[i].Pos {
			t.Errorf("anchor %d moved from %v to %v", i, anchors[i].Pos, a.Pos)
		}
	}
	if math.Abs(f.Clock()-1000*DefaultClockStep) > 1e-9 {
		t.Errorf("expected clock %f, got %f", 1000*DefaultClockStep, f.Clock())
	}
}

func TestResizeRegenerates(t *testing.T) {
	f := newTestField(t, 800, 600)
	for i := 0; i < 100; i++ {
		f.Step()
	}
	clk := f.Clock()

	f.Reset(1200, 900)

	if f.Len() != 98 {
		t.Fatalf("expected 98 points after resize, got %d", f.Len())
	}
	want := AnchorPositions(1200, 900, 20)
	for i, a := range f.Anchors() {
		if a.Pos != want[i] {
			t.Errorf("anchor %d at %v, expected %v", i, a.Pos, want[i])
		}
	}
	if want[3] != (r2.Point{X: 1220, Y: 920}) {
		t.Errorf("unexpected far corner %v", want[3])
	}
	if f.Clock() != clk {
		t.Errorf("resize reset the clock: %f -> %f", clk, f.Clock())
	}
	for i, p := range f.Drifting() {
		if p.Origin.X > 1200+DefaultDriftRadius || p.Origin.Y > 900+DefaultDriftRadius {
			t.Errorf("point %d: origin %v outside new bounds", i, p.Origin)
		}
	}
}

func TestTriangulationCoversViewport(t *testing.T) {
	for seed := int64(1); seed <= 3; seed++ {
		f, err := NewField(DefaultParams(), 800, 600, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatal(err)
		}
		f.MovePointer(300, 200)
		for i := 0; i < 50; i++ {
			f.Step()
		}

		tris, err := f.Triangulate()
		if err != nil {
			t.Fatalf("triangulate failed: %v", err)
		}

		pts := f.Points()
		for x := 0.0; x <= 800; x += 20 {
			for y := 0.0; y <= 600; y += 20 {
				if !covered(r2.Point{X: x, Y: y}, pts, tris) {
					t.Fatalf("seed %d: (%f, %f) not covered", seed, x, y)
				}
			}
		}
	}
}

func TestPointerFirstMoveHasZeroVelocity(t *testing.T) {
	f := newTestField(t, 800, 600)
	if f.Pointer().Active {
		t.Fatal("pointer should start inactive")
	}

	f.MovePointer(100, 100)
	if v := f.Pointer().Vel; v.Norm() != 0 {
		t.Errorf("expected zero velocity on first move, got %v", v)
	}

	f.TouchPointer(110, 120)
	p := f.Pointer()
	if p.Vel != (r2.Point{X: 10, Y: 20}) {
		t.Errorf("expected touch velocity (10, 20), got %v", p.Vel)
	}
	if p.Prev != (r2.Point{X: 100, Y: 100}) {
		t.Errorf("expected previous (100, 100), got %v", p.Prev)
	}
	if s := p.Speed(30); math.Abs(s-math.Sqrt(500)/30) > 1e-9 {
		t.Errorf("expected speed %f, got %f", math.Sqrt(500)/30, s)
	}
	if s := p.Speed(5); s != 1 {
		t.Errorf("expected clamped speed 1, got %f", s)
	}
}

func covered(q r2.Point, pts []Point, tris []Triangle) bool {
	const tol = 1e-9
	for _, tr := range tris {
		a, b, c := pts[tr[0]].Pos, pts[tr[1]].Pos, pts[tr[2]].Pos
		d1 := cross(a, b, q)
		d2 := cross(b, c, q)
		d3 := cross(c, a, q)
		neg := d1 < -tol || d2 < -tol || d3 < -tol
		pos := d1 > tol || d2 > tol || d3 > tol
		if !(neg && pos) {
			return true
		}
	}
	return false
}

func cross(a, b, q r2.Point) float64 {
	return (b.X-a.X)*(q.Y-a.Y) - (b.Y-a.Y)*(q.X-a.X)
}
