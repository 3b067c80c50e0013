package mesh

import (
	"math"
	"math/rand"

	"github.com/fogleman/delaunay"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// Field owns the point set, the pointer state and the simulation clock.
type Field struct {
	params        Params
	rng           *rand.Rand
	width, height float64
	points        []Point
	positions     []delaunay.Point
	pointer       Pointer
	t             float64
}

// NewField builds a field for a width×height viewport. A nil rng falls back
// to a time-independent source seeded with 1.
func NewField(params Params, width, height float64, rng *rand.Rand) (*Field, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	f := &Field{
		params:  params,
		rng:     rng,
		pointer: newPointer(),
	}
	f.Reset(width, height)
	return f, nil
}

// Reset regenerates every point for a new viewport. The clock and pointer
// are kept.
func (f *Field) Reset(width, height float64) {
	f.width, f.height = width, height
	n := f.params.Points
	r := f.params.DriftRadius

	f.points = make([]Point, 0, n+AnchorCount)
	for i := 0; i < n; i++ {
		origin := r2.Point{
			X: -r + f.rng.Float64()*(width+2*r),
			Y: -r + f.rng.Float64()*(height+2*r),
		}
		f.points = append(f.points, Point{
			Pos:    origin,
			Origin: origin,
			Phase:  f.rng.Float64() * 2 * math.Pi,
			Speed:  f.params.SpeedMin + f.rng.Float64()*(f.params.SpeedMax-f.params.SpeedMin),
		})
	}

	for _, a := range AnchorPositions(width, height, f.params.AnchorMargin) {
		f.points = append(f.points, Point{Pos: a, Origin: a, Anchor: true})
	}
	f.positions = make([]delaunay.Point, len(f.points))
}

// AnchorPositions returns the four corners and four edge midpoints of the
// viewport pushed margin pixels outward.
func AnchorPositions(width, height, margin float64) [AnchorCount]r2.Point {
	return [AnchorCount]r2.Point{
		{X: -margin, Y: -margin},
		{X: width + margin, Y: -margin},
		{X: -margin, Y: height + margin},
		{X: width + margin, Y: height + margin},
		{X: width / 2, Y: -margin},
		{X: width / 2, Y: height + margin},
		{X: -margin, Y: height / 2},
		{X: width + margin, Y: height / 2},
	}
}

// Step advances the clock and recomputes every drifting point.
func (f *Field) Step() {
	f.t += f.params.ClockStep
	pointer := f.pointer.Pos
	parallelFor(len(f.points), stepChunk, func(start, end int) {
		for i := start; i < end; i++ {
			p := &f.points[i]
			if p.Anchor {
				continue
			}
			pos := Drift(*p, f.t, f.params)
			p.Pos = pos.Add(Influence(pos, pointer, f.params))
		}
	})
}

// MovePointer applies a mouse move.
func (f *Field) MovePointer(x, y float64) { f.pointer.Move(x, y) }

// TouchPointer applies a single-touch move. Touch velocity is tracked the
// same way as mouse velocity.
func (f *Field) TouchPointer(x, y float64) { f.pointer.Move(x, y) }

// Triangulate returns the Delaunay triangles of the current positions.
func (f *Field) Triangulate() ([]Triangle, error) {
	for i, p := range f.points {
		f.positions[i] = delaunay.Point{X: p.Pos.X, Y: p.Pos.Y}
	}
	tris, err := triangulate(f.positions)
	if err != nil {
		return nil, errors.Wrapf(err, "%d points at t=%.3f", len(f.points), f.t)
	}
	return tris, nil
}

func (f *Field) Points() []Point      { return f.points }
func (f *Field) Pointer() Pointer     { return f.pointer }
func (f *Field) Clock() float64       { return f.t }
func (f *Field) Params() Params       { return f.params }
func (f *Field) Size() (w, h float64) { return f.width, f.height }
func (f *Field) Len() int             { return len(f.points) }
func (f *Field) Drifting() []Point    { return f.points[:len(f.points)-AnchorCount] }
func (f *Field) Anchors() []Point     { return f.points[len(f.points)-AnchorCount:] }
