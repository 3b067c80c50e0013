package viz

import (
	"image/color"
	"math"

	"github.com/golang/geo/r2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/driftmesh/internal/palette"
	"github.com/san-kum/driftmesh/internal/render"
)

// Terminal cells map to a fixed block of viewport pixels.
const (
	CellWidth  = 8
	CellHeight = 16
)

// CellCenter returns the viewport position of the centre of cell (col, row).
func CellCenter(col, row int) (x, y float64) {
	return float64(col*CellWidth + CellWidth/2), float64(row*CellHeight + CellHeight/2)
}

// ViewportFor returns the viewport covered by a cols×rows grid.
func ViewportFor(cols, rows int) render.Viewport {
	return render.Viewport{Width: float64(cols * CellWidth), Height: float64(rows * CellHeight), PixelRatio: 1}
}

// Surface paints into a braille Canvas. Fills and gradients tint cell
// backgrounds; strokes set dots.
type Surface struct {
	canvas *Canvas
	scale  r2.Point

	path   []r2.Point
	start  int
	fill   color.NRGBA
	stroke color.NRGBA
}

func NewSurface() *Surface {
	return &Surface{canvas: NewCanvas(1, 1), scale: r2.Point{X: 0.25, Y: 0.25}}
}

// Resize takes a size in device pixels and rebuilds the cell grid.
func (s *Surface) Resize(width, height int) {
	s.canvas = NewCanvas(width/CellWidth, height/CellHeight)
	s.scale = r2.Point{X: 2.0 / CellWidth, Y: 4.0 / CellHeight}
}

func (s *Surface) Scale(ratio float64) { s.scale = s.scale.Mul(ratio) }

func (s *Surface) Context() render.Context { return s }

func (s *Surface) Canvas() *Canvas { return s.canvas }

func (s *Surface) SetFillColor(c color.Color)   { s.fill = toNRGBA(c) }
func (s *Surface) SetStrokeColor(c color.Color) { s.stroke = toNRGBA(c) }
func (s *Surface) SetLineWidth(float64)         {}

// dots maps a viewport position to dot coordinates.
func (s *Surface) dots(x, y float64) r2.Point {
	return r2.Point{X: x * s.scale.X, Y: y * s.scale.Y}
}

// cells yields every cell whose centre falls inside rect (in dots).
func (s *Surface) cells(rect r2.Rect, fn func(col, row int, centre r2.Point)) {
	c := s.canvas
	c0 := clampInt(int(math.Floor(rect.X.Lo/2)), 0, c.Width)
	c1 := clampInt(int(math.Ceil(rect.X.Hi/2)), 0, c.Width)
	r0 := clampInt(int(math.Floor(rect.Y.Lo/4)), 0, c.Height)
	r1 := clampInt(int(math.Ceil(rect.Y.Hi/4)), 0, c.Height)
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			centre := r2.Point{X: float64(col*2) + 1, Y: float64(row*4) + 2}
			if rect.ContainsPoint(centre) {
				fn(col, row, centre)
			}
		}
	}
}

// FillRect tints the covered cells. An opaque fill also clears their dots,
// which is how each frame erases the last.
func (s *Surface) FillRect(x, y, w, h float64) {
	rect := r2.RectFromPoints(s.dots(x, y), s.dots(x+w, y+h))
	opaque := s.fill.A == 0xff
	s.cells(rect, func(col, row int, _ r2.Point) {
		if opaque {
			s.canvas.ClearCell(col, row)
		}
		s.canvas.Blend(col, row, s.fill)
	})
}

func (s *Surface) BeginPath() {
	s.path = s.path[:0]
	s.start = 0
}

func (s *Surface) MoveTo(x, y float64) {
	s.start = len(s.path)
	s.path = append(s.path, s.dots(x, y))
}

func (s *Surface) LineTo(x, y float64) { s.path = append(s.path, s.dots(x, y)) }

func (s *Surface) ClosePath() {
	if len(s.path)-s.start > 1 {
		s.path = append(s.path, s.path[s.start])
	}
}

// Fill tints every cell whose centre lies inside the current path.
func (s *Surface) Fill() {
	if len(s.path) < 3 {
		return
	}
	rect := r2.RectFromPoints(s.path...)
	s.cells(rect, func(col, row int, centre r2.Point) {
		if insidePolygon(s.path, centre) {
			s.canvas.Blend(col, row, s.fill)
		}
	})
}

// Stroke draws the path edges as dots.
func (s *Surface) Stroke() {
	for i := 1; i < len(s.path); i++ {
		a, b := s.path[i-1], s.path[i]
		s.canvas.DrawLineColor(int(a.X), int(a.Y), int(b.X), int(b.Y), s.stroke)
	}
}

func (s *Surface) FillRadialGradient(cx, cy, r float64, stops []palette.Stop, x, y, w, h float64) {
	if len(stops) == 0 || r <= 0 {
		return
	}
	centre := s.dots(cx, cy)
	rect := r2.RectFromPoints(s.dots(x, y), s.dots(x+w, y+h))
	s.cells(rect, func(col, row int, p r2.Point) {
		// distances measured back in viewport pixels
		d := r2.Point{X: (p.X - centre.X) / s.scale.X, Y: (p.Y - centre.Y) / s.scale.Y}.Norm()
		s.canvas.Blend(col, row, gradientAt(stops, d/r))
	})
}

// gradientAt interpolates stops at offset t, clamping outside the range.
func gradientAt(stops []palette.Stop, t float64) color.NRGBA {
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t <= b.Offset {
			f := (t - a.Offset) / (b.Offset - a.Offset)
			return lerpColor(a.Color, b.Color, f)
		}
	}
	return stops[len(stops)-1].Color
}

func lerpColor(a, b color.NRGBA, f float64) color.NRGBA {
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	r, g, bl := ca.BlendRgb(cb, f).RGB255()
	return color.NRGBA{R: r, G: g, B: bl, A: uint8(float64(a.A) + (float64(b.A)-float64(a.A))*f + 0.5)}
}

// insidePolygon is the even-odd ray casting test.
func insidePolygon(poly []r2.Point, p r2.Point) bool {
	in := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

func toNRGBA(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
