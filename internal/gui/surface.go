package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/driftmesh/internal/palette"
	"github.com/san-kum/driftmesh/internal/render"
)

// drawer is the slice of raylib the painter needs.
type drawer interface {
	triangle(a, b, c rl.Vector2, col rl.Color)
	triangleLines(a, b, c rl.Vector2, col rl.Color)
	line(a, b rl.Vector2, width float32, col rl.Color)
	rect(pos, size rl.Vector2, col rl.Color)
	glow(center rl.Vector2, radius float32, inner, outer rl.Color, clipPos, clipSize rl.Vector2)
}

type raylibDrawer struct{}

func (raylibDrawer) triangle(a, b, c rl.Vector2, col rl.Color)      { rl.DrawTriangle(a, b, c, col) }
func (raylibDrawer) triangleLines(a, b, c rl.Vector2, col rl.Color) { rl.DrawTriangleLines(a, b, c, col) }
func (raylibDrawer) line(a, b rl.Vector2, w float32, col rl.Color)  { rl.DrawLineEx(a, b, w, col) }
func (raylibDrawer) rect(pos, size rl.Vector2, col rl.Color)        { rl.DrawRectangleV(pos, size, col) }

func (raylibDrawer) glow(center rl.Vector2, radius float32, inner, outer rl.Color, clipPos, clipSize rl.Vector2) {
	rl.BeginScissorMode(int32(clipPos.X), int32(clipPos.Y), int32(clipSize.X), int32(clipSize.Y))
	rl.DrawCircleGradient(int32(center.X), int32(center.Y), radius, inner, outer)
	rl.EndScissorMode()
}

// Surface is a render.Surface that draws straight into the raylib window.
// Frames must be painted between rl.BeginDrawing and rl.EndDrawing.
type Surface struct {
	p *painter
}

func NewSurface() *Surface { return newSurface(raylibDrawer{}) }

func newSurface(d drawer) *Surface {
	return &Surface{p: &painter{draw: d, ratio: 1, lineWidth: 1}}
}

// Resize resets scaling. raylib resizes the framebuffer with the window.
func (s *Surface) Resize(width, height int) { s.p.ratio = 1 }

func (s *Surface) Scale(ratio float64) { s.p.ratio = ratio }

func (s *Surface) Context() render.Context { return s.p }

// painter collects canvas-style paths and flushes them as raylib
// primitives on Fill and Stroke.
type painter struct {
	draw      drawer
	ratio     float64
	fill      rl.Color
	stroke    rl.Color
	lineWidth float64
	path      []rl.Vector2
	closed    bool
}

func (p *painter) SetFillColor(c color.Color)   { p.fill = toColor(c) }
func (p *painter) SetStrokeColor(c color.Color) { p.stroke = toColor(c) }
func (p *painter) SetLineWidth(w float64)       { p.lineWidth = w }

func (p *painter) FillRect(x, y, w, h float64) {
	p.draw.rect(p.vec(x, y), p.size(w, h), p.fill)
}

func (p *painter) BeginPath() {
	p.path = p.path[:0]
	p.closed = false
}

func (p *painter) MoveTo(x, y float64) {
	p.path = append(p.path[:0], p.vec(x, y))
	p.closed = false
}

func (p *painter) LineTo(x, y float64) { p.path = append(p.path, p.vec(x, y)) }
func (p *painter) ClosePath()          { p.closed = true }

// Fill fans the path out from its first vertex. raylib only fills
// triangles wound counter-clockwise on screen, so each one is reordered.
func (p *painter) Fill() {
	for i := 2; i < len(p.path); i++ {
		a, b, c := ccw(p.path[0], p.path[i-1], p.path[i])
		p.draw.triangle(a, b, c, p.fill)
	}
}

func (p *painter) Stroke() {
	n := len(p.path)
	if n < 2 {
		return
	}
	w := float32(p.lineWidth * p.ratio)
	if n == 3 && p.closed && w <= 1 {
		p.draw.triangleLines(p.path[0], p.path[1], p.path[2], p.stroke)
		return
	}
	for i := 1; i < n; i++ {
		p.draw.line(p.path[i-1], p.path[i], w, p.stroke)
	}
	if p.closed {
		p.draw.line(p.path[n-1], p.path[0], w, p.stroke)
	}
}

// FillRadialGradient draws the first and last stops as a circle gradient
// clipped to the rectangle; raylib has no multi-stop gradients.
func (p *painter) FillRadialGradient(cx, cy, r float64, stops []palette.Stop, x, y, w, h float64) {
	if len(stops) == 0 {
		return
	}
	inner := toColor(stops[0].Color)
	outer := toColor(stops[len(stops)-1].Color)
	p.draw.glow(p.vec(cx, cy), float32(r*p.ratio), inner, outer, p.vec(x, y), p.size(w, h))
}

func (p *painter) vec(x, y float64) rl.Vector2 {
	return rl.NewVector2(float32(x*p.ratio), float32(y*p.ratio))
}

func (p *painter) size(w, h float64) rl.Vector2 { return p.vec(w, h) }

// ccw orders a, b, c counter-clockwise as seen on a y-down screen.
func ccw(a, b, c rl.Vector2) (rl.Vector2, rl.Vector2, rl.Vector2) {
	if cross(a, b, c) > 0 {
		return a, c, b
	}
	return a, b, c
}

func cross(a, b, c rl.Vector2) float32 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// toColor converts to raylib's straight-alpha colour.
func toColor(c color.Color) rl.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return rl.NewColor(n.R, n.G, n.B, n.A)
}
