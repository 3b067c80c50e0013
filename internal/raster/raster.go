// Package raster paints frames into an in-memory RGBA image using gg.
package raster

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"

	"github.com/san-kum/driftmesh/internal/palette"
	"github.com/san-kum/driftmesh/internal/render"
)

// Surface is a render.Surface backed by a gg context.
type Surface struct {
	dc *gg.Context
}

// New returns a 1×1 surface; the renderer resizes it on construction.
func New() *Surface {
	return &Surface{dc: gg.NewContext(1, 1)}
}

func (s *Surface) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	s.dc = gg.NewContext(width, height)
}

func (s *Surface) Scale(ratio float64) { s.dc.Scale(ratio, ratio) }

func (s *Surface) Context() render.Context { return &painter{dc: s.dc} }

// Image returns the backing image. It is overwritten by the next frame.
func (s *Surface) Image() image.Image { return s.dc.Image() }

// Size returns the backing store size in device pixels.
func (s *Surface) Size() (int, int) { return s.dc.Width(), s.dc.Height() }

// SavePNG writes the current frame to path.
func (s *Surface) SavePNG(path string) error {
	return errors.Wrapf(s.dc.SavePNG(path), "saving %s", path)
}

// EncodePNG writes the current frame to w.
func (s *Surface) EncodePNG(w io.Writer) error {
	return errors.Wrap(s.dc.EncodePNG(w), "encoding png")
}

// painter adapts gg's path model to canvas semantics. gg clears the path
// on Fill and Stroke, so the preserving variants are used and BeginPath
// clears explicitly.
type painter struct {
	dc *gg.Context
}

func (p *painter) SetFillColor(c color.Color) { p.dc.SetFillStyle(gg.NewSolidPattern(c)) }

func (p *painter) SetStrokeColor(c color.Color) { p.dc.SetStrokeStyle(gg.NewSolidPattern(c)) }

func (p *painter) SetLineWidth(w float64) { p.dc.SetLineWidth(w) }

// FillRect fills with the current fill style. Unlike canvas, it discards
// the current path.
func (p *painter) FillRect(x, y, w, h float64) {
	p.dc.ClearPath()
	p.dc.DrawRectangle(x, y, w, h)
	p.dc.Fill()
}

func (p *painter) BeginPath()          { p.dc.ClearPath() }
func (p *painter) MoveTo(x, y float64) { p.dc.MoveTo(x, y) }
func (p *painter) LineTo(x, y float64) { p.dc.LineTo(x, y) }
func (p *painter) ClosePath()          { p.dc.ClosePath() }
func (p *painter) Fill()               { p.dc.FillPreserve() }
func (p *painter) Stroke()             { p.dc.StrokePreserve() }

// FillRadialGradient maps the gradient geometry to device pixels itself:
// gg samples gradient patterns in device space, ignoring the matrix.
func (p *painter) FillRadialGradient(cx, cy, r float64, stops []palette.Stop, x, y, w, h float64) {
	dx, dy := p.dc.TransformPoint(cx, cy)
	ex, ey := p.dc.TransformPoint(cx+r, cy)
	g := gg.NewRadialGradient(dx, dy, 0, dx, dy, math.Hypot(ex-dx, ey-dy))
	for _, s := range stops {
		g.AddColorStop(s.Offset, s.Color)
	}
	p.dc.ClearPath()
	p.dc.SetFillStyle(g)
	p.dc.DrawRectangle(x, y, w, h)
	p.dc.Fill()
}
