// Package surface adapts a tfriedel6/canvas Canvas, GL or software
// backed, to render.Surface.
package surface

import (
	"image/color"

	"github.com/tfriedel6/canvas"

	"github.com/san-kum/driftmesh/internal/palette"
	"github.com/san-kum/driftmesh/internal/render"
)

// Canvas paints through cv. The backing store belongs to cv's backend, so
// Resize only resets the transform.
type Canvas struct {
	cv *canvas.Canvas
}

func New(cv *canvas.Canvas) *Canvas { return &Canvas{cv: cv} }

func (c *Canvas) Resize(width, height int) { c.cv.SetTransform(1, 0, 0, 1, 0, 0) }

func (c *Canvas) Scale(ratio float64) { c.cv.Scale(ratio, ratio) }

func (c *Canvas) Context() render.Context { return c }

// Size reports the drawable size in device pixels.
func (c *Canvas) Size() (int, int) { return c.cv.Width(), c.cv.Height() }

func (c *Canvas) SetFillColor(clr color.Color)   { c.cv.SetFillStyle(clr) }
func (c *Canvas) SetStrokeColor(clr color.Color) { c.cv.SetStrokeStyle(clr) }
func (c *Canvas) SetLineWidth(w float64)         { c.cv.SetLineWidth(w) }
func (c *Canvas) FillRect(x, y, w, h float64)    { c.cv.FillRect(x, y, w, h) }
func (c *Canvas) BeginPath()                     { c.cv.BeginPath() }
func (c *Canvas) MoveTo(x, y float64)            { c.cv.MoveTo(x, y) }
func (c *Canvas) LineTo(x, y float64)            { c.cv.LineTo(x, y) }
func (c *Canvas) ClosePath()                     { c.cv.ClosePath() }
func (c *Canvas) Fill()                          { c.cv.Fill() }
func (c *Canvas) Stroke()                        { c.cv.Stroke() }

func (c *Canvas) FillRadialGradient(cx, cy, r float64, stops []palette.Stop, x, y, w, h float64) {
	g := c.cv.CreateRadialGradient(cx, cy, 0, cx, cy, r)
	for _, s := range stops {
		g.AddColorStop(s.Offset, s.Color)
	}
	c.cv.SetFillStyle(g)
	c.cv.FillRect(x, y, w, h)
}
