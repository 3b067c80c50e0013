package render

import (
	"image/color"
	"math"

	"github.com/san-kum/driftmesh/internal/palette"
)

// MaxPixelRatio caps the device pixel ratio used to size the backing store.
const MaxPixelRatio = 2.0

// Context is an immediate-mode 2D paint context. Paths follow canvas
// semantics: Fill and Stroke leave the current path in place until the
// next BeginPath.
type Context interface {
	SetFillColor(c color.Color)
	SetStrokeColor(c color.Color)
	SetLineWidth(w float64)
	FillRect(x, y, w, h float64)
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
	Fill()
	Stroke()
	// FillRadialGradient fills the rectangle x, y, w, h with a radial
	// gradient centred at cx, cy running from radius 0 to r.
	FillRadialGradient(cx, cy, r float64, stops []palette.Stop, x, y, w, h float64)
}

// Surface is a drawable backing store measured in device pixels.
type Surface interface {
	// Resize sets the backing store size and resets any scaling.
	Resize(width, height int)
	// Scale maps CSS pixels to device pixels for subsequent painting.
	Scale(ratio float64)
	Context() Context
}

// Viewport is the host's visible area in CSS pixels.
type Viewport struct {
	Width      float64
	Height     float64
	PixelRatio float64
}

// Ratio returns the device pixel ratio clamped to (0, MaxPixelRatio].
func (v Viewport) Ratio() float64 {
	r := v.PixelRatio
	if r <= 0 || math.IsNaN(r) {
		r = 1
	}
	return math.Min(r, MaxPixelRatio)
}

// Device returns the backing store size in device pixels.
func (v Viewport) Device() (int, int) {
	r := v.Ratio()
	return int(math.Round(v.Width * r)), int(math.Round(v.Height * r))
}
