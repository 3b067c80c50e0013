package palette

import (
	"image/color"
	"math"

	"github.com/golang/geo/r2"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	// HotspotRadius bounds the sharp highlight under the cursor.
	HotspotRadius = 120.0
	// SpeedNorm is the pointer speed, in px per event, that saturates the
	// speed term.
	SpeedNorm = 30.0
)

// Sample is everything the colour function reads for one triangle.
type Sample struct {
	Centroid        r2.Point
	Pointer         r2.Point
	PointerSpeed    float64 // already normalised to [0, 1]
	Clock           float64
	Width, Height   float64
	InfluenceRadius float64
}

// Style is the fill and stroke for one triangle.
type Style struct {
	Fill   color.NRGBA
	Stroke color.NRGBA
}

// Factors returns the broad and sharp proximity factors for distance d.
func Factors(d, influence float64) (mouse, hotspot float64) {
	mouse = math.Max(0, 1-d/influence)
	hotspot = math.Max(0, 1-d/HotspotRadius)
	return mouse, hotspot
}

// Fill returns the fill hue in degrees and the saturation, lightness
// (both in percent, unclamped) and alpha for the triangle described by s.
func (t Theme) Fill(s Sample) (hue, sat, light, alpha float64) {
	d := s.Centroid.Sub(s.Pointer).Norm()
	mouse, hotspot := Factors(d, s.InfluenceRadius)
	speed := s.PointerSpeed

	var posHue float64
	if s.Width > 0 && s.Height > 0 {
		posHue = s.Centroid.X/s.Width*t.HueSpan + s.Centroid.Y/s.Height*t.HueSpan
	}
	timeCycle := math.Mod(s.Clock*t.HueDrift, 360)
	baseHue := wrapHue(t.BaseHue + posHue + timeCycle)
	hue = wrapHue(baseHue + t.HueSign*mouse*t.HueSwing*(1+speed*t.SpeedSwing))

	sat = t.SatBase + mouse*t.SatGain

	lBase := t.LightBase + math.Sin(s.Clock*2+s.Centroid.X*0.007)*t.LightWave
	light = lBase + mouse*t.LightMouse + hotspot*t.LightHotspot + speed*t.LightSpeed

	alpha = t.AlphaBase + mouse*t.AlphaMouse + hotspot*t.AlphaHotspot
	return hue, sat, light, alpha
}

// Shade computes the colours of the triangle described by s.
func (t Theme) Shade(s Sample) Style {
	hue, sat, light, alpha := t.Fill(s)

	style := Style{Fill: hsla(hue, sat/100, light/100, alpha)}
	if t.StrokeColor != nil {
		style.Stroke = *t.StrokeColor
		return style
	}

	mouse, hotspot := Factors(s.Centroid.Sub(s.Pointer).Norm(), s.InfluenceRadius)
	edgeAlpha := t.EdgeAlphaBase + mouse*t.EdgeAlphaMouse + hotspot*t.EdgeAlphaHot
	style.Stroke = hsla(wrapHue(hue+t.EdgeHueShift), (sat+t.EdgeSatShift)/100, (light+t.EdgeLightShift)/100, edgeAlpha)
	return style
}

// Stop is one colour stop of a radial gradient.
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// GlowStops returns the cursor glow gradient and its radius, or nil when
// the theme has no glow.
func (t Theme) GlowStops(influence float64) ([]Stop, float64) {
	if !t.Glow {
		return nil, 0
	}
	return []Stop{
		{Offset: 0, Color: t.GlowInner},
		{Offset: 1, Color: t.GlowOuter},
	}, influence * t.GlowFactor
}

func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// hsla converts hue in degrees and s, l, a in [0, 1] (clamped) to NRGBA.
func hsla(h, s, l, a float64) color.NRGBA {
	c := colorful.Hsl(h, clamp01(s), clamp01(l)).Clamped()
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp01(a) * 255))}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
