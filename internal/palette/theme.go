// Package palette maps pointer proximity, time and position to triangle
// colours. A Theme is pure data; Shade is the single colour function shared
// by every theme.
package palette

import (
	"image/color"
	"sort"

	"github.com/pkg/errors"
)

// ErrUnknownTheme is returned by Lookup for a name with no registered theme.
var ErrUnknownTheme = errors.New("palette: unknown theme")

// Theme is the parameter set that turns pointer proximity, time and
// position into triangle colours. The two built-in themes share the same
// colour function and differ only in these constants.
type Theme struct {
	Name       string
	Background color.NRGBA

	// Hue in degrees: BaseHue + position span + clock drift, then swung by
	// HueSwing·HueSign as the pointer gets close.
	BaseHue    float64
	HueSpan    float64
	HueDrift   float64
	HueSwing   float64
	HueSign    float64
	SpeedSwing float64

	// Saturation and lightness in percent.
	SatBase      float64
	SatGain      float64
	LightBase    float64
	LightWave    float64
	LightMouse   float64
	LightHotspot float64
	LightSpeed   float64

	AlphaBase    float64
	AlphaMouse   float64
	AlphaHotspot float64

	// Proximity-driven stroke, used when StrokeColor is nil.
	EdgeHueShift   float64
	EdgeSatShift   float64
	EdgeLightShift float64
	EdgeAlphaBase  float64
	EdgeAlphaMouse float64
	EdgeAlphaHot   float64

	// StrokeColor, when set, replaces the proximity-driven stroke.
	StrokeColor *color.NRGBA
	LineWidth   float64

	// Glow overlays a radial gradient at the pointer.
	Glow       bool
	GlowInner  color.NRGBA
	GlowOuter  color.NRGBA
	GlowFactor float64
}

var (
	// Dark is the live site palette: near-black blue-grey, teal cells that
	// swing to warm amber under the cursor.
	Dark = Theme{
		Name:           "dark",
		Background:     color.NRGBA{R: 0x06, G: 0x0c, B: 0x10, A: 0xff},
		BaseHue:        185,
		HueSpan:        20,
		HueDrift:       8,
		HueSwing:       160,
		HueSign:        -1,
		SpeedSwing:     0.4,
		SatBase:        40,
		SatGain:        38,
		LightBase:      6,
		LightWave:      3,
		LightMouse:     38,
		LightHotspot:   28,
		LightSpeed:     15,
		AlphaBase:      0.18,
		AlphaMouse:     0.45,
		AlphaHotspot:   0.25,
		EdgeHueShift:   15,
		EdgeSatShift:   12,
		EdgeLightShift: 15,
		EdgeAlphaBase:  0.25,
		EdgeAlphaMouse: 0.55,
		EdgeAlphaHot:   0.3,
		LineWidth:      0.6,
		Glow:           true,
		GlowInner:      hsla(20, 0.55, 0.55, 0.08),
		GlowOuter:      hsla(195, 0.50, 0.35, 0),
		GlowFactor:     0.7,
	}

	// Light is the paper variant: pale cells that darken and saturate near
	// the cursor, outlined with a heavy constant ink stroke.
	Light = Theme{
		Name:         "light",
		Background:   color.NRGBA{R: 0xf4, G: 0xf1, B: 0xea, A: 0xff},
		BaseHue:      30,
		HueSpan:      24,
		HueDrift:     6,
		HueSwing:     140,
		HueSign:      1,
		SpeedSwing:   0.3,
		SatBase:      18,
		SatGain:      52,
		LightBase:    94,
		LightWave:    2,
		LightMouse:   -30,
		LightHotspot: -14,
		LightSpeed:   -8,
		AlphaBase:    0.10,
		AlphaMouse:   0.50,
		AlphaHotspot: 0.30,
		StrokeColor:  &color.NRGBA{R: 0x1c, G: 0x1a, B: 0x17, A: 0x8c},
		LineWidth:    1.4,
	}

	themes = map[string]Theme{
		Dark.Name:  Dark,
		Light.Name: Light,
	}
)

// Lookup returns the theme registered under name.
func Lookup(name string) (Theme, error) {
	t, ok := themes[name]
	if !ok {
		return Theme{}, errors.Wrapf(ErrUnknownTheme, "%q (have %v)", name, Names())
	}
	return t, nil
}

// Names lists the registered theme names in sorted order.
func Names() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Next returns the theme after name in Names order, wrapping around.
func Next(name string) Theme {
	names := Names()
	for i, n := range names {
		if n == name {
			return themes[names[(i+1)%len(names)]]
		}
	}
	return themes[names[0]]
}
