package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/san-kum/driftmesh/internal/palette"
	"github.com/san-kum/driftmesh/internal/render"
)

// SVG is a render.Surface that records one frame as an SVG document.
// Resize discards anything drawn so far.
type SVG struct {
	width, height int
	ratio         float64
	body          strings.Builder
	defs          strings.Builder
	gradients     int

	path   strings.Builder
	fill   color.NRGBA
	stroke color.NRGBA
	line   float64
}

// NewSVG returns an empty surface; the renderer sizes it.
func NewSVG() *SVG {
	return &SVG{ratio: 1, line: 1}
}

func (s *SVG) Resize(width, height int) {
	s.width, s.height, s.ratio = width, height, 1
	s.body.Reset()
	s.defs.Reset()
	s.path.Reset()
	s.gradients = 0
}

func (s *SVG) Scale(ratio float64) { s.ratio *= ratio }

func (s *SVG) Context() render.Context { return s }

// Clear drops the recorded elements but keeps the size. Call it before a
// frame when only the last one should be written.
func (s *SVG) Clear() {
	s.body.Reset()
	s.defs.Reset()
	s.path.Reset()
	s.gradients = 0
}

func (s *SVG) SetFillColor(c color.Color)   { s.fill = nrgba(c) }
func (s *SVG) SetStrokeColor(c color.Color) { s.stroke = nrgba(c) }
func (s *SVG) SetLineWidth(w float64)       { s.line = w }

func (s *SVG) FillRect(x, y, w, h float64) {
	s.body.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" %s/>
`, x, y, w, h, paint("fill", s.fill)))
}

func (s *SVG) BeginPath()          { s.path.Reset() }
func (s *SVG) MoveTo(x, y float64) { s.path.WriteString(fmt.Sprintf("M%.2f,%.2f", x, y)) }
func (s *SVG) LineTo(x, y float64) { s.path.WriteString(fmt.Sprintf(" L%.2f,%.2f", x, y)) }
func (s *SVG) ClosePath()          { s.path.WriteString(" Z") }

func (s *SVG) Fill() {
	if s.path.Len() == 0 {
		return
	}
	s.body.WriteString(fmt.Sprintf(`<path d="%s" %s/>
`, s.path.String(), paint("fill", s.fill)))
}

func (s *SVG) Stroke() {
	if s.path.Len() == 0 {
		return
	}
	s.body.WriteString(fmt.Sprintf(`<path d="%s" fill="none" %s stroke-width="%.2f" stroke-linejoin="round"/>
`, s.path.String(), paint("stroke", s.stroke), s.line))
}

func (s *SVG) FillRadialGradient(cx, cy, r float64, stops []palette.Stop, x, y, w, h float64) {
	s.gradients++
	id := fmt.Sprintf("glow%d", s.gradients)
	s.defs.WriteString(fmt.Sprintf(`<radialGradient id="%s" gradientUnits="userSpaceOnUse" cx="%.2f" cy="%.2f" r="%.2f">
`, id, cx, cy, r))
	for _, st := range stops {
		s.defs.WriteString(fmt.Sprintf(`<stop offset="%.3f" stop-color="%s" stop-opacity="%.3f"/>
`, st.Offset, hex(st.Color), alpha(st.Color)))
	}
	s.defs.WriteString("</radialGradient>\n")
	s.body.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="url(#%s)"/>
`, x, y, w, h, id))
}

// String returns the complete document.
func (s *SVG) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, s.width, s.height, s.width, s.height))
	if s.defs.Len() > 0 {
		sb.WriteString("<defs>\n")
		sb.WriteString(s.defs.String())
		sb.WriteString("</defs>\n")
	}
	sb.WriteString(fmt.Sprintf(`<g transform="scale(%.3f)">
`, s.ratio))
	sb.WriteString(s.body.String())
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// WriteTo writes the document to w.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), errors.Wrap(err, "writing svg")
}

// Save writes the document to path.
func (s *SVG) Save(path string) error {
	return errors.Wrapf(os.WriteFile(path, []byte(s.String()), 0644), "saving %s", path)
}

// TrailsToSVG draws one polyline per trail in viewport coordinates over a
// flat background. Trails with fewer than two points are skipped.
func TrailsToSVG(trails [][]r2.Point, width, height float64, bg, stroke color.Color) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="none" %s stroke-width="1">
`, width, height, width, height, hex(nrgba(bg)), paint("stroke", nrgba(stroke))))

	for _, trail := range trails {
		if len(trail) < 2 {
			continue
		}
		sb.WriteString(`<path d="M`)
		for i, p := range trail {
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", p.X, p.Y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", p.X, p.Y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func nrgba(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func alpha(c color.NRGBA) float64 { return float64(c.A) / 255 }

func paint(attr string, c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf(`%s="%s"`, attr, hex(c))
	}
	return fmt.Sprintf(`%s="%s" %s-opacity="%.3f"`, attr, hex(c), attr, alpha(c))
}
