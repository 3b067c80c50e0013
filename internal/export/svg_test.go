package export

import (
	"encoding/xml"
	"image/color"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/golang/geo/r2"

	"github.com/san-kum/driftmesh/internal/mesh"
	"github.com/san-kum/driftmesh/internal/palette"
	"github.com/san-kum/driftmesh/internal/render"
)

func wellFormed(t *testing.T, doc string) {
	t.Helper()
	d := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := d.Token()
		if err != nil {
			if err == io.EOF {
				return
			}
			t.Fatalf("malformed svg: %v", err)
		}
	}
}

func TestSVGFrame(t *testing.T) {
	s := NewSVG()
	r, err := render.New(s, render.Viewport{Width: 400, Height: 300, PixelRatio: 2},
		render.WithRand(rand.New(rand.NewSource(11))))
	if err != nil {
		t.Fatal(err)
	}
	r.Send(render.PointerMoved{X: 200, Y: 150})
	if err := r.Frame(); err != nil {
		t.Fatal(err)
	}

	doc := s.String()
	wellFormed(t, doc)

	if !strings.Contains(doc, `width="800" height="600"`) {
		t.Error("document not sized to device pixels")
	}
	if !strings.Contains(doc, `scale(2.000)`) {
		t.Error("missing pixel ratio transform")
	}
	if !strings.Contains(doc, `fill="#060c10"`) {
		t.Error("missing dark background")
	}
	if !strings.Contains(doc, `<radialGradient id="glow1"`) {
		t.Error("missing glow gradient")
	}

	tris := len(r.Triangles())
	if fills := strings.Count(doc, `<path d="M`); fills != 2*tris {
		t.Errorf("expected %d paths for %d triangles, got %d", 2*tris, tris, fills)
	}
}

func TestSVGResizeClears(t *testing.T) {
	s := NewSVG()
	s.Resize(10, 10)
	s.SetFillColor(color.NRGBA{R: 1, A: 255})
	s.FillRect(0, 0, 10, 10)
	s.Resize(20, 20)
	if strings.Contains(s.String(), "<rect") {
		t.Error("resize kept old elements")
	}
}

func TestSVGEmptyPath(t *testing.T) {
	s := NewSVG()
	s.Resize(10, 10)
	s.BeginPath()
	s.Fill()
	s.Stroke()
	if strings.Contains(s.String(), "<path") {
		t.Error("empty path emitted")
	}
}

func TestPaintOpacity(t *testing.T) {
	if got := paint("fill", color.NRGBA{R: 255, A: 255}); got != `fill="#ff0000"` {
		t.Errorf("opaque: %s", got)
	}
	if got := paint("stroke", color.NRGBA{B: 255, A: 51}); got != `stroke="#0000ff" stroke-opacity="0.200"` {
		t.Errorf("translucent: %s", got)
	}
}

func TestTrails(t *testing.T) {
	f, err := mesh.NewField(mesh.DefaultParams(), 300, 200, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatal(err)
	}
	trails := SampleTrails(f, 50)
	if len(trails) != mesh.DefaultPoints {
		t.Fatalf("expected %d trails, got %d", mesh.DefaultPoints, len(trails))
	}
	for i, tr := range trails {
		if len(tr) != 50 {
			t.Fatalf("trail %d has %d samples", i, len(tr))
		}
	}

	trails = append(trails, []r2.Point{{X: 1, Y: 1}})
	doc := TrailsToSVG(trails, 300, 200, palette.Light.Background, color.Black)
	wellFormed(t, doc)
	if n := strings.Count(doc, "<path"); n != mesh.DefaultPoints {
		t.Errorf("expected %d paths, got %d", mesh.DefaultPoints, n)
	}
}
