package surface

import (
	"image/color"
	"math/rand"
	"testing"

	"github.com/tfriedel6/canvas"
	"github.com/tfriedel6/canvas/backend/softwarebackend"

	"github.com/san-kum/driftmesh/internal/palette"
	"github.com/san-kum/driftmesh/internal/render"
)

func TestSoftwareFrame(t *testing.T) {
	backend := softwarebackend.New(120, 90)
	s := New(canvas.New(backend))

	r, err := render.New(s, render.Viewport{Width: 120, Height: 90, PixelRatio: 1},
		render.WithTheme(palette.Light), render.WithRand(rand.New(rand.NewSource(2))))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Frame(); err != nil {
		t.Fatal(err)
	}

	if w, h := s.Size(); w != 120 || h != 90 {
		t.Fatalf("unexpected size %dx%d", w, h)
	}
	opaque := 0
	for y := 0; y < 90; y += 5 {
		for x := 0; x < 120; x += 5 {
			if backend.Image.RGBAAt(x, y).A == 255 {
				opaque++
			}
		}
	}
	if opaque == 0 {
		t.Error("frame left the canvas transparent")
	}
}

func TestFillRect(t *testing.T) {
	backend := softwarebackend.New(10, 10)
	s := New(canvas.New(backend))
	ctx := s.Context()
	ctx.SetFillColor(color.NRGBA{R: 255, A: 255})
	ctx.FillRect(0, 0, 10, 10)
	if got := backend.Image.RGBAAt(5, 5); got.R != 255 || got.A != 255 {
		t.Errorf("expected red, got %v", got)
	}
}
