package raster

import (
	"bytes"
	"errors"
	"image/color"
	"image/gif"
	"image/png"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/san-kum/driftmesh/internal/palette"
	"github.com/san-kum/driftmesh/internal/render"
)

func newRenderer(t *testing.T, s *Surface, theme palette.Theme) *render.Renderer {
	t.Helper()
	r, err := render.New(s, render.Viewport{Width: 160, Height: 120, PixelRatio: 2},
		render.WithTheme(theme), render.WithRand(rand.New(rand.NewSource(3))))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestSurfaceSize(t *testing.T) {
	s := New()
	newRenderer(t, s, palette.Dark)
	if w, h := s.Size(); w != 320 || h != 240 {
		t.Fatalf("expected 320x240, got %dx%d", w, h)
	}
}

func TestPainterFillsTriangle(t *testing.T) {
	s := New()
	s.Resize(20, 20)
	ctx := s.Context()

	ctx.SetFillColor(color.NRGBA{A: 255})
	ctx.FillRect(0, 0, 20, 20)

	ctx.BeginPath()
	ctx.MoveTo(0, 0)
	ctx.LineTo(20, 0)
	ctx.LineTo(0, 20)
	ctx.ClosePath()
	ctx.SetFillColor(color.NRGBA{R: 255, A: 255})
	ctx.Fill()
	// the path survives Fill, so Stroke outlines the same triangle
	ctx.SetStrokeColor(color.NRGBA{G: 255, A: 255})
	ctx.Stroke()

	img := s.Image()
	if r, _, _, _ := img.At(4, 4).RGBA(); r>>8 != 255 {
		t.Errorf("expected red inside triangle, got %v", img.At(4, 4))
	}
	if r, g, b, _ := img.At(17, 17).RGBA(); r != 0 || g != 0 || b != 0 {
		t.Errorf("expected background outside triangle, got %v", img.At(17, 17))
	}
	if _, g, _, _ := img.At(10, 0).RGBA(); g == 0 {
		t.Errorf("expected stroke on top edge, got %v", img.At(10, 0))
	}
}

func TestRadialGradientFollowsScale(t *testing.T) {
	s := New()
	s.Resize(400, 400)
	s.Scale(2)
	stops := []palette.Stop{
		{Offset: 0, Color: color.NRGBA{R: 255, A: 255}},
		{Offset: 1, Color: color.NRGBA{R: 255}},
	}
	s.Context().FillRadialGradient(100, 100, 50, stops, 0, 0, 200, 200)

	img := s.Image()
	if r, _, _, a := img.At(200, 200).RGBA(); r>>8 < 250 || a>>8 < 250 {
		t.Errorf("expected opaque red at the scaled centre, got %v", img.At(200, 200))
	}
	// (100, 100) in device pixels is 70 CSS px from the centre, past r=50
	if _, _, _, a := img.At(100, 100).RGBA(); a != 0 {
		t.Errorf("expected transparent outside the scaled radius, got %v", img.At(100, 100))
	}
	// 40 CSS px from the centre is inside the radius
	if _, _, _, a := img.At(200+80, 200).RGBA(); a == 0 {
		t.Errorf("expected glow within the scaled radius, got %v", img.At(280, 200))
	}
}

func TestFrameCoversBackground(t *testing.T) {
	s := New()
	r := newRenderer(t, s, palette.Light)
	if err := r.Frame(); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	// every pixel is painted opaque: background first, triangles over it
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 7 {
		for x := b.Min.X; x < b.Max.X; x += 7 {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				t.Fatalf("pixel (%d,%d) not opaque: %v", x, y, img.At(x, y))
			}
		}
	}
}

func TestGIFRecorder(t *testing.T) {
	s := New()
	r := newRenderer(t, s, palette.Dark)
	rec := NewGIFRecorder(s, 2, 3, 4)
	r.AddObserver(rec)

	if err := rec.Save(filepath.Join(t.TempDir(), "empty.gif")); !errors.Is(err, ErrNoFrames) {
		t.Fatalf("expected ErrNoFrames, got %v", err)
	}

	for i := 0; i < 10; i++ {
		if err := r.Frame(); err != nil {
			t.Fatal(err)
		}
	}
	if rec.Len() != 3 {
		t.Fatalf("expected 3 captured frames, got %d", rec.Len())
	}

	var buf bytes.Buffer
	if err := rec.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 3 || anim.Delay[0] != 4 {
		t.Errorf("unexpected animation: %d frames, delay %v", len(anim.Image), anim.Delay)
	}
	if b := anim.Image[0].Bounds(); b.Dx() != 320 || b.Dy() != 240 {
		t.Errorf("unexpected frame size %v", b)
	}
}
