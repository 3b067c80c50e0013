package automation

import (
	"context"
	"errors"
	"image/color"
	"math/rand"
	"testing"
	"time"

	"github.com/san-kum/driftmesh/internal/palette"
	"github.com/san-kum/driftmesh/internal/render"
)

type nopSurface struct{}

func (nopSurface) Resize(_, _ int)         {}
func (nopSurface) Scale(float64)           {}
func (nopSurface) Context() render.Context { return nopContext{} }

type nopContext struct{}

func (nopContext) SetFillColor(color.Color)    {}
func (nopContext) SetStrokeColor(color.Color)  {}
func (nopContext) SetLineWidth(float64)        {}
func (nopContext) FillRect(_, _, _, _ float64) {}
func (nopContext) BeginPath()                  {}
func (nopContext) MoveTo(_, _ float64)         {}
func (nopContext) LineTo(_, _ float64)         {}
func (nopContext) ClosePath()                  {}
func (nopContext) Fill()                       {}
func (nopContext) Stroke()                     {}

func (nopContext) FillRadialGradient(_, _, _ float64, _ []palette.Stop, _, _, _, _ float64) {}

func newPlayer(t *testing.T) *render.Renderer {
	t.Helper()
	r, err := render.New(nopSurface{}, render.Viewport{Width: 320, Height: 240, PixelRatio: 1},
		render.WithRand(rand.New(rand.NewSource(5))),
		render.WithFrameInterval(time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestPlayRunsOnLoop(t *testing.T) {
	s := &Script{
		Name:   "resize",
		Frames: 20,
		Events: []Step{
			{Frame: 0, Kind: KindMove, X: 10, Y: 10},
			{Frame: 10, Kind: KindResize, Width: 640, Height: 480, PixelRatio: 1},
		},
	}
	r := newPlayer(t)

	var infos []render.FrameInfo
	res, err := s.Play(context.Background(), r, render.ObserverFunc(func(info render.FrameInfo) {
		infos = append(infos, info)
	}))
	if err != nil {
		t.Fatal(err)
	}
	if res.Frames != 20 || res.Failed != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if !r.Stopped() {
		t.Error("expected the renderer to be stopped")
	}

	// observers see the script's frames only, in order
	if len(infos) != 20 {
		t.Fatalf("expected 20 observed frames, got %d", len(infos))
	}
	for i, info := range infos {
		if info.Index != int64(i+1) {
			t.Fatalf("observed frame %d has index %d", i, info.Index)
		}
	}
	if vp := infos[9].Viewport; vp.Width != 320 {
		t.Errorf("script frame 9 should precede the resize, got %+v", vp)
	}
	if vp := infos[10].Viewport; vp.Width != 640 || vp.Height != 480 {
		t.Errorf("script frame 10 should be drawn resized, got %+v", vp)
	}
}

func TestPlayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := newPlayer(t)
	res, err := (&Script{Name: "long", Frames: 1 << 20}).Play(ctx, r)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if res.Frames >= 1<<20 || !r.Stopped() {
		t.Errorf("expected an early stop, got %+v stopped=%v", res, r.Stopped())
	}
}
