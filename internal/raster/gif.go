package raster

import (
	"image"
	"image/draw"
	"image/gif"
	"io"
	"os"

	stdpalette "image/color/palette"

	"github.com/pkg/errors"

	"github.com/san-kum/driftmesh/internal/render"
)

// ErrNoFrames is returned when encoding a recording with nothing captured.
var ErrNoFrames = errors.New("raster: no frames captured")

// GIFRecorder captures every Nth frame of a Surface as a paletted image.
// Register it with render.Renderer.AddObserver.
type GIFRecorder struct {
	surface *Surface
	every   int64
	limit   int
	delay   int
	frames  []*image.Paletted
}

// NewGIFRecorder captures one frame in every and stops after limit frames.
// delay is the per-frame delay in 100ths of a second.
func NewGIFRecorder(s *Surface, every int64, limit, delay int) *GIFRecorder {
	if every < 1 {
		every = 1
	}
	return &GIFRecorder{surface: s, every: every, limit: limit, delay: delay}
}

func (g *GIFRecorder) OnFrame(info render.FrameInfo) {
	if info.Index%g.every != 0 {
		return
	}
	if g.limit > 0 && len(g.frames) >= g.limit {
		return
	}
	src := g.surface.Image()
	dst := image.NewPaletted(src.Bounds(), stdpalette.Plan9)
	draw.FloydSteinberg.Draw(dst, dst.Bounds(), src, src.Bounds().Min)
	g.frames = append(g.frames, dst)
}

// Len returns the number of captured frames.
func (g *GIFRecorder) Len() int { return len(g.frames) }

// Encode writes the looping animation to w.
func (g *GIFRecorder) Encode(w io.Writer) error {
	if len(g.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, f := range g.frames {
		anim.Image = append(anim.Image, f)
		anim.Delay = append(anim.Delay, g.delay)
	}
	return errors.Wrap(gif.EncodeAll(w, &anim), "encoding gif")
}

// Save writes the animation to path.
func (g *GIFRecorder) Save(path string) (err error) {
	if len(g.frames) == 0 {
		return ErrNoFrames
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return g.Encode(f)
}
