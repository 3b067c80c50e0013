// Package window hosts the mesh in an SDL window with an OpenGL canvas.
package window

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"github.com/tfriedel6/canvas/sdlcanvas"
	"go.uber.org/multierr"

	"github.com/san-kum/driftmesh/internal/logging"
	"github.com/san-kum/driftmesh/internal/palette"
	"github.com/san-kum/driftmesh/internal/render"
	"github.com/san-kum/driftmesh/internal/window/surface"
)

// SDL must stay on the thread that initialised it.
func init() { runtime.LockOSThread() }

// Options configures the window.
type Options struct {
	Title  string
	Width  int
	Height int
	Logger logging.Logger
}

// Run opens the window and renders into it until the window is closed,
// Escape is pressed or ctx is cancelled. It must be called from the main
// goroutine.
func Run(ctx context.Context, opts Options, renderOpts ...render.Option) (err error) {
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.Title == "" {
		opts.Title = "driftmesh"
	}

	wnd, cv, err := sdlcanvas.CreateWindow(opts.Width, opts.Height, opts.Title)
	if err != nil {
		return errors.Wrap(err, "creating window")
	}
	defer wnd.Destroy()

	vp := render.Viewport{
		Width:      float64(opts.Width),
		Height:     float64(opts.Height),
		PixelRatio: float64(cv.Width()) / float64(opts.Width),
	}
	r, err := render.New(surface.New(cv), vp, append(renderOpts, render.WithLogger(opts.Logger))...)
	if err != nil {
		return errors.Wrap(err, "creating renderer")
	}
	defer func() { err = multierr.Append(err, r.Stop()) }()

	theme := r.Theme().Name
	wnd.MouseMove = func(x, y int) {
		r.Send(render.PointerMoved{X: float64(x), Y: float64(y)})
	}
	wnd.SizeChange = func(w, h int) {
		r.Send(render.Resized{Viewport: render.Viewport{
			Width:      float64(w),
			Height:     float64(h),
			PixelRatio: float64(cv.Width()) / float64(w),
		}})
	}
	wnd.KeyDown = func(scancode int, rn rune, name string) {
		switch {
		case name == "Escape" || rn == 'q':
			wnd.Close()
		case rn == 't':
			next := palette.Next(theme)
			theme = next.Name
			r.Send(render.ThemeChanged{Theme: next})
		}
	}

	opts.Logger.Infow("window opened", "width", opts.Width, "height", opts.Height, "ratio", vp.Ratio())
	wnd.MainLoop(frameFunc(ctx, r, wnd.Close, opts.Logger))
	return nil
}

type framer interface {
	Frame() error
	Frames() int64
}

// frameFunc returns the MainLoop body. Once ctx is done it closes the window
// instead of drawing, so Close runs on the window's own thread.
func frameFunc(ctx context.Context, r framer, closeWindow func(), logger logging.Logger) func() {
	return func() {
		if ctx.Err() != nil {
			closeWindow()
			return
		}
		if err := r.Frame(); err != nil {
			logger.Warnw("frame failed", "frame", r.Frames(), "error", err)
		}
	}
}
