// Package gui hosts the mesh in a raylib desktop window.
package gui

import (
	"context"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/san-kum/driftmesh/internal/logging"
	"github.com/san-kum/driftmesh/internal/palette"
	"github.com/san-kum/driftmesh/internal/render"
)

// Options configures the window.
type Options struct {
	Title  string
	Width  int
	Height int
	Logger logging.Logger
}

type App struct {
	Renderer *render.Renderer
	Theme    string
	Mouse    rl.Vector2

	ctx    context.Context
	logger logging.Logger
	quit   bool
}

// initWindow opens a resizable window at 60 FPS with the default exit key
// disabled; Update handles quitting.
func initWindow(opts Options) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// NewApp creates the renderer for an open window.
func NewApp(ctx context.Context, opts Options, renderOpts ...render.Option) (*App, error) {
	r, err := render.New(NewSurface(), screenViewport(), append(renderOpts, render.WithLogger(opts.Logger))...)
	if err != nil {
		return nil, errors.Wrap(err, "creating renderer")
	}
	return &App{
		Renderer: r,
		Theme:    r.Theme().Name,
		Mouse:    rl.GetMousePosition(),
		ctx:      ctx,
		logger:   opts.Logger,
	}, nil
}

// Run opens the window and renders into it until the window is closed,
// Escape or q is pressed, or ctx is cancelled.
func Run(ctx context.Context, opts Options, renderOpts ...render.Option) (err error) {
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.Title == "" {
		opts.Title = "driftmesh"
	}

	initWindow(opts)
	defer rl.CloseWindow()

	app, err := NewApp(ctx, opts, renderOpts...)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, app.Renderer.Stop()) }()

	opts.Logger.Infow("window opened", "width", opts.Width, "height", opts.Height, "backend", "raylib")
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		if a.quit {
			return
		}
		a.Draw()
	}
}

// Update forwards window input to the renderer.
func (a *App) Update() {
	if a.ctx.Err() != nil || rl.IsKeyPressed(rl.KeyEscape) || rl.IsKeyPressed(rl.KeyQ) {
		a.quit = true
		return
	}
	if rl.IsWindowResized() {
		a.Renderer.Send(render.Resized{Viewport: screenViewport()})
	}
	if m := rl.GetMousePosition(); m != a.Mouse {
		a.Mouse = m
		a.Renderer.Send(render.PointerMoved{X: float64(m.X), Y: float64(m.Y)})
	}
	if rl.IsKeyPressed(rl.KeyT) {
		next := palette.Next(a.Theme)
		a.Theme = next.Name
		a.Renderer.Send(render.ThemeChanged{Theme: next})
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	if err := a.Renderer.Frame(); err != nil {
		a.logger.Warnw("frame failed", "frame", a.Renderer.Frames(), "error", err)
	}
	rl.EndDrawing()
}

// screenViewport reports the window in screen coordinates. raylib scales
// to the framebuffer itself, so the ratio stays 1.
func screenViewport() render.Viewport {
	return render.Viewport{
		Width:      float64(rl.GetScreenWidth()),
		Height:     float64(rl.GetScreenHeight()),
		PixelRatio: 1,
	}
}
