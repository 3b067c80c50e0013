// Package render drives the animated triangulation backdrop.
//
// A [Renderer] owns a [mesh.Field] and paints it into a [Surface] once per
// frame:
//
//   - drain queued input [Event]s (pointer, touch, resize, theme)
//   - advance the simulation one step
//   - triangulate the current positions
//   - clear to the theme background and fill + stroke every triangle
//   - overlay the cursor glow when the theme has one
//
// Frames are produced either by [Renderer.Start], which runs a ticker on
// its own goroutine, or by a host main loop calling [Renderer.Frame]
// directly. Input sources never touch renderer state; they call
// [Renderer.Send], which queues the event for the next frame.
//
// # Example
//
//	surf := raster.New()
//	r, _ := render.New(surf, render.Viewport{Width: 800, Height: 600, PixelRatio: 1})
//	_ = r.Start(ctx)
//	r.Send(render.PointerMoved{X: 400, Y: 300})
//	defer r.Stop()
//
// # Thread Safety
//
// Send and Stop are safe to call from any goroutine. Frame must only be
// called from one goroutine at a time, and never while Start is running.
package render
