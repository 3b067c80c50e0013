package render

import (
	"context"
	"io"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/san-kum/driftmesh/internal/logging"
	"github.com/san-kum/driftmesh/internal/mesh"
	"github.com/san-kum/driftmesh/internal/palette"
)

// DefaultFrameInterval is one frame at 60 Hz.
const DefaultFrameInterval = time.Second / 60

// FrameInfo describes one finished frame. Points and Triangles alias
// renderer state and are only valid during the OnFrame call.
type FrameInfo struct {
	Index       int64
	Clock       float64
	Viewport    Viewport
	Points      []mesh.Point
	Triangles   []mesh.Triangle
	Simulate    time.Duration
	Triangulate time.Duration
	Paint       time.Duration
	Err         error
}

// Total returns the wall time spent on the frame.
func (f FrameInfo) Total() time.Duration { return f.Simulate + f.Triangulate + f.Paint }

// Observer is notified after every frame, on the frame goroutine.
type Observer interface {
	OnFrame(info FrameInfo)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(FrameInfo)

func (f ObserverFunc) OnFrame(info FrameInfo) { f(info) }

type options struct {
	theme    palette.Theme
	params   mesh.Params
	rng      *rand.Rand
	clock    clock.Clock
	logger   logging.Logger
	interval time.Duration
}

// Option configures a Renderer.
type Option func(*options)

func WithTheme(t palette.Theme) Option         { return func(o *options) { o.theme = t } }
func WithParams(p mesh.Params) Option          { return func(o *options) { o.params = p } }
func WithRand(r *rand.Rand) Option             { return func(o *options) { o.rng = r } }
func WithClock(c clock.Clock) Option           { return func(o *options) { o.clock = c } }
func WithLogger(l logging.Logger) Option       { return func(o *options) { o.logger = l } }
func WithFrameInterval(d time.Duration) Option { return func(o *options) { o.interval = d } }

// Renderer is the animated background: a point field, a theme and the
// surface it paints into.
type Renderer struct {
	surface  Surface
	ctx      Context
	field    *mesh.Field
	theme    palette.Theme
	viewport Viewport
	clock    clock.Clock
	logger   logging.Logger
	interval time.Duration

	events    eventQueue
	observers []Observer
	triangles []mesh.Triangle

	frames  atomic.Int64
	failed  atomic.Int64
	dropped atomic.Int64
	stopped atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New sizes surface to the viewport, scales it by the capped pixel ratio
// and generates the initial point set.
func New(surface Surface, vp Viewport, opts ...Option) (*Renderer, error) {
	o := options{
		theme:    palette.Dark,
		params:   mesh.DefaultParams(),
		clock:    clock.New(),
		logger:   logging.NewNopLogger(),
		interval: DefaultFrameInterval,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.interval <= 0 {
		return nil, errors.Errorf("frame interval must be positive, got %v", o.interval)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(o.clock.Now().UnixNano()))
	}

	field, err := mesh.NewField(o.params, vp.Width, vp.Height, o.rng)
	if err != nil {
		return nil, errors.Wrap(err, "building point field")
	}

	r := &Renderer{
		surface:  surface,
		field:    field,
		theme:    o.theme,
		clock:    o.clock,
		logger:   o.logger,
		interval: o.interval,
	}
	r.sizeSurface(vp)
	return r, nil
}

// AddObserver registers o for every subsequent frame. Call before Start.
func (r *Renderer) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Send queues ev for the next frame. Once eventBuffer pointer events are
// pending the oldest pointer event is discarded; Resized and ThemeChanged
// are never dropped. After Stop, Send drops ev and returns false.
func (r *Renderer) Send(ev Event) bool {
	if r.stopped.Load() {
		return false
	}
	if r.events.push(ev) {
		r.dropped.Add(1)
	}
	return true
}

// Frame advances the simulation one step and paints it. A panic anywhere
// in the frame is recovered and returned as ErrFramePanic so callers can
// keep scheduling.
func (r *Renderer) Frame() (err error) {
	if r.stopped.Load() {
		return ErrStopped
	}

	index := r.frames.Add(1)
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Wrapf(ErrFramePanic, "frame %d: %v", index, rec)
		}
		if err != nil {
			r.failed.Add(1)
		}
	}()

	r.drain()

	start := r.clock.Now()
	r.field.Step()
	simulated := r.clock.Now()

	tris, triErr := r.field.Triangulate()
	if triErr != nil {
		tris = nil
	}
	r.triangles = tris
	triangulated := r.clock.Now()

	r.paint(tris)
	painted := r.clock.Now()

	if triErr != nil {
		err = errors.Wrapf(triErr, "frame %d", index)
	}

	info := FrameInfo{
		Index:       index,
		Clock:       r.field.Clock(),
		Viewport:    r.viewport,
		Points:      r.field.Points(),
		Triangles:   tris,
		Simulate:    simulated.Sub(start),
		Triangulate: triangulated.Sub(simulated),
		Paint:       painted.Sub(triangulated),
		Err:         err,
	}
	for _, o := range r.observers {
		o.OnFrame(info)
	}
	return err
}

func (r *Renderer) drain() {
	for _, ev := range r.events.take() {
		r.apply(ev)
	}
}

func (r *Renderer) apply(ev Event) {
	switch ev := ev.(type) {
	case PointerMoved:
		r.field.MovePointer(ev.X, ev.Y)
	case TouchMoved:
		r.field.TouchPointer(ev.X, ev.Y)
	case Resized:
		r.sizeSurface(ev.Viewport)
		r.field.Reset(ev.Viewport.Width, ev.Viewport.Height)
		r.logger.Debugw("viewport resized", "width", ev.Viewport.Width, "height", ev.Viewport.Height, "ratio", ev.Viewport.Ratio())
	case ThemeChanged:
		r.theme = ev.Theme
		r.logger.Debugw("theme changed", "theme", ev.Theme.Name)
	}
}

func (r *Renderer) sizeSurface(vp Viewport) {
	r.viewport = vp
	w, h := vp.Device()
	r.surface.Resize(w, h)
	r.surface.Scale(vp.Ratio())
	r.ctx = r.surface.Context()
}

func (r *Renderer) paint(tris []mesh.Triangle) {
	ctx := r.ctx
	w, h := r.viewport.Width, r.viewport.Height

	ctx.SetFillColor(r.theme.Background)
	ctx.FillRect(0, 0, w, h)

	pts := r.field.Points()
	ptr := r.field.Pointer()
	influence := r.field.Params().InfluenceRadius
	sample := palette.Sample{
		Pointer:         ptr.Pos,
		PointerSpeed:    ptr.Speed(palette.SpeedNorm),
		Clock:           r.field.Clock(),
		Width:           w,
		Height:          h,
		InfluenceRadius: influence,
	}

	ctx.SetLineWidth(r.theme.LineWidth)
	for _, t := range tris {
		a, b, c := pts[t[0]].Pos, pts[t[1]].Pos, pts[t[2]].Pos
		sample.Centroid = t.Centroid(pts)
		style := r.theme.Shade(sample)

		ctx.BeginPath()
		ctx.MoveTo(a.X, a.Y)
		ctx.LineTo(b.X, b.Y)
		ctx.LineTo(c.X, c.Y)
		ctx.ClosePath()

		ctx.SetFillColor(style.Fill)
		ctx.Fill()
		ctx.SetStrokeColor(style.Stroke)
		ctx.Stroke()
	}

	if !ptr.Active {
		return
	}
	if stops, radius := r.theme.GlowStops(influence); stops != nil {
		ctx.FillRadialGradient(ptr.Pos.X, ptr.Pos.Y, radius, stops, 0, 0, w, h)
	}
}

// Start runs Frame on a clock ticker until ctx is cancelled or Stop is
// called. The first frame is drawn immediately. Frame errors are logged and
// the loop keeps going.
func (r *Renderer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped.Load() {
		return ErrStopped
	}
	if r.done != nil {
		return ErrRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	ticker := r.clock.Ticker(r.interval)

	go r.loop(ctx, ticker)
	r.logger.Infow("render loop started", "interval", r.interval, "points", r.field.Len())
	return nil
}

func (r *Renderer) loop(ctx context.Context, ticker *clock.Ticker) {
	defer close(r.done)
	defer ticker.Stop()

	r.tick()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick()
		}
	}
}

func (r *Renderer) tick() {
	if err := r.Frame(); err != nil && !errors.Is(err, ErrStopped) {
		r.logger.Warnw("frame failed", "frame", r.frames.Load(), "error", err)
	}
}

// Done is closed when a loop started by Start exits. It is nil before Start.
func (r *Renderer) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// Stop cancels the loop, waits for it to exit and detaches input. It
// closes the surface and any observer implementing io.Closer. Stop is
// idempotent; a stopped renderer cannot be restarted.
func (r *Renderer) Stop() error {
	if !r.stopped.CompareAndSwap(false, true) {
		return nil
	}

	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
	r.events.take()

	var err error
	if c, ok := r.surface.(io.Closer); ok {
		err = multierr.Append(err, c.Close())
	}
	for _, o := range r.observers {
		if c, ok := o.(io.Closer); ok {
			err = multierr.Append(err, c.Close())
		}
	}

	r.logger.Infow("render loop stopped", "frames", r.frames.Load(), "failed", r.failed.Load(), "dropped_events", r.dropped.Load())
	return err
}

// Field exposes the simulation state. Read it only from the frame goroutine
// or after Stop.
func (r *Renderer) Field() *mesh.Field { return r.field }

// Triangles returns the triangles painted by the last frame.
func (r *Renderer) Triangles() []mesh.Triangle { return r.triangles }

func (r *Renderer) Theme() palette.Theme    { return r.theme }
func (r *Renderer) Viewport() Viewport      { return r.viewport }
func (r *Renderer) Frames() int64           { return r.frames.Load() }
func (r *Renderer) Failed() int64           { return r.failed.Load() }
func (r *Renderer) Stopped() bool           { return r.stopped.Load() }
func (r *Renderer) Interval() time.Duration { return r.interval }
