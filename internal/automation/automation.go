package automation

import (
	"context"
	"math"
	"os"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/driftmesh/internal/palette"
	"github.com/san-kum/driftmesh/internal/render"
)

// ErrInvalidScript is wrapped by every validation failure.
var ErrInvalidScript = errors.New("automation: invalid script")

// Step kinds.
const (
	KindMove   = "move"
	KindTouch  = "touch"
	KindResize = "resize"
	KindSweep  = "sweep"
	KindTheme  = "theme"
)

// Script is a scripted input sequence for a headless run.
type Script struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Viewport    Viewport `yaml:"viewport"`
	Frames      int      `yaml:"frames"`
	Events      []Step   `yaml:"events"`
}

type Viewport struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	PixelRatio float64 `yaml:"pixel_ratio"`
}

func (v Viewport) Render() render.Viewport {
	return render.Viewport{Width: v.Width, Height: v.Height, PixelRatio: v.PixelRatio}
}

// Step fires at Frame, before that frame is drawn. A sweep keeps firing for
// Duration frames, moving the pointer Turns times around a circle of
// Radius centred at X, Y.
type Step struct {
	Frame int    `yaml:"frame"`
	Kind  string `yaml:"kind"`

	X float64 `yaml:"x,omitempty"`
	Y float64 `yaml:"y,omitempty"`

	Width      float64 `yaml:"width,omitempty"`
	Height     float64 `yaml:"height,omitempty"`
	PixelRatio float64 `yaml:"pixel_ratio,omitempty"`

	Radius   float64 `yaml:"radius,omitempty"`
	Duration int     `yaml:"duration,omitempty"`
	Turns    float64 `yaml:"turns,omitempty"`

	Theme string `yaml:"theme,omitempty"`
}

// LoadScript loads a script from a YAML file
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading script %s", path)
	}

	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrapf(err, "parsing script %s", path)
	}
	if err := s.Validate(); err != nil {
		return nil, errors.Wrapf(err, "script %s", path)
	}
	return &s, nil
}

// Save writes the script as YAML.
func (s *Script) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encoding script")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "writing script %s", path)
}

func (s *Script) Validate() error {
	if s.Frames <= 0 {
		return errors.Wrapf(ErrInvalidScript, "frames must be positive, got %d", s.Frames)
	}
	if s.Viewport.Width <= 0 || s.Viewport.Height <= 0 {
		return errors.Wrapf(ErrInvalidScript, "viewport %vx%v", s.Viewport.Width, s.Viewport.Height)
	}
	for i, e := range s.Events {
		if e.Frame < 0 || e.Frame >= s.Frames {
			return errors.Wrapf(ErrInvalidScript, "event %d: frame %d outside [0, %d)", i, e.Frame, s.Frames)
		}
		switch e.Kind {
		case KindMove, KindTouch:
		case KindResize:
			if e.Width <= 0 || e.Height <= 0 {
				return errors.Wrapf(ErrInvalidScript, "event %d: resize to %vx%v", i, e.Width, e.Height)
			}
		case KindSweep:
			if e.Radius <= 0 || e.Duration <= 0 {
				return errors.Wrapf(ErrInvalidScript, "event %d: sweep needs radius and duration", i)
			}
		case KindTheme:
			if _, err := palette.Lookup(e.Theme); err != nil {
				return errors.Wrapf(ErrInvalidScript, "event %d: %v", i, err)
			}
		default:
			return errors.Wrapf(ErrInvalidScript, "event %d: unknown kind %q", i, e.Kind)
		}
	}
	return nil
}

// Default returns the built-in demo: idle, a hover, two slow orbits, a
// touch and a resize.
func Default() *Script {
	return &Script{
		Name:        "demo",
		Description: "idle drift, hover, orbit, touch, resize",
		Viewport:    Viewport{Width: 800, Height: 600, PixelRatio: 1},
		Frames:      600,
		Events: []Step{
			{Frame: 60, Kind: KindMove, X: 400, Y: 300},
			{Frame: 120, Kind: KindSweep, X: 400, Y: 300, Radius: 200, Duration: 240, Turns: 2},
			{Frame: 400, Kind: KindTouch, X: 120, Y: 100},
			{Frame: 450, Kind: KindResize, Width: 1024, Height: 768, PixelRatio: 1},
		},
	}
}

// Driver is the part of render.Renderer a script needs.
type Driver interface {
	Send(ev render.Event) bool
	Frame() error
}

// Result summarises a run.
type Result struct {
	Frames int
	Failed int
	// LastErr is the most recent frame error, if any.
	LastErr error
}

// Run plays the script against d, one Frame per script frame. Frame errors
// are counted and the run continues; a stopped renderer or a cancelled ctx
// ends it early.
func (s *Script) Run(ctx context.Context, d Driver) (Result, error) {
	var res Result
	for f := 0; f < s.Frames; f++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		s.dispatch(d, f)
		err := d.Frame()
		if errors.Is(err, render.ErrStopped) {
			return res, err
		}
		res.Frames++
		if err != nil {
			res.Failed++
			res.LastErr = err
		}
	}
	return res, nil
}

// Player is a renderer that runs its own frame loop.
type Player interface {
	Driver
	AddObserver(o render.Observer)
	Start(ctx context.Context) error
	Stop() error
}

// Play runs the script on p's own scheduler: Start drives the frames and
// each step is sent right after the frame before the one it names.
// Observers see only the script's frames. Play returns once the last
// script frame is drawn or ctx is done, and always leaves p stopped.
func (s *Script) Play(ctx context.Context, p Player, observers ...render.Observer) (Result, error) {
	var (
		res   Result
		once  sync.Once
		done  = make(chan struct{})
		total = int64(s.Frames)
	)
	s.dispatch(p, 0)
	p.AddObserver(render.ObserverFunc(func(info render.FrameInfo) {
		if info.Index > total {
			return
		}
		for _, o := range observers {
			o.OnFrame(info)
		}
		res.Frames++
		if info.Err != nil {
			res.Failed++
			res.LastErr = info.Err
		}
		if info.Index == total {
			once.Do(func() { close(done) })
			return
		}
		s.dispatch(p, int(info.Index))
	}))

	if err := p.Start(ctx); err != nil {
		return res, err
	}
	var ctxErr error
	select {
	case <-done:
	case <-ctx.Done():
		ctxErr = ctx.Err()
	}
	if err := p.Stop(); err != nil {
		return res, errors.Wrap(err, "stopping renderer")
	}
	if ctxErr != nil && res.Frames < s.Frames {
		return res, ctxErr
	}
	return res, nil
}

func (s *Script) dispatch(d Driver, frame int) {
	for _, e := range s.Events {
		if ev, ok := e.eventAt(frame); ok {
			d.Send(ev)
		}
	}
}

func (e Step) eventAt(frame int) (render.Event, bool) {
	if e.Kind == KindSweep {
		k := frame - e.Frame
		if k < 0 || k >= e.Duration {
			return nil, false
		}
		turns := e.Turns
		if turns == 0 {
			turns = 1
		}
		a := 2 * math.Pi * turns * float64(k) / float64(e.Duration)
		return render.PointerMoved{X: e.X + e.Radius*math.Cos(a), Y: e.Y + e.Radius*math.Sin(a)}, true
	}
	if frame != e.Frame {
		return nil, false
	}
	switch e.Kind {
	case KindMove:
		return render.PointerMoved{X: e.X, Y: e.Y}, true
	case KindTouch:
		return render.TouchMoved{X: e.X, Y: e.Y}, true
	case KindResize:
		return render.Resized{Viewport: render.Viewport{Width: e.Width, Height: e.Height, PixelRatio: e.PixelRatio}}, true
	case KindTheme:
		t, err := palette.Lookup(e.Theme)
		if err != nil {
			return nil, false
		}
		return render.ThemeChanged{Theme: t}, true
	}
	return nil, false
}
