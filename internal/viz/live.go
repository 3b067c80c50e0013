package viz

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strings"
	"time"

	stdpalette "image/color/palette"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/san-kum/driftmesh/internal/logging"
	"github.com/san-kum/driftmesh/internal/palette"
	"github.com/san-kum/driftmesh/internal/render"
)

const (
	defaultCols     = 80
	defaultRows     = 23
	historyCapacity = 240
)

type TickMsg time.Time

// Options configures the terminal host.
type Options struct {
	Interval time.Duration
	GIFPath  string
	Logger   logging.Logger
}

// Model drives a Renderer from bubbletea ticks and forwards mouse and
// resize input to it.
type Model struct {
	renderer *render.Renderer
	surface  *Surface
	logger   logging.Logger
	interval time.Duration

	cols, rows int
	theme      string
	styles     styles

	running   bool
	showHelp  bool
	showGraph bool

	frameTimes []float64
	triangles  int
	lastErr    error

	recording bool
	frames    []*image.Paletted
	gifPath   string
}

// NewModel wraps a renderer whose surface is s.
func NewModel(r *render.Renderer, s *Surface, opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = r.Interval()
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "driftmesh.gif"
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	vp := r.Viewport()
	theme := r.Theme().Name
	return Model{
		renderer:   r,
		surface:    s,
		logger:     opts.Logger,
		interval:   opts.Interval,
		cols:       int(vp.Width) / CellWidth,
		rows:       int(vp.Height) / CellHeight,
		theme:      theme,
		styles:     newStyles(ChromeFor(theme)),
		running:    true,
		frameTimes: make([]float64, 0, historyCapacity),
		gifPath:    opts.GIFPath,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and advances the renderer one frame per tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.recording {
				m.saveGIF()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "t":
			next := palette.Next(m.theme)
			m.theme = next.Name
			m.styles = newStyles(ChromeFor(next.Name))
			m.renderer.Send(render.ThemeChanged{Theme: next})
		case "r":
			m.renderer.Send(render.Resized{Viewport: ViewportFor(m.cols, m.rows)})
		case "g":
			if m.recording {
				m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "s":
			m.showGraph = !m.showGraph
		case "?":
			m.showHelp = !m.showHelp
		}

	case tea.MouseMsg:
		x, y := CellCenter(msg.X, msg.Y)
		m.renderer.Send(render.PointerMoved{X: x, Y: y})

	case tea.WindowSizeMsg:
		m.cols = msg.Width
		m.rows = msg.Height - 1
		if m.rows < 1 {
			m.rows = 1
		}
		m.renderer.Send(render.Resized{Viewport: ViewportFor(m.cols, m.rows)})

	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	start := time.Now()
	err := m.renderer.Frame()
	elapsed := time.Since(start)

	if err != nil {
		m.lastErr = err
		m.logger.Warnw("frame failed", "frame", m.renderer.Frames(), "error", err)
	}
	m.triangles = len(m.renderer.Triangles())

	if len(m.frameTimes) >= historyCapacity {
		m.frameTimes = m.frameTimes[1:]
	}
	m.frameTimes = append(m.frameTimes, float64(elapsed.Microseconds())/1000)

	if m.recording {
		m.captureFrame()
	}
}

func (m Model) View() string {
	canvas := m.surface.Canvas()
	var body string
	switch {
	case m.showHelp:
		body = lipgloss.Place(canvas.Width, canvas.Height, lipgloss.Center, lipgloss.Center, m.helpView())
	case m.showGraph:
		body = lipgloss.Place(canvas.Width, canvas.Height, lipgloss.Center, lipgloss.Center, m.graphView())
	default:
		body = canvas.Render()
	}
	return body + "\n" + m.statusView()
}

func (m Model) statusView() string {
	st := m.styles
	state := st.title.Render(" " + AnimatedSpinner(m.renderer.Frames()) + " driftmesh ")
	if !m.running {
		state = st.paused.Render(" ⏸ paused ")
	}
	parts := []string{
		state,
		st.label.Render("theme ") + st.value.Render(m.theme),
		st.label.Render(" pts ") + st.value.Render(fmt.Sprint(m.renderer.Field().Len())),
		st.label.Render(" tris ") + st.value.Render(fmt.Sprint(m.triangles)),
	}
	if n := len(m.frameTimes); n > 0 {
		parts = append(parts,
			st.label.Render(" frame ")+st.value.Render(fmt.Sprintf("%.1fms", m.frameTimes[n-1])),
			" "+st.spark.Render(Sparkline(m.frameTimes, 16)))
	}
	if m.recording {
		parts = append(parts, st.rec.Render(fmt.Sprintf(" ● REC %d", len(m.frames))))
	}
	if m.lastErr != nil {
		parts = append(parts, st.warning.Render(" ! "+m.lastErr.Error()))
	}
	parts = append(parts, st.label.Render("  ? help"))

	line := strings.Join(parts, "")
	return st.bar.Width(m.cols).MaxWidth(m.cols).Render(line)
}

func (m Model) helpView() string {
	return m.styles.help.Render(`driftmesh

  mouse    pull the mesh toward the cursor
  space    pause / resume
  t        next theme
  r        regenerate points
  g        toggle GIF recording
  s        frame time graph
  ?        this help
  q        quit`)
}

func (m Model) graphView() string {
	if len(m.frameTimes) < 2 {
		return m.styles.graph.Render("collecting frame times…")
	}
	w := m.cols - 16
	if w > 72 {
		w = 72
	}
	if w < 10 {
		w = 10
	}
	plot := asciigraph.Plot(m.frameTimes,
		asciigraph.Height(10),
		asciigraph.Width(w),
		asciigraph.Precision(2),
		asciigraph.Caption("frame time (ms)"))
	return m.styles.graph.Render(plot)
}

// captureFrame renders the braille canvas to an image, one dot per 4×4
// pixel block, cell backgrounds underneath.
func (m *Model) captureFrame() {
	canvas := m.surface.Canvas()
	imgW, imgH := canvas.Width*CellWidth, canvas.Height*CellHeight
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), stdpalette.Plan9)
	dotW, dotH := CellWidth/2, CellHeight/4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			baseX, baseY := col*CellWidth, row*CellHeight
			bg := opaque(canvas.Bg[row][col])
			fill(img, baseX, baseY, CellWidth, CellHeight, bg)

			pattern := int(canvas.Grid[row][col] - brailleBlank)
			if pattern == 0 {
				continue
			}
			fg := opaque(over(canvas.Fg[row][col], canvas.Bg[row][col]))
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						fill(img, baseX+dx*dotW, baseY+dy*dotH, dotW, dotH, fg)
					}
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	if err := writeGIF(m.gifPath, m.frames, int(m.interval/(10*time.Millisecond))); err != nil {
		m.lastErr = err
		m.logger.Errorw("saving gif", "path", m.gifPath, "error", err)
		return
	}
	m.logger.Infow("saved gif", "path", m.gifPath, "frames", len(m.frames))
}

func writeGIF(path string, frames []*image.Paletted, delay int) (err error) {
	if delay < 1 {
		delay = 1
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
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
	return errors.Wrap(gif.EncodeAll(f, &anim), "encoding gif")
}

func fill(img *image.Paletted, x, y, w, h int, c color.Color) {
	idx := uint8(img.Palette.Index(c))
	for py := y; py < y+h; py++ {
		for px := x; px < x+w; px++ {
			img.SetColorIndex(px, py, idx)
		}
	}
}

func opaque(c color.NRGBA) color.NRGBA {
	c.A = 0xff
	return c
}

// Run starts the terminal host in the alternate screen and blocks until
// the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options, renderOpts ...render.Option) error {
	surface := NewSurface()
	r, err := render.New(surface, ViewportFor(defaultCols, defaultRows), renderOpts...)
	if err != nil {
		return errors.Wrap(err, "creating renderer")
	}

	m := NewModel(r, surface, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	_, runErr := p.Run()
	if errors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil {
		runErr = nil
	}
	return multierr.Append(errors.Wrap(runErr, "running terminal ui"), r.Stop())
}
