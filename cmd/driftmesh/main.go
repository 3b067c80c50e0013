package main

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/san-kum/driftmesh/internal/automation"
	"github.com/san-kum/driftmesh/internal/config"
	"github.com/san-kum/driftmesh/internal/export"
	"github.com/san-kum/driftmesh/internal/gui"
	"github.com/san-kum/driftmesh/internal/logging"
	"github.com/san-kum/driftmesh/internal/metrics"
	"github.com/san-kum/driftmesh/internal/palette"
	"github.com/san-kum/driftmesh/internal/raster"
	"github.com/san-kum/driftmesh/internal/render"
	"github.com/san-kum/driftmesh/internal/storage"
	"github.com/san-kum/driftmesh/internal/viz"
	"github.com/san-kum/driftmesh/internal/window"
)

var (
	dataDir    string
	configFile string
	preset     string
	themeName  string
	seed       int64
	fps        float64
	width      float64
	height     float64
	points     int
	debug      bool

	renderFrames int
	exportFrames int
	benchFrames  int
	every        int
	pngPath      string
	svgPath      string
	jsonOut      string
	gifPath      string
	gifEvery     int
	scriptFile   string
	pointer      string
	trails       bool
	runName      string
	jsonPath     string
	pointIndex   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "driftmesh",
		Short:         "animated delaunay mesh background",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLive,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "run directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "named preset, see `driftmesh presets`")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", config.DefaultTheme, "colour theme")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	rootCmd.PersistentFlags().Float64Var(&fps, "fps", config.DefaultFPS, "frames per second")
	rootCmd.PersistentFlags().Float64Var(&width, "width", config.DefaultWidth, "viewport width in CSS pixels")
	rootCmd.PersistentFlags().Float64Var(&height, "height", config.DefaultHeight, "viewport height in CSS pixels")
	rootCmd.PersistentFlags().IntVar(&points, "points", 0, "drifting point count (0 keeps the config value)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "render into a desktop window",
		RunE:  runWindow,
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "render into a raylib desktop window",
		RunE:  runGUI,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "render in the terminal with braille dots",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&gifPath, "gif", "", "where the s key saves captured frames (default driftmesh.gif)")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render frames headless to PNG and optionally GIF",
		RunE:  renderPNG,
	}
	renderCmd.Flags().IntVar(&renderFrames, "frames", 120, "frames to simulate (ignored with --script)")
	renderCmd.Flags().StringVarP(&pngPath, "out", "o", "driftmesh.png", "PNG of the last frame")
	renderCmd.Flags().StringVar(&gifPath, "gif", "", "also write an animated GIF")
	renderCmd.Flags().IntVar(&gifEvery, "gif-every", 2, "capture every Nth frame into the GIF")
	renderCmd.Flags().StringVar(&scriptFile, "script", "", "automation script (YAML)")
	renderCmd.Flags().StringVar(&pointer, "pointer", "", "pointer position as x,y")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "export a frame or point trails as SVG",
		RunE:  exportSVG,
	}
	exportCmd.Flags().IntVar(&exportFrames, "frames", 120, "frames to simulate before exporting")
	exportCmd.Flags().StringVarP(&svgPath, "out", "o", "driftmesh.svg", "output file")
	exportCmd.Flags().StringVar(&pointer, "pointer", "", "pointer position as x,y")
	exportCmd.Flags().BoolVar(&trails, "trails", false, "draw drift trails instead of a frame")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time simulation, triangulation and painting",
		RunE:  benchMesh,
	}
	benchCmd.Flags().IntVar(&benchFrames, "frames", 300, "frames per point count")

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "play an automation script headless and store the point positions",
		RunE:  recordRun,
	}
	recordCmd.Flags().StringVar(&scriptFile, "script", "", "automation script (default: built-in demo)")
	recordCmd.Flags().IntVar(&every, "every", 10, "store every Nth frame")
	recordCmd.Flags().StringVar(&runName, "name", "", "run name (default: script name)")
	recordCmd.Flags().StringVar(&jsonPath, "json", "", "also export the run as JSON")

	scriptCmd := &cobra.Command{
		Use:   "script [path]",
		Short: "write the built-in demo script as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return automation.Default().Save(args[0])
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a point trajectory and the mean step of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&pointIndex, "point", 0, "index of the point to plot")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a recorded run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&jsonOut, "out", "o", "", "output file (default: stdout)")

	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "list colour themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBACKGROUND\tGLOW\tSTROKE")
			for _, name := range palette.Names() {
				t, _ := palette.Lookup(name)
				stroke := "proximity"
				if t.StrokeColor != nil {
					stroke = hexColor(*t.StrokeColor)
				}
				fmt.Fprintf(w, "%s\t%s\t%v\t%s\n", t.Name, hexColor(t.Background), t.Glow, stroke)
			}
			return w.Flush()
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list config presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTHEME\tPOINTS\tDRIFT\tINFLUENCE\tREPEL")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%d\t%.0f\t%.0f\t%.0f\n",
					name,
					cfg.Theme,
					cfg.Mesh.Points,
					cfg.Mesh.DriftRadius,
					cfg.Mesh.InfluenceRadius,
					cfg.Mesh.RepelRadius,
				)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(windowCmd, guiCmd, liveCmd, renderCmd, exportCmd, benchCmd, recordCmd, scriptCmd, listCmd, plotCmd, exportJSONCmd, themesCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves the config file or preset, then applies the flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, errors.Errorf("unknown preset %q (have %v)", preset, config.ListPresets())
		}
	}

	flags := cmd.Flags()
	if flags.Changed("theme") {
		cfg.Theme = themeName
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("width") {
		cfg.Viewport.Width = width
	}
	if flags.Changed("height") {
		cfg.Viewport.Height = height
	}
	if points > 0 {
		cfg.Mesh.Points = points
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) logging.Logger {
	if cfg.Debug {
		return logging.NewDebugLogger("driftmesh")
	}
	return logging.NewLogger("driftmesh")
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	defer logger.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	return window.Run(ctx, window.Options{
		Width:  int(cfg.Viewport.Width),
		Height: int(cfg.Viewport.Height),
		Logger: logger,
	}, cfg.RenderOptions(logger)...)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	defer logger.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	return gui.Run(ctx, gui.Options{
		Width:  int(cfg.Viewport.Width),
		Height: int(cfg.Viewport.Height),
		Logger: logger,
	}, cfg.RenderOptions(logger)...)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// the terminal belongs to the UI, so logs go to a file
	logger, err := logging.NewFileLogger("driftmesh", cfg.LogFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	return viz.Run(ctx, viz.Options{
		Interval: cfg.FrameInterval(),
		GIFPath:  gifPath,
		Logger:   logger,
	}, cfg.RenderOptions(logger)...)
}

// headless builds a renderer over surface that is driven by explicit
// Frame calls.
func headless(cfg *config.Config, surface render.Surface, vp render.Viewport, logger logging.Logger, extra ...render.Option) (*render.Renderer, error) {
	r, err := render.New(surface, vp, append(cfg.RenderOptions(logger), extra...)...)
	if err != nil {
		return nil, errors.Wrap(err, "creating renderer")
	}
	if pointer != "" {
		x, y, err := parsePoint(pointer)
		if err != nil {
			return nil, err
		}
		r.Send(render.PointerMoved{X: x, Y: y})
	}
	return r, nil
}

func parsePoint(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, errors.Errorf("point %q: want x,y", s)
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err := multierr.Combine(errX, errY); err != nil {
		return 0, 0, errors.Wrapf(err, "point %q", s)
	}
	return x, y, nil
}

// play drives r through the script, or through n idle frames without one.
func play(ctx context.Context, r *render.Renderer, script *automation.Script, n int) (automation.Result, error) {
	if script == nil {
		script = &automation.Script{Name: "idle", Frames: n}
	}
	return script.Run(ctx, r)
}

func loadScript(cfg *config.Config) (*automation.Script, render.Viewport, error) {
	if scriptFile == "" {
		return nil, cfg.Viewport.Render(), nil
	}
	s, err := automation.LoadScript(scriptFile)
	if err != nil {
		return nil, render.Viewport{}, err
	}
	return s, s.Viewport.Render(), nil
}

func renderPNG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	defer logger.Sync()

	script, vp, err := loadScript(cfg)
	if err != nil {
		return err
	}

	surface := raster.New()
	r, err := headless(cfg, surface, vp, logger)
	if err != nil {
		return err
	}
	var gif *raster.GIFRecorder
	if gifPath != "" {
		delay := int(100 / cfg.FPS * float64(gifEvery))
		gif = raster.NewGIFRecorder(surface, int64(gifEvery), 0, delay)
		r.AddObserver(gif)
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := play(ctx, r, script, renderFrames)
	if err != nil {
		return err
	}
	if res.Failed > 0 {
		logger.Warnw("renderFrames failed", "failed", res.Failed, "last", res.LastErr)
	}

	if err := surface.SavePNG(pngPath); err != nil {
		return err
	}
	w, h := surface.Size()
	logger.Infow("wrote png", "path", pngPath, "width", w, "height", h, "renderFrames", res.Frames)

	if gif != nil {
		if err := gif.Save(gifPath); err != nil {
			return err
		}
		logger.Infow("wrote gif", "path", gifPath, "renderFrames", gif.Len())
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	defer logger.Sync()

	svg := export.NewSVG()
	r, err := headless(cfg, svg, cfg.Viewport.Render(), logger)
	if err != nil {
		return err
	}

	if trails {
		theme := r.Theme()
		stroke := theme.GlowInner
		if theme.StrokeColor != nil {
			stroke = *theme.StrokeColor
		}
		doc := export.TrailsToSVG(export.SampleTrails(r.Field(), exportFrames), cfg.Viewport.Width, cfg.Viewport.Height, theme.Background, stroke)
		if err := os.WriteFile(svgPath, []byte(doc), 0644); err != nil {
			return errors.Wrapf(err, "writing %s", svgPath)
		}
		logger.Infow("wrote trails", "path", svgPath, "exportFrames", exportFrames)
		return nil
	}

	ctx, cancel := signalContext()
	defer cancel()
	if _, err := play(ctx, r, nil, exportFrames); err != nil {
		return err
	}
	if err := svg.Save(svgPath); err != nil {
		return err
	}
	logger.Infow("wrote svg", "path", svgPath, "triangles", len(r.Triangles()))
	return nil
}

// phaseTimes sums the per-phase durations of observed frames.
type phaseTimes struct {
	simulate, triangulate, paint time.Duration
	frameMs                      []float64
}

func (p *phaseTimes) OnFrame(info render.FrameInfo) {
	p.simulate += info.Simulate
	p.triangulate += info.Triangulate
	p.paint += info.Paint
	p.frameMs = append(p.frameMs, float64(info.Total())/float64(time.Millisecond))
}

func benchMesh(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.NewNopLogger()

	counts := []int{cfg.Mesh.Points / 2, cfg.Mesh.Points, cfg.Mesh.Points * 2, cfg.Mesh.Points * 4}

	fmt.Printf("benchmarking %d benchFrames at %.0fx%.0f\n\n", benchFrames, cfg.Viewport.Width, cfg.Viewport.Height)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POINTS\tTRIANGLES\tMIN_ANGLE\tSIM\tTRI\tPAINT\tFRAME\tFRAMES/SEC")

	var graph []float64
	ctx := context.Background()
	for _, n := range counts {
		if n < 1 {
			continue
		}
		run := *cfg
		run.Mesh.Points = n

		// the loop ticks as fast as frames complete
		r, err := headless(&run, raster.New(), run.Viewport.Render(), logger, render.WithFrameInterval(time.Nanosecond))
		if err != nil {
			return err
		}
		set := metrics.Standard()
		times := &phaseTimes{}
		idle := &automation.Script{Name: "bench", Frames: benchFrames}

		start := time.Now()
		if _, err := idle.Play(ctx, r, set, times); err != nil {
			return err
		}
		elapsed := time.Since(start)

		v := set.Values()
		per := func(d time.Duration) time.Duration { return d / time.Duration(benchFrames) }
		fmt.Fprintf(w, "%d\t%.0f\t%.1f°\t%v\t%v\t%v\t%.2fms\t%.0f\n",
			n,
			v["triangles"],
			v["min_angle"],
			per(times.simulate),
			per(times.triangulate),
			per(times.paint),
			v["frame_ms"],
			float64(benchFrames)/elapsed.Seconds(),
		)
		if n == cfg.Mesh.Points {
			graph = times.frameMs
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(graph) > 0 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(graph,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Precision(2),
			asciigraph.Caption(fmt.Sprintf("frame time (ms), %d points", cfg.Mesh.Points)),
		))
	}
	return nil
}

func recordRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	defer logger.Sync()

	script := automation.Default()
	if scriptFile != "" {
		if script, err = automation.LoadScript(scriptFile); err != nil {
			return err
		}
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	vp := script.Viewport.Render()
	r, err := headless(cfg, raster.New(), vp, logger)
	if err != nil {
		return err
	}
	rec := storage.NewRecorder(every)
	set := metrics.Standard()

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	res, err := script.Play(ctx, r, rec, set)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Infow("script finished", "script", script.Name, "frames", res.Frames, "failed", res.Failed, "elapsed", time.Since(start))

	name := runName
	if name == "" {
		name = script.Name
	}
	meta := storage.RunMetadata{
		Name:       name,
		Seed:       cfg.Seed,
		Theme:      r.Theme().Name,
		Width:      vp.Width,
		Height:     vp.Height,
		PixelRatio: vp.PixelRatio,
		Frames:     res.Frames,
		Every:      rec.Every(),
		Params:     cfg.Mesh,
		Metrics:    set.Values(),
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(meta, rec.Frames())
	if err != nil {
		return err
	}
	fmt.Printf("saved run: %s\n", id)

	if jsonPath != "" {
		meta.ID = id
		if err := storage.ExportJSON(jsonPath, meta, rec.Frames()); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", jsonPath)
	}
	return nil
}

func store(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.DataDir), nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := store(cmd)
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tTHEME\tPOINTS\tFRAMES\tSIZE\tMIN_ANGLE\tHEALTH")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.0fx%.0f\t%.1f°\t%.2f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Theme,
			run.Params.Points,
			run.Frames,
			run.Width,
			run.Height,
			run.Metrics["min_angle"],
			run.Metrics["health"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st, err := store(cmd)
	if err != nil {
		return err
	}
	runID := args[0]

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	recorded, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(recorded) < 2 {
		return errors.Errorf("run %s has %d frames, need at least 2", runID, len(recorded))
	}

	var xs, ys, steps []float64
	for i, fr := range recorded {
		if pointIndex < 0 || pointIndex >= len(fr.Points) {
			return errors.Errorf("point %d out of range [0, %d)", pointIndex, len(fr.Points))
		}
		p := fr.Points[pointIndex]
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
		if i == 0 || len(recorded[i-1].Points) != len(fr.Points) {
			continue
		}
		var sum float64
		for k, q := range fr.Points {
			sum += q.Sub(recorded[i-1].Points[k]).Norm()
		}
		steps = append(steps, sum/float64(len(fr.Points)))
	}

	fmt.Printf("run %s: %d frames sampled every %d, %d points\n\n", meta.ID, len(recorded), meta.Every, len(recorded[0].Points))
	plot := func(data []float64, caption string) {
		if len(data) == 0 {
			return
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		))
		fmt.Println()
	}
	plot(xs, fmt.Sprintf("point %d x", pointIndex))
	plot(ys, fmt.Sprintf("point %d y", pointIndex))
	plot(steps, "mean step between samples (px)")

	if len(meta.Metrics) > 0 {
		names := make([]string, 0, len(meta.Metrics))
		for name := range meta.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%-10s %.3f\n", name, meta.Metrics[name])
		}
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, err := store(cmd)
	if err != nil {
		return err
	}
	runID := args[0]

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	recorded, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if jsonOut == "" {
		return storage.WriteJSON(os.Stdout, *meta, recorded)
	}
	if err := storage.ExportJSON(jsonOut, *meta, recorded); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", jsonOut)
	return nil
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
