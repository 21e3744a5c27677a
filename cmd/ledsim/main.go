package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/ledsim/internal/compositor"
	"github.com/san-kum/ledsim/internal/config"
	"github.com/san-kum/ledsim/internal/display"
	"github.com/san-kum/ledsim/internal/display/opc"
	"github.com/san-kum/ledsim/internal/display/svg"
	"github.com/san-kum/ledsim/internal/display/term"
	"github.com/san-kum/ledsim/internal/display/window"
	"github.com/san-kum/ledsim/internal/driver"
	"github.com/san-kum/ledsim/internal/ensemble"
	"github.com/san-kum/ledsim/internal/font"
	"github.com/san-kum/ledsim/internal/metrics"
	"github.com/san-kum/ledsim/internal/pixel"
	"github.com/san-kum/ledsim/internal/storage"
	"github.com/san-kum/ledsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	width       int
	height      int
	effectCount int
	antiAlias   bool
	frames      int
	fps         float64
	fade        uint8
	palette     string
	fullRepaint bool
	theme       string

	sinkName    string
	outDir      string
	opcAddr     string
	maxFailures int

	format    string
	renderOut string
	count     int

	runs     int
	parallel int
	sweep    bool
	save     bool
	against  string
)

// main is the entry point for the ledsim CLI. Without a subcommand it
// opens the interactive preset picker.
func main() {
	rootCmd := &cobra.Command{
		Use:          "ledsim",
		Short:        "led matrix animation simulator",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(compositor.WithLogger(slog.New(slog.DiscardHandler)))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ledsim", "data directory for recorded runs")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "start from a named preset")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	sceneFlags := func(cmd *cobra.Command) {
		cmd.Flags().IntVar(&width, "width", config.DefaultWidth, "grid width")
		cmd.Flags().IntVar(&height, "height", config.DefaultHeight, "grid height")
		cmd.Flags().IntVar(&effectCount, "effects", config.DefaultEffectCount, "number of falling rows")
		cmd.Flags().BoolVar(&antiAlias, "aa", false, "anti-aliased circles")
		cmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frame budget, 0 runs forever")
		cmd.Flags().Float64Var(&fps, "fps", config.DefaultFPS, "frame rate")
		cmd.Flags().Uint8Var(&fade, "fade", 0, "trail fade per frame, 0 clears every frame")
		cmd.Flags().StringVar(&palette, "palette", "", "row and circle palette")
		cmd.Flags().BoolVar(&fullRepaint, "full", false, "send every cell each frame")
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "drive a display sink",
		Args:  cobra.NoArgs,
		RunE:  runSink,
	}
	sceneFlags(runCmd)
	runCmd.Flags().StringVar(&sinkName, "sink", "term", "display sink: term, opc or svg")
	runCmd.Flags().StringVar(&outDir, "out", "frames", "output directory (svg)")
	runCmd.Flags().StringVar(&opcAddr, "addr", config.DefaultOPCAddr, "OPC server address")
	runCmd.Flags().IntVar(&maxFailures, "max-failures", 30, "stop after this many sink errors in a row, 0 never stops")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate in the terminal with stats",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	sceneFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "", "color theme: "+strings.Join(viz.ThemeNames(), ", "))

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "animate in a simulator window",
		Args:  cobra.NoArgs,
		RunE:  runWindow,
	}
	sceneFlags(windowCmd)

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render frames to svg files or an animated gif",
		Args:  cobra.NoArgs,
		RunE:  renderFrames,
	}
	sceneFlags(renderCmd)
	renderCmd.Flags().StringVar(&format, "format", "gif", "output format: gif or svg")
	renderCmd.Flags().StringVar(&renderOut, "out", "", "output file (gif, default ledsim.gif) or directory (svg, default frames)")
	renderCmd.Flags().IntVar(&count, "count", 120, "frames to render")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "render offline and plot changed cells per frame",
		Args:  cobra.NoArgs,
		RunE:  showStats,
	}
	sceneFlags(statsCmd)

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "check that identical seeds render identical frames",
		Args:  cobra.NoArgs,
		RunE:  verifyRuns,
	}
	sceneFlags(verifyCmd)
	verifyCmd.Flags().IntVar(&runs, "runs", 4, "number of runs")
	verifyCmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent runs, 0 means unlimited")
	verifyCmd.Flags().BoolVar(&sweep, "sweep", false, "vary the placement seed per run and list the results")
	verifyCmd.Flags().BoolVar(&save, "save", false, "store the recorded runs in the data directory")
	verifyCmd.Flags().StringVar(&against, "against", "", "compare against a stored run id")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	fontsCmd := &cobra.Command{
		Use:   "fonts [name|file.bdf]...",
		Short: "describe text fonts",
		RunE:  describeFonts,
	}

	rootCmd.AddCommand(runCmd, liveCmd, windowCmd, renderCmd, statsCmd, verifyCmd, listCmd, presetsCmd, fontsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level slog.Level) *slog.Logger {
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig layers defaults, the preset, the config file and finally the
// flags the user actually set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("effects") {
		cfg.EffectCount = effectCount
	}
	if flags.Changed("aa") {
		cfg.AntiAlias = antiAlias
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("fade") {
		cfg.Fade = fade
	}
	if flags.Changed("palette") {
		cfg.Palette = palette
	}
	if flags.Changed("full") {
		cfg.FullRepaint = fullRepaint
	}
	if flags.Changed("theme") {
		cfg.Display.Theme = theme
	}
	if flags.Changed("addr") {
		cfg.Display.OPCAddr = opcAddr
	}
	return cfg, nil
}

// scene builds the compositor config and the options every command shares.
func scene(cmd *cobra.Command, level slog.Level) (*config.Config, compositor.Config, []compositor.Option, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, compositor.Config{}, nil, err
	}
	cc, err := cfg.Build()
	if err != nil {
		return nil, compositor.Config{}, nil, err
	}
	src, err := cfg.Font()
	if err != nil {
		return nil, compositor.Config{}, nil, err
	}
	opts := []compositor.Option{
		compositor.WithFont(src),
		compositor.WithLogger(newLogger(level)),
	}
	return cfg, cc, opts, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSink(cmd *cobra.Command, args []string) error {
	cfg, cc, opts, err := scene(cmd, slog.LevelWarn)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	var sink display.Sink
	switch sinkName {
	case "term":
		// logs would land on the screen the sink owns
		opts = append(opts, compositor.WithLogger(slog.New(slog.DiscardHandler)))
		t, err := term.Open()
		if err != nil {
			return err
		}
		defer t.Close()
		sink = t
	case "opc":
		layout, err := cfg.OPCLayout()
		if err != nil {
			return err
		}
		s, err := opc.Dial(ctx, cfg.Display.OPCAddr, cc.Width, cc.Height, opc.Options{
			Channel:      cfg.Display.OPCChannel,
			Layout:       layout,
			WriteTimeout: time.Second,
		})
		if err != nil {
			return err
		}
		defer s.Close()
		sink = s
	case "svg":
		s, err := svg.DirSink(outDir, cc.Width, cc.Height, cfg.Geometry())
		if err != nil {
			return err
		}
		sink = s
	default:
		return fmt.Errorf("unknown sink: %s (available: term, opc, svg)", sinkName)
	}

	c, err := compositor.New(cc, sink, opts...)
	if err != nil {
		return err
	}

	start := time.Now()
	err = driver.Run(ctx, c, driver.Options{
		FPS:             cfg.FPS,
		MaxSinkFailures: maxFailures,
		Logger:          newLogger(slog.LevelWarn),
	})
	if sinkName != "term" {
		fmt.Printf("rendered %d frames in %v\n", c.Frame(), time.Since(start).Round(time.Millisecond))
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, cc, opts, err := scene(cmd, slog.LevelError)
	if err != nil {
		return err
	}
	// the TUI owns the terminal
	opts = append(opts, compositor.WithLogger(slog.New(slog.DiscardHandler)))

	title := preset
	if title == "" {
		title = "ledsim"
	}
	return viz.Run(cc, viz.Options{
		Title:    title,
		FPS:      cfg.FPS,
		Theme:    cfg.Display.Theme,
		Geometry: cfg.Geometry(),
	}, opts...)
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, cc, opts, err := scene(cmd, slog.LevelWarn)
	if err != nil {
		return err
	}
	w := window.Open("ledsim", cc.Width, cc.Height, cfg.Geometry())
	defer w.Close()

	c, err := compositor.New(cc, w, opts...)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	err = driver.Run(ctx, c, driver.Options{FPS: cfg.FPS, Logger: newLogger(slog.LevelWarn)})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func renderFrames(cmd *cobra.Command, args []string) error {
	cfg, cc, opts, err := scene(cmd, slog.LevelWarn)
	if err != nil {
		return err
	}

	switch format {
	case "svg":
		dir := renderOut
		if dir == "" {
			dir = "frames"
		}
		sink, err := svg.DirSink(dir, cc.Width, cc.Height, cfg.Geometry())
		if err != nil {
			return err
		}
		c, err := compositor.New(cc, sink, opts...)
		if err != nil {
			return err
		}
		n, err := driver.Step(c, count)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %d frames to %s\n", n, dir)
		return nil

	case "gif":
		mem := display.NewMemory(cc.Width, cc.Height, true)
		c, err := compositor.New(cc, mem, opts...)
		if err != nil {
			return err
		}
		n, err := driver.Step(c, count)
		if err != nil {
			return err
		}

		logs := mem.Frames()
		shots := make([]pixel.Frame, len(logs))
		for i, l := range logs {
			shots[i] = l.Frame
		}

		path := renderOut
		if path == "" {
			path = "ledsim.gif"
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		delay := 3
		if cfg.FPS > 0 {
			delay = max(int(100/cfg.FPS), 1)
		}
		if err := viz.EncodeGIF(f, shots, cc.Background, cfg.Geometry(), delay); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("wrote %d frames to %s\n", n, path)
		return nil
	}
	return fmt.Errorf("unknown format: %s (available: gif, svg)", format)
}

func showStats(cmd *cobra.Command, args []string) error {
	cfg, cc, opts, err := scene(cmd, slog.LevelWarn)
	if err != nil {
		return err
	}
	if cc.Frames == 0 {
		return errors.New("stats needs a frame budget, pass --frames")
	}

	history := metrics.NewHistory(cc.Frames)
	for _, m := range metrics.Standard(cc.Width, cc.Height) {
		opts = append(opts, compositor.WithMetric(m))
	}
	opts = append(opts, compositor.WithMetric(history))

	c, err := compositor.New(cc, display.Discard, opts...)
	if err != nil {
		return err
	}

	start := time.Now()
	n, err := driver.Step(c, cc.Frames)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("%dx%d, %d frames in %v (%.0f frames/s)\n\n",
		cfg.Width, cfg.Height, n, elapsed.Round(time.Microsecond), float64(n)/elapsed.Seconds())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	values := c.Metrics()
	for _, name := range slices.Sorted(maps.Keys(values)) {
		fmt.Fprintf(w, "%s\t%.4f\n", name, values[name])
	}
	w.Flush()

	series := history.Series()
	if len(series) > 1 {
		plot := series
		if len(plot) > 80 {
			plot = downsample(plot, 80)
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(plot,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("changed cells per frame"),
		))
	}
	return nil
}

// downsample keeps the peak of each bucket so short bursts stay visible.
func downsample(values []float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		lo, hi := i*len(values)/n, (i+1)*len(values)/n
		for _, v := range values[lo:hi] {
			out[i] = max(out[i], v)
		}
	}
	return out
}

func verifyRuns(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	if against != "" {
		return verifyAgainst(ctx)
	}

	cfg, cc, opts, err := scene(cmd, slog.LevelError)
	if err != nil {
		return err
	}
	if runs < 2 && !sweep {
		return errors.New("verify needs at least 2 runs")
	}

	e := ensemble.New(cc, runs, parallel, opts...)
	start := time.Now()
	var results []*ensemble.Run
	if sweep {
		results, err = e.Sweep(ctx)
	} else {
		results, err = e.Run(ctx, nil)
		if err == nil {
			for _, r := range results[1:] {
				if err = ensemble.Compare(results[0], r); err != nil {
					break
				}
			}
		}
	}
	if err != nil {
		return err
	}

	if save {
		if err := saveRuns(cfg, results); err != nil {
			return err
		}
	}

	if !sweep {
		fmt.Printf("%d runs of %d frames matched in %v\n", runs, cc.Frames, time.Since(start).Round(time.Millisecond))
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tPLACEMENT\tLAST DIGEST\tCHANGED/FRAME\tRESPAWNS")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%v\t%016x\t%.2f\t%.0f\n",
			r.Index, r.PlacementSeed, r.Digests[len(r.Digests)-1],
			r.Metrics["changed_pixels"], r.Metrics["respawns"])
	}
	return w.Flush()
}

func saveRuns(cfg *config.Config, results []*ensemble.Run) error {
	st := storage.New(dataDir)
	for _, r := range results {
		id, err := st.Save(cfg, r)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", id)
	}
	return nil
}

// verifyAgainst replays a stored run from the scene saved with it. Scene
// flags are ignored.
func verifyAgainst(ctx context.Context) error {
	st := storage.New(dataDir)
	stored, err := st.LoadConfig(against)
	if err != nil {
		return err
	}
	golden, err := st.LoadRun(against)
	if err != nil {
		return err
	}
	cc, err := stored.Build()
	if err != nil {
		return fmt.Errorf("stored run %s: %w", against, err)
	}
	src, err := stored.Font()
	if err != nil {
		return err
	}

	fresh, err := ensemble.Record(ctx, cc, compositor.WithFont(src))
	if err != nil {
		return err
	}
	if err := ensemble.Compare(golden, fresh); err != nil {
		return err
	}
	fmt.Printf("%s: %d frames match\n", against, len(golden.Digests))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tGRID\tFRAMES\tPLACEMENT\tTIMESTAMP")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%dx%d\t%d\t%v\t%s\n",
			r.ID, r.Width, r.Height, r.Frames, r.PlacementSeed, r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGRID\tEFFECTS\tPALETTE\tFADE")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		pal := p.Palette
		if pal == "" {
			pal = "-"
		}
		fmt.Fprintf(w, "%s\t%dx%d\t%d\t%s\t%d\n", name, p.Width, p.Height, p.EffectCount, pal, p.Fade)
	}
	return w.Flush()
}

func describeFonts(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = []string{"tiny", "basic"}
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FONT\tHEIGHT\tASCENT\tGLYPHS\tSAMPLE WIDTH")
	for _, name := range names {
		src, err := font.Named(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n",
			filepath.Base(name), src.Height(), src.Ascent(), font.Runes(src), font.Measure(src, "CHR "))
	}
	return w.Flush()
}
