package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fluidbg/internal/analysis"
	"github.com/san-kum/fluidbg/internal/anim"
	"github.com/san-kum/fluidbg/internal/compute"
	"github.com/san-kum/fluidbg/internal/config"
	"github.com/san-kum/fluidbg/internal/fluid"
	"github.com/san-kum/fluidbg/internal/frame"
	"github.com/san-kum/fluidbg/internal/observability"
	"github.com/san-kum/fluidbg/internal/palette"
	"github.com/san-kum/fluidbg/internal/render"
	"github.com/san-kum/fluidbg/internal/server"
	"github.com/san-kum/fluidbg/internal/viz"
)

var (
	configFile string
	logLevel   string

	width       int
	height      int
	scheme      string
	paletteName string
	backend     string
	workers     int
	preset      string

	t           float64
	frameOutput string
	gifOutput   string
	liveOutput  string
	liveWidth   int
	liveHeight  int
	dataURI     bool
	format   string
	frames   int
	duration float64
	delayMs  int
	quant    string
	noDither bool

	addr     string
	asJSON   bool
	speed    float64
	fps      int
	writeCfg string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fluidbg",
		Short:         "procedural fluid background generator",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLive,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve frames over HTTP",
		RunE:  runServe,
	}
	addRenderFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8001", "listen address")

	frameCmd := &cobra.Command{
		Use:   "frame",
		Short: "render a single frame",
		RunE:  runFrame,
	}
	addRenderFlags(frameCmd)
	frameCmd.Flags().Float64Var(&t, "t", 0, "frame time")
	frameCmd.Flags().StringVarP(&frameOutput, "output", "o", "test_frame.png", "output file (format from extension)")
	frameCmd.Flags().BoolVar(&dataURI, "data-uri", false, "print a data URI to stdout instead of writing a file")
	frameCmd.Flags().StringVar(&format, "format", "PNG", "data URI format (PNG or JPEG)")

	gifCmd := &cobra.Command{
		Use:   "gif",
		Short: "export a looping GIF animation",
		RunE:  runGIF,
	}
	addRenderFlags(gifCmd)
	addAnimationFlags(gifCmd)
	gifCmd.Flags().StringVarP(&gifOutput, "output", "o", config.DefaultConfig().Animation.Output, "output file")
	gifCmd.Flags().IntVar(&delayMs, "delay", anim.DefaultFrameDelayMs, "frame delay in milliseconds")
	gifCmd.Flags().StringVar(&quant, "quantizer", anim.QuantizerPlan9, "color quantizer (plan9, theme)")
	gifCmd.Flags().BoolVar(&noDither, "no-dither", false, "disable Floyd-Steinberg dithering")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "luminance statistics over an animation",
		RunE:  runStats,
	}
	addRenderFlags(statsCmd)
	addAnimationFlags(statsCmd)
	statsCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "live terminal preview",
		RunE:  runLive,
	}
	for _, c := range []*cobra.Command{rootCmd, liveCmd} {
		c.Flags().IntVar(&liveWidth, "width", 96, "preview width")
		c.Flags().IntVar(&liveHeight, "height", 54, "preview height")
		c.Flags().StringVar(&scheme, "scheme", "", "color scheme")
		c.Flags().StringVar(&backend, "backend", "", "compute backend")
		c.Flags().Float64Var(&speed, "speed", 0, "time advanced per second")
		c.Flags().IntVar(&fps, "fps", 15, "frame rate")
		c.Flags().StringVarP(&liveOutput, "output", "o", "", "GIF path for recordings")
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list resolution presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%dx%d\t%s\n", name, p.Width, p.Height, p.Description)
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if writeCfg != "" {
				if err := config.Save(writeCfg, cfg); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", writeCfg)
				return nil
			}
			return yamlOut(cfg)
		},
	}
	configCmd.Flags().StringVarP(&writeCfg, "write", "w", "", "write config to file")

	palettesCmd := &cobra.Command{
		Use:   "palettes",
		Short: "list palettes and color schemes",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("palettes:")
			for _, p := range palette.List() {
				fmt.Printf("  %s\n", p)
			}
			fmt.Println("schemes:")
			for _, s := range render.Schemes() {
				fmt.Printf("  %s\n", s)
			}
			fmt.Println("backends:")
			for _, b := range compute.Names() {
				fmt.Printf("  %s\n", b)
			}
		},
	}

	rootCmd.AddCommand(serveCmd, frameCmd, gifCmd, statsCmd, liveCmd, presetsCmd, configCmd, palettesCmd)
	return rootCmd
}

func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&width, "width", 0, "frame width")
	cmd.Flags().IntVar(&height, "height", 0, "frame height")
	cmd.Flags().StringVar(&scheme, "scheme", "", "color scheme")
	cmd.Flags().StringVar(&paletteName, "palette", "", "palette")
	cmd.Flags().StringVar(&backend, "backend", "", "compute backend (auto, cpu, serial)")
	cmd.Flags().IntVar(&workers, "workers", 0, "compute workers (0 = all CPUs)")
	cmd.Flags().StringVar(&preset, "preset", "", "resolution preset")
}

func addAnimationFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&frames, "frames", 60, "number of frames")
	cmd.Flags().Float64Var(&duration, "duration", 4.0, "animation duration")
}

func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv(os.LookupEnv)
	if logLevel != "" {
		cfg.Logger.Level = logLevel
	}
	return cfg, nil
}

// setup loads config, applies explicitly set flags and initializes logging.
func setup(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("preset") {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}
	// live binds its own size flags, read through the flag set
	if flags.Changed("width") {
		cfg.Render.Width, _ = flags.GetInt("width")
	}
	if flags.Changed("height") {
		cfg.Render.Height, _ = flags.GetInt("height")
	}
	if flags.Changed("scheme") {
		cfg.Render.Scheme = scheme
	}
	if flags.Changed("palette") {
		cfg.Render.Palette = paletteName
	}
	if flags.Changed("backend") {
		cfg.Compute.Backend = backend
	}
	if flags.Changed("workers") {
		cfg.Compute.Workers = workers
	}
	if flags.Changed("frames") {
		cfg.Animation.Frames = frames
	}
	if flags.Changed("duration") {
		cfg.Animation.Duration = duration
	}
	if flags.Changed("delay") {
		cfg.Animation.FrameDelayMs = delayMs
	}
	if flags.Changed("quantizer") {
		cfg.Animation.Quantizer = quant
	}
	if flags.Changed("no-dither") {
		cfg.Animation.Dither = !noDither
	}
	if flags.Changed("addr") {
		cfg.Server.Addr = addr
	}
	if cmd.Name() == "gif" && flags.Changed("output") {
		cfg.Animation.Output = gifOutput
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	observability.InitializeLogger(cfg.Logger)
	return cfg, nil
}

func newGenerator(cfg *config.Config, log *zap.Logger) (*fluid.Generator, error) {
	b, err := compute.Select(cfg.Compute.Backend, cfg.Compute.Workers)
	if err != nil {
		return nil, err
	}
	p, err := palette.Get(cfg.Render.Palette)
	if err != nil {
		return nil, err
	}
	return fluid.New(fluid.Options{
		Width:       cfg.Render.Width,
		Height:      cfg.Render.Height,
		Scheme:      cfg.Render.Scheme,
		Palette:     p,
		Backend:     b,
		AdvectionDt: cfg.Render.AdvectionDt,
		Parallelism: cfg.Animation.Parallelism,
		Logger:      log,
	})
}

func gifOptions(cfg *config.Config, gen *fluid.Generator, log *zap.Logger) anim.GIFOptions {
	return anim.GIFOptions{
		Quantizer: cfg.Animation.Quantizer,
		Theme:     gen.Palette(),
		NoDither:  !cfg.Animation.Dither,
		Logger:    log,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	log := observability.GetLogger()
	defer observability.Sync()

	gen, err := newGenerator(cfg, log)
	if err != nil {
		return err
	}
	defer gen.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("fluid generator ready",
		zap.Int("width", cfg.Render.Width),
		zap.Int("height", cfg.Render.Height),
		zap.String("device", gen.Device()),
	)
	return server.New(cfg.Server, gen, log).ListenAndServe(ctx)
}

func runFrame(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	defer observability.Sync()

	if !cmd.Flags().Changed("width") && !cmd.Flags().Changed("height") && !cmd.Flags().Changed("preset") && configFile == "" {
		p := config.GetPreset("preview")
		cfg.Render.Width, cfg.Render.Height = p.Width, p.Height
	}

	gen, err := newGenerator(cfg, observability.GetLogger())
	if err != nil {
		return err
	}
	defer gen.Close()

	if dataURI {
		f, err := frame.ParseFormat(format)
		if err != nil {
			return err
		}
		uri, err := gen.FrameDataURI(t, cfg.Render.Scheme, f)
		if err != nil {
			return err
		}
		fmt.Println(uri)
		return nil
	}

	buf, err := gen.Frame(t, cfg.Render.Scheme)
	if err != nil {
		return err
	}
	if err := frame.Save(frameOutput, buf); err != nil {
		return err
	}
	fmt.Printf("saved %s (%dx%d, t=%.3f, %s)\n", frameOutput, buf.Width, buf.Height, t, gen.Device())
	return nil
}

func runGIF(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	log := observability.GetLogger()
	defer observability.Sync()

	gen, err := newGenerator(cfg, log)
	if err != nil {
		return err
	}
	defer gen.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := cfg.Animation
	if err := gen.ExportGIF(ctx, a.Output, a.Frames, a.Duration, a.FrameDelayMs, gifOptions(cfg, gen, log)); err != nil {
		return err
	}
	fmt.Printf("saved %s (%d frames, %.1fs)\n", a.Output, a.Frames, a.Duration)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	defer observability.Sync()

	if !cmd.Flags().Changed("width") && !cmd.Flags().Changed("height") && !cmd.Flags().Changed("preset") && configFile == "" {
		p := config.GetPreset("thumb")
		cfg.Render.Width, cfg.Render.Height = p.Width, p.Height
	}

	gen, err := newGenerator(cfg, observability.GetLogger())
	if err != nil {
		return err
	}
	defer gen.Close()

	seq, err := gen.Sequence(cmd.Context(), cfg.Animation.Frames, cfg.Animation.Duration)
	if err != nil {
		return err
	}

	dt := 0.0
	if len(seq) > 1 {
		dt = seq[1].Time - seq[0].Time
	}
	summary := analysis.Summarize(seq, dt)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	series := analysis.LuminanceSeries(summary.PerFrame)
	if len(series) > 1 {
		graph := asciigraph.Plot(series,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("mean luminance per frame"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	fmt.Printf("frames:          %d\n", summary.Frames)
	fmt.Printf("mean luminance:  %.2f\n", summary.MeanLuminance)
	fmt.Printf("luminance range: %.2f\n", summary.LuminanceRange)
	if summary.Period > 0 {
		fmt.Printf("dominant period: %.3f\n", summary.Period)
	} else {
		fmt.Println("dominant period: none")
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	log := observability.GetLogger()
	defer observability.Sync()
	if logLevel == "" {
		defer observability.Quiet()()
	}

	cfg.Render.Width, cfg.Render.Height = liveWidth, liveHeight

	gen, err := newGenerator(cfg, log)
	if err != nil {
		return err
	}
	defer gen.Close()

	out := cfg.Animation.Output
	if liveOutput != "" {
		out = liveOutput
	}
	s := speed
	if s == 0 {
		s = cfg.Server.AnimationSpeed
	}

	return viz.Run(gen, viz.Options{
		Speed:   s,
		FPS:     fps,
		Output:  out,
		DelayMs: cfg.Animation.FrameDelayMs,
		GIF:     gifOptions(cfg, gen, log),
	})
}

func yamlOut(cfg *config.Config) error {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return errors.Join(err, enc.Close())
	}
	return enc.Close()
}
