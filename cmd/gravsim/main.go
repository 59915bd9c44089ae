package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/frame"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	// overrides for run
	seed      int64
	numBodies int
	dt        float64
	ticks     int
	amplifier float64
	runName   string
	runs      int
	exportTo  string
	// live view
	frameRate int
	watch     bool
	hold      time.Duration
	// serve
	addr        string
	openBrowser bool
	// plot, analyze
	field  string
	svgOut string
	// sweep
	axes    []string
	metric  string
	workers int
)

const svgSize = 800

// main registers the gravsim commands and runs the preset picker when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:   "gravsim",
		Short: "n-body gravity sandbox on a rigid-body engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := tuiLogger()
			if err != nil {
				return err
			}
			defer closeLog()
			return viz.RunInteractive(viz.Options{FPS: frameRate, Hold: hold, Logger: logger})
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")
	rootCmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")
	rootCmd.Flags().DurationVar(&hold, "hold", viz.DefaultHold, "how long a key counts as held after its last repeat")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")
	liveCmd.Flags().BoolVar(&watch, "watch", false, "reload when the config file changes")
	liveCmd.Flags().DurationVar(&hold, "hold", viz.DefaultHold, "how long a key counts as held after its last repeat")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store its samples",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	runCmd.Flags().IntVar(&numBodies, "bodies", config.DefaultBodies, "number of bodies")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of steps")
	runCmd.Flags().Float64Var(&amplifier, "amplifier", 1, "gravity multiplier")
	runCmd.Flags().StringVar(&runName, "name", "", "run name (defaults to the preset)")
	runCmd.Flags().IntVar(&runs, "runs", 1, "number of runs over consecutive seeds")
	runCmd.Flags().IntVar(&workers, "workers", 0, "concurrent ensemble runs (0 for GOMAXPROCS)")
	runCmd.Flags().StringVar(&exportTo, "export", "", "also write the run as JSON to this path (- for stdout)")
	runCmd.Flags().StringVar(&svgOut, "svg", "", "write the final frame as SVG to this path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream frames over websocket",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	serveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	serveCmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	serveCmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")
	serveCmd.Flags().BoolVar(&openBrowser, "open", false, "open the viewer in a browser")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&field, "field", "", "plot a single series (kinetic, potential, total, momentum_x, momentum_y, collisions)")
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "write the selected series as SVG to this path")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "find periodic oscillations in a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&field, "field", "kinetic", "series to analyze")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "search a grid of settings for the lowest metric",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	sweepCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	sweepCmd.Flags().StringArrayVar(&axes, "param", nil, "grid axis as name=v1,v2,... (repeatable)")
	sweepCmd.Flags().StringVar(&metric, "metric", "energy_drift", "metric to minimise")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 for all at once)")
	sweepCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of steps per run")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and samples as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&exportTo, "out", "-", "output path (- for stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [pattern]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	rootCmd.AddCommand(liveCmd, runCmd, serveCmd, sweepCmd, listCmd, plotCmd, analyzeCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig builds the configuration from the preset, then the config file,
// then any flags set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p, err := config.GetPreset(preset)
		if err != nil {
			return nil, err
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if loaded.Name == "" {
			loaded.Name = cfg.Name
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("bodies") {
		cfg.Bodies = numBodies
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("amplifier") {
		cfg.Gravity.Amplifier = amplifier
	}
	if flags.Changed("name") {
		cfg.Name = runName
	}
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	} else if cfg.DataDir == "" || cfg.DataDir == config.DefaultDataDir {
		cfg.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// tuiLogger sends log output to a file, since bubbletea owns the terminal.
func tuiLogger() (*log.Logger, func(), error) {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return nil, nil, fmt.Errorf("the live view needs a terminal; use 'gravsim run' or 'gravsim serve' instead")
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, nil, err
	}
	f, err := tea.LogToFile(filepath.Join(dataDir, "gravsim.log"), "gravsim")
	if err != nil {
		return nil, nil, err
	}
	return log.Default(), func() { f.Close() }, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if watch && configFile == "" {
		return fmt.Errorf("--watch needs --config")
	}

	logger, closeLog, err := tuiLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	m, err := viz.NewModel(cfg, viz.Options{FPS: frameRate, Hold: hold, Logger: logger})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if watch {
		go func() {
			err := config.Watch(ctx, configFile, logger, func(c *config.Config) {
				p.Send(viz.ConfigMsg{Config: c})
			})
			if err != nil {
				logger.Printf("watch: %v", err)
			}
		}()
	}

	_, err = p.Run()
	return err
}

// defaultMetrics are attached to every headless run.
func defaultMetrics(cfg *config.Config) []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergy(),
		metrics.NewEnergyDrift(),
		metrics.NewContainment(cfg.WorldRadius),
		metrics.NewCollisionRate(),
	}
}

func runInfo(cfg *config.Config) storage.RunInfo {
	return storage.RunInfo{
		Name:      cfg.Name,
		Seed:      cfg.Seed,
		Bodies:    cfg.Bodies,
		Dt:        cfg.Dt,
		G:         cfg.Gravity.Constant,
		Amplifier: cfg.Gravity.Amplifier,
		Boundary:  cfg.Physics.Boundary,
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	if runs > 1 {
		return runEnsemble(ctx, cfg, logger)
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s := sim.New(cfg.SimConfig(logger))
	for _, m := range defaultMetrics(cfg) {
		s.AddMetric(m)
	}
	rec := metrics.NewRecorder(cfg.SampleEvery, 0)
	s.AddObserver(rec)

	fmt.Printf("running %d bodies for %d ticks...\n", cfg.Bodies, cfg.Ticks)
	start := time.Now()

	result, runErr := s.Run(ctx, cfg.Ticks, cfg.Dt)
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	info := runInfo(cfg)
	runID, err := st.Save(info, result, rec.Samples())
	if err != nil {
		return err
	}
	if exportTo != "" {
		if err := storage.ExportJSON(exportTo, info, result, rec.Samples()); err != nil {
			return err
		}
	}
	if svgOut != "" {
		s.View.FitZoom(svgSize, svgSize, cfg.WorldRadius)
		d := frame.Build(s, svgSize, svgSize)
		if err := os.WriteFile(svgOut, []byte(export.FrameSVG(d, svgSize, svgSize)), 0644); err != nil {
			return err
		}
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	printResult(result)
	if runErr != nil {
		return fmt.Errorf("run stopped early: %w", runErr)
	}
	return nil
}

func runEnsemble(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	ens := sim.NewEnsemble(cfg.SimConfig(logger), runs, cfg.Seed)
	ens.NewMetrics = func() []sim.Metric { return defaultMetrics(cfg) }
	ens.Workers = workers

	fmt.Printf("running %d seeds from %d...\n", runs, cfg.Seed)
	start := time.Now()
	results, err := ens.Run(ctx, cfg.Ticks, cfg.Dt)
	fmt.Printf("completed in %v\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tTICKS\tCOLLISIONS\tENERGY\tDRIFT\tCONTAINED")
	for i, r := range results {
		if r == nil {
			continue
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%.4g\t%.4g\t%.3f\n",
			cfg.Seed+int64(i),
			r.Ticks,
			r.Collisions,
			r.Metrics["energy"],
			r.Metrics["energy_drift"],
			r.Metrics["containment"],
		)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func printResult(r *sim.Result) {
	fmt.Printf("ticks: %d\n", r.Ticks)
	fmt.Printf("simulated: %.2fs\n", r.Elapsed)
	fmt.Printf("collisions: %d\n", r.Collisions)
	fmt.Println("\nmetrics:")
	for name, val := range r.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
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
	fmt.Fprintln(w, "ID\tTIME\tBODIES\tSEED\tTICKS\tDT\tCOLLISIONS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%.4fs\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Seed,
			run.Ticks,
			run.Dt,
			run.Collisions,
		)
	}

	return w.Flush()
}

var plotFields = []struct {
	name    string
	caption string
	get     func(metrics.Sample) float64
}{
	{"total", "total energy", func(s metrics.Sample) float64 { return s.Total }},
	{"kinetic", "kinetic energy", func(s metrics.Sample) float64 { return s.Kinetic }},
	{"potential", "potential energy", func(s metrics.Sample) float64 { return s.Potential }},
	{"momentum_x", "momentum x", func(s metrics.Sample) float64 { return s.MomentumX }},
	{"momentum_y", "momentum y", func(s metrics.Sample) float64 { return s.MomentumY }},
	{"collisions", "collisions", func(s metrics.Sample) float64 { return float64(s.Collisions) }},
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if len(samples) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("bodies: %d  seed: %d\n", meta.Bodies, meta.Seed)
	fmt.Printf("samples: %d\n\n", len(samples))

	plotted := false
	for _, f := range plotFields {
		if field != "" && f.name != field {
			continue
		}
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = f.get(s)
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(f.caption),
		)
		fmt.Println(graph)
		fmt.Println()
		plotted = true

		if svgOut != "" && field != "" {
			times := make([]float64, len(samples))
			for i, s := range samples {
				times[i] = s.Time
			}
			if err := os.WriteFile(svgOut, []byte(export.SeriesToSVG(times, data, 800, 300, "#00ff88")), 0644); err != nil {
				return err
			}
		}
	}
	if !plotted {
		return fmt.Errorf("unknown field %q", field)
	}
	if svgOut != "" && field == "" {
		return fmt.Errorf("--svg needs --field")
	}
	return nil
}

func seriesOf(samples []metrics.Sample, name string) ([]float64, error) {
	for _, f := range plotFields {
		if f.name == name {
			data := make([]float64, len(samples))
			for i, s := range samples {
				data[i] = f.get(s)
			}
			return data, nil
		}
	}
	return nil, fmt.Errorf("unknown field %q", name)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		return fmt.Errorf("no data to analyze")
	}
	data, err := seriesOf(samples, field)
	if err != nil {
		return err
	}

	interval := (samples[len(samples)-1].Time - samples[0].Time) / float64(len(samples)-1)
	peaks, err := analysis.Peaks(data, interval, 5)
	if err != nil {
		return err
	}
	if len(peaks) == 0 {
		fmt.Println("no oscillation found")
		return nil
	}

	fmt.Printf("%s spectrum (%d samples, every %.4fs):\n", field, len(samples), interval)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PERIOD\tFREQUENCY\tPOWER")
	for _, p := range peaks {
		fmt.Fprintf(w, "%.3fs\t%.4fHz\t%.4g\n", p.Period, p.Frequency, p.Power)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	result := &sim.Result{
		Ticks:      meta.Ticks,
		Elapsed:    meta.Elapsed,
		Collisions: meta.Collisions,
		Metrics:    meta.Metrics,
	}
	return storage.ExportJSON(exportTo, meta.RunInfo, result, samples)
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := config.ListPresets()
	if len(args) == 1 {
		names = config.SuggestPresets(args[0])
		if len(names) == 0 {
			fmt.Printf("no presets match %q\n", args[0])
			return nil
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%s\n", name, config.Presets[name].Description)
	}
	return w.Flush()
}
