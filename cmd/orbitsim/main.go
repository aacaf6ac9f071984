package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/analysis"
	"github.com/san-kum/orbitsim/internal/automation"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/logging"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/scenario"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	logLevel   string

	speed      int
	accuracy   int
	preset     string
	integrator string
	workers    int
	frames     int
	trailLimit int
	// live view
	frameRate   int
	startPaused bool
	gifPath     string
	theme       string
	// headless diagnostics
	boundRadius float64
	saveRun     bool
	// monte carlo
	trials       int
	parallel     int
	perturbation float64
	seed         int64
	// bench
	benchBodies  []int
	benchFrames  int
	benchWorkers int
	// lyapunov
	lyapunovTime float64
	// svg
	svgOut      string
	snapshotSVG string
	// config init
	force bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "orbitsim",
		Short:        "interactive 2D gravity simulator",
		SilenceUsage: true,
		RunE:         runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	addLiveFlags(rootCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addLiveFlags(liveCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a preset headless and store its diagnostics",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to run")
	runCmd.Flags().Float64Var(&boundRadius, "radius", 1000, "bound radius around the centre of mass")
	runCmd.Flags().StringVar(&snapshotSVG, "svg", "", "also write the final bodies, trails and ghosts to this SVG file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list the preset catalog",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's energy and momentum",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	orbitCmd := &cobra.Command{
		Use:   "orbit [run_id]",
		Short: "draw a run's trails in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  orbitPlot,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a run's kinetic energy",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov",
		Short: "estimate a preset's largest Lyapunov exponent",
		Args:  cobra.NoArgs,
		RunE:  runLyapunov,
	}
	addSimFlags(lyapunovCmd)
	lyapunovCmd.Flags().Float64Var(&lyapunovTime, "time", 200, "simulated time")
	lyapunovCmd.Flags().Float64Var(&perturbation, "perturbation", 1e-6, "initial separation")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run diagnostics to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export run trails to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "output", "o", "", "output file (default stdout)")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "replay a yaml script of controller commands",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	addSimFlags(scriptCmd)
	scriptCmd.Flags().BoolVar(&saveRun, "save", false, "store the run afterwards")
	scriptCmd.Flags().StringVar(&snapshotSVG, "svg", "", "also write the final bodies, trails and ghosts to this SVG file")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare integrators on the same preset",
		RunE:  compareIntegrators,
	}
	addSimFlags(compareCmd)
	compareCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to run")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark integrator throughput",
		Args:  cobra.NoArgs,
		RunE:  benchIntegrators,
	}
	benchCmd.Flags().IntSliceVar(&benchBodies, "bodies", []int{3, 32, 256}, "body counts")
	benchCmd.Flags().IntVar(&benchFrames, "frames", 20, "frames per measurement")
	benchCmd.Flags().IntVar(&benchWorkers, "workers", 4, "leapfrog workers")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "perturb a preset's velocities and count bound outcomes",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addSimFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames per trial")
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().IntVar(&parallel, "parallel", 4, "trials run at once")
	monteCarloCmd.Flags().Float64Var(&perturbation, "perturbation", 0.05, "max velocity change per axis")
	monteCarloCmd.Flags().Float64Var(&boundRadius, "radius", 1000, "bound radius around the centre of mass")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")

	configCmd := &cobra.Command{
		Use:   "config-init [path]",
		Short: "write the default config",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	configCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	rootCmd.AddCommand(liveCmd, runCmd, presetsCmd, listCmd, plotCmd, orbitCmd, analyzeCmd, lyapunovCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, scriptCmd, compareCmd, benchCmd, monteCarloCmd, configCmd)

	return rootCmd
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&speed, "speed", sim.DefaultSpeed, "simulation speed (1-400)")
	cmd.Flags().IntVar(&accuracy, "accuracy", sim.DefaultAccuracy, "sub-steps per time unit (500-5000)")
	cmd.Flags().StringVar(&preset, "preset", "two-body", "preset name or index")
	cmd.Flags().StringVar(&integrator, "integrator", "leapfrog", "integrator")
	cmd.Flags().IntVar(&workers, "workers", 1, "leapfrog acceleration workers")
	cmd.Flags().IntVar(&trailLimit, "trail-limit", 0, "max trail points per body (0 = unbounded)")
}

func addLiveFlags(cmd *cobra.Command) {
	addSimFlags(cmd)
	cmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	cmd.Flags().BoolVar(&startPaused, "paused", true, "start paused")
	cmd.Flags().StringVar(&gifPath, "gif", "orbitsim.gif", "gif recording path")
	cmd.Flags().StringVar(&theme, "theme", viz.Themes[0].Name, "colour theme")
}

// loadConfig reads the config file if one is given; flags set on the
// command line override it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("speed") {
		cfg.Speed = speed
	}
	if flags.Changed("accuracy") {
		cfg.Accuracy = accuracy
	}
	if flags.Changed("preset") {
		cfg.Preset = preset
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("trail-limit") {
		cfg.TrailLimit = trailLimit
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if flags.Changed("paused") {
		cfg.StartPaused = startPaused
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("log-level") || configFile == "" {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("data") || configFile == "" {
		cfg.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newController(cfg *config.Config, log *slog.Logger) (*sim.Controller, error) {
	stepper, err := integrators.New(cfg.Integrator, cfg.Workers)
	if err != nil {
		return nil, err
	}
	return sim.New(
		sim.WithSpeed(cfg.Speed),
		sim.WithAccuracy(cfg.Accuracy),
		sim.WithPreset(cfg.PresetIndex()),
		sim.WithCenter(cfg.Center()),
		sim.WithBaseRadius(cfg.BaseRadius),
		sim.WithTrailLimit(cfg.TrailLimit),
		sim.WithPaused(cfg.StartPaused),
		sim.WithStepper(stepper),
		sim.WithLogger(log),
	), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// the alternate screen owns stdout, so logs go to a file
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return err
	}
	logFile, err := os.OpenFile(filepath.Join(cfg.DataDir, "orbitsim.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log := logging.NewLogger(cfg.LogLevel, logFile)

	ctrl, err := newController(cfg, log)
	if err != nil {
		return err
	}
	log.Info("live view", "preset", ctrl.Snapshot().PresetName, "integrator", ctrl.Integrator())

	ctx, cancel := signalContext()
	defer cancel()

	return viz.Run(ctx, ctrl, viz.Options{
		World:   dynamo.V(cfg.Width, cfg.Height),
		FPS:     cfg.FPS,
		GIFPath: gifPath,
		Theme:   theme,
		Logger:  log,
	})
}

func diagnostics(c *sim.Controller, radius float64) []sim.Metric {
	ms := []sim.Metric{
		metrics.NewEnergy(),
		metrics.NewEnergyDrift(),
		metrics.NewMomentumDrift(),
		metrics.NewTrailPoints(),
		metrics.NewStability(radius),
	}
	for _, m := range ms {
		c.AddMetric(m)
	}
	return ms
}

func metricValues(ms []sim.Metric) map[string]float64 {
	values := make(map[string]float64, len(ms))
	for _, m := range ms {
		values[m.Name()] = m.Value()
	}
	return values
}

func saveController(cfg *config.Config, c *sim.Controller, rec *metrics.Recorder, ms []sim.Metric) (string, error) {
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return "", err
	}
	return st.Save(storage.NewRun(c.Snapshot(), rec.Samples(), metricValues(ms)))
}

func writeSnapshotSVG(cfg *config.Config, c *sim.Controller) error {
	if snapshotSVG == "" {
		return nil
	}
	if err := export.SaveSnapshot(snapshotSVG, c.Snapshot(), cfg.Width, cfg.Height); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", snapshotSVG)
	return nil
}

// openStore opens the run store under the configured data directory.
func openStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.DataDir), nil
}

func printMetrics(ms []sim.Metric) {
	fmt.Println("\nmetrics:")
	for _, m := range ms {
		fmt.Printf("  %s: %.6g\n", m.Name(), m.Value())
	}
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logging.NewLogger(cfg.LogLevel, os.Stderr)

	c, err := newController(cfg, log)
	if err != nil {
		return err
	}
	rec := metrics.NewRecorder()
	c.AddObserver(rec)
	ms := diagnostics(c, boundRadius)

	ctx, cancel := signalContext()
	defer cancel()

	snap := c.Snapshot()
	fmt.Printf("running %s with %s...\n", snap.PresetName, snap.Integrator)
	start := time.Now()

	for i := 0; i < cfg.Frames; i++ {
		if _, err := c.StepOnce(ctx); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	if err := c.Validate(); err != nil {
		log.Warn("simulation diverged", "err", err)
	}

	runID, err := saveController(cfg, c, rec, ms)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d (%d sub-steps of %.4g)\n", c.Frames(), c.Frames()*c.SubStepCount(), c.SubStepSize())
	fmt.Printf("sim time: %.2f\n", c.Time())
	printMetrics(ms)
	return writeSnapshotSVG(cfg, c)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tNAME\tBODIES\tDESCRIPTION")
	for i, p := range scenario.All() {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", i, p.Name, len(p.Bodies), p.Description)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tINTEG\tSPEED\tACC\tFRAMES\tSIM TIME")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%.2f\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Integrator,
			run.Speed,
			run.Accuracy,
			run.Frames,
			run.SimTime,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	if len(samples) < 2 {
		return fmt.Errorf("not enough samples to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(samples))

	kinetic := make([]float64, len(samples))
	potential := make([]float64, len(samples))
	angular := make([]float64, len(samples))
	for i, s := range samples {
		kinetic[i] = s.Kinetic
		potential[i] = s.Potential
		angular[i] = s.AngularMomentum
	}

	series := []struct {
		data    []float64
		caption string
	}{
		{metrics.Totals(samples), "total energy"},
		{kinetic, "kinetic energy"},
		{potential, "potential energy"},
		{angular, "angular momentum"},
	}
	for _, s := range series {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

// orbitPlot draws stored trails on a braille canvas fitted to their bounds.
func orbitPlot(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trails, err := st.LoadTrails(runID)
	if err != nil {
		return err
	}

	lo := dynamo.V(math.Inf(1), math.Inf(1))
	hi := dynamo.V(math.Inf(-1), math.Inf(-1))
	points := 0
	for _, t := range trails {
		for _, p := range t {
			lo = dynamo.V(math.Min(lo.X, p.X), math.Min(lo.Y, p.Y))
			hi = dynamo.V(math.Max(hi.X, p.X), math.Max(hi.Y, p.Y))
			points++
		}
	}
	if points == 0 {
		return fmt.Errorf("no trail points to plot")
	}

	// pad so single points and straight lines still have an extent
	pad := math.Max(hi.Sub(lo).Norm()*0.05, 1)
	lo = lo.Sub(dynamo.V(pad, pad))
	hi = hi.Add(dynamo.V(pad, pad))

	const cols, rows = 70, 24
	canvas := viz.NewCanvas(cols, rows)
	view := viz.Viewport{World: hi.Sub(lo), Cols: cols, Rows: rows}
	for i, t := range trails {
		canvas.SetPen(viz.BodyColor(i).Hex())
		for j := 1; j < len(t); j++ {
			x0, y0 := view.ToCanvas(t[j-1].Sub(lo))
			x1, y1 := view.ToCanvas(t[j].Sub(lo))
			canvas.DrawLine(x0, y0, x1, y1)
		}
		if len(t) == 1 {
			canvas.Set(view.ToCanvas(t[0].Sub(lo)))
		}
	}

	fmt.Printf("orbits: %s (%s)\n", meta.ID, meta.Preset)
	fmt.Printf("x: %.1f .. %.1f  y: %.1f .. %.1f\n\n", lo.X, hi.X, lo.Y, hi.Y)
	fmt.Print(canvas.String())
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	if len(samples) < 4 {
		return fmt.Errorf("not enough samples")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("preset: %s\n\n", meta.Preset)

	data := make([]float64, len(samples))
	for i, s := range samples {
		data[i] = s.Kinetic
	}
	dt := samples[1].Time - samples[0].Time

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:len(ps)/2]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (kinetic energy)"),
	)
	fmt.Println(graph)
	fmt.Println()

	period := analysis.DominantPeriod(data, dt)
	if period == 0 {
		fmt.Println("no dominant frequency")
		return nil
	}
	fmt.Printf("dominant frequency: %.4f\n", 1/period)
	fmt.Printf("period: %.3f\n", period)
	return nil
}

func runLyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	stepper, err := integrators.New(cfg.Integrator, cfg.Workers)
	if err != nil {
		return err
	}

	lc := analysis.DefaultLyapunovConfig()
	lc.Center = cfg.Center()
	lc.StepSize = 1 / float64(min(max(cfg.Accuracy, sim.MinAccuracy), sim.MaxAccuracy))
	lc.Duration = lyapunovTime
	if cmd.Flags().Changed("perturbation") {
		lc.Perturbation = perturbation
	}

	p, _ := scenario.Get(cfg.PresetIndex())
	fmt.Printf("lyapunov: %s with %s, t=%g, h=%.4g\n", p.Name, stepper.Name(), lc.Duration, lc.StepSize)

	start := time.Now()
	lambda, err := analysis.LyapunovExponent(cfg.PresetIndex(), stepper, lc)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("largest exponent: %.6f\n", lambda)
	if lambda > 0 {
		fmt.Println("orbits are chaotic")
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	samples, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"frame", "time", "kinetic", "potential", "total", "px", "py", "angular", "trail_points"}
	if err := w.Write(header); err != nil {
		return err
	}

	ff := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, s := range samples {
		row := []string{
			strconv.Itoa(s.Frame), ff(s.Time), ff(s.Kinetic), ff(s.Potential), ff(s.Total),
			ff(s.MomentumX), ff(s.MomentumY), ff(s.AngularMomentum), strconv.Itoa(s.TrailPoints),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	run, err := st.Open(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, run)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	trails, err := st.LoadTrails(args[0])
	if err != nil {
		return err
	}

	svg := export.TrailsToSVG(trails, cfg.Width, cfg.Height)
	if svgOut == "" {
		_, err = fmt.Print(svg)
		return err
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logging.NewLogger(cfg.LogLevel, os.Stderr)

	script, err := automation.LoadScript(args[0])
	if err != nil {
		return fmt.Errorf("failed to load script: %w", err)
	}

	c, err := newController(cfg, log)
	if err != nil {
		return err
	}
	rec := metrics.NewRecorder()
	c.AddObserver(rec)
	ms := diagnostics(c, 1000)

	ctx, cancel := signalContext()
	defer cancel()

	if script.Name != "" {
		fmt.Printf("script: %s\n", script.Name)
	}
	n, err := automation.RunScript(ctx, c, script, log)
	if err != nil {
		return err
	}

	snap := c.Snapshot()
	fmt.Printf("ran %d frames, preset %s, %d bodies, t=%.2f\n", n, snap.PresetName, len(snap.Bodies), snap.Time)

	if saveRun {
		runID, err := saveController(cfg, c, rec, ms)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	printMetrics(ms)
	return writeSnapshotSVG(cfg, c)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}

	ctx, cancel := signalContext()
	defer cancel()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tTIME\tENERGY DRIFT\tMOMENTUM DRIFT")

	for _, name := range names {
		cfg.Integrator = name
		c, err := newController(cfg, logging.Discard())
		if err != nil {
			return err
		}
		drift := metrics.NewEnergyDrift()
		momentum := metrics.NewMomentumDrift()
		c.AddMetric(drift)
		c.AddMetric(momentum)

		start := time.Now()
		for i := 0; i < cfg.Frames; i++ {
			if _, err := c.StepOnce(ctx); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%s\t%v\t%.3e\t%.3e\n", name, time.Since(start), drift.Value(), momentum.Value())
	}

	return w.Flush()
}

// ring spawns n unit masses on a circle around the controller's centre.
func ring(c *sim.Controller, n int) {
	for c.Len() < n {
		angle := 2 * math.Pi * float64(c.Len()) / float64(n)
		c.SpawnBody(c.Center().Add(dynamo.V(math.Cos(angle), math.Sin(angle)).Scale(300)))
	}
}

func benchIntegrators(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("benchmarking %d frames per run\n\n", benchFrames)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tBODIES\tSUB-STEPS\tTIME\tSUB-STEPS/SEC")

	for _, name := range integrators.Names() {
		for _, n := range benchBodies {
			stepper, err := integrators.New(name, benchWorkers)
			if err != nil {
				return err
			}
			c := sim.New(sim.WithPreset(0), sim.WithSpeed(1), sim.WithStepper(stepper))
			ring(c, n)

			start := time.Now()
			steps := 0
			for i := 0; i < benchFrames; i++ {
				k, err := c.StepOnce(ctx)
				steps += k
				if err != nil {
					return err
				}
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.0f\n",
				name, c.Len(), steps, elapsed, float64(steps)/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	stepper, err := integrators.New(cfg.Integrator, cfg.Workers)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	mc := &automation.MonteCarloConfig{
		Preset:       cfg.PresetIndex(),
		Perturbation: perturbation,
		NumTrials:    trials,
		Frames:       cfg.Frames,
		Speed:        cfg.Speed,
		Accuracy:     cfg.Accuracy,
		Radius:       boundRadius,
		Seed:         seed,
		Workers:      parallel,
		Options: []sim.Option{
			sim.WithCenter(cfg.Center()),
			sim.WithStepper(stepper),
		},
	}

	p, _ := scenario.Get(mc.Preset)
	fmt.Printf("monte carlo: %s, %d trials, ±%g velocity\n\n", p.Name, trials, perturbation)

	results, err := automation.RunMonteCarlo(ctx, mc)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tBOUND\tENERGY DRIFT\tSTABLE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.2f\t%.3e\t%v\n", r.TrialID, r.Stability, r.EnergyDrift, r.Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d  unstable: %d\n", stable, unstable)
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "orbitsim.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s exists (use --force to overwrite)", path)
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
