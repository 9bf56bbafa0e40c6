package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/san-kum/attractors/internal/config"
	"github.com/san-kum/attractors/internal/experiment"
	"github.com/san-kum/attractors/internal/storage"
	"github.com/san-kum/attractors/internal/storage/sqlite"
)

var (
	env      config.Env
	registry = experiment.NewRegistry()

	// run configuration
	tMax       float64
	dt         float64
	initial    string
	method     string
	paramFlags []string
	configFile string
	preset     string
	save       bool
	saveAs     string
	noPlot     bool

	// rendering
	plane  string
	output string

	lyapunov bool

	// sweep and search
	sweepParam string
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int
	transient  float64
	gridAxes   []string
	metricName string
	maximize   bool

	// ensemble
	trials int
	seed   int64

	noSave bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "attractors",
		Short:         "strange attractor lab: Lorenz, Rössler and Thomas systems",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplore(cmd, nil)
		},
	}

	rootCmd.PersistentFlags().String("data", "", "data directory (env ATTRACTORS_DATA_DIR)")
	rootCmd.PersistentFlags().String("store", "", "run store: file or sqlite (env ATTRACTORS_STORE)")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error (env ATTRACTORS_LOG_LEVEL)")
	rootCmd.PersistentFlags().Int("workers", 0, "concurrent solves for sweeps, 0 for one per CPU (env ATTRACTORS_WORKERS)")

	systemsCmd := &cobra.Command{
		Use:   "systems",
		Short: "list available systems",
		Args:  cobra.NoArgs,
		RunE:  listSystems,
	}

	describeCmd := &cobra.Command{
		Use:   "describe [system]",
		Short: "show equations, parameters and defaults of a system",
		Args:  cobra.ExactArgs(1),
		RunE:  describeSystem,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [system]",
		Short: "list available presets for a system",
		Args:  cobra.ExactArgs(1),
		RunE:  listPresets,
	}

	runCmd := &cobra.Command{
		Use:   "run [system]",
		Short: "solve a system and print a summary",
		Long:  "Solve a system on the grid t = 0, dt, 2dt, ... below t_max. The system may be omitted when --config names one.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&save, "save", false, "save the run to the store")
	runCmd.Flags().StringVar(&saveAs, "id", "", "run id to save under (generated when empty)")
	runCmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip the time series plot")

	compareCmd := &cobra.Command{
		Use:   "compare [system] [method1] [method2] ...",
		Short: "compare integration methods on the same run",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareMethods,
	}
	addRunFlags(compareCmd)

	benchCmd := &cobra.Command{
		Use:   "bench [system]",
		Short: "benchmark the integration methods",
		Args:  cobra.ExactArgs(1),
		RunE:  benchSystem,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot x, y and z of a run against time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	addSizeFlags(plotCmd, 80, 10)

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&plane, "plane", "xy", "projection plane: xy, xz or yz")
	phaseCmd.Flags().String("style", "ascii", "ascii or braille")
	addSizeFlags(phaseCmd, 80, 30)

	statsCmd := &cobra.Command{
		Use:   "stats [run_id]",
		Short: "descriptive statistics and metrics of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  statsRun,
	}
	statsCmd.Flags().BoolVar(&lyapunov, "lyapunov", false, "also estimate the largest Lyapunov exponent")
	statsCmd.Flags().Float64("perturbation", 1e-8, "initial separation for the Lyapunov estimate")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of one coordinate",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().String("axis", "x", "coordinate to analyze: x, y or z")
	addSizeFlags(analyzeCmd, 80, 15)

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout when empty)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout when empty)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a phase plot to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout when empty)")
	exportSVGCmd.Flags().StringVar(&plane, "plane", "xy", "projection plane: xy, xz or yz")
	exportSVGCmd.Flags().String("style", "path", "path or dots")
	addSizeFlags(exportSVGCmd, 800, 600)

	sweepCmd := &cobra.Command{
		Use:   "sweep [system]",
		Short: "bifurcation diagram over one parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepSystem,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "sweep", "", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 0, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 50, "number of values")
	sweepCmd.Flags().Float64Var(&transient, "transient", 0.5, "fraction of each run discarded before collecting peaks")
	sweepCmd.Flags().String("axis", "z", "coordinate whose peaks are plotted: x, y or z")
	addSizeFlags(sweepCmd, 80, 20)
	_ = sweepCmd.MarkFlagRequired("sweep")

	searchCmd := &cobra.Command{
		Use:   "search [system]",
		Short: "grid search parameters for the best run metric",
		Args:  cobra.ExactArgs(1),
		RunE:  searchSystem,
	}
	addRunFlags(searchCmd)
	searchCmd.Flags().StringArrayVar(&gridAxes, "grid", nil, "grid axis name=lo:hi:n (repeatable)")
	searchCmd.Flags().StringVar(&metricName, "metric", "max_radius", "metric to optimize: bounded, max_radius or mean_speed")
	searchCmd.Flags().BoolVar(&maximize, "maximize", false, "maximize instead of minimize")
	_ = searchCmd.MarkFlagRequired("grid")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [system]",
		Short: "solve perturbed copies of a run to probe sensitivity",
		Args:  cobra.ExactArgs(1),
		RunE:  ensembleSystem,
	}
	addRunFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&trials, "trials", 20, "number of perturbed runs")
	ensembleCmd.Flags().Float64("perturbation", 1e-6, "largest offset per coordinate")
	ensembleCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (time based when 0)")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a YAML scenario of runs and save them",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().BoolVar(&noSave, "no-save", false, "run without saving")

	exploreCmd := &cobra.Command{
		Use:   "explore [system]",
		Short: "interactive explorer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExplore,
	}

	rootCmd.AddCommand(systemsCmd, describeCmd, presetsCmd, runCmd, compareCmd, benchCmd,
		listCmd, showCmd, plotCmd, phaseCmd, statsCmd, analyzeCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd,
		sweepCmd, searchCmd, ensembleCmd, batchCmd, exploreCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&tMax, "tmax", 0, "time horizon, in [10, 2000] (system default when unset)")
	cmd.Flags().Float64Var(&dt, "dt", 0, "output step, in [0.001, 0.1] (system default when unset)")
	cmd.Flags().StringVar(&initial, "x0", "", "initial state x,y,z")
	cmd.Flags().StringVar(&method, "method", "", "integration method: rk45, rk4 or euler")
	cmd.Flags().StringArrayVarP(&paramFlags, "param", "p", nil, "parameter name=value (repeatable)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func addSizeFlags(cmd *cobra.Command, w, h int) {
	cmd.Flags().Int("width", w, "plot width")
	cmd.Flags().Int("height", h, "plot height")
}

func plotSize(cmd *cobra.Command) (int, int) {
	w, _ := cmd.Flags().GetInt("width")
	h, _ := cmd.Flags().GetInt("height")
	return w, h
}

// setup reads the environment, applies flag overrides and installs the
// logger.
func setup(cmd *cobra.Command) error {
	var err error
	env, err = config.ParseEnv()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		env.DataDir, _ = flags.GetString("data")
	}
	if flags.Changed("store") {
		env.Store, _ = flags.GetString("store")
	}
	if flags.Changed("log-level") {
		env.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("workers") {
		env.Workers, _ = flags.GetInt("workers")
	}
	if err := env.Validate(); err != nil {
		return err
	}

	level, err := config.ParseLevel(env.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	})))
	return nil
}

// openStore opens and initializes the configured run store.
func openStore(ctx context.Context) (storage.Store, error) {
	var st storage.Store
	switch env.Store {
	case config.StoreSQLite:
		if err := os.MkdirAll(env.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		db, err := sqlite.Open(filepath.Join(env.DataDir, "runs.db"))
		if err != nil {
			return nil, err
		}
		st = db
	default:
		st = storage.NewFileStore(env.DataDir)
	}

	if err := st.Init(ctx); err != nil {
		st.Close()
		return nil, err
	}
	slog.Debug("store ready", "kind", env.Store, "dir", env.DataDir)
	return st, nil
}
