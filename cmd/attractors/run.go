package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/attractors/internal/analysis"
	"github.com/san-kum/attractors/internal/automation"
	"github.com/san-kum/attractors/internal/dynamo"
	"github.com/san-kum/attractors/internal/experiment"
	"github.com/san-kum/attractors/internal/integrators"
	"github.com/san-kum/attractors/internal/optim"
	"github.com/san-kum/attractors/internal/sim"
	"github.com/san-kum/attractors/internal/viz"
)

var styles = viz.NewStyles(viz.ThemeCyberpunk)

func runSimulation(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sys, run, err := runConfig(cmd, args)
	if err != nil {
		return err
	}

	slog.Debug("solving",
		"system", sys.Name(),
		"method", run.Method,
		"t_max", run.Settings.TMax,
		"dt", run.Settings.Dt,
		"points", run.Settings.Points())

	exp := experiment.New(sys, run)
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	tr := result.Trajectory

	fmt.Printf("%s  %s\n", styles.Title.Render(sys.Title()), styles.Subtle.Render(sys.Equations().Plain))
	fmt.Printf("method: %s  points: %d  elapsed: %v\n", result.Method, tr.Len(), result.Elapsed)
	if tr.Len() > 0 {
		final := tr.Final()
		fmt.Printf("final state: x=%.6g y=%.6g z=%.6g at t=%.4g\n", final[0], final[1], final[2], tr.Times[tr.Len()-1])
	}
	printDivergence(result.Diverged, tr)
	fmt.Println(viz.MetricsTable(result.Metrics, styles))

	if !noPlot {
		fmt.Println(viz.TimeSeries(tr, 0, 80, 10))
	}

	if save {
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.Save(ctx, tr, exp.Metadata(result, saveAs))
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Printf("saved run %s\n", id)
	}
	return nil
}

// printDivergence warns when a trajectory left the finite range. The solve
// itself still succeeded.
func printDivergence(idx int, tr *dynamo.Trajectory) {
	if idx < 0 {
		return
	}
	fmt.Println(styles.Warning.Render(fmt.Sprintf(
		"warning: trajectory diverged at t=%.4g (point %d of %d); try a smaller dt or rk45",
		tr.Times[idx], idx, tr.Len())))
}

func compareMethods(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sys, run, err := runConfig(cmd, args[:1])
	if err != nil {
		return err
	}

	methods := args[1:]
	if len(methods) == 0 {
		methods = integrators.Methods()
	}

	var reference *dynamo.Trajectory
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPOINTS\tTIME\tFINAL X\tFINAL Y\tFINAL Z\tMAX DEV\tDIVERGED")

	for _, m := range methods {
		r := run
		r.Method = m
		result, err := experiment.New(sys, r).Run(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", m, err)
		}
		tr := result.Trajectory
		if reference == nil {
			reference = tr
		}

		final := tr.Final()
		diverged := "-"
		if result.Diverged >= 0 {
			diverged = fmt.Sprintf("t=%.4g", tr.Times[result.Diverged])
		}
		fmt.Fprintf(w, "%s\t%d\t%v\t%.6g\t%.6g\t%.6g\t%.3g\t%s\n",
			m, tr.Len(), result.Elapsed.Round(time.Microsecond),
			final[0], final[1], final[2], maxDeviation(reference, tr), diverged)
	}
	w.Flush()
	fmt.Printf("\nmax dev is the largest distance from the %s trajectory at matching grid points\n", methods[0])
	return nil
}

func maxDeviation(a, b *dynamo.Trajectory) float64 {
	n := min(a.Len(), b.Len())
	dev := 0.0
	for i := 0; i < n; i++ {
		d := a.States[i].Sub(b.States[i]).Norm()
		if math.IsNaN(d) {
			return math.Inf(1)
		}
		dev = math.Max(dev, d)
	}
	return dev
}

func benchSystem(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sys, err := registry.Resolve(args[0])
	if err != nil {
		return err
	}

	tMaxes := []float64{10, 50, 100}
	dts := []float64{0.001, 0.01, 0.1}

	fmt.Printf("benchmarking %s\n\n", sys.Name())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tT_MAX\tDT\tPOINTS\tTIME\tPOINTS/SEC")

	for _, m := range integrators.Methods() {
		for _, tm := range tMaxes {
			for _, d := range dts {
				run := sim.DefaultRun(sys)
				run.Method = m
				run.Settings = dynamo.Settings{TMax: tm, Dt: d}

				result, err := experiment.New(sys, run).Run(ctx)
				if err != nil {
					return err
				}
				n := result.Trajectory.Len()
				rate := float64(n) / result.Elapsed.Seconds()
				fmt.Fprintf(w, "%s\t%.0f\t%.3f\t%d\t%v\t%.0f\n", m, tm, d, n, result.Elapsed.Round(time.Microsecond), rate)
			}
		}
	}
	return w.Flush()
}

func sweepSystem(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sys, run, err := runConfig(cmd, args)
	if err != nil {
		return err
	}
	axisName, _ := cmd.Flags().GetString("axis")
	axis, err := parseAxis(axisName)
	if err != nil {
		return err
	}
	if sweepSteps < 2 {
		return fmt.Errorf("steps must be at least 2, got %d", sweepSteps)
	}
	if !(transient >= 0 && transient < 1) {
		return fmt.Errorf("transient must be in [0, 1), got %g", transient)
	}

	values := sim.Linspace(sweepFrom, sweepTo, sweepSteps)
	for _, p := range sys.Params() {
		if p.Name != sweepParam {
			continue
		}
		for _, v := range []float64{sweepFrom, sweepTo} {
			if !p.Contains(v) {
				return &dynamo.BoundsError{Param: p, Value: v}
			}
		}
	}

	slog.Info("sweeping", "system", sys.Name(), "param", sweepParam, "from", sweepFrom, "to", sweepTo, "steps", sweepSteps, "workers", env.Workers)
	start := time.Now()
	points, err := sim.Sweep(ctx, sys, run, sweepParam, values, env.Workers)
	if err != nil {
		return err
	}
	data := analysis.Bifurcation(points, axis, transient*run.Settings.TMax)
	slog.Debug("sweep done", "elapsed", time.Since(start))

	w, h := plotSize(cmd)
	fmt.Printf("%s bifurcation diagram: peaks of %s vs %s\n\n", sys.Name(), axisName, sweepParam)
	fmt.Println(viz.BifurcationPlot(data, w, h))
	fmt.Printf("%s from %.4g (left) to %.4g (right)\n", sweepParam, sweepFrom, sweepTo)
	return nil
}

func searchSystem(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sys, run, err := runConfig(cmd, args)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(gridAxes))
	ranges := make([][]float64, 0, len(gridAxes))
	total := 1
	for _, a := range gridAxes {
		name, values, err := optim.ParseAxis(a)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
		total *= len(values)
	}

	g := optim.NewGridSearch(names, ranges)
	g.Maximize = maximize
	slog.Info("grid search", "system", sys.Name(), "metric", metricName, "runs", total, "maximize", maximize)

	best, err := g.Search(ctx, sys, run, metricName)
	if err != nil {
		return err
	}

	fmt.Printf("best %s = %.6g after %d runs\n", metricName, best.Value, best.Evaluated)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAM\tVALUE")
	for _, p := range sys.Params() {
		fmt.Fprintf(w, "%s\t%.6g\n", p.Name, best.Params[p.Name])
	}
	return w.Flush()
}

func ensembleSystem(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sys, run, err := runConfig(cmd, args)
	if err != nil {
		return err
	}
	perturbation, _ := cmd.Flags().GetFloat64("perturbation")

	trialsOut, err := automation.RunEnsemble(ctx, sys, automation.EnsembleConfig{
		Run:          run,
		Perturbation: perturbation,
		Trials:       trials,
		Seed:         seed,
		Workers:      env.Workers,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tX0\tY0\tZ0\tFINAL X\tFINAL Y\tFINAL Z\tBOUNDED")
	for _, t := range trialsOut {
		fmt.Fprintf(w, "%d\t%.9g\t%.9g\t%.9g\t%.6g\t%.6g\t%.6g\t%v\n",
			t.ID, t.Initial[0], t.Initial[1], t.Initial[2], t.Final[0], t.Final[1], t.Final[2], t.Bounded)
	}
	w.Flush()

	bounded, unbounded, spread := automation.EnsembleStats(trialsOut)
	fmt.Printf("\n%d bounded, %d unbounded, final spread %.6g (initial offset up to %g)\n", bounded, unbounded, spread, perturbation)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	var results []automation.StepResult
	if noSave {
		results, err = automation.RunScenario(ctx, sc, registry, nil)
	} else {
		store, serr := openStore(ctx)
		if serr != nil {
			return serr
		}
		defer store.Close()
		results, err = automation.RunScenario(ctx, sc, registry, store)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSYSTEM\tMETHOD\tPOINTS\tTIME\tDIVERGED\tID")
	for _, r := range results {
		diverged := "-"
		if r.Result.Diverged >= 0 {
			diverged = fmt.Sprintf("t=%.4g", r.Result.Trajectory.Times[r.Result.Diverged])
		}
		id := r.ID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%v\t%s\t%s\n",
			r.Step, r.System, r.Result.Method, r.Result.Trajectory.Len(),
			r.Result.Elapsed.Round(time.Microsecond), diverged, id)
	}
	w.Flush()
	return err
}

func runExplore(cmd *cobra.Command, args []string) error {
	var sys dynamo.System
	if len(args) > 0 {
		s, err := registry.Resolve(args[0])
		if err != nil {
			return err
		}
		sys = s
	}
	return viz.RunExplorer(cmd.Context(), registry, sys)
}
