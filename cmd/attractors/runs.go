package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/attractors/internal/analysis"
	"github.com/san-kum/attractors/internal/dynamo"
	"github.com/san-kum/attractors/internal/export"
	"github.com/san-kum/attractors/internal/metrics"
	"github.com/san-kum/attractors/internal/sim"
	"github.com/san-kum/attractors/internal/storage"
	"github.com/san-kum/attractors/internal/viz"
)

// loadRun reads the metadata and trajectory of a saved run.
func loadRun(ctx context.Context, id string) (*storage.RunMetadata, *dynamo.Trajectory, error) {
	store, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer store.Close()

	meta, err := store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("run %s not found in %s (see 'attractors list')", id, env.DataDir)
		}
		return nil, nil, err
	}
	tr, err := store.LoadTrajectory(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return meta, tr, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no saved runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYSTEM\tTIME\tMETHOD\tT_MAX\tDT\tPOINTS\tDIVERGED")
	for _, r := range runs {
		diverged := "-"
		if r.Diverged >= 0 {
			diverged = fmt.Sprintf("%d", r.Diverged)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.4g\t%.4g\t%d\t%s\n",
			r.ID, r.System, r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			r.Method, r.TMax, r.Dt, r.Points, diverged)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	meta, err := store.Load(ctx, args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	w, h := plotSize(cmd)

	fmt.Printf("%s run %s (%s, dt=%g)\n\n", meta.System, meta.ID, meta.Method, meta.Dt)
	for axis := 0; axis < dynamo.Dim; axis++ {
		fmt.Println(viz.TimeSeries(tr, axis, w, h))
		fmt.Println()
	}
	printDivergence(analysis.FirstNonFinite(tr), tr)
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	p, err := analysis.ParsePlane(plane)
	if err != nil {
		return err
	}
	style, _ := cmd.Flags().GetString("style")
	if style != "ascii" && style != "braille" {
		return fmt.Errorf("unknown style %q (want ascii or braille)", style)
	}

	meta, tr, err := loadRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	w, h := plotSize(cmd)
	points := analysis.Project(tr, p)
	xl, yl := p.Labels()

	fmt.Printf("%s phase portrait, %s vs %s (%d points)\n\n", meta.System, yl, xl, len(points))
	if style == "braille" {
		c := viz.NewCanvas(w, h)
		c.Plot(points)
		fmt.Println(styles.Plot.Render(c.String()))
		return nil
	}
	fmt.Println(viz.PhaseCanvas(points, w, h))
	return nil
}

func statsRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	meta, tr, err := loadRun(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s run %s: %d points, method %s, dt=%g\n\n", meta.System, meta.ID, tr.Len(), meta.Method, meta.Dt)
	fmt.Println(viz.SummaryTable(analysis.Describe(tr), styles))

	m := meta.Metrics
	if len(m) == 0 {
		m = metrics.Collect(tr, metrics.Defaults()...)
	}
	fmt.Println(viz.MetricsTable(m, styles))

	for axis := 0; axis < dynamo.Dim; axis++ {
		if f, ok := analysis.DominantFrequency(tr.Column(axis), tr.Dt); ok {
			fmt.Printf("dominant frequency of %s: %.4g (period %.4g)\n", analysis.Columns[axis+1], f, 1/f)
		}
	}

	if lyapunov {
		sys, err := registry.Lookup(meta.System)
		if err != nil {
			return err
		}
		perturbation, _ := cmd.Flags().GetFloat64("perturbation")
		run := sim.DefaultRun(sys)
		run.Params = dynamo.Params(meta.Params).Clone()
		run.Initial = meta.Initial
		run.Method = meta.Method
		run.Settings = dynamo.Settings{TMax: meta.TMax, Dt: meta.Dt}

		lambda, err := analysis.LyapunovExponent(ctx, sys, run, perturbation)
		if err != nil {
			return err
		}
		fmt.Printf("largest lyapunov exponent: %.4f\n", lambda)
		if lambda > 0 {
			fmt.Println(styles.Subtle.Render("positive: nearby trajectories separate exponentially"))
		}
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	axisName, _ := cmd.Flags().GetString("axis")
	axis, err := parseAxis(axisName)
	if err != nil {
		return err
	}
	meta, tr, err := loadRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if idx := analysis.FirstNonFinite(tr); idx >= 0 {
		printDivergence(idx, tr)
		return fmt.Errorf("cannot analyze the spectrum of a diverged run")
	}
	w, h := plotSize(cmd)

	fmt.Printf("%s run %s, coordinate %s\n\n", meta.System, meta.ID, axisName)
	fmt.Println(viz.SpectrumPlot(tr, axis, w, h))
	if f, ok := analysis.DominantFrequency(tr.Column(axis), tr.Dt); ok {
		fmt.Printf("\ndominant frequency: %.4g (period %.4g)\n", f, 1/f)
	}
	fmt.Printf("local maxima after t=%.4g: %d\n", meta.TMax/2,
		len(analysis.LocalMaxima(tr.Column(axis), tr.Len()/2)))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	_, tr, err := loadRun(ctx, args[0])
	if err != nil {
		return err
	}

	out, err := createOutput(output)
	if err != nil {
		return err
	}
	if err := storage.WriteCSV(ctx, out, tr); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out, err := createOutput(output)
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(out, tr, *meta); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	p, err := analysis.ParsePlane(plane)
	if err != nil {
		return err
	}
	style, _ := cmd.Flags().GetString("style")
	_, tr, err := loadRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	w, h := plotSize(cmd)
	points := analysis.Project(tr, p)

	var svg string
	switch style {
	case "path":
		svg = export.PhaseSVG(points, w, h, "")
	case "dots":
		// one canvas cell is 2x4 dots, drawn 2 units apart
		c := viz.NewCanvas(max(w/4, 1), max(h/8, 1))
		c.Plot(points)
		svg = export.CanvasSVG(c, 2, "")
	default:
		return fmt.Errorf("unknown style %q (want path or dots)", style)
	}

	out, err := createOutput(output)
	if err != nil {
		return err
	}
	if err := export.WriteSVG(out, svg); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
