package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/attractors/internal/config"
	"github.com/san-kum/attractors/internal/integrators"
)

func listSystems(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SYSTEM\tTITLE\tPARAMS\tPRESETS")
	for _, sys := range registry.Systems() {
		names := make([]string, 0, len(sys.Params()))
		for _, p := range sys.Params() {
			names = append(names, p.Name)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", sys.Name(), sys.Title(), strings.Join(names, ", "), len(config.ListPresets(sys.Name())))
	}
	w.Flush()

	fmt.Println("\nmethods:")
	for _, m := range integrators.Methods() {
		fmt.Printf("  %-6s %s\n", m, integrators.Describe(m))
	}
	return nil
}

func describeSystem(cmd *cobra.Command, args []string) error {
	sys, err := registry.Resolve(args[0])
	if err != nil {
		return err
	}

	eq := sys.Equations()
	fmt.Println(styles.Title.Render(sys.Title()))
	fmt.Printf("\n  %s\n  %s\n\n", eq.Plain, styles.Subtle.Render(eq.LaTeX))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAM\tSYMBOL\tDEFAULT\tMIN\tMAX")
	for _, p := range sys.Params() {
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\n", p.Name, p.Symbol, p.Default, p.Min, p.Max)
	}
	w.Flush()

	x0 := sys.DefaultState()
	s := sys.DefaultSettings()
	fmt.Printf("\ninitial state: (%g, %g, %g)\n", x0[0], x0[1], x0[2])
	fmt.Printf("t_max: %g  dt: %g  points: %d\n", s.TMax, s.Dt, s.Points())
	if names := config.ListPresets(sys.Name()); len(names) > 0 {
		fmt.Printf("presets: %s\n", strings.Join(names, ", "))
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	sys, err := registry.Resolve(args[0])
	if err != nil {
		return err
	}

	names := config.ListPresets(sys.Name())
	if len(names) == 0 {
		fmt.Printf("no presets for %s\n", sys.Name())
		return nil
	}

	fmt.Printf("presets for %s:\n", sys.Name())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%s\n", name, config.Presets[sys.Name()][name].Description)
	}
	return w.Flush()
}
