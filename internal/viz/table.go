package viz

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/attractors/internal/analysis"
)

// SummaryTable lays out Describe's output with one row per statistic and
// one column per t, x, y, z.
func SummaryTable(sum analysis.Summary, st Styles) string {
	rows := [][]string{
		{"count"}, {"mean"}, {"std"}, {"min"}, {"25%"}, {"50%"}, {"75%"}, {"max"},
	}
	headers := []string{""}
	for _, c := range sum.Columns {
		headers = append(headers, c.Name)
		rows[0] = append(rows[0], fmt.Sprintf("%d", c.Count))
		for i, v := range []float64{c.Mean, c.Std, c.Min, c.Q25, c.Q50, c.Q75, c.Max} {
			rows[i+1] = append(rows[i+1], formatStat(v))
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(st.Subtle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return st.Title.Padding(0, 1)
			case col == 0:
				return st.Subtle.Padding(0, 1)
			default:
				return st.Value.Padding(0, 1).Align(lipgloss.Right)
			}
		})
	return t.Render()
}

// MetricsTable renders named run metrics sorted by name.
func MetricsTable(metrics map[string]float64, st Styles) string {
	if len(metrics) == 0 {
		return ""
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(st.Subtle).
		Headers("metric", "value").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.Title.Padding(0, 1)
			}
			return st.Value.Padding(0, 1)
		})
	for _, name := range sortedKeys(metrics) {
		t.Row(name, formatStat(metrics[name]))
	}
	return t.Render()
}

func formatStat(v float64) string {
	return fmt.Sprintf("%.6g", v)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
