// Package viz renders trajectories in the terminal.
//
//   - [PhaseCanvas]: character plot of a 2D projection, glyphs aging from early to late
//   - [TimeSeries]: one coordinate against time, via asciigraph
//   - [SummaryTable]: descriptive statistics as a lipgloss table
//   - [Explorer]: Bubble Tea app to pick a system, tune its parameters and
//     watch the attractor in 3D or in one of the coordinate planes
//
// # Key Bindings (Explorer)
//
//	Tab   - Next parameter
//	H/L   - Decrease/increase parameter (1% of its range)
//	V     - Cycle view: 3D, XY, XZ, YZ
//	Space - Pause/Resume rotation
//	R     - Reset parameters to defaults
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
