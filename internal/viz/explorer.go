package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/attractors/internal/analysis"
	"github.com/san-kum/attractors/internal/dynamo"
	"github.com/san-kum/attractors/internal/experiment"
	"github.com/san-kum/attractors/internal/integrators"
	"github.com/san-kum/attractors/internal/sim"
)

type screen int

const (
	screenMenu screen = iota
	screenExplore
)

// views cycles the 3D trail and the three coordinate planes.
var views = []string{"3D", "XY", "XZ", "YZ"}

const (
	paramStep  = 0.01
	rotateStep = 0.1
	autoRotate = 0.03
	tickEvery  = 50 * time.Millisecond
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// solvedMsg carries a finished solve. gen ties it to the parameter set that
// produced it so late results of an abandoned set are dropped.
type solvedMsg struct {
	gen    int
	result *experiment.Result
	err    error
}

// Explorer is the Bubble Tea model behind the interactive explorer.
type Explorer struct {
	ctx     context.Context
	systems []dynamo.System

	screen screen
	cursor int

	sys         dynamo.System
	params      dynamo.Params
	paramCursor int
	method      string

	view     int
	camera   Camera
	paused   bool
	showHelp bool
	theme    Theme
	styles   Styles

	gen     int
	solving bool
	result  *experiment.Result
	err     error

	width  int
	height int
}

func NewExplorer(ctx context.Context, reg *experiment.Registry) Explorer {
	cam := NewCamera()
	cam.Position = Vec3{0, 0, 5}
	cam.RotX = -0.4
	return Explorer{
		ctx:     ctx,
		systems: reg.Systems(),
		method:  integrators.DefaultMethod,
		camera:  *cam,
		theme:   ThemeCyberpunk,
		styles:  NewStyles(ThemeCyberpunk),
		width:   80,
		height:  32,
	}
}

// Open skips the menu and starts exploring sys with its default parameters.
func (m Explorer) Open(sys dynamo.System) Explorer {
	m.screen = screenExplore
	m.sys = sys
	m.params = dynamo.Defaults(sys)
	m.paramCursor = 0
	m.result, m.err = nil, nil
	m.solving = true
	return m
}

// RunExplorer runs the explorer full screen until the user quits. A nil sys
// starts at the system menu.
func RunExplorer(ctx context.Context, reg *experiment.Registry, sys dynamo.System) error {
	m := NewExplorer(ctx, reg)
	if sys != nil {
		m = m.Open(sys)
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m Explorer) Init() tea.Cmd {
	if m.screen != screenExplore {
		return nil
	}
	return tea.Batch(m.solve(), tick())
}

func (m Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.screen == screenMenu {
			return m.menuKey(msg)
		}
		return m.exploreKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.screen != screenExplore {
			return m, nil
		}
		if !m.paused && m.view == 0 {
			m.camera.RotateY(autoRotate)
		}
		return m, tick()
	case solvedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.solving = false
		m.result, m.err = msg.result, msg.err
		return m, nil
	}
	return m, nil
}

func (m Explorer) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.systems)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.systems) == 0 {
			return m, nil
		}
		next, cmd := m.Open(m.systems[m.cursor]).resolve()
		return next, tea.Batch(cmd, tick())
	}
	return m, nil
}

func (m Explorer) exploreKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	specs := m.sys.Params()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.screen = screenMenu
		m.gen++
		m.solving = false
		return m, nil
	case "?":
		m.showHelp = !m.showHelp
	case "tab", "down", "j":
		m.paramCursor = (m.paramCursor + 1) % len(specs)
	case "shift+tab", "up", "k":
		m.paramCursor = (m.paramCursor - 1 + len(specs)) % len(specs)
	case "left", "h":
		return m.nudge(specs[m.paramCursor], -1)
	case "right", "l":
		return m.nudge(specs[m.paramCursor], 1)
	case "r":
		m.params = dynamo.Defaults(m.sys)
		return m.resolve()
	case "m":
		names := integrators.Methods()
		for i, name := range names {
			if name == m.method {
				m.method = names[(i+1)%len(names)]
				break
			}
		}
		return m.resolve()
	case "v":
		m.view = (m.view + 1) % len(views)
	case " ":
		m.paused = !m.paused
	case "t":
		m.theme = NextTheme(m.theme)
		m.styles = NewStyles(m.theme)
	case "x":
		m.camera.RotateX(rotateStep)
	case "y":
		m.camera.RotateY(rotateStep)
	case "z":
		m.camera.RotateZ(rotateStep)
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	}
	return m, nil
}

// nudge moves one parameter by a fraction of its range, staying inside it.
func (m Explorer) nudge(p dynamo.Param, dir float64) (Explorer, tea.Cmd) {
	v := p.Clamp(m.params[p.Name] + dir*paramStep*(p.Max-p.Min))
	if v == m.params[p.Name] {
		return m, nil
	}
	params := m.params.Clone()
	params[p.Name] = v
	m.params = params
	return m.resolve()
}

// resolve starts a solve of the current parameter set in the background.
func (m Explorer) resolve() (Explorer, tea.Cmd) {
	m.gen++
	m.solving = true
	return m, m.solve()
}

func (m Explorer) solve() tea.Cmd {
	ctx, gen, sys := m.ctx, m.gen, m.sys
	run := sim.DefaultRun(sys)
	run.Params = m.params.Clone()
	run.Method = m.method

	return func() tea.Msg {
		res, err := experiment.New(sys, run).Run(ctx)
		return solvedMsg{gen: gen, result: res, err: err}
	}
}

func (m Explorer) View() string {
	if m.screen == screenMenu {
		return m.viewMenu()
	}
	return m.viewExplore()
}

func (m Explorer) viewMenu() string {
	st := m.styles
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("    " + st.Separator(32) + "\n")
	b.WriteString("           " + st.Title.Render("a t t r a c t o r s") + "\n")
	b.WriteString("    " + st.Separator(32) + "\n\n")

	for i, sys := range m.systems {
		if i == m.cursor {
			b.WriteString("      " + st.Active.Render("▸ "+fmt.Sprintf("%-10s", sys.Name())) + st.Value.Render(sys.Title()) + "\n")
		} else {
			b.WriteString("        " + st.Subtle.Render(fmt.Sprintf("%-10s", sys.Name())+sys.Title()) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(st.KeyHint.Render("      ↑↓ select   enter explore   q quit") + "\n")
	return b.String()
}

func (m Explorer) viewExplore() string {
	st := m.styles
	var b strings.Builder

	status := st.Active.Render("●") + " " + st.Subtle.Render("ready")
	if m.solving {
		status = st.Warning.Render("○") + " " + st.Subtle.Render("solving")
	}
	fmt.Fprintf(&b, "\n  %s  %s  %s  %s\n",
		st.Title.Render(m.sys.Title()), st.Subtle.Render(m.method), st.Active.Render(views[m.view]), status)
	b.WriteString("  " + st.Subtle.Render(m.sys.Equations().Plain) + "\n\n")

	cw, ch := m.canvasSize()
	b.WriteString(st.Plot.Render(m.plot(cw, ch)))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString("  " + st.Warning.Render("error: "+m.err.Error()) + "\n")
	case m.result != nil && m.result.Diverged >= 0:
		tr := m.result.Trajectory
		fmt.Fprintf(&b, "  %s\n", st.Warning.Render(fmt.Sprintf("diverged at t=%.4g (point %d of %d)", tr.Times[m.result.Diverged], m.result.Diverged, tr.Len())))
	case m.result != nil:
		fmt.Fprintf(&b, "  %s %s  %s\n",
			st.Subtle.Render("x"), st.Plot.Render(Sparkline(m.result.Trajectory.Column(0), 40)),
			st.Subtle.Render(fmt.Sprintf("%d points in %s", m.result.Trajectory.Len(), m.result.Elapsed.Round(time.Millisecond))))
	}
	b.WriteString("\n")

	for i, p := range m.sys.Params() {
		v := m.params[p.Name]
		label, value := st.Label.Render(p.Name), st.Value.Render(fmt.Sprintf("%9.4f", v))
		if i == m.paramCursor {
			label = st.Active.Width(10).Render("▸ " + p.Name)
		}
		fmt.Fprintf(&b, "  %s %s %s %s\n", label, value, st.Slider(v, p.Min, p.Max, 24),
			st.Subtle.Render(fmt.Sprintf("[%g, %g]", p.Min, p.Max)))
	}

	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(st.Panel.Render(helpText) + "\n")
	} else {
		b.WriteString(st.KeyHint.Render("  tab param  h/l adjust  v view  m method  r reset  ? help  esc back  q quit") + "\n")
	}
	return b.String()
}

const helpText = `tab / shift+tab   select parameter
h / l             decrease / increase by 1% of range
m                 cycle integration method
r                 reset parameters to defaults
v                 cycle view: 3D, XY, XZ, YZ
space             pause / resume rotation
x / y / z         rotate the 3D view
+ / -             zoom
t                 cycle color theme
esc               back to systems`

func (m Explorer) canvasSize() (int, int) {
	cw := m.width - 4
	ch := m.height - 14 - len(m.sys.Params())
	return max(cw, 40), max(ch, 10)
}

func (m Explorer) plot(cw, ch int) string {
	c := NewCanvas(cw, ch)
	if m.result == nil {
		return c.String()
	}
	tr := m.result.Trajectory
	if m.view == 0 {
		cam := m.camera
		Render3D(c, SceneWireframe(tr.States), &cam)
		return c.String()
	}
	c.Plot(analysis.Project(tr, analysis.Plane(m.view-1)))
	return c.String()
}
