package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/flocksim/internal/flock"
	"github.com/san-kum/flocksim/internal/geom"
	"github.com/san-kum/flocksim/internal/render"
	"github.com/san-kum/flocksim/internal/sim"
)

// HUDHeight is the number of terminal rows below the canvas.
const HUDHeight = 7

const (
	graphWidth   = 40
	graphHistory = 240
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Options configures a live Model.
type Options struct {
	Title   string
	Theme   string
	GIFPath string
}

// Model is the Bubble Tea model of a live session. The canvas is rendered
// once per tick and cached, since View may run more often than Update.
type Model struct {
	session *sim.Session
	braille *render.Braille
	raster  *render.Rasterizer
	rec     *Recorder

	opts   Options
	theme  Theme
	styles styles

	canvas    string
	showHelp  bool
	recording bool
	status    string
	err       error

	lastTick time.Time
	fps      float64
}

// NewModel draws the session's flock on a cols x rows Braille canvas. The
// flock's world is scaled to fit.
func NewModel(s *sim.Session, cols, rows int, opts Options) Model {
	b := render.NewBraille(cols, rows)
	r := render.NewRasterizer(b)
	w, _ := b.Size()
	if fw := s.Flock().Width(); fw > 0 {
		r.Scale = float64(w) / fw
	}
	theme := GetTheme(opts.Theme)
	return Model{
		session: s,
		braille: b,
		raster:  r,
		rec:     NewRecorder(),
		opts:    opts,
		theme:   theme,
		styles:  newStyles(theme),
	}
}

// Err reports the step error that ended the program, if any.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.key(msg)
	case tea.MouseMsg:
		if m.session.Editing() && msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.session.Send(sim.Command{Kind: sim.CmdAddTarget, Target: m.cellTarget(msg.X, msg.Y)})
		}
	case TickMsg:
		return m.advance(time.Time(msg))
	}
	return m, nil
}

func (m Model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	send := func(k sim.CommandKind) { m.session.Send(sim.Command{Kind: k}) }
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "p":
		send(sim.CmdPause)
	case " ":
		send(sim.CmdScatter)
	case "a":
		send(sim.CmdAttract)
	case "e":
		send(sim.CmdEdit)
	case "c":
		send(sim.CmdClearTargets)
	case "d":
		send(sim.CmdDefaultTargets)
	case "t":
		m.theme = nextTheme(m.theme)
		m.styles = newStyles(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	case "g":
		m.toggleRecording()
	}
	return m, nil
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.status = "recording"
		return
	}
	m.recording = false
	path := m.opts.GIFPath
	if path == "" {
		path = "flock.gif"
	}
	n := m.rec.Len()
	if err := m.rec.Save(path); err != nil {
		m.status = "gif: " + err.Error()
		return
	}
	m.status = fmt.Sprintf("saved %d frames to %s", n, path)
}

func (m Model) advance(now time.Time) (tea.Model, tea.Cmd) {
	if !m.lastTick.IsZero() {
		if d := now.Sub(m.lastTick).Seconds(); d > 0 {
			m.fps = 0.9*m.fps + 0.1/d
		}
	}
	m.lastTick = now

	t, err := m.session.Advance(m.raster)
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	if t.Redraw {
		if m.session.Editing() {
			m.markTargets()
		}
		if m.recording {
			m.rec.Capture(m.braille)
		}
		m.canvas = m.braille.String()
	}
	return m, tick()
}

func (m *Model) markTargets() {
	ts := m.session.Flock().Targets()
	for i := 0; i < ts.Len(); i++ {
		m.raster.Mark(ts.At(i).Vec())
	}
}

// cellTarget maps a terminal cell to the world point at its center.
func (m Model) cellTarget(col, row int) flock.Target {
	p := geom.V(float64(col*2)+1, float64(row*4)+2).Scale(1 / m.raster.Scale)
	return flock.Target{X: int32(p.X), Y: int32(p.Y)}
}

func (m Model) View() string {
	if m.showHelp {
		return m.help()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.styles.canvas.Render(strings.TrimSuffix(m.canvas, "\n")), m.hud())
}

func (m Model) hud() string {
	s := m.session
	f := s.Flock()
	st := m.styles

	var state string
	switch {
	case s.Paused():
		state = st.paused.Render("PAUSED")
	case s.Editing():
		state = st.edit.Render("EDIT")
	default:
		state = st.running.Render(Spinner(s.Frame()) + " RUNNING")
	}
	attract := "off"
	if f.Attracting() {
		attract = "on"
	}

	var left strings.Builder
	left.WriteString(st.title.Render(m.opts.Title) + "  " + state + "\n")
	left.WriteString(st.stat("frame", fmt.Sprintf("%d  %.0f fps", s.Frame(), m.fps)) + "\n")
	left.WriteString(st.stat("agents", fmt.Sprintf("%d  %s", f.Len(), f.Mode())) + "\n")
	left.WriteString(st.stat("attract", fmt.Sprintf("%s  %d targets", attract, f.Targets().Len())) + "\n")
	if m.status != "" {
		left.WriteString(st.hint.Render(m.status))
	} else {
		left.WriteString(st.hint.Render("? help  q quit"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, left.String(), "   ", m.graph())
}

func (m Model) graph() string {
	series := m.session.Series()
	if series == nil {
		return ""
	}
	data := series.Tail("polarization", graphHistory)
	if len(data) < 2 {
		return ""
	}
	chart := asciigraph.Plot(data,
		asciigraph.Height(3),
		asciigraph.Width(graphWidth),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Precision(2),
		asciigraph.Caption("polarization"),
	)
	return m.styles.graph.Render(chart)
}

func (m Model) help() string {
	keys := [][2]string{
		{"p", "pause / resume"},
		{"space", "scatter velocities"},
		{"a", "toggle attractor mode"},
		{"e", "edit mode (click to add targets)"},
		{"c", "clear targets"},
		{"d", "default constellation"},
		{"g", "start / stop GIF recording"},
		{"t", "next theme (" + m.theme.Name + ")"},
		{"?", "close help"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(m.styles.title.Render("KEYBOARD SHORTCUTS") + "\n\n")
	for _, k := range keys {
		b.WriteString(m.styles.stat(k[0], k[1]) + "\n")
	}
	return m.styles.panel.Render(strings.TrimSuffix(b.String(), "\n"))
}
