// Package tui paints a running session in the terminal.
package tui

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/TFMV/driftgraph/metrics"
	"github.com/TFMV/driftgraph/render"
	"github.com/TFMV/driftgraph/session"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles
var (
	canvasStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#8B0000"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A9A9A9")).
			MarginLeft(1)

	pausedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))
)

// gradientStep is how far one +/- press moves the gradient offset.
const gradientStep = 0.05

// stopTimeout bounds the wait for the last tick on exit.
const stopTimeout = 5 * time.Second

type keyMap struct {
	Quit     key.Binding
	Pause    key.Binding
	Brighter key.Binding
	Darker   key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
	Pause: key.NewBinding(
		key.WithKeys(" ", "p"),
		key.WithHelp("space", "pause"),
	),
	Brighter: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "gradient up"),
	),
	Darker: key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "gradient down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Brighter, k.Darker, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type frameMsg time.Time

func frameCmd(period time.Duration) tea.Cmd {
	return tea.Tick(period, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Model is the bubbletea model for one session.
type Model struct {
	session     *session.Session
	metrics     *metrics.Registry
	renderer    *render.ASCIIRenderer
	framePeriod time.Duration
	keys        keyMap
	help        help.Model

	width   int
	height  int
	frame   string
	lastSeq uint64
	painted bool
	paints  uint64
}

// New creates a model painting sess every framePeriod. A nil registry skips
// paint metrics.
func New(sess *session.Session, reg *metrics.Registry, framePeriod time.Duration) Model {
	if framePeriod <= 0 {
		framePeriod = 33 * time.Millisecond
	}
	m := Model{
		session:     sess,
		metrics:     reg,
		renderer:    &render.ASCIIRenderer{},
		framePeriod: framePeriod,
		keys:        keys,
		help:        help.New(),
	}
	m.resize(80, 24)
	return m
}

func (m Model) Init() tea.Cmd {
	return frameCmd(m.framePeriod)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		m.paint()

	case frameMsg:
		if !m.painted || m.session.Snapshot().Seq != m.lastSeq {
			m.paint()
		}
		return m, frameCmd(m.framePeriod)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Pause):
			if m.session.Paused() {
				m.session.Resume()
			} else {
				m.session.Pause()
			}

		case key.Matches(msg, m.keys.Brighter):
			m.shiftGradient(gradientStep)

		case key.Matches(msg, m.keys.Darker):
			m.shiftGradient(-gradientStep)
		}
	}

	return m, nil
}

// resize fits the ASCII grid inside the border, status line and help line.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.renderer.Cols = max(width-2, 4)
	m.renderer.Rows = max(height-4, 3)
}

func (m *Model) shiftGradient(delta float64) {
	v := math.Min(1, math.Max(0, m.session.GradientOffset()+delta))
	m.session.SetGradientOffset(v)
	m.paint()
}

func (m *Model) paint() {
	bounds := m.session.Bounds()
	frame := m.session.OnPaint(render.Surface{Width: bounds.Width, Height: bounds.Height})
	m.frame = m.renderer.RenderString(frame)
	m.lastSeq = frame.Seq
	m.painted = true
	m.paints++
	if m.metrics != nil {
		m.metrics.RecordPaint("tui")
	}
}

func (m Model) View() string {
	snap := m.session.Snapshot()
	status := fmt.Sprintf("tick %d · %d nodes · %d edges · gradient %.2f",
		snap.Seq, len(snap.Nodes), len(snap.Edges), m.session.GradientOffset())
	if m.session.Paused() {
		status += " · " + pausedStyle.Render("paused")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		canvasStyle.Render(m.frame),
		statusStyle.Render(status),
		m.help.View(m.keys),
	)
}

// Run starts sess, shows it until the user quits or ctx is cancelled, then
// stops it and waits for the last tick to finish.
func Run(ctx context.Context, sess *session.Session, reg *metrics.Registry, framePeriod time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess.Start(ctx)
	defer func() {
		sess.Stop()
		wctx, wcancel := context.WithTimeout(context.Background(), stopTimeout)
		defer wcancel()
		_ = sess.Wait(wctx)
	}()

	p := tea.NewProgram(New(sess, reg, framePeriod), tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal host failed: %w", err)
	}
	return nil
}
