package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ledsim/internal/compositor"
	"github.com/san-kum/ledsim/internal/display"
	"github.com/san-kum/ledsim/internal/metrics"
	"github.com/san-kum/ledsim/internal/pixel"
)

const (
	historyCapacity = 120
	monoThreshold   = 64
	ledGlyph        = "██"
)

type TickMsg time.Time

type Options struct {
	Title    string
	FPS      float64
	Theme    string
	Mono     bool
	Geometry display.Geometry
}

// Model runs a compositor at FPS and renders what it flushed to its Surface.
type Model struct {
	comp     *compositor.Compositor
	surface  *Surface
	history  *metrics.History
	health   *metrics.SinkHealth
	title    string
	interval time.Duration
	geo      display.Geometry
	theme    Theme
	canvas   *Canvas

	running   bool
	mono      bool
	showHelp  bool
	recording bool
	frames    []pixel.Frame
	last      *compositor.FrameStats
	respawns  *metrics.Respawns
	err       error
	notice    string
}

// NewModel wires a fresh compositor for cfg to a Surface owned by the model.
func NewModel(cfg compositor.Config, opts Options, copts ...compositor.Option) (Model, error) {
	surface := NewSurface(cfg.Width, cfg.Height)
	history := metrics.NewHistory(historyCapacity)
	health := metrics.NewSinkHealth()
	respawns := metrics.NewRespawns()
	last := new(compositor.FrameStats)

	copts = append(copts,
		compositor.WithMetric(history),
		compositor.WithMetric(health),
		compositor.WithMetric(respawns),
		compositor.WithObserver(compositor.ObserverFunc(func(s compositor.FrameStats) { *last = s })),
	)
	c, err := compositor.New(cfg, surface, copts...)
	if err != nil {
		return Model{}, err
	}

	interval := time.Second / 30
	if opts.FPS > 0 {
		interval = time.Duration(float64(time.Second) / opts.FPS)
	}
	geo := opts.Geometry
	if geo.Scale == 0 {
		geo = display.DefaultGeometry
	}
	title := opts.Title
	if title == "" {
		title = "ledsim"
	}

	return Model{
		comp:     c,
		surface:  surface,
		history:  history,
		health:   health,
		respawns: respawns,
		last:     last,
		title:    title,
		interval: interval,
		geo:      geo,
		theme:    GetTheme(opts.Theme),
		canvas:   CanvasFor(cfg.Width, cfg.Height),
		running:  true,
		mono:     opts.Mono,
	}, nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the compositor.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.comp.Stop()
			m.stopRecording()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.step()
			}
		case "m":
			m.mono = !m.mono
		case "t":
			m.theme = NextTheme(m.theme)
		case "g":
			if m.recording {
				m.stopRecording()
			} else {
				m.recording = true
				m.frames = m.frames[:0]
				m.notice = ""
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.comp.Terminated() {
			return m, nil
		}
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	if m.comp.Terminated() {
		return
	}
	// a sink error is shown until a later frame flushes cleanly
	m.err = m.comp.OnFrame()

	if m.recording {
		f, _ := m.surface.Shown()
		m.frames = append(m.frames, f)
	}
}

func (m *Model) stopRecording() {
	if !m.recording {
		return
	}
	m.recording = false
	_, bg := m.surface.Shown()
	delay := max(int(m.interval/(10*time.Millisecond)), 1)
	if err := saveGIF(gifPath, m.frames, bg, m.geo, delay); err != nil {
		m.notice = "gif: " + err.Error()
	} else if len(m.frames) > 0 {
		m.notice = fmt.Sprintf("saved %d frames to %s", len(m.frames), gifPath)
	}
	m.frames = nil
}

// Compositor exposes the driven compositor, mainly for tests.
func (m Model) Compositor() *compositor.Compositor { return m.comp }

func (m Model) renderGrid(f pixel.Frame, bg pixel.RGB) string {
	if m.mono {
		m.canvas.Plot(f, monoThreshold)
		return lipgloss.NewStyle().Foreground(m.theme.Primary).Render(m.canvas.String())
	}

	unlit := lipgloss.NewStyle().Foreground(m.theme.Unlit).Render(ledGlyph)
	var b strings.Builder
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := f.At(x, y)
			if c == bg {
				b.WriteString(unlit)
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(ledGlyph))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// statusColor picks the theme color for the run state shown by status.
func (m Model) statusColor() lipgloss.Color {
	switch {
	case m.comp.Terminated():
		return m.theme.Accent
	case m.recording:
		return m.theme.Error
	case !m.running:
		return m.theme.Warning
	}
	return m.theme.Success
}

func (m Model) status() string {
	style := Status.Foreground(m.statusColor())
	switch {
	case m.comp.Terminated():
		return style.Render("DONE")
	case m.recording:
		return style.Blink(true).Render("● REC")
	case !m.running:
		return style.Render("PAUSED")
	}
	return style.Render(AnimatedSpinner(m.comp.Frame()) + " RUNNING")
}

// View renders the TUI interface.
func (m Model) View() string {
	frame, bg := m.surface.Shown()
	gridView := GridPanel.Render(m.renderGrid(frame, bg))

	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(m.title), m.theme.Primary, m.theme.Secondary) + "\n")
	s.WriteString(m.status() + "\n\n")

	series := m.history.Series()
	if len(series) > 1 {
		chart := asciigraph.Plot(series, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("changed cells"))
		s.WriteString(GraphStyle.Render(chart) + "\n")
	}
	s.WriteString(SparklineChart(series, 30) + "\n\n")

	label := MetricLabel.Foreground(m.theme.Muted)
	value := MetricValue.Foreground(m.theme.Text)
	row := func(name, v string) {
		s.WriteString(label.Render(name) + value.Render(v) + "\n")
	}
	row("Frame", fmt.Sprintf("%d", m.comp.Frame()))
	if budget := m.comp.Config().Frames; budget > 0 {
		s.WriteString(label.Render("Budget") + ProgressBar(float64(m.comp.Frame())/float64(budget), 18) + "\n")
	}
	row("Grid", fmt.Sprintf("%dx%d", frame.Width, frame.Height))
	row("Changed", fmt.Sprintf("%d", m.last.Changed))
	row("Sent", fmt.Sprintf("%d", m.last.Sent))
	row("Respawns", fmt.Sprintf("%.0f", m.respawns.Value()))
	if health := m.health.Value(); health < 1 {
		s.WriteString(label.Render("Sink") + value.Foreground(m.theme.Warning).Render(fmt.Sprintf("%.1f%%", 100*health)) + "\n")
	} else {
		row("Sink", "100%")
	}

	kinds := m.comp.Effects()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	row("Effects", strings.Join(names, " "))
	row("Theme", m.theme.Name)

	if m.err != nil {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(m.theme.Error).Render(m.err.Error()) + "\n")
	}
	if m.notice != "" {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(m.theme.Muted).Render(m.notice) + "\n")
	}

	s.WriteString("\n" + Separator(30) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause N:Step M:Mono\nT:Theme  G:Record ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, gridView, GlassPanel.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  N        - Step one frame (paused)  ║
║  M        - Toggle Braille view      ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Run shows the live viewer until the user quits.
func Run(cfg compositor.Config, opts Options, copts ...compositor.Option) error {
	m, err := NewModel(cfg, opts, copts...)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
