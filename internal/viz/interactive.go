package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/ledsim/internal/compositor"
	"github.com/san-kum/ledsim/internal/config"
)

var presetInfo = map[string]string{
	"original": "rows, pulses, chaser, text",
	"rain":     "green falling trails",
	"fire":     "short hot trails",
	"pulse":    "anti-aliased rings",
	"marquee":  "scrolling sign",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// tunable is one numeric knob on the config screen.
type tunable struct {
	name string
	step float64
	get  func(*config.Config) float64
	set  func(*config.Config, float64)
}

var tunables = []tunable{
	{"effects", 1,
		func(c *config.Config) float64 { return float64(c.EffectCount) },
		func(c *config.Config, v float64) { c.EffectCount = max(int(v), 0) }},
	{"fade", 16,
		func(c *config.Config) float64 { return float64(c.Fade) },
		func(c *config.Config, v float64) { c.Fade = uint8(min(max(v, 0), 255)) }},
	{"row_height", 1,
		func(c *config.Config) float64 { return float64(c.Row.Height) },
		func(c *config.Config, v float64) { c.Row.Height = max(int(v), 0) }},
	{"growth", 0.1,
		func(c *config.Config) float64 { return c.Circle.Growth },
		func(c *config.Config, v float64) { c.Circle.Growth = max(v, 0.1) }},
	{"fps", 5,
		func(c *config.Config) float64 { return c.FPS },
		func(c *config.Config, v float64) { c.FPS = max(v, 1) }},
	{"frames", 500,
		func(c *config.Config) float64 { return float64(c.Frames) },
		func(c *config.Config, v float64) { c.Frames = max(int(v), 0) }},
}

type picker struct {
	state, cursor int
	presets       []string
	selected      string
	cfg           *config.Config
	paramCursor   int
	editing       bool
	editBuf       string
	err           error
	copts         []compositor.Option
	liveModel     Model
}

// NewPicker returns the preset menu. Choosing a preset and pressing s
// starts the live view with it.
func NewPicker(copts ...compositor.Option) tea.Model {
	return picker{
		state:   stateMenu,
		presets: config.ListPresets(),
		copts:   copts,
	}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m picker) handleKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m picker) menuKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		m.cfg = config.GetPreset(m.selected)
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m picker) configKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	knob := tunables[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil {
				knob.set(m.cfg, val)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(tunables)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, fmt.Sprintf("%g", knob.get(m.cfg))
	case "left", "h":
		knob.set(m.cfg, knob.get(m.cfg)-knob.step)
	case "right", "l":
		knob.set(m.cfg, knob.get(m.cfg)+knob.step)
	case "s":
		return m.start()
	}
	return m, nil
}

func (m picker) start() (picker, tea.Cmd) {
	cc, err := m.cfg.Build()
	if err != nil {
		m.err = err
		return m, nil
	}
	src, err := m.cfg.Font()
	if err != nil {
		m.err = err
		return m, nil
	}
	copts := append([]compositor.Option{compositor.WithFont(src)}, m.copts...)
	live, err := NewModel(cc, Options{
		Title:    m.selected,
		FPS:      m.cfg.FPS,
		Theme:    m.cfg.Display.Theme,
		Geometry: m.cfg.Geometry(),
	}, copts...)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.liveModel, m.state = live, stateSim
	return m, m.liveModel.Init()
}

var (
	headStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	idleDesc    = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

func hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(keyStyle.Render(pairs[i]) + idleStyle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (m picker) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

func (m picker) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + headStyle.Render("LEDSIM") + "\n    " + subStyle.Render("led matrix simulator") + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-12s", name)), valueStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-12s", name)), idleDesc.Render(desc)))
		}
	}
	b.WriteString("\n    " + hints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m picker) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + headStyle.Render(strings.ToUpper(m.selected)) + "\n    " + subStyle.Render(presetInfo[m.selected]) + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, knob := range tunables {
		valStr := fmt.Sprintf("%8g", knob.get(m.cfg))
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-10s", knob.name)), valueStyle.Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", idleStyle.Render(fmt.Sprintf("  %-10s", knob.name)), idleDesc.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + ErrorText.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + hints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive shows the preset picker.
func RunInteractive(copts ...compositor.Option) error {
	_, err := tea.NewProgram(NewPicker(copts...), tea.WithAltScreen()).Run()
	return err
}
