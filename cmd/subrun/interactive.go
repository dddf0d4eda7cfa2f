package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/subrun/subinterp/interp"
	"github.com/subrun/subinterp/luahost"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const historyLimit = 20

type replEntry struct {
	source string
	output string
	failed bool
}

type replModel struct {
	err     error
	cfg     interp.Config
	logger  *zap.Logger
	reg     *interp.Registry
	handle  *interp.Handle
	input   textinput.Model
	history []replEntry
}

type readyMsg struct {
	err    error
	reg    *interp.Registry
	handle *interp.Handle
}

type ranMsg struct {
	source string
	err    error
}

func newReplModel(cfg interp.Config, logger *zap.Logger) *replModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "x = 1 + 1"
	ti.Width = 72
	ti.Focus()

	return &replModel{cfg: cfg, logger: logger, input: ti}
}

func (m *replModel) Init() tea.Cmd {
	return tea.Batch(m.setup, textinput.Blink)
}

func (m *replModel) setup() tea.Msg {
	reg := interp.NewRegistry(luahost.New(), interp.WithLogger(m.logger))
	h, err := reg.Create(context.Background(), m.cfg)
	if err != nil {
		return readyMsg{err: err}
	}
	return readyMsg{reg: reg, handle: h}
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			m.teardown()
			return m, tea.Quit

		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			switch line {
			case "":
				return m, nil
			case ":quit":
				m.teardown()
				return m, tea.Quit
			case ":reset":
				return m, m.reset
			case ":status":
				m.pushInfo()
				return m, nil
			}
			return m, m.runLine(line)
		}

	case readyMsg:
		m.err = msg.err
		m.reg = msg.reg
		m.handle = msg.handle

	case ranMsg:
		entry := replEntry{source: msg.source, output: "ok"}
		if msg.err != nil {
			entry.output = msg.err.Error()
			entry.failed = true
		}
		m.push(entry)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *replModel) runLine(line string) tea.Cmd {
	return func() tea.Msg {
		if m.handle == nil {
			return ranMsg{source: line, err: fmt.Errorf("interpreter not ready")}
		}
		err := m.handle.Run(context.Background(), line, nil, nil)
		return ranMsg{source: line, err: err}
	}
}

func (m *replModel) reset() tea.Msg {
	if m.reg != nil && m.handle != nil {
		if err := m.reg.Destroy(context.Background(), m.handle.ID()); err != nil {
			return readyMsg{err: err}
		}
	}
	reg := m.reg
	if reg == nil {
		reg = interp.NewRegistry(luahost.New(), interp.WithLogger(m.logger))
	}
	h, err := reg.Create(context.Background(), m.cfg)
	if err != nil {
		return readyMsg{err: err}
	}
	return readyMsg{reg: reg, handle: h}
}

func (m *replModel) teardown() {
	if m.reg != nil && m.handle != nil {
		_ = m.reg.Destroy(context.Background(), m.handle.ID())
	}
}

func (m *replModel) push(e replEntry) {
	m.history = append(m.history, e)
	if len(m.history) > historyLimit {
		m.history = m.history[len(m.history)-historyLimit:]
	}
}

func (m *replModel) pushInfo() {
	if m.handle == nil {
		m.push(replEntry{source: ":status", output: "interpreter not ready", failed: true})
		return
	}
	cfg := m.handle.Config()
	m.push(replEntry{
		source: ":status",
		output: fmt.Sprintf("interp %d %s exec=%t fork=%t threads=%t daemon=%t",
			m.handle.ID(), m.handle.Status(),
			cfg.AllowExec, cfg.AllowFork, cfg.AllowThreads, cfg.AllowDaemonThreads),
	})
}

func (m *replModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Sub-interpreter REPL"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("ctrl+c quit"))
		return b.String()
	}

	if m.handle == nil {
		b.WriteString("Starting interpreter...\n")
		return b.String()
	}

	for _, e := range m.history {
		b.WriteString(promptStyle.Render("> " + e.source))
		b.WriteString("\n")
		if e.failed {
			b.WriteString(errorStyle.Render(e.output))
		} else if strings.HasPrefix(e.source, ":") {
			b.WriteString(infoStyle.Render(e.output))
		} else {
			b.WriteString(resultStyle.Render(e.output))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter run • :status • :reset • :quit"))

	return b.String()
}

func runInteractive(cfg interp.Config, logger *zap.Logger) error {
	p := tea.NewProgram(newReplModel(cfg, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
