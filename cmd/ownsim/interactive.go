package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/ownership/internal/sim"
)

const historyLines = 12

type interactiveModel struct {
	session *sim.Session
	out     *printer
	buf     *bytes.Buffer
	input   textinput.Model
	history []string
	rows    []sim.Row
	line    int
	help    bool
}

func newInteractiveModel(s *sim.Session, color bool) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "make a 42"
	ti.Prompt = "> "
	ti.Width = 60
	ti.Focus()

	buf := &bytes.Buffer{}
	return &interactiveModel{
		session: s,
		out:     newPrinter(buf, color),
		buf:     buf,
		input:   ti,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab":
			m.help = !m.help
			return m, nil

		case "enter":
			src := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if src != "" {
				m.exec(src)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) exec(src string) {
	m.line++
	res, err := m.session.Exec(src)
	m.buf.Reset()
	if err != nil {
		fmt.Fprintf(m.buf, "%s %s\n", m.out.paint(commandStyle, fmt.Sprintf("%3d>", m.line)), src)
		m.out.events(res.Events)
		fmt.Fprintf(m.buf, "     %s\n", m.out.paint(errorStyle, err.Error()))
	} else {
		m.out.step(sim.Step{Line: m.line, Source: src, Result: res})
	}
	m.history = append(m.history, strings.Split(strings.TrimRight(m.buf.String(), "\n"), "\n")...)
	if n := len(m.history); n > historyLines {
		m.history = m.history[n-historyLines:]
	}
	m.rows = m.session.Snapshot()
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(m.out.paint(titleStyle, "ownsim"))
	b.WriteString(" session ")
	b.WriteString(m.session.ID())
	b.WriteString("\n\n")

	for _, line := range m.history {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.out.rows(m.rows))
	b.WriteString("\n")

	if m.help {
		for _, line := range sim.Usage() {
			b.WriteString(m.out.paint(helpStyle, line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.out.paint(helpStyle, "enter run • tab commands • esc quit"))
	return b.String()
}

// runInteractive closes the session once the program has left the alternate
// screen, so its final destruction events reach w.
func runInteractive(s *sim.Session, w io.Writer, color bool) error {
	p := tea.NewProgram(newInteractiveModel(s, color), tea.WithAltScreen())
	_, err := p.Run()
	closeSession(s, newPrinter(w, color))
	return err
}

func closeSession(s *sim.Session, out *printer) {
	out.events(s.Close())
}
