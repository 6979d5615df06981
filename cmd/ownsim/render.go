package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/ownership/internal/sim"
	"github.com/wippyai/ownership/shared"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB86C"))

	headerStyle = lipgloss.NewStyle().
			Bold(true)

	liveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	expiredStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// printer writes script output, styled when color is enabled.
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer, color bool) *printer {
	return &printer{w: w, color: color}
}

func (p *printer) paint(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}

func (p *printer) step(st sim.Step) {
	fmt.Fprintf(p.w, "%s %s\n", p.paint(commandStyle, fmt.Sprintf("%3d>", st.Line)), st.Source)
	p.events(st.Result.Events)
	if st.Result.Rows != nil {
		fmt.Fprint(p.w, p.rows(st.Result.Rows))
	}
	if st.Result.Stats != nil {
		fmt.Fprintln(p.w, p.stats(*st.Result.Stats))
	}
}

func (p *printer) events(events []string) {
	for _, e := range events {
		fmt.Fprintf(p.w, "     %s\n", p.paint(eventStyle, e))
	}
}

func (p *printer) rows(rows []sim.Row) string {
	var b strings.Builder
	header := fmt.Sprintf("     %-10s %-7s %-8s %-10s %8s %5s %5s", "NAME", "KIND", "STATE", "LABEL", "VALUE", "USE", "WEAK")
	b.WriteString(p.paint(headerStyle, header))
	b.WriteString("\n")
	if len(rows) == 0 {
		b.WriteString("     (no variables)\n")
	}
	for _, r := range rows {
		state := fmt.Sprintf("%-8s", r.State)
		switch r.State {
		case sim.StateLive:
			state = p.paint(liveStyle, state)
		case sim.StateExpired:
			state = p.paint(expiredStyle, state)
		}
		value := ""
		if r.State == sim.StateLive {
			value = fmt.Sprint(r.Value)
		}
		fmt.Fprintf(&b, "     %-10s %-7s %s %-10s %8s %5d %5d\n",
			r.Name, r.Kind, state, r.Label, value, r.UseCount, r.WeakCount)
	}
	return b.String()
}

func (p *printer) stats(st shared.Stats) string {
	return fmt.Sprintf("     blocks: %d adopted, %d in place, %d released, %d live; values destroyed: %d",
		st.Adopted, st.InPlace, st.Released, st.Live(), st.Destroyed)
}
