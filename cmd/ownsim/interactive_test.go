package main

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/ownership/internal/sim"
)

func TestInteractive_QuitLeavesSessionOpen(t *testing.T) {
	s := sim.NewSession(nil)
	m := newInteractiveModel(s, false)
	m.exec("make a 1")

	for _, key := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("%s: expected a quit command", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", key)
		}
	}
	if rows := s.Snapshot(); len(rows) != 1 || rows[0].State != sim.StateLive {
		t.Fatalf("session must stay open until the program exits, rows = %+v", rows)
	}

	var out bytes.Buffer
	closeSession(s, newPrinter(&out, false))
	if !strings.Contains(out.String(), "destroyed a (1)") {
		t.Errorf("final events missing:\n%s", out.String())
	}
	if len(s.Snapshot()) != 0 {
		t.Error("variables should be released by closeSession")
	}
}

func TestInteractive_ExecHistory(t *testing.T) {
	m := newInteractiveModel(sim.NewSession(nil), false)
	m.exec("make a 7")
	m.exec("reset a")
	m.exec("bogus")

	got := strings.Join(m.history, "\n")
	for _, want := range []string{"  1> make a 7", "destroyed a (7)", "  3> bogus", "not_found"} {
		if !strings.Contains(got, want) {
			t.Errorf("history missing %q:\n%s", want, got)
		}
	}
}
