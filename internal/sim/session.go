package sim

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/btree"
	"github.com/segmentio/ksuid"
	"github.com/wippyai/ownership/errors"
	"github.com/wippyai/ownership/resource"
	"github.com/wippyai/ownership/shared"
	"go.uber.org/zap"
)

// Session holds the named handles of one script run. Variables are kept
// ordered by name so snapshots are stable.
//
// A Session is not safe for concurrent use.
type Session struct {
	id       ksuid.KSUID
	log      *zap.Logger
	vars     *btree.BTreeG[*slot]
	table    *resource.Table[Cell]
	baseline shared.Stats
	events   []string
}

// Result is the outcome of one command.
type Result struct {
	Stats   *shared.Stats
	Command string
	Events  []string
	Rows    []Row
}

// Step is a command executed by Run.
type Step struct {
	Source string
	Result Result
	Line   int
}

// NewSession creates an empty session. A nil logger disables logging.
func NewSession(logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := ksuid.New()
	s := &Session{
		id:       id,
		log:      logger.With(zap.String("session", id.String())),
		vars:     btree.NewG(2, lessSlot),
		table:    resource.NewTable[Cell](),
		baseline: shared.ReadStats(),
	}
	s.table.Subscribe(tableObserver{s})
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id.String()
}

// Exec parses and runs a single command. Contract violations raised by the
// handle packages are returned as errors; any other panic propagates.
func (s *Session) Exec(line string) (res Result, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return Result{}, nil
	}
	res.Command = fields[0]

	cmd, ok := commands[fields[0]]
	if !ok {
		return res, errors.NotFound(errors.PhaseScript, "command", fields[0])
	}
	args := fields[1:]
	if len(args) < len(cmd.args) || (!cmd.variadic && len(args) > len(cmd.args)) {
		return res, errors.New(errors.PhaseScript, errors.KindInvalidInput).
			Path(fields[0]).
			Detail("usage: %s", cmd.usage()).
			Build()
	}

	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*errors.Error)
			if !ok {
				panic(r)
			}
			err = e
		}
		res.Events = append(res.Events, s.drainEvents()...)
		if err != nil {
			s.log.Debug("command failed", zap.String("command", line), zap.Error(err))
		} else {
			s.log.Debug("command", zap.String("command", line), zap.Int("events", len(res.Events)))
		}
	}()

	err = cmd.run(s, args, &res)
	return res, err
}

// Run executes a script read from r, one command per line. Blank lines and
// lines starting with # are skipped. emit, if not nil, is called after each
// successful command. Run stops at the first failing command.
func (s *Session) Run(r io.Reader, emit func(Step)) error {
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		src := strings.TrimSpace(scanner.Text())
		if src == "" || strings.HasPrefix(src, "#") {
			continue
		}
		res, err := s.Exec(src)
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		if emit != nil {
			emit(Step{Line: n, Source: src, Result: res})
		}
	}
	return scanner.Err()
}

// Snapshot returns every variable ordered by name.
func (s *Session) Snapshot() []Row {
	rows := make([]Row, 0, s.vars.Len())
	s.vars.Ascend(func(v *slot) bool {
		rows = append(rows, v.row())
		return true
	})
	return rows
}

// Stats returns control block activity since the session started.
func (s *Session) Stats() shared.Stats {
	return shared.ReadStats().Sub(s.baseline)
}

// Close releases the table and every variable in name order and returns the
// resulting events.
func (s *Session) Close() []string {
	_ = s.table.Close()
	for {
		v, ok := s.vars.DeleteMin()
		if !ok {
			break
		}
		v.reset()
	}
	return s.drainEvents()
}

func (s *Session) lookup(name string) (*slot, error) {
	v, ok := s.vars.Get(&slot{name: name})
	if !ok {
		return nil, errors.NotFound(errors.PhaseScript, "variable", name)
	}
	return v, nil
}

func (s *Session) lookupKind(name string, kind Kind) (*slot, error) {
	v, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	if v.kind != kind {
		return nil, errors.TypeMismatch(errors.PhaseScript, []string{name}, kind.String(), v.kind.String())
	}
	return v, nil
}

// bind stores v under its name. A variable it replaces is released after the
// new one is in place.
func (s *Session) bind(v *slot) {
	if old, had := s.vars.ReplaceOrInsert(v); had && old != v {
		old.reset()
	}
}

func (s *Session) newCell(label string, value int64) Cell {
	return Cell{Label: label, Value: value, onDestroy: s.onDestroy}
}

func (s *Session) onDestroy(c *Cell) {
	s.events = append(s.events, fmt.Sprintf("destroyed %s (%d)", c.Label, c.Value))
}

type tableObserver struct {
	s *Session
}

func (o tableObserver) OnResourceEvent(ev resource.Event) {
	o.s.events = append(o.s.events, fmt.Sprintf("handle %d %s (use_count=%d)", ev.Handle, ev.Type, ev.UseCount))
}

func (s *Session) drainEvents() []string {
	out := s.events
	s.events = nil
	return out
}
