package sim

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/wippyai/ownership/errors"
	"github.com/wippyai/ownership/resource"
	"github.com/wippyai/ownership/shared"
	"github.com/wippyai/ownership/unique"
)

type command struct {
	run      func(s *Session, args []string, res *Result) error
	help     string
	args     []string
	variadic bool
}

func (c command) usage() string {
	u := strings.Join(c.args, " ")
	if c.variadic {
		u += " ..."
	}
	return u
}

var commands = map[string]command{
	"make": {
		args: []string{"NAME", "VALUE"},
		help: "construct a cell in place and bind a shared handle",
		run:  cmdMake,
	},
	"new": {
		args: []string{"NAME", "VALUE"},
		help: "allocate a cell and adopt it into a shared handle",
		run:  cmdNew,
	},
	"unique": {
		args: []string{"NAME", "VALUE"},
		help: "allocate a cell owned by an exclusive handle",
		run:  cmdUnique,
	},
	"copy": {
		args: []string{"DST", "SRC"},
		help: "bind another reference to SRC's value",
		run:  cmdCopy,
	},
	"move": {
		args: []string{"DST", "SRC"},
		help: "transfer SRC's reference to DST, leaving SRC empty",
		run:  cmdMove,
	},
	"weak": {
		args: []string{"DST", "SRC"},
		help: "bind a weak observer of shared SRC",
		run:  cmdWeak,
	},
	"lock": {
		args: []string{"DST", "SRC"},
		help: "promote weak SRC, binding an empty handle if expired",
		run:  cmdLock,
	},
	"promote": {
		args: []string{"DST", "SRC"},
		help: "promote weak SRC, failing if expired",
		run:  cmdPromote,
	},
	"self": {
		args: []string{"DST", "SRC"},
		help: "bind a shared handle minted by SRC's value itself",
		run:  cmdSelf,
	},
	"share": {
		args: []string{"DST", "SRC"},
		help: "move exclusive SRC into a shared handle",
		run:  cmdShare,
	},
	"release": {
		args: []string{"DST", "SRC"},
		help: "release exclusive SRC and adopt the pointer into a shared handle",
		run:  cmdRelease,
	},
	"alias": {
		args: []string{"DST", "SRC"},
		help: "bind a handle to SRC's next cell that shares SRC's ownership",
		run:  cmdAlias,
	},
	"link": {
		args: []string{"NAME", "NEXT"},
		help: "make NAME's value own a reference to shared NEXT",
		run:  cmdLink,
	},
	"unlink": {
		args: []string{"NAME"},
		help: "release the reference NAME's value owns",
		run:  cmdUnlink,
	},
	"set": {
		args: []string{"NAME", "VALUE"},
		help: "change the value NAME refers to",
		run:  cmdSet,
	},
	"reset": {
		args: []string{"NAME"},
		help: "release NAME's reference, keeping the variable",
		run:  cmdReset,
	},
	"drop": {
		args: []string{"NAME"},
		help: "release NAME's reference and remove the variable",
		run:  cmdDrop,
	},
	"store": {
		args: []string{"NAME"},
		help: "put a reference to shared NAME into the handle table",
		run:  cmdStore,
	},
	"fetch": {
		args: []string{"DST", "HANDLE"},
		help: "bind a new reference to the value behind HANDLE",
		run:  cmdFetch,
	},
	"take": {
		args: []string{"DST", "HANDLE"},
		help: "remove HANDLE from the table, moving its reference to DST",
		run:  cmdTake,
	},
	"unstore": {
		args: []string{"HANDLE"},
		help: "remove HANDLE from the table and release its reference",
		run:  cmdUnstore,
	},
	"borrow": {
		args: []string{"HANDLE"},
		help: "borrow the value behind HANDLE",
		run:  cmdBorrow,
	},
	"return": {
		args: []string{"HANDLE"},
		help: "end a borrow of HANDLE",
		run:  cmdReturn,
	},
	"expect": {
		args:     []string{"NAME"},
		variadic: true,
		help:     "check use=, weak=, value=, label= and state= of NAME",
		run:      cmdExpect,
	},
	"show": {
		help: "list every variable",
		run:  cmdShow,
	},
	"stats": {
		help: "report control block activity of this session",
		run:  cmdStats,
	},
}

// Usage returns one line per command, sorted by name.
func Usage() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		c := commands[name]
		lines = append(lines, fmt.Sprintf("%-8s %-14s %s", name, c.usage(), c.help))
	}
	return lines
}

func parseValue(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.New(errors.PhaseScript, errors.KindInvalidInput).
			Value(s).
			Cause(err).
			Detail("invalid value %q", s).
			Build()
	}
	return v, nil
}

func parseHandle(s string) (resource.Handle, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errors.New(errors.PhaseScript, errors.KindInvalidInput).
			Value(s).
			Cause(err).
			Detail("invalid handle %q", s).
			Build()
	}
	return resource.Handle(v), nil
}

func liveCell(v *slot) (*Cell, error) {
	c := v.cell()
	if c == nil {
		return nil, errors.NilPointer(errors.PhaseScript, []string{v.name}, "*sim.Cell")
	}
	return c, nil
}

func cmdMake(s *Session, args []string, _ *Result) error {
	v, err := parseValue(args[1])
	if err != nil {
		return err
	}
	s.bind(&slot{name: args[0], kind: KindShared, strong: shared.Make(s.newCell(args[0], v))})
	return nil
}

func cmdNew(s *Session, args []string, _ *Result) error {
	v, err := parseValue(args[1])
	if err != nil {
		return err
	}
	c := s.newCell(args[0], v)
	s.bind(&slot{name: args[0], kind: KindShared, strong: shared.New(&c)})
	return nil
}

func cmdUnique(s *Session, args []string, _ *Result) error {
	v, err := parseValue(args[1])
	if err != nil {
		return err
	}
	c := s.newCell(args[0], v)
	s.bind(&slot{name: args[0], kind: KindUnique, owned: unique.New(&c)})
	return nil
}

func cmdCopy(s *Session, args []string, _ *Result) error {
	src, err := s.lookup(args[1])
	if err != nil {
		return err
	}
	dst := &slot{name: args[0], kind: src.kind}
	switch src.kind {
	case KindShared:
		dst.strong = src.strong.Clone()
	case KindWeak:
		dst.weak = src.weak.Clone()
	default:
		return errors.TypeMismatch(errors.PhaseScript, []string{args[1]}, "shared or weak", src.kind.String())
	}
	s.bind(dst)
	return nil
}

func cmdMove(s *Session, args []string, _ *Result) error {
	src, err := s.lookup(args[1])
	if err != nil {
		return err
	}
	if args[0] == args[1] {
		return nil
	}
	dst := &slot{name: args[0], kind: src.kind}
	switch src.kind {
	case KindShared:
		dst.strong = src.strong.Move()
	case KindWeak:
		dst.weak = src.weak.Move()
	default:
		dst.owned = src.owned.Move()
	}
	s.bind(dst)
	return nil
}

func cmdWeak(s *Session, args []string, _ *Result) error {
	src, err := s.lookupKind(args[1], KindShared)
	if err != nil {
		return err
	}
	s.bind(&slot{name: args[0], kind: KindWeak, weak: src.strong.Weak()})
	return nil
}

func cmdLock(s *Session, args []string, _ *Result) error {
	src, err := s.lookupKind(args[1], KindWeak)
	if err != nil {
		return err
	}
	s.bind(&slot{name: args[0], kind: KindShared, strong: src.weak.Lock()})
	return nil
}

func cmdPromote(s *Session, args []string, _ *Result) error {
	src, err := s.lookupKind(args[1], KindWeak)
	if err != nil {
		return err
	}
	p, err := shared.FromWeak(&src.weak)
	if err != nil {
		return err
	}
	s.bind(&slot{name: args[0], kind: KindShared, strong: p})
	return nil
}

func cmdSelf(s *Session, args []string, _ *Result) error {
	src, err := s.lookup(args[1])
	if err != nil {
		return err
	}
	c := src.cell()
	if c == nil {
		if src.kind == KindWeak && src.weak.WeakCount() > 0 {
			return errors.ExpiredOwner(errors.PhaseSelf, "*sim.Cell")
		}
		return errors.NilPointer(errors.PhaseScript, []string{args[1]}, "*sim.Cell")
	}
	p, err := c.ShareSelf()
	if err != nil {
		return err
	}
	s.bind(&slot{name: args[0], kind: KindShared, strong: p})
	return nil
}

func cmdShare(s *Session, args []string, _ *Result) error {
	src, err := s.lookupKind(args[1], KindUnique)
	if err != nil {
		return err
	}
	s.bind(&slot{name: args[0], kind: KindShared, strong: shared.FromUnique(&src.owned)})
	return nil
}

func cmdRelease(s *Session, args []string, _ *Result) error {
	src, err := s.lookupKind(args[1], KindUnique)
	if err != nil {
		return err
	}
	s.bind(&slot{name: args[0], kind: KindShared, strong: shared.New(src.owned.Release())})
	return nil
}

func cmdAlias(s *Session, args []string, _ *Result) error {
	src, err := s.lookupKind(args[1], KindShared)
	if err != nil {
		return err
	}
	c, err := liveCell(src)
	if err != nil {
		return err
	}
	if !c.Next.Valid() {
		return errors.New(errors.PhaseScript, errors.KindInvalidInput).
			Path(args[1]).
			Detail("%s has no next cell", args[1]).
			Build()
	}
	s.bind(&slot{name: args[0], kind: KindShared, strong: shared.Alias(&src.strong, c.Next.Get())})
	return nil
}

func cmdLink(s *Session, args []string, _ *Result) error {
	owner, err := s.lookup(args[0])
	if err != nil {
		return err
	}
	c, err := liveCell(owner)
	if err != nil {
		return err
	}
	next, err := s.lookupKind(args[1], KindShared)
	if err != nil {
		return err
	}
	c.Next.Assign(&next.strong)
	return nil
}

func cmdUnlink(s *Session, args []string, _ *Result) error {
	owner, err := s.lookup(args[0])
	if err != nil {
		return err
	}
	c, err := liveCell(owner)
	if err != nil {
		return err
	}
	c.Next.Reset()
	return nil
}

func cmdSet(s *Session, args []string, _ *Result) error {
	v, err := s.lookup(args[0])
	if err != nil {
		return err
	}
	n, err := parseValue(args[1])
	if err != nil {
		return err
	}
	c, err := liveCell(v)
	if err != nil {
		return err
	}
	c.Value = n
	return nil
}

func cmdReset(s *Session, args []string, _ *Result) error {
	v, err := s.lookup(args[0])
	if err != nil {
		return err
	}
	v.reset()
	return nil
}

func cmdDrop(s *Session, args []string, _ *Result) error {
	v, ok := s.vars.Delete(&slot{name: args[0]})
	if !ok {
		return errors.NotFound(errors.PhaseScript, "variable", args[0])
	}
	v.reset()
	return nil
}

func cmdStore(s *Session, args []string, _ *Result) error {
	v, err := s.lookupKind(args[0], KindShared)
	if err != nil {
		return err
	}
	_, err = s.table.Insert(&v.strong)
	return err
}

func cmdFetch(s *Session, args []string, _ *Result) error {
	h, err := parseHandle(args[1])
	if err != nil {
		return err
	}
	p, err := s.table.Get(h)
	if err != nil {
		return err
	}
	s.bind(&slot{name: args[0], kind: KindShared, strong: p})
	return nil
}

func cmdTake(s *Session, args []string, _ *Result) error {
	h, err := parseHandle(args[1])
	if err != nil {
		return err
	}
	p, err := s.table.Take(h)
	if err != nil {
		return err
	}
	s.bind(&slot{name: args[0], kind: KindShared, strong: p})
	return nil
}

func cmdUnstore(s *Session, args []string, _ *Result) error {
	h, err := parseHandle(args[0])
	if err != nil {
		return err
	}
	return s.table.Drop(h)
}

func cmdBorrow(s *Session, args []string, _ *Result) error {
	h, err := parseHandle(args[0])
	if err != nil {
		return err
	}
	_, err = s.table.Borrow(h)
	return err
}

func cmdReturn(s *Session, args []string, _ *Result) error {
	h, err := parseHandle(args[0])
	if err != nil {
		return err
	}
	return s.table.ReturnBorrow(h)
}

func cmdExpect(s *Session, args []string, _ *Result) error {
	v, err := s.lookup(args[0])
	if err != nil {
		return err
	}
	row := v.row()
	for _, kv := range args[1:] {
		key, want, ok := strings.Cut(kv, "=")
		if !ok {
			return errors.InvalidInput(errors.PhaseScript, fmt.Sprintf("expectation %q is not key=value", kv))
		}
		var got string
		switch key {
		case "use":
			got = strconv.FormatUint(uint64(row.UseCount), 10)
		case "weak":
			got = strconv.FormatUint(uint64(row.WeakCount), 10)
		case "value":
			got = strconv.FormatInt(row.Value, 10)
		case "label":
			got = row.Label
		case "state":
			got = string(row.State)
		case "kind":
			got = row.Kind.String()
		default:
			return errors.InvalidInput(errors.PhaseScript, fmt.Sprintf("unknown expectation %q", key))
		}
		if got != want {
			return errors.New(errors.PhaseScript, errors.KindAssertion).
				Path(args[0], key).
				Detail("want %s, got %s", want, got).
				Build()
		}
	}
	return nil
}

func cmdShow(s *Session, _ []string, res *Result) error {
	res.Rows = s.Snapshot()
	return nil
}

func cmdStats(s *Session, _ []string, res *Result) error {
	st := s.Stats()
	res.Stats = &st
	return nil
}
