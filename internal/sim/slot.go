package sim

import (
	"github.com/wippyai/ownership/shared"
	"github.com/wippyai/ownership/unique"
)

// Kind is the flavour of handle a variable holds.
type Kind uint8

const (
	KindShared Kind = iota
	KindWeak
	KindUnique
)

func (k Kind) String() string {
	switch k {
	case KindShared:
		return "shared"
	case KindWeak:
		return "weak"
	case KindUnique:
		return "unique"
	default:
		return "unknown"
	}
}

type slot struct {
	strong shared.Shared[Cell]
	weak   shared.Weak[Cell]
	owned  unique.Ptr[Cell, unique.DefaultDeleter[Cell]]
	name   string
	kind   Kind
}

func lessSlot(a, b *slot) bool {
	return a.name < b.name
}

func (s *slot) cell() *Cell {
	switch s.kind {
	case KindShared:
		return s.strong.Get()
	case KindWeak:
		return s.weak.Get()
	default:
		return s.owned.Get()
	}
}

func (s *slot) reset() {
	switch s.kind {
	case KindShared:
		s.strong.Reset()
	case KindWeak:
		s.weak.Reset()
	default:
		s.owned.Close()
	}
}

func (s *slot) row() Row {
	r := Row{Name: s.name, Kind: s.kind, State: StateEmpty}
	switch s.kind {
	case KindShared:
		r.UseCount, r.WeakCount = s.strong.UseCount(), s.strong.WeakCount()
		if s.strong.Valid() {
			r.State = StateLive
		}
	case KindWeak:
		r.UseCount, r.WeakCount = s.weak.UseCount(), s.weak.WeakCount()
		if s.weak.WeakCount() > 0 {
			r.State = StateExpired
			if !s.weak.Expired() {
				r.State = StateLive
			}
		}
	case KindUnique:
		if s.owned.Valid() {
			r.UseCount = 1
			r.State = StateLive
		}
	}
	if c := s.cell(); c != nil {
		r.Label, r.Value = c.Label, c.Value
	}
	return r
}

// State describes whether a variable refers to a live value.
type State string

const (
	StateLive    State = "live"
	StateExpired State = "expired"
	StateEmpty   State = "empty"
)

// Row is one variable in a session snapshot.
type Row struct {
	Name      string
	Label     string
	State     State
	Value     int64
	UseCount  uint
	WeakCount uint
	Kind      Kind
}
