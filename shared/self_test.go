package shared

import (
	"errors"
	"testing"

	ownerrors "github.com/wippyai/ownership/errors"
)

type node struct {
	EnableShared[node]
	self      Weak[node]
	destroyed *int
	name      string
}

func (n *node) Destroy() {
	n.self.Reset()
	if n.destroyed != nil {
		*n.destroyed++
	}
}

func TestEnableShared_NotManaged(t *testing.T) {
	var n node

	_, err := n.ShareSelf()
	if !errors.Is(err, &ownerrors.Error{Phase: ownerrors.PhaseSelf, Kind: ownerrors.KindNotManaged}) {
		t.Errorf("ShareSelf: expected not_managed, got %v", err)
	}
	_, err = n.WeakenSelf()
	if !errors.Is(err, &ownerrors.Error{Phase: ownerrors.PhaseSelf, Kind: ownerrors.KindNotManaged}) {
		t.Errorf("WeakenSelf: expected not_managed, got %v", err)
	}
}

func TestEnableShared_Make(t *testing.T) {
	s := Make(node{name: "a"})
	c := s.Clone()

	me, err := s.Get().ShareSelf()
	if err != nil {
		t.Fatalf("ShareSelf: %v", err)
	}
	if me.UseCount() != 3 {
		t.Errorf("UseCount = %d, want 3", me.UseCount())
	}
	if me.Get() != s.Get() || !SameOwner(&me, &s) {
		t.Error("ShareSelf must share the owning block")
	}

	w, err := s.Get().WeakenSelf()
	if err != nil {
		t.Fatalf("WeakenSelf: %v", err)
	}
	if s.WeakCount() != 1 {
		t.Errorf("WeakCount = %d, want 1", s.WeakCount())
	}

	me.Reset()
	c.Reset()
	s.Reset()
	if !w.Expired() {
		t.Error("self weak should expire with the value")
	}
	w.Reset()
}

func TestEnableShared_New(t *testing.T) {
	p := &node{name: "b"}
	s := New(p)

	me, err := p.ShareSelf()
	if err != nil {
		t.Fatalf("ShareSelf: %v", err)
	}
	if me.UseCount() != 2 {
		t.Errorf("UseCount = %d, want 2", me.UseCount())
	}
	me.Reset()
	s.Reset()
}

func TestEnableShared_Expired(t *testing.T) {
	p := &node{name: "c"}
	s := NewWithDeleter(p, func(*node) {})
	s.Reset()

	_, err := p.ShareSelf()
	if !errors.Is(err, ownerrors.ErrExpiredOwner) {
		t.Errorf("expected ErrExpiredOwner, got %v", err)
	}
	_, err = p.WeakenSelf()
	if !errors.Is(err, ownerrors.ErrExpiredOwner) {
		t.Errorf("expected ErrExpiredOwner, got %v", err)
	}
}

func TestEnableShared_SelfWeakReleasedDuringDestroy(t *testing.T) {
	destroyed := 0
	before := ReadStats()

	s := Make(node{destroyed: &destroyed})
	w, err := s.Get().WeakenSelf()
	if err != nil {
		t.Fatal(err)
	}
	s.Get().self = w

	s.Reset()

	delta := ReadStats().Sub(before)
	if destroyed != 1 {
		t.Errorf("destroyed = %d, want 1", destroyed)
	}
	if delta.Released != 1 {
		t.Errorf("released = %d, want 1", delta.Released)
	}
}

func TestEnableShared_CopiedValueEnrollsAgain(t *testing.T) {
	a := Make(node{name: "orig"})
	b := Make(*a.Get())

	me, err := b.Get().ShareSelf()
	if err != nil {
		t.Fatal(err)
	}
	if me.Get() != b.Get() || !SameOwner(&me, &b) {
		t.Error("copy must enroll with its own block")
	}
	if a.UseCount() != 1 {
		t.Errorf("original UseCount = %d, want 1", a.UseCount())
	}

	me.Reset()
	a.Reset()
	b.Reset()
}

type base struct {
	EnableShared[base]
	name string
}

type derived struct {
	base
	destroyed *int
}

func (d *derived) Destroy() {
	if d.destroyed != nil {
		*d.destroyed++
	}
}

type outerDerived struct {
	derived
}

type borrowedBase struct {
	*base
}

func TestEnableShared_EmbeddedByValue(t *testing.T) {
	tests := []struct {
		name  string
		share func(destroyed *int) (Shared[derived], *base)
	}{
		{
			name: "make",
			share: func(destroyed *int) (Shared[derived], *base) {
				s := Make(derived{base: base{name: "d"}, destroyed: destroyed})
				return s, &s.Get().base
			},
		},
		{
			name: "new",
			share: func(destroyed *int) (Shared[derived], *base) {
				p := &derived{base: base{name: "d"}, destroyed: destroyed}
				return New(p), &p.base
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			destroyed := 0
			s, b := tt.share(&destroyed)

			me, err := b.ShareSelf()
			if err != nil {
				t.Fatalf("ShareSelf: %v", err)
			}
			if me.Get() != b {
				t.Error("ShareSelf must point at the embedded value")
			}
			if !SameOwner(&me, &s) || s.UseCount() != 2 {
				t.Errorf("ShareSelf must share the owning block, UseCount = %d", s.UseCount())
			}

			s.Reset()
			if destroyed != 0 {
				t.Fatal("destroyed while a self handle is alive")
			}
			me.Reset()
			if destroyed != 1 {
				t.Errorf("destroyed = %d, want 1", destroyed)
			}
		})
	}
}

func TestEnableShared_EmbeddedTwoLevels(t *testing.T) {
	s := Make(outerDerived{derived: derived{base: base{name: "o"}}})

	w, err := s.Get().WeakenSelf()
	if err != nil {
		t.Fatalf("WeakenSelf: %v", err)
	}
	if w.Expired() || s.WeakCount() != 1 {
		t.Error("self weak must observe the outer value's block")
	}

	s.Reset()
	if !w.Expired() {
		t.Error("self weak should expire with the outer value")
	}
	w.Reset()
}

func TestEnableShared_EmbeddedPointerPanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok {
			t.Fatalf("expected an error panic, got %v", r)
		}
		if !errors.Is(err, &ownerrors.Error{Phase: ownerrors.PhaseSelf, Kind: ownerrors.KindTypeMismatch}) {
			t.Errorf("expected type_mismatch, got %v", err)
		}
	}()

	Make(borrowedBase{base: &base{name: "b"}})
}
