package shared

import (
	"errors"
	"testing"

	ownerrors "github.com/wippyai/ownership/errors"
	"github.com/wippyai/ownership/unique"
)

type probe struct {
	destroyed *int
	value     int
}

func (p *probe) Destroy() {
	*p.destroyed++
}

type outer struct {
	destroyed *int
	inner     int
}

func (o *outer) Destroy() {
	*o.destroyed++
}

type link struct {
	next Shared[link]
	val  int
}

func (l *link) Destroy() {
	l.next.Reset()
}

func TestShared_Empty(t *testing.T) {
	var s Shared[int]

	if s.Valid() {
		t.Error("zero Shared should not be valid")
	}
	if s.Get() != nil {
		t.Error("zero Shared should have nil pointer")
	}
	if s.UseCount() != 0 || s.WeakCount() != 0 {
		t.Errorf("counts = %d/%d, want 0/0", s.UseCount(), s.WeakCount())
	}

	n := New[int](nil)
	if n.Valid() || n.UseCount() != 0 {
		t.Error("New(nil) should be empty")
	}

	c := s.Clone()
	m := s.Move()
	s.Reset()
	if c.Valid() || m.Valid() {
		t.Error("clones of an empty handle must be empty")
	}
}

func TestShared_ScenarioFortyTwo(t *testing.T) {
	before := ReadStats()

	s1 := Make(42)
	if s1.UseCount() != 1 {
		t.Fatalf("UseCount = %d, want 1", s1.UseCount())
	}

	s2 := s1.Clone()
	if s1.UseCount() != 2 || s2.UseCount() != 2 {
		t.Fatalf("UseCount = %d/%d, want 2/2", s1.UseCount(), s2.UseCount())
	}

	s1.Reset()
	if s2.UseCount() != 1 {
		t.Errorf("UseCount = %d, want 1", s2.UseCount())
	}
	if *s2.Get() != 42 {
		t.Errorf("*s2 = %d, want 42", *s2.Get())
	}

	w := s2.Weak()
	s2.Reset()

	if !w.Expired() {
		t.Error("weak should be expired after last strong reset")
	}
	l := w.Lock()
	if l.Valid() || l.UseCount() != 0 {
		t.Error("Lock on expired weak should return empty handle")
	}

	delta := ReadStats().Sub(before)
	if delta.InPlace != 1 || delta.Destroyed != 1 || delta.Released != 0 {
		t.Errorf("before weak reset: %+v", delta)
	}

	w.Reset()
	delta = ReadStats().Sub(before)
	if delta.Released != 1 {
		t.Errorf("block released %d times, want 1", delta.Released)
	}
}

func TestShared_UseCountTracksLiveHandles(t *testing.T) {
	destroyed := 0
	root := New(&probe{destroyed: &destroyed})

	handles := []Shared[probe]{root.Clone(), root.Clone()}
	live := 3
	check := func(step string) {
		t.Helper()
		if got := root.UseCount(); got != uint(live) {
			t.Fatalf("%s: UseCount = %d, want %d", step, got, live)
		}
	}
	check("clone")

	moved := handles[0].Move()
	check("move")
	if handles[0].Valid() {
		t.Fatal("moved-from handle should be empty")
	}

	var assigned Shared[probe]
	assigned.Assign(&moved)
	live++
	check("assign")

	assigned.AssignMove(&handles[1])
	live--
	check("assign move")

	assigned.Assign(&assigned)
	check("self assign")

	moved.Reset()
	assigned.Reset()
	handles[0].Reset()
	handles[1].Reset()
	live -= 2
	check("reset")

	if destroyed != 0 {
		t.Fatal("value destroyed while owned")
	}
	root.Reset()
	if destroyed != 1 {
		t.Errorf("destroyed = %d, want 1", destroyed)
	}
}

func TestShared_MakeDestroysExactlyOnce(t *testing.T) {
	destroyed := 0
	s := Make(probe{destroyed: &destroyed, value: 1})
	c := s.Clone()

	s.Reset()
	if destroyed != 0 {
		t.Fatal("destroyed too early")
	}
	s.Reset()
	if destroyed != 0 {
		t.Fatal("reset of empty handle destroyed value")
	}

	c.Reset()
	if destroyed != 1 {
		t.Fatalf("destroyed = %d, want 1", destroyed)
	}
}

func TestShared_MakeWith(t *testing.T) {
	var seen *probe
	destroyed := 0
	s := MakeWith(func(p *probe) {
		seen = p
		p.destroyed = &destroyed
		p.value = 9
	})

	if s.Get() != seen {
		t.Error("value must be constructed in the block storage")
	}
	if s.Get().value != 9 {
		t.Errorf("value = %d, want 9", s.Get().value)
	}
	s.Reset()
	if destroyed != 1 {
		t.Errorf("destroyed = %d, want 1", destroyed)
	}
}

func TestShared_MakeSingleAllocation(t *testing.T) {
	allocs := testing.AllocsPerRun(100, func() {
		s := Make(42)
		s.Reset()
	})
	if allocs > 1 {
		t.Errorf("Make allocated %.0f times, want at most 1", allocs)
	}
}

func TestShared_NewWithDeleter(t *testing.T) {
	var deleted []*int
	v := 5
	s := NewWithDeleter(&v, func(p *int) { deleted = append(deleted, p) })
	c := s.Clone()

	s.Reset()
	c.Reset()

	if len(deleted) != 1 || deleted[0] != &v {
		t.Errorf("deleted = %v, want [&v]", deleted)
	}
	if v != 5 {
		t.Error("custom deleter replaces the default zeroing")
	}
}

func TestShared_DefaultDeleterZeroes(t *testing.T) {
	destroyed := 0
	p := &probe{destroyed: &destroyed, value: 3}
	s := New(p)
	s.Reset()

	if destroyed != 1 {
		t.Errorf("destroyed = %d, want 1", destroyed)
	}
	if p.value != 0 || p.destroyed != nil {
		t.Errorf("value not cleared: %+v", *p)
	}
}

func TestShared_Alias(t *testing.T) {
	destroyed := 0
	a := New(&outer{destroyed: &destroyed, inner: 7})
	b := Alias(&a, &a.Get().inner)

	if !SameOwner(&a, &b) {
		t.Error("alias must share the owner's block")
	}
	if a.UseCount() != 2 {
		t.Errorf("UseCount = %d, want 2", a.UseCount())
	}

	a.Reset()
	if destroyed != 0 {
		t.Fatal("owner destroyed while alias alive")
	}
	if *b.Get() != 7 {
		t.Errorf("*b = %d, want 7", *b.Get())
	}
	if b.UseCount() != 1 {
		t.Errorf("UseCount = %d, want 1", b.UseCount())
	}

	b.Reset()
	if destroyed != 1 {
		t.Errorf("destroyed = %d, want 1", destroyed)
	}
}

func TestShared_AliasOfEmpty(t *testing.T) {
	var empty Shared[outer]
	x := 1
	a := Alias(&empty, &x)

	if !a.Valid() || a.Get() != &x {
		t.Error("alias of empty owner should still point at p")
	}
	if a.UseCount() != 0 {
		t.Errorf("UseCount = %d, want 0", a.UseCount())
	}
	a.Reset()
}

func TestShared_AssignReleasesPrevious(t *testing.T) {
	da, db := 0, 0
	a := Make(probe{destroyed: &da})
	b := Make(probe{destroyed: &db})

	a.Assign(&b)
	if da != 1 {
		t.Errorf("previous value destroyed %d times, want 1", da)
	}
	if !SameOwner(&a, &b) || a.UseCount() != 2 {
		t.Error("a should share b's value")
	}

	a.Reset()
	b.Reset()
	if db != 1 {
		t.Errorf("db = %d, want 1", db)
	}
}

func TestShared_AssignFromInsideOldValue(t *testing.T) {
	n := Make(link{val: 1, next: Make(link{val: 2})})

	n.Assign(&n.Get().next)

	if n.Get().val != 2 {
		t.Fatalf("val = %d, want 2", n.Get().val)
	}
	if n.UseCount() != 1 {
		t.Errorf("UseCount = %d, want 1", n.UseCount())
	}
	n.Reset()
}

func TestShared_ResetTo(t *testing.T) {
	da, db := 0, 0
	s := New(&probe{destroyed: &da})
	s.ResetTo(&probe{destroyed: &db})

	if da != 1 {
		t.Errorf("da = %d, want 1", da)
	}
	if s.UseCount() != 1 {
		t.Errorf("UseCount = %d, want 1", s.UseCount())
	}

	calls := 0
	s.ResetWithDeleter(&probe{}, func(*probe) { calls++ })
	if db != 1 {
		t.Errorf("db = %d, want 1", db)
	}
	s.Reset()
	if calls != 1 {
		t.Errorf("custom deleter calls = %d, want 1", calls)
	}
}

func TestShared_SwapAndEqual(t *testing.T) {
	a := Make(1)
	b := Make(2)
	pa, pb := a.Get(), b.Get()

	a.Swap(&b)
	if a.Get() != pb || b.Get() != pa {
		t.Fatal("Swap did not exchange pointers")
	}

	c := a.Clone()
	if !c.Equal(&a) || c.Equal(&b) {
		t.Error("Equal should compare pointers")
	}

	a.Reset()
	b.Reset()
	c.Reset()
}

func TestShared_Deref(t *testing.T) {
	s := Make(3)
	if *s.Deref() != 3 {
		t.Error("Deref returned wrong value")
	}
	s.Reset()

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok {
			t.Fatalf("expected error panic, got %v", r)
		}
		if !errors.Is(err, &ownerrors.Error{Phase: ownerrors.PhaseShare, Kind: ownerrors.KindNilPointer}) {
			t.Errorf("unexpected panic %v", err)
		}
	}()
	s.Deref()
}

func TestFromUnique(t *testing.T) {
	var deleted []int
	v := 11
	u := unique.NewWithDeleter(&v, unique.DeleterFunc[int](func(p *int) {
		deleted = append(deleted, *p)
	}))

	s := FromUnique(&u)
	if u.Valid() {
		t.Error("unique handle should be empty after FromUnique")
	}
	if s.Get() != &v || s.UseCount() != 1 {
		t.Fatal("shared handle should own the value")
	}

	s.Reset()
	if len(deleted) != 1 || deleted[0] != 11 {
		t.Errorf("deleted = %v, want [11]", deleted)
	}

	var empty unique.Ptr[int, unique.DefaultDeleter[int]]
	e := FromUnique(&empty)
	if e.Valid() {
		t.Error("FromUnique of empty should be empty")
	}
}
