package unique

import (
	"errors"
	"testing"
	"unsafe"

	ownerrors "github.com/wippyai/ownership/errors"
)

type tracked struct {
	log *[]string
	id  string
}

func (t *tracked) Destroy() {
	*t.log = append(*t.log, t.id)
}

type countingDeleter struct {
	deleted *[]int
}

func (d countingDeleter) Delete(p *int) {
	*d.deleted = append(*d.deleted, *p)
}

func TestPtr_CloseDestroys(t *testing.T) {
	var log []string
	p := New(&tracked{log: &log, id: "a"})

	if !p.Valid() {
		t.Fatal("expected valid ptr")
	}

	p.Close()

	if p.Valid() {
		t.Error("ptr should be empty after Close")
	}
	if len(log) != 1 || log[0] != "a" {
		t.Errorf("destroy log = %v, want [a]", log)
	}

	p.Close()
	if len(log) != 1 {
		t.Errorf("second Close destroyed again: %v", log)
	}
}

func TestPtr_ReleaseThenManualDelete(t *testing.T) {
	var deleted []int
	v := 5
	p := NewWithDeleter(&v, countingDeleter{deleted: &deleted})

	raw := p.Release()
	if raw != &v {
		t.Fatal("Release should return the owned pointer")
	}
	if p.Get() != nil {
		t.Error("ptr should be empty after Release")
	}

	// manual deletion by the new owner
	p.Deleter().Delete(raw)
	p.Close()

	if len(deleted) != 1 {
		t.Errorf("deleter called %d times, want 1", len(deleted))
	}
}

func TestPtr_Reset(t *testing.T) {
	var deleted []int
	a, b := 1, 2
	p := NewWithDeleter(&a, countingDeleter{deleted: &deleted})

	t.Run("same pointer", func(t *testing.T) {
		p.Reset(&a)
		if len(deleted) != 0 {
			t.Errorf("Reset(same) invoked deleter: %v", deleted)
		}
		if p.Get() != &a {
			t.Error("pointer changed")
		}
	})

	t.Run("new pointer", func(t *testing.T) {
		p.Reset(&b)
		if len(deleted) != 1 || deleted[0] != 1 {
			t.Errorf("deleted = %v, want [1]", deleted)
		}
		if p.Get() != &b {
			t.Error("pointer not replaced")
		}
	})

	t.Run("nil", func(t *testing.T) {
		p.Reset(nil)
		if len(deleted) != 2 || deleted[1] != 2 {
			t.Errorf("deleted = %v, want [1 2]", deleted)
		}
		p.Reset(nil)
		if len(deleted) != 2 {
			t.Error("Reset(nil) on empty ptr invoked deleter")
		}
	})
}

func TestPtr_DefaultDeleterZeroes(t *testing.T) {
	type payload struct {
		name string
		refs []int
	}
	v := &payload{name: "x", refs: []int{1}}
	p := New(v)
	p.Close()

	if v.name != "" || v.refs != nil {
		t.Errorf("value not cleared: %+v", *v)
	}
}

func TestPtr_Swap(t *testing.T) {
	var da, db []int
	a, b := 1, 2
	p := NewWithDeleter(&a, countingDeleter{deleted: &da})
	q := NewWithDeleter(&b, countingDeleter{deleted: &db})

	p.Swap(&q)

	if p.Get() != &b || q.Get() != &a {
		t.Fatal("pointers not swapped")
	}

	p.Close()
	if len(db) != 1 || len(da) != 0 {
		t.Errorf("deleter did not travel with pointer: da=%v db=%v", da, db)
	}
	q.Close()
	if len(da) != 1 {
		t.Errorf("da = %v, want one deletion", da)
	}
}

func TestPtr_MoveAndAssign(t *testing.T) {
	var log []string
	p := New(&tracked{log: &log, id: "p"})

	q := p.Move()
	if p.Valid() || !q.Valid() {
		t.Fatal("Move should transfer ownership")
	}

	r := New(&tracked{log: &log, id: "r"})
	r.Assign(&q)
	if len(log) != 1 || log[0] != "r" {
		t.Errorf("Assign should destroy previous value, log = %v", log)
	}
	if q.Valid() {
		t.Error("source should be empty after Assign")
	}

	r.Assign(&r)
	if !r.Valid() || len(log) != 1 {
		t.Error("self-assign must be a no-op")
	}

	r.Close()
	if len(log) != 2 || log[1] != "p" {
		t.Errorf("log = %v, want [r p]", log)
	}
}

func TestPtr_Deref(t *testing.T) {
	v := 3
	p := New(&v)
	if *p.Deref() != 3 {
		t.Error("Deref returned wrong value")
	}
	p.Release()

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok {
			t.Fatalf("expected error panic, got %v", r)
		}
		if !errors.Is(err, &ownerrors.Error{Phase: ownerrors.PhaseUnique, Kind: ownerrors.KindNilPointer}) {
			t.Errorf("unexpected panic %v", err)
		}
	}()
	p.Deref()
}

func TestPtr_Size(t *testing.T) {
	ptr := unsafe.Sizeof((*int)(nil))
	if got := unsafe.Sizeof(Ptr[int, DefaultDeleter[int]]{}); got != ptr {
		t.Errorf("default Ptr size = %d, want %d", got, ptr)
	}
	if got := unsafe.Sizeof(Ptr[int, countingDeleter]{}); got != 2*ptr {
		t.Errorf("stateful Ptr size = %d, want %d", got, 2*ptr)
	}
}
