package resource

import (
	"github.com/wippyai/ownership/errors"
	"github.com/wippyai/ownership/shared"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Table maps integer handles to strong references. Each occupied slot owns
// one strong count of its value, so a value stays alive at least as long as
// it is in the table.
//
// Freed handles are reused. Borrows pin a slot: Drop and Take fail while a
// slot has outstanding borrows.
//
// Table is not safe for concurrent use, like the handles it stores.
type Table[T any] struct {
	entries   []entry[T]
	freeList  []Handle
	observers []Observer
	live      int
	closed    bool
}

type entry[T any] struct {
	ref     shared.Shared[T]
	borrows uint32
	valid   bool
}

// NewTable creates an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{
		entries:  make([]entry[T], 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

// Insert stores a new strong reference to s's value and returns its handle.
// s keeps its own reference.
func (t *Table[T]) Insert(s *shared.Shared[T]) (Handle, error) {
	if err := t.checkInsert(s); err != nil {
		return 0, err
	}
	return t.store(s.Clone()), nil
}

// Adopt moves s's reference into the table and leaves s empty.
func (t *Table[T]) Adopt(s *shared.Shared[T]) (Handle, error) {
	if err := t.checkInsert(s); err != nil {
		return 0, err
	}
	return t.store(s.Move()), nil
}

func (t *Table[T]) checkInsert(s *shared.Shared[T]) error {
	if t.closed {
		return errors.Closed(errors.PhaseTable, "table")
	}
	if !s.Valid() {
		return errors.InvalidInput(errors.PhaseTable, "cannot store an empty handle")
	}
	return nil
}

func (t *Table[T]) store(ref shared.Shared[T]) Handle {
	e := entry[T]{ref: ref, valid: true}

	var h Handle
	if n := len(t.freeList); n > 0 {
		h = t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[h-1] = e
	} else {
		t.entries = append(t.entries, e)
		h = Handle(len(t.entries))
	}
	t.live++

	t.notify(Event{Type: EventCreated, Handle: h, UseCount: ref.UseCount()})
	return h
}

func (t *Table[T]) lookup(h Handle) (*entry[T], error) {
	if t.closed {
		return nil, errors.Closed(errors.PhaseTable, "table")
	}
	if h == 0 || int(h) > len(t.entries) || !t.entries[h-1].valid {
		return nil, errors.InvalidHandle(errors.PhaseTable, uint32(h))
	}
	return &t.entries[h-1], nil
}

// Get returns a new strong reference to the value behind h. The caller must
// Reset it.
func (t *Table[T]) Get(h Handle) (shared.Shared[T], error) {
	e, err := t.lookup(h)
	if err != nil {
		return shared.Shared[T]{}, err
	}
	return e.ref.Clone(), nil
}

// Observe returns a weak observer of the value behind h.
func (t *Table[T]) Observe(h Handle) (shared.Weak[T], error) {
	e, err := t.lookup(h)
	if err != nil {
		return shared.Weak[T]{}, err
	}
	return e.ref.Weak(), nil
}

// UseCount returns the strong count of the value behind h, or 0 if h is not
// a live handle.
func (t *Table[T]) UseCount(h Handle) uint {
	e, err := t.lookup(h)
	if err != nil {
		return 0
	}
	return e.ref.UseCount()
}

// Borrow returns the value behind h without transferring ownership. Each
// Borrow must be paired with ReturnBorrow.
func (t *Table[T]) Borrow(h Handle) (*T, error) {
	e, err := t.lookup(h)
	if err != nil {
		return nil, err
	}
	e.borrows++
	t.notify(Event{Type: EventBorrowed, Handle: h, UseCount: e.ref.UseCount()})
	return e.ref.Get(), nil
}

// ReturnBorrow ends a borrow started by Borrow.
func (t *Table[T]) ReturnBorrow(h Handle) error {
	e, err := t.lookup(h)
	if err != nil {
		return err
	}
	if e.borrows == 0 {
		return errors.New(errors.PhaseTable, errors.KindInvalidInput).
			Value(uint32(h)).
			Detail("handle %d has no outstanding borrows", h).
			Build()
	}
	e.borrows--
	t.notify(Event{Type: EventBorrowReturned, Handle: h, UseCount: e.ref.UseCount()})
	return nil
}

// Borrows returns the number of outstanding borrows of h.
func (t *Table[T]) Borrows(h Handle) uint32 {
	e, err := t.lookup(h)
	if err != nil {
		return 0
	}
	return e.borrows
}

// Take removes h from the table and hands its strong reference to the
// caller, who must Reset it.
func (t *Table[T]) Take(h Handle) (shared.Shared[T], error) {
	ref, err := t.remove(h)
	if err != nil {
		return shared.Shared[T]{}, err
	}
	t.notify(Event{Type: EventTaken, Handle: h, UseCount: ref.UseCount()})
	return ref, nil
}

// Drop removes h from the table and releases its strong reference. The
// value is destroyed if the table held the last one.
func (t *Table[T]) Drop(h Handle) error {
	ref, err := t.remove(h)
	if err != nil {
		return err
	}
	t.release(h, &ref)
	return nil
}

func (t *Table[T]) remove(h Handle) (shared.Shared[T], error) {
	e, err := t.lookup(h)
	if err != nil {
		return shared.Shared[T]{}, err
	}
	if e.borrows > 0 {
		return shared.Shared[T]{}, errors.OutstandingBorrow(errors.PhaseTable, uint32(h), e.borrows)
	}
	ref := e.ref.Move()
	*e = entry[T]{}
	t.freeList = append(t.freeList, h)
	t.live--
	return ref, nil
}

// release drops a reference that has already left the table. The slot is
// free by then, so a destructor may use the table.
func (t *Table[T]) release(h Handle, ref *shared.Shared[T]) {
	remaining := ref.UseCount() - 1
	ref.Reset()

	if ce := Logger().Check(zapcore.DebugLevel, "resource dropped"); ce != nil {
		ce.Write(zap.Uint32("handle", uint32(h)), zap.Uint("use_count", remaining))
	}
	t.notify(Event{Type: EventDropped, Handle: h, UseCount: remaining})
}

// Len returns the number of live handles.
func (t *Table[T]) Len() int {
	return t.live
}

// Each calls fn for every live handle in ascending order until fn returns
// false. fn must not insert into or remove from the table.
func (t *Table[T]) Each(fn func(h Handle, ref *shared.Shared[T]) bool) {
	for i := range t.entries {
		if !t.entries[i].valid {
			continue
		}
		if !fn(Handle(i+1), &t.entries[i].ref) {
			return
		}
	}
}

// Subscribe adds an observer for table events.
func (t *Table[T]) Subscribe(obs Observer) {
	t.observers = append(t.observers, obs)
}

// Unsubscribe removes an observer.
func (t *Table[T]) Unsubscribe(obs Observer) {
	for i, o := range t.observers {
		if o == obs {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Clear drops every handle, ignoring outstanding borrows. The table stays
// usable.
func (t *Table[T]) Clear() {
	var (
		handles []Handle
		refs    []shared.Shared[T]
	)
	for i := range t.entries {
		if !t.entries[i].valid {
			continue
		}
		handles = append(handles, Handle(i+1))
		refs = append(refs, t.entries[i].ref.Move())
		t.entries[i] = entry[T]{}
	}
	t.entries = t.entries[:0]
	t.freeList = t.freeList[:0]
	t.live = 0

	for i := range refs {
		t.release(handles[i], &refs[i])
	}
}

// Close drops every handle and rejects further use of the table. Destructors
// run by Close cannot insert into it; the caller keeps ownership of what it
// tried to store.
func (t *Table[T]) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	t.Clear()
	t.observers = nil
	return nil
}

func (t *Table[T]) notify(ev Event) {
	for _, obs := range t.observers {
		obs.OnResourceEvent(ev)
	}
}
