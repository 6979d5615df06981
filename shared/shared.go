package shared

import (
	"github.com/wippyai/ownership/errors"
)

// Shared shares ownership of a value through a control block. The value is
// destroyed when the last Shared referencing the block is reset.
//
// The zero value is an empty handle. Shared is not safe for concurrent use,
// and must not be copied by assignment: use Clone, Move or Assign, and Reset
// every handle exactly once.
type Shared[T any] struct {
	ptr *T
	cb  controlBlock
}

// New takes ownership of p, which must not be owned by any other control
// block. The value is destroyed with ownership.Delete. New(nil) returns an
// empty handle.
func New[T any](p *T) Shared[T] {
	return NewWithDeleter(p, nil)
}

// NewWithDeleter takes ownership of p and destroys it with del once the last
// strong reference is gone. A nil del means ownership.Delete.
func NewWithDeleter[T any](p *T, del func(*T)) Shared[T] {
	if p == nil {
		return Shared[T]{}
	}
	b := newAdoptBlock(p, del)
	enroll(p, b)
	return Shared[T]{ptr: p, cb: b}
}

// FromWeak returns a strong reference to the value w observes, or an error
// matching errors.ErrExpiredOwner if it has already been destroyed.
// Weak.Lock is the non-failing alternative.
func FromWeak[T any](w *Weak[T]) (Shared[T], error) {
	if expired(w.cb) {
		return Shared[T]{}, errors.ExpiredOwner(errors.PhasePromote, typeName[T]())
	}
	retainStrong(w.cb)
	return Shared[T]{ptr: w.ptr, cb: w.cb}, nil
}

// Alias returns a handle that shares owner's control block but points at p,
// typically a field of owner's value. The whole value stays alive as long as
// the alias does. Aliasing an empty owner yields a handle that points at p
// but owns nothing.
func Alias[U, T any](owner *Shared[T], p *U) Shared[U] {
	if owner.cb != nil {
		retainStrong(owner.cb)
	}
	return Shared[U]{ptr: p, cb: owner.cb}
}

// SameOwner reports whether a and b share a control block.
func SameOwner[T, U any](a *Shared[T], b *Shared[U]) bool {
	return a.cb != nil && a.cb == b.cb
}

// Clone returns a new strong reference to s's value.
func (s *Shared[T]) Clone() Shared[T] {
	if s.cb != nil {
		retainStrong(s.cb)
	}
	return Shared[T]{ptr: s.ptr, cb: s.cb}
}

// Move transfers s's reference to a new handle and leaves s empty.
// The new reference is taken before s lets go of its own, so the count
// never touches zero in between.
func (s *Shared[T]) Move() Shared[T] {
	out := s.Clone()
	s.Reset()
	return out
}

// Assign makes s share o's value, releasing whatever s held before.
// Assigning a handle to itself does nothing.
func (s *Shared[T]) Assign(o *Shared[T]) {
	if s == o {
		return
	}
	next := o.Clone()
	s.Reset()
	*s = next
}

// AssignMove makes s take over o's reference and leaves o empty.
func (s *Shared[T]) AssignMove(o *Shared[T]) {
	if s == o {
		return
	}
	next := o.Move()
	s.Reset()
	*s = next
}

// Reset releases s's reference and leaves s empty. It is the destructor of
// a Shared: the value is destroyed if s was its last owner.
func (s *Shared[T]) Reset() {
	cb := s.cb
	s.ptr, s.cb = nil, nil
	if cb != nil {
		releaseStrong(cb)
	}
}

// ResetTo releases s's reference and takes ownership of p, as New does.
func (s *Shared[T]) ResetTo(p *T) {
	next := New(p)
	s.Reset()
	*s = next
}

// ResetWithDeleter releases s's reference and takes ownership of p, as
// NewWithDeleter does.
func (s *Shared[T]) ResetWithDeleter(p *T, del func(*T)) {
	next := NewWithDeleter(p, del)
	s.Reset()
	*s = next
}

// Swap exchanges the references held by s and o.
func (s *Shared[T]) Swap(o *Shared[T]) {
	s.ptr, o.ptr = o.ptr, s.ptr
	s.cb, o.cb = o.cb, s.cb
}

// Weak returns a weak observer of s's value.
func (s *Shared[T]) Weak() Weak[T] {
	return NewWeak(s)
}

// Get returns the pointer s holds, or nil.
func (s *Shared[T]) Get() *T {
	return s.ptr
}

// Deref returns the pointer s holds and panics if s is empty.
func (s *Shared[T]) Deref() *T {
	if s.ptr == nil {
		panic(errors.NilPointer(errors.PhaseShare, nil, "*"+typeName[T]()))
	}
	return s.ptr
}

// Valid reports whether s points at a value.
func (s *Shared[T]) Valid() bool {
	return s.ptr != nil
}

// UseCount returns the number of strong references to s's value, or 0.
func (s *Shared[T]) UseCount() uint {
	return strongCount(s.cb)
}

// WeakCount returns the number of weak observers of s's value, or 0.
func (s *Shared[T]) WeakCount() uint {
	return weakCount(s.cb)
}

// Equal reports whether s and o point at the same address.
func (s *Shared[T]) Equal(o *Shared[T]) bool {
	return s.ptr == o.ptr
}
