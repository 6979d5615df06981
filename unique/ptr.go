package unique

import (
	"fmt"

	"github.com/wippyai/ownership/compact"
	"github.com/wippyai/ownership/errors"
)

// Ptr exclusively owns the value it points to and destroys it with D.
//
// Ptr is move-only: hand it over with Move or Assign. Copying the struct
// yields two owners and a double delete. The zero value is an empty Ptr with
// a zero D.
type Ptr[T any, D Deleter[T]] struct {
	pair compact.Pair[*T, D]
}

// New returns a Ptr owning p with the default deleter.
func New[T any](p *T) Ptr[T, DefaultDeleter[T]] {
	return Ptr[T, DefaultDeleter[T]]{pair: compact.Of(p, DefaultDeleter[T]{})}
}

// NewWithDeleter returns a Ptr owning p that is destroyed with d.
func NewWithDeleter[T any, D Deleter[T]](p *T, d D) Ptr[T, D] {
	return Ptr[T, D]{pair: compact.Of(p, d)}
}

// Get returns the owned pointer, or nil.
func (u *Ptr[T, D]) Get() *T {
	return *u.pair.First()
}

// Deleter returns the deletion policy in place.
func (u *Ptr[T, D]) Deleter() *D {
	return u.pair.Second()
}

// Valid reports whether u owns a value.
func (u *Ptr[T, D]) Valid() bool {
	return u.Get() != nil
}

// Deref returns the owned pointer and panics if u is empty.
func (u *Ptr[T, D]) Deref() *T {
	p := u.Get()
	if p == nil {
		panic(errors.NilPointer(errors.PhaseUnique, nil, fmt.Sprintf("%T", p)))
	}
	return p
}

// Release relinquishes ownership without destroying the value and returns
// it. u becomes empty; its deleter is kept.
func (u *Ptr[T, D]) Release() *T {
	p := u.Get()
	*u.pair.First() = nil
	return p
}

// Reset takes ownership of p. The previously owned value is destroyed
// unless it is nil or p itself. It is stored before deletion so a deleter
// observing u sees the new state.
func (u *Ptr[T, D]) Reset(p *T) {
	old := u.Get()
	*u.pair.First() = p
	if old != nil && old != p {
		(*u.pair.Second()).Delete(old)
	}
}

// Close destroys the owned value, if any. It is Reset(nil).
func (u *Ptr[T, D]) Close() {
	u.Reset(nil)
}

// Swap exchanges the owned pointers and deleters of u and o.
func (u *Ptr[T, D]) Swap(o *Ptr[T, D]) {
	u.pair.Swap(&o.pair)
}

// Move transfers ownership to a new Ptr and leaves u empty.
func (u *Ptr[T, D]) Move() Ptr[T, D] {
	out := Ptr[T, D]{pair: compact.Of(u.Get(), *u.Deleter())}
	u.Release()
	return out
}

// Assign destroys what u owns and takes over o's value and deleter,
// leaving o empty. Assigning u to itself does nothing.
func (u *Ptr[T, D]) Assign(o *Ptr[T, D]) {
	if u == o {
		return
	}
	p := o.Release()
	u.Reset(p)
	*u.Deleter() = *o.Deleter()
}
