package unique

import (
	"fmt"
	"unsafe"

	"github.com/wippyai/ownership/compact"
	"github.com/wippyai/ownership/errors"
)

// Slice exclusively owns a run of elements and destroys all of them with D.
// Like Ptr it is move-only.
type Slice[T any, D SliceDeleter[T]] struct {
	pair compact.Pair[[]T, D]
}

// NewSlice returns a Slice owning s with the default element-wise deleter.
func NewSlice[T any](s []T) Slice[T, DefaultSliceDeleter[T]] {
	return Slice[T, DefaultSliceDeleter[T]]{pair: compact.Of(s, DefaultSliceDeleter[T]{})}
}

// MakeSlice allocates n zero elements and returns a Slice owning them.
func MakeSlice[T any](n int) Slice[T, DefaultSliceDeleter[T]] {
	return NewSlice(make([]T, n))
}

// NewSliceWithDeleter returns a Slice owning s that is destroyed with d.
func NewSliceWithDeleter[T any, D SliceDeleter[T]](s []T, d D) Slice[T, D] {
	return Slice[T, D]{pair: compact.Of(s, d)}
}

// Get returns the owned elements, or nil.
func (u *Slice[T, D]) Get() []T {
	return *u.pair.First()
}

// Deleter returns the deletion policy in place.
func (u *Slice[T, D]) Deleter() *D {
	return u.pair.Second()
}

// Len returns the number of owned elements.
func (u *Slice[T, D]) Len() int {
	return len(u.Get())
}

// Valid reports whether u owns any storage.
func (u *Slice[T, D]) Valid() bool {
	return unsafe.SliceData(u.Get()) != nil
}

// At returns a pointer to element i. It panics with an out-of-bounds error
// when i is not a valid index.
func (u *Slice[T, D]) At(i int) *T {
	s := u.Get()
	if i < 0 || i >= len(s) {
		panic(errors.OutOfBounds(errors.PhaseUnique, []string{fmt.Sprintf("%T", s)}, i, len(s)))
	}
	return &s[i]
}

// Release relinquishes ownership without destroying the elements.
func (u *Slice[T, D]) Release() []T {
	s := u.Get()
	*u.pair.First() = nil
	return s
}

// Reset takes ownership of s. The previous elements are destroyed unless
// they are empty or share s's backing array start.
func (u *Slice[T, D]) Reset(s []T) {
	old := u.Get()
	*u.pair.First() = s
	oldData := unsafe.SliceData(old)
	if oldData != nil && oldData != unsafe.SliceData(s) {
		(*u.pair.Second()).DeleteSlice(old)
	}
}

// Close destroys all owned elements. It is Reset(nil).
func (u *Slice[T, D]) Close() {
	u.Reset(nil)
}

// Swap exchanges the owned elements and deleters of u and o.
func (u *Slice[T, D]) Swap(o *Slice[T, D]) {
	u.pair.Swap(&o.pair)
}

// Move transfers ownership to a new Slice and leaves u empty.
func (u *Slice[T, D]) Move() Slice[T, D] {
	out := Slice[T, D]{pair: compact.Of(u.Get(), *u.Deleter())}
	u.Release()
	return out
}

// Assign destroys what u owns and takes over o's elements and deleter.
func (u *Slice[T, D]) Assign(o *Slice[T, D]) {
	if u == o {
		return
	}
	s := o.Release()
	u.Reset(s)
	*u.Deleter() = *o.Deleter()
}
