package shared

import (
	"github.com/wippyai/ownership/unique"
)

// FromUnique moves the value owned by u, together with its deleter, into a
// new control block. u is left empty. An empty u yields an empty handle.
func FromUnique[T any, D unique.Deleter[T]](u *unique.Ptr[T, D]) Shared[T] {
	if !u.Valid() {
		return Shared[T]{}
	}
	del := *u.Deleter()
	p := u.Release()
	return NewWithDeleter(p, del.Delete)
}
