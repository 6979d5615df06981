package unique

import "github.com/wippyai/ownership"

// Deleter is the deletion policy of a Ptr.
type Deleter[T any] interface {
	Delete(p *T)
}

// SliceDeleter is the deletion policy of a Slice. It must destroy every
// element, not just the first.
type SliceDeleter[T any] interface {
	DeleteSlice(s []T)
}

// DefaultDeleter destroys the value with ownership.Delete. It is zero-sized,
// so a Ptr using it is exactly one pointer wide.
type DefaultDeleter[T any] struct{}

// Delete implements Deleter.
func (DefaultDeleter[T]) Delete(p *T) {
	ownership.Delete(p)
}

// DefaultSliceDeleter destroys every element with ownership.DeleteSlice.
type DefaultSliceDeleter[T any] struct{}

// DeleteSlice implements SliceDeleter.
func (DefaultSliceDeleter[T]) DeleteSlice(s []T) {
	ownership.DeleteSlice(s)
}

// DeleterFunc adapts a function to Deleter.
type DeleterFunc[T any] func(p *T)

// Delete implements Deleter.
func (f DeleterFunc[T]) Delete(p *T) {
	f(p)
}

// SliceDeleterFunc adapts a function to SliceDeleter.
type SliceDeleterFunc[T any] func(s []T)

// DeleteSlice implements SliceDeleter.
func (f SliceDeleterFunc[T]) DeleteSlice(s []T) {
	f(s)
}
