package shared

// Weak observes a value owned by Shared handles without keeping it alive.
// It keeps only the control block alive, so it can tell when the value is
// gone.
//
// The zero value is an empty, expired observer. Weak follows the same
// copying and concurrency rules as Shared.
type Weak[T any] struct {
	ptr *T
	cb  controlBlock
}

// NewWeak returns a weak observer of s's value.
func NewWeak[T any](s *Shared[T]) Weak[T] {
	if s.cb != nil {
		retainWeak(s.cb)
	}
	return Weak[T]{ptr: s.ptr, cb: s.cb}
}

// Clone returns another weak observer of the same value.
func (w *Weak[T]) Clone() Weak[T] {
	if w.cb != nil {
		retainWeak(w.cb)
	}
	return Weak[T]{ptr: w.ptr, cb: w.cb}
}

// Move transfers w's observation to a new handle and leaves w empty.
func (w *Weak[T]) Move() Weak[T] {
	out := w.Clone()
	w.Reset()
	return out
}

// Assign makes w observe o's value.
func (w *Weak[T]) Assign(o *Weak[T]) {
	if w == o {
		return
	}
	next := o.Clone()
	w.Reset()
	*w = next
}

// AssignMove makes w take over o's observation and leaves o empty.
func (w *Weak[T]) AssignMove(o *Weak[T]) {
	if w == o {
		return
	}
	next := o.Move()
	w.Reset()
	*w = next
}

// AssignShared makes w observe s's value.
func (w *Weak[T]) AssignShared(s *Shared[T]) {
	next := NewWeak(s)
	w.Reset()
	*w = next
}

// Reset stops observing and leaves w empty. It is the destructor of a
// Weak: the control block is retired if w was the last reference to it.
func (w *Weak[T]) Reset() {
	cb := w.cb
	w.ptr, w.cb = nil, nil
	if cb != nil {
		releaseWeak(cb)
	}
}

// Swap exchanges the observations of w and o.
func (w *Weak[T]) Swap(o *Weak[T]) {
	w.ptr, o.ptr = o.ptr, w.ptr
	w.cb, o.cb = o.cb, w.cb
}

// Expired reports whether the observed value has been destroyed, or w
// observes nothing.
func (w *Weak[T]) Expired() bool {
	return expired(w.cb)
}

// Lock returns a strong reference to the observed value, or an empty handle
// if it has expired. The result must be Reset.
func (w *Weak[T]) Lock() Shared[T] {
	if expired(w.cb) {
		return Shared[T]{}
	}
	retainStrong(w.cb)
	return Shared[T]{ptr: w.ptr, cb: w.cb}
}

// Get returns the observed pointer, or nil once the value has expired.
// The pointer is only valid while some Shared keeps the value alive.
func (w *Weak[T]) Get() *T {
	if expired(w.cb) {
		return nil
	}
	return w.ptr
}

// UseCount returns the number of strong references to the observed value.
func (w *Weak[T]) UseCount() uint {
	return strongCount(w.cb)
}

// WeakCount returns the number of weak observers, w included.
func (w *Weak[T]) WeakCount() uint {
	return weakCount(w.cb)
}
