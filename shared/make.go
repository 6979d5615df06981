package shared

// Make returns a Shared owning a copy of v. The control block and the value
// are a single allocation.
func Make[T any](v T) Shared[T] {
	b := newInplaceBlock[T]()
	b.value = v
	return finishInPlace(b)
}

// MakeWith constructs the value directly inside a new control block: init
// receives a pointer to the zeroed in-block storage. The block and the value
// are a single allocation. The value is enrolled for self-sharing only after
// init returns.
func MakeWith[T any](init func(*T)) Shared[T] {
	b := newInplaceBlock[T]()
	if init != nil {
		init(&b.value)
	}
	return finishInPlace(b)
}

func finishInPlace[T any](b *inplaceBlock[T]) Shared[T] {
	logBlock(b, "control block allocated")
	enroll(&b.value, b)
	return Shared[T]{ptr: &b.value, cb: b}
}
