package ownership

// Destroyer is optionally implemented by values that need cleanup when their
// last owner goes away. Destroy is called exactly once, before the value's
// storage is cleared.
type Destroyer interface {
	Destroy()
}

// Delete destroys the value p points to: it runs Destroy if *T implements
// Destroyer, then zeroes *p so nothing the value referenced stays reachable
// through it. Delete is the default deletion policy of every handle type.
func Delete[T any](p *T) {
	if p == nil {
		return
	}
	if d, ok := any(p).(Destroyer); ok {
		d.Destroy()
	}
	var zero T
	*p = zero
}

// DeleteSlice destroys every element of s, last element first.
func DeleteSlice[T any](s []T) {
	for i := len(s) - 1; i >= 0; i-- {
		Delete(&s[i])
	}
}

// Memory represents guest linear memory
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU32(offset uint32) (uint32, error)
	ReadU64(offset uint32) (uint64, error)
	WriteU32(offset uint32, value uint32) error
	WriteU64(offset uint32, value uint64) error
}

// MemorySizer provides the current size of guest linear memory in bytes.
type MemorySizer interface {
	Size() uint32
}

// Allocator allocates memory in guest linear memory
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr, size, align uint32)
}
