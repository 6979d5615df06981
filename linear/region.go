package linear

import (
	"math/bits"

	"github.com/wippyai/ownership"
	"github.com/wippyai/ownership/errors"
	"github.com/wippyai/ownership/shared"
	"github.com/wippyai/ownership/unique"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Region is a block of guest memory obtained from an Allocator.
type Region struct {
	Mem   ownership.Memory
	Ptr   uint32
	Size  uint32
	Align uint32
}

// Bytes returns the region's contents. The slice aliases guest memory and
// is invalidated by memory growth.
func (r *Region) Bytes() ([]byte, error) {
	return r.Mem.Read(r.Ptr, r.Size)
}

// Write copies data into the region at offset.
func (r *Region) Write(offset uint32, data []byte) error {
	if uint64(offset)+uint64(len(data)) > uint64(r.Size) {
		return errors.OutOfBounds(errors.PhaseMemory, []string{"region"}, int(offset)+len(data), int(r.Size))
	}
	return r.Mem.Write(r.Ptr+offset, data)
}

// RegionDeleter returns a Region to the allocator that produced it.
type RegionDeleter struct {
	Alloc ownership.Allocator
}

// Delete implements unique.Deleter.
func (d RegionDeleter) Delete(r *Region) {
	if r == nil {
		return
	}
	d.Alloc.Free(r.Ptr, r.Size, r.Align)
	if ce := Logger().Check(zapcore.DebugLevel, "region freed"); ce != nil {
		ce.Write(zap.Uint32("ptr", r.Ptr), zap.Uint32("size", r.Size))
	}
	*r = Region{}
}

// Owned is an exclusively owned guest memory region.
type Owned = unique.Ptr[Region, RegionDeleter]

// Alloc reserves size bytes aligned to align and returns them as an Owned
// region. Closing the region frees the memory.
func Alloc(alloc ownership.Allocator, mem ownership.Memory, size, align uint32) (Owned, error) {
	if size == 0 {
		return Owned{}, errors.InvalidInput(errors.PhaseMemory, "region size must be positive")
	}
	if align == 0 || bits.OnesCount32(align) != 1 {
		return Owned{}, errors.New(errors.PhaseMemory, errors.KindInvalidInput).
			Value(align).
			Detail("alignment %d is not a power of two", align).
			Build()
	}

	ptr, err := alloc.Alloc(size, align)
	if err != nil {
		return Owned{}, errors.AllocationFailed(errors.PhaseMemory, size, align, err)
	}
	if ptr%align != 0 {
		alloc.Free(ptr, size, align)
		return Owned{}, errors.New(errors.PhaseMemory, errors.KindAllocation).
			Value(ptr).
			Detail("allocator returned misaligned pointer %d (align %d)", ptr, align).
			Build()
	}
	if sz, ok := mem.(ownership.MemorySizer); ok && uint64(ptr)+uint64(size) > uint64(sz.Size()) {
		alloc.Free(ptr, size, align)
		return Owned{}, errors.OutOfBounds(errors.PhaseMemory, []string{"alloc"}, int(ptr)+int(size), int(sz.Size()))
	}

	if ce := Logger().Check(zapcore.DebugLevel, "region allocated"); ce != nil {
		ce.Write(zap.Uint32("ptr", ptr), zap.Uint32("size", size), zap.Uint32("align", align))
	}
	r := &Region{Mem: mem, Ptr: ptr, Size: size, Align: align}
	return unique.NewWithDeleter(r, RegionDeleter{Alloc: alloc}), nil
}

// Share moves an Owned region into shared ownership. The memory is freed
// when the last strong reference is released. o is left empty.
func Share(o *Owned) shared.Shared[Region] {
	return shared.FromUnique(o)
}

// AllocShared is Alloc followed by Share.
func AllocShared(alloc ownership.Allocator, mem ownership.Memory, size, align uint32) (shared.Shared[Region], error) {
	o, err := Alloc(alloc, mem, size, align)
	if err != nil {
		return shared.Shared[Region]{}, err
	}
	return Share(&o), nil
}
