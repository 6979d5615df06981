// Package linear puts guest linear memory under handle ownership.
//
// Wrapper and AllocatorWrapper adapt a wazero module's exported memory and
// its cabi_realloc function to ownership.Memory and ownership.Allocator.
// Alloc returns an exclusively owned Region whose deleter frees the block:
//
//	mem := linear.WrapMemory(mod.ExportedMemory("memory"))
//	alloc := linear.WrapAllocator(ctx, mod.ExportedFunction("cabi_realloc"))
//
//	buf, err := linear.Alloc(alloc, mem, 64, 8)
//	if err != nil {
//		return err
//	}
//	defer buf.Close()
//
// Share converts an Owned region into a shared.Shared[Region] so several
// parts of the host can hold it; the block is freed with the last reference.
package linear
