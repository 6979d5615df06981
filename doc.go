// Package ownership provides deterministic ownership handles for Go values:
// shared (reference-counted) owners, weak observers and exclusive owners.
//
// The garbage collector still reclaims bytes. What this module governs is
// destruction: the moment a value's Destroy hook runs and its storage is
// cleared, driven by explicit counts instead of reachability. That is what
// guest allocations, pooled buffers and other externally-backed resources
// need.
//
// # Architecture Overview
//
//	ownership/           Root package with the Destroyer protocol and Memory/Allocator interfaces
//	├── shared/          Control blocks, Shared and Weak handles, EnableShared
//	├── unique/          Exclusive handles (Ptr, Slice) with deletion policies
//	├── compact/         Two-value storage that elides a zero-sized second value
//	├── resource/        Integer handle tables holding shared references
//	├── linear/          Guest linear memory regions backed by wazero
//	├── errors/          Structured error types
//	├── internal/sim/    Ownership script interpreter
//	├── cmd/ownsim/      Script runner and interactive explorer for the handle API
//	└── examples/basic/  A tree with weak parent links
//
// # Quick Start
//
// Single-allocation shared ownership:
//
//	s1 := shared.Make(42)
//	s2 := s1.Clone()      // UseCount() == 2
//	s1.Reset()            // UseCount() == 1, *s2.Get() == 42
//
//	w := s2.Weak()
//	s2.Reset()            // value destroyed here
//	w.Expired()           // true
//	w.Lock().Valid()      // false
//	w.Reset()             // control block released here
//
// Exclusive ownership:
//
//	p := unique.New(&conn)
//	defer p.Close()
//
// # Destruction
//
// A value is destroyed by ownership.Delete: Destroy is called when the value
// implements Destroyer, then the value is zeroed. Handles may carry a custom
// deleter instead.
//
// # Thread Safety
//
// Nothing in this module is safe for concurrent use. Counts are plain
// integers; callers sharing handles across goroutines must synchronize
// externally.
//
// # Lifetimes
//
// Go has no destructors. Every Shared, Weak and unique handle must be Reset
// (or Closed) exactly once by its holder; assigning a handle struct by value
// bypasses counting and is a contract violation. Use Clone and Move.
package ownership
