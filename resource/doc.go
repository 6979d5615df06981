// Package resource provides handle tables over shared ownership.
//
// A Table maps small integer handles to strong references, the way a host
// hands out descriptors for values it owns on behalf of a caller. Each
// occupied slot holds one strong count, so a value lives at least as long
// as its handle.
//
//	table := resource.NewTable[File]()
//	defer table.Close()
//
//	f := shared.Make(File{name: "log"})
//	h, err := table.Adopt(&f) // f is now empty; the table owns the value
//
//	g, err := table.Get(h) // another strong reference
//	defer g.Reset()
//
//	err = table.Drop(h) // releases the table's reference
//
// # Ownership transfer
//
//	Insert  - the table takes an additional reference
//	Adopt   - the caller's reference moves into the table
//	Take    - the table's reference moves out to the caller
//	Drop    - the table's reference is released
//
// # Borrows
//
// Borrow returns the raw value and pins the slot until ReturnBorrow. Drop
// and Take report an outstanding_borrow error while a slot is pinned.
//
// # Observation
//
// Observe returns a shared.Weak that outlives the slot and expires with the
// value. Observers registered with Subscribe receive an Event for every
// change to the table.
//
// # Thread Safety
//
// Tables are not safe for concurrent use.
package resource
