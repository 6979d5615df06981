// Package unique provides exclusive ownership handles.
//
// A Ptr is the sole owner of a value and destroys it through its deletion
// policy when reset or closed:
//
//	p := unique.New(&Session{})
//	defer p.Close()
//
// Custom policies carry their own state:
//
//	p := unique.NewWithDeleter(conn, unique.DeleterFunc[Conn](func(c *Conn) {
//	    c.Close()
//	}))
//
// Slice is the array form: indexed access with At, and a policy that
// destroys every element.
//
// Handles store their policy in a compact.Pair, so the default (stateless)
// policy adds no bytes: unsafe.Sizeof(unique.Ptr[T, unique.DefaultDeleter[T]]{})
// is one pointer.
//
// Handles are move-only by contract and not safe for concurrent use.
package unique
