// Package shared provides reference-counted ownership with weak observers.
//
// Every managed value has a control block with two counts. The strong count
// is the number of Shared handles; the weak count is the number of Weak
// handles. Teardown happens in two phases:
//
//	strong reaches 0             the value is destroyed (Destroy, then zeroed)
//	strong == 0 and weak == 0    the control block is retired
//
// A Weak that outlives its value keeps only the retired-value husk, which is
// how it can report Expired instead of reading freed state.
//
// # Construction
//
//	s := shared.New(&Conn{})             // adopt an existing value
//	s := shared.NewWithDeleter(p, del)   // adopt with a custom deleter
//	s := shared.Make(Conn{})             // value and block in one allocation
//	s := shared.MakeWith(func(c *Conn) { // construct in place
//	    c.open()
//	})
//	s := shared.FromUnique(&u)           // take over an exclusive handle
//
// # Handles
//
// Go has no copy constructors or destructors, so handle lifetimes are
// explicit:
//
//	t := s.Clone()         // +1 strong
//	u := s.Move()          // s is now empty, count unchanged
//	a := shared.Alias(&s, &s.Get().Field)
//	w := s.Weak()          // +1 weak
//	l := w.Lock()          // +1 strong, or empty if expired
//	p, err := shared.FromWeak(&w) // errors.ErrExpiredOwner if expired
//	s.Reset()              // -1 strong
//
// # Self references
//
// Values that embed EnableShared can mint handles to themselves once a
// Shared owns them; see EnableShared.
//
// # Observability
//
// Lifecycle events are logged at debug level to Logger(), and counted in
// VictoriaMetrics counters readable with ReadStats or WriteMetrics.
//
// # Thread Safety
//
// Counts are plain integers. Handles sharing a control block must not be
// used from multiple goroutines without external synchronization.
package shared
