package sim

import (
	"github.com/wippyai/ownership/shared"
)

// Cell is the value type scripts manipulate. It can mint handles to itself
// and may own another cell through Next, which lets scripts build chains.
type Cell struct {
	shared.EnableShared[Cell]
	Next      shared.Shared[Cell]
	onDestroy func(*Cell)
	Label     string
	Value     int64
}

// Destroy reports the destruction to the session, then releases Next.
func (c *Cell) Destroy() {
	if c.onDestroy != nil {
		c.onDestroy(c)
	}
	c.Next.Reset()
}
