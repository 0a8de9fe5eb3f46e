//go:build tinygo

package pwrctrl

import "runtime/interrupt"

// critical masks interrupts for the lifetime of a register update.
type critical struct{ state interrupt.State }

func enterCritical() critical { return critical{state: interrupt.Disable()} }

func (c critical) exit() { interrupt.Restore(c.state) }
