//go:build !tinygo

package pwrctrl

import "sync"

// Host builds have no interrupts to mask; goroutines stand in for ISRs.
var critMu sync.Mutex

type critical struct{}

func enterCritical() critical {
	critMu.Lock()
	return critical{}
}

func (critical) exit() { critMu.Unlock() }
