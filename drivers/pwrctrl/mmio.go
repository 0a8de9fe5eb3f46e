//go:build tinygo && apollo3

package pwrctrl

import (
	"runtime/volatile"
	"unsafe"
)

// MMIO is the on-chip Bus: every Reg is its own address.
type MMIO struct{}

func reg32(r Reg) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(uintptr(r)))
}

func (MMIO) Read(r Reg) (uint32, error) { return reg32(r).Get(), nil }

func (MMIO) Write(r Reg, v uint32) error {
	reg32(r).Set(v)
	return nil
}
