// Package i2cwin exposes the power-control registers of a remote Apollo3
// through an I2C register window, for bring-up rigs where a host MCU drives
// the target's power domains.
//
// Wire format (little-endian, one transaction per access):
// • read:  write [addr:4], repeated-start read [data:4]
// • write: write [addr:4][data:4]
package i2cwin

import (
	"encoding/binary"
	"sync"

	"pwrctrl-go/drivers/pwrctrl"
	"pwrctrl-go/errcode"

	"tinygo.org/x/drivers"
)

// AddressDefault is the 7-bit address of the window.
const AddressDefault = 0x4A

type Config struct {
	Address uint16
}

// Window implements pwrctrl.Bus over drivers.I2C. It is safe for
// concurrent use; transfers are serialised.
type Window struct {
	i2c  drivers.I2C
	addr uint16

	// mu guards the fixed buffers, which avoid per-call heap allocations.
	mu sync.Mutex
	w  [8]byte
	r  [4]byte
}

// Compile-time check.
var _ pwrctrl.Bus = (*Window)(nil)

func New(i2c drivers.I2C, cfg Config) *Window {
	addr := cfg.Address
	if addr == 0 {
		addr = AddressDefault
	}
	return &Window{i2c: i2c, addr: addr}
}

func (w *Window) Read(r pwrctrl.Reg) (uint32, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	binary.LittleEndian.PutUint32(w.w[:4], uint32(r))
	if err := w.i2c.Tx(w.addr, w.w[:4], w.r[:]); err != nil {
		return 0, errcode.Wrap(errcode.Error, "i2cwin_read "+r.String(), err)
	}
	return binary.LittleEndian.Uint32(w.r[:]), nil
}

func (w *Window) Write(r pwrctrl.Reg, v uint32) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	binary.LittleEndian.PutUint32(w.w[:4], uint32(r))
	binary.LittleEndian.PutUint32(w.w[4:], v)
	if err := w.i2c.Tx(w.addr, w.w[:8], nil); err != nil {
		return errcode.Wrap(errcode.Error, "i2cwin_write "+r.String(), err)
	}
	return nil
}
