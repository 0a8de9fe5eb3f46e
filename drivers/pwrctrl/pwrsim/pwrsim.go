// Package pwrsim is a host model of the Apollo3 power-control registers.
//
// Status registers are derived from the enable registers on every read:
// a DEVPWRSTATUS rail bit is set while any peripheral on that rail is
// enabled, and MEMPWRSTATUS mirrors MEMPWREN. Faults are scripted with
// StickOff/StickOn and Latency.
package pwrsim

import (
	"errors"
	"sync"

	"pwrctrl-go/drivers/pwrctrl"
	"pwrctrl-go/types"
)

var ErrReadOnly = errors.New("pwrsim: register is read-only")

// Defaults describing a freshly reset rev C0 part.
const (
	DefaultChipRev = 0x31 // REVMAJ=C, REVMIN=rev0
	alwaysOn       = uint32(types.StatusMCUL | types.StatusMCUH)
)

// Model implements pwrctrl.Bus.
type Model struct {
	mu   sync.Mutex
	regs map[pwrctrl.Reg]uint32

	devStuckOff uint32 // DEVPWRSTATUS bits that never assert
	devStuckOn  uint32 // DEVPWRSTATUS bits that never clear
	memStuckOff uint32 // MEMPWRSTATUS bits that never assert

	// Latency is the number of DEVPWRSTATUS reads after a DEVPWREN write
	// that still return the previous status.
	latency  int
	pending  int
	lastDev  uint32
	bleDeny  bool
	reads    int
	writes   int
	regReads map[pwrctrl.Reg]int
}

// New returns a model in its reset state.
func New() *Model {
	m := &Model{
		regs:     make(map[pwrctrl.Reg]uint32),
		regReads: make(map[pwrctrl.Reg]int),
	}
	m.regs[pwrctrl.RegChipRev] = DefaultChipRev
	m.lastDev = alwaysOn
	return m
}

// Compile-time check.
var _ pwrctrl.Bus = (*Model)(nil)

func (m *Model) Read(r pwrctrl.Reg) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	m.regReads[r]++
	switch r {
	case pwrctrl.RegDevPwrStatus:
		if m.pending > 0 {
			m.pending--
			return m.lastDev, nil
		}
		m.lastDev = m.devStatus()
		return m.lastDev, nil
	case pwrctrl.RegMemPwrStatus:
		return m.memStatus(), nil
	}
	return m.regs[r], nil
}

func (m *Model) Write(r pwrctrl.Reg, v uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch r {
	case pwrctrl.RegDevPwrStatus, pwrctrl.RegMemPwrStatus, pwrctrl.RegChipRev:
		return ErrReadOnly
	}
	m.writes++
	if r == pwrctrl.RegDevPwrEn && m.latency > 0 {
		m.lastDev = m.devStatus()
		m.pending = m.latency
	}
	if r == pwrctrl.RegFeatureEnable {
		v = m.feature(v)
	}
	m.regs[r] = v
	return nil
}

// devStatus derives DEVPWRSTATUS from DEVPWREN. Caller holds mu.
func (m *Model) devStatus() uint32 {
	en := m.regs[pwrctrl.RegDevPwrEn]
	st := alwaysOn
	for _, p := range pwrctrl.Peripherals() {
		d, _ := pwrctrl.LookupPeripheral(p)
		if en&d.Enable != 0 {
			st |= d.Status
		}
	}
	return (st | m.devStuckOn) &^ m.devStuckOff
}

// memStatus maps MEMPWREN onto MEMPWRSTATUS. Caller holds mu.
func (m *Model) memStatus() uint32 {
	en := m.regs[pwrctrl.RegMemPwrEn]
	st := en & 0x7FFF // DTCM, SRAM, flash share the layout
	if en&pwrctrl.MemEnCache0 != 0 {
		st |= uint32(types.StatusCacheB0)
	}
	if en&pwrctrl.MemEnCache2 != 0 {
		st |= uint32(types.StatusCacheB2)
	}
	return st &^ m.memStuckOff
}

// feature grants or refuses a BLE request. Caller holds mu.
func (m *Model) feature(v uint32) uint32 {
	const grant = uint32(types.FeatureBLEAck | types.FeatureBLEAvail)
	if v&uint32(types.FeatureBLEReq) == 0 || m.bleDeny {
		return v &^ grant
	}
	return v | grant
}

// ---------------- Scripting ----------------

// Set writes a register directly, bypassing side effects.
func (m *Model) Set(r pwrctrl.Reg, v uint32) {
	m.mu.Lock()
	m.regs[r] = v
	m.mu.Unlock()
}

// Get reads a register directly. Status registers are derived.
func (m *Model) Get(r pwrctrl.Reg) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch r {
	case pwrctrl.RegDevPwrStatus:
		return m.devStatus()
	case pwrctrl.RegMemPwrStatus:
		return m.memStatus()
	}
	return m.regs[r]
}

// StickOff keeps DEVPWRSTATUS bits low regardless of DEVPWREN.
func (m *Model) StickOff(mask uint32) {
	m.mu.Lock()
	m.devStuckOff |= mask
	m.mu.Unlock()
}

// StickOn keeps DEVPWRSTATUS bits high regardless of DEVPWREN.
func (m *Model) StickOn(mask uint32) {
	m.mu.Lock()
	m.devStuckOn |= mask
	m.mu.Unlock()
}

// StickMemOff keeps MEMPWRSTATUS bits low.
func (m *Model) StickMemOff(mask uint32) {
	m.mu.Lock()
	m.memStuckOff |= mask
	m.mu.Unlock()
}

// SetLatency delays DEVPWRSTATUS by n reads after each DEVPWREN write.
func (m *Model) SetLatency(n int) {
	m.mu.Lock()
	m.latency = n
	m.mu.Unlock()
}

// DenyBLE makes the BLE feature request go unacknowledged.
func (m *Model) DenyBLE(deny bool) {
	m.mu.Lock()
	m.bleDeny = deny
	m.mu.Unlock()
}

// SetRevision sets MCUCTRL CHIPREV.
func (m *Model) SetRevision(rev pwrctrl.Revision) {
	m.Set(pwrctrl.RegChipRev, uint32(rev.Major)<<4|uint32(rev.Minor))
}

// Accesses returns the total reads and writes seen through the Bus.
func (m *Model) Accesses() (reads, writes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads, m.writes
}

// Reads returns how often r was read through the Bus.
func (m *Model) Reads(r pwrctrl.Reg) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.regReads[r]
}
