// Package pwrctrl drives the power-control block of the Ambiq Apollo3 Blue
// Plus: peripheral and memory power domains, deep-sleep memory retention and
// the one-time low-power trims.
//
// Design notes (datasheet references):
// • A domain is on when its DEVPWREN/MEMPWREN bit is set AND the matching
//   status bit reads back within the polling budget.
// • IOS/UART/SCARD, IOM0-2, IOM3-5 and MSPI0-2 each share one status bit
//   (HCPA, HCPB, HCPC, MSPI). A rail stays up while any member is enabled.
// • Register read-modify-write runs with interrupts masked.
// • Polling is a bounded busy wait: MaxWait/PollInterval samples, then one
//   final check.
package pwrctrl

import (
	"sync/atomic"
	"time"

	"pwrctrl-go/errcode"
	"pwrctrl-go/x/mathx"
)

// ---------------- Types and configuration ----------------

// DelayFunc blocks for at least d.
type DelayFunc func(d time.Duration)

// CacheController applies the recommended low-power cache profile.
type CacheController interface {
	LowPowerRecommended() error
}

// Defaults, hardware-qualified.
const (
	DefaultPollInterval    = 10 * time.Microsecond
	DefaultMaxWait         = 20 * time.Microsecond
	DefaultSettleDelay     = 1 * time.Microsecond
	DefaultBLETimeout      = 10 * time.Millisecond
	DefaultBLEPollInterval = 1 * time.Microsecond
)

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// PollInterval is the wait between status samples. Default 10 µs.
	PollInterval time.Duration
	// MaxWait bounds a peripheral or memory transition. Default 20 µs.
	MaxWait time.Duration
	// SettleDelay follows the memory disable step. Default 1 µs.
	SettleDelay time.Duration
	// BLETimeout bounds the BLE feature handshake. Default 10 ms.
	BLETimeout time.Duration
	// BLEPollInterval is the handshake sample cadence. Default 1 µs.
	BLEPollInterval time.Duration
	// Delay defaults to time.Sleep.
	Delay DelayFunc
	// Cache is optional; nil skips the cache step of LowPowerInit.
	Cache CacheController
}

// Device is one power controller instance.
type Device struct {
	bus Bus
	cfg Config

	trimsDone  atomic.Bool
	lpTrimDone atomic.Bool // MEMLPTRIM offset written; never re-applied
	resetStat  atomic.Uint32
}

// New returns a controller on bus. It does not touch the hardware.
func New(bus Bus, cfg Config) *Device {
	d := &Device{bus: bus}
	d.cfg = Config{
		PollInterval:    DefaultPollInterval,
		MaxWait:         DefaultMaxWait,
		SettleDelay:     DefaultSettleDelay,
		BLETimeout:      DefaultBLETimeout,
		BLEPollInterval: DefaultBLEPollInterval,
		Delay:           time.Sleep,
	}
	d.Configure(cfg)
	return d
}

// Configure applies the non-zero fields of cfg.
func (d *Device) Configure(cfg Config) {
	if cfg.PollInterval > 0 {
		d.cfg.PollInterval = cfg.PollInterval
	}
	if cfg.MaxWait > 0 {
		d.cfg.MaxWait = cfg.MaxWait
	}
	if cfg.SettleDelay > 0 {
		d.cfg.SettleDelay = cfg.SettleDelay
	}
	if cfg.BLETimeout > 0 {
		d.cfg.BLETimeout = cfg.BLETimeout
	}
	if cfg.BLEPollInterval > 0 {
		d.cfg.BLEPollInterval = cfg.BLEPollInterval
	}
	if cfg.Delay != nil {
		d.cfg.Delay = cfg.Delay
	}
	if cfg.Cache != nil {
		d.cfg.Cache = cfg.Cache
	}
}

// Config returns the effective configuration.
func (d *Device) Config() Config { return d.cfg }

func (d *Device) ready() error {
	if d == nil || d.bus == nil {
		return errcode.InvalidArgument
	}
	return nil
}

// ---------------- Bounded polling ----------------

// samples is the number of delay+check rounds that fit in budget.
func samples(budget, every time.Duration) uint64 {
	if budget <= 0 || every <= 0 {
		return 0
	}
	return mathx.CeilDiv(uint64(budget), uint64(every))
}

// waitFor sleeps then samples cond until it holds or the budget is spent.
// The outcome is left to the caller's final check.
func (d *Device) waitFor(budget, every time.Duration, cond func() (bool, error)) error {
	for n := samples(budget, every); n > 0; n-- {
		d.cfg.Delay(every)
		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return nil
}

// statusAny reports whether any of mask is set in r.
func (d *Device) statusAny(r Reg, mask uint32) func() (bool, error) {
	return func() (bool, error) {
		v, err := d.bus.Read(r)
		return v&mask != 0, err
	}
}

// statusNone reports whether all of mask is clear in r.
func (d *Device) statusNone(r Reg, mask uint32) func() (bool, error) {
	return func() (bool, error) {
		v, err := d.bus.Read(r)
		return v&mask == 0, err
	}
}

// statusIs reports whether r&mask equals want.
func (d *Device) statusIs(r Reg, mask, want uint32) func() (bool, error) {
	return func() (bool, error) {
		v, err := d.bus.Read(r)
		return v&mask == want, err
	}
}
