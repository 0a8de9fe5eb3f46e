// Package profile holds board power profiles: which memories and peripheral
// domains a board brings up, and what it keeps across deep sleep.
package profile

import (
	"encoding/json"

	"pwrctrl-go/drivers/pwrctrl"
	"pwrctrl-go/errcode"
)

// Profile is one board's power plan.
type Profile struct {
	// LowPower runs LowPowerInit before anything else.
	LowPower bool `json:"low_power"`
	// Memory is the memory configuration to enable, e.g. "sram_384k".
	Memory string `json:"memory,omitempty"`
	// Flash and cache are separate memory classes from SRAM.
	Flash string `json:"flash,omitempty"`
	Cache bool   `json:"cache,omitempty"`
	// Peripherals are enabled in order.
	Peripherals []string `json:"peripherals,omitempty"`
	// SleepPowerdown lists memories dropped in deep sleep.
	SleepPowerdown []string `json:"sleep_powerdown,omitempty"`
	// SleepRetain lists memories kept in deep sleep. Applied after
	// SleepPowerdown, so it wins on overlap.
	SleepRetain []string `json:"sleep_retain,omitempty"`
}

// EmbeddedLookup allows overriding how profiles are resolved.
var EmbeddedLookup = func(board string) ([]byte, bool) {
	b, ok := embedded[board]
	return b, ok
}

// Load resolves and decodes the embedded profile for board.
func Load(board string) (Profile, error) {
	raw, ok := EmbeddedLookup(board)
	if !ok || len(raw) == 0 {
		return Profile{}, &errcode.E{C: errcode.InvalidIdentifier, Op: "profile_load", Msg: board}
	}
	return Parse(raw)
}

// Parse decodes a JSON profile and checks every name against the tables.
func Parse(raw []byte) (Profile, error) {
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return Profile{}, errcode.Wrap(errcode.InvalidArgument, "profile_parse", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate reports the first unknown peripheral or memory name.
func (p Profile) Validate() error {
	for _, n := range p.Peripherals {
		if _, err := pwrctrl.ParsePeripheral(n); err != nil {
			return &errcode.E{C: errcode.InvalidIdentifier, Op: "profile", Msg: n}
		}
	}
	mems := append([]string{}, p.SleepPowerdown...)
	mems = append(mems, p.SleepRetain...)
	if p.Memory != "" {
		mems = append(mems, p.Memory)
	}
	if p.Flash != "" {
		mems = append(mems, p.Flash)
	}
	for _, n := range mems {
		if _, err := pwrctrl.ParseMemory(n); err != nil {
			return &errcode.E{C: errcode.InvalidIdentifier, Op: "profile", Msg: n}
		}
	}
	return nil
}

// Apply drives dev to the profile. It stops at the first failure; domains
// already brought up stay up.
func (p Profile) Apply(dev *pwrctrl.Device) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.LowPower {
		if err := dev.LowPowerInit(); err != nil {
			return errcode.Wrap(errcode.Of(err), "low_power_init", err)
		}
	}

	var mems []string
	if p.Memory != "" {
		mems = append(mems, p.Memory)
	}
	if p.Flash != "" {
		mems = append(mems, p.Flash)
	}
	if p.Cache {
		mems = append(mems, pwrctrl.MemCache.String())
	}
	for _, n := range mems {
		m, _ := pwrctrl.ParseMemory(n)
		if err := dev.EnableMemory(m); err != nil {
			return errcode.Wrap(errcode.Of(err), "enable_memory "+n, err)
		}
	}

	for _, n := range p.Peripherals {
		per, _ := pwrctrl.ParsePeripheral(n)
		if err := dev.EnablePeripheral(per); err != nil {
			return errcode.Wrap(errcode.Of(err), "enable_peripheral "+n, err)
		}
	}

	for _, n := range p.SleepPowerdown {
		m, _ := pwrctrl.ParseMemory(n)
		if err := dev.DeepSleepPowerdown(m); err != nil {
			return errcode.Wrap(errcode.Of(err), "sleep_powerdown "+n, err)
		}
	}
	for _, n := range p.SleepRetain {
		m, _ := pwrctrl.ParseMemory(n)
		if err := dev.DeepSleepRetain(m); err != nil {
			return errcode.Wrap(errcode.Of(err), "sleep_retain "+n, err)
		}
	}
	return nil
}
