package pwrctrl

import "pwrctrl-go/types"

// Snapshot reads the power registers and decodes every peripheral domain.
func (d *Device) Snapshot() (types.PowerSnapshot, error) {
	var s types.PowerSnapshot
	if err := d.ready(); err != nil {
		return s, err
	}
	regs := [...]struct {
		r   Reg
		dst *uint32
	}{
		{RegDevPwrEn, &s.DevPwrEn},
		{RegDevPwrStatus, &s.DevPwrStatus},
		{RegMemPwrEn, &s.MemPwrEn},
		{RegMemPwrStatus, &s.MemPwrStatus},
		{RegMemPwdInSleep, &s.MemPwdInSleep},
	}
	for _, e := range regs {
		v, err := d.bus.Read(e.r)
		if err != nil {
			return s, err
		}
		*e.dst = v
	}
	s.Peripherals = make([]types.DomainState, 0, periphMax-1)
	for _, p := range Peripherals() {
		on, err := d.PeripheralEnabled(p)
		if err != nil {
			return s, err
		}
		s.Peripherals = append(s.Peripherals, types.DomainState{Name: p.String(), Enabled: on})
	}
	return s, nil
}
