package pwrctrl

import "pwrctrl-go/errcode"

// EnablePeripheral powers p and waits for its status bit. On timeout the
// enable bit is cleared again and PowerEnableFailed is returned.
func (d *Device) EnablePeripheral(p Peripheral) error {
	desc, err := LookupPeripheral(p)
	if err != nil {
		return err
	}
	if err := d.ready(); err != nil {
		return err
	}

	if err := d.modifyBitmaskRegister(RegDevPwrEn, desc.Enable, 0); err != nil {
		return err
	}

	up := d.statusAny(RegDevPwrStatus, desc.Status)
	if err := d.waitFor(d.cfg.MaxWait, d.cfg.PollInterval, up); err != nil {
		return err
	}
	ok, err := up()
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	// Roll back so DEVPWREN never claims a domain that did not come up.
	if err := d.modifyBitmaskRegister(RegDevPwrEn, 0, desc.Enable); err != nil {
		return err
	}
	return errcode.PowerEnableFailed
}

// DisablePeripheral removes power from p. A status bit that stays set is
// accepted when it belongs to a shared rail still held up by a sibling.
func (d *Device) DisablePeripheral(p Peripheral) error {
	desc, err := LookupPeripheral(p)
	if err != nil {
		return err
	}
	if err := d.ready(); err != nil {
		return err
	}

	if err := d.modifyBitmaskRegister(RegDevPwrEn, 0, desc.Enable); err != nil {
		return err
	}

	down := d.statusNone(RegDevPwrStatus, desc.Status)
	if err := d.waitFor(d.cfg.MaxWait, d.cfg.PollInterval, down); err != nil {
		return err
	}
	ok, err := down()
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return d.disableMaskCheck(desc)
}

// disableMaskCheck resolves a status bit that failed to clear. DEVPWRSTATUS
// alone cannot tell whether a shared-rail peripheral is off, so DEVPWREN
// decides: the rail must still have an enabled member and p must not be one.
func (d *Device) disableMaskCheck(desc PeriphDesc) error {
	en, err := d.bus.Read(RegDevPwrEn)
	if err != nil {
		return err
	}
	rail, ok := railForStatus(desc.Status)
	if !ok {
		return errcode.PowerDisableFailed
	}
	if en&rail.Members != 0 && en&desc.Enable == 0 {
		return nil
	}
	return errcode.PowerDisableFailed
}

// PeripheralEnabled reports whether p is powered: its status bit reads set
// and its own enable bit is set. A domain without a status bit reports false.
func (d *Device) PeripheralEnabled(p Peripheral) (bool, error) {
	desc, err := LookupPeripheral(p)
	if err != nil {
		return false, err
	}
	if err := d.ready(); err != nil {
		return false, err
	}
	if desc.Status == 0 {
		return false, nil
	}
	st, err := d.bus.Read(RegDevPwrStatus)
	if err != nil {
		return false, err
	}
	if st&desc.Status == 0 {
		return false, nil
	}
	en, err := d.bus.Read(RegDevPwrEn)
	if err != nil {
		return false, err
	}
	return en&desc.Enable != 0, nil
}

// EnablePeripheralEvent sets p's bit in DEVPWREVENTEN so power-up of its
// domain raises an event.
func (d *Device) EnablePeripheralEvent(p Peripheral) error {
	return d.peripheralEvent(p, true)
}

// DisablePeripheralEvent clears p's bit in DEVPWREVENTEN. Rail siblings share
// the bit, so this silences the whole rail.
func (d *Device) DisablePeripheralEvent(p Peripheral) error {
	return d.peripheralEvent(p, false)
}

func (d *Device) peripheralEvent(p Peripheral, on bool) error {
	desc, err := LookupPeripheral(p)
	if err != nil {
		return err
	}
	if err := d.ready(); err != nil {
		return err
	}
	if on {
		return d.modifyBitmaskRegister(RegDevPwrEventEn, desc.Event, 0)
	}
	return d.modifyBitmaskRegister(RegDevPwrEventEn, 0, desc.Event)
}
