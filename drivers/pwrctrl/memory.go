package pwrctrl

import "pwrctrl-go/errcode"

// EnableMemory switches the memory class of m to exactly configuration m.
//
// Banks of the same class not in m are powered off first, then m's banks are
// powered on and MEMPWRSTATUS is polled for the expected pattern. DTCM
// group 0 and FLASH0 hold the boot image and are never cleared here. There
// is no rollback.
func (d *Device) EnableMemory(m Memory) error {
	desc, err := LookupMemory(m)
	if err != nil {
		return err
	}
	if err := d.ready(); err != nil {
		return err
	}

	if dis := ^desc.Enable; dis != 0 {
		off := (dis & desc.Region) &^ memProtected
		if err := d.modifyBitmaskRegister(RegMemPwrEn, 0, off); err != nil {
			return err
		}
		d.cfg.Delay(d.cfg.SettleDelay)
	}

	settled := d.statusIs(RegMemPwrStatus, desc.StatusRegion, desc.Status)
	if desc.Enable != 0 {
		if err := d.modifyBitmaskRegister(RegMemPwrEn, desc.Enable, 0); err != nil {
			return err
		}
		if err := d.waitFor(d.cfg.MaxWait, d.cfg.PollInterval, settled); err != nil {
			return err
		}
	}

	ok, err := settled()
	if err != nil {
		return err
	}
	if !ok {
		return errcode.PowerEnableFailed
	}
	return nil
}

// MemoryEnabled reports whether all of m's banks are enabled and its class
// status reads exactly m's pattern, the same check EnableMemory ends with.
func (d *Device) MemoryEnabled(m Memory) (bool, error) {
	desc, err := LookupMemory(m)
	if err != nil {
		return false, err
	}
	if err := d.ready(); err != nil {
		return false, err
	}
	en, err := d.bus.Read(RegMemPwrEn)
	if err != nil {
		return false, err
	}
	if en&desc.Enable != desc.Enable {
		return false, nil
	}
	return d.statusIs(RegMemPwrStatus, desc.StatusRegion, desc.Status)()
}

// DeepSleepPowerdown removes power from m's banks during deep sleep.
// Contents are lost.
func (d *Device) DeepSleepPowerdown(m Memory) error {
	desc, err := LookupMemory(m)
	if err != nil {
		return err
	}
	if err := d.ready(); err != nil {
		return err
	}
	return d.modifyBitmaskRegister(RegMemPwdInSleep, desc.SleepPowerdown, 0)
}

// DeepSleepRetain keeps m's banks at retention voltage during deep sleep.
func (d *Device) DeepSleepRetain(m Memory) error {
	desc, err := LookupMemory(m)
	if err != nil {
		return err
	}
	if err := d.ready(); err != nil {
		return err
	}
	return d.modifyBitmaskRegister(RegMemPwdInSleep, 0, desc.SleepPowerdown)
}

// EnableMemoryEvent sets m's bits in MEMPWREVENTEN.
func (d *Device) EnableMemoryEvent(m Memory) error {
	desc, err := LookupMemory(m)
	if err != nil {
		return err
	}
	if err := d.ready(); err != nil {
		return err
	}
	return d.modifyBitmaskRegister(RegMemPwrEventEn, desc.Event, 0)
}
