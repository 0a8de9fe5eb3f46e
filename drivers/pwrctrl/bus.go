package pwrctrl

// Bus reads and writes 32-bit power-control registers.
// Implementations: MMIO on the chip, pwrsim.Model on the host, i2cwin.Window
// over an I2C register bridge.
type Bus interface {
	Read(r Reg) (uint32, error)
	Write(r Reg, v uint32) error
}

// rmw clears then sets bits of r. Callers hold the critical section.
func (d *Device) rmw(r Reg, set, clear uint32) error {
	cur, err := d.bus.Read(r)
	if err != nil {
		return err
	}
	return d.bus.Write(r, (cur&^clear)|set)
}

// modifyBitmaskRegister is the read-modify-write pattern inside a critical section.
func (d *Device) modifyBitmaskRegister(r Reg, set, clear uint32) error {
	cs := enterCritical()
	defer cs.exit()
	return d.rmw(r, set, clear)
}

func (d *Device) setField(f field, v uint32) error {
	return d.modifyBitmaskRegister(f.reg, f.bits(v), f.mask())
}

func (d *Device) readField(f field) (uint32, error) {
	v, err := d.bus.Read(f.reg)
	if err != nil {
		return 0, err
	}
	return f.get(v), nil
}
