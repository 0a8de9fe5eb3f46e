package i2cwin

import (
	"encoding/binary"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"pwrctrl-go/drivers/pwrctrl"
	"pwrctrl-go/drivers/pwrctrl/pwrsim"
	"pwrctrl-go/errcode"

	"tinygo.org/x/drivers"
)

// Compile-time check.
var _ drivers.I2C = (*fakeI2C)(nil)

// fakeI2C is a register bridge in front of a pwrsim model.
type fakeI2C struct {
	mu    sync.Mutex
	addr  uint16
	model *pwrsim.Model
	err   error
	txs   int
}

func (f *fakeI2C) Tx(addr uint16, w, r []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txs++
	if f.err != nil {
		return f.err
	}
	if addr != f.addr {
		return errors.New("nack")
	}
	reg := pwrctrl.Reg(binary.LittleEndian.Uint32(w[:4]))
	switch {
	case len(w) == 4 && len(r) == 4:
		v, err := f.model.Read(reg)
		if err != nil {
			return err
		}
		binary.LittleEndian.PutUint32(r, v)
		return nil
	case len(w) == 8 && len(r) == 0:
		return f.model.Write(reg, binary.LittleEndian.Uint32(w[4:]))
	}
	return errors.New("bad frame")
}

func TestWindowDrivesController(t *testing.T) {
	m := pwrsim.New()
	bus := &fakeI2C{addr: AddressDefault, model: m}
	dev := pwrctrl.New(New(bus, Config{}), pwrctrl.Config{Delay: func(time.Duration) {}})

	if err := dev.EnablePeripheral(pwrctrl.PeriphIOM2); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if got := m.Get(pwrctrl.RegDevPwrEn); got != pwrctrl.DevPwrIOM2 {
		t.Fatalf("DEVPWREN=%#x", got)
	}
	on, err := dev.PeripheralEnabled(pwrctrl.PeriphIOM2)
	if err != nil || !on {
		t.Fatalf("enabled=%v err=%v", on, err)
	}
	rev, err := dev.Revision()
	if err != nil || rev.String() != "C0" {
		t.Fatalf("rev=%v err=%v", rev, err)
	}
}

func TestWindowAddress(t *testing.T) {
	m := pwrsim.New()
	m.Set(pwrctrl.RegMisc, 0xDEAD_BEEF)
	bus := &fakeI2C{addr: 0x21, model: m}
	w := New(bus, Config{Address: 0x21})
	v, err := w.Read(pwrctrl.RegMisc)
	if err != nil || v != 0xDEAD_BEEF {
		t.Fatalf("v=%#x err=%v", v, err)
	}
}

func TestWindowErrorsWrapped(t *testing.T) {
	cause := errors.New("arbitration lost")
	bus := &fakeI2C{addr: AddressDefault, model: pwrsim.New(), err: cause}
	w := New(bus, Config{})

	_, err := w.Read(pwrctrl.RegDevPwrStatus)
	if !errors.Is(err, cause) || errcode.Of(err) != errcode.Error {
		t.Fatalf("read err=%v", err)
	}
	if !strings.Contains(err.Error(), "DEVPWRSTATUS") {
		t.Fatalf("read err lacks register: %v", err)
	}

	err = w.Write(pwrctrl.RegDevPwrEn, 1)
	if !errors.Is(err, cause) || !strings.HasPrefix(err.Error(), "i2cwin_write DEVPWREN") {
		t.Fatalf("write err=%v", err)
	}
}

func TestWindowReadOnlyPropagates(t *testing.T) {
	bus := &fakeI2C{addr: AddressDefault, model: pwrsim.New()}
	w := New(bus, Config{})
	if err := w.Write(pwrctrl.RegChipRev, 0); !errors.Is(err, pwrsim.ErrReadOnly) {
		t.Fatalf("err=%v", err)
	}
}

func TestWindowConcurrentReads(t *testing.T) {
	m := pwrsim.New()
	regs := []pwrctrl.Reg{pwrctrl.RegMisc, pwrctrl.RegSimobuck1, pwrctrl.RegSimobuck2, pwrctrl.RegBLEBuck2}
	for i, r := range regs {
		m.Set(r, uint32(0x1111_1111*(i+1)))
	}
	w := New(&fakeI2C{addr: AddressDefault, model: m}, Config{})

	var wg sync.WaitGroup
	errs := make(chan error, len(regs))
	for i, r := range regs {
		wg.Add(1)
		go func(r pwrctrl.Reg, want uint32) {
			defer wg.Done()
			for n := 0; n < 200; n++ {
				v, err := w.Read(r)
				if err != nil {
					errs <- err
					return
				}
				if v != want {
					errs <- errors.New(r.String() + ": torn read")
					return
				}
			}
		}(r, uint32(0x1111_1111*(i+1)))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}
