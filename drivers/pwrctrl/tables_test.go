package pwrctrl

import (
	"errors"
	"testing"
	"time"

	"pwrctrl-go/errcode"
)

// regBus is a plain register file with an optional failing register.
type regBus struct {
	regs    map[Reg]uint32
	failOn  Reg
	failErr error
}

func newRegBus() *regBus { return &regBus{regs: map[Reg]uint32{}} }

func (b *regBus) Read(r Reg) (uint32, error) {
	if b.failErr != nil && r == b.failOn {
		return 0, b.failErr
	}
	return b.regs[r], nil
}

func (b *regBus) Write(r Reg, v uint32) error {
	if b.failErr != nil && r == b.failOn {
		return b.failErr
	}
	b.regs[r] = v
	return nil
}

func TestSamples(t *testing.T) {
	cases := []struct {
		budget, every time.Duration
		want          uint64
	}{
		{20 * time.Microsecond, 10 * time.Microsecond, 2},
		{25 * time.Microsecond, 10 * time.Microsecond, 3},
		{10 * time.Millisecond, time.Microsecond, 10000},
		{0, time.Microsecond, 0},
		{time.Microsecond, 0, 0},
	}
	for _, c := range cases {
		if got := samples(c.budget, c.every); got != c.want {
			t.Errorf("samples(%v, %v)=%d want %d", c.budget, c.every, got, c.want)
		}
	}
}

func TestPeripheralTable(t *testing.T) {
	var seen uint32
	for _, p := range Peripherals() {
		d := periphTable[p]
		if d.Enable == 0 || d.Enable&(d.Enable-1) != 0 {
			t.Fatalf("%v: enable mask %#x is not a single bit", p, d.Enable)
		}
		if seen&d.Enable != 0 {
			t.Fatalf("%v: enable bit %#x reused", p, d.Enable)
		}
		seen |= d.Enable
		if d.Status == 0 || d.Event == 0 {
			t.Fatalf("%v: empty status or event mask", p)
		}
		if got, err := ParsePeripheral(p.String()); err != nil || got != p {
			t.Fatalf("%v: parse round trip got %v, %v", p, got, err)
		}
	}
	if d := periphTable[PeriphNone]; d != (PeriphDesc{}) {
		t.Fatalf("none descriptor %+v", d)
	}
	if _, err := LookupPeripheral(periphMax); err != errcode.InvalidIdentifier {
		t.Fatalf("lookup out of range: %v", err)
	}
	if _, err := ParsePeripheral("iom9"); err != errcode.InvalidIdentifier {
		t.Fatalf("parse unknown: %v", err)
	}
}

func TestRails(t *testing.T) {
	var all uint32
	for _, rg := range Rails() {
		if all&rg.Members != 0 {
			t.Fatalf("%s overlaps another rail", rg.Name)
		}
		all |= rg.Members
	}
	for _, p := range Peripherals() {
		d := periphTable[p]
		rg, ok := RailOf(p)
		if !ok {
			continue
		}
		if rg.Status != d.Status || rg.Members&d.Enable == 0 {
			t.Fatalf("%v: rail %s does not contain it", p, rg.Name)
		}
	}
	for _, p := range []Peripheral{PeriphADC, PeriphPDM, PeriphBLEL} {
		if rg, ok := RailOf(p); ok {
			t.Fatalf("%v: unexpected rail %s", p, rg.Name)
		}
	}
	if rg, ok := RailOf(PeriphIOM4); !ok || rg.Name != "hcpc" {
		t.Fatalf("iom4 rail %+v %v", rg, ok)
	}
}

func TestMemoryTable(t *testing.T) {
	var union, unionStatus uint32
	for _, m := range Memories() {
		d := memTable[m]
		if d.Enable&^d.Region != 0 {
			t.Fatalf("%v: enable %#x outside region %#x", m, d.Enable, d.Region)
		}
		if d.Status&^d.StatusRegion != 0 {
			t.Fatalf("%v: status %#x outside region %#x", m, d.Status, d.StatusRegion)
		}
		if m != MemAll {
			union |= d.Enable
			unionStatus |= d.Status
		}
		if got, err := ParseMemory(m.String()); err != nil || got != m {
			t.Fatalf("%v: parse round trip got %v, %v", m, got, err)
		}
	}
	if memTable[MemAll].Enable != union {
		t.Fatalf("all=%#x union=%#x", memTable[MemAll].Enable, union)
	}
	if memTable[MemAll].Status != unionStatus {
		t.Fatalf("all status=%#x union=%#x", memTable[MemAll].Status, unionStatus)
	}
	// SRAM tiers are cumulative.
	for m := MemSRAM32KDTCM; m <= MemSRAM768K; m++ {
		prev, cur := memTable[m-1].Enable, memTable[m].Enable
		if cur&prev != prev || cur == prev {
			t.Fatalf("%v does not extend %v", m, m-1)
		}
	}
	if memTable[MemSRAM768K].Enable != memRegionSRAM {
		t.Fatalf("768K=%#x", memTable[MemSRAM768K].Enable)
	}
}

func TestFieldHelpers(t *testing.T) {
	f := field{RegSimobuck2, 22, 5}
	if f.mask() != 0x1F<<22 {
		t.Fatalf("mask=%#x", f.mask())
	}
	if f.bits(0xFF) != 0x1F<<22 {
		t.Fatalf("bits truncation=%#x", f.bits(0xFF))
	}
	if f.get(0xFFFF_FFFF) != 0x1F {
		t.Fatalf("get=%#x", f.get(0xFFFF_FFFF))
	}
}

func TestRMWClearsBeforeSetting(t *testing.T) {
	b := newRegBus()
	b.regs[RegSimobuck2] = 0xFFFF_FFFF
	d := New(b, Config{})
	if err := d.setField(fSimobuckCoreLeakageTrim, 1); err != nil {
		t.Fatal(err)
	}
	if got := b.regs[RegSimobuck2]; got != 0xFFFF_FFFF&^(2<<20) {
		t.Fatalf("SIMOBUCK2=%#x", got)
	}
}

func TestRevisionString(t *testing.T) {
	cases := []struct {
		r    Revision
		want string
	}{
		{RevA1, "A1"},
		{RevB0, "B0"},
		{Revision{3, 2}, "C1"},
		{Revision{}, "rev?"},
	}
	for _, c := range cases {
		if got := c.r.String(); got != c.want {
			t.Errorf("%+v: %q want %q", c.r, got, c.want)
		}
	}
	if RevA1.AtLeast(RevB0) || !RevB0.AtLeast(RevA1) || !RevB0.AtLeast(RevB0) {
		t.Fatal("AtLeast ordering")
	}
}

func TestTrimLatchReleasedOnError(t *testing.T) {
	b := newRegBus()
	b.regs[RegChipRev] = 0x21 // B0
	b.regs[RegSimobuck1] = 20 << 24
	b.failOn, b.failErr = RegSimobuck3, errors.New("bus fault")
	d := New(b, Config{Delay: func(time.Duration) {}})

	if err := d.EnsureTrimsApplied(); !errors.Is(err, b.failErr) {
		t.Fatalf("err=%v", err)
	}
	if d.TrimsApplied() {
		t.Fatal("latch held after a failed write")
	}

	b.failErr = nil
	if err := d.EnsureTrimsApplied(); err != nil {
		t.Fatal(err)
	}
	if !d.TrimsApplied() {
		t.Fatal("trims not applied on retry")
	}
	// The MEMLPTRIM offset is applied once across both attempts.
	if got := fSimobuckMemLPTrim.get(b.regs[RegSimobuck1]); got != 8 {
		t.Fatalf("MEMLPTRIM=%d want 8", got)
	}
	if got := fSimobuckMemLPHighTonTrim.get(b.regs[RegSimobuck3]); got != memLPHighTonTrim {
		t.Fatalf("MEMLPHIGHTONTRIM=%d", got)
	}
}

func TestMemLPTrimRetriedWhenItsWriteFails(t *testing.T) {
	b := newRegBus()
	b.regs[RegChipRev] = 0x21 // B0
	b.regs[RegSimobuck1] = 20 << 24
	b.failOn, b.failErr = RegSimobuck1, errors.New("bus fault")
	d := New(b, Config{Delay: func(time.Duration) {}})

	if err := d.EnsureTrimsApplied(); !errors.Is(err, b.failErr) {
		t.Fatalf("err=%v", err)
	}
	b.failErr = nil
	if err := d.EnsureTrimsApplied(); err != nil {
		t.Fatal(err)
	}
	if got := fSimobuckMemLPTrim.get(b.regs[RegSimobuck1]); got != 8 {
		t.Fatalf("MEMLPTRIM=%d want 8", got)
	}
}

func TestSRAMBanksClamped(t *testing.T) {
	if sramBanks(12) != sramBanks(10) || sramBanks(0) != memEnDTCMAll {
		t.Fatalf("sramBanks(12)=%#x sramBanks(0)=%#x", sramBanks(12), sramBanks(0))
	}
}
