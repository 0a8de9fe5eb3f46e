package pwrctrl

import (
	"pwrctrl-go/errcode"
	"pwrctrl-go/types"
	"pwrctrl-go/x/mathx"
)

// ---------------- Chip revision ----------------

// Revision is the silicon revision from MCUCTRL CHIPREV.
// Major: A=1, B=2, C=3. Minor: rev0=1, rev1=2.
type Revision struct {
	Major uint8
	Minor uint8
}

var (
	RevA1 = Revision{Major: 1, Minor: 2}
	RevB0 = Revision{Major: 2, Minor: 1}
)

// AtLeast reports r >= o.
func (r Revision) AtLeast(o Revision) bool {
	if r.Major != o.Major {
		return r.Major > o.Major
	}
	return r.Minor >= o.Minor
}

func (r Revision) String() string {
	if r.Major == 0 || r.Minor == 0 || r.Major > 26 || r.Minor > 10 {
		return "rev?"
	}
	return string(rune('A'+r.Major-1)) + string(rune('0'+r.Minor-1))
}

// Revision reads the silicon revision.
func (d *Device) Revision() (Revision, error) {
	if err := d.ready(); err != nil {
		return Revision{}, err
	}
	v, err := d.bus.Read(RegChipRev)
	if err != nil {
		return Revision{}, err
	}
	return Revision{Major: uint8(fRevMaj.get(v)), Minor: uint8(fRevMin.get(v))}, nil
}

// ---------------- Low-power init ----------------

// bleFeatureReady is the FEATUREENABLE pattern of a granted BLE request.
const bleFeatureReady = uint32(types.FeatureBLEReq | types.FeatureBLEAck | types.FeatureBLEAvail)

// Trim constants for rev B0 and later.
const (
	memLPTrimOffset   = 12
	coreLPLowTonTrim  = 8
	coreLPHighTonTrim = 5
	memLPLowTonTrim   = 8
	memLPHighTonTrim  = 6
	coreLeakageTrim   = 3
	tonGenTrim        = 31
	comp2LPEnOn       = 1
	comp2TimeoutOff   = 0

	bleBuckTonHiTrim  = 0x19
	bleBuckTonLowTrim = 0x0C
	tonAdjustDisabled = 0
)

// ResetStatus returns the reset cause latched by the first LowPowerInit.
func (d *Device) ResetStatus() uint32 { return d.resetStat.Load() }

// LowPowerInit prepares the chip for low-power operation: latches the reset
// status, applies the SIMOBUCK trims, sets the cache low-power profile and,
// if the BLE domain is not already up, negotiates the BLE feature and enables
// the BLE buck.
func (d *Device) LowPowerInit() error {
	if err := d.ready(); err != nil {
		return err
	}

	if d.resetStat.Load() == 0 {
		st, err := d.bus.Read(RegRstStat)
		if err != nil {
			return err
		}
		d.resetStat.CompareAndSwap(0, st)
	}

	if err := d.EnsureTrimsApplied(); err != nil {
		return err
	}

	if d.cfg.Cache != nil {
		if err := d.cfg.Cache.LowPowerRecommended(); err != nil {
			return err
		}
	}

	st, err := d.bus.Read(RegDevPwrStatus)
	if err != nil {
		return err
	}
	if st&uint32(types.StatusBLEL) != 0 {
		return nil
	}

	if err := d.BLEBuckTrim(); err != nil {
		return err
	}
	if err := d.requestBLEFeature(); err != nil {
		return err
	}
	if err := d.modifyBitmaskRegister(RegSupplySrc, SupplyBLEBuckEn, 0); err != nil {
		return err
	}
	// Let the memory VR drop to low power while BLE sleeps.
	return d.modifyBitmaskRegister(RegMisc, MiscMemVRLPBLE, 0)
}

// requestBLEFeature raises BLEREQ and waits for ACK and AVAIL.
func (d *Device) requestBLEFeature() error {
	if err := d.modifyBitmaskRegister(RegFeatureEnable, uint32(types.FeatureBLEReq), 0); err != nil {
		return err
	}
	granted := d.statusIs(RegFeatureEnable, bleFeatureReady, bleFeatureReady)
	ok, err := granted()
	if err != nil {
		return err
	}
	if !ok {
		if err := d.waitFor(d.cfg.BLETimeout, d.cfg.BLEPollInterval, granted); err != nil {
			return err
		}
		if ok, err = granted(); err != nil {
			return err
		}
	}
	if !ok {
		return &errcode.E{C: errcode.Timeout, Op: "ble_feature_request", Msg: "no ack"}
	}
	return nil
}

// EnsureTrimsApplied programs the SIMOBUCK low-power trims once per Device
// (rev B0 and later). The comparator timeout is disabled on every call for
// rev A1 and later.
func (d *Device) EnsureTrimsApplied() error {
	rev, err := d.Revision()
	if err != nil {
		return err
	}

	if rev.AtLeast(RevB0) && d.trimsDone.CompareAndSwap(false, true) {
		if err := d.applySimobuckTrims(); err != nil {
			d.trimsDone.Store(false)
			return err
		}
	}

	if rev.AtLeast(RevA1) {
		return d.setField(fSimobuckComp2TimeoutEn, comp2TimeoutOff)
	}
	return nil
}

// TrimsApplied reports whether the one-time trims have been written.
func (d *Device) TrimsApplied() bool { return d.trimsDone.Load() }

func (d *Device) applySimobuckTrims() error {
	if err := d.applyMemLPTrimOffset(); err != nil {
		return err
	}
	writes := [...]struct {
		f field
		v uint32
	}{
		{fSimobuckCoreLPLowTonTrim, coreLPLowTonTrim},
		{fSimobuckCoreLPHighTonTrim, coreLPHighTonTrim},
		{fSimobuckMemLPLowTonTrim, memLPLowTonTrim},
		{fSimobuckMemLPHighTonTrim, memLPHighTonTrim},
		{fSimobuckComp2LPEn, comp2LPEnOn},
		{fSimobuckComp2TimeoutEn, comp2TimeoutOff},
		{fSimobuckCoreLeakageTrim, coreLeakageTrim},
		{fSimobuckTonGenTrim, tonGenTrim},
	}
	for _, w := range writes {
		if err := d.setField(w.f, w.v); err != nil {
			return err
		}
	}
	return nil
}

// applyMemLPTrimOffset lowers MEMLPTRIM by memLPTrimOffset. The offset is
// relative to the factory value, so it lands at most once per Device even
// when a later trim write fails and the sequence is retried.
func (d *Device) applyMemLPTrimOffset() error {
	if !d.lpTrimDone.CompareAndSwap(false, true) {
		return nil
	}
	lp, err := d.readField(fSimobuckMemLPTrim)
	if err == nil {
		err = d.setField(fSimobuckMemLPTrim, mathx.SatSub(lp, memLPTrimOffset))
	}
	if err != nil {
		d.lpTrimDone.Store(false)
	}
	return err
}

// BLEBuckTrim writes the BLE buck on-time trims (rev A1 and later) as one
// critical section.
func (d *Device) BLEBuckTrim() error {
	rev, err := d.Revision()
	if err != nil {
		return err
	}
	if !rev.AtLeast(RevA1) {
		return nil
	}

	cs := enterCritical()
	defer cs.exit()
	if err := d.rmw(RegBLEBuck2,
		fBLEBuckTonHiTrim.bits(bleBuckTonHiTrim)|fBLEBuckTonLowTrim.bits(bleBuckTonLowTrim),
		fBLEBuckTonHiTrim.mask()|fBLEBuckTonLowTrim.mask()); err != nil {
		return err
	}
	return d.rmw(fTonAdjustEn.reg, fTonAdjustEn.bits(tonAdjustDisabled), fTonAdjustEn.mask())
}
