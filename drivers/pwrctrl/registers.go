// Register addresses and bitfields of the Apollo3 Blue Plus PWRCTRL, MCUCTRL,
// CLKGEN and RSTGEN blocks used by the power controller.
package pwrctrl

import "pwrctrl-go/x/mathx"

// Reg names a 32-bit register by its absolute address.
type Reg uint32

const (
	rstgenBase  = 0x4000_0000
	clkgenBase  = 0x4000_4000
	mcuctrlBase = 0x4002_0000
	pwrctrlBase = 0x4002_1000
)

const (
	// PWRCTRL
	RegSupplySrc     Reg = pwrctrlBase + 0x00
	RegDevPwrEn      Reg = pwrctrlBase + 0x08
	RegMemPwdInSleep Reg = pwrctrlBase + 0x0C
	RegMemPwrEn      Reg = pwrctrlBase + 0x10
	RegMemPwrStatus  Reg = pwrctrlBase + 0x14
	RegDevPwrStatus  Reg = pwrctrlBase + 0x18
	RegMisc          Reg = pwrctrlBase + 0x24
	RegDevPwrEventEn Reg = pwrctrlBase + 0x28
	RegMemPwrEventEn Reg = pwrctrlBase + 0x2C

	// MCUCTRL
	RegChipRev       Reg = mcuctrlBase + 0x0C
	RegSimobuck1     Reg = mcuctrlBase + 0x18
	RegSimobuck2     Reg = mcuctrlBase + 0x1C
	RegSimobuck3     Reg = mcuctrlBase + 0x20
	RegSimobuck4     Reg = mcuctrlBase + 0x24
	RegBLEBuck2      Reg = mcuctrlBase + 0x30
	RegFeatureEnable Reg = mcuctrlBase + 0x100

	// CLKGEN
	RegBLEBuckTonAdj Reg = clkgenBase + 0x3C

	// RSTGEN
	RegRstStat Reg = rstgenBase + 0x0C
)

func (r Reg) String() string {
	switch r {
	case RegSupplySrc:
		return "SUPPLYSRC"
	case RegDevPwrEn:
		return "DEVPWREN"
	case RegMemPwdInSleep:
		return "MEMPWDINSLEEP"
	case RegMemPwrEn:
		return "MEMPWREN"
	case RegMemPwrStatus:
		return "MEMPWRSTATUS"
	case RegDevPwrStatus:
		return "DEVPWRSTATUS"
	case RegMisc:
		return "MISC"
	case RegDevPwrEventEn:
		return "DEVPWREVENTEN"
	case RegMemPwrEventEn:
		return "MEMPWREVENTEN"
	case RegChipRev:
		return "CHIPREV"
	case RegSimobuck1:
		return "SIMOBUCK1"
	case RegSimobuck2:
		return "SIMOBUCK2"
	case RegSimobuck3:
		return "SIMOBUCK3"
	case RegSimobuck4:
		return "SIMOBUCK4"
	case RegBLEBuck2:
		return "BLEBUCK2"
	case RegFeatureEnable:
		return "FEATUREENABLE"
	case RegBLEBuckTonAdj:
		return "BLEBUCKTONADJ"
	case RegRstStat:
		return "RSTSTAT"
	}
	return "REG?"
}

// DEVPWREN
const (
	DevPwrIOS   = 1 << 0
	DevPwrIOM0  = 1 << 1
	DevPwrIOM1  = 1 << 2
	DevPwrIOM2  = 1 << 3
	DevPwrIOM3  = 1 << 4
	DevPwrIOM4  = 1 << 5
	DevPwrIOM5  = 1 << 6
	DevPwrUART0 = 1 << 7
	DevPwrUART1 = 1 << 8
	DevPwrADC   = 1 << 9
	DevPwrSCARD = 1 << 10
	DevPwrMSPI0 = 1 << 11
	DevPwrPDM   = 1 << 12
	DevPwrBLEL  = 1 << 13
	DevPwrMSPI1 = 1 << 14
	DevPwrMSPI2 = 1 << 15
)

// DEVPWREVENTEN
const (
	evtHCPA = 1 << 2
	evtHCPB = 1 << 3
	evtHCPC = 1 << 4
	evtADC  = 1 << 5
	evtMSPI = 1 << 6
	evtPDM  = 1 << 7
	evtBLEL = 1 << 8
)

// MEMPWREN: DTCM [2:0], SRAM banks [12:3], FLASH0 13, FLASH1 14, cache 20/21.
const (
	MemEnDTCM0  = 1 << 0 // group 0, 8K
	MemEnDTCM1  = 1 << 1 // group 0, 24K
	MemEnDTCMG1 = 1 << 2 // group 1, 32K
	MemEnFlash0 = 1 << 13
	MemEnFlash1 = 1 << 14
	MemEnCache0 = 1 << 20
	MemEnCache2 = 1 << 21

	memEnDTCMAll = MemEnDTCM0 | MemEnDTCM1 | MemEnDTCMG1

	memRegionSRAM  = 0x0000_1FFF
	memRegionFlash = MemEnFlash0 | MemEnFlash1
	memRegionCache = MemEnCache0 | MemEnCache2
	memRegionAll   = memRegionSRAM | memRegionFlash | memRegionCache

	// Bootstrap banks: the generic disable step never clears these.
	memProtected = MemEnDTCM0 | MemEnFlash0
)

// MEMPWRSTATUS shares the MEMPWREN layout for DTCM, SRAM and flash.
const (
	memStatusRegionAlt = memRegionSRAM | memRegionFlash
)

// MEMPWREVENTEN: cache events sit at the top of the register.
const (
	memEvtCache2 = 1 << 30
	memEvtCache0 = 1 << 31
)

// MEMPWDINSLEEP: cache power-down is bit 31.
const (
	memPwdCache = 1 << 31
)

// SUPPLYSRC / MISC
const (
	SupplyBLEBuckEn = 1 << 0
	MiscMemVRLPBLE  = 1 << 6
)

const sramBankCount = 10

// sramBanks returns the MEMPWREN bits for DTCM plus the first n SRAM banks.
func sramBanks(n uint8) uint32 {
	n = mathx.Clamp(n, 0, sramBankCount)
	return memEnDTCMAll | mathx.LowMask[uint32](n)<<3
}

// field is a bitfield within a register.
type field struct {
	reg   Reg
	shift uint8
	width uint8
}

func (f field) mask() uint32 { return mathx.LowMask[uint32](f.width) << f.shift }

func (f field) bits(v uint32) uint32 { return mathx.Insert(0, f.shift, f.width, v) }

func (f field) get(v uint32) uint32 { return mathx.Extract(v, f.shift, f.width) }

var (
	fRevMin = field{RegChipRev, 0, 4}
	fRevMaj = field{RegChipRev, 4, 4}

	fSimobuckMemLPTrim         = field{RegSimobuck1, 24, 6}
	fSimobuckCoreLPLowTonTrim  = field{RegSimobuck2, 0, 4}
	fSimobuckCoreLPHighTonTrim = field{RegSimobuck2, 4, 4}
	fSimobuckCoreLeakageTrim   = field{RegSimobuck2, 20, 2}
	fSimobuckTonGenTrim        = field{RegSimobuck2, 22, 5}
	fSimobuckMemLPHighTonTrim  = field{RegSimobuck3, 27, 4}
	fSimobuckMemLPLowTonTrim   = field{RegSimobuck4, 0, 4}
	fSimobuckComp2TimeoutEn    = field{RegSimobuck4, 24, 1}
	fSimobuckComp2LPEn         = field{RegSimobuck4, 25, 1}

	fBLEBuckTonLowTrim = field{RegBLEBuck2, 0, 6}
	fBLEBuckTonHiTrim  = field{RegBLEBuck2, 6, 6}
	fTonAdjustEn       = field{RegBLEBuckTonAdj, 22, 1}
)
