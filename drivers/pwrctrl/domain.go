package pwrctrl

import (
	"pwrctrl-go/errcode"
	"pwrctrl-go/types"
)

// Peripheral identifies a peripheral power domain.
type Peripheral uint8

const (
	PeriphNone Peripheral = iota
	PeriphIOS
	PeriphIOM0
	PeriphIOM1
	PeriphIOM2
	PeriphIOM3
	PeriphIOM4
	PeriphIOM5
	PeriphUART0
	PeriphUART1
	PeriphADC
	PeriphSCARD
	PeriphMSPI0
	PeriphMSPI1
	PeriphMSPI2
	PeriphPDM
	PeriphBLEL
	periphMax
)

// PeriphDesc holds the register masks that drive one peripheral domain.
type PeriphDesc struct {
	Enable uint32 // DEVPWREN
	Status uint32 // DEVPWRSTATUS, shared by rail siblings
	Event  uint32 // DEVPWREVENTEN
}

var (
	stHCPA = uint32(types.StatusHCPA)
	stHCPB = uint32(types.StatusHCPB)
	stHCPC = uint32(types.StatusHCPC)
	stMSPI = uint32(types.StatusPwrMSPI)
)

var periphTable = [periphMax]PeriphDesc{
	PeriphNone:  {0, 0, 0},
	PeriphIOS:   {DevPwrIOS, stHCPA, evtHCPA},
	PeriphIOM0:  {DevPwrIOM0, stHCPB, evtHCPB},
	PeriphIOM1:  {DevPwrIOM1, stHCPB, evtHCPB},
	PeriphIOM2:  {DevPwrIOM2, stHCPB, evtHCPB},
	PeriphIOM3:  {DevPwrIOM3, stHCPC, evtHCPC},
	PeriphIOM4:  {DevPwrIOM4, stHCPC, evtHCPC},
	PeriphIOM5:  {DevPwrIOM5, stHCPC, evtHCPC},
	PeriphUART0: {DevPwrUART0, stHCPA, evtHCPA},
	PeriphUART1: {DevPwrUART1, stHCPA, evtHCPA},
	PeriphADC:   {DevPwrADC, uint32(types.StatusPwrADC), evtADC},
	PeriphSCARD: {DevPwrSCARD, stHCPA, evtHCPA},
	PeriphMSPI0: {DevPwrMSPI0, stMSPI, evtMSPI},
	PeriphMSPI1: {DevPwrMSPI1, stMSPI, evtMSPI},
	PeriphMSPI2: {DevPwrMSPI2, stMSPI, evtMSPI},
	PeriphPDM:   {DevPwrPDM, uint32(types.StatusPwrPDM), evtPDM},
	PeriphBLEL:  {DevPwrBLEL, uint32(types.StatusBLEL), evtBLEL},
}

var periphNames = [periphMax]string{
	"none", "ios", "iom0", "iom1", "iom2", "iom3", "iom4", "iom5",
	"uart0", "uart1", "adc", "scard", "mspi0", "mspi1", "mspi2", "pdm", "blel",
}

func (p Peripheral) String() string {
	if p >= periphMax {
		return "periph?"
	}
	return periphNames[p]
}

// Valid reports whether p indexes the descriptor table.
func (p Peripheral) Valid() bool { return p < periphMax }

// Peripherals returns every real peripheral identifier (PeriphNone excluded).
func Peripherals() []Peripheral {
	out := make([]Peripheral, 0, periphMax-1)
	for p := PeriphIOS; p < periphMax; p++ {
		out = append(out, p)
	}
	return out
}

// ParsePeripheral maps a lower-case name such as "iom0" to its identifier.
func ParsePeripheral(name string) (Peripheral, error) {
	for i, n := range periphNames {
		if n == name {
			return Peripheral(i), nil
		}
	}
	return PeriphNone, errcode.InvalidIdentifier
}

// LookupPeripheral returns the descriptor for p.
func LookupPeripheral(p Peripheral) (PeriphDesc, error) {
	if p >= periphMax {
		return PeriphDesc{}, errcode.InvalidIdentifier
	}
	return periphTable[p], nil
}

// ---------------- Shared rails ----------------

// RailGroup is a set of peripherals whose power is reported through one
// aggregate DEVPWRSTATUS bit.
type RailGroup struct {
	Name    string
	Status  uint32 // aggregate DEVPWRSTATUS bit
	Members uint32 // DEVPWREN bits of every member
}

var rails = [...]RailGroup{
	{"hcpa", stHCPA, DevPwrIOS | DevPwrUART0 | DevPwrUART1 | DevPwrSCARD},
	{"hcpb", stHCPB, DevPwrIOM0 | DevPwrIOM1 | DevPwrIOM2},
	{"hcpc", stHCPC, DevPwrIOM3 | DevPwrIOM4 | DevPwrIOM5},
	{"mspi", stMSPI, DevPwrMSPI0 | DevPwrMSPI1 | DevPwrMSPI2},
}

// Rails returns the shared-rail groups.
func Rails() []RailGroup { return rails[:] }

// RailOf returns the shared rail p sits on. Peripherals with a private
// status bit (ADC, PDM, BLEL) report false.
func RailOf(p Peripheral) (RailGroup, bool) {
	if p >= periphMax {
		return RailGroup{}, false
	}
	return railForStatus(periphTable[p].Status)
}

func railForStatus(status uint32) (RailGroup, bool) {
	for _, r := range rails {
		if r.Status == status {
			return r, true
		}
	}
	return RailGroup{}, false
}

// ---------------- Memory ----------------

// Memory identifies a memory power configuration.
type Memory uint8

const (
	MemNone Memory = iota
	MemSRAM8KDTCM
	MemSRAM32KDTCM
	MemSRAM64KDTCM
	MemSRAM128K
	MemSRAM192K
	MemSRAM256K
	MemSRAM320K
	MemSRAM384K
	MemSRAM448K
	MemSRAM512K
	MemSRAM576K
	MemSRAM672K
	MemSRAM768K
	MemFlash1M
	MemFlash2M
	MemCache
	MemAll
	memMax
)

// MemDesc holds the register masks that drive one memory configuration.
type MemDesc struct {
	Enable         uint32 // MEMPWREN bits to set
	Status         uint32 // expected MEMPWRSTATUS pattern
	Event          uint32 // MEMPWREVENTEN
	Region         uint32 // MEMPWREN bits of this memory class
	StatusRegion   uint32 // MEMPWRSTATUS bits of this memory class
	SleepPowerdown uint32 // MEMPWDINSLEEP
}

// sramDesc builds the descriptor for a cumulative SRAM configuration.
// Status, event and sleep masks share the enable layout.
func sramDesc(en uint32) MemDesc {
	return MemDesc{en, en, en, memRegionSRAM, memRegionSRAM, en}
}

func flashDesc(en uint32) MemDesc {
	return MemDesc{en, en, en, memRegionFlash, memRegionFlash, en}
}

var memTable = [memMax]MemDesc{
	MemNone:        {},
	MemSRAM8KDTCM:  sramDesc(MemEnDTCM0),
	MemSRAM32KDTCM: sramDesc(MemEnDTCM0 | MemEnDTCM1),
	MemSRAM64KDTCM: sramDesc(memEnDTCMAll),
	MemSRAM128K:    sramDesc(sramBanks(1)),
	MemSRAM192K:    sramDesc(sramBanks(2)),
	MemSRAM256K:    sramDesc(sramBanks(3)),
	MemSRAM320K:    sramDesc(sramBanks(4)),
	MemSRAM384K:    sramDesc(sramBanks(5)),
	MemSRAM448K:    sramDesc(sramBanks(6)),
	MemSRAM512K:    sramDesc(sramBanks(7)),
	MemSRAM576K:    sramDesc(sramBanks(8)),
	MemSRAM672K:    sramDesc(sramBanks(9)),
	MemSRAM768K:    sramDesc(sramBanks(10)),
	MemFlash1M:     flashDesc(MemEnFlash0),
	MemFlash2M:     flashDesc(MemEnFlash0 | MemEnFlash1),
	MemCache: {
		Enable:         memRegionCache,
		Event:          memEvtCache0 | memEvtCache2,
		Region:         memRegionCache,
		SleepPowerdown: memPwdCache,
	},
	MemAll: {
		Enable:         memRegionAll,
		Status:         memStatusRegionAlt,
		Event:          memStatusRegionAlt | memEvtCache0 | memEvtCache2,
		Region:         memRegionAll,
		StatusRegion:   memStatusRegionAlt,
		SleepPowerdown: memStatusRegionAlt | memPwdCache,
	},
}

var memNames = [memMax]string{
	"none", "sram_8k_dtcm", "sram_32k_dtcm", "sram_64k_dtcm",
	"sram_128k", "sram_192k", "sram_256k", "sram_320k", "sram_384k",
	"sram_448k", "sram_512k", "sram_576k", "sram_672k", "sram_768k",
	"flash_1m", "flash_2m", "cache", "all",
}

func (m Memory) String() string {
	if m >= memMax {
		return "mem?"
	}
	return memNames[m]
}

// Valid reports whether m indexes the descriptor table.
func (m Memory) Valid() bool { return m < memMax }

// Memories returns every real memory identifier (MemNone excluded).
func Memories() []Memory {
	out := make([]Memory, 0, memMax-1)
	for m := MemSRAM8KDTCM; m < memMax; m++ {
		out = append(out, m)
	}
	return out
}

// ParseMemory maps a name such as "sram_128k" to its identifier.
func ParseMemory(name string) (Memory, error) {
	for i, n := range memNames {
		if n == name {
			return Memory(i), nil
		}
	}
	return MemNone, errcode.InvalidIdentifier
}

// LookupMemory returns the descriptor for m.
func LookupMemory(m Memory) (MemDesc, error) {
	if m >= memMax {
		return MemDesc{}, errcode.InvalidIdentifier
	}
	return memTable[m], nil
}
