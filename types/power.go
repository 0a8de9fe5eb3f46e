package types

// ------------------------
// Power domains (Apollo3 PWRCTRL)
// ------------------------

// DomainState is a point-in-time view of one power domain.
type DomainState struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// PowerSnapshot is the raw register view plus decoded domains.
type PowerSnapshot struct {
	DevPwrEn      uint32        `json:"devpwren"`
	DevPwrStatus  uint32        `json:"devpwrstatus"`
	MemPwrEn      uint32        `json:"mempwren"`
	MemPwrStatus  uint32        `json:"mempwrstatus"`
	MemPwdInSleep uint32        `json:"mempwdinsleep"`
	Peripherals   []DomainState `json:"peripherals"`
}

// DEVPWRSTATUS
type DevPwrStatus uint32

const (
	StatusMCUL    DevPwrStatus = 1 << 0
	StatusMCUH    DevPwrStatus = 1 << 1
	StatusHCPA    DevPwrStatus = 1 << 2
	StatusHCPB    DevPwrStatus = 1 << 3
	StatusHCPC    DevPwrStatus = 1 << 4
	StatusPwrADC  DevPwrStatus = 1 << 5
	StatusPwrMSPI DevPwrStatus = 1 << 6
	StatusPwrPDM  DevPwrStatus = 1 << 7
	StatusBLEL    DevPwrStatus = 1 << 8
	StatusBLEH    DevPwrStatus = 1 << 9
)

// MEMPWRSTATUS. SRAM banks occupy bits 3..12.
type MemPwrStatus uint32

const (
	StatusDTCM00  MemPwrStatus = 1 << 0
	StatusDTCM01  MemPwrStatus = 1 << 1
	StatusDTCM1   MemPwrStatus = 1 << 2
	StatusSRAM0   MemPwrStatus = 1 << 3
	StatusFlash0  MemPwrStatus = 1 << 13
	StatusFlash1  MemPwrStatus = 1 << 14
	StatusCacheB0 MemPwrStatus = 1 << 15
	StatusCacheB2 MemPwrStatus = 1 << 16
)

// SRAMBank returns the status bit of SRAM bank n (0..9).
func SRAMBank(n uint8) MemPwrStatus { return StatusSRAM0 << n }

// MCUCTRL FEATUREENABLE
type FeatureEnable uint32

const (
	FeatureBLEReq   FeatureEnable = 1 << 0
	FeatureBLEAck   FeatureEnable = 1 << 1
	FeatureBLEAvail FeatureEnable = 1 << 2
)

// Generic pairing of a bit value with a printable name.
type BitName[T ~uint32] struct {
	Bit  T
	Name string
}

// BitIter is a zero-alloc iterator over set bits in a value, filtered by a table.
// Caller advances with Next(); no callbacks, no closures.
type BitIter[T ~uint32] struct {
	v     uint32
	i     int
	table []BitName[T]
}

// NewBitIter constructs an iterator over set bits present in v that also exist in table.
func NewBitIter[T ~uint32](v T, table []BitName[T]) BitIter[T] {
	return BitIter[T]{v: uint32(v), table: table}
}

// Next returns the next SET bit: (name, ok). ok=false when done.
func (it *BitIter[T]) Next() (string, bool) {
	for it.i < len(it.table) {
		e := it.table[it.i]
		it.i++
		if (it.v & uint32(e.Bit)) != 0 {
			return e.Name, true
		}
	}
	return "", false
}

// Reset allows reusing the iterator.
func (it *BitIter[T]) Reset() { it.i = 0 }

// Names collects the set bits of v into dst, which is returned.
func Names[T ~uint32](dst []string, v T, table []BitName[T]) []string {
	it := NewBitIter(v, table)
	for {
		n, ok := it.Next()
		if !ok {
			return dst
		}
		dst = append(dst, n)
	}
}

// -----------------------------
// Display tables for bitfields
// -----------------------------

var DevPwrStatusTable = [...]BitName[DevPwrStatus]{
	{StatusMCUL, "mcul"},
	{StatusMCUH, "mcuh"},
	{StatusHCPA, "hcpa"},
	{StatusHCPB, "hcpb"},
	{StatusHCPC, "hcpc"},
	{StatusPwrADC, "adc"},
	{StatusPwrMSPI, "mspi"},
	{StatusPwrPDM, "pdm"},
	{StatusBLEL, "blel"},
	{StatusBLEH, "bleh"},
}

var MemPwrStatusTable = [...]BitName[MemPwrStatus]{
	{StatusDTCM00, "dtcm00"},
	{StatusDTCM01, "dtcm01"},
	{StatusDTCM1, "dtcm1"},
	{SRAMBank(0), "sram0"},
	{SRAMBank(1), "sram1"},
	{SRAMBank(2), "sram2"},
	{SRAMBank(3), "sram3"},
	{SRAMBank(4), "sram4"},
	{SRAMBank(5), "sram5"},
	{SRAMBank(6), "sram6"},
	{SRAMBank(7), "sram7"},
	{SRAMBank(8), "sram8"},
	{SRAMBank(9), "sram9"},
	{StatusFlash0, "flash0"},
	{StatusFlash1, "flash1"},
	{StatusCacheB0, "cache_b0"},
	{StatusCacheB2, "cache_b2"},
}
