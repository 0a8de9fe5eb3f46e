package profile

// Embedded profiles. Key: board name. Val: raw JSON.

const profArtemis = `{
  "low_power": true,
  "memory": "sram_384k",
  "flash": "flash_1m",
  "cache": true,
  "peripherals": ["iom0", "uart0"],
  "sleep_powerdown": ["all"],
  "sleep_retain": ["sram_64k_dtcm"]
}`

const profSim = `{
  "low_power": true,
  "memory": "sram_768k",
  "flash": "flash_2m",
  "cache": true,
  "peripherals": ["iom0", "iom1", "adc", "mspi0"]
}`

var embedded = map[string][]byte{
	"artemis": []byte(profArtemis),
	"sim":     []byte(profSim),
}
