//go:build tinygo && apollo3

// Firmware entry for Apollo3 boards (SparkFun Artemis): applies the board
// power profile, then reports rail status as a heartbeat.
package main

import (
	"time"

	"pwrctrl-go/drivers/pwrctrl"
	"pwrctrl-go/errcode"
	"pwrctrl-go/profile"
	"pwrctrl-go/types"
)

const board = "artemis"

func main() {
	// Allow the UART console to come up before we print.
	time.Sleep(2 * time.Second)
	println("[pwr] boot")

	dev := pwrctrl.New(pwrctrl.MMIO{}, pwrctrl.Config{})

	if rev, err := dev.Revision(); err == nil {
		println("[pwr] chip rev", rev.String())
	}

	prof, err := profile.Load(board)
	if err != nil {
		println("[pwr] profile:", err.Error())
	} else if err := prof.Apply(dev); err != nil {
		println("[pwr] apply failed:", string(errcode.Of(err)), err.Error())
	}
	println("[pwr] rststat", dev.ResetStatus(), "trims", dev.TrimsApplied())

	tick := time.NewTicker(5 * time.Second)
	defer tick.Stop()

	for range tick.C {
		st, err := dev.Snapshot()
		if err != nil {
			println("[pwr] snapshot:", err.Error())
			continue
		}
		it := types.NewBitIter(types.DevPwrStatus(st.DevPwrStatus), types.DevPwrStatusTable[:])
		print("[pwr] rails:")
		for n, ok := it.Next(); ok; n, ok = it.Next() {
			print(" ", n)
		}
		println()
	}
}
