package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nibble8/chippy/internal/chip8"
	"github.com/nibble8/chippy/internal/debugview"
	"github.com/nibble8/chippy/internal/romload"
)

// debugCmd runs the termbox-based text front-end: a frame buffer dump and
// register view, stepped one tick at a time instead of on a real-time
// clock.
var debugCmd = &cobra.Command{
	Use:   "debug `path/to/rom`",
	Short: "step through a ROM in the termbox debug front-end",
	Args:  cobra.ExactArgs(1),
	Run:   runDebug,
}

func init() {
	registerQuirkFlags(debugCmd)
}

func runDebug(cmd *cobra.Command, args []string) {
	rom, err := romload.Read(args[0])
	if err != nil {
		fmt.Printf("\nerror loading rom: %v\n", err)
		os.Exit(1)
	}

	state := chip8.NewCpuState()
	if err := state.LoadROM(rom); err != nil {
		fmt.Printf("\nerror loading rom: %v\n", err)
		os.Exit(1)
	}

	core := chip8.NewCpuCore(quirksFromFlags(), nil, nil, nil)

	if err := debugview.Run(core, state); err != nil {
		fmt.Printf("\nchippy halted: %v\n", err)
		os.Exit(1)
	}
}
