package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nibble8/chippy/internal/audio"
	"github.com/nibble8/chippy/internal/chip8"
	"github.com/nibble8/chippy/internal/clock"
	"github.com/nibble8/chippy/internal/display"
	"github.com/nibble8/chippy/internal/emulator"
	"github.com/nibble8/chippy/internal/romload"
)

var (
	refreshRate         int
	assetsPath          string
	quirkShiftVy        bool
	quirkIncrementI     bool
	quirkWaitKeyPressUp bool
	quirkDrawWrap       bool
)

func clockInterval(hz int) time.Duration {
	if hz <= 0 {
		return clock.Interval
	}
	return time.Second / time.Duration(hz)
}

// runCmd runs the chippy virtual machine and blocks until the window is
// closed. A fatal interpreter error is printed and stops the interpreter,
// but the window stays open until the user closes it.
var runCmd = &cobra.Command{
	Use:   "run `path/to/rom`",
	Short: "run the chippy emulator",
	Args:  cobra.ExactArgs(1),
	Run:   runChippy,
}

func init() {
	registerQuirkFlags(runCmd)
}

func registerQuirkFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&refreshRate, "refresh-rate", 60, "interpreter clock rate in Hz")
	cmd.Flags().StringVar(&assetsPath, "assets", "assets/beep.mp3", "path to the beep sound asset")
	cmd.Flags().BoolVar(&quirkShiftVy, "quirk-shift-vy", false, "SHR/SHL read Vy instead of Vx (COSMAC VIP)")
	cmd.Flags().BoolVar(&quirkIncrementI, "quirk-increment-i", false, "Fx55/Fx65 advance I by x+1 (COSMAC VIP)")
	cmd.Flags().BoolVar(&quirkWaitKeyPressUp, "quirk-wait-key-press-edge", false, "Fx0A resolves on key-down instead of key-up")
	cmd.Flags().BoolVar(&quirkDrawWrap, "quirk-draw-wrap", false, "Dxyn wraps instead of clipping at the screen edges")
}

func quirksFromFlags() chip8.Quirks {
	return chip8.Quirks{
		ShiftUsesVy:       quirkShiftVy,
		MemoryIncrementsI: quirkIncrementI,
		WaitKeyPressEdge:  quirkWaitKeyPressUp,
		DrawWrap:          quirkDrawWrap,
	}
}

func runChippy(cmd *cobra.Command, args []string) {
	pathToROM := args[0]

	rom, err := romload.Read(pathToROM)
	if err != nil {
		fmt.Printf("\nerror loading rom: %v\n", err)
		os.Exit(1)
	}

	state := chip8.NewCpuState()
	if err := state.LoadROM(rom); err != nil {
		fmt.Printf("\nerror loading rom: %v\n", err)
		os.Exit(1)
	}

	soundCh := make(chan bool, emulator.SoundChanDepth)
	core := chip8.NewCpuCore(quirksFromFlags(), nil, nil, soundCh)
	clk := clock.New(clockInterval(refreshRate))
	driver := emulator.New(core, state, clk, soundCh)

	win, err := display.NewWindow("chippy")
	if err != nil {
		fmt.Printf("\nerror creating window: %v\n", err)
		os.Exit(1)
	}

	if backend, err := audio.NewBackend(assetsPath); err == nil {
		defer backend.Close()
		go backend.Run(soundCh)
	}

	go func() {
		if err := driver.Run(); err != nil {
			fmt.Printf("\nchippy halted: %v\n", err)
		}
	}()

	win.Run(driver.Frames, driver.Keys)
	state.Stop()
}
