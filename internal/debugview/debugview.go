// Package debugview is the debug front-end collaborator: a termbox-go
// text-mode dump of the frame buffer and registers, driven directly off a
// CpuCore/CpuState pair instead of the channel-based display package. It is
// never required for normal `chippy run`; it exists for inspecting a ROM's
// behavior tick by tick. Grounded in the termbox-go usage this corpus's
// ejholmes-chip8 teammate repository shows for its own keyboard/display
// collaborators.
package debugview

import (
	"fmt"

	"github.com/nsf/termbox-go"

	"github.com/nibble8/chippy/internal/chip8"
	"github.com/nibble8/chippy/internal/clock"
)

// Run initializes termbox, then steps core/state one tick per keypress:
// space advances a tick, q quits. The frame buffer and register file are
// redrawn after every tick.
func Run(core *chip8.CpuCore, state *chip8.CpuState) error {
	if err := termbox.Init(); err != nil {
		return fmt.Errorf("initializing termbox: %w", err)
	}
	defer termbox.Close()

	clk := clock.New(0)
	render(state)

	for state.Running() {
		ev := termbox.PollEvent()
		if ev.Type != termbox.EventKey {
			continue
		}
		switch {
		case ev.Ch == 'q', ev.Key == termbox.KeyEsc:
			state.Stop()
			return nil
		case ev.Ch == ' ':
			clk.Start()
			if err := core.Tick(state); err != nil {
				render(state)
				return err
			}
			render(state)
			clk.StopAndWait()
		}
	}
	return nil
}

func render(s *chip8.CpuState) {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)

	frame := s.FrameSnapshot()
	for y := 0; y < chip8.DisplayHeight; y++ {
		for x := 0; x < chip8.DisplayWidth; x++ {
			ch := ' '
			if frame[y*chip8.DisplayWidth+x] {
				ch = '█'
			}
			termbox.SetCell(x, y, ch, termbox.ColorWhite, termbox.ColorDefault)
		}
	}

	printAt(0, chip8.DisplayHeight+1, fmt.Sprintf("pc=0x%04X i=0x%04X sp=%d dt=%d st=%d",
		s.PC, s.I, s.SP, s.DelayTimer, s.SoundTimer))
	for i := 0; i < 16; i += 4 {
		printAt(0, chip8.DisplayHeight+2+i/4, fmt.Sprintf(
			"v%X=%02X v%X=%02X v%X=%02X v%X=%02X",
			i, s.V[i], i+1, s.V[i+1], i+2, s.V[i+2], i+3, s.V[i+3],
		))
	}

	termbox.Flush()
}

func printAt(x, y int, msg string) {
	for i, r := range msg {
		termbox.SetCell(x+i, y, r, termbox.ColorDefault, termbox.ColorDefault)
	}
}
