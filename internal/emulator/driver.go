// Package emulator is the thin driver loop that ties the chip8 core to a
// clock and to the bounded channels the surrounding renderer, input source,
// and audio backend communicate over. It holds no CHIP-8 semantics of its
// own; every opcode contract lives in internal/chip8.
package emulator

import (
	"github.com/nibble8/chippy/internal/chip8"
	"github.com/nibble8/chippy/internal/clock"
)

// KeyEvent is one keypad transition emitted by an input source.
type KeyEvent struct {
	Index   uint8
	Pressed bool
}

// FrameChanDepth and KeyChanDepth bound the driver's channels. A renderer
// that cannot keep up drops frames rather than stalling the interpreter; an
// input source that floods events still cannot exceed this depth before the
// driver's next drain.
const (
	FrameChanDepth = 2
	KeyChanDepth   = 32
	SoundChanDepth = 2
)

// Driver wires a CpuCore and CpuState to a Clock and publishes frames on a
// bounded channel while draining key events from another. Sound holds the
// channel the CpuCore was built with; the Driver itself sends nothing on it.
type Driver struct {
	Core  *chip8.CpuCore
	State *chip8.CpuState
	Clock *clock.Clock

	Frames chan chip8.Frame
	Keys   chan KeyEvent
	Sound  chan bool
}

// New builds a Driver with freshly allocated channels at the package's
// default depths.
func New(core *chip8.CpuCore, state *chip8.CpuState, clk *clock.Clock, sound chan bool) *Driver {
	return &Driver{
		Core:   core,
		State:  state,
		Clock:  clk,
		Frames: make(chan chip8.Frame, FrameChanDepth),
		Keys:   make(chan KeyEvent, KeyChanDepth),
		Sound:  sound,
	}
}

// Run drives the machine until State.Running() is false. Each iteration:
// starts the clock, drains pending key events, ticks the interpreter,
// publishes a frame if the draw flag is set, then stops and waits for the
// clock to pace the loop to the clock's interval.
func (d *Driver) Run() error {
	for d.State.Running() {
		d.Clock.Start()

		d.drainKeys()

		if err := d.Core.Tick(d.State); err != nil {
			return err
		}

		if d.State.DrawFlag() {
			d.publishFrame()
			d.State.ClearDrawFlag()
		}

		d.Clock.StopAndWait()
	}
	return nil
}

func (d *Driver) drainKeys() {
	for {
		select {
		case ev := <-d.Keys:
			d.State.SetKey(ev.Index, ev.Pressed)
		default:
			return
		}
	}
}

func (d *Driver) publishFrame() {
	frame := d.State.FrameSnapshot()
	select {
	case d.Frames <- frame:
	default:
		// Renderer hasn't drained the previous frame; drop this one. Frames
		// are idempotent snapshots, so the renderer will catch up on the
		// next publish.
	}
}
