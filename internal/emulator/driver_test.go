package emulator

import (
	"testing"
	"time"

	"github.com/nibble8/chippy/internal/chip8"
	"github.com/nibble8/chippy/internal/clock"
)

// a two-instruction loop (CLS; JP 0x200) that keeps running until Driver
// stops it; CLS sets the draw flag every time it runs, so every other tick
// publishes a frame.
var loopROM = []byte{0x00, 0xE0, 0x12, 0x00} // CLS; JP 0x200

func newTestDriver(t *testing.T) *Driver {
	t.Helper()
	state := chip8.NewCpuState()
	if err := state.LoadROM(loopROM); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	core := chip8.NewCpuCore(chip8.DefaultQuirks(), nil, nil, nil)
	clk := clock.New(time.Millisecond)
	return New(core, state, clk, nil)
}

func TestDriverPublishesFramesAndStops(t *testing.T) {
	d := newTestDriver(t)

	done := make(chan error, 1)
	go func() { done <- d.Run() }()

	select {
	case frame := <-d.Frames:
		_ = frame
	case <-time.After(time.Second):
		t.Fatal("Driver.Run never published a frame")
	}

	d.State.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after State.Stop()")
	}
}

func TestDriverDrainsKeyEvents(t *testing.T) {
	d := newTestDriver(t)

	d.Keys <- KeyEvent{Index: 4, Pressed: true}
	d.Keys <- KeyEvent{Index: 9, Pressed: true}

	d.drainKeys()

	if !d.State.Keypad[4] || !d.State.Keypad[9] {
		t.Fatal("drainKeys did not apply queued key events to state")
	}
}

func TestDriverStopsOnFatalError(t *testing.T) {
	state := chip8.NewCpuState()
	if err := state.LoadROM([]byte{0x00, 0xEE}); err != nil { // RET with an empty stack
		t.Fatalf("LoadROM: %v", err)
	}
	core := chip8.NewCpuCore(chip8.DefaultQuirks(), nil, nil, nil)
	clk := clock.New(time.Millisecond)
	d := New(core, state, clk, nil)

	err := d.Run()
	if err == nil {
		t.Fatal("Run returned nil error after a fatal stack underflow")
	}
}
