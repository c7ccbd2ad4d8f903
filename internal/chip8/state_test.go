package chip8

import "testing"

func TestNewCpuState(t *testing.T) {
	s := NewCpuState()

	if s.PC != programStart {
		t.Errorf("PC = %#04x; want %#04x", s.PC, programStart)
	}
	if !s.Running() {
		t.Error("Running() = false; want true")
	}
	if !s.DrawFlag() {
		t.Error("DrawFlag() = false; want true on a fresh state")
	}
	for i, b := range fontSet {
		if s.Memory[FontBase+i] != b {
			t.Fatalf("font byte %d = %#02x; want %#02x", i, s.Memory[FontBase+i], b)
		}
	}
}

func TestLoadROM(t *testing.T) {
	s := NewCpuState()
	rom := []byte{0x12, 0x34, 0x56, 0x78}

	if err := s.LoadROM(rom); err != nil {
		t.Fatalf("LoadROM returned %v", err)
	}
	for i, b := range rom {
		if s.Memory[programStart+i] != b {
			t.Errorf("Memory[%#04x] = %#02x; want %#02x", programStart+i, s.Memory[programStart+i], b)
		}
	}
}

func TestLoadROMTooLarge(t *testing.T) {
	s := NewCpuState()
	rom := make([]byte, maxROMSize+1)

	err := s.LoadROM(rom)
	if err == nil {
		t.Fatal("LoadROM with an oversized rom returned nil error")
	}
	if _, ok := err.(*RomTooLargeError); !ok {
		t.Fatalf("LoadROM error = %v (%T); want *RomTooLargeError", err, err)
	}
}

func TestReset(t *testing.T) {
	s := NewCpuState()
	s.V[3] = 0x42
	s.PC = 0x300
	s.Stop()

	rom := []byte{0xAB, 0xCD}
	if err := s.Reset(rom); err != nil {
		t.Fatalf("Reset returned %v", err)
	}

	if s.V[3] != 0 {
		t.Errorf("V[3] = %#02x after Reset; want 0", s.V[3])
	}
	if s.PC != programStart {
		t.Errorf("PC = %#04x after Reset; want %#04x", s.PC, programStart)
	}
	if !s.Running() {
		t.Error("Running() = false after Reset; want true")
	}
	if s.Memory[programStart] != 0xAB || s.Memory[programStart+1] != 0xCD {
		t.Error("Reset did not reload the rom")
	}
}

func TestSetKey(t *testing.T) {
	s := NewCpuState()

	s.SetKey(5, true)
	if !s.Keypad[5] {
		t.Error("SetKey(5, true) did not set Keypad[5]")
	}

	s.SetKey(5, false)
	if s.Keypad[5] {
		t.Error("SetKey(5, false) did not clear Keypad[5]")
	}

	// out-of-range indices are ignored, not a panic
	s.SetKey(200, true)
}

func TestDrawFlagLifecycle(t *testing.T) {
	s := NewCpuState()
	if !s.DrawFlag() {
		t.Fatal("fresh state should start with draw flag set")
	}
	s.ClearDrawFlag()
	if s.DrawFlag() {
		t.Error("DrawFlag() still true after ClearDrawFlag")
	}
}

func TestStopAndPanicked(t *testing.T) {
	s := NewCpuState()
	s.Stop()
	if s.Running() {
		t.Error("Running() = true after Stop")
	}
	if s.Panicked() {
		t.Error("Panicked() = true after a clean Stop")
	}

	s2 := NewCpuState()
	err := s2.fail(newStackUnderflow(0x00EE, s2.PC))
	if err == nil {
		t.Fatal("fail returned nil error")
	}
	if s2.Running() {
		t.Error("Running() = true after fail")
	}
	if !s2.Panicked() {
		t.Error("Panicked() = false after fail")
	}
}
