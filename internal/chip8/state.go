// Package chip8 implements the CHIP-8 virtual machine core: a pure state
// record, a total opcode decoder, and a stateless interpreter that applies
// decoded instructions to that state.
//
//		System memory map
// 		+---------------+= 0xFFF (4095) End Chip-8 RAM
// 		|               |
// 		| 0x200 to 0xFFF|
// 		|     Chip-8    |
// 		| Program / Data|
// 		|     Space     |
// 		+- - - - - - - -+= 0x600 (1536) Start ETI 660 Chip-8 programs
// 		+---------------+= 0x200 (512) Start of most Chip-8 programs
// 		| 0x000 to 0x1FF|
// 		| Reserved for  |
// 		|  interpreter  |
// 		+---------------+= 0x000 (0) Begin Chip-8 RAM. Font data lives here.
package chip8

const (
	memorySize   = 4096
	numRegisters = 16
	stackSize    = 16
	programStart = 0x200
	maxROMSize   = 0xFFF - 0x200 + 1 // 0xE00

	// NumKeys is the size of the hexadecimal keypad.
	NumKeys = 16
	// DisplayWidth is the frame buffer width in pixels.
	DisplayWidth = 64
	// DisplayHeight is the frame buffer height in pixels.
	DisplayHeight = 32
	// FrameSize is the total cell count of the frame buffer (DisplayWidth * DisplayHeight).
	FrameSize = DisplayWidth * DisplayHeight
)

// Frame is an immutable snapshot of the frame buffer, suitable for passing
// across a channel to a renderer.
type Frame [FrameSize]bool

// WaitForKey records that Fx0A is suspended awaiting a key edge: Register is
// the destination Vx, and Snapshot starts as the keypad state observed the
// instant the wait began. Under the default release-edge rule, every key seen
// down while the wait is pending is also marked in Snapshot, so a key pressed
// and then released after the wait began resolves it.
type WaitForKey struct {
	Register uint8
	Snapshot [NumKeys]bool
}

// CpuState is the pure data record the interpreter operates on: memory,
// registers, stack, timers, keypad, frame buffer, and control flags. It has
// no behavior beyond construction and reset; every state transition is
// applied by CpuCore.
type CpuState struct {
	Memory [memorySize]byte
	V      [numRegisters]uint8
	I      uint16
	PC     uint16
	Stack  [stackSize]uint16
	SP     uint8

	DelayTimer uint8
	SoundTimer uint8

	Keypad [NumKeys]bool

	frame    Frame
	drawFlag bool

	running  bool
	panicked bool

	WaitForKey *WaitForKey
}

// NewCpuState zeroes RAM, registers, stack, timers, and frame buffer, loads
// the font, sets PC = 0x200, Running = true, and sets the draw flag so the
// initial cleared frame is published once.
func NewCpuState() *CpuState {
	s := &CpuState{
		PC:      programStart,
		running: true,
	}
	copy(s.Memory[FontBase:], fontSet[:])
	s.drawFlag = true
	return s
}

// LoadROM copies rom into memory starting at 0x200. It fails, leaving the
// state unmutated, if rom would not fit in 0x200 through 0xFFF.
func (s *CpuState) LoadROM(rom []byte) error {
	if len(rom) > maxROMSize {
		return &RomTooLargeError{Size: len(rom)}
	}
	copy(s.Memory[programStart:], rom)
	return nil
}

// Reset reinitializes the state as NewCpuState would and reloads rom.
func (s *CpuState) Reset(rom []byte) error {
	*s = *NewCpuState()
	return s.LoadROM(rom)
}

// SetKey records a keypad transition. It is the only mutation the input
// source is permitted to make on CpuState.
func (s *CpuState) SetKey(index uint8, pressed bool) {
	if int(index) >= NumKeys {
		return
	}
	s.Keypad[index] = pressed
}

// DrawFlag reports whether the frame buffer changed since the last
// ClearDrawFlag call.
func (s *CpuState) DrawFlag() bool {
	return s.drawFlag
}

// ClearDrawFlag is called by the driver after it has published a frame.
func (s *CpuState) ClearDrawFlag() {
	s.drawFlag = false
}

// FrameSnapshot returns an immutable copy of the frame buffer suitable for
// handing to a renderer across a channel.
func (s *CpuState) FrameSnapshot() Frame {
	return s.frame
}

// Running reports whether the driver should keep issuing ticks.
func (s *CpuState) Running() bool {
	return s.running
}

// Stop halts the VM without marking it as having hit a fatal error; used for
// a clean shutdown request (window closed, quit key, etc).
func (s *CpuState) Stop() {
	s.running = false
}

// Panicked reports whether the VM halted because of a fatal error (as
// opposed to a clean Stop).
func (s *CpuState) Panicked() bool {
	return s.panicked
}

func (s *CpuState) fail(err error) error {
	s.running = false
	s.panicked = true
	return err
}
