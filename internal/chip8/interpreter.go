package chip8

import (
	"io"
	"log"
)

// CpuCore is the stateless executor: all mutation happens on the CpuState
// passed into Tick. A CpuCore has no per-run state of its own besides the
// capabilities (quirks, RNG, logger, sound sink) injected at construction,
// so one CpuCore can safely drive many CpuStates sequentially.
type CpuCore struct {
	quirks Quirks
	rng    RandomSource
	logger *log.Logger
	sound  chan<- bool
}

// NewCpuCore builds a CpuCore. A nil logger discards output (mirroring this
// package's silent-by-default logging convention); a nil sound channel
// disables sound notifications entirely.
func NewCpuCore(quirks Quirks, rng RandomSource, logger *log.Logger, sound chan<- bool) *CpuCore {
	if rng == nil {
		rng = NewMathRandSource(1)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &CpuCore{quirks: quirks, rng: rng, logger: logger, sound: sound}
}

// Tick performs one fetch-decode-execute step plus the per-tick timer
// decrement. If s is not Running, Tick is a no-op. If Fx0A is suspended,
// Tick only resolves the wait and decrements timers.
func (c *CpuCore) Tick(s *CpuState) error {
	if !s.Running() {
		return nil
	}

	if s.WaitForKey != nil {
		c.resolveWaitForKey(s)
		c.decrementTimers(s)
		return nil
	}

	if s.PC >= 0xFFF {
		return s.fail(newPcOutOfRange(s.PC))
	}

	op := uint16(s.Memory[s.PC])<<8 | uint16(s.Memory[s.PC+1])
	in := Decode(op)
	c.decrementTimers(s)
	return c.execute(s, in)
}

func (c *CpuCore) decrementTimers(s *CpuState) {
	if s.DelayTimer > 0 {
		s.DelayTimer--
	}
	if s.SoundTimer > 0 {
		s.SoundTimer--
		if s.SoundTimer == 0 {
			c.notifySound(false)
		}
	}
}

func (c *CpuCore) notifySound(on bool) {
	if c.sound == nil {
		return
	}
	select {
	case c.sound <- on:
	default:
	}
}

func (c *CpuCore) resolveWaitForKey(s *CpuState) {
	wfk := s.WaitForKey
	for i := 0; i < NumKeys; i++ {
		var edge bool
		if c.quirks.WaitKeyPressEdge {
			edge = s.Keypad[i] && !wfk.Snapshot[i]
		} else {
			if s.Keypad[i] {
				wfk.Snapshot[i] = true
			}
			edge = !s.Keypad[i] && wfk.Snapshot[i]
		}
		if edge {
			s.V[wfk.Register] = uint8(i)
			s.WaitForKey = nil
			s.PC += 2
			return
		}
	}
}

// execute applies the state transition for one decoded instruction. Unless
// documented otherwise, PC is advanced by exactly 2.
func (c *CpuCore) execute(s *CpuState, in Instruction) error {
	x, y := int(in.X), int(in.Y)

	switch in.Op {
	case Sys:
		s.PC += 2

	case Cls:
		s.frame = Frame{}
		s.drawFlag = true
		s.PC += 2

	case Ret:
		if s.SP == 0 {
			return s.fail(newStackUnderflow(in.Raw, s.PC))
		}
		s.SP--
		s.PC = s.Stack[s.SP]

	case Jp:
		s.PC = in.NNN

	case Call:
		if s.SP >= stackSize {
			return s.fail(newStackOverflow(in.Raw, s.PC))
		}
		s.Stack[s.SP] = s.PC + 2
		s.SP++
		s.PC = in.NNN

	case SeImm:
		s.PC += skipOffset(s.V[x] == in.KK)

	case SneImm:
		s.PC += skipOffset(s.V[x] != in.KK)

	case SeReg:
		s.PC += skipOffset(s.V[x] == s.V[y])

	case SneReg:
		s.PC += skipOffset(s.V[x] != s.V[y])

	case LdImm:
		s.V[x] = in.KK
		s.PC += 2

	case AddImm:
		s.V[x] = s.V[x] + in.KK
		s.PC += 2

	case LdReg:
		s.V[x] = s.V[y]
		s.PC += 2

	case Or:
		s.V[x] |= s.V[y]
		s.PC += 2

	case And:
		s.V[x] &= s.V[y]
		s.PC += 2

	case Xor:
		s.V[x] ^= s.V[y]
		s.PC += 2

	case Add:
		sum := uint16(s.V[x]) + uint16(s.V[y])
		result := uint8(sum)
		var vf uint8
		if sum > 0xFF {
			vf = 1
		}
		s.V[x] = result
		s.V[0xF] = vf
		s.PC += 2

	case Sub:
		carry := s.V[x] >= s.V[y]
		result := s.V[x] - s.V[y]
		var vf uint8
		if carry {
			vf = 1
		}
		s.V[x] = result
		s.V[0xF] = vf
		s.PC += 2

	case Subn:
		carry := s.V[y] >= s.V[x]
		result := s.V[y] - s.V[x]
		var vf uint8
		if carry {
			vf = 1
		}
		s.V[x] = result
		s.V[0xF] = vf
		s.PC += 2

	case Shr:
		src := s.V[x]
		if c.quirks.ShiftUsesVy {
			src = s.V[y]
		}
		vf := src & 0x1
		s.V[x] = src >> 1
		s.V[0xF] = vf
		s.PC += 2

	case Shl:
		src := s.V[x]
		if c.quirks.ShiftUsesVy {
			src = s.V[y]
		}
		vf := (src >> 7) & 0x1
		s.V[x] = src << 1
		s.V[0xF] = vf
		s.PC += 2

	case LdI:
		s.I = in.NNN
		s.PC += 2

	case JpV0:
		s.PC = in.NNN + uint16(s.V[0])

	case Rnd:
		s.V[x] = c.rng.Uint8() & in.KK
		s.PC += 2

	case Drw:
		c.drawSprite(s, s.V[x], s.V[y], in.N)
		s.PC += 2

	case Skp:
		s.PC += skipOffset(s.Keypad[s.V[x]&0xF])

	case Sknp:
		s.PC += skipOffset(!s.Keypad[s.V[x]&0xF])

	case LdVxDt:
		s.V[x] = s.DelayTimer
		s.PC += 2

	case LdVxK:
		if s.WaitForKey == nil {
			s.WaitForKey = &WaitForKey{Register: in.X, Snapshot: s.Keypad}
		}
		// PC is not advanced; Tick resolves the wait on a later call.

	case LdDtVx:
		s.DelayTimer = s.V[x]
		s.PC += 2

	case LdStVx:
		prev := s.SoundTimer
		s.SoundTimer = s.V[x]
		if prev == 0 && s.SoundTimer > 0 {
			c.notifySound(true)
		} else if prev > 0 && s.SoundTimer == 0 {
			c.notifySound(false)
		}
		s.PC += 2

	case AddIVx:
		s.I = (s.I + uint16(s.V[x])) & 0xFFFF
		s.PC += 2

	case LdFVx:
		s.I = FontBase + 5*uint16(s.V[x]&0xF)
		s.PC += 2

	case LdBVx:
		v := s.V[x]
		s.Memory[s.I] = v / 100
		s.Memory[s.I+1] = (v / 10) % 10
		s.Memory[s.I+2] = v % 10
		s.PC += 2

	case LdIVx:
		for i := 0; i <= x; i++ {
			s.Memory[s.I+uint16(i)] = s.V[i]
		}
		if c.quirks.MemoryIncrementsI {
			s.I += uint16(x) + 1
		}
		s.PC += 2

	case LdVxI:
		for i := 0; i <= x; i++ {
			s.V[i] = s.Memory[s.I+uint16(i)]
		}
		if c.quirks.MemoryIncrementsI {
			s.I += uint16(x) + 1
		}
		s.PC += 2

	default:
		c.logger.Printf("warn: unknown opcode 0x%04X at pc=0x%04X", in.Raw, s.PC)
		s.PC += 2
	}

	return nil
}

func skipOffset(taken bool) uint16 {
	if taken {
		return 4
	}
	return 2
}

// drawSprite implements Dxyn: reads n bytes from memory starting at I,
// XOR-draws them at (vx, vy) wrapped into the frame, clipping (or wrapping,
// per the DrawWrap quirk) pixels that fall off the right or bottom edge.
func (c *CpuCore) drawSprite(s *CpuState, vx, vy, n uint8) {
	sx := int(vx) % DisplayWidth
	sy := int(vy) % DisplayHeight

	collision := false
	for row := 0; row < int(n); row++ {
		spriteByte := s.Memory[s.I+uint16(row)]
		py := sy + row
		if py >= DisplayHeight {
			if !c.quirks.DrawWrap {
				continue
			}
			py %= DisplayHeight
		}
		for col := 0; col < 8; col++ {
			px := sx + col
			if px >= DisplayWidth {
				if !c.quirks.DrawWrap {
					continue
				}
				px %= DisplayWidth
			}
			bit := (spriteByte >> (7 - col)) & 0x1
			if bit == 0 {
				continue
			}
			idx := py*DisplayWidth + px
			if s.frame[idx] {
				collision = true
			}
			s.frame[idx] = !s.frame[idx]
		}
	}

	var vf uint8
	if collision {
		vf = 1
	}
	s.V[0xF] = vf
	s.drawFlag = true
}
