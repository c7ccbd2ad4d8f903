package chip8

import "math/rand"

// RandomSource is the capability Cxkk draws from. It is injected at
// construction so tests can pin the sequence and hosts can swap the PRNG
// without touching the interpreter.
type RandomSource interface {
	Uint8() uint8
}

// mathRandSource is the default RandomSource, backed by math/rand the same
// way this repository's original opcode handlers drew random bytes.
type mathRandSource struct {
	rnd *rand.Rand
}

// NewMathRandSource returns a RandomSource seeded from the given value.
func NewMathRandSource(seed int64) RandomSource {
	return &mathRandSource{rnd: rand.New(rand.NewSource(seed))}
}

func (s *mathRandSource) Uint8() uint8 {
	return uint8(s.rnd.Intn(256))
}
