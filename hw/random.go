package hw

import "math/rand/v2"

// Random is the source of the random bytes used by the RND instruction.
type Random interface {
	Byte() uint8
}

// RandomFunc adapts a function to the Random interface.
type RandomFunc func() uint8

func (f RandomFunc) Byte() uint8 { return f() }

// systemRandom draws from the process-wide, randomly seeded generator.
type systemRandom struct{}

func (systemRandom) Byte() uint8 { return uint8(rand.Uint32()) }

// SeededRandom returns a reproducible Random.
func SeededRandom(seed uint64) Random {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return RandomFunc(func() uint8 { return uint8(r.Uint32()) })
}
