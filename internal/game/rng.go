package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// Source is the randomness a round consumes. Seeded sources make runs
// reproducible; implementations need not be safe for concurrent use, every
// worker owns its own stream.
type Source interface {
	Float64() float64
	IntN(n int) int
}

type seededSource struct {
	r *rand.Rand
}

func (s *seededSource) Float64() float64 { return s.r.Float64() }
func (s *seededSource) IntN(n int) int   { return s.r.IntN(n) }

// NewSeeded returns a deterministic Source backed by a PCG stream.
func NewSeeded(seed uint64) Source {
	return &seededSource{r: rand.New(rand.NewPCG(seed, 0))}
}

// RandomSeed draws a seed from the OS entropy source, falling back to the
// runtime's global generator if that fails.
func RandomSeed() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return rand.Uint64()
	}
	return binary.LittleEndian.Uint64(b[:])
}
