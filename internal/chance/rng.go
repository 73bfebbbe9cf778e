package chance

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource is the single ordered stream every draw in a game reads from.
type RandomSource interface {
	Float64() float64 // [0, 1)
}

// crypto random: used when no seed is configured
type cryptoRNG struct{}

func (cryptoRNG) Float64() float64 {
	// 53 random bits => [0, 1)
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		return rand.Float64()
	}
	u := binary.BigEndian.Uint64(buf[:]) >> 11
	return float64(u) / (1 << 53)
}

// DefaultRNG returns a crypto-backed source. It holds no state, so it is safe
// to share between goroutines.
func DefaultRNG() RandomSource { return cryptoRNG{} }

// Replicable RNG for tests and seeded runs. Not safe for concurrent use.
type seededRNG struct{ r *rand.Rand }

// NewSeededRNG returns a deterministic PCG stream for seed.
func NewSeededRNG(seed uint64) RandomSource {
	return NewStreamRNG(seed, 0)
}

// NewStreamRNG returns the PCG stream selected by (seed, stream). Repeated
// games use one stream each so they never interleave draws.
func NewStreamRNG(seed, stream uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, stream))}
}

func (s *seededRNG) Float64() float64 { return s.r.Float64() }

// Sequence replays fixed values, then repeats the last one. Handy for
// forcing a specific outcome in tests.
type Sequence struct {
	Values []float64
	pos    int
}

func (s *Sequence) Float64() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	if s.pos >= len(s.Values) {
		return s.Values[len(s.Values)-1]
	}
	v := s.Values[s.pos]
	s.pos++
	return v
}
