package sim

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"time"
)

const (
	// seedPoolSize is how many match seeds are pre-derived up front.
	// Sessions that outrun it extend the pool from the same generator,
	// so seed(i) only ever depends on the base seed and i.
	seedPoolSize = 1024

	// seedCheckWindow is how much of the pool SelfCheck re-derives.
	seedCheckWindow = 64
)

// SeedSequencer turns one base seed into a reproducible per-match seed
// pool. Match i always receives the same seed for the same base,
// regardless of how many matches the session runs.
type SeedSequencer struct {
	base int64
	gen  *rand.Rand
	pool []int64
}

// NewSeedSequencer derives the initial pool from base. A zero base means
// "no seed given" and draws a fresh non-zero one.
func NewSeedSequencer(base int64) *SeedSequencer {
	if base == 0 {
		base = drawBaseSeed()
	}
	s := &SeedSequencer{
		base: base,
		gen:  rand.New(rand.NewSource(base)),
		pool: make([]int64, 0, seedPoolSize),
	}
	s.extend(seedPoolSize)
	return s
}

// BaseSeed returns the base seed in use, whether configured or drawn.
func (s *SeedSequencer) BaseSeed() int64 { return s.base }

// PoolSize returns the number of seeds derived so far.
func (s *SeedSequencer) PoolSize() int { return len(s.pool) }

// MatchSeed returns the seed for match index, growing the pool on
// demand. Index is zero-based.
func (s *SeedSequencer) MatchSeed(index int) int64 {
	if index >= len(s.pool) {
		s.extend(index + 1)
	}
	return s.pool[index]
}

// Rand returns a fresh generator seeded for match index. Each call
// returns an independent generator in the same initial state, which is
// what replay verification relies on.
func (s *SeedSequencer) Rand(index int) *rand.Rand {
	return rand.New(rand.NewSource(s.MatchSeed(index)))
}

// SelfCheck re-derives the head of the pool from the base seed and
// compares it entry by entry. A mismatch means seed derivation is not
// reproducible on this build and every downstream guarantee is void, so
// callers treat it as fatal.
func (s *SeedSequencer) SelfCheck() error {
	check := rand.New(rand.NewSource(s.base))
	window := min(seedCheckWindow, len(s.pool))
	for i := 0; i < window; i++ {
		if got := check.Int63(); got != s.pool[i] {
			return fmt.Errorf("seed pool self-check failed at index %d: re-derived %d, pool holds %d", i, got, s.pool[i])
		}
	}
	return nil
}

func (s *SeedSequencer) extend(n int) {
	for len(s.pool) < n {
		s.pool = append(s.pool, s.gen.Int63())
	}
}

// drawBaseSeed produces a non-zero random base seed. Crypto randomness
// is preferred, with the clock as fallback. Either way the drawn seed
// is recorded, and reusing it restores determinism.
func drawBaseSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	seed := int64(binary.BigEndian.Uint64(b[:]) &^ (1 << 63))
	if seed == 0 {
		seed = 1
	}
	return seed
}
