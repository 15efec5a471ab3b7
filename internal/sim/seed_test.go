package sim

import (
	"testing"
)

func TestSeedSequencerReproducible(t *testing.T) {
	a := NewSeedSequencer(12345)
	b := NewSeedSequencer(12345)

	for i := 0; i < 200; i++ {
		if a.MatchSeed(i) != b.MatchSeed(i) {
			t.Fatalf("MatchSeed(%d) diverged: %d vs %d", i, a.MatchSeed(i), b.MatchSeed(i))
		}
	}
}

func TestSeedSequencerExtendsBeyondPool(t *testing.T) {
	// One sequencer jumps straight past the pre-derived pool, the other
	// walks there. Both must agree, or seed(i) would depend on access
	// order.
	jumper := NewSeedSequencer(42)
	walker := NewSeedSequencer(42)

	far := seedPoolSize + 500
	jumped := jumper.MatchSeed(far)
	var walked int64
	for i := 0; i <= far; i++ {
		walked = walker.MatchSeed(i)
	}
	if jumped != walked {
		t.Errorf("MatchSeed(%d) = %d via jump, %d via walk", far, jumped, walked)
	}
	if jumper.PoolSize() <= seedPoolSize {
		t.Errorf("PoolSize() = %d after far access, want > %d", jumper.PoolSize(), seedPoolSize)
	}
}

func TestSeedSequencerZeroBaseDrawsFresh(t *testing.T) {
	s := NewSeedSequencer(0)
	if s.BaseSeed() == 0 {
		t.Error("BaseSeed() = 0, want a drawn non-zero seed")
	}
	if err := s.SelfCheck(); err != nil {
		t.Errorf("SelfCheck() = %v, want nil", err)
	}

	// The drawn base must restore the same pool when reused.
	replayed := NewSeedSequencer(s.BaseSeed())
	for i := 0; i < 50; i++ {
		if s.MatchSeed(i) != replayed.MatchSeed(i) {
			t.Fatalf("MatchSeed(%d) not restored from recorded base", i)
		}
	}
}

func TestSeedSequencerSelfCheck(t *testing.T) {
	s := NewSeedSequencer(777)
	if err := s.SelfCheck(); err != nil {
		t.Fatalf("SelfCheck() on intact pool = %v, want nil", err)
	}

	s.pool[3] = s.pool[3] + 1
	if err := s.SelfCheck(); err == nil {
		t.Error("SelfCheck() on corrupted pool = nil, want error")
	}
}

func TestSeedSequencerRandIndependent(t *testing.T) {
	s := NewSeedSequencer(99)

	first := s.Rand(7)
	second := s.Rand(7)
	for i := 0; i < 10; i++ {
		if a, b := first.Int63(), second.Int63(); a != b {
			t.Fatalf("Rand(7) generators diverged at draw %d: %d vs %d", i, a, b)
		}
	}

	// Draining one generator must not disturb a later one.
	other := s.Rand(7)
	if got, want := other.Int63(), s.Rand(7).Int63(); got != want {
		t.Errorf("fresh Rand(7) first draw = %d, want %d", got, want)
	}
}

func TestSeedSequencerDistinctSeeds(t *testing.T) {
	s := NewSeedSequencer(1)
	seen := make(map[int64]int)
	for i := 0; i < 100; i++ {
		seed := s.MatchSeed(i)
		if prev, dup := seen[seed]; dup {
			t.Errorf("MatchSeed(%d) == MatchSeed(%d) == %d", i, prev, seed)
		}
		seen[seed] = i
	}
}
