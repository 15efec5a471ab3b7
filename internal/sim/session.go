package sim

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/warbound-games/gauntlet/internal/carddata"
	"github.com/warbound-games/gauntlet/internal/events"
)

// SessionConfig describes one batch of matches.
type SessionConfig struct {
	Matches      int
	BaseSeed     int64 // 0 draws a fresh seed
	DifficultyP1 string
	DifficultyP2 string

	// Matchups pins explicit pairings, cycled in order. When empty,
	// AllCombinations enumerates every disjoint pairing; otherwise
	// pairings are drawn at random per match.
	Matchups        []MatchupSpec
	AllCombinations bool

	Limits Limits

	// PacingDelay slows the loop down for live viewing. Cosmetic only,
	// zero in batch runs; it never influences match outcomes.
	PacingDelay time.Duration
}

// ResultSink receives per-match records as the session produces them.
// BeginMatch fires before execution so roster picks are counted even
// when the match later fails.
type ResultSink interface {
	BeginMatch(index int, rosterA, rosterB [2]string)
	RecordResult(res *MatchResult)
}

// SessionOutcome is everything a finished (or aborted) session produced.
type SessionOutcome struct {
	SessionID  string
	BaseSeed   int64
	Config     SessionConfig
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []*MatchResult
	Aborted    bool
}

// Completed returns the number of matches that ran, failed ones
// included.
func (s *SessionOutcome) Completed() int { return len(s.Results) }

// ErrorCount returns the number of failed matches.
func (s *SessionOutcome) ErrorCount() int {
	n := 0
	for _, r := range s.Results {
		if r.Failed() {
			n++
		}
	}
	return n
}

// DrawCount returns the number of matches that ended without a winner.
func (s *SessionOutcome) DrawCount() int {
	n := 0
	for _, r := range s.Results {
		if !r.Failed() && r.Winner == 0 {
			n++
		}
	}
	return n
}

// matchupSeedSalt keeps random matchup draws off the match-seed stream,
// so adding matches never reshuffles who plays whom.
const matchupSeedSalt = 0x6761756e746c6574

// Orchestrator runs a session: derives seeds, resolves matchups,
// executes matches one at a time, and forwards results to the sink and
// dispatcher. A match failure is contained to its result; the session
// carries on. Cancellation is honored between matches only, so every
// recorded result is complete.
type Orchestrator struct {
	cfg        SessionConfig
	store      *carddata.Store
	newEngine  EngineFactory
	sink       ResultSink
	dispatcher *events.Dispatcher
}

// NewOrchestrator wires a session. Sink and dispatcher may be nil.
func NewOrchestrator(cfg SessionConfig, store *carddata.Store, factory EngineFactory, sink ResultSink, dispatcher *events.Dispatcher) *Orchestrator {
	if cfg.Limits == (Limits{}) {
		cfg.Limits = DefaultLimits()
	}
	return &Orchestrator{
		cfg:        cfg,
		store:      store,
		newEngine:  factory,
		sink:       sink,
		dispatcher: dispatcher,
	}
}

// Run executes the session. The returned error covers configuration
// failures only; match failures are recorded in their results and the
// outcome is returned either way, aborted sessions included.
func (o *Orchestrator) Run(ctx context.Context) (*SessionOutcome, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	oracleA, err := ForDifficulty(o.cfg.DifficultyP1, o.store)
	if err != nil {
		return nil, fmt.Errorf("player 1: %w", err)
	}
	oracleB, err := ForDifficulty(o.cfg.DifficultyP2, o.store)
	if err != nil {
		return nil, fmt.Errorf("player 2: %w", err)
	}

	seq := NewSeedSequencer(o.cfg.BaseSeed)
	if err := seq.SelfCheck(); err != nil {
		return nil, fmt.Errorf("seed sequencer unusable: %w", err)
	}
	matchups, err := o.resolveMatchups(seq)
	if err != nil {
		return nil, err
	}

	outcome := &SessionOutcome{
		SessionID: uuid.NewString(),
		BaseSeed:  seq.BaseSeed(),
		Config:    o.cfg,
		StartedAt: time.Now(),
	}
	log.Printf("session %s: %d matches, base seed %d, %s vs %s",
		outcome.SessionID, o.cfg.Matches, outcome.BaseSeed, o.cfg.DifficultyP1, o.cfg.DifficultyP2)
	o.dispatch(ctx, events.TypeSessionStarted, events.SessionStartedEvent{
		SessionID: outcome.SessionID,
		BaseSeed:  outcome.BaseSeed,
		Matches:   o.cfg.Matches,
	})

	for i := 0; i < o.cfg.Matches; i++ {
		if ctx.Err() != nil {
			outcome.Aborted = true
			log.Printf("session %s aborted after %d of %d matches", outcome.SessionID, len(outcome.Results), o.cfg.Matches)
			o.dispatch(ctx, events.TypeSessionAborted, events.SessionAbortedEvent{
				SessionID: outcome.SessionID,
				Completed: len(outcome.Results),
				Total:     o.cfg.Matches,
			})
			break
		}

		mcfg := o.matchConfig(i, matchups)
		seed := seq.MatchSeed(i)
		if mcfg.SeedOverride != nil {
			seed = *mcfg.SeedOverride
		}
		if o.sink != nil {
			o.sink.BeginMatch(i, mcfg.RosterA, mcfg.RosterB)
		}
		o.dispatch(ctx, events.TypeMatchStarted, events.MatchStartedEvent{
			Index:   i,
			Total:   o.cfg.Matches,
			RosterA: mcfg.RosterA[:],
			RosterB: mcfg.RosterB[:],
			Seed:    seed,
		})

		exec := NewMatchExecutor(o.newEngine(), o.store, o.cfg.Limits)
		res := exec.Execute(mcfg, seed, oracleA, oracleB)
		outcome.Results = append(outcome.Results, res)
		if o.sink != nil {
			o.sink.RecordResult(res)
		}
		if res.Failed() {
			log.Printf("match %d/%d failed: %s", i+1, o.cfg.Matches, res.Err)
		}
		o.dispatch(ctx, events.TypeMatchCompleted, events.MatchCompletedEvent{
			Index:     i,
			Total:     o.cfg.Matches,
			Winner:    res.Winner,
			WinReason: res.WinReason,
			Rounds:    res.TotalRounds,
			Failed:    res.Failed(),
			Error:     res.Err,
		})

		if o.cfg.PacingDelay > 0 {
			select {
			case <-time.After(o.cfg.PacingDelay):
			case <-ctx.Done():
			}
		}
	}

	outcome.FinishedAt = time.Now()
	if !outcome.Aborted {
		o.dispatch(ctx, events.TypeSessionCompleted, events.SessionCompletedEvent{
			SessionID: outcome.SessionID,
			Completed: outcome.Completed(),
			Errors:    outcome.ErrorCount(),
			Draws:     outcome.DrawCount(),
			Duration:  outcome.FinishedAt.Sub(outcome.StartedAt).Seconds(),
		})
	}
	return outcome, nil
}

func (o *Orchestrator) validate() error {
	if o.store == nil {
		return errors.New("orchestrator has no card store")
	}
	if o.newEngine == nil {
		return errors.New("orchestrator has no engine factory")
	}
	if o.cfg.Matches < 1 {
		return fmt.Errorf("session needs at least one match, got %d", o.cfg.Matches)
	}
	return nil
}

// resolveMatchups fixes the pairing plan up front. Match i plays
// matchups[i % len(matchups)].
func (o *Orchestrator) resolveMatchups(seq *SeedSequencer) ([]MatchupSpec, error) {
	if len(o.cfg.Matchups) > 0 {
		for i, m := range o.cfg.Matchups {
			for _, roster := range [][2]string{m.RosterA, m.RosterB} {
				if roster[0] == roster[1] {
					return nil, fmt.Errorf("matchup %d: champion %q appears twice in one roster", i, roster[0])
				}
				for _, name := range roster {
					if _, ok := o.store.Champion(name); !ok {
						return nil, fmt.Errorf("matchup %d: unknown champion %q", i, name)
					}
				}
			}
		}
		return o.cfg.Matchups, nil
	}

	names := o.store.Champions()
	if len(names) < 4 {
		return nil, fmt.Errorf("matchup generation needs at least 4 champions, card data has %d", len(names))
	}
	if o.cfg.AllCombinations {
		return allCombinations(names), nil
	}

	rng := rand.New(rand.NewSource(seq.BaseSeed() ^ matchupSeedSalt))
	specs := make([]MatchupSpec, o.cfg.Matches)
	for i := range specs {
		specs[i] = randomMatchup(names, rng)
	}
	return specs, nil
}

func (o *Orchestrator) matchConfig(i int, matchups []MatchupSpec) MatchConfig {
	spec := matchups[i%len(matchups)]
	return MatchConfig{
		Index:        i,
		RosterA:      spec.RosterA,
		RosterB:      spec.RosterB,
		DifficultyA:  o.cfg.DifficultyP1,
		DifficultyB:  o.cfg.DifficultyP2,
		SeedOverride: spec.SeedOverride,
	}
}

func (o *Orchestrator) dispatch(ctx context.Context, eventType string, data any) {
	if o.dispatcher == nil {
		return
	}
	o.dispatcher.Dispatch(events.New(eventType, data, ctx))
}

// randomMatchup deals four distinct champions into two rosters.
func randomMatchup(names []string, rng *rand.Rand) MatchupSpec {
	perm := rng.Perm(len(names))
	return MatchupSpec{
		RosterA: [2]string{names[perm[0]], names[perm[1]]},
		RosterB: [2]string{names[perm[2]], names[perm[3]]},
	}
}

// allCombinations enumerates every unordered pairing of disjoint
// two-champion rosters, in lexicographic order. The lexicographically
// lower roster takes the player 1 seat.
func allCombinations(names []string) []MatchupSpec {
	var rosters [][2]string
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			rosters = append(rosters, [2]string{names[i], names[j]})
		}
	}
	var specs []MatchupSpec
	for i := 0; i < len(rosters); i++ {
		for j := i + 1; j < len(rosters); j++ {
			if overlaps(rosters[i], rosters[j]) {
				continue
			}
			specs = append(specs, MatchupSpec{RosterA: rosters[i], RosterB: rosters[j]})
		}
	}
	return specs
}

func overlaps(a, b [2]string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
