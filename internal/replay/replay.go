// Package replay checks stored match results for fidelity. A match is
// fully determined by its seed, rosters, and difficulty profiles, so
// re-running one on a fresh engine must reproduce the recorded action
// log and final HP exactly.
package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/warbound-games/gauntlet/internal/battle"
	"github.com/warbound-games/gauntlet/internal/carddata"
	"github.com/warbound-games/gauntlet/internal/sim"
)

// Divergence kinds.
const (
	DivergenceAction  = "action"
	DivergenceLength  = "length"
	DivergenceOutcome = "outcome"
	DivergenceFinalHP = "final_hp"
)

// Divergence is one point where the re-run left the record. Seq is the
// action sequence number for action divergences and -1 otherwise.
type Divergence struct {
	Kind   string `json:"kind"`
	Seq    int    `json:"seq"`
	Detail string `json:"detail"`
}

// Verification is the outcome of one replay check.
type Verification struct {
	SeedUsed        int64        `json:"seed_used"`
	RecordedActions int          `json:"recorded_actions"`
	ReplayedActions int          `json:"replayed_actions"`
	Divergences     []Divergence `json:"divergences,omitempty"`
}

// Clean reports whether the re-run reproduced the record exactly.
func (v *Verification) Clean() bool { return len(v.Divergences) == 0 }

func (v *Verification) add(kind string, seq int, detail string) {
	v.Divergences = append(v.Divergences, Divergence{Kind: kind, Seq: seq, Detail: detail})
}

// defaultDifficulty stands in when a hand-edited match file omits the
// profile names.
const defaultDifficulty = "medium"

// Verify re-runs a recorded match on a fresh rules engine with the
// recorded seed and compares the produced action log, outcome, and
// final HP against the record. The returned error covers setup
// problems only; fidelity findings live in the Verification.
func Verify(store *carddata.Store, recorded *sim.MatchResult) (*Verification, error) {
	return VerifyWithEngine(store, recorded, func() sim.Engine { return battle.NewEngine(store) })
}

// VerifyWithEngine is Verify against a caller-supplied engine factory.
func VerifyWithEngine(store *carddata.Store, recorded *sim.MatchResult, factory sim.EngineFactory) (*Verification, error) {
	if recorded == nil {
		return nil, errors.New("no match result to verify")
	}
	if recorded.Failed() {
		return nil, fmt.Errorf("match %d failed during its original run (%s); only completed matches can be verified", recorded.Config.Index, recorded.Err)
	}

	oracleA, err := oracleFor(recorded.Config.DifficultyA, store)
	if err != nil {
		return nil, fmt.Errorf("player 1: %w", err)
	}
	oracleB, err := oracleFor(recorded.Config.DifficultyB, store)
	if err != nil {
		return nil, fmt.Errorf("player 2: %w", err)
	}

	exec := sim.NewMatchExecutor(factory(), store, sim.DefaultLimits())
	rerun := exec.Execute(recorded.Config, recorded.SeedUsed, oracleA, oracleB)
	if rerun.Failed() {
		return nil, fmt.Errorf("re-running match %d with seed %d: %s", recorded.Config.Index, recorded.SeedUsed, rerun.Err)
	}

	v := &Verification{
		SeedUsed:        recorded.SeedUsed,
		RecordedActions: len(recorded.Replay),
		ReplayedActions: len(rerun.Replay),
	}
	v.compareOutcome(recorded, rerun)
	v.compareActions(recorded.Replay, rerun.Replay)
	v.compareFinalHP(recorded.FinalHP, rerun.FinalHP)
	return v, nil
}

func oracleFor(name string, store *carddata.Store) (sim.Oracle, error) {
	if name == "" {
		name = defaultDifficulty
	}
	return sim.ForDifficulty(name, store)
}

func (v *Verification) compareOutcome(recorded, rerun *sim.MatchResult) {
	if recorded.Winner != rerun.Winner || recorded.WinReason != rerun.WinReason {
		v.add(DivergenceOutcome, -1, fmt.Sprintf("recorded winner %d (%s), replayed winner %d (%s)",
			recorded.Winner, recorded.WinReason, rerun.Winner, rerun.WinReason))
	}
	if recorded.TotalRounds != rerun.TotalRounds {
		v.add(DivergenceOutcome, -1, fmt.Sprintf("recorded %d rounds, replayed %d", recorded.TotalRounds, rerun.TotalRounds))
	}
}

// compareActions reports only the first mismatch. Past that point the
// two streams are out of step and every later pair would differ too.
func (v *Verification) compareActions(recorded, rerun []sim.ReplayAction) {
	n := len(recorded)
	if len(rerun) < n {
		n = len(rerun)
	}
	for i := 0; i < n; i++ {
		if !sameAction(recorded[i], rerun[i]) {
			v.add(DivergenceAction, i, fmt.Sprintf("recorded %s, replayed %s",
				describeAction(recorded[i]), describeAction(rerun[i])))
			return
		}
	}
	if len(recorded) != len(rerun) {
		v.add(DivergenceLength, n, fmt.Sprintf("recorded %d actions, replayed %d", len(recorded), len(rerun)))
	}
}

func (v *Verification) compareFinalHP(recorded, rerun map[string]int) {
	names := make([]string, 0, len(recorded)+len(rerun))
	for name := range recorded {
		names = append(names, name)
	}
	for name := range rerun {
		if _, ok := recorded[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		rec, recOK := recorded[name]
		rep, repOK := rerun[name]
		switch {
		case !recOK:
			v.add(DivergenceFinalHP, -1, fmt.Sprintf("%s at %d HP in the replay but absent from the record", name, rep))
		case !repOK:
			v.add(DivergenceFinalHP, -1, fmt.Sprintf("%s at %d HP in the record but absent from the replay", name, rec))
		case rec != rep:
			v.add(DivergenceFinalHP, -1, fmt.Sprintf("%s recorded at %d HP, replayed at %d", name, rec, rep))
		}
	}
}

func sameAction(a, b sim.ReplayAction) bool {
	if a.Seq != b.Seq || a.Round != b.Round || a.Turn != b.Turn || a.Player != b.Player {
		return false
	}
	if a.Type != b.Type || a.Champion != b.Champion || a.Card != b.Card || a.Target != b.Target || a.Damage != b.Damage {
		return false
	}
	switch {
	case a.To == nil && b.To == nil:
		return true
	case a.To == nil || b.To == nil:
		return false
	default:
		return *a.To == *b.To
	}
}

func describeAction(a sim.ReplayAction) string {
	switch a.Type {
	case sim.ActionMove:
		if a.To != nil {
			return fmt.Sprintf("move %s to (%d,%d)", a.Champion, a.To.X, a.To.Y)
		}
		return fmt.Sprintf("move %s", a.Champion)
	case sim.ActionAttack:
		return fmt.Sprintf("attack %s on %s for %d", a.Champion, a.Target, a.Damage)
	case sim.ActionCast:
		if a.Target != "" {
			return fmt.Sprintf("cast %s by %s on %s", a.Card, a.Champion, a.Target)
		}
		return fmt.Sprintf("cast %s by %s", a.Card, a.Champion)
	case sim.ActionPass:
		return fmt.Sprintf("pass by player %d", a.Player)
	default:
		return fmt.Sprintf("%s by %s", a.Type, a.Champion)
	}
}

// LoadFile reads one match result stored as JSON, in the layout the
// storage service writes and the run command exports.
func LoadFile(path string) (*sim.MatchResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read match file: %w", err)
	}
	var res sim.MatchResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("failed to parse match file %s: %w", path, err)
	}
	return &res, nil
}
