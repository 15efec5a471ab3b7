// Package report compiles the terminal session artifact: summary
// counters, every statistics table, and the derived balance analytics
// (no-op leaderboard, impact lists, usage anomalies). A compiled report
// is immutable and serializes to JSON and to a human-readable summary.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/warbound-games/gauntlet/internal/sim"
	"github.com/warbound-games/gauntlet/internal/stats"
)

// Analysis thresholds. These are fixed so two runs over the same data
// produce byte-identical reports.
const (
	// noOpRateThreshold is the minimum no-op rate for a card to appear
	// on the no-op leaderboard.
	noOpRateThreshold = 0.50

	// minSampleSize gates rate-based lists: plays for the no-op
	// leaderboard, draws for the usage anomaly lists.
	minSampleSize = 5

	// impactMinPlays is the minimum play count before a card's win
	// correlation is considered meaningful.
	impactMinPlays = 10

	// leaderboardSize caps every derived list.
	leaderboardSize = 10

	// underplayedThreshold flags cards played in fewer than this
	// fraction of the matches that drew them.
	underplayedThreshold = 0.10

	// discardAnomalyThreshold flags cards discarded at or above this
	// fraction of their draws.
	discardAnomalyThreshold = 0.40
)

// SessionReport is the external artifact of a finished (or aborted)
// session. Field order is the serialization order.
type SessionReport struct {
	SessionID    string    `json:"session_id"`
	GeneratedAt  time.Time `json:"generated_at"`
	BaseSeed     int64     `json:"base_seed"`
	Requested    int       `json:"matches_requested"`
	DifficultyP1 string    `json:"difficulty_p1"`
	DifficultyP2 string    `json:"difficulty_p2"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Duration     string    `json:"duration"`
	Aborted      bool      `json:"aborted,omitempty"`

	Summary stats.Summary     `json:"summary"`
	Streaks stats.StreakStats `json:"streaks"`

	Cards     []stats.CardStats     `json:"cards"`
	Champions []stats.ChampionStats `json:"champions"`
	Pairs     []stats.PairStats     `json:"pairs"`
	Matchups  []stats.MatchupStats  `json:"matchups"`

	NoOpLeaderboard  []NoOpEntry   `json:"no_op_leaderboard"`
	TopCards         []ImpactEntry `json:"top_cards"`
	BottomCards      []ImpactEntry `json:"bottom_cards"`
	UnderPlayed      []UsageEntry  `json:"under_played"`
	DiscardAnomalies []UsageEntry  `json:"discard_anomalies"`

	MatchErrors []MatchError `json:"match_errors,omitempty"`
}

// NoOpEntry is one row of the no-op leaderboard.
type NoOpEntry struct {
	Card      string  `json:"card"`
	Plays     int     `json:"plays"`
	NoOps     int     `json:"no_ops"`
	Rate      float64 `json:"rate"`
	TopReason string  `json:"top_reason,omitempty"`
}

// ImpactEntry is one row of a win-correlation leaderboard. WinRate is
// observational: it measures correlation with winning sides, not
// causation.
type ImpactEntry struct {
	Card    string  `json:"card"`
	Plays   int     `json:"plays"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`
}

// UsageEntry is one row of a usage anomaly list. Rate is plays per
// draw for the under-played list and discards per draw for the discard
// anomaly list.
type UsageEntry struct {
	Card      string  `json:"card"`
	Drawn     int     `json:"drawn"`
	Played    int     `json:"played"`
	Discarded int     `json:"discarded"`
	Rate      float64 `json:"rate"`
}

// MatchError records one failed match so a report reader can reproduce
// it from the seed.
type MatchError struct {
	Index int    `json:"index"`
	Seed  int64  `json:"seed"`
	Err   string `json:"error"`
}

// Compile assembles the report from a session outcome and the final
// statistics snapshot. The snapshot's sorted accessors drive every
// table, so output order never depends on map iteration.
func Compile(outcome *sim.SessionOutcome, snap *stats.Snapshot) *SessionReport {
	r := &SessionReport{
		SessionID:    outcome.SessionID,
		GeneratedAt:  time.Now().UTC(),
		BaseSeed:     outcome.BaseSeed,
		Requested:    outcome.Config.Matches,
		DifficultyP1: outcome.Config.DifficultyP1,
		DifficultyP2: outcome.Config.DifficultyP2,
		StartedAt:    outcome.StartedAt,
		FinishedAt:   outcome.FinishedAt,
		Duration:     formatDuration(outcome.FinishedAt.Sub(outcome.StartedAt)),
		Aborted:      outcome.Aborted,
		Summary:      snap.Summary,
		Streaks:      *stats.CalculateStreaks(outcome.Results),
	}

	for _, name := range snap.CardNames() {
		r.Cards = append(r.Cards, *snap.Cards[name])
	}
	for _, name := range snap.ChampionNames() {
		r.Champions = append(r.Champions, *snap.Champions[name])
	}
	for _, key := range snap.PairKeys() {
		r.Pairs = append(r.Pairs, *snap.Pairs[key])
	}
	for _, key := range snap.MatchupKeys() {
		r.Matchups = append(r.Matchups, *snap.Matchups[key])
	}

	r.NoOpLeaderboard = noOpLeaderboard(snap)
	r.TopCards, r.BottomCards = impactLists(snap)
	r.UnderPlayed, r.DiscardAnomalies = usageAnomalies(snap)
	r.MatchErrors = matchErrors(outcome.Results)

	return r
}

// JSON serializes the report with stable field order.
func (r *SessionReport) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal session report: %w", err)
	}
	return data, nil
}

// noOpLeaderboard lists cards whose plays resolve to nothing at or
// above the threshold rate, worst first. Cards below the play sample
// floor are skipped so a single whiffed cast cannot top the board.
func noOpLeaderboard(snap *stats.Snapshot) []NoOpEntry {
	var entries []NoOpEntry
	for _, name := range snap.CardNames() {
		cs := snap.Cards[name]
		if cs.TimesPlayed < minSampleSize {
			continue
		}
		rate := cs.NoOpRate()
		if rate < noOpRateThreshold {
			continue
		}
		entries = append(entries, NoOpEntry{
			Card:      name,
			Plays:     cs.TimesPlayed,
			NoOps:     cs.TimesNoOp,
			Rate:      rate,
			TopReason: topNoOpReason(cs.NoOpReasons),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Rate > entries[j].Rate
	})
	return capLen(entries)
}

// topNoOpReason picks the most frequent reason, breaking count ties by
// reason name so the choice is stable.
func topNoOpReason(reasons map[string]int) string {
	if len(reasons) == 0 {
		return ""
	}
	names := make([]string, 0, len(reasons))
	for name := range reasons {
		names = append(names, name)
	}
	sort.Strings(names)

	best := names[0]
	for _, name := range names[1:] {
		if reasons[name] > reasons[best] {
			best = name
		}
	}
	return best
}

// impactLists returns the top and bottom win-correlation leaderboards
// over cards with enough plays to matter. The stable sort keeps the
// alphabetical base order on ties.
func impactLists(snap *stats.Snapshot) (top, bottom []ImpactEntry) {
	var entries []ImpactEntry
	for _, name := range snap.CardNames() {
		cs := snap.Cards[name]
		if cs.TimesPlayed < impactMinPlays {
			continue
		}
		entries = append(entries, ImpactEntry{
			Card:    name,
			Plays:   cs.TimesPlayed,
			Wins:    cs.WinsWhenPlayed,
			WinRate: cs.WinRate(),
		})
	}

	desc := make([]ImpactEntry, len(entries))
	copy(desc, entries)
	sort.SliceStable(desc, func(i, j int) bool {
		return desc[i].WinRate > desc[j].WinRate
	})

	asc := make([]ImpactEntry, len(entries))
	copy(asc, entries)
	sort.SliceStable(asc, func(i, j int) bool {
		return asc[i].WinRate < asc[j].WinRate
	})

	return capLen(desc), capLen(asc)
}

// usageAnomalies flags cards that sit in hands without being cast and
// cards that are mostly thrown away. Both lists key off draw counts,
// so unplayed-because-undrawn cards never appear.
func usageAnomalies(snap *stats.Snapshot) (under, discards []UsageEntry) {
	for _, name := range snap.CardNames() {
		cs := snap.Cards[name]
		if cs.TimesDrawn < minSampleSize {
			continue
		}
		entry := UsageEntry{
			Card:      name,
			Drawn:     cs.TimesDrawn,
			Played:    cs.TimesPlayed,
			Discarded: cs.TimesDiscarded,
		}
		if rate := cs.PlayRate(); rate < underplayedThreshold {
			entry.Rate = rate
			under = append(under, entry)
		}
		if rate := cs.DiscardRate(); rate >= discardAnomalyThreshold {
			entry.Rate = rate
			discards = append(discards, entry)
		}
	}
	sort.SliceStable(under, func(i, j int) bool {
		return under[i].Rate < under[j].Rate
	})
	sort.SliceStable(discards, func(i, j int) bool {
		return discards[i].Rate > discards[j].Rate
	})
	return capLen(under), capLen(discards)
}

func matchErrors(results []*sim.MatchResult) []MatchError {
	var errs []MatchError
	for _, res := range results {
		if !res.Failed() {
			continue
		}
		errs = append(errs, MatchError{
			Index: res.Config.Index,
			Seed:  res.SeedUsed,
			Err:   res.Err,
		})
	}
	return errs
}

// capLen trims a derived list to the leaderboard size.
func capLen[T any](entries []T) []T {
	if len(entries) > leaderboardSize {
		return entries[:leaderboardSize]
	}
	return entries
}
