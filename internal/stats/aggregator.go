// Package stats maintains running cross-match statistics for a session.
// Every counter is created lazily and only ever incremented, so the
// aggregator is resumable and can be snapshotted mid-session without
// recomputation. It is mutated between matches only and is not safe for
// concurrent use.
package stats

import (
	"sort"
	"strings"

	"github.com/warbound-games/gauntlet/internal/battle"
	"github.com/warbound-games/gauntlet/internal/sim"
)

// Summary holds the session-wide counters.
type Summary struct {
	MatchesStarted   int `json:"matches_started"`
	MatchesCompleted int `json:"matches_completed"`
	MatchesFailed    int `json:"matches_failed"`
	P1Wins           int `json:"p1_wins"`
	P2Wins           int `json:"p2_wins"`
	Draws            int `json:"draws"`
	Stalemates       int `json:"stalemates"`
	TotalRounds      int `json:"total_rounds"`
	TotalTurns       int `json:"total_turns"`
	TotalActions     int `json:"total_actions"`
	TotalPlays       int `json:"total_plays"`
	TotalNoOps       int `json:"total_no_ops"`
}

// CardStats tracks one card across every completed match of a session.
// WinsWhenPlayed counts plays by the side that went on to win; draws
// stay in the play count but never in the win count.
type CardStats struct {
	Name           string           `json:"name"`
	TimesPlayed    int              `json:"times_played"`
	TimesNoOp      int              `json:"times_no_op"`
	TimesDrawn     int              `json:"times_drawn"`
	TimesDiscarded int              `json:"times_discarded"`
	TimesHeld      int              `json:"times_held"`
	WinsWhenPlayed int              `json:"wins_when_played"`
	Totals         sim.EffectTotals `json:"totals"`
	NoOpReasons    map[string]int   `json:"no_op_reasons,omitempty"`
}

// NoOpRate returns the fraction of plays that resolved to nothing.
func (c *CardStats) NoOpRate() float64 {
	if c.TimesPlayed == 0 {
		return 0
	}
	return float64(c.TimesNoOp) / float64(c.TimesPlayed)
}

// WinRate returns the fraction of plays made by the eventual winner.
func (c *CardStats) WinRate() float64 {
	if c.TimesPlayed == 0 {
		return 0
	}
	return float64(c.WinsWhenPlayed) / float64(c.TimesPlayed)
}

// PlayRate returns plays per draw, the usage signal for cards that sit
// in hands without being cast.
func (c *CardStats) PlayRate() float64 {
	if c.TimesDrawn == 0 {
		return 0
	}
	return float64(c.TimesPlayed) / float64(c.TimesDrawn)
}

// DiscardRate returns discards per draw.
func (c *CardStats) DiscardRate() float64 {
	if c.TimesDrawn == 0 {
		return 0
	}
	return float64(c.TimesDiscarded) / float64(c.TimesDrawn)
}

// ChampionStats tracks one champion's outcomes. Picks counts attempted
// matches (registered before execution); the outcome counters cover
// completed matches only, so Picks can exceed their sum when matches
// fail.
type ChampionStats struct {
	Name     string `json:"name"`
	Picks    int    `json:"picks"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Draws    int    `json:"draws"`
	Survived int    `json:"survived"`
	Died     int    `json:"died"`
	Kills    int    `json:"kills"`
}

// WinRate returns wins over completed matches.
func (c *ChampionStats) WinRate() float64 {
	total := c.Wins + c.Losses + c.Draws
	if total == 0 {
		return 0
	}
	return float64(c.Wins) / float64(total)
}

// SurvivalRate returns the fraction of completed matches the champion
// ended alive.
func (c *ChampionStats) SurvivalRate() float64 {
	total := c.Survived + c.Died
	if total == 0 {
		return 0
	}
	return float64(c.Survived) / float64(total)
}

// PairStats tracks a two-champion roster's outcomes regardless of seat.
type PairStats struct {
	Champions [2]string `json:"champions"`
	Matches   int       `json:"matches"`
	Wins      int       `json:"wins"`
	Losses    int       `json:"losses"`
	Draws     int       `json:"draws"`
}

// WinRate returns wins over completed matches for the pair.
func (p *PairStats) WinRate() float64 {
	if p.Matches == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.Matches)
}

// MatchupStats tracks one seated pairing. Seats are kept as played so
// the numbers expose first-player advantage; the same rosters with
// swapped seats count as a different matchup.
type MatchupStats struct {
	RosterA [2]string `json:"roster_a"`
	RosterB [2]string `json:"roster_b"`
	Matches int       `json:"matches"`
	WinsA   int       `json:"wins_a"`
	WinsB   int       `json:"wins_b"`
	Draws   int       `json:"draws"`
}

// Aggregator folds match results into the running statistics tables.
// It implements the orchestrator's result sink.
type Aggregator struct {
	summary   Summary
	cards     map[string]*CardStats
	champions map[string]*ChampionStats
	pairs     map[string]*PairStats
	matchups  map[string]*MatchupStats
}

var _ sim.ResultSink = (*Aggregator)(nil)

func NewAggregator() *Aggregator {
	return &Aggregator{
		cards:     make(map[string]*CardStats),
		champions: make(map[string]*ChampionStats),
		pairs:     make(map[string]*PairStats),
		matchups:  make(map[string]*MatchupStats),
	}
}

// BeginMatch registers the roster picks before execution, so pick rates
// reflect attempted matches even when the match later fails.
func (a *Aggregator) BeginMatch(_ int, rosterA, rosterB [2]string) {
	a.summary.MatchesStarted++
	for _, roster := range [2][2]string{rosterA, rosterB} {
		for _, name := range roster {
			a.champion(name).Picks++
		}
	}
}

// RecordResult folds one finished match into every table. Failed
// matches count only toward the failure total; their partial logs never
// reach the balance counters.
func (a *Aggregator) RecordResult(res *sim.MatchResult) {
	if res == nil {
		return
	}
	if res.Failed() {
		a.summary.MatchesFailed++
		return
	}

	a.summary.MatchesCompleted++
	switch res.Winner {
	case 1:
		a.summary.P1Wins++
	case 2:
		a.summary.P2Wins++
	default:
		a.summary.Draws++
	}
	if res.Stalemate {
		a.summary.Stalemates++
	}
	a.summary.TotalRounds += res.TotalRounds
	a.summary.TotalTurns += res.TotalTurns
	a.summary.TotalActions += res.TotalActions

	a.recordChampions(res)
	a.recordPair(res.Config.RosterA, res.Winner == 1, res.Winner == 2)
	a.recordPair(res.Config.RosterB, res.Winner == 2, res.Winner == 1)
	a.recordMatchup(res)

	for i := range res.CardPlays {
		a.recordPlay(&res.CardPlays[i], res.Winner)
	}
	for _, name := range res.CardsDrawn {
		a.RecordCardDrawn(name, 1)
	}
	for _, name := range res.CardsDiscarded {
		a.RecordCardDiscarded(name, 1)
	}
	for _, name := range res.CardsHeld {
		a.RecordCardHeld(name, 1)
	}
}

// RecordCardDrawn bumps a card's draw counter.
func (a *Aggregator) RecordCardDrawn(name string, n int) {
	a.card(name).TimesDrawn += n
}

// RecordCardDiscarded bumps a card's discard counter.
func (a *Aggregator) RecordCardDiscarded(name string, n int) {
	a.card(name).TimesDiscarded += n
}

// RecordCardHeld bumps the counter for cards still in hand at match end.
func (a *Aggregator) RecordCardHeld(name string, n int) {
	a.card(name).TimesHeld += n
}

func (a *Aggregator) recordChampions(res *sim.MatchResult) {
	rosters := [2][2]string{res.Config.RosterA, res.Config.RosterB}
	for side, roster := range rosters {
		player := side + 1
		for _, name := range roster {
			cs := a.champion(name)
			switch {
			case res.Winner == 0:
				cs.Draws++
			case res.Winner == player:
				cs.Wins++
			default:
				cs.Losses++
			}
			id := battle.ChampionID(battle.PlayerID(player), name)
			if hp, ok := res.FinalHP[id]; ok && hp > 0 {
				cs.Survived++
			} else {
				cs.Died++
			}
		}
	}

	for _, round := range res.Rounds {
		for _, death := range round.Deaths {
			if name, ok := championName(death.Killer); ok {
				a.champion(name).Kills++
			}
		}
	}
}

func (a *Aggregator) recordPair(roster [2]string, won, lost bool) {
	ps := a.pair(roster)
	ps.Matches++
	switch {
	case won:
		ps.Wins++
	case lost:
		ps.Losses++
	default:
		ps.Draws++
	}
}

func (a *Aggregator) recordMatchup(res *sim.MatchResult) {
	ms := a.matchup(res.Config.RosterA, res.Config.RosterB)
	ms.Matches++
	switch res.Winner {
	case 1:
		ms.WinsA++
	case 2:
		ms.WinsB++
	default:
		ms.Draws++
	}
}

func (a *Aggregator) recordPlay(play *sim.CardPlayRecord, winner int) {
	cs := a.card(play.Card)
	cs.TimesPlayed++
	cs.Totals.Add(play.Totals)
	if play.NoOp {
		cs.TimesNoOp++
		if cs.NoOpReasons == nil {
			cs.NoOpReasons = make(map[string]int)
		}
		cs.NoOpReasons[play.NoOpReason]++
		a.summary.TotalNoOps++
	}
	if winner != 0 && winner == play.Player {
		cs.WinsWhenPlayed++
	}
	a.summary.TotalPlays++
}

func (a *Aggregator) card(name string) *CardStats {
	cs, ok := a.cards[name]
	if !ok {
		cs = &CardStats{Name: name}
		a.cards[name] = cs
	}
	return cs
}

func (a *Aggregator) champion(name string) *ChampionStats {
	cs, ok := a.champions[name]
	if !ok {
		cs = &ChampionStats{Name: name}
		a.champions[name] = cs
	}
	return cs
}

func (a *Aggregator) pair(roster [2]string) *PairStats {
	key := pairKey(roster)
	ps, ok := a.pairs[key]
	if !ok {
		sorted := roster
		if sorted[0] > sorted[1] {
			sorted[0], sorted[1] = sorted[1], sorted[0]
		}
		ps = &PairStats{Champions: sorted}
		a.pairs[key] = ps
	}
	return ps
}

func (a *Aggregator) matchup(rosterA, rosterB [2]string) *MatchupStats {
	key := pairKey(rosterA) + " vs " + pairKey(rosterB)
	ms, ok := a.matchups[key]
	if !ok {
		ms = &MatchupStats{RosterA: rosterA, RosterB: rosterB}
		a.matchups[key] = ms
	}
	return ms
}

// pairKey canonicalizes a roster into a stable map key.
func pairKey(roster [2]string) string {
	if roster[0] > roster[1] {
		return roster[1] + "+" + roster[0]
	}
	return roster[0] + "+" + roster[1]
}

// championName strips the seat prefix from a champion instance ID like
// "p1:Brute".
func championName(id string) (string, bool) {
	_, name, ok := strings.Cut(id, ":")
	return name, ok && name != ""
}

// Snapshot is a deep copy of every table, safe to inspect or serialize
// while the session keeps running.
type Snapshot struct {
	Summary   Summary                   `json:"summary"`
	Cards     map[string]*CardStats     `json:"cards"`
	Champions map[string]*ChampionStats `json:"champions"`
	Pairs     map[string]*PairStats     `json:"pairs"`
	Matchups  map[string]*MatchupStats  `json:"matchups"`
}

// Snapshot deep-copies the aggregator's state.
func (a *Aggregator) Snapshot() *Snapshot {
	snap := &Snapshot{
		Summary:   a.summary,
		Cards:     make(map[string]*CardStats, len(a.cards)),
		Champions: make(map[string]*ChampionStats, len(a.champions)),
		Pairs:     make(map[string]*PairStats, len(a.pairs)),
		Matchups:  make(map[string]*MatchupStats, len(a.matchups)),
	}
	for name, cs := range a.cards {
		cp := *cs
		if cs.NoOpReasons != nil {
			cp.NoOpReasons = make(map[string]int, len(cs.NoOpReasons))
			for reason, n := range cs.NoOpReasons {
				cp.NoOpReasons[reason] = n
			}
		}
		snap.Cards[name] = &cp
	}
	for name, cs := range a.champions {
		cp := *cs
		snap.Champions[name] = &cp
	}
	for key, ps := range a.pairs {
		cp := *ps
		snap.Pairs[key] = &cp
	}
	for key, ms := range a.matchups {
		cp := *ms
		snap.Matchups[key] = &cp
	}
	return snap
}

// CardNames returns the tracked card names in sorted order.
func (s *Snapshot) CardNames() []string {
	names := make([]string, 0, len(s.Cards))
	for name := range s.Cards {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ChampionNames returns the tracked champion names in sorted order.
func (s *Snapshot) ChampionNames() []string {
	names := make([]string, 0, len(s.Champions))
	for name := range s.Champions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MatchupKeys returns the tracked matchup keys in sorted order.
func (s *Snapshot) MatchupKeys() []string {
	keys := make([]string, 0, len(s.Matchups))
	for key := range s.Matchups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// PairKeys returns the tracked roster keys in sorted order.
func (s *Snapshot) PairKeys() []string {
	keys := make([]string, 0, len(s.Pairs))
	for key := range s.Pairs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
