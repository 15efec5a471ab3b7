package stats

import (
	"testing"

	"github.com/warbound-games/gauntlet/internal/sim"
)

var fixtureRosters = [2][2]string{
	{"Brute", "Ranger"},
	{"Beast", "Shaman"},
}

// fixtureResult builds a completed Brute+Ranger vs Beast+Shaman result.
// One champion per side survives so survival attribution is visible.
func fixtureResult(winner int) *sim.MatchResult {
	return &sim.MatchResult{
		Config: sim.MatchConfig{
			RosterA: fixtureRosters[0],
			RosterB: fixtureRosters[1],
		},
		Winner:       winner,
		WinReason:    sim.WinReasonElimination,
		TotalRounds:  10,
		TotalTurns:   20,
		TotalActions: 44,
		FinalHP: map[string]int{
			"p1:Brute":  12,
			"p1:Ranger": 0,
			"p2:Beast":  0,
			"p2:Shaman": 5,
		},
	}
}

func recordMatch(a *Aggregator, res *sim.MatchResult) {
	a.BeginMatch(res.Config.Index, res.Config.RosterA, res.Config.RosterB)
	a.RecordResult(res)
}

func TestAggregatorCounterConservation(t *testing.T) {
	a := NewAggregator()
	recordMatch(a, fixtureResult(1))
	recordMatch(a, fixtureResult(1))
	recordMatch(a, fixtureResult(2))
	recordMatch(a, fixtureResult(0))
	failed := fixtureResult(0)
	failed.Err = "engine setup failed"
	recordMatch(a, failed)

	s := a.Snapshot().Summary
	if s.MatchesStarted != 5 {
		t.Errorf("MatchesStarted = %d, want 5", s.MatchesStarted)
	}
	if s.MatchesCompleted != 4 {
		t.Errorf("MatchesCompleted = %d, want 4", s.MatchesCompleted)
	}
	if s.MatchesFailed != 1 {
		t.Errorf("MatchesFailed = %d, want 1", s.MatchesFailed)
	}
	if got := s.P1Wins + s.P2Wins + s.Draws; got != s.MatchesCompleted {
		t.Errorf("wins+draws = %d, want MatchesCompleted %d", got, s.MatchesCompleted)
	}
	if s.P1Wins != 2 || s.P2Wins != 1 || s.Draws != 1 {
		t.Errorf("outcomes = %d/%d/%d, want 2/1/1", s.P1Wins, s.P2Wins, s.Draws)
	}
	if s.TotalRounds != 40 {
		t.Errorf("TotalRounds = %d, want 40 (failed match excluded)", s.TotalRounds)
	}
}

func TestAggregatorChampionOutcomes(t *testing.T) {
	a := NewAggregator()
	recordMatch(a, fixtureResult(1))

	snap := a.Snapshot()
	tests := []struct {
		champion             string
		wins, losses         int
		survived, died, pick int
	}{
		{"Brute", 1, 0, 1, 0, 1},
		{"Ranger", 1, 0, 0, 1, 1},
		{"Beast", 0, 1, 0, 1, 1},
		{"Shaman", 0, 1, 1, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.champion, func(t *testing.T) {
			cs, ok := snap.Champions[tt.champion]
			if !ok {
				t.Fatalf("champion %q not tracked", tt.champion)
			}
			if cs.Wins != tt.wins || cs.Losses != tt.losses {
				t.Errorf("Wins/Losses = %d/%d, want %d/%d", cs.Wins, cs.Losses, tt.wins, tt.losses)
			}
			if cs.Survived != tt.survived || cs.Died != tt.died {
				t.Errorf("Survived/Died = %d/%d, want %d/%d", cs.Survived, cs.Died, tt.survived, tt.died)
			}
			if cs.Picks != tt.pick {
				t.Errorf("Picks = %d, want %d", cs.Picks, tt.pick)
			}
		})
	}

	// A draw lands in the draw column for all four.
	recordMatch(a, fixtureResult(0))
	cs := a.Snapshot().Champions["Brute"]
	if cs.Draws != 1 || cs.Wins != 1 {
		t.Errorf("after draw: Draws = %d Wins = %d, want 1 and 1", cs.Draws, cs.Wins)
	}
}

func TestAggregatorPicksSurviveFailedMatches(t *testing.T) {
	a := NewAggregator()
	failed := fixtureResult(0)
	failed.Err = "roster A invalid"
	recordMatch(a, failed)

	cs, ok := a.Snapshot().Champions["Brute"]
	if !ok {
		t.Fatal("picks not registered for a failed match")
	}
	if cs.Picks != 1 {
		t.Errorf("Picks = %d, want 1", cs.Picks)
	}
	if got := cs.Wins + cs.Losses + cs.Draws; got != 0 {
		t.Errorf("outcome counters = %d, want 0 for a failed match", got)
	}
}

func TestAggregatorCardCounters(t *testing.T) {
	a := NewAggregator()
	res := fixtureResult(1)
	res.CardPlays = []sim.CardPlayRecord{
		{Card: "Piercing Arrow", Player: 1, Totals: sim.EffectTotals{Damage: 4}},
		{Card: "Piercing Arrow", Player: 1, Totals: sim.EffectTotals{Damage: 4}},
		{Card: "Savage Bite", Player: 2, Totals: sim.EffectTotals{Damage: 7}},
		{Card: "Healing Rain", Player: 2, NoOp: true, NoOpReason: sim.NoOpTargetFullHP},
	}
	res.CardsDrawn = []string{"Piercing Arrow", "Piercing Arrow", "Savage Bite", "Healing Rain", "Hex"}
	res.CardsDiscarded = []string{"Hex"}
	res.CardsHeld = []string{"Hex"}
	recordMatch(a, res)

	snap := a.Snapshot()

	arrow := snap.Cards["Piercing Arrow"]
	if arrow.TimesPlayed != 2 || arrow.WinsWhenPlayed != 2 {
		t.Errorf("arrow played/wins = %d/%d, want 2/2", arrow.TimesPlayed, arrow.WinsWhenPlayed)
	}
	if arrow.Totals.Damage != 8 {
		t.Errorf("arrow damage total = %d, want 8", arrow.Totals.Damage)
	}
	if arrow.TimesDrawn != 2 {
		t.Errorf("arrow drawn = %d, want 2", arrow.TimesDrawn)
	}

	bite := snap.Cards["Savage Bite"]
	if bite.WinsWhenPlayed != 0 {
		t.Errorf("losing side's play counted as a win: %d", bite.WinsWhenPlayed)
	}

	rain := snap.Cards["Healing Rain"]
	if rain.TimesNoOp != 1 {
		t.Errorf("rain no-ops = %d, want 1", rain.TimesNoOp)
	}
	if rain.NoOpReasons[sim.NoOpTargetFullHP] != 1 {
		t.Errorf("rain reasons = %v, want one %q", rain.NoOpReasons, sim.NoOpTargetFullHP)
	}

	hex := snap.Cards["Hex"]
	if hex.TimesDrawn != 1 || hex.TimesDiscarded != 1 || hex.TimesHeld != 1 {
		t.Errorf("hex drawn/discarded/held = %d/%d/%d, want 1/1/1",
			hex.TimesDrawn, hex.TimesDiscarded, hex.TimesHeld)
	}
	if hex.TimesPlayed != 0 {
		t.Errorf("hex played = %d, want 0", hex.TimesPlayed)
	}

	if snap.Summary.TotalPlays != 4 || snap.Summary.TotalNoOps != 1 {
		t.Errorf("summary plays/no-ops = %d/%d, want 4/1", snap.Summary.TotalPlays, snap.Summary.TotalNoOps)
	}
}

func TestAggregatorDrawExcludedFromWinCorrelation(t *testing.T) {
	a := NewAggregator()
	res := fixtureResult(0)
	res.CardPlays = []sim.CardPlayRecord{
		{Card: "Piercing Arrow", Player: 1},
		{Card: "Savage Bite", Player: 2},
	}
	recordMatch(a, res)

	snap := a.Snapshot()
	for _, name := range []string{"Piercing Arrow", "Savage Bite"} {
		cs := snap.Cards[name]
		if cs.TimesPlayed != 1 {
			t.Errorf("%s TimesPlayed = %d, want 1 (draws stay in the denominator)", name, cs.TimesPlayed)
		}
		if cs.WinsWhenPlayed != 0 {
			t.Errorf("%s WinsWhenPlayed = %d, want 0 in a draw", name, cs.WinsWhenPlayed)
		}
	}
}

func TestAggregatorFailedMatchTouchesNoTables(t *testing.T) {
	a := NewAggregator()
	res := fixtureResult(1)
	res.Err = "iteration ceiling of 5000 reached without termination"
	res.CardPlays = []sim.CardPlayRecord{{Card: "Piercing Arrow", Player: 1}}
	res.CardsDrawn = []string{"Piercing Arrow"}
	a.RecordResult(res)

	snap := a.Snapshot()
	if len(snap.Cards) != 0 {
		t.Errorf("failed match populated %d card entries", len(snap.Cards))
	}
	if snap.Summary.MatchesFailed != 1 || snap.Summary.MatchesCompleted != 0 {
		t.Errorf("failed/completed = %d/%d, want 1/0", snap.Summary.MatchesFailed, snap.Summary.MatchesCompleted)
	}
}

func TestAggregatorKillerCredit(t *testing.T) {
	a := NewAggregator()
	res := fixtureResult(1)
	res.Rounds = []sim.RoundSummary{
		{
			Round: 3,
			Deaths: []sim.DeathRecord{
				{Champion: "p2:Beast", Killer: "p1:Brute"},
				{Champion: "p1:Ranger", Killer: "p2:Shaman"},
			},
		},
		{
			Round:  7,
			Deaths: []sim.DeathRecord{{Champion: "p2:Shaman", Killer: "p1:Brute"}},
		},
	}
	recordMatch(a, res)

	snap := a.Snapshot()
	if got := snap.Champions["Brute"].Kills; got != 2 {
		t.Errorf("Brute kills = %d, want 2", got)
	}
	if got := snap.Champions["Shaman"].Kills; got != 1 {
		t.Errorf("Shaman kills = %d, want 1", got)
	}
}

func TestAggregatorPairSeatIndependence(t *testing.T) {
	a := NewAggregator()
	// Beast+Shaman wins from seat B, then the same pair wins from seat A
	// with the names swapped in the roster.
	recordMatch(a, fixtureResult(2))
	swapped := fixtureResult(1)
	swapped.Config.RosterA = [2]string{"Shaman", "Beast"}
	swapped.Config.RosterB = [2]string{"Brute", "Ranger"}
	swapped.FinalHP = map[string]int{
		"p1:Shaman": 5, "p1:Beast": 0, "p2:Brute": 12, "p2:Ranger": 0,
	}
	recordMatch(a, swapped)

	snap := a.Snapshot()
	ps, ok := snap.Pairs["Beast+Shaman"]
	if !ok {
		t.Fatalf("pair key missing; have %v", snap.PairKeys())
	}
	if ps.Matches != 2 || ps.Wins != 2 {
		t.Errorf("Beast+Shaman matches/wins = %d/%d, want 2/2", ps.Matches, ps.Wins)
	}
	if ps.Champions != [2]string{"Beast", "Shaman"} {
		t.Errorf("pair champions = %v, want sorted [Beast Shaman]", ps.Champions)
	}

	other := snap.Pairs["Brute+Ranger"]
	if other.Losses != 2 {
		t.Errorf("Brute+Ranger losses = %d, want 2", other.Losses)
	}
}

func TestAggregatorMatchupKeepsSeats(t *testing.T) {
	a := NewAggregator()
	recordMatch(a, fixtureResult(1))
	recordMatch(a, fixtureResult(2))

	swapped := fixtureResult(1)
	swapped.Config.RosterA, swapped.Config.RosterB = swapped.Config.RosterB, swapped.Config.RosterA
	recordMatch(a, swapped)

	snap := a.Snapshot()
	if len(snap.Matchups) != 2 {
		t.Fatalf("matchup entries = %d, want 2 (seats are part of the matchup)", len(snap.Matchups))
	}
	ms := snap.Matchups["Brute+Ranger vs Beast+Shaman"]
	if ms == nil {
		t.Fatalf("matchup key missing; have %v", snap.MatchupKeys())
	}
	if ms.Matches != 2 || ms.WinsA != 1 || ms.WinsB != 1 {
		t.Errorf("matchup = %d/%d/%d, want matches 2, wins 1/1", ms.Matches, ms.WinsA, ms.WinsB)
	}
}

func TestSnapshotIsIsolatedCopy(t *testing.T) {
	a := NewAggregator()
	res := fixtureResult(1)
	res.CardPlays = []sim.CardPlayRecord{
		{Card: "Healing Rain", Player: 2, NoOp: true, NoOpReason: sim.NoOpTargetFullHP},
	}
	recordMatch(a, res)

	snap := a.Snapshot()
	before := snap.Cards["Healing Rain"].TimesNoOp

	recordMatch(a, res)

	if got := snap.Cards["Healing Rain"].TimesNoOp; got != before {
		t.Errorf("snapshot counter moved from %d to %d after further recording", before, got)
	}
	if got := snap.Summary.MatchesCompleted; got != 1 {
		t.Errorf("snapshot summary moved to %d completed", got)
	}
	if got := snap.Cards["Healing Rain"].NoOpReasons[sim.NoOpTargetFullHP]; got != 1 {
		t.Errorf("snapshot reason map moved to %d", got)
	}
}

func TestCardStatsRates(t *testing.T) {
	cs := &CardStats{TimesPlayed: 4, TimesNoOp: 2, TimesDrawn: 8, TimesDiscarded: 2, WinsWhenPlayed: 1}

	if got := cs.NoOpRate(); got != 0.5 {
		t.Errorf("NoOpRate() = %v, want 0.5", got)
	}
	if got := cs.WinRate(); got != 0.25 {
		t.Errorf("WinRate() = %v, want 0.25", got)
	}
	if got := cs.PlayRate(); got != 0.5 {
		t.Errorf("PlayRate() = %v, want 0.5", got)
	}
	if got := cs.DiscardRate(); got != 0.25 {
		t.Errorf("DiscardRate() = %v, want 0.25", got)
	}

	empty := &CardStats{}
	if empty.NoOpRate() != 0 || empty.WinRate() != 0 || empty.PlayRate() != 0 || empty.DiscardRate() != 0 {
		t.Error("zero-sample rates should all be 0")
	}
}
