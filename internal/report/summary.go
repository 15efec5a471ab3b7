package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/warbound-games/gauntlet/internal/stats"
)

// HumanSummary renders the report as terminal-friendly text. The JSON
// form carries the same data; this is the digest a balance pass starts
// from.
func (r *SessionReport) HumanSummary() string {
	var b strings.Builder

	writeHeader(&b, r)
	writeChampionTable(&b, r.Champions)
	writePairTable(&b, r.Pairs)
	writeMatchupTable(&b, r.Matchups)
	writeCardTable(&b, r.Cards)
	writeNoOpBoard(&b, r.NoOpLeaderboard)
	writeImpactBoard(&b, "Highest Win Correlation", r.TopCards)
	writeImpactBoard(&b, "Lowest Win Correlation", r.BottomCards)
	writeUnderPlayed(&b, r.UnderPlayed)
	writeDiscardAnomalies(&b, r.DiscardAnomalies)
	writeMatchErrors(&b, r.MatchErrors)

	return b.String()
}

func writeHeader(b *strings.Builder, r *SessionReport) {
	s := r.Summary

	b.WriteString("=== Gauntlet Session Report ===\n")
	b.WriteString(fmt.Sprintf("Session: %s\n", r.SessionID))
	b.WriteString(fmt.Sprintf("Base seed: %d\n", r.BaseSeed))
	b.WriteString(fmt.Sprintf("Matches: %s requested, %s completed, %s failed\n",
		formatCount(r.Requested), formatCount(s.MatchesCompleted), formatCount(s.MatchesFailed)))
	b.WriteString(fmt.Sprintf("Duration: %s\n", r.Duration))
	b.WriteString(fmt.Sprintf("Outcome: player 1 %s wins (%s), player 2 %s wins (%s), %s draws (%s)\n",
		formatCount(s.P1Wins), share(s.P1Wins, s.MatchesCompleted),
		formatCount(s.P2Wins), share(s.P2Wins, s.MatchesCompleted),
		formatCount(s.Draws), share(s.Draws, s.MatchesCompleted)))
	b.WriteString(fmt.Sprintf("Stalemates: %s\n", formatCount(s.Stalemates)))
	b.WriteString(fmt.Sprintf("Volume: %s rounds, %s turns, %s actions\n",
		formatCount(s.TotalRounds), formatCount(s.TotalTurns), formatCount(s.TotalActions)))
	b.WriteString(fmt.Sprintf("Card plays: %s total, %s no-ops (%s)\n",
		formatCount(s.TotalPlays), formatCount(s.TotalNoOps), share(s.TotalNoOps, s.TotalPlays)))
	b.WriteString(fmt.Sprintf("Streak: %s (longest runs: P1 %d, P2 %d)\n",
		stats.FormatCurrentStreak(r.Streaks.CurrentStreak),
		r.Streaks.LongestP1Streak, r.Streaks.LongestP2Streak))
	if r.Aborted {
		b.WriteString("Aborted: stopped before the requested match count\n")
	}
}

func writeChampionTable(b *strings.Builder, champions []stats.ChampionStats) {
	b.WriteString("\n=== Champions ===\n")
	if len(champions) == 0 {
		b.WriteString("(none)\n")
		return
	}
	b.WriteString(fmt.Sprintf("%-14s %7s %6s %7s %6s %7s %9s %6s\n",
		"Name", "Picks", "Wins", "Losses", "Draws", "Win%", "Survival", "Kills"))
	for _, cs := range champions {
		b.WriteString(fmt.Sprintf("%-14s %7s %6s %7s %6s %7s %9s %6s\n",
			cs.Name,
			formatCount(cs.Picks), formatCount(cs.Wins), formatCount(cs.Losses),
			formatCount(cs.Draws),
			formatPercent(cs.WinRate()), formatPercent(cs.SurvivalRate()),
			formatCount(cs.Kills)))
	}
}

func writePairTable(b *strings.Builder, pairs []stats.PairStats) {
	b.WriteString("\n=== Roster Pairs ===\n")
	if len(pairs) == 0 {
		b.WriteString("(none)\n")
		return
	}
	b.WriteString(fmt.Sprintf("%-30s %8s %6s %7s %6s %7s\n",
		"Pair", "Matches", "Wins", "Losses", "Draws", "Win%"))
	for _, ps := range pairs {
		b.WriteString(fmt.Sprintf("%-30s %8s %6s %7s %6s %7s\n",
			ps.Champions[0]+" + "+ps.Champions[1],
			formatCount(ps.Matches), formatCount(ps.Wins), formatCount(ps.Losses),
			formatCount(ps.Draws), formatPercent(ps.WinRate())))
	}
}

// writeMatchupTable keeps seats as played, so a lopsided first-seat
// win rate across many rows is the first-player-advantage signal.
func writeMatchupTable(b *strings.Builder, matchups []stats.MatchupStats) {
	b.WriteString("\n=== Matchups (seats as played) ===\n")
	if len(matchups) == 0 {
		b.WriteString("(none)\n")
		return
	}
	for _, ms := range matchups {
		key := fmt.Sprintf("%s+%s vs %s+%s",
			ms.RosterA[0], ms.RosterA[1], ms.RosterB[0], ms.RosterB[1])
		b.WriteString(fmt.Sprintf("%-44s %s matches: first seat %s (%s), second seat %s, draws %s\n",
			key, formatCount(ms.Matches),
			formatCount(ms.WinsA), share(ms.WinsA, ms.Matches),
			formatCount(ms.WinsB), formatCount(ms.Draws)))
	}
}

func writeCardTable(b *strings.Builder, cards []stats.CardStats) {
	b.WriteString("\n=== Card Usage ===\n")
	if len(cards) == 0 {
		b.WriteString("(none)\n")
		return
	}
	b.WriteString(fmt.Sprintf("%-22s %7s %7s %7s %7s %7s %6s\n",
		"Name", "Plays", "No-op%", "Win%", "Drawn", "Disc.", "Held"))
	for _, cs := range cards {
		b.WriteString(fmt.Sprintf("%-22s %7s %7s %7s %7s %7s %6s\n",
			cs.Name,
			formatCount(cs.TimesPlayed),
			formatPercent(cs.NoOpRate()), formatPercent(cs.WinRate()),
			formatCount(cs.TimesDrawn), formatCount(cs.TimesDiscarded),
			formatCount(cs.TimesHeld)))
	}
}

func writeNoOpBoard(b *strings.Builder, entries []NoOpEntry) {
	b.WriteString("\n=== No-op Leaderboard ===\n")
	if len(entries) == 0 {
		b.WriteString("No card crossed the no-op threshold.\n")
		return
	}
	for i, e := range entries {
		line := fmt.Sprintf("%2d. %-22s %s of %s plays resolved to nothing",
			i+1, e.Card, formatPercent(e.Rate), formatCount(e.Plays))
		if e.TopReason != "" {
			line += fmt.Sprintf(" (mostly %q)", e.TopReason)
		}
		b.WriteString(line + "\n")
	}
}

func writeImpactBoard(b *strings.Builder, title string, entries []ImpactEntry) {
	b.WriteString(fmt.Sprintf("\n=== %s ===\n", title))
	if len(entries) == 0 {
		b.WriteString("Not enough plays for a correlation read.\n")
		return
	}
	for i, e := range entries {
		b.WriteString(fmt.Sprintf("%2d. %-22s %s over %s plays\n",
			i+1, e.Card, formatPercent(e.WinRate), formatCount(e.Plays)))
	}
}

func writeUnderPlayed(b *strings.Builder, entries []UsageEntry) {
	b.WriteString("\n=== Under-played Cards ===\n")
	if len(entries) == 0 {
		b.WriteString("Every drawn card sees play.\n")
		return
	}
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("%-22s drawn %s, played %s (%.2f plays per draw)\n",
			e.Card, formatCount(e.Drawn), formatCount(e.Played), e.Rate))
	}
}

func writeDiscardAnomalies(b *strings.Builder, entries []UsageEntry) {
	b.WriteString("\n=== Frequently Discarded ===\n")
	if len(entries) == 0 {
		b.WriteString("No card is discarded at an unusual rate.\n")
		return
	}
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("%-22s discarded %s of %s draws (%s)\n",
			e.Card, formatCount(e.Discarded), formatCount(e.Drawn), formatPercent(e.Rate)))
	}
}

func writeMatchErrors(b *strings.Builder, errs []MatchError) {
	if len(errs) == 0 {
		return
	}
	b.WriteString("\n=== Match Errors ===\n")
	for _, e := range errs {
		b.WriteString(fmt.Sprintf("match %d (seed %d): %s\n", e.Index, e.Seed, e.Err))
	}
}

// Helper functions

func formatCount(n int) string {
	s := strconv.Itoa(n)
	if n < 0 || len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func formatPercent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

func share(n, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return formatPercent(float64(n) / float64(total))
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1f minutes", d.Minutes())
	}
	return fmt.Sprintf("%.1f hours", d.Hours())
}
