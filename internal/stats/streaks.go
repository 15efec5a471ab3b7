package stats

import (
	"fmt"

	"github.com/warbound-games/gauntlet/internal/sim"
)

// StreakStats captures run-length patterns across a session's matches
// in execution order. A long single-seat run in a mirrored matchup is
// a first-player-advantage signal worth flagging.
type StreakStats struct {
	// CurrentStreak is positive for a running player 1 streak, negative
	// for a player 2 streak, zero after a draw or failed match.
	CurrentStreak   int `json:"current_streak"`
	LongestP1Streak int `json:"longest_p1_streak"`
	LongestP2Streak int `json:"longest_p2_streak"`
}

// CalculateStreaks walks results in match order. Draws and failed
// matches break any running streak.
func CalculateStreaks(results []*sim.MatchResult) *StreakStats {
	stats := &StreakStats{}
	p1Run := 0
	p2Run := 0

	for _, res := range results {
		if res == nil || res.Failed() {
			p1Run, p2Run = 0, 0
			continue
		}
		switch res.Winner {
		case 1:
			p1Run++
			p2Run = 0
			if p1Run > stats.LongestP1Streak {
				stats.LongestP1Streak = p1Run
			}
		case 2:
			p2Run++
			p1Run = 0
			if p2Run > stats.LongestP2Streak {
				stats.LongestP2Streak = p2Run
			}
		default:
			p1Run, p2Run = 0, 0
		}
	}

	if p1Run > 0 {
		stats.CurrentStreak = p1Run
	} else if p2Run > 0 {
		stats.CurrentStreak = -p2Run
	}
	return stats
}

// FormatCurrentStreak returns a human-readable string for a streak
// value from StreakStats.CurrentStreak.
func FormatCurrentStreak(streak int) string {
	if streak == 0 {
		return "no active streak"
	}
	if streak > 0 {
		if streak == 1 {
			return "player 1 won the last match"
		}
		return fmt.Sprintf("player 1 won the last %d matches", streak)
	}
	n := -streak
	if n == 1 {
		return "player 2 won the last match"
	}
	return fmt.Sprintf("player 2 won the last %d matches", n)
}
