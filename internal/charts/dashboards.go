package charts

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/warbound-games/gauntlet/internal/report"
	"github.com/warbound-games/gauntlet/internal/sim"
	"github.com/warbound-games/gauntlet/internal/stats"
)

// RenderSessionDashboards writes the balance dashboards for one
// compiled session into dir and returns the paths it wrote. Charts
// with no data are skipped rather than rendered empty.
func RenderSessionDashboards(rep *report.SessionReport, results []*sim.MatchResult, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create chart directory: %w", err)
	}
	subtitle := fmt.Sprintf("session %s, %s matches", rep.SessionID, formatMatchCount(rep.Summary.MatchesCompleted))
	var written []string

	if points := championWinRates(rep.Champions); len(points) > 0 {
		cfg := DefaultChartConfig()
		cfg.Title = "Champion Win Rates"
		cfg.Subtitle = subtitle
		path := filepath.Join(dir, "champion_win_rates.html")
		if err := RenderBarChart(points, "Win %", cfg, path); err != nil {
			return written, fmt.Errorf("champion win rates: %w", err)
		}
		written = append(written, path)
	}

	if points := cardNoOpRates(rep.Cards); len(points) > 0 {
		cfg := DefaultChartConfig()
		cfg.Title = "Card No-op Rates"
		cfg.Subtitle = subtitle
		path := filepath.Join(dir, "card_no_op_rates.html")
		if err := RenderBarChart(points, "No-op %", cfg, path); err != nil {
			return written, fmt.Errorf("card no-op rates: %w", err)
		}
		written = append(written, path)
	}

	if points := firstSeatShares(rep.Matchups); len(points) > 0 {
		cfg := DefaultChartConfig()
		cfg.Title = "First-Seat Win Share by Matchup"
		cfg.Subtitle = subtitle
		path := filepath.Join(dir, "matchup_first_seat.html")
		if err := RenderBarChart(points, "First seat %", cfg, path); err != nil {
			return written, fmt.Errorf("matchup first seat: %w", err)
		}
		written = append(written, path)
	}

	if series := seatWinTrend(results); len(series) > 0 {
		cfg := DefaultChartConfig()
		cfg.Title = "Cumulative Seat Win Rate"
		cfg.Subtitle = subtitle
		path := filepath.Join(dir, "seat_win_trend.html")
		if err := RenderMultiLineChart(series, cfg, path); err != nil {
			return written, fmt.Errorf("seat win trend: %w", err)
		}
		written = append(written, path)
	}

	return written, nil
}

func championWinRates(champions []stats.ChampionStats) []DataPoint {
	points := make([]DataPoint, 0, len(champions))
	for _, cs := range champions {
		points = append(points, DataPoint{Label: cs.Name, Value: round1(cs.WinRate() * 100)})
	}
	return points
}

// cardNoOpRates charts only cards that were actually cast; an unplayed
// card has no rate to show.
func cardNoOpRates(cards []stats.CardStats) []DataPoint {
	var points []DataPoint
	for _, cs := range cards {
		if cs.TimesPlayed == 0 {
			continue
		}
		points = append(points, DataPoint{Label: cs.Name, Value: round1(cs.NoOpRate() * 100)})
	}
	return points
}

// firstSeatShares plots the first seat's win share per matchup. A
// cluster of bars above 50 across different rosters reads as
// first-player advantage.
func firstSeatShares(matchups []stats.MatchupStats) []DataPoint {
	var points []DataPoint
	for _, ms := range matchups {
		if ms.Matches == 0 {
			continue
		}
		label := fmt.Sprintf("%s+%s vs %s+%s",
			ms.RosterA[0], ms.RosterA[1], ms.RosterB[0], ms.RosterB[1])
		points = append(points, DataPoint{
			Label: label,
			Value: round1(float64(ms.WinsA) / float64(ms.Matches) * 100),
		})
	}
	return points
}

// seatWinTrend tracks each seat's cumulative win rate over the
// session's completed matches, one point per match.
func seatWinTrend(results []*sim.MatchResult) []SeriesData {
	var p1Points, p2Points []DataPoint
	completed, p1Wins, p2Wins := 0, 0, 0
	for _, res := range results {
		if res.Failed() {
			continue
		}
		completed++
		switch res.Winner {
		case 1:
			p1Wins++
		case 2:
			p2Wins++
		}
		label := strconv.Itoa(completed)
		p1Points = append(p1Points, DataPoint{Label: label, Value: round1(float64(p1Wins) / float64(completed) * 100)})
		p2Points = append(p2Points, DataPoint{Label: label, Value: round1(float64(p2Wins) / float64(completed) * 100)})
	}
	if len(p1Points) == 0 {
		return nil
	}
	return []SeriesData{
		{Name: "Player 1", Points: p1Points},
		{Name: "Player 2", Points: p2Points},
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func formatMatchCount(n int) string {
	if n >= 1000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return strconv.Itoa(n)
}
