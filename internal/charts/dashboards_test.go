package charts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/warbound-games/gauntlet/internal/report"
	"github.com/warbound-games/gauntlet/internal/sim"
	"github.com/warbound-games/gauntlet/internal/stats"
)

func TestChampionWinRates(t *testing.T) {
	points := championWinRates([]stats.ChampionStats{
		{Name: "Brute", Wins: 3, Losses: 1},
		{Name: "Ranger", Wins: 1, Losses: 2},
	})
	if len(points) != 2 {
		t.Fatalf("points length = %d, want 2", len(points))
	}
	if points[0].Label != "Brute" || points[0].Value != 75.0 {
		t.Errorf("points[0] = %v/%v, want Brute/75", points[0].Label, points[0].Value)
	}
	if points[1].Value != 33.3 {
		t.Errorf("Ranger win rate = %v, want 33.3", points[1].Value)
	}
}

func TestCardNoOpRatesSkipsUnplayed(t *testing.T) {
	points := cardNoOpRates([]stats.CardStats{
		{Name: "Hex", TimesDrawn: 10},
		{Name: "Piercing Arrow", TimesPlayed: 4, TimesNoOp: 1},
	})
	if len(points) != 1 {
		t.Fatalf("points length = %d, want 1", len(points))
	}
	if points[0].Label != "Piercing Arrow" || points[0].Value != 25.0 {
		t.Errorf("points[0] = %v/%v, want Piercing Arrow/25", points[0].Label, points[0].Value)
	}
}

func TestFirstSeatShares(t *testing.T) {
	points := firstSeatShares([]stats.MatchupStats{
		{
			RosterA: [2]string{"Brute", "Ranger"},
			RosterB: [2]string{"Beast", "Shaman"},
			Matches: 8, WinsA: 6, WinsB: 2,
		},
		{Matches: 0},
	})
	if len(points) != 1 {
		t.Fatalf("points length = %d, want 1", len(points))
	}
	if points[0].Label != "Brute+Ranger vs Beast+Shaman" {
		t.Errorf("label = %q, want Brute+Ranger vs Beast+Shaman", points[0].Label)
	}
	if points[0].Value != 75.0 {
		t.Errorf("first-seat share = %v, want 75", points[0].Value)
	}
}

func TestSeatWinTrendSkipsFailedMatches(t *testing.T) {
	series := seatWinTrend([]*sim.MatchResult{
		{Winner: 1},
		{Err: "engine setup failed"},
		{Winner: 2},
		{Winner: 1},
	})
	if len(series) != 2 {
		t.Fatalf("series length = %d, want 2", len(series))
	}
	p1 := series[0]
	if p1.Name != "Player 1" || len(p1.Points) != 3 {
		t.Fatalf("series[0] = %s with %d points, want Player 1 with 3", p1.Name, len(p1.Points))
	}
	wantP1 := []float64{100.0, 50.0, 66.7}
	for i, want := range wantP1 {
		if p1.Points[i].Value != want {
			t.Errorf("P1 point %d = %v, want %v", i, p1.Points[i].Value, want)
		}
	}
	if series[1].Points[2].Value != 33.3 {
		t.Errorf("P2 final = %v, want 33.3", series[1].Points[2].Value)
	}
}

func TestSeatWinTrendEmpty(t *testing.T) {
	if series := seatWinTrend(nil); series != nil {
		t.Errorf("seatWinTrend(nil) = %v, want nil", series)
	}
}

func TestRenderSessionDashboards(t *testing.T) {
	dir := t.TempDir()
	rep := &report.SessionReport{
		SessionID: "sess-charts",
		Champions: []stats.ChampionStats{{Name: "Brute", Wins: 2, Losses: 1}},
		Cards:     []stats.CardStats{{Name: "Hex", TimesPlayed: 5, TimesNoOp: 2}},
		Matchups: []stats.MatchupStats{{
			RosterA: [2]string{"Brute", "Ranger"},
			RosterB: [2]string{"Beast", "Shaman"},
			Matches: 3, WinsA: 2, WinsB: 1,
		}},
	}
	results := []*sim.MatchResult{{Winner: 1}, {Winner: 2}, {Winner: 1}}

	written, err := RenderSessionDashboards(rep, results, dir)
	if err != nil {
		t.Fatalf("RenderSessionDashboards error: %v", err)
	}
	wantFiles := []string{
		"champion_win_rates.html",
		"card_no_op_rates.html",
		"matchup_first_seat.html",
		"seat_win_trend.html",
	}
	if len(written) != len(wantFiles) {
		t.Fatalf("wrote %d files, want %d", len(written), len(wantFiles))
	}
	for i, name := range wantFiles {
		if filepath.Base(written[i]) != name {
			t.Errorf("written[%d] = %s, want %s", i, filepath.Base(written[i]), name)
		}
		data, err := os.ReadFile(written[i])
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		if !strings.Contains(string(data), "echarts") {
			t.Errorf("%s does not look like an echarts page", name)
		}
	}
}
