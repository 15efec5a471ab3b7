package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/warbound-games/gauntlet/internal/report"
	"github.com/warbound-games/gauntlet/internal/sim"
	"github.com/warbound-games/gauntlet/internal/stats"
)

func sampleReport() *report.SessionReport {
	return &report.SessionReport{
		SessionID: "sess-export",
		BaseSeed:  77,
		Requested: 2,
		Summary:   stats.Summary{MatchesStarted: 2, MatchesCompleted: 2, P1Wins: 1, P2Wins: 1},
		Cards: []stats.CardStats{
			{Name: "Hex", TimesPlayed: 3, TimesNoOp: 1, TimesDrawn: 5, WinsWhenPlayed: 2},
		},
		Champions: []stats.ChampionStats{
			{Name: "Brute", Picks: 2, Wins: 1, Losses: 1, Survived: 1, Died: 1, Kills: 2},
		},
	}
}

func TestWriteSessionArtifacts(t *testing.T) {
	dir := t.TempDir()

	written, err := WriteSessionArtifacts(sampleReport(), dir, false)
	if err != nil {
		t.Fatalf("WriteSessionArtifacts error: %v", err)
	}

	wantFiles := []string{"report.json", "summary.txt", "cards.csv", "champions.csv"}
	if len(written) != len(wantFiles) {
		t.Fatalf("wrote %d files, want %d: %v", len(written), len(wantFiles), written)
	}
	for i, name := range wantFiles {
		if filepath.Base(written[i]) != name {
			t.Errorf("written[%d] = %s, want %s", i, filepath.Base(written[i]), name)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "report.json"))
	if err != nil {
		t.Fatalf("reading report.json: %v", err)
	}
	var decoded report.SessionReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report.json does not parse: %v", err)
	}
	if decoded.SessionID != "sess-export" {
		t.Errorf("decoded session = %q, want sess-export", decoded.SessionID)
	}

	csvData, err := os.ReadFile(filepath.Join(dir, "cards.csv"))
	if err != nil {
		t.Fatalf("reading cards.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(csvData)), "\n")
	if len(lines) != 2 {
		t.Fatalf("cards.csv line count = %d, want header plus 1 row", len(lines))
	}
	if !strings.HasPrefix(lines[0], "name,times_played,times_no_op,no_op_rate,win_rate") {
		t.Errorf("cards.csv header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Hex,3,1,") {
		t.Errorf("cards.csv row = %q", lines[1])
	}
}

func TestWriteSessionArtifactsJSONOnly(t *testing.T) {
	dir := t.TempDir()

	written, err := WriteSessionArtifacts(sampleReport(), dir, true)
	if err != nil {
		t.Fatalf("WriteSessionArtifacts error: %v", err)
	}
	if len(written) != 1 || filepath.Base(written[0]) != "report.json" {
		t.Fatalf("written = %v, want report.json only", written)
	}
	if _, err := os.Stat(filepath.Join(dir, "summary.txt")); !os.IsNotExist(err) {
		t.Error("summary.txt written despite jsonOnly")
	}
}

func TestWriteMatchResults(t *testing.T) {
	dir := t.TempDir()
	results := []*sim.MatchResult{
		{Config: sim.MatchConfig{Index: 0}, SeedUsed: 101, Winner: 1},
		{Config: sim.MatchConfig{Index: 1}, SeedUsed: 202, Winner: 2},
	}

	written, err := WriteMatchResults(results, dir)
	if err != nil {
		t.Fatalf("WriteMatchResults error: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("wrote %d files, want 2", len(written))
	}
	if filepath.Base(written[1]) != "match_0001.json" {
		t.Errorf("second file = %s, want match_0001.json", filepath.Base(written[1]))
	}

	data, err := os.ReadFile(written[1])
	if err != nil {
		t.Fatalf("reading match file: %v", err)
	}
	var decoded sim.MatchResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("match file does not parse: %v", err)
	}
	if decoded.SeedUsed != 202 || decoded.Winner != 2 {
		t.Errorf("decoded match = seed %d winner %d, want 202/2", decoded.SeedUsed, decoded.Winner)
	}
}
