package export

import (
	"fmt"
	"path/filepath"

	"github.com/warbound-games/gauntlet/internal/report"
	"github.com/warbound-games/gauntlet/internal/sim"
)

// CardRow flattens per-card statistics for spreadsheet analysis.
type CardRow struct {
	Name      string  `csv:"name"`
	Played    int     `csv:"times_played"`
	NoOps     int     `csv:"times_no_op"`
	NoOpRate  float64 `csv:"no_op_rate"`
	WinRate   float64 `csv:"win_rate"`
	Drawn     int     `csv:"times_drawn"`
	Discarded int     `csv:"times_discarded"`
	Held      int     `csv:"times_held"`
	Damage    int     `csv:"total_damage"`
	Heal      int     `csv:"total_heal"`
	Buff      int     `csv:"total_buff"`
	Debuff    int     `csv:"total_debuff"`
	Movement  int     `csv:"total_movement"`
	Draw      int     `csv:"total_draw"`
	Mana      int     `csv:"total_mana"`
}

// ChampionRow flattens per-champion outcomes.
type ChampionRow struct {
	Name         string  `csv:"name"`
	Picks        int     `csv:"picks"`
	Wins         int     `csv:"wins"`
	Losses       int     `csv:"losses"`
	Draws        int     `csv:"draws"`
	WinRate      float64 `csv:"win_rate"`
	Survived     int     `csv:"survived"`
	Died         int     `csv:"died"`
	SurvivalRate float64 `csv:"survival_rate"`
	Kills        int     `csv:"kills"`
}

// WriteSessionArtifacts writes a compiled session to dir: report.json
// always, plus summary.txt, cards.csv, and champions.csv unless
// jsonOnly is set. Returns the paths written.
func WriteSessionArtifacts(rep *report.SessionReport, dir string, jsonOnly bool) ([]string, error) {
	base := NewExportBuilder().WithOverwrite(true)
	var written []string

	reportPath := filepath.Join(dir, "report.json")
	if err := base.Clone().WithPrettyJSON(true).WithFilePath(reportPath).Export(rep); err != nil {
		return written, fmt.Errorf("write report: %w", err)
	}
	written = append(written, reportPath)

	if jsonOnly {
		return written, nil
	}

	summaryPath := filepath.Join(dir, "summary.txt")
	if err := base.Clone().WithFormat(FormatText).WithFilePath(summaryPath).Export(rep.HumanSummary()); err != nil {
		return written, fmt.Errorf("write summary: %w", err)
	}
	written = append(written, summaryPath)

	if rows := cardRows(rep); len(rows) > 0 {
		path := filepath.Join(dir, "cards.csv")
		if err := base.Clone().WithFormat(FormatCSV).WithFilePath(path).Export(rows); err != nil {
			return written, fmt.Errorf("write card table: %w", err)
		}
		written = append(written, path)
	}

	if rows := championRows(rep); len(rows) > 0 {
		path := filepath.Join(dir, "champions.csv")
		if err := base.Clone().WithFormat(FormatCSV).WithFilePath(path).Export(rows); err != nil {
			return written, fmt.Errorf("write champion table: %w", err)
		}
		written = append(written, path)
	}

	return written, nil
}

// WriteMatchResults writes each match record as its own JSON file
// under dir/matches, the format the replay verifier consumes.
func WriteMatchResults(results []*sim.MatchResult, dir string) ([]string, error) {
	base := NewExportBuilder().WithPrettyJSON(true).WithOverwrite(true)
	var written []string

	for _, res := range results {
		path := filepath.Join(dir, "matches", fmt.Sprintf("match_%04d.json", res.Config.Index))
		if err := base.Clone().WithFilePath(path).Export(res); err != nil {
			return written, fmt.Errorf("write match %d: %w", res.Config.Index, err)
		}
		written = append(written, path)
	}

	return written, nil
}

func cardRows(rep *report.SessionReport) []CardRow {
	rows := make([]CardRow, 0, len(rep.Cards))
	for i := range rep.Cards {
		cs := &rep.Cards[i]
		rows = append(rows, CardRow{
			Name:      cs.Name,
			Played:    cs.TimesPlayed,
			NoOps:     cs.TimesNoOp,
			NoOpRate:  cs.NoOpRate(),
			WinRate:   cs.WinRate(),
			Drawn:     cs.TimesDrawn,
			Discarded: cs.TimesDiscarded,
			Held:      cs.TimesHeld,
			Damage:    cs.Totals.Damage,
			Heal:      cs.Totals.Heal,
			Buff:      cs.Totals.Buff,
			Debuff:    cs.Totals.Debuff,
			Movement:  cs.Totals.Movement,
			Draw:      cs.Totals.Draw,
			Mana:      cs.Totals.Mana,
		})
	}
	return rows
}

func championRows(rep *report.SessionReport) []ChampionRow {
	rows := make([]ChampionRow, 0, len(rep.Champions))
	for i := range rep.Champions {
		cs := &rep.Champions[i]
		rows = append(rows, ChampionRow{
			Name:         cs.Name,
			Picks:        cs.Picks,
			Wins:         cs.Wins,
			Losses:       cs.Losses,
			Draws:        cs.Draws,
			WinRate:      cs.WinRate(),
			Survived:     cs.Survived,
			Died:         cs.Died,
			SurvivalRate: cs.SurvivalRate(),
			Kills:        cs.Kills,
		})
	}
	return rows
}
