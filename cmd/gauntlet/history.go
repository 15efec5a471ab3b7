package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/warbound-games/gauntlet/internal/storage"
	"github.com/warbound-games/gauntlet/internal/storage/models"
)

// sessionRow is the trimmed listing form of a stored session. The full
// report stays out of it; use the report command for that.
type sessionRow struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"startedAt"`
	Matches      int       `json:"matches"`
	Completed    bool      `json:"completed"`
	DifficultyP1 string    `json:"difficultyP1"`
	DifficultyP2 string    `json:"difficultyP2"`
	BaseSeed     int64     `json:"baseSeed"`
	P1Wins       int       `json:"p1Wins"`
	P2Wins       int       `json:"p2Wins"`
	Draws        int       `json:"draws"`
	Errors       int       `json:"errors"`
}

// runHistoryCommand handles the history command: list stored sessions,
// newest first.
func runHistoryCommand() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Maximum number of sessions to list (0 = all)")
	format := fs.String("format", "table", "Output format: 'table' or 'json'")
	dbPath := fs.String("db-path", "", "Database path (default: GAUNTLET_DB_PATH)")

	if err := fs.Parse(os.Args[2:]); err != nil {
		log.Fatalf("Error parsing flags: %v", err)
	}

	db := openDatabase(*dbPath)
	defer func() { _ = db.Close() }()
	service := storage.NewService(db)

	sessions, err := service.ListSessions(context.Background(), *limit)
	if err != nil {
		log.Fatalf("Error listing sessions: %v", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded.")
		return
	}

	switch *format {
	case "json":
		rows := make([]sessionRow, 0, len(sessions))
		for _, s := range sessions {
			rows = append(rows, toSessionRow(s))
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(rows); err != nil {
			log.Fatalf("Error encoding JSON: %v", err)
		}
	case "table":
		printSessionTable(sessions)
	default:
		log.Fatalf("Invalid format: %s (must be 'table' or 'json')", *format)
	}
}

func toSessionRow(s *models.Session) sessionRow {
	return sessionRow{
		ID:           s.ID,
		StartedAt:    s.StartedAt,
		Matches:      s.MatchCount,
		Completed:    s.Completed,
		DifficultyP1: s.DifficultyP1,
		DifficultyP2: s.DifficultyP2,
		BaseSeed:     s.BaseSeed,
		P1Wins:       s.P1Wins,
		P2Wins:       s.P2Wins,
		Draws:        s.Draws,
		Errors:       s.Errors,
	}
}

func printSessionTable(sessions []*models.Session) {
	fmt.Printf("\nStored Sessions (%d)\n", len(sessions))
	fmt.Println("====================")
	fmt.Println()

	for i, s := range sessions {
		status := "completed"
		if !s.Completed {
			status = "aborted"
		}
		fmt.Printf("%d. [%s] %s\n", i+1, s.StartedAt.Format("2006-01-02 15:04"), s.ID)
		fmt.Printf("   Matches:    %d (%s)\n", s.MatchCount, status)
		fmt.Printf("   Score:      %d-%d, %d draws, %d errors\n", s.P1Wins, s.P2Wins, s.Draws, s.Errors)
		fmt.Printf("   Difficulty: %s vs %s\n", s.DifficultyP1, s.DifficultyP2)
		fmt.Printf("   Base seed:  %d\n", s.BaseSeed)
		fmt.Println()
	}
}
