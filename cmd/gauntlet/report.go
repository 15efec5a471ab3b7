package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/warbound-games/gauntlet/internal/charts"
	"github.com/warbound-games/gauntlet/internal/storage"
)

// runReportCommand handles the report command: print a stored session's
// summary, optionally rendering its chart dashboards.
func runReportCommand() {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	sessionID := fs.String("session", "", "Session ID (default: the most recent session)")
	chartsOn := fs.Bool("charts", false, "Render HTML chart dashboards for the session")
	output := fs.String("output", "", "Directory for rendered dashboards (default: reports/<session>)")
	open := fs.Bool("open", false, "Open the first rendered dashboard in the browser (implies -charts)")
	dbPath := fs.String("db-path", "", "Database path (default: GAUNTLET_DB_PATH)")

	if err := fs.Parse(os.Args[2:]); err != nil {
		log.Fatalf("Error parsing flags: %v", err)
	}

	db := openDatabase(*dbPath)
	defer func() { _ = db.Close() }()
	service := storage.NewService(db)

	ctx := context.Background()

	id := *sessionID
	if id == "" {
		sessions, err := service.ListSessions(ctx, 1)
		if err != nil {
			log.Fatalf("Error listing sessions: %v", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions recorded.")
			return
		}
		id = sessions[0].ID
	}

	rep, err := service.LoadReport(ctx, id)
	if err != nil {
		log.Fatalf("Error loading report for session %s: %v", id, err)
	}

	fmt.Println(rep.HumanSummary())

	if *chartsOn || *open {
		results, err := service.LoadMatchResults(ctx, id)
		if err != nil {
			log.Fatalf("Error loading match records for session %s: %v", id, err)
		}
		dir := *output
		if dir == "" {
			dir = filepath.Join("reports", id)
		}
		rendered, err := charts.RenderSessionDashboards(rep, results, dir)
		if err != nil {
			log.Fatalf("Error rendering charts: %v", err)
		}
		for _, p := range rendered {
			fmt.Printf("Chart written: %s\n", p)
		}
		if *open && len(rendered) > 0 {
			if err := charts.OpenInBrowser(rendered[0]); err != nil {
				log.Printf("Could not open browser: %v", err)
			}
		}
	}
}
