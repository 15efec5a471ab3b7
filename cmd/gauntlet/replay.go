package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/warbound-games/gauntlet/internal/replay"
	"github.com/warbound-games/gauntlet/internal/sim"
	"github.com/warbound-games/gauntlet/internal/storage"
)

// runReplayCommand handles the replay command: re-run a recorded match
// from its seed and verify the stored record reproduces exactly.
func runReplayCommand() {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	file := fs.String("file", "", "Match record JSON file to verify")
	sessionID := fs.String("session", "", "Session ID holding the stored match")
	matchIndex := fs.Int("match", -1, "Match index within the session")
	cardsPath := fs.String("cards", "", "Card set file the match was played with (default: built-in set)")
	dbPath := fs.String("db-path", "", "Database path (default: GAUNTLET_DB_PATH)")

	fs.Usage = func() {
		fmt.Println("Usage: gauntlet replay -file <match.json>")
		fmt.Println("       gauntlet replay -session <id> -match <index>")
		fmt.Println()
		fmt.Println("Re-runs a recorded match with its stored seed and checks that the")
		fmt.Println("action log, outcome, and final HP reproduce exactly. Use the card")
		fmt.Println("set the match was originally played with.")
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(os.Args[2:]); err != nil {
		log.Fatalf("Error parsing flags: %v", err)
	}

	var recorded *sim.MatchResult
	switch {
	case *file != "" && *sessionID != "":
		fmt.Fprintln(os.Stderr, "Error: -file and -session are mutually exclusive")
		fs.Usage()
		os.Exit(1)
	case *file != "":
		var err error
		recorded, err = replay.LoadFile(*file)
		if err != nil {
			log.Fatalf("Error loading match file: %v", err)
		}
	case *sessionID != "":
		if *matchIndex < 0 {
			fmt.Fprintln(os.Stderr, "Error: -session needs -match <index>")
			fs.Usage()
			os.Exit(1)
		}
		db := openDatabase(*dbPath)
		service := storage.NewService(db)
		var err error
		recorded, err = service.LoadMatchResult(context.Background(), *sessionID, *matchIndex)
		_ = db.Close()
		if err != nil {
			log.Fatalf("Error loading match %d of session %s: %v", *matchIndex, *sessionID, err)
		}
	default:
		fs.Usage()
		os.Exit(1)
	}

	store, err := loadStoreAt(*cardsPath)
	if err != nil {
		log.Fatalf("Error loading card data: %v", err)
	}

	verification, err := replay.Verify(store, recorded)
	if err != nil {
		log.Fatalf("Error verifying replay: %v", err)
	}

	fmt.Printf("Match %d, seed %d: %d recorded actions, %d replayed\n",
		recorded.Config.Index, verification.SeedUsed,
		verification.RecordedActions, verification.ReplayedActions)

	if verification.Clean() {
		fmt.Println("✓ Replay verified: action log, outcome, and final HP all reproduce")
		return
	}

	fmt.Printf("✗ Replay diverged (%d findings):\n", len(verification.Divergences))
	for _, d := range verification.Divergences {
		if d.Seq >= 0 {
			fmt.Printf("  [%s] action %d: %s\n", d.Kind, d.Seq, d.Detail)
		} else {
			fmt.Printf("  [%s] %s\n", d.Kind, d.Detail)
		}
	}
	os.Exit(1)
}
