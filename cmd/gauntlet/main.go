package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/warbound-games/gauntlet/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		return
	}

	switch os.Args[1] {
	case "run":
		runSessionCommand()
	case "report":
		runReportCommand()
	case "replay":
		runReplayCommand()
	case "history":
		runHistoryCommand()
	case "backup":
		runBackupCommand()
	case "migrate":
		runMigrationCommand()
	case "version":
		fmt.Printf("gauntlet %s\n", version.GetVersion())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Warbound Gauntlet - Self-Play Balance Engine")
	fmt.Println("============================================")
	fmt.Println()
	fmt.Println("Usage: gauntlet <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run        - Run a self-play session and compile the balance report")
	fmt.Println("  report     - Print a stored session report, optionally with chart dashboards")
	fmt.Println("  replay     - Verify the replay fidelity of a stored match")
	fmt.Println("  history    - List stored sessions")
	fmt.Println("  backup     - Manage results database backups")
	fmt.Println("  migrate    - Run database schema migrations")
	fmt.Println("  version    - Show build metadata")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  gauntlet run -matches 200 -p1 medium -p2 hard")
	fmt.Println("  gauntlet run -roster-a Brute+Ranger -roster-b Beast+Shaman -seed 12345")
	fmt.Println("  gauntlet run -cards balance/cards.toml -watch")
	fmt.Println("  gauntlet report -session 7f3c... -charts")
	fmt.Println("  gauntlet replay -file reports/<session>/matches/match_0003.json")
	fmt.Println("  gauntlet history -limit 10")
	fmt.Println("  gauntlet backup create -encrypt -password-env GAUNTLET_BACKUP_PWD")
	fmt.Println("  gauntlet migrate up")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  GAUNTLET_DB_PATH      Override default database path")
	fmt.Println("                        (default: ~/.warbound-gauntlet/gauntlet.db)")
	fmt.Println("  GAUNTLET_BACKUP_DIR   Override default backup directory")
	fmt.Println()
	fmt.Println("For command-specific help:")
	fmt.Println("  gauntlet <command> -h")
}

// getDBPath returns the database path from the environment variable or
// the default location.
func getDBPath() string {
	dbPath := os.Getenv("GAUNTLET_DB_PATH")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Error getting home directory: %v", err)
		}
		dbPath = filepath.Join(home, ".warbound-gauntlet", "gauntlet.db")
	}
	return dbPath
}
