package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/warbound-games/gauntlet/internal/storage"
)

// runMigrationCommand handles the migrate command group.
func runMigrationCommand() {
	dbPath := getDBPath()

	if len(os.Args) < 3 {
		printMigrationUsage()
		os.Exit(1)
	}
	command := os.Args[2]

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		log.Fatalf("Error creating database directory: %v", err)
	}

	manager, err := storage.NewMigrationManager(dbPath)
	if err != nil {
		log.Fatalf("Error creating migration manager: %v", err)
	}
	defer func() { _ = manager.Close() }()

	switch command {
	case "up":
		if err := manager.Up(); err != nil {
			log.Fatalf("Error applying migrations: %v", err)
		}
		fmt.Println("✓ Migrations applied successfully")

	case "down":
		if err := manager.Down(); err != nil {
			log.Fatalf("Error rolling back migration: %v", err)
		}
		fmt.Println("✓ Rolled back one migration")

	case "status", "version":
		version, dirty, err := manager.Version()
		if err != nil {
			log.Fatalf("Error getting migration version: %v", err)
		}
		if version == 0 {
			fmt.Println("No migrations have been applied yet")
			return
		}
		fmt.Printf("Current migration version: %d\n", version)
		if dirty {
			fmt.Println("WARNING: database is in a dirty state from a failed migration")
			fmt.Println("Use 'gauntlet migrate force <version>' to recover")
		}

	case "goto":
		if len(os.Args) < 4 {
			fmt.Println("Error: target version required")
			fmt.Println("Usage: gauntlet migrate goto <version>")
			os.Exit(1)
		}
		version, err := strconv.ParseUint(os.Args[3], 10, 32)
		if err != nil {
			log.Fatalf("Invalid version number: %s", os.Args[3])
		}
		if err := manager.Goto(uint(version)); err != nil {
			log.Fatalf("Error migrating to version %d: %v", version, err)
		}
		fmt.Printf("✓ Migrated to version %d\n", version)

	case "force":
		if len(os.Args) < 4 {
			fmt.Println("Error: version required")
			fmt.Println("Usage: gauntlet migrate force <version>")
			os.Exit(1)
		}
		version, err := strconv.Atoi(os.Args[3])
		if err != nil {
			log.Fatalf("Invalid version number: %s", os.Args[3])
		}
		if err := manager.Force(version); err != nil {
			log.Fatalf("Error forcing version %d: %v", version, err)
		}
		fmt.Printf("✓ Forced migration version to %d\n", version)

	case "help", "-h", "--help":
		printMigrationUsage()

	default:
		fmt.Printf("Unknown migrate command: %s\n\n", command)
		printMigrationUsage()
		os.Exit(1)
	}
}

func printMigrationUsage() {
	fmt.Println("Usage: gauntlet migrate <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  up               Apply all pending migrations")
	fmt.Println("  down             Roll back the last migration")
	fmt.Println("  status           Show the current migration version")
	fmt.Println("  goto <version>   Migrate up or down to a specific version")
	fmt.Println("  force <version>  Set the version without running migrations")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  GAUNTLET_DB_PATH   Database path (default: ~/.warbound-gauntlet/gauntlet.db)")
}
