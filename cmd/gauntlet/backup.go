package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/warbound-games/gauntlet/internal/storage"
)

// runBackupCommand handles the backup command group: create, restore,
// list, verify.
func runBackupCommand() {
	dbPath := getDBPath()

	if len(os.Args) < 3 {
		printBackupUsage()
		os.Exit(1)
	}

	switch os.Args[2] {
	case "create":
		runBackupCreate(dbPath)
	case "restore":
		runBackupRestore(dbPath)
	case "list", "ls":
		runBackupList(dbPath)
	case "verify":
		runBackupVerify()
	case "help", "-h", "--help":
		printBackupUsage()
	default:
		fmt.Printf("Unknown backup command: %s\n\n", os.Args[2])
		printBackupUsage()
		os.Exit(1)
	}
}

func runBackupCreate(dbPath string) {
	fs := flag.NewFlagSet("backup create", flag.ExitOnError)
	dir := fs.String("dir", os.Getenv("GAUNTLET_BACKUP_DIR"), "Backup directory (default: <db dir>/backups)")
	name := fs.String("name", "", "Backup file name without extension (default: timestamped)")
	encrypt := fs.Bool("encrypt", false, "Encrypt the backup with AES-256-GCM")
	password := fs.String("password", "", "Encryption password (prefer -password-env)")
	passwordEnv := fs.String("password-env", "", "Environment variable holding the encryption password")
	verify := fs.Bool("verify", true, "Verify backup integrity after creation")

	if err := fs.Parse(os.Args[3:]); err != nil {
		log.Fatalf("Error parsing flags: %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		log.Fatalf("Database file does not exist: %s", dbPath)
	}

	// Resolve the password before touching anything so a missing one
	// doesn't leave a plaintext backup behind.
	var encPassword string
	if *encrypt {
		encPassword = resolveBackupPassword(*password, *passwordEnv)
	}

	bm := storage.NewBackupManager(dbPath)
	backupConfig := storage.DefaultBackupConfig()
	backupConfig.BackupDir = *dir
	backupConfig.BackupName = *name
	backupConfig.VerifyBackup = *verify

	backupPath, err := bm.Backup(backupConfig)
	if err != nil {
		log.Fatalf("Error creating backup: %v", err)
	}

	if *encrypt {
		encPath := backupPath + ".enc"
		if err := storage.EncryptFile(backupPath, encPath, storage.DefaultEncryptionConfig(encPassword)); err != nil {
			_ = os.Remove(encPath)
			log.Fatalf("Error encrypting backup: %v", err)
		}
		if err := os.Remove(backupPath); err != nil {
			log.Fatalf("Error removing plaintext backup: %v", err)
		}
		backupPath = encPath
	}

	fmt.Println("✓ Backup created successfully")
	fmt.Printf("  Location: %s\n", backupPath)
	if info, err := os.Stat(backupPath); err == nil {
		fmt.Printf("  Size:     %s\n", formatBytes(info.Size()))
	}
	if *encrypt {
		fmt.Println("  Encrypted: yes")
	}
}

func runBackupRestore(dbPath string) {
	fs := flag.NewFlagSet("backup restore", flag.ExitOnError)
	password := fs.String("password", "", "Decryption password (prefer -password-env)")
	passwordEnv := fs.String("password-env", "", "Environment variable holding the decryption password")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")

	if err := fs.Parse(os.Args[3:]); err != nil {
		log.Fatalf("Error parsing flags: %v", err)
	}
	if fs.NArg() < 1 {
		fmt.Println("Error: backup file required")
		fmt.Println("Usage: gauntlet backup restore [options] <backup-file>")
		os.Exit(1)
	}
	backupPath := fs.Arg(0)

	encrypted, err := storage.IsEncrypted(backupPath)
	if err != nil {
		log.Fatalf("Error inspecting backup file: %v", err)
	}

	restorePath := backupPath
	if encrypted {
		pwd := resolveBackupPassword(*password, *passwordEnv)
		tmp, err := os.CreateTemp("", "gauntlet-restore-*.db")
		if err != nil {
			log.Fatalf("Error creating temporary file: %v", err)
		}
		tmpPath := tmp.Name()
		_ = tmp.Close()
		defer func() { _ = os.Remove(tmpPath) }()

		if err := storage.DecryptFile(backupPath, tmpPath, storage.DefaultEncryptionConfig(pwd)); err != nil {
			_ = os.Remove(tmpPath)
			log.Fatalf("Error decrypting backup (wrong password?): %v", err)
		}
		restorePath = tmpPath
	}

	if !*yes {
		fmt.Printf("This will replace the current database at %s\n", dbPath)
		fmt.Println("The current database is set aside, not deleted.")
		fmt.Print("Continue? (yes/no): ")

		reader := bufio.NewReader(os.Stdin)
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "yes" && response != "y" {
			fmt.Println("Restore cancelled.")
			return
		}
	}

	bm := storage.NewBackupManager(dbPath)
	if err := bm.Restore(restorePath); err != nil {
		log.Fatalf("Error restoring backup: %v", err)
	}

	fmt.Println("✓ Database restored successfully")
	fmt.Printf("  Database: %s\n", dbPath)
}

func runBackupList(dbPath string) {
	fs := flag.NewFlagSet("backup list", flag.ExitOnError)
	dir := fs.String("dir", os.Getenv("GAUNTLET_BACKUP_DIR"), "Backup directory (default: <db dir>/backups)")
	format := fs.String("format", "table", "Output format: 'table' or 'json'")

	if err := fs.Parse(os.Args[3:]); err != nil {
		log.Fatalf("Error parsing flags: %v", err)
	}

	bm := storage.NewBackupManager(dbPath)
	backups, err := bm.ListBackups(*dir)
	if err != nil {
		log.Fatalf("Error listing backups: %v", err)
	}

	if len(backups) == 0 {
		fmt.Println("No backups found.")
		return
	}

	switch *format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(backups); err != nil {
			log.Fatalf("Error encoding JSON: %v", err)
		}
	case "table":
		fmt.Printf("\nAvailable Backups (%d)\n", len(backups))
		fmt.Println("======================")
		fmt.Println()
		for i, b := range backups {
			label := b.Name
			if b.Encrypted {
				label += " (encrypted)"
			}
			fmt.Printf("%d. %s\n", i+1, label)
			fmt.Printf("   Created:  %s\n", b.ModTime.Format("2006-01-02 15:04:05"))
			fmt.Printf("   Size:     %s\n", formatBytes(b.Size))
			fmt.Printf("   Checksum: %s\n", shortChecksum(b.Checksum))
			fmt.Println()
		}
	default:
		log.Fatalf("Invalid format: %s (must be 'table' or 'json')", *format)
	}
}

func runBackupVerify() {
	fs := flag.NewFlagSet("backup verify", flag.ExitOnError)
	password := fs.String("password", "", "Decryption password for encrypted backups")
	passwordEnv := fs.String("password-env", "", "Environment variable holding the decryption password")

	if err := fs.Parse(os.Args[3:]); err != nil {
		log.Fatalf("Error parsing flags: %v", err)
	}
	if fs.NArg() < 1 {
		fmt.Println("Error: backup file required")
		fmt.Println("Usage: gauntlet backup verify [options] <backup-file>")
		os.Exit(1)
	}
	backupPath := fs.Arg(0)

	encrypted, err := storage.IsEncrypted(backupPath)
	if err != nil {
		log.Fatalf("Error inspecting backup file: %v", err)
	}

	checkPath := backupPath
	if encrypted {
		pwd := resolveBackupPassword(*password, *passwordEnv)
		tmp, err := os.CreateTemp("", "gauntlet-verify-*.db")
		if err != nil {
			log.Fatalf("Error creating temporary file: %v", err)
		}
		tmpPath := tmp.Name()
		_ = tmp.Close()
		defer func() { _ = os.Remove(tmpPath) }()

		if err := storage.DecryptFile(backupPath, tmpPath, storage.DefaultEncryptionConfig(pwd)); err != nil {
			_ = os.Remove(tmpPath)
			log.Fatalf("Error decrypting backup (wrong password?): %v", err)
		}
		checkPath = tmpPath
	}

	// The manager's db path is irrelevant for verification.
	bm := storage.NewBackupManager("")
	if err := bm.VerifyBackup(checkPath); err != nil {
		log.Fatalf("Backup verification failed: %v", err)
	}

	fmt.Println("✓ Backup verified successfully")
	if encrypted {
		fmt.Println("  Encrypted: yes, password accepted")
	}
}

// resolveBackupPassword returns the encryption password from the flag
// or the named environment variable. The env route keeps passwords out
// of shell history.
func resolveBackupPassword(password, passwordEnv string) string {
	if password != "" {
		return password
	}
	if passwordEnv != "" {
		value := os.Getenv(passwordEnv)
		if value == "" {
			log.Fatalf("Environment variable %s is empty or unset", passwordEnv)
		}
		return value
	}
	log.Fatal("A password is required: use -password or -password-env")
	return ""
}

// shortChecksum trims a SHA-256 hex digest for display.
func shortChecksum(checksum string) string {
	if len(checksum) > 12 {
		return checksum[:12]
	}
	return checksum
}

// formatBytes renders a byte count in human-readable form.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func printBackupUsage() {
	fmt.Println("Usage: gauntlet backup <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  create             Create a database backup")
	fmt.Println("  restore <file>     Restore the database from a backup")
	fmt.Println("  list               List available backups")
	fmt.Println("  verify <file>      Check a backup's integrity")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  gauntlet backup create")
	fmt.Println("  gauntlet backup create -encrypt -password-env GAUNTLET_BACKUP_PWD")
	fmt.Println("  gauntlet backup restore backups/gauntlet_20250101_120000.db")
	fmt.Println("  gauntlet backup list -format json")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  GAUNTLET_DB_PATH      Database path")
	fmt.Println("  GAUNTLET_BACKUP_DIR   Default backup directory")
}
