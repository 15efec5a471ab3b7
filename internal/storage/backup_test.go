package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// seedSession inserts one session row so backups have content to carry.
func seedSession(t *testing.T, db *DB, id string) {
	t.Helper()

	outcome := sampleOutcome()
	outcome.SessionID = id
	rep := compileSample(outcome)
	rep.SessionID = id

	if err := NewService(db).SaveSession(context.Background(), outcome, rep); err != nil {
		t.Fatalf("failed to seed session %s: %v", id, err)
	}
}

func countSessions(t *testing.T, db *DB) int {
	t.Helper()

	var n int
	if err := db.Conn().QueryRow("SELECT COUNT(*) FROM sessions").Scan(&n); err != nil {
		t.Fatalf("failed to count sessions: %v", err)
	}
	return n
}

func TestBackupManager_Backup(t *testing.T) {
	db, dbPath := setupTestDB(t)
	seedSession(t, db, "11111111-0000-0000-0000-000000000001")
	if err := db.Close(); err != nil {
		t.Fatalf("failed to close database: %v", err)
	}

	bm := NewBackupManager(dbPath)

	backupPath, err := bm.Backup(nil)
	if err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}

	if filepath.Dir(backupPath) != bm.GetBackupDir() {
		t.Errorf("backup landed in %s, want %s", filepath.Dir(backupPath), bm.GetBackupDir())
	}
	if !strings.HasPrefix(filepath.Base(backupPath), "gauntlet_") {
		t.Errorf("backup name %s missing gauntlet_ prefix", filepath.Base(backupPath))
	}

	if err := bm.VerifyBackup(backupPath); err != nil {
		t.Errorf("backup failed verification: %v", err)
	}

	// The backup must carry the seeded row.
	backupDB, err := Open(DefaultConfig(backupPath))
	if err != nil {
		t.Fatalf("failed to open backup: %v", err)
	}
	defer func() { _ = backupDB.Close() }()
	if got := countSessions(t, backupDB); got != 1 {
		t.Errorf("backup has %d sessions, want 1", got)
	}
}

func TestBackupManager_ListBackups(t *testing.T) {
	db, dbPath := setupTestDB(t)
	seedSession(t, db, "11111111-0000-0000-0000-000000000001")
	if err := db.Close(); err != nil {
		t.Fatalf("failed to close database: %v", err)
	}

	bm := NewBackupManager(dbPath)

	// No backup directory yet.
	backups, err := bm.ListBackups("")
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups before the first one, got %d", len(backups))
	}

	if _, err := bm.Backup(&BackupConfig{BackupName: "first"}); err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}

	backups, err = bm.ListBackups("")
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("expected 1 backup, got %d", len(backups))
	}

	info := backups[0]
	if info.Name != "first.db" {
		t.Errorf("backup name = %s, want first.db", info.Name)
	}
	if info.Size == 0 {
		t.Error("expected non-zero backup size")
	}
	if info.Checksum == "" || info.Checksum == "unknown" {
		t.Errorf("expected a real checksum, got %q", info.Checksum)
	}
	if info.Encrypted {
		t.Error("plain backup reported as encrypted")
	}

	// Encrypted backups keep the .db.enc suffix and must still be listed;
	// unrelated files must not.
	dir := bm.GetBackupDir()
	if err := os.WriteFile(filepath.Join(dir, "second.db.enc"), []byte("GNTENC1x"), 0o600); err != nil {
		t.Fatalf("failed to write encrypted backup stub: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o600); err != nil {
		t.Fatalf("failed to write stray file: %v", err)
	}

	backups, err = bm.ListBackups("")
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("expected 2 backups, got %d", len(backups))
	}
	var foundEncrypted bool
	for _, b := range backups {
		if b.Name == "second.db.enc" {
			foundEncrypted = true
			if !b.Encrypted {
				t.Error("encrypted backup not flagged as encrypted")
			}
		}
		if b.Name == "notes.txt" {
			t.Error("non-backup file listed as a backup")
		}
	}
	if !foundEncrypted {
		t.Error("encrypted backup missing from listing")
	}
}

func TestBackupManager_Restore(t *testing.T) {
	db, dbPath := setupTestDB(t)
	seedSession(t, db, "11111111-0000-0000-0000-000000000001")

	bm := NewBackupManager(dbPath)

	if err := db.Close(); err != nil {
		t.Fatalf("failed to close database before backup: %v", err)
	}
	backupPath, err := bm.Backup(nil)
	if err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}

	// Add a second session after the backup point.
	db, err = Open(DefaultConfig(dbPath))
	if err != nil {
		t.Fatalf("failed to reopen database: %v", err)
	}
	seedSession(t, db, "11111111-0000-0000-0000-000000000002")
	if got := countSessions(t, db); got != 2 {
		t.Fatalf("expected 2 sessions before restore, got %d", got)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("failed to close database before restore: %v", err)
	}

	if err := bm.Restore(backupPath); err != nil {
		t.Fatalf("failed to restore backup: %v", err)
	}

	restored, err := Open(DefaultConfig(dbPath))
	if err != nil {
		t.Fatalf("failed to open restored database: %v", err)
	}
	defer func() { _ = restored.Close() }()

	if got := countSessions(t, restored); got != 1 {
		t.Errorf("expected 1 session after restore, got %d", got)
	}
}

func TestBackupManager_RestoreMissingFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "gauntlet.db")
	bm := NewBackupManager(dbPath)

	err := bm.Restore(filepath.Join(t.TempDir(), "nope.db"))
	if err == nil {
		t.Fatal("expected error restoring from a missing backup")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("unexpected error: %v", err)
	}
}
