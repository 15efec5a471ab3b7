package storage

import (
	"database/sql"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// setupTestDB creates a migrated database backed by a temporary file.
func setupTestDB(t *testing.T) (*DB, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "gauntlet_test.db")

	mgr, err := NewMigrationManager(dbPath)
	if err != nil {
		t.Fatalf("failed to create migration manager: %v", err)
	}
	if err := mgr.Up(); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	_ = mgr.Close()

	db, err := Open(DefaultConfig(dbPath))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db, dbPath
}

// openMemoryDB creates an in-memory database with the schema applied from the
// embedded migration scripts.
func openMemoryDB(t *testing.T) *DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}

	// Each in-memory connection gets its own database, so a second pooled
	// connection would see empty tables.
	conn.SetMaxOpenConns(1)

	names, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	if err != nil {
		t.Fatalf("failed to list migration scripts: %v", err)
	}
	sort.Strings(names)
	if len(names) == 0 {
		t.Fatal("no migration scripts embedded")
	}

	for _, name := range names {
		script, err := fs.ReadFile(migrationsFS, name)
		if err != nil {
			t.Fatalf("failed to read %s: %v", name, err)
		}
		if _, err := conn.Exec(string(script)); err != nil {
			t.Fatalf("failed to apply %s: %v", strings.TrimPrefix(name, "migrations/"), err)
		}
	}

	db := NewTestDB(conn)
	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}
