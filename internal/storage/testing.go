package storage

import (
	"database/sql"
)

// NewTestDB wraps an existing database connection in a DB struct for testing.
// This helper is exported for use in other package tests.
func NewTestDB(conn *sql.DB) *DB {
	return &DB{conn: conn}
}
