package store_test

import (
	"context"
	"database/sql"
	"testing"

	// sqlite driver for the in-memory test database
	_ "github.com/mattn/go-sqlite3"
)

const testSchema = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT UNIQUE NOT NULL,
	phone_number TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'user'
);

CREATE TABLE todos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	priority INTEGER NOT NULL DEFAULT 0,
	complete BOOLEAN NOT NULL DEFAULT FALSE,
	owner_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE
);
`

// setupTestDB initializes an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// every pooled connection of an in-memory sqlite DB would get its own
	// empty database, so pin the pool to a single connection
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), testSchema); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})

	return db
}
