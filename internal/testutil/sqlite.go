// Package testutil provides an in-memory SQL engine with the friendbook
// schema for tests that need real statement execution without PostgreSQL.
package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// sqliteSchema mirrors the goose migrations in SQLite dialect.
var sqliteSchema = []string{
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		secret_code TEXT NOT NULL
	)`,
	`CREATE TABLE friends (
		user1 INTEGER NOT NULL REFERENCES users(id),
		user2 INTEGER NOT NULL REFERENCES users(id),
		PRIMARY KEY (user1, user2)
	)`,
}

// NewUsersDB opens a private in-memory database holding the users and
// friends tables. It is closed when the test ends.
func NewUsersDB(t testing.TB) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// one connection, so every statement sees the same in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range sqliteSchema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

// AddFriends inserts a friendship edge (a, b).
func AddFriends(t testing.TB, db *sql.DB, a, b int64) {
	t.Helper()
	if _, err := db.Exec(`INSERT INTO friends (user1, user2) VALUES ($1, $2)`, a, b); err != nil {
		t.Fatalf("insert friends: %v", err)
	}
}
