// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means you need a C
// compiler installed and cross-compilation becomes painful. modernc.org/sqlite
// is a pure Go translation of the SQLite C code — no C compiler needed, works
// everywhere Go works. Use ":memory:" for an in-memory database in tests.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// Side-effect import: the sqlite package's init() registers itself with
	// database/sql as a driver named "sqlite".
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements repository.UserRepository
// and repository.GameRepository.
type DB struct {
	conn *sql.DB
}

// New opens the SQLite database at dbPath and runs migrations.
//
// sql.Open does not actually connect — it just creates a pool manager. We
// Ping immediately so a bad path or permissions problem surfaces here rather
// than on the first query.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// SQLite allows one writer at a time, and PRAGMAs apply per connection.
	// Pinning the pool to a single connection makes the pragmas below stick
	// and makes ":memory:" behave as one database instead of one per
	// pooled connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress.
	// Default SQLite locks the whole database during writes, which is
	// hostile to a web server handling requests in parallel.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite (backwards compatibility).
	// The users → games cascade depends on them being ON.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Wherever you call New(),
// immediately defer Close() — it flushes the WAL and releases the file lock.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this safe to
// run on every start, so there is no separate migration tracking for a
// two-table schema.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// ON DELETE CASCADE: removing a user removes every game they own.
	// This is the only place the one-to-many relationship is enforced;
	// no application code re-implements the cascade.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS games (
			id             TEXT PRIMARY KEY,
			title          TEXT NOT NULL,
			genre          TEXT NOT NULL,
			developer      TEXT NOT NULL,
			release_year   INTEGER NOT NULL,
			playtime_hours INTEGER NOT NULL,
			description    TEXT NOT NULL,
			platforms      TEXT NOT NULL,
			requirements   TEXT NOT NULL DEFAULT '',
			instructions   TEXT NOT NULL DEFAULT '',
			rating         REAL NOT NULL DEFAULT 0,
			created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			user_id        TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_games_created_at ON games(created_at);
		CREATE INDEX IF NOT EXISTS idx_games_user_id ON games(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating games table: %w", err)
	}

	return nil
}

// HasUsers reports whether any account exists. Seeding uses this as its
// idempotence guard: a database that has ever been seeded (or registered a
// real user) is never seeded again.
func (db *DB) HasUsers(ctx context.Context) (bool, error) {
	var one int
	err := db.conn.QueryRowContext(ctx, `SELECT 1 FROM users LIMIT 1`).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: checking for users: %w", err)
	}
	return true, nil
}
