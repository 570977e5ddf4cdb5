// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite?
// It is a pure Go translation of SQLite, so the binary builds without a C
// toolchain and cross-compiles like any other Go program.
//
// This backend is the keyed storage engine counterpart of the jsonfile
// package: the same three repositories, but every write touches one row
// instead of rewriting the whole store.
package sqlite

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool. The per-store views (Users, Meals,
// Foods) share it.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/nutrition.db"  → file-based database (persistent)
//   - ":memory:"           → in-memory database (tests)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// ONE CONNECTION:
	// Every ":memory:" connection is its own database, and SQLite admits a
	// single writer anyway. Pinning the pool to one connection serializes all
	// statements from this process, which is the per-store lock the file
	// backend takes explicitly.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Users returns the credential store view.
func (db *DB) Users() *UserDB { return &UserDB{conn: db.conn} }

// Meals returns the meal log view.
func (db *DB) Meals() *MealDB { return &MealDB{conn: db.conn} }

// Foods returns the read-only food catalog view.
func (db *DB) Foods() *FoodDB { return &FoodDB{conn: db.conn} }

// migrate creates the tables. CREATE TABLE IF NOT EXISTS makes it safe to
// run on every start.
//
// meal_logs.user_email deliberately has no foreign key: deleting a user
// leaves their meal log in place.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			email         TEXT PRIMARY KEY,
			name          TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			age           INTEGER NOT NULL DEFAULT 0,
			weight        REAL NOT NULL DEFAULT 0,
			height        REAL NOT NULL DEFAULT 0,
			gender        TEXT NOT NULL DEFAULT '',
			goal          TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// seq preserves insertion order; logged_at stays TEXT in the
	// "YYYY-MM-DD HH:MM:SS" layout so both backends parse it the same way.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS meal_logs (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			id         TEXT NOT NULL UNIQUE,
			user_email TEXT NOT NULL,
			meal       TEXT NOT NULL DEFAULT '',
			items      TEXT NOT NULL DEFAULT '[]',
			logged_at  TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_meal_logs_user_email ON meal_logs(user_email);
	`)
	if err != nil {
		return fmt.Errorf("creating meal_logs table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS foods (
			name     TEXT PRIMARY KEY,
			calories REAL NOT NULL DEFAULT 0,
			protein  REAL NOT NULL DEFAULT 0,
			carbs    REAL NOT NULL DEFAULT 0,
			fiber    REAL NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return fmt.Errorf("creating foods table: %w", err)
	}

	return nil
}
