// Package sqlite implements the repository interfaces on SQLite.
//
// The driver is modernc.org/sqlite — a pure-Go translation of SQLite, so
// no CGo and no C toolchain in the build. The database is a single file
// (or a temp file in tests), which is all this deployment needs: one
// process, atomic single-row writes, uniqueness enforced by constraints.
//
// WHY WAL MODE?
// SQLite's default rollback journal takes an exclusive lock for every write,
// which blocks concurrent readers. Write-Ahead Logging appends writes to a
// side log instead, so a history listing can proceed while a submission is
// being inserted. The trade-off is an extra -wal file next to the database,
// merged back on Close.
package sqlite

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB owns the connection pool and the schema. The repository interfaces
// are implemented by the per-entity stores (user.go, assessment.go), which
// share this pool; the Create signatures diverge per entity, so one
// receiver cannot carry both.
type DB struct {
	conn        *sql.DB
	users       *UserStore
	assessments *AssessmentStore
}

// New opens the database at path, applies pragmas, and runs migrations.
func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// sql.Open is lazy; Ping surfaces a bad path or permissions now
	// instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight, which matters
	// once concurrent HTTP requests share this pool.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	db.users = &UserStore{conn: conn}
	db.assessments = &AssessmentStore{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Users returns the user repository backed by this database.
func (db *DB) Users() *UserStore {
	return db.users
}

// Assessments returns the assessment repository backed by this database.
func (db *DB) Assessments() *AssessmentStore {
	return db.assessments
}

// Close closes the connection pool, flushing the WAL.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this
// idempotent across restarts.
//
// assessment_results.user_id intentionally has no foreign key: results may
// be submitted anonymously (empty user_id), and the reference check for
// non-empty values lives in the service layer where it can produce a
// proper validation error instead of a constraint failure.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS assessment_results (
			id         TEXT PRIMARY KEY,
			type       TEXT NOT NULL,
			total      INTEGER NOT NULL,
			category   TEXT NOT NULL,
			notes      TEXT NOT NULL DEFAULT '',
			user_id    TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_assessment_results_created_at
			ON assessment_results(created_at);
		CREATE INDEX IF NOT EXISTS idx_assessment_results_user_id
			ON assessment_results(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating assessment_results table: %w", err)
	}

	return nil
}
