package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// Well-known row id of the focus and app_state singletons.
const singletonID = 1

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	q  querier
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, q: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// WithTx runs fn against a store bound to a single transaction. The transaction
// commits when fn returns nil and rolls back otherwise. Nested calls reuse the
// outer transaction.
func (s *Store) WithTx(fn func(tx *Store) error) error {
	if _, nested := s.q.(*sql.Tx); nested {
		return fn(s)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&Store{db: s.db, q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS quests (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT NOT NULL,
		xp          INTEGER NOT NULL DEFAULT 0 CHECK (xp >= 0),
		category    TEXT NOT NULL DEFAULT '',
		type        TEXT NOT NULL DEFAULT 'topic' CHECK (type IN ('topic','project','bonus')),
		done        INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS books (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		title         TEXT NOT NULL,
		author        TEXT NOT NULL DEFAULT '',
		total_pages   INTEGER NOT NULL DEFAULT 0 CHECK (total_pages >= 0),
		current_page  INTEGER NOT NULL DEFAULT 0 CHECK (current_page >= 0 AND current_page <= total_pages),
		status        TEXT NOT NULL DEFAULT 'backlog' CHECK (status IN ('backlog','reading','finished')),
		category      TEXT NOT NULL DEFAULT '',
		tags          TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS courses (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		title            TEXT NOT NULL,
		platform         TEXT NOT NULL DEFAULT '',
		url              TEXT NOT NULL DEFAULT '',
		total_units      INTEGER NOT NULL DEFAULT 0 CHECK (total_units >= 0),
		completed_units  INTEGER NOT NULL DEFAULT 0 CHECK (completed_units >= 0 AND completed_units <= total_units),
		status           TEXT NOT NULL DEFAULT 'backlog' CHECK (status IN ('backlog','learning','finished')),
		category         TEXT NOT NULL DEFAULT '',
		tags             TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at       TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS book_progress (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		book_id     INTEGER NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		from_page   INTEGER NOT NULL,
		to_page     INTEGER NOT NULL,
		xp_awarded  INTEGER NOT NULL DEFAULT 0,
		notes       TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS course_progress (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		course_id   INTEGER NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		units       INTEGER NOT NULL,
		xp_awarded  INTEGER NOT NULL DEFAULT 0,
		notes       TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_book_progress_book    ON book_progress(book_id);
	CREATE INDEX IF NOT EXISTS idx_book_progress_created ON book_progress(created_at);
	CREATE INDEX IF NOT EXISTS idx_course_progress_course  ON course_progress(course_id);
	CREATE INDEX IF NOT EXISTS idx_course_progress_created ON course_progress(created_at);

	CREATE TABLE IF NOT EXISTS focus (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		quest_id   INTEGER,
		book_id    INTEGER,
		course_id  INTEGER
	);

	CREATE TABLE IF NOT EXISTS app_state (
		id             INTEGER PRIMARY KEY CHECK (id = 1),
		streak         INTEGER NOT NULL DEFAULT 0 CHECK (streak >= 0),
		last_check_in  TEXT
	);

	INSERT OR IGNORE INTO focus (id) VALUES (1);
	INSERT OR IGNORE INTO app_state (id) VALUES (1);

	CREATE TABLE IF NOT EXISTS import_batches (
		id           TEXT PRIMARY KEY,
		target       TEXT NOT NULL,
		mode         TEXT NOT NULL,
		row_count    INTEGER NOT NULL,
		warnings     INTEGER NOT NULL DEFAULT 0,
		imported_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('daily_page_goal', '20'),
		('daily_unit_goal', '1'),
		('chart_days',      '7');
	`
	_, err := s.db.Exec(ddl)
	return err
}

func now() string {
	return formatTime(time.Now())
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
