// Package store persists the portfolio in SQLite. It is filled by imports
// and read by the timeline, dashboard and listing commands. Date fields are
// stored exactly as entered and normalized by readers.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// FileName is the database file inside the data directory.
const FileName = "portfolio.db"

// Applied on every pooled connection, not just the one that ran initialize.
const dsnPragmas = "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// CurrentDBVersion is the current database schema version.
// v2: progress entries keyed by (project, year, month)
// v3: initiatives carry plan and performance measure
const CurrentDBVersion = 3

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrLocked indicates another process is importing into the same store.
	ErrLocked = errors.New("store is locked by another import")
)

// Store is the SQLite database handle.
type Store struct {
	db      *sql.DB
	dataDir string
	now     func() time.Time
}

// DB returns the underlying sql.DB for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file path for dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// Open opens or creates the database in dataDir.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", Path(dataDir)+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, dataDir: dataDir, now: time.Now}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenInMemory opens an in-memory database (for testing).
func OpenInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:"+dsnPragmas)
	if err != nil {
		return nil, err
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SetClock replaces the time source used for created/updated stamps.
func (s *Store) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.now = now
}

// Version returns the schema version recorded in the meta table.
func (s *Store) Version() (int, error) {
	var v int
	if err := s.db.QueryRow(`SELECT CAST(value AS INTEGER) FROM meta WHERE key = 'version'`).Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

func (s *Store) initialize() error {
	schema := `
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS divisions (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			leader TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS plans (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			weightage REAL NOT NULL DEFAULT 0,
			division TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS perspectives (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			plan TEXT NOT NULL,
			UNIQUE (name, plan)
		);

		CREATE TABLE IF NOT EXISTS objectives (
			id TEXT PRIMARY KEY,
			key TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS initiatives (
			id TEXT PRIMARY KEY,
			key TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			objective_key TEXT NOT NULL DEFAULT '',
			perspective TEXT NOT NULL DEFAULT '',
			plan TEXT NOT NULL DEFAULT '',
			responsible TEXT NOT NULL DEFAULT '',
			start_raw TEXT NOT NULL DEFAULT '',  -- as entered
			end_raw TEXT NOT NULL DEFAULT '',
			performance_measure TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS members (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			full_name TEXT NOT NULL DEFAULT '',
			role INTEGER NOT NULL DEFAULT 0,
			availability TEXT NOT NULL DEFAULT '',
			specialization TEXT NOT NULL DEFAULT '',
			reports_to TEXT NOT NULL DEFAULT '',
			current_projects INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			key TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			developer TEXT NOT NULL DEFAULT '',
			system_analyst TEXT NOT NULL DEFAULT '',
			responsible_person TEXT NOT NULL DEFAULT '',
			start_raw TEXT NOT NULL DEFAULT '',  -- as entered
			end_raw TEXT NOT NULL DEFAULT '',
			progress REAL NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'incoming',
			color_status TEXT NOT NULL DEFAULT 'not_started',
			comments TEXT NOT NULL DEFAULT '',
			beneficiary_division TEXT NOT NULL DEFAULT '',
			performance_measure TEXT NOT NULL DEFAULT '',
			objective_key TEXT NOT NULL DEFAULT '',
			initiative_key TEXT NOT NULL DEFAULT '',
			plan_name TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,   -- Unix nanoseconds
			updated_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS progress_entries (
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			year INTEGER NOT NULL,
			month INTEGER NOT NULL,
			color TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			PRIMARY KEY (project_id, year, month)
		);

		CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status);
		CREATE INDEX IF NOT EXISTS idx_projects_created ON projects(created_at);
		CREATE INDEX IF NOT EXISTS idx_projects_initiative ON projects(initiative_key);
		CREATE INDEX IF NOT EXISTS idx_initiatives_objective ON initiatives(objective_key);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	_, err := s.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('version', ?)`,
		fmt.Sprintf("%d", CurrentDBVersion))
	if err != nil {
		return fmt.Errorf("failed to set database version: %w", err)
	}
	return nil
}

// newID returns a time-ordered UUID, falling back to a random one.
func newID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.New().String()
}
