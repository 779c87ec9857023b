package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// DBTX is the subset of database/sql used by the repositories. Both *sql.DB
// and *sql.Tx satisfy it, so the same repository code runs standalone or
// inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// ApplyMigrations executes every .sql file in fsys in lexical order. The
// statements are idempotent, so rerunning on an existing database is safe.
func (db *DB) ApplyMigrations(fsys fs.FS) error {
	entries, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(entries)

	for _, name := range entries {
		script, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(script)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
	}

	return nil
}

// RunMigrations runs the migrations directly (for testing)
// In production, migrations should be run via the embed package
func (db *DB) RunMigrations() error {
	migration := `
-- Fund custody accounts (wallets and vaults), lamport-equivalent units
CREATE TABLE accounts (
    address TEXT PRIMARY KEY,
    lamports INTEGER NOT NULL DEFAULT 0 CHECK (lamports >= 0),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Global project counter (one row per deployment)
CREATE TABLE counters (
    address TEXT PRIMARY KEY,
    count INTEGER NOT NULL DEFAULT 0
);

-- Campaign records
CREATE TABLE projects (
    address TEXT PRIMARY KEY,
    creator TEXT NOT NULL,
    project_id INTEGER NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    funding_goal INTEGER NOT NULL,
    deadline INTEGER NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('open', 'succeeded', 'failed')),
    created_at INTEGER NOT NULL
);
CREATE UNIQUE INDEX idx_projects_creator_id ON projects(creator, project_id);

-- Per-project custody totals
CREATE TABLE vaults (
    address TEXT PRIMARY KEY,
    project_address TEXT NOT NULL UNIQUE,
    total_amount INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (project_address) REFERENCES projects(address)
);

-- Pledge records
CREATE TABLE contributions (
    address TEXT PRIMARY KEY,
    contributor TEXT NOT NULL,
    project_address TEXT NOT NULL,
    amount INTEGER NOT NULL,
    timestamp INTEGER NOT NULL,
    refunded INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (project_address) REFERENCES projects(address)
);
CREATE INDEX idx_contributions_project ON contributions(project_address);
CREATE INDEX idx_contributions_contributor ON contributions(contributor);

-- Append-only log of committed transitions
CREATE TABLE journal (
    id TEXT PRIMARY KEY,
    operation TEXT NOT NULL,
    signer TEXT NOT NULL,
    details TEXT,
    applied_at INTEGER NOT NULL
);
CREATE INDEX idx_journal_applied ON journal(applied_at);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
