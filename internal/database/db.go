package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/civicsignal/petition-meter/internal/errors"
)

// DB wraps the submission-log database connection
type DB struct {
	*sql.DB
}

// NewDB opens the submission log under dataDir, creating it when absent
func NewDB(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, errors.WrapError(err, "failed to create data directory %s", dataDir)
	}

	dbPath := filepath.Join(dataDir, "petition_meter.db")

	connStr := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, errors.WrapError(err, "failed to open database at %s", dbPath)
	}

	if err := db.Ping(); err != nil {
		return nil, errors.WrapError(err, "failed to ping database at %s", dbPath)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	database := &DB{DB: db}

	if err := database.migrate(); err != nil {
		return nil, errors.WrapError(err, "failed to run migrations")
	}

	return database, nil
}

// migrate creates the submission-log schema. Only derived metrics are
// stored; the petition text itself is discarded after scoring.
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		probability REAL NOT NULL,
		prediction INTEGER NOT NULL,
		grade TEXT NOT NULL,
		source TEXT NOT NULL,
		title_length INTEGER NOT NULL,
		description_length INTEGER NOT NULL,
		content_score REAL NOT NULL,
		html_tags INTEGER NOT NULL,
		rules_version TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
	`

	_, err := db.Exec(schema)
	return err
}
