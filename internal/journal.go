package internal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"lunchsync/domain/models"
)

// SQLiteJournal implements the SyncJournal interface. It keeps a local
// history of sync runs and per-asset update outcomes for later inspection.
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal creates a new SQLite journal at the given path
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	if err := initializeJournal(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

// Initialize journal tables
func initializeJournal(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sync_runs (
			id TEXT PRIMARY KEY,
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			assets INTEGER NOT NULL,
			updated INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			failed INTEGER NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create sync_runs table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS asset_updates (
			run_id TEXT NOT NULL,
			asset_id INTEGER NOT NULL,
			symbol TEXT NOT NULL,
			balance TEXT NOT NULL,
			currency TEXT,
			status TEXT NOT NULL,
			error TEXT,
			PRIMARY KEY (run_id, asset_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create asset_updates table: %w", err)
	}

	return nil
}

// RecordRun stores the summary row for a completed sync run
func (j *SQLiteJournal) RecordRun(runID string, started, finished int64, assets, updated, skipped, failed int) error {
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO sync_runs
		(id, started_at, finished_at, assets, updated, skipped, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, runID, started, finished, assets, updated, skipped, failed)

	if err != nil {
		return fmt.Errorf("failed to record sync run: %w", err)
	}
	return nil
}

// RecordUpdate stores the outcome of a single asset update attempt
func (j *SQLiteJournal) RecordUpdate(runID string, update models.BalanceUpdate, symbol, status, errMsg string) error {
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO asset_updates
		(run_id, asset_id, symbol, balance, currency, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, runID, update.AssetID, symbol, update.Balance.StringFixed(2), update.Currency, status, errMsg)

	if err != nil {
		return fmt.Errorf("failed to record asset update: %w", err)
	}
	return nil
}

// Close closes the database connection
func (j *SQLiteJournal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}
