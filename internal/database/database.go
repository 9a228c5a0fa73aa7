package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

// Recorder persists per-tick price snapshots and dispatched notifications
// to a local sqlite file. It is bookkeeping only; the monitor works fine
// without it.
type Recorder struct {
	db *sql.DB
}

func Open(dbPath string) (*Recorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	createPriceTable := `
	CREATE TABLE IF NOT EXISTS price_history (
		asset_id TEXT NOT NULL,
		price REAL NOT NULL,
		fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err = db.Exec(createPriceTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create price_history table: %w", err)
	}

	createNotificationsTable := `
	CREATE TABLE IF NOT EXISTS notifications (
		chat_id INTEGER NOT NULL,
		asset_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		price REAL NOT NULL,
		sent_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err = db.Exec(createNotificationsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create notifications table: %w", err)
	}

	log.Println("Database initialized successfully.")
	return &Recorder{db: db}, nil
}

func (r *Recorder) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
