package database

import (
	"database/sql"
	"errors"
	"fmt"
)

// RecordPrices stores one row per asset for the prices resolved in a tick.
func (r *Recorder) RecordPrices(prices map[string]float64) error {
	if len(prices) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin price snapshot: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO price_history (asset_id, price) VALUES (?, ?);`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare price insert: %w", err)
	}
	defer stmt.Close()

	for assetID, price := range prices {
		if _, err := stmt.Exec(assetID, price); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert price for %s: %w", assetID, err)
		}
	}

	return tx.Commit()
}

// RecordNotification logs one dispatched notification.
func (r *Recorder) RecordNotification(chatID int64, assetID, kind string, price float64) error {
	query := `INSERT INTO notifications (chat_id, asset_id, kind, price) VALUES (?, ?, ?, ?);`
	if _, err := r.db.Exec(query, chatID, assetID, kind, price); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// LatestPrice returns the most recently recorded price for an asset, used
// by operational tooling.
func (r *Recorder) LatestPrice(assetID string) (float64, bool, error) {
	query := `SELECT price FROM price_history WHERE asset_id = ? ORDER BY fetched_at DESC LIMIT 1;`

	var price float64
	err := r.db.QueryRow(query, assetID).Scan(&price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to query latest price for %s: %w", assetID, err)
	}
	return price, true, nil
}
