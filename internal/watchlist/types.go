package watchlist

import (
	"time"
)

// Operator is a threshold comparison direction.
type Operator string

const (
	OpGTE Operator = ">="
	OpLTE Operator = "<="
)

// Alert is an optional threshold condition on a tracked asset. While the
// condition holds the asset notifies on its period like a reminder; it is
// not a one-shot trigger.
type Alert struct {
	Op     Operator `json:"op"`
	Target float64  `json:"target"`
}

// TrackedAsset is one asset on a subscriber's watchlist. AssetID is the
// canonical id used against the price source; Symbol is what the user sees.
type TrackedAsset struct {
	Symbol        string `json:"symbol"`
	AssetID       string `json:"asset_id"`
	PeriodMinutes int    `json:"period_minutes"`
	LastSent      int64  `json:"last_sent"`
	Alert         *Alert `json:"alert,omitempty"`
}

const (
	// DefaultPeriodMinutes is applied to newly added assets.
	DefaultPeriodMinutes = 15

	// legacyBackfill puts migrated records without a last_sent timestamp
	// far enough in the past that they fire on the next due check.
	legacyBackfill = 900 * time.Second
)

// Normalize repairs records read from the store. Entries written before
// last_sent existed carry a zero value and are backfilled so they notify
// promptly instead of waiting out a full period from now.
func Normalize(entries []TrackedAsset, now time.Time) []TrackedAsset {
	for i := range entries {
		if entries[i].LastSent == 0 {
			entries[i].LastSent = now.Add(-legacyBackfill).Unix()
		}
		if entries[i].PeriodMinutes < 1 {
			entries[i].PeriodMinutes = DefaultPeriodMinutes
		}
	}
	return entries
}
