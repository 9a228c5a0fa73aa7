package watchlist

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// AddResult reports what an Add call did.
type AddResult int

const (
	Added AddResult = iota
	AlreadyTracked
	LimitReached
)

// Service applies subscriber-initiated mutations through the same store
// contract the monitor uses. Every mutation reads the current list,
// changes it in memory and writes the whole list back.
type Service struct {
	store     Store
	maxAssets int
	now       func() time.Time
}

func NewService(store Store, maxAssets int) *Service {
	return &Service{
		store:     store,
		maxAssets: maxAssets,
		now:       time.Now,
	}
}

// List returns a subscriber's current watchlist.
func (s *Service) List(ctx context.Context, chatID int64) ([]TrackedAsset, error) {
	return s.store.GetEntries(ctx, chatID)
}

// Add tracks a new asset for a subscriber. Adding an asset that is already
// tracked is a no-op; the caller is expected to answer with the current
// price instead. last_sent starts at now so a fresh asset does not fire on
// the very next tick.
func (s *Service) Add(ctx context.Context, chatID int64, coin Coin) (AddResult, error) {
	entries, err := s.store.GetEntries(ctx, chatID)
	if err != nil {
		return 0, err
	}

	for _, e := range entries {
		if e.AssetID == coin.AssetID {
			return AlreadyTracked, nil
		}
	}

	if len(entries) >= s.maxAssets {
		return LimitReached, nil
	}

	entries = append(entries, TrackedAsset{
		Symbol:        coin.Symbol,
		AssetID:       coin.AssetID,
		PeriodMinutes: DefaultPeriodMinutes,
		LastSent:      s.now().Unix(),
	})

	if err := s.store.PutEntries(ctx, chatID, entries); err != nil {
		return 0, err
	}
	return Added, nil
}

// Remove drops an asset from a subscriber's watchlist. It reports whether
// the asset was present.
func (s *Service) Remove(ctx context.Context, chatID int64, assetID string) (bool, error) {
	entries, err := s.store.GetEntries(ctx, chatID)
	if err != nil {
		return false, err
	}

	kept := entries[:0]
	removed := false
	for _, e := range entries {
		if e.AssetID == assetID {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed {
		return false, nil
	}

	if err := s.store.PutEntries(ctx, chatID, kept); err != nil {
		return false, err
	}
	return true, nil
}

// SetPeriod changes an asset's report interval. A policy change restarts
// the cadence, so last_sent is reset to now.
func (s *Service) SetPeriod(ctx context.Context, chatID int64, assetID string, minutes int) (bool, error) {
	if minutes < 1 {
		return false, errors.Errorf("period must be at least 1 minute, got %d", minutes)
	}
	return s.mutate(ctx, chatID, assetID, func(e *TrackedAsset) {
		e.PeriodMinutes = minutes
	})
}

// SetAlert attaches a threshold alert to an asset, replacing any existing
// one, and resets last_sent so the alert cadence starts fresh.
func (s *Service) SetAlert(ctx context.Context, chatID int64, assetID string, op Operator, target float64) (bool, error) {
	if op != OpGTE && op != OpLTE {
		return false, errors.Errorf("unknown alert operator %q", op)
	}
	return s.mutate(ctx, chatID, assetID, func(e *TrackedAsset) {
		e.Alert = &Alert{Op: op, Target: target}
	})
}

// ClearAlert removes an asset's alert, returning it to periodic reports.
func (s *Service) ClearAlert(ctx context.Context, chatID int64, assetID string) (bool, error) {
	return s.mutate(ctx, chatID, assetID, func(e *TrackedAsset) {
		e.Alert = nil
	})
}

func (s *Service) mutate(ctx context.Context, chatID int64, assetID string, apply func(*TrackedAsset)) (bool, error) {
	entries, err := s.store.GetEntries(ctx, chatID)
	if err != nil {
		return false, err
	}

	found := false
	for i := range entries {
		if entries[i].AssetID == assetID {
			apply(&entries[i])
			entries[i].LastSent = s.now().Unix()
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}

	if err := s.store.PutEntries(ctx, chatID, entries); err != nil {
		return false, err
	}
	return true, nil
}
