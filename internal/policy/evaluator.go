// Package policy decides, without side effects, whether a tracked asset is
// owed a notification right now.
package policy

import (
	"time"

	"pricewatch-telegram-bot/internal/watchlist"
)

// Outcome is the evaluator's verdict for one entry.
type Outcome int

const (
	// Skip means no notification this tick; the entry is left untouched
	// and re-evaluated next tick.
	Skip Outcome = iota
	// SendReport is an unconditional periodic price report.
	SendReport
	// SendAlert is a threshold alert whose condition currently holds.
	SendAlert
)

// Kind tags an entry's notification policy, decided once per entry
// instead of checking for the alert field ad hoc.
type Kind int

const (
	Periodic Kind = iota
	Conditional
)

// Policy is the tagged delivery policy of a tracked asset.
type Policy struct {
	Kind   Kind
	Op     watchlist.Operator
	Target float64
}

// PolicyOf derives the delivery policy from an entry.
func PolicyOf(e watchlist.TrackedAsset) Policy {
	if e.Alert == nil {
		return Policy{Kind: Periodic}
	}
	return Policy{Kind: Conditional, Op: e.Alert.Op, Target: e.Alert.Target}
}

// Decide evaluates one entry against the current price. priceKnown is
// false when neither the fetch nor the cache produced a value; the entry
// is then skipped with last_sent intact, so a due notification is delayed
// rather than dropped.
//
// A conditional alert re-fires every period while its condition holds. It
// is a recurring reminder, not an edge-triggered one-shot.
func Decide(e watchlist.TrackedAsset, price float64, priceKnown bool, now time.Time) Outcome {
	if !priceKnown {
		return Skip
	}

	due := now.Unix()-e.LastSent >= int64(e.PeriodMinutes)*60
	if !due {
		return Skip
	}

	p := PolicyOf(e)
	switch p.Kind {
	case Conditional:
		met := (p.Op == watchlist.OpGTE && price >= p.Target) ||
			(p.Op == watchlist.OpLTE && price <= p.Target)
		if met {
			return SendAlert
		}
		return Skip
	default:
		return SendReport
	}
}
