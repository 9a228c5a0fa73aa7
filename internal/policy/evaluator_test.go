package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricewatch-telegram-bot/internal/watchlist"
)

func periodicEntry(lastSent time.Time, periodMinutes int) watchlist.TrackedAsset {
	return watchlist.TrackedAsset{
		Symbol:        "BTC",
		AssetID:       "bitcoin",
		PeriodMinutes: periodMinutes,
		LastSent:      lastSent.Unix(),
	}
}

func TestDecide_UnknownPriceSkips(t *testing.T) {
	now := time.Now()
	e := periodicEntry(now.Add(-time.Hour), 15)

	assert.Equal(t, Skip, Decide(e, 0, false, now))
}

func TestDecide_PeriodicCadence(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0)
	e := periodicEntry(t0, 15)

	// Not due until a full period has elapsed.
	assert.Equal(t, Skip, Decide(e, 65000, true, t0.Add(1*time.Second)))
	assert.Equal(t, Skip, Decide(e, 65000, true, t0.Add(14*time.Minute)))
	assert.Equal(t, Skip, Decide(e, 65000, true, t0.Add(15*time.Minute-time.Second)))

	assert.Equal(t, SendReport, Decide(e, 65000, true, t0.Add(15*time.Minute)))
	assert.Equal(t, SendReport, Decide(e, 65000, true, t0.Add(2*time.Hour)))
}

func TestDecide_ConditionalRequiresBothDueAndMet(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0)
	e := periodicEntry(t0, 60)
	e.Alert = &watchlist.Alert{Op: watchlist.OpLTE, Target: 3000}

	// Due but condition not met: skip, reminder never fires above target.
	assert.Equal(t, Skip, Decide(e, 3200, true, t0.Add(time.Hour)))
	// Condition met but not due.
	assert.Equal(t, Skip, Decide(e, 2900, true, t0.Add(time.Minute)))
	// Both.
	assert.Equal(t, SendAlert, Decide(e, 2900, true, t0.Add(time.Hour)))
	// Boundary counts as met.
	assert.Equal(t, SendAlert, Decide(e, 3000, true, t0.Add(time.Hour)))
}

func TestDecide_AlertRefiresWhileConditionHolds(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0)
	e := periodicEntry(t0, 1)
	e.Alert = &watchlist.Alert{Op: watchlist.OpGTE, Target: 100}

	seq := []float64{90, 110, 110, 110}
	var fired int
	now := t0
	for _, p := range seq {
		now = now.Add(time.Minute)
		if Decide(e, p, true, now) == SendAlert {
			fired++
			e.LastSent = now.Unix()
		}
	}

	// Every sample at or above target fires, not only the first.
	assert.Equal(t, 3, fired)
}

func TestPolicyOf(t *testing.T) {
	e := periodicEntry(time.Now(), 15)
	require.Equal(t, Periodic, PolicyOf(e).Kind)

	e.Alert = &watchlist.Alert{Op: watchlist.OpGTE, Target: 100000}
	p := PolicyOf(e)
	require.Equal(t, Conditional, p.Kind)
	assert.Equal(t, watchlist.OpGTE, p.Op)
	assert.Equal(t, 100000.0, p.Target)
}
