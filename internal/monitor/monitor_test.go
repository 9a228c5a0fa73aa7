package monitor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricewatch-telegram-bot/internal/price"
	"pricewatch-telegram-bot/internal/watchlist"
)

type memStore struct {
	mu    sync.Mutex
	lists map[int64][]watchlist.TrackedAsset
	puts  map[int64]int
}

func newMemStore() *memStore {
	return &memStore{
		lists: make(map[int64][]watchlist.TrackedAsset),
		puts:  make(map[int64]int),
	}
}

func (s *memStore) ListSubscribers(ctx context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []int64
	for id := range s.lists {
		out = append(out, id)
	}
	return out, nil
}

func (s *memStore) GetEntries(ctx context.Context, chatID int64) ([]watchlist.TrackedAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]watchlist.TrackedAsset, len(s.lists[chatID]))
	copy(entries, s.lists[chatID])
	return entries, nil
}

func (s *memStore) PutEntries(ctx context.Context, chatID int64, entries []watchlist.TrackedAsset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts[chatID]++
	s.lists[chatID] = entries
	return nil
}

type capturingDispatcher struct {
	mu      sync.Mutex
	sent    map[int64][]string
	failFor map[int64]bool
}

func newCapturingDispatcher() *capturingDispatcher {
	return &capturingDispatcher{sent: make(map[int64][]string), failFor: make(map[int64]bool)}
}

func (d *capturingDispatcher) Send(chatID int64, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failFor[chatID] {
		return errors.New("chat unreachable")
	}
	d.sent[chatID] = append(d.sent[chatID], text)
	return nil
}

type stubFetcher struct {
	prices map[string]float64
	err    error
}

func (f *stubFetcher) FetchPrices(ctx context.Context, ids []string) (map[string]float64, error) {
	return f.prices, f.err
}

func newMonitor(store watchlist.Store, fetcher price.Fetcher, dispatcher Dispatcher) *Monitor {
	resolver := price.NewResolver(fetcher, price.NewCache(55*time.Second))
	return New(store, resolver, dispatcher, nil, 4)
}

func TestRunTick_PeriodicReportDue(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	store := newMemStore()
	store.lists[42] = []watchlist.TrackedAsset{
		{Symbol: "BTC", AssetID: "bitcoin", PeriodMinutes: 15, LastSent: now.Add(-901 * time.Second).Unix()},
	}

	dispatcher := newCapturingDispatcher()
	m := newMonitor(store, &stubFetcher{prices: map[string]float64{"bitcoin": 65000}}, dispatcher)
	m.now = func() time.Time { return now }

	m.RunTick(context.Background())

	require.Len(t, dispatcher.sent[42], 1)
	assert.Contains(t, dispatcher.sent[42][0], "BTC")
	assert.Contains(t, dispatcher.sent[42][0], "65,000")

	assert.Equal(t, now.Unix(), store.lists[42][0].LastSent)
	assert.Equal(t, 1, store.puts[42], "one write per subscriber per tick")
}

func TestRunTick_ConditionNotMetLeavesEntryUntouched(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	lastSent := now.Add(-3600 * time.Second).Unix()
	store := newMemStore()
	store.lists[42] = []watchlist.TrackedAsset{
		{Symbol: "ETH", AssetID: "ethereum", PeriodMinutes: 60, LastSent: lastSent,
			Alert: &watchlist.Alert{Op: watchlist.OpLTE, Target: 3000}},
	}

	dispatcher := newCapturingDispatcher()
	m := newMonitor(store, &stubFetcher{prices: map[string]float64{"ethereum": 3200}}, dispatcher)
	m.now = func() time.Time { return now }

	m.RunTick(context.Background())

	assert.Empty(t, dispatcher.sent[42])
	assert.Equal(t, lastSent, store.lists[42][0].LastSent)
	assert.Zero(t, store.puts[42], "nothing changed, nothing written")
}

func TestRunTick_AlertDueAndMet(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	store := newMemStore()
	store.lists[42] = []watchlist.TrackedAsset{
		{Symbol: "ETH", AssetID: "ethereum", PeriodMinutes: 60, LastSent: now.Add(-time.Hour).Unix(),
			Alert: &watchlist.Alert{Op: watchlist.OpLTE, Target: 3000}},
	}

	dispatcher := newCapturingDispatcher()
	m := newMonitor(store, &stubFetcher{prices: map[string]float64{"ethereum": 2900}}, dispatcher)
	m.now = func() time.Time { return now }

	m.RunTick(context.Background())

	require.Len(t, dispatcher.sent[42], 1)
	assert.Contains(t, dispatcher.sent[42][0], "ETH")
	assert.Equal(t, now.Unix(), store.lists[42][0].LastSent)
}

func TestRunTick_UnknownPriceSkipsWithoutTouchingLastSent(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	lastSent := now.Add(-time.Hour).Unix()
	store := newMemStore()
	store.lists[42] = []watchlist.TrackedAsset{
		{Symbol: "BTC", AssetID: "bitcoin", PeriodMinutes: 15, LastSent: lastSent},
	}

	dispatcher := newCapturingDispatcher()
	m := newMonitor(store, &stubFetcher{err: errors.New("upstream down")}, dispatcher)
	m.now = func() time.Time { return now }

	m.RunTick(context.Background())

	assert.Empty(t, dispatcher.sent[42])
	// The notification is delayed, not dropped: next tick re-evaluates
	// against the same last_sent.
	assert.Equal(t, lastSent, store.lists[42][0].LastSent)
}

func TestRunTick_DispatchFailureIsIsolated(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	store := newMemStore()
	due := now.Add(-time.Hour).Unix()
	store.lists[1] = []watchlist.TrackedAsset{
		{Symbol: "BTC", AssetID: "bitcoin", PeriodMinutes: 15, LastSent: due},
	}
	store.lists[2] = []watchlist.TrackedAsset{
		{Symbol: "BTC", AssetID: "bitcoin", PeriodMinutes: 15, LastSent: due},
	}

	dispatcher := newCapturingDispatcher()
	dispatcher.failFor[1] = true

	m := newMonitor(store, &stubFetcher{prices: map[string]float64{"bitcoin": 65000}}, dispatcher)
	m.now = func() time.Time { return now }

	m.RunTick(context.Background())

	assert.Empty(t, dispatcher.sent[1])
	require.Len(t, dispatcher.sent[2], 1)

	// The failed subscriber's last_sent still advances so a permanently
	// unreachable chat is not retried every tick.
	assert.Equal(t, now.Unix(), store.lists[1][0].LastSent)
	assert.Equal(t, now.Unix(), store.lists[2][0].LastSent)
}

func TestRunTick_MixedEntriesSingleWrite(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	store := newMemStore()
	store.lists[42] = []watchlist.TrackedAsset{
		{Symbol: "BTC", AssetID: "bitcoin", PeriodMinutes: 15, LastSent: now.Add(-time.Hour).Unix()},
		{Symbol: "ETH", AssetID: "ethereum", PeriodMinutes: 60, LastSent: now.Unix()},
		{Symbol: "SOL", AssetID: "solana", PeriodMinutes: 15, LastSent: now.Add(-time.Hour).Unix()},
	}

	dispatcher := newCapturingDispatcher()
	m := newMonitor(store, &stubFetcher{prices: map[string]float64{
		"bitcoin": 65000, "ethereum": 3200, "solana": 150,
	}}, dispatcher)
	m.now = func() time.Time { return now }

	m.RunTick(context.Background())

	assert.Len(t, dispatcher.sent[42], 2, "BTC and SOL due, ETH not")
	assert.Equal(t, 1, store.puts[42])
}

func TestRenderReport(t *testing.T) {
	text := RenderReport(watchlist.TrackedAsset{Symbol: "BTC"}, 65000)
	assert.Contains(t, text, "BTC")
	assert.Contains(t, text, "65,000")
}

func TestRenderAlert(t *testing.T) {
	e := watchlist.TrackedAsset{
		Symbol: "ETH",
		Alert:  &watchlist.Alert{Op: watchlist.OpLTE, Target: 3000},
	}
	text := RenderAlert(e, 2900)
	assert.Contains(t, text, "ETH")
	assert.Contains(t, text, "2,900")
	assert.Contains(t, text, "3,000")
}
