// Package monitor runs the periodic price-check tick: it aggregates every
// tracked asset across all subscribers, resolves prices in one batched
// fetch, evaluates each entry's delivery policy and dispatches what is due.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"pricewatch-telegram-bot/internal/policy"
	"pricewatch-telegram-bot/internal/price"
	"pricewatch-telegram-bot/internal/watchlist"
)

// Dispatcher delivers a rendered notification to one subscriber.
type Dispatcher interface {
	Send(chatID int64, text string) error
}

// Recorder receives tick bookkeeping. Failures are logged, never fatal.
type Recorder interface {
	RecordPrices(prices map[string]float64) error
	RecordNotification(chatID int64, assetID, kind string, price float64) error
}

// NoopRecorder discards all records.
type NoopRecorder struct{}

func (NoopRecorder) RecordPrices(map[string]float64) error { return nil }

func (NoopRecorder) RecordNotification(int64, string, string, float64) error { return nil }

const tickTimeout = 45 * time.Second

// Monitor drives the check cycle. Ticks never overlap: the cron entry is
// wrapped in SkipIfStillRunning, so a slow upstream delays the next tick
// instead of stacking them.
type Monitor struct {
	store      watchlist.Store
	resolver   *price.Resolver
	dispatcher Dispatcher
	recorder   Recorder
	workers    int

	cron *cron.Cron
	now  func() time.Time
}

func New(store watchlist.Store, resolver *price.Resolver, dispatcher Dispatcher, recorder Recorder, workers int) *Monitor {
	if recorder == nil {
		recorder = NoopRecorder{}
	}
	if workers < 1 {
		workers = 1
	}
	return &Monitor{
		store:      store,
		resolver:   resolver,
		dispatcher: dispatcher,
		recorder:   recorder,
		workers:    workers,
		now:        time.Now,
	}
}

// Start schedules the tick on a fixed interval and returns immediately.
func (m *Monitor) Start(interval time.Duration) error {
	cronLogger := cron.PrintfLogger(log.StandardLogger())
	m.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cronLogger),
		cron.Recover(cronLogger),
	))

	if _, err := m.cron.AddFunc("@every "+interval.String(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
		defer cancel()
		m.RunTick(ctx)
	}); err != nil {
		return err
	}

	m.cron.Start()
	log.Infof("price monitor started, checking every %s", interval)
	return nil
}

// Stop halts the schedule and waits for a running tick to finish.
func (m *Monitor) Stop() {
	if m.cron != nil {
		<-m.cron.Stop().Done()
	}
	log.Info("price monitor stopped")
}

// RunTick executes one full check cycle. Any error inside a single
// subscriber's processing is contained there; an error on the shared steps
// ends the tick early and the next interval retries with last_sent intact.
func (m *Monitor) RunTick(ctx context.Context) {
	started := m.now()
	defer func() {
		ticksTotal.Inc()
		tickDuration.Observe(time.Since(started).Seconds())
	}()

	subscribers, err := m.store.ListSubscribers(ctx)
	if err != nil {
		log.Errorf("tick aborted, could not list subscribers: %v", err)
		return
	}
	if len(subscribers) == 0 {
		return
	}

	// Load every watchlist first so one batched fetch covers the union of
	// all tracked assets.
	lists := make(map[int64][]watchlist.TrackedAsset, len(subscribers))
	assetSet := make(map[string]struct{})
	for _, chatID := range subscribers {
		entries, err := m.store.GetEntries(ctx, chatID)
		if err != nil {
			subscriberErrors.Inc()
			log.Errorf("skipping subscriber %d this tick: %v", chatID, err)
			continue
		}
		if len(entries) == 0 {
			continue
		}
		lists[chatID] = entries
		for _, e := range entries {
			assetSet[e.AssetID] = struct{}{}
		}
	}
	if len(assetSet) == 0 {
		return
	}

	assetIDs := make([]string, 0, len(assetSet))
	for id := range assetSet {
		assetIDs = append(assetIDs, id)
	}

	prices := m.resolver.ResolveAll(ctx, assetIDs)
	if err := m.recorder.RecordPrices(prices); err != nil {
		log.Errorf("could not record price snapshot: %v", err)
	}

	// Subscribers are independent, so dispatch across a bounded pool.
	var wg sync.WaitGroup
	sem := make(chan struct{}, m.workers)
	for chatID, entries := range lists {
		wg.Add(1)
		sem <- struct{}{}
		go func(chatID int64, entries []watchlist.TrackedAsset) {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					subscriberErrors.Inc()
					log.Errorf("panic while processing subscriber %d: %v", chatID, r)
				}
			}()
			m.processSubscriber(ctx, chatID, entries, prices)
		}(chatID, entries)
	}
	wg.Wait()

	log.Debugf("tick done: %d subscribers, %d assets, %d prices in %s",
		len(lists), len(assetIDs), len(prices), time.Since(started))
}

// processSubscriber evaluates one subscriber's entries and writes the list
// back once, after every decision for this subscriber is resolved.
func (m *Monitor) processSubscriber(ctx context.Context, chatID int64, entries []watchlist.TrackedAsset, prices map[string]float64) {
	now := m.now()
	mutated := false

	for i := range entries {
		e := entries[i]
		p, known := prices[e.AssetID]

		var (
			text string
			kind string
		)
		switch policy.Decide(e, p, known, now) {
		case policy.SendReport:
			text, kind = RenderReport(e, p), "report"
		case policy.SendAlert:
			text, kind = RenderAlert(e, p), "alert"
		default:
			continue
		}

		// last_sent moves forward once the dispatch attempt is initiated.
		// A failed send is not retried eagerly; the entry just waits out
		// its normal period, which avoids hammering unreachable chats.
		entries[i].LastSent = now.Unix()
		mutated = true

		if err := m.dispatcher.Send(chatID, text); err != nil {
			notificationsFailed.Inc()
			log.Errorf("could not notify subscriber %d about %s: %v", chatID, e.AssetID, err)
			continue
		}
		notificationsSent.WithLabelValues(kind).Inc()
		if err := m.recorder.RecordNotification(chatID, e.AssetID, kind, p); err != nil {
			log.Errorf("could not record notification for subscriber %d: %v", chatID, err)
		}
	}

	if !mutated {
		return
	}
	if err := m.store.PutEntries(ctx, chatID, entries); err != nil {
		subscriberErrors.Inc()
		log.Errorf("could not persist watchlist for subscriber %d: %v", chatID, err)
	}
}
