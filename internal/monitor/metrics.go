package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pricewatch",
		Subsystem: "monitor",
		Name:      "ticks_total",
		Help:      "The total number of completed price-check ticks",
	})

	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pricewatch",
		Subsystem: "monitor",
		Name:      "tick_duration_seconds",
		Help:      "Wall-clock duration of one price-check tick",
		Buckets:   prometheus.DefBuckets,
	})

	notificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pricewatch",
		Subsystem: "monitor",
		Name:      "notifications_sent_total",
		Help:      "The total number of notifications dispatched, by kind",
	}, []string{"kind"})

	notificationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pricewatch",
		Subsystem: "monitor",
		Name:      "notifications_failed_total",
		Help:      "The total number of notification sends that failed",
	})

	subscriberErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pricewatch",
		Subsystem: "monitor",
		Name:      "subscriber_errors_total",
		Help:      "The total number of subscribers whose tick processing failed",
	})
)
