package price

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pricewatch",
		Subsystem: "price",
		Name:      "fetch_errors_total",
		Help:      "The total number of failed upstream price fetches",
	})

	cacheFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pricewatch",
		Subsystem: "price",
		Name:      "cache_fallbacks_total",
		Help:      "The total number of prices served from the cache after a fetch miss",
	})
)
