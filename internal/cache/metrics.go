package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "task_listing_cache_hits_total",
		Help: "Listing requests served from the cache",
	})
	cacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "task_listing_cache_misses_total",
		Help: "Listing requests that fell through to the store",
	})
	invalidations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "task_listing_invalidations_total",
		Help: "Listing cache version bumps after task mutations",
	})
)

func init() {
	prometheus.MustRegister(cacheHits, cacheMisses, invalidations)
}
