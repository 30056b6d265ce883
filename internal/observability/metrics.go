// Package observability provides prometheus metrics for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// PageCacheRequests counts home page cache lookups by outcome (hit, miss).
	PageCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_page_cache_requests_total",
		Help: "Total home feed cache lookups by outcome",
	}, []string{"outcome"})

	// FeedQueryLatency records feed query latency by feed variant.
	FeedQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quill_feed_query_latency_seconds",
		Help:    "Feed assembly latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"feed"})
)
