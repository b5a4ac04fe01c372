package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SignupsTotal counts successful account creations.
	SignupsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warbler_signups_total",
		Help: "Total number of successful signups",
	})

	// LoginAttempts counts login attempts by outcome ("success" or "failure").
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_login_attempts_total",
		Help: "Total number of login attempts by outcome",
	}, []string{"outcome"})

	// MessagesCreated counts posted messages.
	MessagesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warbler_messages_created_total",
		Help: "Total number of messages posted",
	})

	// FollowMutations counts social graph edge changes by action ("follow" or "unfollow").
	FollowMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_follow_mutations_total",
		Help: "Total number of follow/unfollow operations",
	}, []string{"action"})

	// LikeMutations counts like edge changes by action ("like" or "unlike").
	LikeMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_like_mutations_total",
		Help: "Total number of like/unlike operations",
	}, []string{"action"})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "warbler_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
