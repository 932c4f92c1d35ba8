package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewAssignConflictsTotal returns a Prometheus counter for the number of assignment attempts lost to another courier
func NewAssignConflictsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "delivery_assign_conflicts_total",
		Help: "Total number of delivery assignment attempts rejected because the delivery was already taken",
	})
}

// NewSyncChangesTotal returns a Prometheus counter vector for processed offline sync changes, labeled by outcome
func NewSyncChangesTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_changes_total",
		Help: "Total number of offline sync changes processed, partitioned by outcome",
	}, []string{"outcome"})
}
