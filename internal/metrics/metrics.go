package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GitLabRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gitlab_requests_total",
		Help: "Total number of GitLab API requests by endpoint and response code",
	}, []string{"endpoint", "code"})

	GitLabRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gitlab_request_duration_seconds",
		Help:    "Latency of GitLab API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	FetchFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_fetch_failures_total",
		Help: "Total number of failed issue or commit fetches",
	}, []string{"source"})

	CommitsSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "commits_skipped_total",
		Help: "Total number of commits left out of weekday charts for an unparseable date",
	})

	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "api_cache_lookups_total",
		Help: "Caching client lookups by result (hit or miss)",
	}, []string{"result"})
)
