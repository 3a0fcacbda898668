package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Failure stages
const (
	StageStore = "store"
	StageCache = "cache"
)

// Lookup results
const (
	LookupFound    = "found"
	LookupNotFound = "not_found"
	LookupError    = "error"
)

var (
	SubmissionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hireform_submissions_total",
			Help: "Total number of accepted form submissions",
		},
	)

	SubmissionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hireform_submission_failures_total",
			Help: "Total number of submissions that failed, by pipeline stage",
		},
		[]string{"stage"},
	)

	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hireform_lookups_total",
			Help: "Total number of submission lookups, by result",
		},
		[]string{"result"},
	)

	StoreAppendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hireform_store_append_duration_seconds",
			Help:    "Duration of record store appends in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
