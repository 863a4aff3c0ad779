package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qrisq_analyses_total",
			Help: "Total number of analysis requests by provider and outcome",
		},
		[]string{"provider", "status"},
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qrisq_analysis_duration_seconds",
			Help:    "Duration of the analysis pipeline in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)

	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qrisq_extractions_total",
			Help: "Variable extractions by method (llm or regex)",
		},
		[]string{"method"},
	)

	SummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qrisq_summaries_total",
			Help: "Narrative summary generations by outcome",
		},
		[]string{"status"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qrisq_cache_lookups_total",
			Help: "Result cache lookups by outcome (hit or miss)",
		},
		[]string{"result"},
	)

	SuccessProbability = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qrisq_success_probability",
			Help:    "Distribution of computed success probabilities",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 9),
		},
	)
)

// Status label values.
const (
	StatusSuccess  = "success"
	StatusFailure  = "failure"
	StatusRejected = "rejected"
	StatusSkipped  = "skipped"
	CacheHit       = "hit"
	CacheMiss      = "miss"
)

// ProviderInvalid is the provider label used for requests naming an unsupported provider.
const ProviderInvalid = "invalid"
