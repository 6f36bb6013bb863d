package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the ingestion service

var (
	// API Call metrics
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sharpshooter_api_calls_total",
			Help: "Total number of stats provider API calls",
		},
		[]string{"endpoint", "status"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sharpshooter_api_call_duration_seconds",
			Help:    "Duration of stats provider API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Database metrics
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sharpshooter_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "table", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sharpshooter_db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sharpshooter_cache_hits_total",
			Help: "Total number of picks cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sharpshooter_cache_misses_total",
			Help: "Total number of picks cache misses",
		},
	)

	// Run metrics
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sharpshooter_ingest_runs_total",
			Help: "Total number of ingestion runs by terminal state",
		},
		[]string{"state"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sharpshooter_ingest_run_duration_seconds",
			Help:    "Duration of ingestion runs in seconds",
			Buckets: []float64{10, 60, 300, 900, 1800, 3600, 7200, 14400},
		},
	)

	PlayersProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sharpshooter_players_processed_total",
			Help: "Total number of players whose history was ingested",
		},
	)

	PlayerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sharpshooter_player_failures_total",
			Help: "Total number of players skipped because of provider errors",
		},
		[]string{"kind"},
	)

	StatRowsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sharpshooter_stat_rows_written_total",
			Help: "Total number of new player_stats rows",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sharpshooter_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sharpshooter_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)

	LastSuccessfulRun = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sharpshooter_last_successful_run_timestamp",
			Help: "Timestamp of the last run that finished without aborting",
		},
	)
)

// RecordAPICall records an API call metric
func RecordAPICall(endpoint, status string, duration float64) {
	APICallsTotal.WithLabelValues(endpoint, status).Inc()
	APICallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table, status string, duration float64) {
	DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration)
}

// RecordCacheHit records a cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordRun records a finished ingestion run
func RecordRun(state string, duration float64) {
	RunsTotal.WithLabelValues(state).Inc()
	RunDuration.Observe(duration)
	LastSuccessfulRun.SetToCurrentTime()
}

// RecordAbortedRun records a run that stopped before finishing
func RecordAbortedRun(state string, duration float64) {
	RunsTotal.WithLabelValues("aborted_" + state).Inc()
	RunDuration.Observe(duration)
}

// RecordPlayerProcessed counts a player ingested without provider errors
func RecordPlayerProcessed() {
	PlayersProcessed.Inc()
}

// RecordPlayerFailure counts a skipped player
func RecordPlayerFailure(kind string) {
	PlayerFailures.WithLabelValues(kind).Inc()
}

// RecordStatRowWritten counts a newly inserted stat row
func RecordStatRowWritten() {
	StatRowsWritten.Inc()
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
