// Package metrics provides Prometheus metrics for the echotone game core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Score histogram layout: 0..100 in steps of 10.
const (
	scoreBucketStart = 0.0
	scoreBucketWidth = 10.0
	scoreBucketCount = 11
)

// Manager manages all Prometheus metrics for the echotone core.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Round lifecycle - what really matters for the game loop
	roundsStarted prometheus.Counter
	roundsPassed  prometheus.Counter
	roundsFailed  prometheus.Counter

	// Score quality
	positionScore prometheus.Histogram
	rhythmScore   prometheus.Histogram
	totalScore    prometheus.Histogram

	// Playback / input intake
	playbackSteps  prometheus.Counter
	inputsAccepted prometheus.Counter
	inputsRejected prometheus.Counter

	// Result pipeline
	resultsSubmitted prometheus.Counter
	resultsDuplicate prometheus.Counter

	// Queue health
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueues      prometheus.Counter
	queueDequeues      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker pool
	workerActiveCount       prometheus.Gauge
	workerErrors            prometheus.Counter
	workerProcessingLatency prometheus.Histogram

	// Leaderboard board
	boardRecords       *prometheus.GaugeVec
	boardImprovements  *prometheus.CounterVec
	boardUpdateLatency prometheus.Histogram
	boardQueryLatency  prometheus.Histogram

	// Detailed error tracking
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "echotone",
		subsystem:        "core",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)
	scoreBuckets := prometheus.LinearBuckets(scoreBucketStart, scoreBucketWidth, scoreBucketCount)

	m.roundsStarted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rounds_started_total",
		Help:      "Total number of rounds that entered playback",
	})

	m.roundsPassed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rounds_passed_total",
		Help:      "Total number of rounds that met the pass thresholds",
	})

	m.roundsFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rounds_failed_total",
		Help:      "Total number of rounds below the pass thresholds",
	})

	m.positionScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "position_score",
		Help:      "Distribution of per-round position sub-scores (0-100)",
		Buckets:   scoreBuckets,
	})

	m.rhythmScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rhythm_score",
		Help:      "Distribution of per-round rhythm sub-scores (0-100)",
		Buckets:   scoreBuckets,
	})

	m.totalScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_score",
		Help:      "Distribution of per-round total scores (0-100)",
		Buckets:   scoreBuckets,
	})

	m.playbackSteps = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "playback_steps_total",
		Help:      "Total number of sequence targets presented to the playback driver",
	})

	m.inputsAccepted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "inputs_accepted_total",
		Help:      "Total number of player inputs recorded during player turns",
	})

	m.inputsRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "inputs_rejected_total",
		Help:      "Total number of player inputs rejected (wrong state or overflow)",
	})

	m.resultsSubmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "results_submitted_total",
		Help:      "Total number of round results accepted into the pipeline",
	})

	m.resultsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "results_duplicate_total",
		Help:      "Total number of duplicate round results dropped at intake",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current number of results waiting in the queue",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Configured capacity of the result queue",
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_utilization",
		Help:      "Queue fill ratio (0.0-1.0)",
	})

	m.queueEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueues_total",
		Help:      "Total number of successful enqueues",
	})

	m.queueDequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dequeues_total",
		Help:      "Total number of successful dequeues",
	})

	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_errors_total",
		Help:      "Total number of rejected enqueues (full or closed queue)",
	})

	m.workerActiveCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_active_count",
		Help:      "Number of running submission workers",
	})

	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Total number of worker submission failures",
	})

	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_processing_latency_milliseconds",
		Help:      "Histogram of end-to-end result processing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.boardRecords = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "board_records",
		Help:      "Number of players tracked per leaderboard category",
	}, []string{"category"})

	m.boardImprovements = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "board_improvements_total",
		Help:      "Total number of submissions that improved a player's best",
	}, []string{"category"})

	m.boardUpdateLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "board_update_latency_milliseconds",
		Help:      "Histogram of board update latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.boardQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "board_query_latency_milliseconds",
		Help:      "Histogram of board query latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_component_total",
		Help:      "Total errors broken down by component and error type",
	}, []string{"component", "error_type"})
}

// Round lifecycle helpers.

func RecordRoundStarted() {
	globalManager.roundsStarted.Inc()
}

func RecordRoundPassed() {
	globalManager.roundsPassed.Inc()
}

func RecordRoundFailed() {
	globalManager.roundsFailed.Inc()
}

// RecordScores observes one round's three sub-scores.
func RecordScores(position, rhythm, total float64) {
	globalManager.positionScore.Observe(position)
	globalManager.rhythmScore.Observe(rhythm)
	globalManager.totalScore.Observe(total)
}

// Playback / input helpers.

func RecordPlaybackStep() {
	globalManager.playbackSteps.Inc()
}

func RecordInputAccepted() {
	globalManager.inputsAccepted.Inc()
}

func RecordInputRejected() {
	globalManager.inputsRejected.Inc()
}

// Result pipeline helpers.

func RecordResultSubmitted() {
	globalManager.resultsSubmitted.Inc()
}

func RecordResultDuplicate() {
	globalManager.resultsDuplicate.Inc()
}

// Queue helpers.

func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

func RecordQueueEnqueue() {
	globalManager.queueEnqueues.Inc()
}

func RecordQueueDequeue() {
	globalManager.queueDequeues.Inc()
}

func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// Worker helpers.

func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// Board helpers.

func UpdateBoardRecords(category string, count int) {
	globalManager.boardRecords.WithLabelValues(category).Set(float64(count))
}

func RecordBoardImprovement(category string) {
	globalManager.boardImprovements.WithLabelValues(category).Inc()
}

func RecordBoardUpdateLatency(latencyMs float64) {
	globalManager.boardUpdateLatency.Observe(latencyMs)
}

func RecordBoardQueryLatency(latencyMs float64) {
	globalManager.boardQueryLatency.Observe(latencyMs)
}

// Error helpers.

func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom registry for exposition by an embedding host.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
