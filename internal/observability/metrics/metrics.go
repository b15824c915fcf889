// Package metrics registers the Prometheus instruments shared by the
// transport, sync store, and monitor loop.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "cityops_"

	ResultSuccess  = "success"
	ResultError    = "error"
	ResultDegraded = "degraded"
	ResultSkipped  = "skipped"
)

var (
	registerOnce sync.Once

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec

	syncReads         *prometheus.CounterVec
	syncSaves         *prometheus.CounterVec
	syncBatchFailures *prometheus.CounterVec

	pollCycles   prometheus.Counter
	pollLatency  prometheus.Histogram
	entityCounts *prometheus.GaugeVec

	readingsForwarded *prometheus.CounterVec
	reportExports     *prometheus.CounterVec
)

// Init registers all instruments. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		apiRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "api_requests_total",
				Help: "Total backend API requests by method and result",
			},
			[]string{"method", "result"},
		)
		apiLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "api_request_latency_seconds",
				Help:    "Backend API request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		)

		syncReads = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "sync_reads_total",
				Help: "Total sync store reads by kind and result",
			},
			[]string{"kind", "result"},
		)
		syncSaves = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "sync_saves_total",
				Help: "Total sync store saves by kind and result",
			},
			[]string{"kind", "result"},
		)
		syncBatchFailures = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "sync_batch_failures_total",
				Help: "Records skipped inside save batches by kind",
			},
			[]string{"kind"},
		)

		pollCycles = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "poll_cycles_total",
				Help: "Completed monitor poll cycles",
			},
		)
		pollLatency = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "poll_cycle_latency_seconds",
				Help:    "Monitor poll cycle latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		)
		entityCounts = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "entities",
				Help: "Entities seen in the last poll by kind",
			},
			[]string{"kind"},
		)

		readingsForwarded = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "readings_forwarded_total",
				Help: "Sensor readings forwarded to the backend by result",
			},
			[]string{"result"},
		)
		reportExports = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_exports_total",
				Help: "Report exports by format and result",
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			apiRequests, apiLatency,
			syncReads, syncSaves, syncBatchFailures,
			pollCycles, pollLatency, entityCounts,
			readingsForwarded, reportExports,
		)
	})
}

// ObserveAPIRequest records one transport round trip.
func ObserveAPIRequest(method, result string, elapsed time.Duration) {
	if apiRequests == nil {
		return
	}
	apiRequests.WithLabelValues(method, result).Inc()
	apiLatency.WithLabelValues(method).Observe(elapsed.Seconds())
}

// IncSyncRead records one read through the sync store.
func IncSyncRead(kind, result string) {
	if syncReads == nil {
		return
	}
	syncReads.WithLabelValues(kind, result).Inc()
}

// IncSyncSave records one save through the sync store.
func IncSyncSave(kind, result string) {
	if syncSaves == nil {
		return
	}
	syncSaves.WithLabelValues(kind, result).Inc()
}

// IncBatchFailure records a record skipped inside a batch.
func IncBatchFailure(kind string) {
	if syncBatchFailures == nil {
		return
	}
	syncBatchFailures.WithLabelValues(kind).Inc()
}

// ObservePollCycle records one completed monitor cycle.
func ObservePollCycle(elapsed time.Duration) {
	if pollCycles == nil {
		return
	}
	pollCycles.Inc()
	pollLatency.Observe(elapsed.Seconds())
}

// SetEntityCount publishes the entity count seen for a kind.
func SetEntityCount(kind string, n int) {
	if entityCounts == nil {
		return
	}
	entityCounts.WithLabelValues(kind).Set(float64(n))
}

// IncReadingForwarded records one forwarded sensor reading.
func IncReadingForwarded(result string) {
	if readingsForwarded == nil {
		return
	}
	readingsForwarded.WithLabelValues(result).Inc()
}

// IncReportExport records one report export.
func IncReportExport(format, result string) {
	if reportExports == nil {
		return
	}
	reportExports.WithLabelValues(format, result).Inc()
}
