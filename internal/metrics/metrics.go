package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Standard Prometheus collectors for the fraud monitor.
var (
	// fraudwatch_scans_total (counter): texts analyzed by the pipeline
	ScansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fraudwatch_scans_total",
		Help: "Total number of text candidates analyzed",
	})

	// fraudwatch_alerts_total{level,source}
	AlertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fraudwatch_alerts_total",
		Help: "Number of risk alerts raised, by level and source",
	}, []string{"level", "source"})

	// fraudwatch_remote_calls_total{outcome=ok|error|offline|quota_exhausted|cache_hit}
	RemoteCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fraudwatch_remote_calls_total",
		Help: "Remote classification attempts by outcome",
	}, []string{"outcome"})

	// fraudwatch_quota_remaining (gauge): remote calls left today
	QuotaRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fraudwatch_quota_remaining",
		Help: "Remaining remote classification calls for the current day",
	})

	// fraudwatch_scan_latency_seconds (histogram): candidate processing time
	ScanLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fraudwatch_scan_latency_seconds",
		Help:    "Candidate analysis latency in seconds",
		Buckets: prometheus.DefBuckets,
	})
)

// RecordAlert increments the alert counter.
func RecordAlert(level, source string) {
	AlertsTotal.WithLabelValues(level, source).Inc()
}

// RecordRemoteCall increments the remote call counter for an outcome.
func RecordRemoteCall(outcome string) {
	RemoteCallsTotal.WithLabelValues(outcome).Inc()
}

// SetQuotaRemaining updates the quota gauge.
func SetQuotaRemaining(remaining int) {
	QuotaRemaining.Set(float64(remaining))
}
