package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Call outcomes recorded on the service call counter.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// ExportJob is the Pushgateway job the export gauge is pushed under.
const ExportJob = "fittrack_export"

var (
	serviceCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "service",
		Name:      "calls_total",
		Help:      "Number of domain service calls by service, method and outcome.",
	}, []string{"service", "method", "outcome"})

	serviceCallDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fittrack",
		Subsystem: "service",
		Name:      "call_duration_seconds",
		Help:      "Latency of domain service calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"service", "method"})

	eventPublishFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "events",
		Name:      "publish_failures_total",
		Help:      "Number of change events that could not be published.",
	}, []string{"entity"})

	lastExportGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fittrack",
		Subsystem: "export",
		Name:      "last_snapshot_timestamp_seconds",
		Help:      "Unix timestamp of the most recent snapshot written to object storage.",
	})
)

func init() {
	prometheus.MustRegister(serviceCalls, serviceCallDuration, eventPublishFailures, lastExportGauge)
}

// RecordServiceCall counts one service call and observes its latency.
func RecordServiceCall(service, method string, err error, elapsed time.Duration) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	serviceCalls.WithLabelValues(service, method, outcome).Inc()
	serviceCallDuration.WithLabelValues(service, method).Observe(elapsed.Seconds())
}

// RecordPublishFailure counts a change event that was dropped.
func RecordPublishFailure(entity string) {
	eventPublishFailures.WithLabelValues(entity).Inc()
}

// RecordExport updates the export watermark gauge.
func RecordExport(ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastExportGauge.Set(float64(ts.Unix()))
}

// PushExport sends the export gauge to the Pushgateway at gatewayURL,
// replacing whatever the previous run pushed for ExportJob.
func PushExport(ctx context.Context, gatewayURL string) error {
	if err := push.New(gatewayURL, ExportJob).Collector(lastExportGauge).PushContext(ctx); err != nil {
		return fmt.Errorf("push export metrics to %s: %w", gatewayURL, err)
	}
	return nil
}
