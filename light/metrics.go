package light

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	// MetricsSubsystem is a subsystem shared by all metrics exposed by this
	// package.
	MetricsSubsystem = "light"
)

// Metrics contains metrics exposed by this package.
type Metrics struct {
	// Number of verifications, labeled by outcome ("ok" or the error kind).
	Verifications metrics.Counter
	// Height of the last header that was verified successfully.
	TrustedHeight metrics.Gauge
	// Height difference between the trusted and the verified header.
	SkipDistance metrics.Histogram
	// Time spent verifying a header, in seconds.
	VerificationDuration metrics.Histogram
}

// PrometheusMetrics returns Metrics build using Prometheus client library.
// Optionally, labels can be provided along with their values ("foo",
// "fooValue").
func PrometheusMetrics(namespace string, labelsAndValues ...string) *Metrics {
	labels := []string{}
	for i := 0; i < len(labelsAndValues); i += 2 {
		labels = append(labels, labelsAndValues[i])
	}
	return &Metrics{
		Verifications: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "verifications",
			Help:      "Number of header verifications, by outcome.",
		}, append(labels, "outcome")).With(labelsAndValues...),
		TrustedHeight: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "trusted_height",
			Help:      "Height of the last verified header.",
		}, labels).With(labelsAndValues...),
		SkipDistance: prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "skip_distance",
			Help:      "Height difference between the trusted and the verified header.",
			Buckets:   stdprometheus.ExponentialBuckets(1, 4, 10),
		}, labels).With(labelsAndValues...),
		VerificationDuration: prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "verification_duration_seconds",
			Help:      "Time spent verifying a header.",
			Buckets:   stdprometheus.ExponentialBuckets(0.0001, 4, 10),
		}, labels).With(labelsAndValues...),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		Verifications:        discard.NewCounter(),
		TrustedHeight:        discard.NewGauge(),
		SkipDistance:         discard.NewHistogram(),
		VerificationDuration: discard.NewHistogram(),
	}
}
