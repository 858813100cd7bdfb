// Package metrics exports tracker activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/LdDl/colortrack-go/colortrack"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Failure reasons used as label values of frame_failures_total
const (
	ReasonInvalidInput      = "invalid_input"
	ReasonUnsupportedFormat = "unsupported_format"
	ReasonNotInitialized    = "not_initialized"
	ReasonOther             = "other"
)

// Collector implements colortrack.Observer on top of Prometheus collectors
type Collector struct {
	procTimeHistogram prometheus.Histogram
	failures          *prometheus.CounterVec
	seeds             *prometheus.CounterVec
	structural        prometheus.Counter
	tracked           prometheus.Gauge
	lost              prometheus.Gauge
}

// NewCollector creates collectors with the given namespace.
// Nil buckets means prometheus.DefBuckets
func NewCollector(namespace string, procTimeBuckets []float64) *Collector {
	if procTimeBuckets == nil {
		procTimeBuckets = prometheus.DefBuckets
	}
	return &Collector{
		procTimeHistogram: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "frame_processing_seconds",
				Help:      "Histogram of per-frame processing times.",
				Buckets:   procTimeBuckets,
			},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "frame_failures_total",
				Help:      "Number of rejected frames by reason.",
			},
			[]string{"reason"},
		),
		seeds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "seed_requests_total",
				Help:      "Number of seed requests by result.",
			},
			[]string{"result"},
		),
		structural: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "structural_updates_total",
				Help:      "Number of frames which adopted caller boxes or ROI.",
			},
		),
		tracked: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tracked_objects",
				Help:      "Number of objects in the session.",
			},
		),
		lost: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "lost_objects",
				Help:      "Number of objects currently reported as lost.",
			},
		),
	}
}

// Register registers every collector
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{c.procTimeHistogram, c.failures, c.seeds, c.structural, c.tracked, c.lost} {
		if err := reg.Register(col); err != nil {
			return errors.Wrap(err, "Can't register tracker metrics")
		}
	}
	return nil
}

// ObserveFrame implements colortrack.Observer
func (c *Collector) ObserveFrame(elapsed time.Duration, res colortrack.Result, err error) {
	c.procTimeHistogram.Observe(elapsed.Seconds())
	if err != nil {
		c.failures.WithLabelValues(FailureReason(err)).Inc()
		return
	}
	if res.Structural {
		c.structural.Inc()
	}
	if res.Seeded {
		c.seeds.WithLabelValues(seedResult(res.SeedErr)).Inc()
	}
	lost := 0
	for _, obj := range res.Objects {
		if obj.Lost {
			lost++
		}
	}
	c.tracked.Set(float64(len(res.Objects)))
	c.lost.Set(float64(lost))
}

func seedResult(seedErr error) string {
	switch {
	case seedErr == nil:
		return "ok"
	case errors.Is(seedErr, colortrack.ErrInvalidSeed):
		return "invalid_seed"
	default:
		return "error"
	}
}

// FailureReason maps frame error to label value
func FailureReason(err error) string {
	switch {
	case errors.Is(err, colortrack.ErrInvalidInput):
		return ReasonInvalidInput
	case errors.Is(err, colortrack.ErrUnsupportedFormat):
		return ReasonUnsupportedFormat
	case errors.Is(err, colortrack.ErrNotInitialized):
		return ReasonNotInitialized
	default:
		return ReasonOther
	}
}
