// Package metrics exposes Prometheus counters for a review run: inference
// latency, route outcomes, filed frames per label, and ready queue depth.
// A nil *Collector is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"routelabel/internal/ledger"
)

const namespace = "routelabel"

// Collector owns a private registry so tests and repeated runs never clash
// on the default one.
type Collector struct {
	registry *prometheus.Registry

	inferenceSeconds prometheus.Histogram
	inferenceFrames  prometheus.Counter
	inferenceErrors  prometheus.Counter
	routes           *prometheus.CounterVec
	framesFiled      *prometheus.CounterVec
	framesSkipped    prometheus.Counter
}

// New registers every routelabel metric on a fresh registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		inferenceSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_batch_seconds",
			Help:      "Time spent scoring one route batch.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		inferenceFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_frames_total",
			Help:      "Frames sent to the classifier.",
		}),
		inferenceErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_errors_total",
			Help:      "Route batches the classifier failed to score.",
		}),
		routes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routes_total",
			Help:      "Routes leaving the pipeline by outcome.",
		}, []string{"outcome"}),
		framesFiled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_filed_total",
			Help:      "Frames filed by label and whether the suggestion was kept.",
		}, []string{"label", "agreed"}),
		framesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_skipped_total",
			Help:      "Frames passed over by the skip cadence.",
		}),
	}
	c.registry.MustRegister(
		c.inferenceSeconds,
		c.inferenceFrames,
		c.inferenceErrors,
		c.routes,
		c.framesFiled,
		c.framesSkipped,
	)
	return c
}

// WatchQueue exports depth and reserved as gauges sampled at scrape time.
func (c *Collector) WatchQueue(depth, reserved func() int) {
	if c == nil {
		return
	}
	c.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ready_queue_depth",
			Help:      "Scored routes waiting for the reviewer.",
		}, func() float64 { return float64(depth()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ready_queue_reserved",
			Help:      "Queue slots held by queued or in-flight routes.",
		}, func() float64 { return float64(reserved()) }),
	)
}

// ObserveInference records one batch scoring attempt.
func (c *Collector) ObserveInference(elapsed time.Duration, frames int, err error) {
	if c == nil {
		return
	}
	c.inferenceSeconds.Observe(elapsed.Seconds())
	c.inferenceFrames.Add(float64(frames))
	if err != nil {
		c.inferenceErrors.Inc()
	}
}

// RouteFinished counts a route outcome.
func (c *Collector) RouteFinished(outcome ledger.Outcome) {
	if c == nil {
		return
	}
	c.routes.WithLabelValues(string(outcome)).Inc()
}

// FrameFiled counts a frame moved into a label folder.
func (c *Collector) FrameFiled(label string, agreed bool) {
	if c == nil {
		return
	}
	c.framesFiled.WithLabelValues(label, strconv.FormatBool(agreed)).Inc()
}

// FrameSkipped counts a frame hidden by the skip cadence.
func (c *Collector) FrameSkipped() {
	if c == nil {
		return
	}
	c.framesSkipped.Inc()
}

// Registry exposes the underlying registry for scraping and tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
