// Package metrics exposes Prometheus instrumentation for the render
// pipeline and the encoder capability prober.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline's Prometheus collectors behind a private
// registry so multiple instances (tests included) never collide.
type Metrics struct {
	registry *prometheus.Registry

	FramesRendered prometheus.Counter
	FramesWritten  prometheus.Counter
	JobsTotal      *prometheus.CounterVec
	RenderFPS      prometheus.Gauge
	EncodeDuration prometheus.Histogram
	ProbeDuration  prometheus.Histogram
	Generating     prometheus.Gauge
}

// New creates and registers the pipeline collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		FramesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "abstractgen_frames_rendered_total",
			Help: "Frames synthesized by render workers.",
		}),
		FramesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "abstractgen_frames_written_total",
			Help: "Frames delivered in order to the encoder.",
		}),
		JobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "abstractgen_jobs_total",
			Help: "Generation jobs by outcome.",
		}, []string{"outcome"}),
		RenderFPS: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "abstractgen_render_fps",
			Help: "Observed synthesis throughput of the active job.",
		}),
		EncodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "abstractgen_encode_duration_seconds",
			Help:    "Wall time of completed generation jobs.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		ProbeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "abstractgen_probe_duration_seconds",
			Help:    "Duration of encoder capability probes.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		Generating: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "abstractgen_generating",
			Help: "1 while a generation job is active.",
		}),
	}

	registry.MustRegister(
		m.FramesRendered,
		m.FramesWritten,
		m.JobsTotal,
		m.RenderFPS,
		m.EncodeDuration,
		m.ProbeDuration,
		m.Generating,
	)
	return m
}

// Handler returns an HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
