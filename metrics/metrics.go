// Package metrics exposes playback statistics to Prometheus.
package metrics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fbplay/fbplay/video/container"
)

// Metrics holds the player's counters and gauges.
type Metrics struct {
	registry     *prometheus.Registry
	recordsTotal prometheus.Counter
	decodedTotal prometheus.Counter
	droppedTotal prometheus.Counter
	truncated    prometheus.Gauge
	frames       prometheus.Gauge
	cores        prometheus.Gauge
	bandBytes    prometheus.Gauge
	buildSeconds prometheus.Gauge
}

// New creates and registers the player metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		recordsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fbplay_records_total",
			Help: "Container records seen by the decoder",
		}),
		decodedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fbplay_frames_decoded_total",
			Help: "Records decoded into frames",
		}),
		droppedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fbplay_frames_dropped_total",
			Help: "Records skipped because they failed to decode",
		}),
		truncated: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fbplay_container_truncated",
			Help: "1 if the container ends in an incomplete record",
		}),
		frames: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fbplay_frames",
			Help: "Frames in the playback loop",
		}),
		cores: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fbplay_cores",
			Help: "Cores presenting frames",
		}),
		bandBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fbplay_band_bytes",
			Help: "Memory held by partitioned frame bands",
		}),
		buildSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fbplay_build_seconds",
			Help: "Time spent decoding and partitioning the container",
		}),
	}

	registry.MustRegister(
		m.recordsTotal,
		m.decodedTotal,
		m.droppedTotal,
		m.truncated,
		m.frames,
		m.cores,
		m.bandBytes,
		m.buildSeconds,
	)
	return m
}

// Build describes a finished build pass.
type Build struct {
	Stats     container.Stats
	Frames    int
	Cores     int
	BandBytes int
	Seconds   float64
}

// ObserveBuild records the outcome of the build pass.
func (m *Metrics) ObserveBuild(b Build) {
	m.recordsTotal.Add(float64(b.Stats.Records))
	m.decodedTotal.Add(float64(b.Stats.Decoded))
	m.droppedTotal.Add(float64(b.Stats.Dropped))
	if b.Stats.Truncated {
		m.truncated.Set(1)
	} else {
		m.truncated.Set(0)
	}
	m.frames.Set(float64(b.Frames))
	m.cores.Set(float64(b.Cores))
	m.bandBytes.Set(float64(b.BandBytes))
	m.buildSeconds.Set(b.Seconds)
}

// WatchRounds exports the number of completed barrier rounds, read from
// rounds at scrape time.
func (m *Metrics) WatchRounds(rounds func() uint64) {
	m.registry.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name: "fbplay_rounds_total",
		Help: "Frames presented by all cores",
	}, func() float64 {
		return float64(rounds())
	}))
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler returns an http.Handler that serves the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Router returns the HTTP routes of the metrics endpoint.
func (m *Metrics) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/metrics", m.Handler().ServeHTTP)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	return r
}
