package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "voxel"

// Metrics groups the collectors exported by the simulation. A nil
// *Metrics is valid and records nothing, so libraries can be used without
// a registry.
type Metrics struct {
	requests      *prometheus.CounterVec
	requestErrors *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	faces         *prometheus.CounterVec
	queueDepth    prometheus.Gauge
	resident      prometheus.Gauge
	pendingLoads  prometheus.Gauge
	frameSeconds  prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compute_requests_total",
			Help:      "Requests handled by the compute workers, by kind.",
		}, []string{"kind"}),
		requestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compute_request_errors_total",
			Help:      "Requests that completed with an error, by kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compute_request_duration_seconds",
			Help:      "Time spent by a worker on one request.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"kind"}),
		faces: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mesh_faces_total",
			Help:      "Faces emitted by the mesh extractor, by surface.",
		}, []string{"surface"}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "compute_queue_depth",
			Help:      "Requests waiting for a worker.",
		}),
		resident: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chunks_resident",
			Help:      "Chunks with voxel data in the cache.",
		}),
		pendingLoads: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chunks_loading",
			Help:      "Chunk loads issued but not merged yet.",
		}),
		frameSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Wall time of one simulation step.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 10),
		}),
	}
	reg.MustRegister(m.requests, m.requestErrors, m.duration, m.faces,
		m.queueDepth, m.resident, m.pendingLoads, m.frameSeconds)
	return m
}

// ObserveRequest records one finished compute request of the given kind.
func (m *Metrics) ObserveRequest(kind string, took time.Duration, err error) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(kind).Inc()
	m.duration.WithLabelValues(kind).Observe(took.Seconds())
	if err != nil {
		m.requestErrors.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) AddFaces(opaque, transparent int) {
	if m == nil {
		return
	}
	m.faces.WithLabelValues("opaque").Add(float64(opaque))
	m.faces.WithLabelValues("transparent").Add(float64(transparent))
}

func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}

// SetChunks updates the cache gauges.
func (m *Metrics) SetChunks(resident, loading int) {
	if m == nil {
		return
	}
	m.resident.Set(float64(resident))
	m.pendingLoads.Set(float64(loading))
}

func (m *Metrics) ObserveFrame(took time.Duration) {
	if m == nil {
		return
	}
	m.frameSeconds.Observe(took.Seconds())
}
