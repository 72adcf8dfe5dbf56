// Package prom implements the observability hooks with Prometheus metrics.
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/pedigree/pkg/observability"
)

// Metrics holds the pedigree collectors. It implements both
// [observability.EngineHooks] and [observability.DocumentHooks].
type Metrics struct {
	Mutations        *prometheus.CounterVec
	MutationDuration *prometheus.HistogramVec
	Queued           prometheus.Counter
	RelayoutDuration *prometheus.HistogramVec
	DirtyNodes       prometheus.Histogram
	Crossings        prometheus.Gauge
	Iterations       prometheus.Histogram
	Published        prometheus.Counter
	Nodes            prometheus.Gauge
	Documents        *prometheus.CounterVec
	DocumentBytes    *prometheus.CounterVec
}

var (
	_ observability.EngineHooks   = (*Metrics)(nil)
	_ observability.DocumentHooks = (*Metrics)(nil)
)

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pedigree_mutations_total",
			Help: "Total number of mutations, labelled by operation and status.",
		}, []string{"op", "status"}),

		MutationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pedigree_mutation_duration_ms",
			Help:    "Mutation latency including relayout, in milliseconds.",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100, 250},
		}, []string{"op"}),

		Queued: f.NewCounter(prometheus.CounterOpts{
			Name: "pedigree_mutations_queued_total",
			Help: "Total number of mutations deferred behind a running one.",
		}),

		RelayoutDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pedigree_relayout_stage_duration_ms",
			Help:    "Relayout stage latency in milliseconds, labelled by stage.",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10, 50, 100},
		}, []string{"stage"}),

		DirtyNodes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pedigree_relayout_dirty_nodes",
			Help:    "Number of dirty nodes per relayout.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),

		Crossings: f.NewGauge(prometheus.GaugeOpts{
			Name: "pedigree_edge_crossings",
			Help: "Edge crossings left after the last ordering pass.",
		}),

		Iterations: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pedigree_ordering_iterations",
			Help:    "Barycenter sweep pairs per ordering pass.",
			Buckets: prometheus.LinearBuckets(0, 2, 10),
		}),

		Published: f.NewCounter(prometheus.CounterOpts{
			Name: "pedigree_layouts_published_total",
			Help: "Total number of layouts published to the renderer.",
		}),

		Nodes: f.NewGauge(prometheus.GaugeOpts{
			Name: "pedigree_nodes",
			Help: "Number of nodes in the last published layout.",
		}),

		Documents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pedigree_documents_total",
			Help: "Documents read or written, labelled by direction, kind and status.",
		}, []string{"direction", "kind", "status"}),

		DocumentBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pedigree_document_bytes_total",
			Help: "Bytes of documents written, labelled by kind.",
		}, []string{"kind"}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func (m *Metrics) OnMutation(op string, d time.Duration, err error) {
	m.Mutations.WithLabelValues(op, status(err)).Inc()
	m.MutationDuration.WithLabelValues(op).Observe(ms(d))
}

func (m *Metrics) OnQueued(string) {
	m.Queued.Inc()
}

func (m *Metrics) OnRelayout(stage observability.Stage, dirty int, d time.Duration) {
	m.RelayoutDuration.WithLabelValues(string(stage)).Observe(ms(d))
	if stage == observability.StageRank {
		m.DirtyNodes.Observe(float64(dirty))
	}
}

func (m *Metrics) OnCrossings(crossings, iterations int) {
	m.Crossings.Set(float64(crossings))
	m.Iterations.Observe(float64(iterations))
}

func (m *Metrics) OnPublish(version uint64, nodes int) {
	m.Published.Inc()
	m.Nodes.Set(float64(nodes))
}

func (m *Metrics) OnRead(kind string, nodes int, d time.Duration, err error) {
	m.Documents.WithLabelValues("read", kind, status(err)).Inc()
}

func (m *Metrics) OnWrite(kind string, size int, d time.Duration, err error) {
	m.Documents.WithLabelValues("write", kind, status(err)).Inc()
	if err == nil {
		m.DocumentBytes.WithLabelValues(kind).Add(float64(size))
	}
}
