package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts catalog mutations. A nil *Metrics records nothing.
type Metrics struct {
	mutations    *prometheus.CounterVec
	imageBytes   prometheus.Counter
	imageDeletes prometheus.Counter
}

// New registers the catalog collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "product_mutations_total",
			Help:      "Product create/update/delete operations by outcome.",
		}, []string{"op", "outcome"}),
		imageBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "image_bytes_written_total",
			Help:      "Bytes written to the image store.",
		}),
		imageDeletes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "image_deletes_total",
			Help:      "Files removed from the image store.",
		}),
	}
	reg.MustRegister(m.mutations, m.imageBytes, m.imageDeletes)
	return m
}

// Mutation records one product mutation; err decides the outcome label.
func (m *Metrics) Mutation(op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.mutations.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) ImageWritten(n int64) {
	if m == nil {
		return
	}
	m.imageBytes.Add(float64(n))
}

func (m *Metrics) ImageDeleted() {
	if m == nil {
		return
	}
	m.imageDeletes.Inc()
}
