// Package metrics exposes Prometheus collectors for the editing session.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "colmena"

// Metrics groups every collector the editor updates.
type Metrics struct {
	Registry *prometheus.Registry

	Mutations    *prometheus.CounterVec
	HistoryDepth *prometheus.GaugeVec
	StorageOps   *prometheus.CounterVec
	Publishes    *prometheus.CounterVec
	Units        *prometheus.GaugeVec
	Capacity     prometheus.Gauge
	OpenOrders   prometheus.Gauge
}

// New registers the collectors on a fresh registry, along with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "editor_mutations_total",
			Help:      "Layout mutations applied, by action.",
		}, []string{"action"}),
		HistoryDepth: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_depth",
			Help:      "Entries on the undo and redo stacks.",
		}, []string{"stack"}),
		StorageOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_operations_total",
			Help:      "Storage slot operations, by operation and result code.",
		}, []string{"op", "result"}),
		Publishes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_total",
			Help:      "layout.saved publish attempts, by result.",
		}, []string{"result"}),
		Units: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "layout_units",
			Help:      "Sellable units in the current layout, by type.",
		}, []string{"type"}),
		Capacity: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "layout_capacity",
			Help:      "Total persons the current layout holds.",
		}),
		OpenOrders: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "orders_open",
			Help:      "Orders staged in this session.",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// ObserveHistory records the depth of both history stacks.
func (m *Metrics) ObserveHistory(undo, redo int) {
	if m == nil {
		return
	}
	m.HistoryDepth.WithLabelValues("undo").Set(float64(undo))
	m.HistoryDepth.WithLabelValues("redo").Set(float64(redo))
}

// ObserveLayout records unit counts and total capacity.
func (m *Metrics) ObserveLayout(seats, tables, capacity int) {
	if m == nil {
		return
	}
	m.Units.WithLabelValues("seat").Set(float64(seats))
	m.Units.WithLabelValues("table").Set(float64(tables))
	m.Capacity.Set(float64(capacity))
}

// Mutation counts one applied action.
func (m *Metrics) Mutation(action string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(action).Inc()
}

// Storage counts one storage operation.  result is "ok" or a result code.
func (m *Metrics) Storage(op, result string) {
	if m == nil {
		return
	}
	m.StorageOps.WithLabelValues(op, result).Inc()
}

// Publish counts one publish attempt.
func (m *Metrics) Publish(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.Publishes.WithLabelValues(result).Inc()
}

// Orders records the number of staged orders.
func (m *Metrics) Orders(n int) {
	if m == nil {
		return
	}
	m.OpenOrders.Set(float64(n))
}
