package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectors(t *testing.T) {
	m := New()
	m.Mutation("paint")
	m.Mutation("paint")
	m.Storage("save", "ok")
	m.Storage("load", "NO_DATA")
	m.Publish(false)
	m.ObserveHistory(3, 1)
	m.ObserveLayout(10, 2, 18)
	m.Orders(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Mutations.WithLabelValues("paint")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StorageOps.WithLabelValues("load", "NO_DATA")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Publishes.WithLabelValues("error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.HistoryDepth.WithLabelValues("undo")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Units.WithLabelValues("table")))
	assert.Equal(t, 18.0, testutil.ToFloat64(m.Capacity))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.OpenOrders))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Mutation("paint")
		m.Storage("save", "ok")
		m.Publish(true)
		m.ObserveHistory(1, 1)
		m.ObserveLayout(1, 1, 1)
		m.Orders(1)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.Mutation("undo")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `colmena_editor_mutations_total{action="undo"} 1`)
}
