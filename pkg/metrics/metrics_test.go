package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IndependentRegistries(t *testing.T) {
	first := New("svc")
	second := New("svc")

	first.IncDegraded("business_unavailable")

	assert.Equal(t, 1.0, testutil.ToFloat64(first.DegradedComputations.WithLabelValues("business_unavailable")))
	assert.Equal(t, 0.0, testutil.ToFloat64(second.DegradedComputations.WithLabelValues("business_unavailable")))
}

func TestRecorder_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveSlots(map[string]int{"AVAILABLE": 3})
		m.IncDegraded("x")
		m.AddMalformedAppointments("bad_start", 2)
		m.IncStaleSelection()
		m.IncSlotConflict("store")
		m.IncBusinessCache("hit")
		m.ObserveCompute(time.Millisecond, false)
	})
}

func TestRecorder_ObserveSlots(t *testing.T) {
	m := New("svc")

	m.ObserveSlots(map[string]int{"AVAILABLE": 3, "OCCUPIED": 2})
	m.ObserveSlots(map[string]int{"AVAILABLE": 1})

	assert.Equal(t, 4.0, testutil.ToFloat64(m.SlotsComputed.WithLabelValues("AVAILABLE")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SlotsComputed.WithLabelValues("OCCUPIED")))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New("svc")
	m.IncBusinessCache("miss")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `business_cache_requests_total{result="miss",service="svc"} 1`)
}
