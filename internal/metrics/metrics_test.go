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

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.EventsIngested(3, 1)
		m.MemoriesCreated(2)
		m.ObserveDerivation("charts", time.Now())
		m.ViewCache("graph", true)
		m.RateLimited()
	})
}

func TestCountersAccumulate(t *testing.T) {
	m := New()

	m.EventsIngested(3, 1)
	m.EventsIngested(2, 0)
	m.MemoriesCreated(4)
	m.ViewCache("charts", true)
	m.ViewCache("charts", false)
	m.ViewCache("charts", false)
	m.RateLimited()

	assert.Equal(t, 5.0, testutil.ToFloat64(m.eventsIngested.WithLabelValues("inserted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsIngested.WithLabelValues("skipped")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.memoriesCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.viewCache.WithLabelValues("charts", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimitRejects))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.MemoriesCreated(1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "browser_memory_memories_created_total 1")
}
