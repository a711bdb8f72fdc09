package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestObserve(t *testing.T) {
	m := New()
	m.Observe(http.MethodGet, "/api/v1/films/{id}", http.StatusOK, 15*time.Millisecond)
	m.Observe(http.MethodGet, "/api/v1/films/{id}", http.StatusOK, 5*time.Millisecond)
	m.Observe(http.MethodGet, "/api/v1/films/{id}", http.StatusNotFound, time.Millisecond)

	body := scrape(t, m)
	assert.Contains(t, body, `filmorate_http_requests_total{method="GET",route="/api/v1/films/{id}",status="200"} 2`)
	assert.Contains(t, body, `filmorate_http_requests_total{method="GET",route="/api/v1/films/{id}",status="404"} 1`)
	assert.Contains(t, body, `filmorate_http_request_duration_seconds_count{method="GET",route="/api/v1/films/{id}"} 3`)
}

func TestHandlerExposesRuntimeMetrics(t *testing.T) {
	body := scrape(t, New())
	assert.Contains(t, body, "go_goroutines")
	assert.NotContains(t, body, "filmorate_http_requests_total{", "no requests observed yet")
}
