package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecoverer(t *testing.T) {
	app := NewTestApplication(nil, t)
	cases := map[string]any{
		"error value":     errors.New("boom"),
		"non error value": "boom",
	}
	for name, panicValue := range cases {
		t.Run(name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(panicValue)
			})
			assert.NotPanics(t, func() { app.Recoverer(next).ServeHTTP(recorder, request) })
			assert.Equal(t, http.StatusInternalServerError, recorder.Code)
			assert.Contains(t, recorder.Body.String(), "Can't process your request")
		})
	}
}

func TestRateLimiter(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	send := func(h http.Handler, addr string) int {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = addr
		h.ServeHTTP(recorder, request)
		return recorder.Code
	}

	t.Run("enabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.Limiter.Enabled = true
		cfg.Limiter.Rps = 0.001
		cfg.Limiter.Burst = 2
		h := NewTestApplication(cfg, t).RateLimiter(next)

		assert.Equal(t, http.StatusOK, send(h, "10.0.0.1:1234"))
		assert.Equal(t, http.StatusOK, send(h, "10.0.0.1:1235"))
		assert.Equal(t, http.StatusTooManyRequests, send(h, "10.0.0.1:1236"))
		assert.Equal(t, http.StatusOK, send(h, "10.0.0.2:1234"), "limits are kept per client ip")
		assert.Equal(t, http.StatusOK, send(h, "10.0.0.3"), "address without port")
	})

	t.Run("disabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.Limiter.Burst = 1
		h := NewTestApplication(cfg, t).RateLimiter(next)
		for i := 0; i < 5; i++ {
			assert.Equal(t, http.StatusOK, send(h, "10.0.0.1:1234"))
		}
	})
}

func TestMetricsEndpoint(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = true
	h := NewTestApplication(cfg, t).routes()

	code, _ := doRequest(t, h, http.MethodGet, "/api/v1/films/42", "")
	assert.Equal(t, http.StatusNotFound, code)

	recorder := httptest.NewRecorder()
	h.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `route="/api/v1/films/{id}",status="404"`)
}

func TestMetricsDisabled(t *testing.T) {
	h := NewTestApplication(nil, t).routes()
	code, _ := doRequest(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, code)
}
