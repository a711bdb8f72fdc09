package main

import (
	"context"
	"encoding/json"
	"filmorate/proj/internal/api/tasks"
	"filmorate/proj/internal/config"
	"filmorate/proj/internal/events"
	"filmorate/proj/internal/lib/logger"
	"filmorate/proj/internal/services"
	"filmorate/proj/internal/storage/memory"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Limiter: config.Limiter{Rps: 20, Burst: 5},
		Storage: config.Storage{Driver: config.StorageMemory},
		Films:   config.Films{PopularDefaultCount: 10},
		Tasks:   config.Tasks{Workers: 1, QueueSize: 100},
		Broker:  config.Broker{PublishTimeout: time.Second},
		Metrics: config.Metrics{Path: "/metrics"},
	}
}

func NewTestApplication(cfg *config.Config, t *testing.T) *Application {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	log := logger.Discard()
	bgTasks := tasks.New(log, cfg.Tasks.Workers, cfg.Tasks.QueueSize)
	bgTasks.Run()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = bgTasks.Shutdown(ctx)
	})
	dispatcher := events.NewDispatcher(log, events.NewLogPublisher(log), bgTasks, cfg.Broker.PublishTimeout)
	svcs := services.New(log, cfg, services.FromMemory(memory.New()), dispatcher)
	return NewApplication(cfg, log, svcs, bgTasks)
}

type testResponse struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message"`
	Data    map[string]json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) (int, testResponse) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var resp testResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec.Code, resp
}

func decodeData[T any](t *testing.T, resp testResponse, key string) T {
	t.Helper()
	raw, ok := resp.Data[key]
	require.True(t, ok, "missing data key %q in %v", key, resp.Data)
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}
