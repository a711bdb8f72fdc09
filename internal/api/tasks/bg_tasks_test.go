package tasks

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	bgTasks := New(slog.Default(), 3, 10)
	bgTasks.Run()
	var runned atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, bgTasks.Add(func() { runned.Add(1) }))
	}
	require.NoError(t, bgTasks.Shutdown(context.Background()))
	assert.Equal(t, int32(5), runned.Load())
	assert.True(t, bgTasks.IsEmpty())
}

func TestPanickingTaskKeepsWorkerAlive(t *testing.T) {
	bgTasks := New(slog.Default(), 1, 10)
	bgTasks.Run()
	var runned atomic.Bool
	require.NoError(t, bgTasks.Add(func() { panic("boom") }))
	require.NoError(t, bgTasks.Add(func() { runned.Store(true) }))
	require.NoError(t, bgTasks.Shutdown(context.Background()))
	assert.True(t, runned.Load())
}

func TestAddAfterShutdown(t *testing.T) {
	bgTasks := New(slog.Default(), 1, 1)
	bgTasks.Run()
	require.NoError(t, bgTasks.Shutdown(context.Background()))
	assert.ErrorIs(t, bgTasks.Add(func() {}), ErrPoolClosed)
	assert.NoError(t, bgTasks.Shutdown(context.Background()))
}

func TestQueueFull(t *testing.T) {
	// workers are not started, so the queue only drains on Shutdown
	bgTasks := New(slog.Default(), 1, 1)
	require.NoError(t, bgTasks.Add(func() {}))
	assert.ErrorIs(t, bgTasks.Add(func() {}), ErrQueueFull)
}

func TestShutdownTimeout(t *testing.T) {
	bgTasks := New(slog.Default(), 1, 1)
	bgTasks.Run()
	release := make(chan struct{})
	defer close(release)
	require.NoError(t, bgTasks.Add(func() { <-release }))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bgTasks.Shutdown(ctx), context.DeadlineExceeded)
}
