package workerpool_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kwanza/weave/config"
	"github.com/kwanza/weave/workerpool"
)

func testConfig(count int) *config.ConfigurationDefault {
	return &config.ConfigurationDefault{
		WorkerPoolCPUFactorForWorkerCount: 1,
		WorkerPoolCapacity:                4,
		WorkerPoolCount:                   count,
		WorkerPoolExpiryDuration:          "1s",
	}
}

func TestPoolExecutesSubmittedTasks(t *testing.T) {
	ctx := context.Background()

	pool, err := workerpool.New(ctx, testConfig(1))
	require.NoError(t, err)
	defer pool.Shutdown()

	var wg sync.WaitGroup
	var mu sync.Mutex
	ran := 0

	for range 4 {
		wg.Add(1)
		err = pool.Submit(ctx, func() {
			defer wg.Done()
			mu.Lock()
			ran++
			mu.Unlock()
		})
		require.NoError(t, err)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks did not complete in time")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 4, ran)
}

func TestMultiPoolExecutesSubmittedTasks(t *testing.T) {
	ctx := context.Background()

	pool, err := workerpool.New(ctx, testConfig(2))
	require.NoError(t, err)
	defer pool.Shutdown()

	done := make(chan struct{})
	require.NoError(t, pool.Submit(ctx, func() { close(done) }))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not run")
	}
}

func TestPoolRejectsCancelledContext(t *testing.T) {
	pool, err := workerpool.New(context.Background(), testConfig(1))
	require.NoError(t, err)
	defer pool.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = pool.Submit(ctx, func() {})
	require.ErrorIs(t, err, context.Canceled)
}
