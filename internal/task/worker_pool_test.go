package task

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerPool_DefaultsWorkerCount(t *testing.T) {
	t.Parallel()

	q := NewTaskQueue(1, nil)
	assert.Equal(t, 5, NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 5}, nil).workerCount)
	assert.Equal(t, 1, NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 0}, nil).workerCount)
	assert.Equal(t, 1, NewWorkerPool(q, WorkerPoolConfig{WorkerCount: -5}, nil).workerCount)
}

func TestWorkerPool_ProcessesTasks(t *testing.T) {
	t.Parallel()

	q := NewTaskQueue(10, nil)
	pool := NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 3}, nil)
	pool.Start()

	var executed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		require.NoError(t, q.Enqueue(newFuncTask(func(context.Context) error {
			defer wg.Done()
			executed.Add(1)
			return nil
		})))
	}

	wg.Wait()
	q.Close()
	pool.Stop()
	assert.Equal(t, int32(10), executed.Load())
}

func TestWorkerPool_ErrorHandler(t *testing.T) {
	t.Parallel()

	q := NewTaskQueue(1, nil)
	pool := NewWorkerPool(q, DefaultWorkerPoolConfig(), nil)

	failure := errors.New("boom")
	handled := make(chan error, 1)
	pool.SetErrorHandler(func(task Task, err error) {
		handled <- err
	})
	pool.Start()
	defer pool.Stop()

	failing := newFuncTask(func(context.Context) error { return failure })
	require.NoError(t, q.Enqueue(failing))

	select {
	case err := <-handled:
		assert.Equal(t, failure, err)
		assert.Equal(t, TaskStatusFailed, failing.Status())
	case <-time.After(time.Second):
		t.Fatal("error handler was not called")
	}
}

func TestWorkerPool_StopDrainsWithCancelledContext(t *testing.T) {
	t.Parallel()

	q := NewTaskQueue(5, nil)
	pool := NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 1}, nil)

	var cancelled atomic.Int32
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Enqueue(newFuncTask(func(ctx context.Context) error {
			if ctx.Err() != nil {
				cancelled.Add(1)
			}
			return ctx.Err()
		})))
	}

	// Stop before Start: the single worker sees a cancelled context first
	// and drains the buffer.
	pool.cancel()
	pool.Start()
	pool.wg.Wait()

	assert.Equal(t, int32(3), cancelled.Load())
}
