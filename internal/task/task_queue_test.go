package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(context.Context) error { return nil }

func TestTaskQueue_Enqueue(t *testing.T) {
	t.Parallel()

	q := NewTaskQueue(2, nil)
	first := newFuncTask(noop)

	require.NoError(t, q.Enqueue(first))
	require.NoError(t, q.Enqueue(newFuncTask(noop)))

	err := q.Enqueue(newFuncTask(noop))
	assert.ErrorIs(t, err, ErrQueueFull)

	got := <-q.GetChannel()
	assert.Equal(t, first.ID(), got.ID())
}

func TestTaskQueue_Close(t *testing.T) {
	t.Parallel()

	q := NewTaskQueue(2, nil)
	queued := newFuncTask(noop)
	require.NoError(t, q.Enqueue(queued))

	q.Close()
	q.Close()

	assert.ErrorIs(t, q.Enqueue(newFuncTask(noop)), ErrQueueClosed)
	assert.ErrorIs(t, q.EnqueueContext(context.Background(), newFuncTask(noop)), ErrQueueClosed)

	got, ok := <-q.GetChannel()
	require.True(t, ok, "queued task stays readable after close")
	assert.Equal(t, queued.ID(), got.ID())

	_, ok = <-q.GetChannel()
	assert.False(t, ok)
}

func TestTaskQueue_EnqueueContextWaitsForCapacity(t *testing.T) {
	t.Parallel()

	q := NewTaskQueue(1, nil)
	require.NoError(t, q.Enqueue(newFuncTask(noop)))

	done := make(chan error, 1)
	go func() {
		done <- q.EnqueueContext(context.Background(), newFuncTask(noop))
	}()

	select {
	case <-done:
		t.Fatal("enqueue should block while the queue is full")
	case <-time.After(20 * time.Millisecond):
	}

	<-q.GetChannel()
	assert.NoError(t, <-done)
}

func TestTaskQueue_EnqueueContextCancelled(t *testing.T) {
	t.Parallel()

	q := NewTaskQueue(1, nil)
	require.NoError(t, q.Enqueue(newFuncTask(noop)))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := q.EnqueueContext(ctx, newFuncTask(noop))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
