package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount: 4,
		QueueSize:   64,
	}
}

// TaskRunner owns a TaskQueue and the WorkerPool that drains it.
type TaskRunner struct {
	queue  *TaskQueue
	pool   *WorkerPool
	logger *slog.Logger

	stopOnce sync.Once
}

var _ Submitter = (*TaskRunner)(nil)

// NewTaskRunner creates a new TaskRunner. Call Start before submitting.
func NewTaskRunner(config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "task_runner")

	queue := NewTaskQueue(config.QueueSize, logger)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: config.WorkerCount}, logger)

	return &TaskRunner{
		queue:  queue,
		pool:   pool,
		logger: logger,
	}
}

// SetErrorHandler allows setting a custom error handler function
func (r *TaskRunner) SetErrorHandler(handler func(task Task, err error)) {
	r.pool.SetErrorHandler(handler)
}

// Start begins processing tasks.
func (r *TaskRunner) Start() {
	r.pool.Start()
}

// Stop closes the queue and waits for the workers to finish. It is safe to
// call more than once.
func (r *TaskRunner) Stop() {
	r.stopOnce.Do(func() {
		r.queue.Close()
		r.pool.Stop()
	})
}

// Submit queues task, waiting for capacity until ctx is done.
func (r *TaskRunner) Submit(ctx context.Context, task Task) error {
	if err := r.queue.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to submit task: %w", err)
	}
	return nil
}
