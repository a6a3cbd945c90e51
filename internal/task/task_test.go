package task

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
)

// funcTask is a Task backed by a function.
type funcTask struct {
	id     uuid.UUID
	fn     func(ctx context.Context) error
	status atomic.Value
}

func newFuncTask(fn func(ctx context.Context) error) *funcTask {
	t := &funcTask{id: uuid.New(), fn: fn}
	t.status.Store(TaskStatusPending)
	return t
}

func (t *funcTask) ID() uuid.UUID      { return t.id }
func (t *funcTask) Type() string       { return "func" }
func (t *funcTask) Status() TaskStatus { return t.status.Load().(TaskStatus) }

func (t *funcTask) Execute(ctx context.Context) error {
	err := t.fn(ctx)
	if err != nil {
		t.status.Store(TaskStatusFailed)
	} else {
		t.status.Store(TaskStatusCompleted)
	}
	return err
}
