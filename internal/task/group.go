package task

import (
	"context"
	"sync"
)

// Group submits related tasks and waits for all of them to finish.
type Group struct {
	submitter Submitter
	wg        sync.WaitGroup
}

// NewGroup creates a Group that submits through s.
func NewGroup(s Submitter) *Group {
	return &Group{submitter: s}
}

// Submit queues t as part of the group. A task that fails to submit does not
// count towards Wait.
func (g *Group) Submit(ctx context.Context, t Task) error {
	g.wg.Add(1)
	if err := g.submitter.Submit(ctx, &groupTask{Task: t, done: g.wg.Done}); err != nil {
		g.wg.Done()
		return err
	}
	return nil
}

// Wait blocks until every submitted task has executed or ctx is done.
func (g *Group) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type groupTask struct {
	Task
	done func()
}

func (t *groupTask) Execute(ctx context.Context) error {
	defer t.done()
	return t.Task.Execute(ctx)
}
