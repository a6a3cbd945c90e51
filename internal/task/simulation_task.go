package task

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/sird-api/internal/domain/sird"
)

// SimulationTask runs one configuration through a sird.Simulator and keeps
// the outcome for the submitter to collect.
type SimulationTask struct {
	id        uuid.UUID
	cfg       sird.Config
	ownerID   uuid.UUID
	simulator sird.Simulator

	mu     sync.Mutex
	status TaskStatus
	result *sird.Result
	err    error
}

// NewSimulationTask creates a pending task for cfg.
func NewSimulationTask(cfg sird.Config, ownerID uuid.UUID, simulator sird.Simulator) *SimulationTask {
	return &SimulationTask{
		id:        uuid.New(),
		cfg:       cfg,
		ownerID:   ownerID,
		simulator: simulator,
		status:    TaskStatusPending,
	}
}

// ID implements Task.
func (t *SimulationTask) ID() uuid.UUID { return t.id }

// Type implements Task.
func (t *SimulationTask) Type() string { return TaskTypeSimulation }

// Status implements Task.
func (t *SimulationTask) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Execute implements Task. A cancelled context fails the task without
// running the simulation.
func (t *SimulationTask) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		t.finish(nil, err)
		return err
	}

	t.mu.Lock()
	t.status = TaskStatusProcessing
	t.mu.Unlock()

	result, err := t.simulator.Run(t.cfg, t.ownerID)
	t.finish(result, err)
	return err
}

// Outcome returns the result or error once the task has finished.
func (t *SimulationTask) Outcome() (*sird.Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result, t.err
}

func (t *SimulationTask) finish(result *sird.Result, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.result, t.err = result, err
	if err != nil {
		t.status = TaskStatusFailed
		return
	}
	t.status = TaskStatusCompleted
}
