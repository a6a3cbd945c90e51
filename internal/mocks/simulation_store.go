package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/sird-api/internal/domain/sird"
	"github.com/phrazzld/sird-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// SimulationStore is a mock of store.SimulationStore.
type SimulationStore struct {
	mock.Mock
}

var _ store.SimulationStore = (*SimulationStore)(nil)

// Append is a mock implementation of store.SimulationStore.Append
func (m *SimulationStore) Append(ctx context.Context, result *sird.Result) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

// AppendAll is a mock implementation of store.SimulationStore.AppendAll
func (m *SimulationStore) AppendAll(ctx context.Context, results []*sird.Result) error {
	args := m.Called(ctx, results)
	return args.Error(0)
}

// ListByOwner is a mock implementation of store.SimulationStore.ListByOwner
func (m *SimulationStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*sird.Result, error) {
	args := m.Called(ctx, ownerID)
	if results, ok := args.Get(0).([]*sird.Result); ok {
		return results, args.Error(1)
	}
	return nil, args.Error(1)
}

// DeleteByID is a mock implementation of store.SimulationStore.DeleteByID
func (m *SimulationStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
