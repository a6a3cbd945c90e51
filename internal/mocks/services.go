package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/sird-api/internal/domain"
	"github.com/phrazzld/sird-api/internal/domain/sird"
	"github.com/phrazzld/sird-api/internal/service"
	"github.com/stretchr/testify/mock"
)

// SimulationService is a mock of service.SimulationService.
type SimulationService struct {
	mock.Mock
}

var _ service.SimulationService = (*SimulationService)(nil)

// Run is a mock implementation of service.SimulationService.Run
func (m *SimulationService) Run(ctx context.Context, ownerID uuid.UUID, cfg sird.Config) (*sird.Result, error) {
	args := m.Called(ctx, ownerID, cfg)
	if result, ok := args.Get(0).(*sird.Result); ok {
		return result, args.Error(1)
	}
	return nil, args.Error(1)
}

// RunBatch is a mock implementation of service.SimulationService.RunBatch
func (m *SimulationService) RunBatch(
	ctx context.Context,
	ownerID uuid.UUID,
	cfgs []sird.Config,
) ([]service.BatchOutcome, error) {
	args := m.Called(ctx, ownerID, cfgs)
	if outcomes, ok := args.Get(0).([]service.BatchOutcome); ok {
		return outcomes, args.Error(1)
	}
	return nil, args.Error(1)
}

// List is a mock implementation of service.SimulationService.List
func (m *SimulationService) List(ctx context.Context, ownerID uuid.UUID) ([]*sird.Result, error) {
	args := m.Called(ctx, ownerID)
	if results, ok := args.Get(0).([]*sird.Result); ok {
		return results, args.Error(1)
	}
	return nil, args.Error(1)
}

// Delete is a mock implementation of service.SimulationService.Delete
func (m *SimulationService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// Summarize is a mock implementation of service.SimulationService.Summarize
func (m *SimulationService) Summarize(ctx context.Context, ownerID uuid.UUID) (service.Summary, error) {
	args := m.Called(ctx, ownerID)
	summary, _ := args.Get(0).(service.Summary)
	return summary, args.Error(1)
}

// ImportLegacy is a mock implementation of service.SimulationService.ImportLegacy
func (m *SimulationService) ImportLegacy(
	ctx context.Context,
	ownerID uuid.UUID,
	records []sird.LegacyRecord,
) ([]*sird.Result, error) {
	args := m.Called(ctx, ownerID, records)
	if results, ok := args.Get(0).([]*sird.Result); ok {
		return results, args.Error(1)
	}
	return nil, args.Error(1)
}

// UserService is a mock of service.UserService.
type UserService struct {
	mock.Mock
}

var _ service.UserService = (*UserService)(nil)

// Register is a mock implementation of service.UserService.Register
func (m *UserService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// Authenticate is a mock implementation of service.UserService.Authenticate
func (m *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetUser is a mock implementation of service.UserService.GetUser
func (m *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetUserByEmail is a mock implementation of service.UserService.GetUserByEmail
func (m *UserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}
