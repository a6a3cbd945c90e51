package memory

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/sird-api/internal/domain/sird"
	"github.com/phrazzld/sird-api/internal/store"
)

// SimulationStore is a store.SimulationStore guarded by a RWMutex. Results
// are cloned on the way in and out so callers never share series slices with
// the store.
type SimulationStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*sird.Result
	byOwner map[uuid.UUID][]uuid.UUID
	logger  *slog.Logger
}

// NewSimulationStore creates an empty store. If logger is nil, a default
// logger will be used.
func NewSimulationStore(logger *slog.Logger) *SimulationStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SimulationStore{
		byID:    make(map[uuid.UUID]*sird.Result),
		byOwner: make(map[uuid.UUID][]uuid.UUID),
		logger:  logger.With(slog.String("component", "memory_simulation_store")),
	}
}

var _ store.SimulationStore = (*SimulationStore)(nil)

// Append implements store.SimulationStore.Append
func (s *SimulationStore) Append(ctx context.Context, result *sird.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkResult(result); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[result.ID]; exists {
		return store.ErrSimulationExists
	}
	s.insertLocked(result)
	return nil
}

// AppendAll implements store.SimulationStore.AppendAll
func (s *SimulationStore) AppendAll(ctx context.Context, results []*sird.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for i, r := range results {
		if err := checkResult(r); err != nil {
			return fmt.Errorf("result %d: %w", i, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[uuid.UUID]struct{}, len(results))
	for i, r := range results {
		_, stored := s.byID[r.ID]
		_, repeated := seen[r.ID]
		if stored || repeated {
			return fmt.Errorf("result %d: %w", i, store.ErrSimulationExists)
		}
		seen[r.ID] = struct{}{}
	}
	for _, r := range results {
		s.insertLocked(r)
	}

	s.logger.Debug("simulations appended", slog.Int("count", len(results)))
	return nil
}

// ListByOwner implements store.SimulationStore.ListByOwner
func (s *SimulationStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*sird.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	ids := s.byOwner[ownerID]
	results := make([]*sird.Result, 0, len(ids))
	for _, id := range ids {
		results = append(results, s.byID[id].Clone())
	}
	s.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return bytes.Compare(a.ID[:], b.ID[:]) > 0
	})
	return results, nil
}

// DeleteByID implements store.SimulationStore.DeleteByID
func (s *SimulationStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[id]
	if !ok {
		return nil
	}
	delete(s.byID, id)

	ids := s.byOwner[r.OwnerID]
	for i, candidate := range ids {
		if candidate == id {
			s.byOwner[r.OwnerID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	if len(s.byOwner[r.OwnerID]) == 0 {
		delete(s.byOwner, r.OwnerID)
	}
	return nil
}

func (s *SimulationStore) insertLocked(r *sird.Result) {
	c := r.Clone()
	s.byID[c.ID] = c
	s.byOwner[c.OwnerID] = append(s.byOwner[c.OwnerID], c.ID)
}

func checkResult(r *sird.Result) error {
	if r == nil {
		return store.NewStoreError("simulation", "append", "nil result", store.ErrInvalidEntity)
	}
	if err := r.Validate(); err != nil {
		return store.NewStoreError("simulation", "append", "validation failed", fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
	}
	return nil
}
