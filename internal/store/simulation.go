package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/sird-api/internal/domain/sird"
)

// SimulationStore is the owner-scoped, append-only history of simulation
// results. Implementations never mutate a stored result.
type SimulationStore interface {
	// Append stores a new result. Returns ErrSimulationExists if a result
	// with the same ID is already stored.
	Append(ctx context.Context, result *sird.Result) error

	// AppendAll stores several results atomically: either all are stored or
	// none is.
	AppendAll(ctx context.Context, results []*sird.Result) error

	// ListByOwner returns the owner's results, most recent first
	// (created_at descending, then ID descending). An owner without results
	// gets an empty slice.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*sird.Result, error)

	// DeleteByID removes a result. Deleting an unknown ID is a no-op.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
