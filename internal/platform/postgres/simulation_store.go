package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/sird-api/internal/domain/sird"
	"github.com/phrazzld/sird-api/internal/platform/logger"
	"github.com/phrazzld/sird-api/internal/store"
)

// PostgresSimulationStore implements store.SimulationStore. The daily series
// is stored as a JSONB array alongside the scalar result columns.
type PostgresSimulationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSimulationStore creates a new PostgreSQL implementation of the
// SimulationStore interface. If logger is nil, a default logger will be used.
func NewPostgresSimulationStore(db store.DBTX, logger *slog.Logger) *PostgresSimulationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSimulationStore{
		db:     db,
		logger: logger.With(slog.String("component", "simulation_store")),
	}
}

// Ensure PostgresSimulationStore implements store.SimulationStore interface
var _ store.SimulationStore = (*PostgresSimulationStore)(nil)

// WithTx returns a store bound to tx.
func (s *PostgresSimulationStore) WithTx(tx *sql.Tx) *PostgresSimulationStore {
	return &PostgresSimulationStore{db: tx, logger: s.logger}
}

const insertSimulationQuery = `
	INSERT INTO simulations (
		id, owner_id, name,
		total_population, initial_infected, transmission_rate, recovery_rate, mortality_rate, duration_days,
		series, peak_value, peak_day, total_deaths, total_recovered, final_susceptible, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
`

// Append implements store.SimulationStore.Append
func (s *PostgresSimulationStore) Append(ctx context.Context, result *sird.Result) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := result.Validate(); err != nil {
		log.Warn("simulation validation failed during append",
			slog.String("error", err.Error()),
			slog.String("simulation_id", result.ID.String()))
		return store.NewStoreError("simulation", "append", "validation failed", errors.Join(store.ErrInvalidEntity, err))
	}

	series, err := json.Marshal(result.Series)
	if err != nil {
		return store.NewStoreError("simulation", "append", "failed to encode series", err)
	}

	cfg := result.Config
	_, err = s.db.ExecContext(ctx, insertSimulationQuery,
		result.ID,
		result.OwnerID,
		cfg.Name,
		cfg.TotalPopulation,
		cfg.InitialInfected,
		cfg.TransmissionRate,
		cfg.RecoveryRate,
		cfg.MortalityRate,
		cfg.DurationDays,
		series,
		result.Peak.Value,
		result.Peak.Day,
		result.TotalDeaths,
		result.TotalRecovered,
		result.FinalSusceptible,
		result.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return MapUniqueViolation(err, store.ErrSimulationExists)
		}
		if IsForeignKeyViolation(err) {
			return store.NewStoreError("simulation", "append", "owner does not exist",
				fmt.Errorf("%w: %v", store.ErrUserNotFound, err))
		}
		log.Error("failed to append simulation",
			slog.String("error", err.Error()),
			slog.String("simulation_id", result.ID.String()),
			slog.String("owner_id", result.OwnerID.String()))
		return store.NewStoreError("simulation", "append", "insert failed", MapError(err))
	}

	log.Debug("simulation appended",
		slog.String("simulation_id", result.ID.String()),
		slog.String("owner_id", result.OwnerID.String()),
		slog.Int("days", len(result.Series)))
	return nil
}

// AppendAll implements store.SimulationStore.AppendAll. When the store is
// bound to a *sql.DB the inserts run in their own transaction; when it is
// already bound to a transaction they join it.
func (s *PostgresSimulationStore) AppendAll(ctx context.Context, results []*sird.Result) error {
	db, ok := s.db.(*sql.DB)
	if !ok {
		return s.appendEach(ctx, results)
	}

	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		return s.WithTx(tx).appendEach(ctx, results)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrTransactionFailed, err)
	}
	return nil
}

func (s *PostgresSimulationStore) appendEach(ctx context.Context, results []*sird.Result) error {
	for i, r := range results {
		if err := s.Append(ctx, r); err != nil {
			return fmt.Errorf("result %d: %w", i, err)
		}
	}
	return nil
}

// ListByOwner implements store.SimulationStore.ListByOwner
func (s *PostgresSimulationStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*sird.Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, name,
			total_population, initial_infected, transmission_rate, recovery_rate, mortality_rate, duration_days,
			series, peak_value, peak_day, total_deaths, total_recovered, final_susceptible, created_at
		FROM simulations
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to list simulations",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, store.NewStoreError("simulation", "list", "query failed", MapError(err))
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Error("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	results := []*sird.Result{}
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			log.Error("failed to scan simulation row",
				slog.String("error", err.Error()),
				slog.String("owner_id", ownerID.String()))
			return nil, store.NewStoreError("simulation", "list", "scan failed", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("simulation", "list", "row iteration failed", MapError(err))
	}

	log.Debug("simulations listed",
		slog.String("owner_id", ownerID.String()),
		slog.Int("count", len(results)))
	return results, nil
}

// DeleteByID implements store.SimulationStore.DeleteByID
func (s *PostgresSimulationStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	res, err := s.db.ExecContext(ctx, `DELETE FROM simulations WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete simulation",
			slog.String("error", err.Error()),
			slog.String("simulation_id", id.String()))
		return store.NewStoreError("simulation", "delete", "delete failed", MapError(err))
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		log.Debug("simulation already absent", slog.String("simulation_id", id.String()))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*sird.Result, error) {
	var (
		r      sird.Result
		series []byte
	)
	err := row.Scan(
		&r.ID,
		&r.OwnerID,
		&r.Config.Name,
		&r.Config.TotalPopulation,
		&r.Config.InitialInfected,
		&r.Config.TransmissionRate,
		&r.Config.RecoveryRate,
		&r.Config.MortalityRate,
		&r.Config.DurationDays,
		&series,
		&r.Peak.Value,
		&r.Peak.Day,
		&r.TotalDeaths,
		&r.TotalRecovered,
		&r.FinalSusceptible,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(series, &r.Series); err != nil {
		return nil, fmt.Errorf("failed to decode series: %w", err)
	}
	r.CreatedAt = r.CreatedAt.UTC()
	return &r, nil
}
