package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/phrazzld/sird-api/internal/domain/sird"
	"github.com/phrazzld/sird-api/internal/platform/logger"
	"github.com/phrazzld/sird-api/internal/store"
	"github.com/phrazzld/sird-api/internal/task"
)

// SimulationService runs simulations and manages each owner's history.
type SimulationService interface {
	// Run validates cfg, integrates it and appends the result to the owner's
	// history. An invalid cfg yields a *sird.ValidationError and nothing is
	// stored.
	Run(ctx context.Context, ownerID uuid.UUID, cfg sird.Config) (*sird.Result, error)

	// RunBatch runs every configuration in parallel on the task runner. Each
	// entry succeeds or fails independently; successful results are appended
	// together.
	RunBatch(ctx context.Context, ownerID uuid.UUID, cfgs []sird.Config) ([]BatchOutcome, error)

	// List returns the owner's history, most recent first.
	List(ctx context.Context, ownerID uuid.UUID) ([]*sird.Result, error)

	// Delete removes id from the owner's history. Ids that are not in the
	// owner's history are ignored.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// Summarize reports the number of stored runs and their average deaths.
	Summarize(ctx context.Context, ownerID uuid.UUID) (Summary, error)

	// ImportLegacy decodes legacy records and appends them all, or none when
	// any record is invalid.
	ImportLegacy(ctx context.Context, ownerID uuid.UUID, records []sird.LegacyRecord) ([]*sird.Result, error)
}

// BatchOutcome is the result of one batch entry: exactly one of Result and
// Err is set.
type BatchOutcome struct {
	Result *sird.Result
	Err    error
}

// Summary aggregates an owner's history.
type Summary struct {
	Count         int   `json:"count"`
	AverageDeaths int64 `json:"average_deaths"`
}

// SimulationLimits bounds the work a single call may trigger.
type SimulationLimits struct {
	MaxBatchSize    int
	MaxDurationDays int
}

// CheckDuration reports ErrDurationTooLong when days exceeds MaxDurationDays.
// A zero limit accepts any duration.
func (l SimulationLimits) CheckDuration(days int) error {
	if l.MaxDurationDays > 0 && days > l.MaxDurationDays {
		return fmt.Errorf("%w: %s must not exceed %d", ErrDurationTooLong, sird.FieldDurationDays, l.MaxDurationDays)
	}
	return nil
}

type simulationService struct {
	history   store.SimulationStore
	runner    task.Submitter
	simulator sird.Simulator
	assembler *sird.Assembler
	limits    SimulationLimits
	locks     *ownerLocks
	logger    *slog.Logger
}

var _ SimulationService = (*simulationService)(nil)

// NewSimulationService creates a SimulationService. A nil simulator or
// assembler is replaced by the default one.
func NewSimulationService(
	history store.SimulationStore,
	runner task.Submitter,
	simulator sird.Simulator,
	assembler *sird.Assembler,
	limits SimulationLimits,
	logger *slog.Logger,
) SimulationService {
	if assembler == nil {
		assembler = sird.NewAssembler()
	}
	if simulator == nil {
		simulator = sird.NewSimulatorWithAssembler(assembler)
	}
	return &simulationService{
		history:   history,
		runner:    runner,
		simulator: simulator,
		assembler: assembler,
		limits:    limits,
		locks:     newOwnerLocks(),
		logger:    logger.With("component", "simulation_service"),
	}
}

// checkConfig applies the domain validation followed by the service's own
// duration limit.
func (s *simulationService) checkConfig(cfg sird.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return s.limits.CheckDuration(cfg.DurationDays)
}

// Run implements SimulationService.
func (s *simulationService) Run(ctx context.Context, ownerID uuid.UUID, cfg sird.Config) (*sird.Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.checkConfig(cfg); err != nil {
		log.Debug("simulation rejected", "owner_id", ownerID, "error", err)
		return nil, err
	}

	result, err := s.simulator.Run(cfg, ownerID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(ownerID)
	defer unlock()

	if err := s.history.Append(ctx, result); err != nil {
		log.Error("failed to store simulation result",
			"error", err,
			"owner_id", ownerID,
			"result_id", result.ID)
		return nil, NewServiceError("simulation", "run", err)
	}

	log.Info("simulation completed",
		"owner_id", ownerID,
		"result_id", result.ID,
		"duration_days", cfg.DurationDays,
		"peak_day", result.Peak.Day)

	return result, nil
}

// RunBatch implements SimulationService.
func (s *simulationService) RunBatch(ctx context.Context, ownerID uuid.UUID, cfgs []sird.Config) ([]BatchOutcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cfgs) == 0 {
		return nil, ErrEmptyBatch
	}
	if s.limits.MaxBatchSize > 0 && len(cfgs) > s.limits.MaxBatchSize {
		return nil, fmt.Errorf("%w: %d entries, at most %d allowed", ErrBatchTooLarge, len(cfgs), s.limits.MaxBatchSize)
	}

	outcomes := make([]BatchOutcome, len(cfgs))
	tasks := make([]*task.SimulationTask, len(cfgs))
	group := task.NewGroup(s.runner)

	for i, cfg := range cfgs {
		if err := s.checkConfig(cfg); err != nil {
			outcomes[i].Err = err
			continue
		}
		t := task.NewSimulationTask(cfg, ownerID, s.simulator)
		if err := group.Submit(ctx, t); err != nil {
			log.Error("failed to submit simulation task", "error", err, "index", i)
			return nil, NewServiceError("simulation", "run_batch", err)
		}
		tasks[i] = t
	}

	if err := group.Wait(ctx); err != nil {
		return nil, NewServiceError("simulation", "run_batch", err)
	}

	results := make([]*sird.Result, 0, len(cfgs))
	for i, t := range tasks {
		if t == nil {
			continue
		}
		result, err := t.Outcome()
		outcomes[i] = BatchOutcome{Result: result, Err: err}
		if err == nil {
			results = append(results, result)
		}
	}

	if len(results) > 0 {
		unlock := s.locks.Lock(ownerID)
		defer unlock()

		if err := s.history.AppendAll(ctx, results); err != nil {
			log.Error("failed to store batch results",
				"error", err,
				"owner_id", ownerID,
				"count", len(results))
			return nil, NewServiceError("simulation", "run_batch", err)
		}
	}

	log.Info("simulation batch completed",
		"owner_id", ownerID,
		"requested", len(cfgs),
		"succeeded", len(results))

	return outcomes, nil
}

// List implements SimulationService.
func (s *simulationService) List(ctx context.Context, ownerID uuid.UUID) ([]*sird.Result, error) {
	results, err := s.history.ListByOwner(ctx, ownerID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list simulations",
			"error", err,
			"owner_id", ownerID)
		return nil, NewServiceError("simulation", "list", err)
	}
	return results, nil
}

// Delete implements SimulationService.
func (s *simulationService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	unlock := s.locks.Lock(ownerID)
	defer unlock()

	results, err := s.history.ListByOwner(ctx, ownerID)
	if err != nil {
		log.Error("failed to list simulations for delete", "error", err, "owner_id", ownerID)
		return NewServiceError("simulation", "delete", err)
	}

	owned := false
	for _, r := range results {
		if r.ID == id {
			owned = true
			break
		}
	}
	if !owned {
		log.Debug("delete ignored, id not in owner history", "owner_id", ownerID, "result_id", id)
		return nil
	}

	if err := s.history.DeleteByID(ctx, id); err != nil {
		log.Error("failed to delete simulation", "error", err, "owner_id", ownerID, "result_id", id)
		return NewServiceError("simulation", "delete", err)
	}

	log.Info("simulation deleted", "owner_id", ownerID, "result_id", id)
	return nil
}

// Summarize implements SimulationService.
func (s *simulationService) Summarize(ctx context.Context, ownerID uuid.UUID) (Summary, error) {
	results, err := s.List(ctx, ownerID)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(results), nil
}

// Summarize computes the summary of a history. An empty history has an
// average of zero.
func Summarize(results []*sird.Result) Summary {
	if len(results) == 0 {
		return Summary{}
	}

	var total int64
	for _, r := range results {
		total += r.TotalDeaths
	}
	return Summary{
		Count:         len(results),
		AverageDeaths: int64(math.Round(float64(total) / float64(len(results)))),
	}
}

// ImportLegacy implements SimulationService.
func (s *simulationService) ImportLegacy(
	ctx context.Context,
	ownerID uuid.UUID,
	records []sird.LegacyRecord,
) ([]*sird.Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(records) == 0 {
		return nil, ErrEmptyBatch
	}

	results := make([]*sird.Result, len(records))
	for i, rec := range records {
		if err := s.limits.CheckDuration(rec.DurationDays); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		result, err := s.assembler.FromLegacy(rec, ownerID)
		if err != nil {
			log.Debug("legacy record rejected", "index", i, "error", err)
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		results[i] = result
	}

	unlock := s.locks.Lock(ownerID)
	defer unlock()

	if err := s.history.AppendAll(ctx, results); err != nil {
		log.Error("failed to store imported records",
			"error", err,
			"owner_id", ownerID,
			"count", len(results))
		return nil, NewServiceError("simulation", "import", err)
	}

	log.Info("legacy records imported", "owner_id", ownerID, "count", len(results))
	return results, nil
}
