package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver
	"github.com/phrazzld/sird-api/internal/config"
	"github.com/phrazzld/sird-api/internal/platform/postgres"
	"github.com/phrazzld/sird-api/internal/service"
	"github.com/phrazzld/sird-api/internal/service/auth"
	"github.com/phrazzld/sird-api/internal/task"
)

const connectTimeout = 5 * time.Second

var (
	errOwnerRequired = errors.New("--owner is required")
	// errHistoryDriver is returned when stored history is requested from a
	// backend that cannot hold any registered owner between invocations.
	errHistoryDriver = errors.New("history commands require the postgres database driver (set SIRD_DATABASE_DRIVER=postgres)")
)

// LoadLimits reads the simulation bounds from configuration.
func LoadLimits() (service.SimulationLimits, error) {
	simCfg, err := config.LoadSimulation()
	if err != nil {
		return service.SimulationLimits{}, err
	}
	return service.SimulationLimits{
		MaxBatchSize:    simCfg.MaxBatchSize,
		MaxDurationDays: simCfg.MaxDurationDays,
	}, nil
}

// OpenEnv connects to the configured postgres database, applies pending
// migrations and wires the services on top of it.
func OpenEnv(ctx context.Context, log *slog.Logger) (*Env, error) {
	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return nil, err
	}
	if err := checkHistoryDriver(dbCfg.Driver); err != nil {
		return nil, err
	}
	limits, err := LoadLimits()
	if err != nil {
		return nil, err
	}

	db, err := openPostgres(ctx, dbCfg.URL, log)
	if err != nil {
		return nil, err
	}

	runner := task.NewTaskRunner(task.DefaultTaskRunnerConfig(), log)
	runner.Start()

	passwords := auth.NewBcrypt()
	history := postgres.NewPostgresSimulationStore(db, log)
	return &Env{
		Users:       service.NewUserService(postgres.NewPostgresUserStore(db, log), passwords, passwords, log),
		Simulations: service.NewSimulationService(history, runner, nil, nil, limits, log),
		Close: func() {
			runner.Stop()
			if err := db.Close(); err != nil {
				log.Error("Error closing database connection", "error", err)
			}
		},
	}, nil
}

// checkHistoryDriver rejects drivers other than postgres. The in-memory
// backend starts empty on every invocation, so no owner could be resolved.
func checkHistoryDriver(driver string) error {
	switch driver {
	case config.DriverPostgres:
		return nil
	case config.DriverMemory:
		return errHistoryDriver
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
}

func openPostgres(ctx context.Context, url string, log *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := postgres.Migrate(ctx, db, "up", log); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// resolveOwner maps an owner email to the user's id.
func resolveOwner(ctx context.Context, env *Env, email string) (uuid.UUID, error) {
	if email == "" {
		return uuid.Nil, errOwnerRequired
	}
	user, err := env.Users.GetUserByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, fmt.Errorf("owner %q: %w", email, err)
	}
	return user.ID, nil
}
