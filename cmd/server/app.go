package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/sird-api/internal/config"
	"github.com/phrazzld/sird-api/internal/platform/memory"
	"github.com/phrazzld/sird-api/internal/platform/postgres"
	"github.com/phrazzld/sird-api/internal/service"
	"github.com/phrazzld/sird-api/internal/service/auth"
	"github.com/phrazzld/sird-api/internal/store"
	"github.com/phrazzld/sird-api/internal/task"
)

// application holds the shared dependencies of the server so they can be
// wired once and released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore       store.UserStore
	simulationStore store.SimulationStore

	jwtService        auth.JWTService
	userService       service.UserService
	simulationService service.SimulationService
	taskRunner        *task.TaskRunner
}

// newApplication wires stores, services and the task runner for cfg. With
// the postgres driver it connects to the database and applies pending
// migrations first.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	if err := app.setupStores(ctx); err != nil {
		return nil, err
	}

	app.taskRunner = task.NewTaskRunner(task.TaskRunnerConfig{
		WorkerCount: cfg.Simulation.WorkerCount,
		QueueSize:   cfg.Simulation.QueueSize,
	}, logger)
	app.taskRunner.Start()

	passwords := auth.NewBcrypt()
	app.userService = service.NewUserService(app.userStore, passwords, passwords, logger)
	app.simulationService = service.NewSimulationService(
		app.simulationStore,
		app.taskRunner,
		nil,
		nil,
		service.SimulationLimits{
			MaxBatchSize:    cfg.Simulation.MaxBatchSize,
			MaxDurationDays: cfg.Simulation.MaxDurationDays,
		},
		logger,
	)

	logger.Info("Application initialized successfully",
		"database_driver", cfg.Database.Driver,
		"workers", cfg.Simulation.WorkerCount)
	return app, nil
}

// setupStores creates the stores for the configured driver.
func (app *application) setupStores(ctx context.Context) error {
	switch app.config.Database.Driver {
	case config.DriverPostgres:
		db, err := setupAppDatabase(ctx, app.config.Database, app.logger)
		if err != nil {
			return err
		}
		app.db = db

		if err := postgres.Migrate(ctx, db, "up", app.logger); err != nil {
			app.cleanup()
			return fmt.Errorf("failed to apply migrations: %w", err)
		}

		app.userStore = postgres.NewPostgresUserStore(db, app.logger)
		app.simulationStore = postgres.NewPostgresSimulationStore(db, app.logger)
	case config.DriverMemory:
		app.userStore = memory.NewUserStore(app.logger)
		app.simulationStore = memory.NewSimulationStore(app.logger)
		app.logger.Warn("using in-memory storage, history is lost on restart")
	default:
		return fmt.Errorf("unsupported database driver %q", app.config.Database.Driver)
	}
	return nil
}

// Run serves HTTP until ctx is cancelled and then releases all resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}
}
