// Package commands implements the sirdctl command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/phrazzld/sird-api/internal/config"
	"github.com/phrazzld/sird-api/internal/platform/logger"
	"github.com/phrazzld/sird-api/internal/service"
	"github.com/spf13/cobra"
)

// Env holds the services used by commands that touch stored history.
type Env struct {
	Users       service.UserService
	Simulations service.SimulationService
	// Close releases the resources behind the services. It may be nil.
	Close func()
}

// EnvOpener builds the Env for one command invocation.
type EnvOpener func(ctx context.Context, log *slog.Logger) (*Env, error)

// LimitsLoader returns the simulation bounds applied to runs that are not
// saved and therefore never reach a service.
type LimitsLoader func() (service.SimulationLimits, error)

// options are the persistent flags shared by every command.
type options struct {
	logLevel string
	noColor  bool
	open     EnvOpener
	limits   LimitsLoader
	logger   *slog.Logger
}

// NewRootCmd builds the sirdctl command tree. open is called lazily by the
// commands that need stored history, limits by unsaved runs.
func NewRootCmd(open EnvOpener, limits LimitsLoader) *cobra.Command {
	opts := &options{open: open, limits: limits}

	root := &cobra.Command{
		Use:   "sirdctl",
		Short: "sirdctl runs SIRD epidemic simulations",
		Long: `sirdctl integrates the SIRD compartmental model (susceptible, infected,
recovered, deceased) and manages the simulation history of registered users.

History commands (run --save, history, import) need the postgres driver:
set SIRD_DATABASE_DRIVER=postgres and SIRD_DATABASE_URL, or the database
section of config.yaml. Simulation bounds come from SIRD_SIMULATION_*.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.noColor {
				color.NoColor = true
			}
			l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: opts.logLevel}, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			opts.logger = l
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable coloured output")

	root.AddCommand(
		newRunCmd(opts),
		newHistoryCmd(opts),
		newImportCmd(opts),
	)
	return root
}

// Execute runs the command tree against the configured database and exits
// non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(OpenEnv, LoadLimits).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// withEnv opens the Env, runs fn and releases the Env.
func (o *options) withEnv(ctx context.Context, fn func(env *Env) error) error {
	env, err := o.open(ctx, o.logger)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	if env.Close != nil {
		defer env.Close()
	}
	return fn(env)
}
