package commands

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/phrazzld/sird-api/internal/domain/sird"
	"github.com/spf13/cobra"
)

type runFlags struct {
	raw        sird.RawParams
	jsonOutput bool
	series     bool
	save       bool
	owner      string
}

func newRunCmd(opts *options) *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Runs one simulation and prints its outcome",
		Long: `Runs the SIRD model for the given parameters over the full horizon and
prints the peak, the final compartments and, optionally, the daily series.

The horizon may not exceed simulation.max_duration_days. With --save the
result is appended to the history of --owner, which needs the postgres
database driver.`,
		Example: `  sirdctl run --name Lisboa --population 500000 --infected 10 \
    --transmission 0.3 --recovery 0.1 --mortality 0.01 --days 180`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := sird.Parse(f.raw)
			if err != nil {
				return err
			}

			var result *sird.Result
			if f.save {
				if f.owner == "" {
					return errors.New("--save requires --owner")
				}
				err = opts.withEnv(cmd.Context(), func(env *Env) error {
					ownerID, err := resolveOwner(cmd.Context(), env, f.owner)
					if err != nil {
						return err
					}
					result, err = env.Simulations.Run(cmd.Context(), ownerID, cfg)
					return err
				})
			} else {
				result, err = runUnsaved(opts, cfg)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if f.jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			printResult(out, result)
			if f.series {
				printSeries(out, result.Series)
			}
			if f.save {
				printSaved(out, result)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.raw.Name, "name", "", "Name of the simulation")
	flags.StringVar(&f.raw.TotalPopulation, "population", "", "Total population N")
	flags.StringVar(&f.raw.InitialInfected, "infected", "", "Initially infected individuals I0")
	flags.StringVar(&f.raw.TransmissionRate, "transmission", "", "Transmission rate beta")
	flags.StringVar(&f.raw.RecoveryRate, "recovery", "", "Recovery rate gamma")
	flags.StringVar(&f.raw.MortalityRate, "mortality", "", "Mortality rate mu, within [0, 1]")
	flags.StringVar(&f.raw.DurationDays, "days", "", "Simulation horizon in days")
	flags.BoolVar(&f.jsonOutput, "json", false, "Output the full result as JSON")
	flags.BoolVar(&f.series, "series", false, "Print the daily series")
	flags.BoolVar(&f.save, "save", false, "Append the result to the owner's history")
	flags.StringVar(&f.owner, "owner", "", "Email of the history owner (with --save)")

	return cmd
}

// runUnsaved simulates cfg in-process after applying the configured limits.
func runUnsaved(opts *options, cfg sird.Config) (*sird.Result, error) {
	limits, err := opts.limits()
	if err != nil {
		return nil, err
	}
	if err := limits.CheckDuration(cfg.DurationDays); err != nil {
		return nil, err
	}
	return sird.NewSimulator().Run(cfg, uuid.Nil)
}
