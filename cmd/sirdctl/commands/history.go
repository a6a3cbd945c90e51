package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/phrazzld/sird-api/internal/domain/sird"
	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *options) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Lists, summarizes and deletes stored simulations",
		Long: `Lists, summarizes and deletes the simulations stored for --owner.
History lives in the postgres database; the memory driver is refused.`,
	}
	cmd.PersistentFlags().StringVar(&owner, "owner", "", "Email of the history owner")
	_ = cmd.MarkPersistentFlagRequired("owner")

	cmd.AddCommand(
		newHistoryListCmd(opts, &owner),
		newHistorySummaryCmd(opts, &owner),
		newHistoryDeleteCmd(opts, &owner),
	)
	return cmd
}

func newHistoryListCmd(opts *options, owner *string) *cobra.Command {
	var (
		jsonOutput bool
		legacy     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lists the owner's simulations, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withEnv(cmd.Context(), func(env *Env) error {
				ownerID, err := resolveOwner(cmd.Context(), env, *owner)
				if err != nil {
					return err
				}
				results, err := env.Simulations.List(cmd.Context(), ownerID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				switch {
				case legacy:
					records := make([]sird.LegacyRecord, len(results))
					for i, r := range results {
						records[i] = sird.ToLegacy(r, *owner)
					}
					return writeJSON(out, records)
				case jsonOutput:
					return writeJSON(out, results)
				default:
					printHistory(out, results)
					return nil
				}
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the results as JSON")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "Output the results in the legacy record shape")
	cmd.MarkFlagsMutuallyExclusive("json", "legacy")
	return cmd
}

func newHistorySummaryCmd(opts *options, owner *string) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Prints the number of stored runs and their average deaths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withEnv(cmd.Context(), func(env *Env) error {
				ownerID, err := resolveOwner(cmd.Context(), env, *owner)
				if err != nil {
					return err
				}
				summary, err := env.Simulations.Summarize(cmd.Context(), ownerID)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd.OutOrStdout(), summary)
				}
				printSummary(cmd.OutOrStdout(), summary)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the summary as JSON")
	return cmd
}

func newHistoryDeleteCmd(opts *options, owner *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Deletes a simulation from the owner's history",
		Long: `Deletes a simulation from the owner's history. Ids that are not in the
owner's history are ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid simulation id %q: %w", args[0], err)
			}

			return opts.withEnv(cmd.Context(), func(env *Env) error {
				ownerID, err := resolveOwner(cmd.Context(), env, *owner)
				if err != nil {
					return err
				}
				if err := env.Simulations.Delete(cmd.Context(), ownerID, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
				return nil
			})
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
