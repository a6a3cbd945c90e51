package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/phrazzld/sird-api/internal/domain/sird"
	"github.com/spf13/cobra"
)

func newImportCmd(opts *options) *cobra.Command {
	var owner, file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Imports simulations exported by the legacy browser client",
		Long: `Imports a JSON export of legacy simulation records into the owner's history.
The file holds either a JSON array of records or an object with a "records"
array. Either every record is imported or none is. Needs the postgres
database driver.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}
			records, err := sird.DecodeLegacyRecords(data)
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", file, err)
			}

			return opts.withEnv(cmd.Context(), func(env *Env) error {
				ownerID, err := resolveOwner(cmd.Context(), env, owner)
				if err != nil {
					return err
				}
				results, err := env.Simulations.ImportLegacy(cmd.Context(), ownerID, records)
				if err != nil {
					return err
				}
				printImported(cmd.OutOrStdout(), results)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Email of the history owner")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the JSON export")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
