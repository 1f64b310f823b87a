package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the knowledge store schema and search indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := globalConfig
			if err := cfg.ValidateStore(); err != nil {
				return err
			}

			repo, closeStore, err := openStore(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := repo.EnsureIndexes(cmd.Context()); err != nil {
				return fmt.Errorf("ensure indexes: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s store is ready\n", cfg.Store.Driver)
			return nil
		},
	}
}
