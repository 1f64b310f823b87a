package cli

import (
	"os"

	"secondbrain/config"
	"secondbrain/pkg/logger"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// appFs backs config and --file reads; tests swap in a MemMapFs.
var appFs afero.Fs = afero.NewOsFs()

// globalConfig holds the loaded configuration for all commands
var globalConfig *config.Config

func NewRoot() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "secondbrain",
		Short:        "Personal knowledge base with AI summaries and answers",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Priority: environment > config file > defaults
			if configPath == "" {
				configPath = os.Getenv("CONFIG_FILE")
			}
			cfg, err := config.Load(appFs, configPath)
			if err != nil {
				return err
			}
			logger.Init(cfg.LogLevel)
			globalConfig = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
		RunE: func(c *cobra.Command, _ []string) error { return c.Help() },
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (env: CONFIG_FILE)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newSummarizeCmd())
	return cmd
}
