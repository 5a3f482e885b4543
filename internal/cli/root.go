// Package cli defines the shayfa command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/shayfa/internal/config"
)

// NewRootCommand creates the root command. Running it without a subcommand serves HTTP.
func NewRootCommand(version string) *cobra.Command {
	var dbPath string

	loadConfig := func() *config.Config {
		cfg := config.NewConfig()
		if dbPath != "" {
			cfg.Database.Path = dbPath
		}
		return cfg
	}

	cmd := &cobra.Command{
		Use:          "shayfa",
		Short:        "Shayfa store and Quran reading tracker",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(loadConfig(), version)
		},
	}

	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the record database (overrides DATABASE_PATH)")

	cmd.AddCommand(NewServeCommand(version, loadConfig))
	cmd.AddCommand(NewSeedCommand(loadConfig))
	cmd.AddCommand(NewStatsCommand(loadConfig))
	cmd.AddCommand(NewSecretCommand())

	return cmd
}
