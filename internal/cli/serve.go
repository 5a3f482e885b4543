package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/shayfa/internal/config"
	"github.com/mrlokans/shayfa/internal/entrypoint"
)

var (
	entrypointRun = entrypoint.Run
	runServe      = entrypointRun
)

func NewServeCommand(version string, loadConfig func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(loadConfig(), version)
		},
	}
}
