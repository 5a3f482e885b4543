package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/shayfa/internal/config"
	"github.com/mrlokans/shayfa/internal/dashboard"
)

func NewStatsCommand(loadConfig func() *config.Config) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print user, order and revenue totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, store, err := openClient(loadConfig())
			if err != nil {
				return err
			}
			defer store.Close()

			summary, err := dashboard.Collect(context.Background(), client)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			fmt.Fprintf(out, "Users:    %d\n", summary.Users)
			fmt.Fprintf(out, "Products: %d\n", summary.Products)
			fmt.Fprintf(out, "Orders:   %d\n", summary.Orders)
			fmt.Fprintf(out, "Revenue:  %s\n", summary.Revenue.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
