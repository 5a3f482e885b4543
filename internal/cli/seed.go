package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/shayfa/internal/api"
	"github.com/mrlokans/shayfa/internal/catalog"
	"github.com/mrlokans/shayfa/internal/config"
	"github.com/mrlokans/shayfa/internal/recordstore"
	"github.com/mrlokans/shayfa/internal/token"
)

// openClient opens the record store for a one-shot command. The artificial
// latency only makes sense for interactive use, so it is dropped here.
func openClient(cfg *config.Config) (*api.Client, *recordstore.Store, error) {
	codec, err := token.NewCodec(cfg.Auth)
	if err != nil {
		return nil, nil, err
	}
	store := recordstore.Open(cfg.Database.Path)
	if !store.Ready() {
		store.Close()
		return nil, nil, fmt.Errorf("record database %s is unavailable", cfg.Database.Path)
	}

	opts := api.OptionsFromConfig(cfg)
	opts.Latency = 0
	return api.NewClient(store, codec, opts), store, nil
}

func NewSeedCommand(loadConfig func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the first-run catalog unless it is already present",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, store, err := openClient(loadConfig())
			if err != nil {
				return err
			}
			defer store.Close()

			seeded, err := catalog.Seed(context.Background(), client)
			if err != nil {
				return err
			}
			if seeded {
				fmt.Fprintln(cmd.OutOrStdout(), "Catalog seeded")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Catalog already present, nothing to do")
			}
			return nil
		},
	}
}
