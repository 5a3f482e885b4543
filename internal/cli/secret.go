package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/shayfa/internal/crypto"
)

// NewSecretCommand prints a random hex secret suitable for AUTH_TOKEN_SECRET
// or AUTH_SESSION_SECRET.
func NewSecretCommand() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Generate a random secret for token signing or CSRF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if size < 16 {
				return fmt.Errorf("secret size must be at least 16 bytes, got %d", size)
			}
			secret, err := crypto.GenerateSecret(size)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), secret)
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "bytes", 32, "number of random bytes")
	return cmd
}
