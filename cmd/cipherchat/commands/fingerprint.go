package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cipherchat/internal/crypto"
)

func fingerprintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint <public-key.pem>",
		Short: "Print the fingerprint of a PEM public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			pub, err := crypto.ParsePublicPEM(string(raw))
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fp, err := crypto.Fingerprint(pub)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Fingerprint: %s (%d-bit RSA)\n", fp, pub.N.BitLen())
			return nil
		},
	}
	return cmd
}
