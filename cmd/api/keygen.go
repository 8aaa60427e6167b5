// AngelaMos | 2026
// keygen.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/angelamos/wholesale-api/internal/auth"
	"github.com/angelamos/wholesale-api/internal/config"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate the ES256 signing key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		err = auth.GenerateKeyPair(
			cfg.Auth.PrivateKeyPath,
			cfg.Auth.PublicKeyPath,
		)
		if err != nil {
			return err
		}

		fmt.Printf("private key written to %s\n", cfg.Auth.PrivateKeyPath)
		fmt.Printf("public key written to %s\n", cfg.Auth.PublicKeyPath)
		return nil
	},
}
