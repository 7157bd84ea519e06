package cmd

import (
	"errors"
	"fmt"

	"assettracker/internal/config"
	"assettracker/pkg/roles"
	"assettracker/pkg/security"

	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an API token signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.New()
			if !cfg.AuthEnabled() {
				return errors.New("JWT_SECRET is not set")
			}

			subject, _ := cmd.Flags().GetString("subject")
			roleName, _ := cmd.Flags().GetString("role")
			role, err := roles.NewRole(roleName)
			if err != nil {
				return err
			}

			token, err := security.NewAuthenticator(cfg.JWTSecret, cfg.JWTTTL).GenerateToken(subject, role)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().String("subject", "", "Token subject, recorded as the actor in asset history")
	cmd.Flags().String("role", string(roles.User), "Token role (user or admin)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
