package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/horizons-app/horizons/internal/repository"
	"github.com/horizons-app/horizons/internal/validation"
)

func AdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage app administrators",
	}

	cmd.AddCommand(setAdminCmd("promote", "Grant app admin to the user with this email", true))
	cmd.AddCommand(setAdminCmd("demote", "Revoke app admin from the user with this email", false))
	return cmd
}

func setAdminCmd(use, short string, admin bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <email>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, _, err := open()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			ctx := cmd.Context()
			user, err := repository.NewUserRepository(database).ByEmail(ctx, validation.NormalizeEmail(args[0]))
			if err != nil {
				return fmt.Errorf("failed to find user %s: %w", args[0], err)
			}

			err = repository.NewProfileRepository(database).SetAppAdmin(ctx, user.ID, admin)
			if err != nil {
				return fmt.Errorf("failed to update profile: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: is_app_admin=%t\n", user.Email, admin)
			return nil
		},
	}
}
