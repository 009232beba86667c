package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/horizons-app/horizons/internal/cache"
	"github.com/horizons-app/horizons/internal/repository"
	"github.com/horizons-app/horizons/internal/service"
)

func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed reference data",
	}

	cmd.AddCommand(seedCategoriesCmd())
	return cmd
}

func seedCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Create the default global categories that are missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, _, err := open()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			categories := service.NewCategoryService(
				repository.NewCategoryRepository(database),
				repository.NewTeamRepository(database),
				repository.NewProfileRepository(database),
				cache.New(time.Minute),
			)

			created, err := categories.SeedDefaults(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %d categories\n", created)
			return nil
		},
	}
}
