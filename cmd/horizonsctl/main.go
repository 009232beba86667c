package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/horizons-app/horizons/cmd/horizonsctl/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "horizonsctl",
		Short:        "Administration tools for Horizons",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.SeedCmd())
	rootCmd.AddCommand(cmd.AdminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
