package main

import (
	"fmt"

	"github.com/spf13/cobra"

	catalogrepo "github.com/starlet/starlet/internal/repository/catalog"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending record store migrations",
	Long: `Apply the embedded PostgreSQL schema migrations to the configured database.

Examples:
  # Migrate the local database
  starletctl migrate

  # Migrate production
  starletctl migrate --env prod`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	rt, err := loadSession()
	if err != nil {
		return err
	}
	version, err := catalogrepo.Migrate(rt.cfg.Database.DSN)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
	return err
}
