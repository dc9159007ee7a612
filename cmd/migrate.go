package cmd

import (
	"github.com/spf13/cobra"

	config "ops-portal.com/ops-portal/internal/configs"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := config.Migrate(a.db); err != nil {
			return err
		}
		a.log.Info(cmd.Context(), "schema up to date", "driver", a.cfg.DatabaseDriver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
