package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ops-portal.com/ops-portal/internal/services"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Cancel overdue tasks once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		svc, err := a.services()
		if err != nil {
			return err
		}

		expired := services.NewSweepService(svc.tasks, 0, a.log).RunOnce(cmd.Context())
		fmt.Fprintf(cmd.OutOrStdout(), "cancelled %d overdue task(s)\n", expired)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
