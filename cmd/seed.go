package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ops-portal.com/ops-portal/internal/seed"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load analysts, campaigns and routine templates from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(seedFile)
		if err != nil {
			return fmt.Errorf("open seed file: %w", err)
		}
		defer file.Close()

		doc, err := seed.Decode(file)
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		summary, err := seed.Apply(cmd.Context(), a.store, doc, time.Now(), a.log)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created %d analyst(s), %d campaign(s), %d template(s)\n",
			summary.Analysts, summary.Campaigns, summary.Templates)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "seed.json", "path to the seed document")
	rootCmd.AddCommand(seedCmd)
}
