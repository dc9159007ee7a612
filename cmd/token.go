package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ops-portal.com/ops-portal/internal/auth"
	"ops-portal.com/ops-portal/internal/policy"
	repository "ops-portal.com/ops-portal/internal/repositories"
)

var tokenEmail string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for an analyst",
	Long:  "Issues a development JWT carrying the analyst id and role stored for the given email",
	RunE: func(cmd *cobra.Command, args []string) error {
		email := strings.ToLower(strings.TrimSpace(tokenEmail))
		if email == "" {
			return errors.New("--email is required")
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.cfg.RequireJWTSecret(); err != nil {
			return err
		}

		analyst, err := a.store.Analysts.FindByEmail(cmd.Context(), email)
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("no analyst with email %q", email)
		}
		if err != nil {
			return err
		}

		token, err := auth.NewTokenManager(a.cfg.JWTSecret, a.cfg.TokenTTL).
			Issue(policy.Actor{ID: analyst.ID, Role: analyst.Role})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "analyst email")
	rootCmd.AddCommand(tokenCmd)
}
