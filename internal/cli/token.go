package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"todo-api/internal/token"
)

func newTokenCmd(a *app) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token for a user id (for manual testing)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return errors.New("--user is required")
			}
			if err := a.cfg.RequireSecret(); err != nil {
				return err
			}
			tokens, err := token.New(a.cfg.JWTSecret)
			if err != nil {
				return err
			}
			signed, err := tokens.Issue(userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id to embed in the token")
	return cmd
}
