package cli

import (
	"fmt"

	"github.com/dmitrijs2005/seniko/internal/shared"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print the access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if email == "" {
				if email, err = GetSimpleText(a.reader, "Enter email", a.out); err != nil {
					return err
				}
			}

			password, err := GetPassword(a.reader, a.out)
			if err != nil {
				return err
			}
			defer shared.WipeByteArray(password)

			token, err := a.client.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			fmt.Fprintln(a.out, token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")

	return cmd
}
