package cli

import (
	"fmt"

	"github.com/dmitrijs2005/seniko/internal/shared"
	"github.com/spf13/cobra"
)

func newRegisterCmd(a *App) *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Long:  `Create a new account. Missing username or email are prompted for; the password is always prompted for.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if username == "" {
				if username, err = GetSimpleText(a.reader, "Enter user name", a.out); err != nil {
					return err
				}
			}
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

			u, err := a.client.Register(cmd.Context(), username, email, password)
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}

			fmt.Fprintf(a.out, "Registered %s <%s> with id %s\n", u.Username, u.Email, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")

	return cmd
}
