package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/seniko/internal/common"
	"github.com/spf13/cobra"
)

func newMeCmd(a *App) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "me",
		Short: "Show the user ID a token was issued for",
		Long:  `Show the user ID a token was issued for. The token comes from --token or SENIKO_TOKEN.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if token == "" {
				token = os.Getenv(common.EnvPrefix + "TOKEN")
			}
			if token == "" {
				return errors.New("no token given: use --token or SENIKO_TOKEN")
			}

			id, err := a.client.Me(cmd.Context(), token)
			if err != nil {
				return fmt.Errorf("token check failed: %w", err)
			}

			fmt.Fprintln(a.out, id)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "access token")

	return cmd
}
