package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func purgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Drop expired sessions and stale carts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, carts, err := container.Purge(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d sessions and %d carts\n", sessions, carts)
			return nil
		},
	}
}
