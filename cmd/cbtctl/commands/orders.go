package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

func ordersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orders <address>",
		Short: "Show the purchase history of a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buyer, err := mdomain.ParseAddress(args[0])
			if err != nil {
				return fmt.Errorf("%q: %w", args[0], err)
			}
			orders, err := container.Services.Orders.History(cmd.Context(), buyer)
			if err != nil {
				return err
			}
			if len(orders) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no orders")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tINVOICE\tSELLER\tTOTAL\tTX")
			for _, o := range orders {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", o.Timestamp.Format("2006-01-02 15:04"), o.InvoiceID, o.CompanyName, o.Total.StringFixed(2), o.TxHash)
			}
			return w.Flush()
		},
	}
}
