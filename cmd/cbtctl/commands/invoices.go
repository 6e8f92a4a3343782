package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/codecrypto/cbt-marketplace/internal/domains/orders/domain"
)

func invoicesCmd() *cobra.Command {
	var filter domain.InvoiceFilter
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "Audit issued invoices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			invoices, err := container.Services.Orders.Invoices(cmd.Context(), filter)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "INVOICE\tRUC\tSELLER\tBUYER\tTOTAL\tBLOCK")
			for _, inv := range invoices {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n", inv.InvoiceID, inv.CompanyRUC, inv.CompanyName, inv.Buyer, inv.Total.StringFixed(2), inv.BlockNumber)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&filter.CompanyRUC, "ruc", "", "only invoices of this seller")
	cmd.Flags().StringVar(&filter.InvoiceID, "invoice", "", "only this invoice number")
	return cmd
}
