package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func productsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List products on sale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listings, err := container.Services.Catalog.ListProducts(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSELLER\tPRICE\tIVA\tSTOCK")
			for _, l := range listings {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d%%\t%d\n", l.ID, l.Name, l.CompanyName, l.Price.StringFixed(2), l.IVA, l.Stock)
			}
			return w.Flush()
		},
	}
}
