package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/onramp/domain"
)

// mintCmd replays the mint of a paid intent, for purchases whose browser
// session died between payment and minting.
func mintCmd() *cobra.Command {
	var intent, address, amount string
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint CBT for a succeeded payment intent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wallet, err := mdomain.ParseAddress(address)
			if err != nil {
				return fmt.Errorf("--address: %w", err)
			}
			value, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("--amount: %w", err)
			}
			receipt, err := container.Services.Minting.Mint(cmd.Context(), domain.MintRequest{
				PaymentIntentID: intent,
				Wallet:          wallet,
				Amount:          value,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "minted %s CBT to %s in tx %s (block %d)\n",
				receipt.Amount.StringFixed(2), receipt.Wallet, receipt.TxHash, receipt.BlockNumber)
			return nil
		},
	}
	cmd.Flags().StringVar(&intent, "intent", "", "payment intent id")
	cmd.Flags().StringVar(&address, "address", "", "wallet receiving the tokens")
	cmd.Flags().StringVar(&amount, "amount", "", "amount in CBT, as paid")
	_ = cmd.MarkFlagRequired("intent")
	_ = cmd.MarkFlagRequired("address")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
