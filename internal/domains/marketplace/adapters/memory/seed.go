package memory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

// Well known wallets of a local development node.
var (
	DemoOwner  = domain.MustParseAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	DemoSeller = domain.MustParseAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	DemoBuyer  = domain.MustParseAddress("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc")
)

const (
	DemoSellerRUC  = "1790012345001"
	DemoSellerName = "Andes Tech"
)

// DemoBuyerFunds is credited to DemoBuyer by SeedDemo.
var DemoBuyerFunds = decimal.NewFromInt(1000)

// SeedDemo registers one seller with two products (a taxed Laptop at 100 CBT
// and an exempt Book at 10 CBT) and a registered buyer holding DemoBuyerFunds.
// The network owner must be DemoOwner.
func SeedDemo(ctx context.Context, n *Network) error {
	market := n.Marketplace()
	if _, err := market.RegisterCompany(ctx, DemoOwner, domain.CompanyRegistration{
		RUC:         DemoSellerRUC,
		Name:        DemoSellerName,
		Wallet:      DemoSeller,
		Streets:     "Av. Amazonas N34-120",
		Phone:       "+593 2 255 0000",
		Description: "Computers and accessories",
		Email:       "ventas@andestech.example",
	}); err != nil {
		return fmt.Errorf("seed company: %w", err)
	}
	exempt := domain.IVAExempt
	drafts := []domain.ProductDraft{
		{CompanyRUC: DemoSellerRUC, Name: "Laptop", Photos: []string{"https://img.example/laptop.png"}, Price: decimal.NewFromInt(100), Stock: 5},
		{CompanyRUC: DemoSellerRUC, Name: "Book", Photos: []string{"https://img.example/book.png"}, Price: decimal.NewFromInt(10), Stock: 2, IVA: &exempt},
	}
	for _, draft := range drafts {
		if _, err := market.AddProduct(ctx, DemoSeller, draft); err != nil {
			return fmt.Errorf("seed product %s: %w", draft.Name, err)
		}
	}
	if _, err := market.RegisterClient(ctx, DemoBuyer, domain.ClientProfile{
		Name:     "Ana Torres",
		IDNumber: "1712345678",
		Email:    "ana@example.com",
		Phone:    "0991234567",
		Streets:  "Calle Larga 5-12",
	}); err != nil {
		return fmt.Errorf("seed client: %w", err)
	}
	n.Credit(DemoBuyer, DemoBuyerFunds)
	return nil
}
