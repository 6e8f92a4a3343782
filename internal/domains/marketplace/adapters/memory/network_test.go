package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/ports"
)

var (
	owner  = domain.MustParseAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	seller = domain.MustParseAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	buyer  = domain.MustParseAddress("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc")
)

func fixedClock() time.Time {
	return time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)
}

func seededNetwork(t *testing.T) (*Network, *Marketplace, *Token) {
	t.Helper()
	ctx := context.Background()
	net := NewNetwork(owner, WithClock(fixedClock))
	market, token := net.Marketplace(), net.Token()

	_, err := market.RegisterCompany(ctx, owner, domain.CompanyRegistration{RUC: "1790012345001", Name: "Andes Tech", Wallet: seller})
	require.NoError(t, err)

	exempt := domain.IVAExempt
	_, err = market.AddProduct(ctx, seller, domain.ProductDraft{CompanyRUC: "1790012345001", Name: "Laptop", Price: decimal.NewFromInt(100), Stock: 5})
	require.NoError(t, err)
	_, err = market.AddProduct(ctx, owner, domain.ProductDraft{CompanyRUC: "1790012345001", Name: "Book", Price: decimal.NewFromInt(10), Stock: 2, IVA: &exempt})
	require.NoError(t, err)
	return net, market, token
}

func TestRegisterCompany_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	net := NewNetwork(owner)
	market := net.Marketplace()

	_, err := market.RegisterCompany(ctx, buyer, domain.CompanyRegistration{RUC: "1", Name: "X", Wallet: seller})
	require.ErrorIs(t, err, ports.ErrReverted)

	_, err = market.RegisterCompany(ctx, owner, domain.CompanyRegistration{RUC: "1", Name: "X", Wallet: seller})
	require.NoError(t, err)

	_, err = market.RegisterCompany(ctx, owner, domain.CompanyRegistration{RUC: "1", Name: "Y", Wallet: buyer})
	require.ErrorIs(t, err, ports.ErrReverted)

	ruc, err := market.SellerRUC(ctx, seller)
	require.NoError(t, err)
	assert.Equal(t, "1", ruc)

	_, err = market.Company(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrCompanyNotFound)
}

func TestAddProduct_RequiresSellerOrOwner(t *testing.T) {
	ctx := context.Background()
	_, market, _ := seededNetwork(t)

	_, err := market.AddProduct(ctx, buyer, domain.ProductDraft{CompanyRUC: "1790012345001", Name: "Phone", Price: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, ports.ErrReverted)

	next, err := market.NextProductID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), next)

	laptop, err := market.Product(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.IVAStandard, laptop.IVA)
	assert.True(t, laptop.Active)

	events, err := market.ProductAddedEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Book", events[1].Name)
}

func TestCheckout_IssuesInvoicePerSeller(t *testing.T) {
	ctx := context.Background()
	net, market, token := seededNetwork(t)
	net.Credit(buyer, decimal.NewFromInt(1000))

	_, err := market.AddToCart(ctx, buyer, 1, 1)
	require.ErrorIs(t, err, ports.ErrReverted, "unregistered client")

	_, err = market.RegisterClient(ctx, buyer, domain.ClientProfile{Name: "Ana", IDNumber: "1712345678"})
	require.NoError(t, err)

	_, err = market.AddToCart(ctx, buyer, 1, 2)
	require.NoError(t, err)
	_, err = market.AddToCart(ctx, buyer, 2, 1)
	require.NoError(t, err)
	_, err = market.AddToCart(ctx, buyer, 2, 5)
	require.ErrorIs(t, err, ports.ErrReverted, "stock exceeded")

	_, err = market.Checkout(ctx, buyer)
	require.ErrorIs(t, err, ports.ErrReverted, "no allowance")

	total := decimal.NewFromInt(240)
	_, err = token.Approve(ctx, buyer, MarketplaceAddress, total)
	require.NoError(t, err)

	receipt, err := market.Checkout(ctx, buyer)
	require.NoError(t, err)

	balance, _ := token.BalanceOf(ctx, buyer)
	assert.True(t, balance.Equal(decimal.NewFromInt(760)), balance.String())
	sellerBalance, _ := token.BalanceOf(ctx, seller)
	assert.True(t, sellerBalance.Equal(total))

	events, err := market.PurchaseCompletedEvents(ctx, &buyer)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.RUCTopic("1790012345001"), events[0].CompanyTopic)
	assert.Equal(t, receipt.Hash, events[0].TxHash)

	invoice, err := market.Invoice(ctx, domain.InvoiceKey("1790012345001", events[0].InvoiceID))
	require.NoError(t, err)
	assert.Equal(t, "001-001-000000001", invoice.InvoiceID)
	assert.True(t, invoice.Subtotal15.Equal(decimal.NewFromInt(200)))
	assert.True(t, invoice.Subtotal0.Equal(decimal.NewFromInt(10)))
	assert.True(t, invoice.IVAAmount.Equal(decimal.NewFromInt(30)))
	assert.True(t, invoice.Total.Equal(total))
	assert.Len(t, invoice.Lines, 2)
	assert.Equal(t, fixedClock(), invoice.Timestamp)

	laptop, _ := market.Product(ctx, 1)
	assert.Equal(t, uint64(3), laptop.Stock)

	_, err = market.Checkout(ctx, buyer)
	require.ErrorIs(t, err, ports.ErrReverted, "cart cleared")

	_, err = market.Invoice(ctx, "1790012345001-missing")
	require.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

func TestPayVIPSubscription(t *testing.T) {
	ctx := context.Background()
	net, market, token := seededNetwork(t)
	net.Credit(seller, decimal.NewFromInt(600))

	_, err := market.PayVIPSubscription(ctx, seller, "1790012345001")
	require.ErrorIs(t, err, ports.ErrReverted)

	_, err = token.Approve(ctx, seller, MarketplaceAddress, domain.VIPCost)
	require.NoError(t, err)
	_, err = market.PayVIPSubscription(ctx, seller, "1790012345001")
	require.NoError(t, err)

	company, err := market.Company(ctx, "1790012345001")
	require.NoError(t, err)
	assert.Equal(t, domain.EndOfWeek(fixedClock()), company.VIPUntil)

	ownerBalance, _ := token.BalanceOf(ctx, owner)
	assert.True(t, ownerBalance.Equal(domain.VIPCost))
}

func TestTransferAndMintReceipts(t *testing.T) {
	ctx := context.Background()
	net := NewNetwork(owner)
	token := net.Token()

	minted, err := token.Mint(ctx, buyer, decimal.RequireFromString("12.5"))
	require.NoError(t, err)

	_, err = token.Transfer(ctx, buyer, seller, decimal.NewFromInt(20))
	require.ErrorIs(t, err, ports.ErrReverted)

	sent, err := token.Transfer(ctx, buyer, seller, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NotEqual(t, minted.Hash, sent.Hash)

	receipt, err := token.TransferReceipt(ctx, sent.Hash)
	require.NoError(t, err)
	require.True(t, receipt.Succeeded)
	require.Len(t, receipt.Transfers, 1)
	assert.Equal(t, seller, receipt.Transfers[0].To)

	_, err = token.TransferReceipt(ctx, "0xdead")
	require.ErrorIs(t, err, ports.ErrTransactionNotFound)

	_, err = token.Mint(ctx, buyer, decimal.RequireFromString("0.0000001"))
	require.Error(t, err)
}
