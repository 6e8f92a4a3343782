package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mmemory "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/adapters/memory"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	mports "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/ports"
	"github.com/codecrypto/cbt-marketplace/internal/platform/events"
)

// Wednesday; the subscription runs until Sunday 19 May 23:59:59 UTC.
var wednesday = time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)

const otherRUC = "0990011223001"

var otherSeller = mdomain.MustParseAddress("0x90f79bf6eb2c4f870365e785982e1f101e93b906")

func newFixture(t *testing.T) (*Service, *mmemory.Network, *events.Recorder) {
	t.Helper()
	ctx := context.Background()
	clock := func() time.Time { return wednesday }
	net := mmemory.NewNetwork(mmemory.DemoOwner, mmemory.WithClock(clock))
	require.NoError(t, mmemory.SeedDemo(ctx, net))

	market := net.Marketplace()
	_, err := market.RegisterCompany(ctx, mmemory.DemoOwner, mdomain.CompanyRegistration{RUC: otherRUC, Name: "Costa Libros", Wallet: otherSeller})
	require.NoError(t, err)
	_, err = market.AddProduct(ctx, otherSeller, mdomain.ProductDraft{CompanyRUC: otherRUC, Name: "Map", Price: decimal.NewFromInt(20), Stock: 10})
	require.NoError(t, err)

	recorder := events.NewRecorder()
	svc := NewService(market, net.Token(), WithClock(clock), WithPublisher(recorder))
	return svc, net, recorder
}

func TestDashboard(t *testing.T) {
	svc, net, _ := newFixture(t)
	net.Credit(mmemory.DemoSeller, decimal.NewFromInt(42))

	dashboard, err := svc.Dashboard(context.Background(), mmemory.DemoSeller)
	require.NoError(t, err)
	assert.Equal(t, mmemory.DemoSellerRUC, dashboard.Company.RUC)
	assert.Equal(t, mmemory.DemoSellerName, dashboard.Company.Name)
	assert.False(t, dashboard.VIPActive)
	require.Len(t, dashboard.Products, 2)
	assert.Equal(t, "Laptop", dashboard.Products[0].Name)
	assert.Equal(t, "https://img.example/laptop.png", dashboard.Products[0].CoverPhoto())
	assert.True(t, dashboard.Balance.Equal(decimal.NewFromInt(42)))
	assert.True(t, dashboard.Allowance.IsZero())
}

func TestDashboard_RequiresSeller(t *testing.T) {
	svc, _, _ := newFixture(t)
	_, err := svc.Dashboard(context.Background(), mmemory.DemoBuyer)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Dashboard(context.Background(), mdomain.ZeroAddress)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegisterProduct_UsesOwnRUC(t *testing.T) {
	ctx := context.Background()
	svc, net, _ := newFixture(t)

	_, err := svc.RegisterProduct(ctx, mmemory.DemoSeller, mdomain.ProductDraft{
		CompanyRUC: otherRUC,
		Name:       "  Mouse ",
		Price:      decimal.RequireFromString("12.5"),
		Stock:      3,
	})
	require.NoError(t, err)

	product, err := net.Marketplace().Product(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, mmemory.DemoSellerRUC, product.CompanyRUC)
	assert.Equal(t, "Mouse", product.Name)
	assert.Equal(t, mdomain.IVAStandard, product.IVA)

	_, err = svc.RegisterProduct(ctx, mmemory.DemoSeller, mdomain.ProductDraft{Name: "Free", Price: decimal.Zero})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.RegisterProduct(ctx, mmemory.DemoBuyer, mdomain.ProductDraft{Name: "Pen", Price: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateProduct_OwnProductsOnly(t *testing.T) {
	ctx := context.Background()
	svc, net, _ := newFixture(t)

	_, err := svc.UpdateProduct(ctx, mmemory.DemoSeller, mdomain.ProductUpdate{
		ID:     1,
		Name:   "Laptop Pro",
		Photos: []string{"https://img.example/pro.png"},
		Price:  decimal.NewFromInt(120),
		IVA:    mdomain.IVAStandard,
		Active: false,
	})
	require.NoError(t, err)
	laptop, err := net.Marketplace().Product(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Laptop Pro", laptop.Name)
	assert.False(t, laptop.Active)
	assert.True(t, laptop.Price.Equal(decimal.NewFromInt(120)))

	_, err = svc.UpdateProduct(ctx, mmemory.DemoSeller, mdomain.ProductUpdate{ID: 3, Name: "Map", Price: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateProduct(ctx, mmemory.DemoSeller, mdomain.ProductUpdate{ID: 99, Name: "Ghost", Price: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateProduct(ctx, mmemory.DemoSeller, mdomain.ProductUpdate{ID: 1, Name: "Laptop", Price: decimal.NewFromInt(1), IVA: 12})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRestock(t *testing.T) {
	ctx := context.Background()
	svc, net, _ := newFixture(t)

	_, err := svc.Restock(ctx, mmemory.DemoSeller, 2, 8)
	require.NoError(t, err)
	book, _ := net.Marketplace().Product(ctx, 2)
	assert.Equal(t, uint64(10), book.Stock)

	_, err = svc.Restock(ctx, mmemory.DemoSeller, 2, 0)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Restock(ctx, mmemory.DemoSeller, 3, 1)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestBecomeVIP(t *testing.T) {
	ctx := context.Background()
	svc, net, recorder := newFixture(t)
	net.Credit(mmemory.DemoSeller, decimal.NewFromInt(600))

	sub, err := svc.BecomeVIP(ctx, mmemory.DemoSeller)
	require.NoError(t, err)
	assert.NotEmpty(t, sub.ApprovalTx)
	assert.NotEmpty(t, sub.SubscriptionTx)
	assert.Equal(t, time.Date(2024, time.May, 19, 23, 59, 59, 0, time.UTC), sub.VIPUntil)

	balance, _ := net.Token().BalanceOf(ctx, mmemory.DemoSeller)
	assert.True(t, balance.Equal(decimal.NewFromInt(100)))
	ownerBalance, _ := net.Token().BalanceOf(ctx, mmemory.DemoOwner)
	assert.True(t, ownerBalance.Equal(mdomain.VIPCost))

	dashboard, err := svc.Dashboard(ctx, mmemory.DemoSeller)
	require.NoError(t, err)
	assert.True(t, dashboard.VIPActive)
	assert.Equal(t, []string{events.SubjectVIPPurchased}, recorder.Subjects())
}

func TestBecomeVIP_SkipsApprovalWhenCovered(t *testing.T) {
	ctx := context.Background()
	svc, net, _ := newFixture(t)
	net.Credit(mmemory.DemoSeller, decimal.NewFromInt(500))
	_, err := net.Token().Approve(ctx, mmemory.DemoSeller, mmemory.MarketplaceAddress, decimal.NewFromInt(1000))
	require.NoError(t, err)

	sub, err := svc.BecomeVIP(ctx, mmemory.DemoSeller)
	require.NoError(t, err)
	assert.Empty(t, sub.ApprovalTx)
}

func TestBecomeVIP_InsufficientBalance(t *testing.T) {
	svc, net, recorder := newFixture(t)
	net.Credit(mmemory.DemoSeller, decimal.NewFromInt(499))

	_, err := svc.BecomeVIP(context.Background(), mmemory.DemoSeller)
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "need 500.00 CBT, have 499.00 CBT")
	assert.Empty(t, recorder.Subjects())
}

// revertingLedger makes payVipSubscription revert after the approval.
type revertingLedger struct{ mports.Ledger }

func (revertingLedger) PayVIPSubscription(context.Context, mdomain.Address, string) (*mdomain.TxReceipt, error) {
	return nil, mports.ErrReverted
}

func TestBecomeVIP_RevertIsReported(t *testing.T) {
	_, net, _ := newFixture(t)
	net.Credit(mmemory.DemoSeller, decimal.NewFromInt(500))
	svc := NewService(revertingLedger{net.Marketplace()}, net.Token(), WithClock(func() time.Time { return wednesday }))

	_, err := svc.BecomeVIP(context.Background(), mmemory.DemoSeller)
	require.ErrorIs(t, err, mports.ErrReverted)
	assert.Contains(t, err.Error(), "paying VIP subscription")
}

func TestNextVIPExpiry(t *testing.T) {
	svc, _, _ := newFixture(t)
	assert.Equal(t, time.Date(2024, time.May, 19, 23, 59, 59, 0, time.UTC), svc.NextVIPExpiry(wednesday))
	sunday := time.Date(2024, time.May, 19, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, sunday, svc.NextVIPExpiry(sunday))
}
