package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mmemory "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/adapters/memory"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	mports "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/ports"
	"github.com/codecrypto/cbt-marketplace/internal/domains/orders/domain"
)

const secondRUC = "0990011223001"

var secondSeller = mdomain.MustParseAddress("0x90f79bf6eb2c4f870365e785982e1f101e93b906")

// clock advances one minute per mined block.
type clock struct{ now time.Time }

func (c *clock) Now() time.Time {
	c.now = c.now.Add(time.Minute)
	return c.now
}

type fixture struct {
	net    *mmemory.Network
	ledger mports.Ledger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	c := &clock{now: time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)}
	net := mmemory.NewNetwork(mmemory.DemoOwner, mmemory.WithClock(c.Now))
	require.NoError(t, mmemory.SeedDemo(ctx, net))

	market := net.Marketplace()
	_, err := market.RegisterCompany(ctx, mmemory.DemoOwner, mdomain.CompanyRegistration{RUC: secondRUC, Name: "Costa Libros", Wallet: secondSeller})
	require.NoError(t, err)
	_, err = market.AddProduct(ctx, secondSeller, mdomain.ProductDraft{CompanyRUC: secondRUC, Name: "Map", Price: decimal.NewFromInt(20), Stock: 10})
	require.NoError(t, err)
	return &fixture{net: net, ledger: market}
}

// buy places an on-chain order for the demo buyer.
func (f *fixture) buy(t *testing.T, total int64, lines ...[2]uint64) {
	t.Helper()
	ctx := context.Background()
	market := f.net.Marketplace()
	for _, line := range lines {
		_, err := market.AddToCart(ctx, mmemory.DemoBuyer, line[0], line[1])
		require.NoError(t, err)
	}
	_, err := f.net.Token().Approve(ctx, mmemory.DemoBuyer, market.Address(), decimal.NewFromInt(total))
	require.NoError(t, err)
	_, err = market.Checkout(ctx, mmemory.DemoBuyer)
	require.NoError(t, err)
}

func TestHistory_NewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.buy(t, 115, [2]uint64{1, 1})
	f.buy(t, 33, [2]uint64{2, 1}, [2]uint64{3, 1})

	svc := NewService(f.ledger, nil)
	orders, err := svc.History(ctx, mmemory.DemoBuyer)
	require.NoError(t, err)
	require.Len(t, orders, 3)

	latest := orders[0]
	assert.True(t, latest.Timestamp.After(orders[2].Timestamp))
	assert.Equal(t, orders[0].TxHash, orders[1].TxHash)
	assert.Equal(t, mmemory.DemoSellerRUC, orders[2].CompanyRUC)
	assert.Equal(t, mmemory.DemoSellerName, orders[2].CompanyName)
	assert.Equal(t, "001-001-000000001", orders[2].InvoiceID)
	assert.True(t, orders[2].Subtotal15.Equal(decimal.NewFromInt(100)))
	assert.True(t, orders[2].IVA.Equal(decimal.NewFromInt(15)))
	assert.True(t, orders[2].Total.Equal(decimal.NewFromInt(115)))
	require.Len(t, orders[2].Lines, 1)
	assert.Equal(t, "Laptop", orders[2].Lines[0].Name)

	rucs := []string{orders[0].CompanyRUC, orders[1].CompanyRUC}
	assert.ElementsMatch(t, []string{mmemory.DemoSellerRUC, secondRUC}, rucs)
}

func TestHistory_EmptyAndInvalid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewService(f.ledger, nil)

	orders, err := svc.History(ctx, mmemory.DemoBuyer)
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, err = svc.History(ctx, mdomain.ZeroAddress)
	require.ErrorIs(t, err, ErrInvalidInput)
}

// partialLedger hides one company registration and fails profile lookups
// for a chosen wallet.
type partialLedger struct {
	mports.Ledger
	hiddenRUC   string
	brokenBuyer mdomain.Address
}

func (l partialLedger) CompanyRegisteredEvents(ctx context.Context) ([]mdomain.CompanyRegistered, error) {
	events, err := l.Ledger.CompanyRegisteredEvents(ctx)
	if err != nil {
		return nil, err
	}
	kept := events[:0]
	for _, ev := range events {
		if ev.RUC != l.hiddenRUC {
			kept = append(kept, ev)
		}
	}
	return kept, nil
}

func (l partialLedger) Client(ctx context.Context, wallet mdomain.Address) (*mdomain.ClientProfile, error) {
	if wallet.Equal(l.brokenBuyer) {
		return nil, errors.New("rpc unavailable")
	}
	return l.Ledger.Client(ctx, wallet)
}

func TestHistory_SkipsUnresolvedSellers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.buy(t, 33, [2]uint64{2, 1}, [2]uint64{3, 1})

	svc := NewService(partialLedger{Ledger: f.ledger, hiddenRUC: secondRUC}, nil)
	orders, err := svc.History(ctx, mmemory.DemoBuyer)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, mmemory.DemoSellerRUC, orders[0].CompanyRUC)
}

func TestInvoices_AuditList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.buy(t, 115, [2]uint64{1, 1})
	f.buy(t, 33, [2]uint64{2, 1}, [2]uint64{3, 1})

	svc := NewService(f.ledger, nil)
	rows, err := svc.Invoices(ctx, domain.InvoiceFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, secondRUC, rows[0].CompanyRUC)
	assert.Equal(t, "Costa Libros", rows[0].CompanyName)
	assert.Equal(t, "Ana Torres", rows[0].BuyerName)
	assert.Equal(t, "001-001-000000001", rows[2].InvoiceID)

	rows, err = svc.Invoices(ctx, domain.InvoiceFilter{CompanyRUC: mmemory.DemoSellerRUC})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "001-001-000000002", rows[0].InvoiceID)

	rows, err = svc.Invoices(ctx, domain.InvoiceFilter{CompanyRUC: mmemory.DemoSellerRUC, InvoiceID: "0001"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Total.Equal(decimal.NewFromInt(115)))
}

func TestInvoices_Fallbacks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.buy(t, 33, [2]uint64{2, 1}, [2]uint64{3, 1})

	svc := NewService(partialLedger{Ledger: f.ledger, hiddenRUC: secondRUC, brokenBuyer: mmemory.DemoBuyer}, nil)
	rows, err := svc.Invoices(ctx, domain.InvoiceFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	var unknown int
	for _, row := range rows {
		assert.Equal(t, domain.BuyerLoadError, row.BuyerName)
		if row.CompanyRUC == domain.UnknownRUC {
			unknown++
			assert.Equal(t, domain.UnknownRUC, row.CompanyName)
		}
	}
	assert.Equal(t, 1, unknown)
}

func TestInvoices_BuyerWithoutProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.buy(t, 115, [2]uint64{1, 1})

	// An unregistered wallet reads back as an empty profile.
	svc := NewService(emptyProfiles{f.ledger}, nil)
	rows, err := svc.Invoices(ctx, domain.InvoiceFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.ClientWithoutProfile, rows[0].BuyerName)
}

type emptyProfiles struct{ mports.Ledger }

func (emptyProfiles) Client(context.Context, mdomain.Address) (*mdomain.ClientProfile, error) {
	return &mdomain.ClientProfile{}, nil
}

func TestInvoiceDetail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.buy(t, 240, [2]uint64{1, 2}, [2]uint64{2, 1})
	svc := NewService(f.ledger, nil)

	invoice, err := svc.InvoiceDetail(ctx, mmemory.DemoSellerRUC, "001-001-000000001")
	require.NoError(t, err)
	assert.Equal(t, mmemory.DemoBuyer, invoice.Buyer)
	assert.True(t, invoice.Total.Equal(decimal.NewFromInt(240)))
	assert.Len(t, invoice.Lines, 2)

	_, err = svc.InvoiceDetail(ctx, mmemory.DemoSellerRUC, "001-001-000000099")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, mdomain.ErrInvoiceNotFound)

	_, err = svc.InvoiceDetail(ctx, "", "001")
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.InvoiceDetail(ctx, mmemory.DemoSellerRUC, " ")
	require.ErrorIs(t, err, ErrInvalidInput)
}

// zeroInvoices mimics a node answering getInvoice with an empty tuple.
type zeroInvoices struct{ mports.Ledger }

func (zeroInvoices) Invoice(_ context.Context, key string) (*mdomain.Invoice, error) {
	return &mdomain.Invoice{}, nil
}

func TestInvoiceDetail_ZeroTimestamp(t *testing.T) {
	f := newFixture(t)
	svc := NewService(zeroInvoices{f.ledger}, nil)
	_, err := svc.InvoiceDetail(context.Background(), mmemory.DemoSellerRUC, "001-001-000000001")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "invoice not found in contract")
}
