package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

var wallet = mdomain.MustParseAddress("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc")

func TestStorageKey(t *testing.T) {
	assert.Equal(t, "codecrypto-cart-0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc", StorageKey("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"))
}

func TestAddIncrementsExistingLine(t *testing.T) {
	now := time.Now()
	cart := NewCart(wallet, now)
	cart.Add(Item{ProductID: 1, Name: "Laptop", Price: decimal.NewFromInt(100), IVA: 15, CompanyRUC: "1"}, now)
	cart.Add(Item{ProductID: 1, Name: "Laptop", Price: decimal.NewFromInt(100), IVA: 15, CompanyRUC: "1"}, now)
	cart.Add(Item{ProductID: 2, Name: "Book", Price: decimal.NewFromInt(10), IVA: 7, CompanyRUC: "2"}, now)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, uint64(2), cart.Items[0].Quantity)
	assert.Equal(t, uint64(1), cart.Items[1].Quantity)
	assert.Equal(t, mdomain.IVAExempt, cart.Items[1].IVA)
	assert.Equal(t, DefaultCompanyName, cart.Items[1].CompanyName)
}

func TestSummary(t *testing.T) {
	now := time.Now()
	cart := NewCart(wallet, now)
	cart.Items = []Item{
		{ProductID: 1, Price: decimal.NewFromInt(100), Quantity: 2, IVA: 15},
		{ProductID: 2, Price: decimal.RequireFromString("10.50"), Quantity: 1, IVA: 0},
	}
	s := cart.Summary()
	assert.Equal(t, uint64(3), s.Count)
	assert.True(t, s.Subtotal.Equal(decimal.RequireFromString("210.5")), s.Subtotal.String())
	assert.True(t, s.IVA.Equal(decimal.NewFromInt(30)), s.IVA.String())
	assert.True(t, s.Total.Equal(decimal.RequireFromString("240.5")), s.Total.String())
}

func TestSetQuantityBelowOneRemoves(t *testing.T) {
	now := time.Now()
	cart := NewCart(wallet, now)
	cart.Add(Item{ProductID: 1, Price: decimal.NewFromInt(1)}, now)
	cart.Add(Item{ProductID: 2, Price: decimal.NewFromInt(1)}, now)

	require.NoError(t, cart.SetQuantity(1, 5, now))
	assert.Equal(t, uint64(5), cart.Items[0].Quantity)

	require.NoError(t, cart.SetQuantity(1, 0, now))
	require.Len(t, cart.Items, 1)
	require.NoError(t, cart.SetQuantity(2, -3, now))
	assert.True(t, cart.Empty())

	require.ErrorIs(t, cart.SetQuantity(9, 1, now), ErrItemNotFound)
	require.ErrorIs(t, cart.Remove(9, now), ErrItemNotFound)
}

func TestGroupsKeepFirstSeenOrder(t *testing.T) {
	now := time.Now()
	cart := NewCart(wallet, now)
	cart.Add(Item{ProductID: 1, CompanyRUC: "B", CompanyName: "Beta"}, now)
	cart.Add(Item{ProductID: 2, CompanyRUC: "A", CompanyName: "Alpha"}, now)
	cart.Add(Item{ProductID: 3, CompanyRUC: "B", CompanyName: "Beta"}, now)

	groups := cart.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "B", groups[0].CompanyRUC)
	assert.Len(t, groups[0].Items, 2)
	assert.Equal(t, "A", groups[1].CompanyRUC)
}

func TestCloneIsDeep(t *testing.T) {
	now := time.Now()
	cart := NewCart(wallet, now)
	cart.Add(Item{ProductID: 1}, now)
	clone := cart.Clone()
	clone.Items[0].Quantity = 9
	assert.Equal(t, uint64(1), cart.Items[0].Quantity)
}
