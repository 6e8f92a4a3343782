package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	"github.com/codecrypto/cbt-marketplace/internal/shared/money"
)

// StorageKeyPrefix namespaces persisted carts; the suffix is the lower-case wallet.
const StorageKeyPrefix = "codecrypto-cart-"

// DefaultCompanyName labels lines whose seller name is unknown.
const DefaultCompanyName = "Seller"

var (
	ErrItemNotFound = errors.New("product is not in the cart")
	ErrEmptyCart    = errors.New("cart is empty")
	ErrNoOwner      = errors.New("cart owner is required")
)

// StorageKey returns the persisted key of a wallet's cart.
func StorageKey(owner mdomain.Address) string {
	return StorageKeyPrefix + strings.ToLower(owner.String())
}

// Item is one product line. Product fields are copied from the ledger when
// the line is first added.
type Item struct {
	ProductID   uint64
	Name        string
	Price       decimal.Decimal
	Quantity    uint64
	IVA         uint8
	CompanyRUC  string
	CompanyName string
	Photo       string
	Stock       uint64
}

// Subtotal is price times quantity, before tax.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Tax is 15% of the subtotal for IVA-15 lines and zero otherwise.
func (i Item) Tax() decimal.Decimal {
	if i.IVA != mdomain.IVAStandard {
		return decimal.Zero
	}
	return money.Tax(i.Subtotal())
}

// Cart is a wallet's local shopping cart.
type Cart struct {
	Owner     mdomain.Address
	Items     []Item
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCart(owner mdomain.Address, now time.Time) *Cart {
	return &Cart{Owner: owner, CreatedAt: now, UpdatedAt: now}
}

// Add puts one unit of item in the cart. An existing line grows by one;
// a new line starts at quantity one.
func (c *Cart) Add(item Item, now time.Time) {
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity++
			c.UpdatedAt = now
			return
		}
	}
	item.Quantity = 1
	if !mdomain.ValidIVA(item.IVA) {
		item.IVA = mdomain.IVAExempt
	}
	if strings.TrimSpace(item.CompanyName) == "" {
		item.CompanyName = DefaultCompanyName
	}
	c.Items = append(c.Items, item)
	c.UpdatedAt = now
}

// SetQuantity replaces a line's quantity; anything below one removes it.
func (c *Cart) SetQuantity(productID uint64, quantity int64, now time.Time) error {
	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}
		if quantity < 1 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		} else {
			c.Items[i].Quantity = uint64(quantity)
		}
		c.UpdatedAt = now
		return nil
	}
	return ErrItemNotFound
}

func (c *Cart) Remove(productID uint64, now time.Time) error {
	return c.SetQuantity(productID, 0, now)
}

func (c *Cart) Clear(now time.Time) {
	c.Items = nil
	c.UpdatedAt = now
}

func (c Cart) Empty() bool {
	return len(c.Items) == 0
}

// Clone returns a deep copy.
func (c Cart) Clone() *Cart {
	clone := c
	clone.Items = append([]Item(nil), c.Items...)
	return &clone
}

// Summary is the checkout breakdown shown with the cart.
type Summary struct {
	Count    uint64
	Subtotal decimal.Decimal
	IVA      decimal.Decimal
	Total    decimal.Decimal
}

func (c Cart) Summary() Summary {
	s := Summary{Subtotal: decimal.Zero, IVA: decimal.Zero}
	for _, item := range c.Items {
		s.Count += item.Quantity
		s.Subtotal = s.Subtotal.Add(item.Subtotal())
		s.IVA = s.IVA.Add(item.Tax())
	}
	s.Total = s.Subtotal.Add(s.IVA)
	return s
}

// SellerGroup is the slice of a cart one seller will invoice.
type SellerGroup struct {
	CompanyRUC  string
	CompanyName string
	Items       []Item
}

// Groups splits the cart by seller in first-seen order.
func (c Cart) Groups() []SellerGroup {
	var groups []SellerGroup
	index := map[string]int{}
	for _, item := range c.Items {
		i, ok := index[item.CompanyRUC]
		if !ok {
			i = len(groups)
			index[item.CompanyRUC] = i
			groups = append(groups, SellerGroup{CompanyRUC: item.CompanyRUC, CompanyName: item.CompanyName})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}
