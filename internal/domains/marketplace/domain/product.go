package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// PhotoSlots is the fixed number of photo URLs the contract stores per product.
const PhotoSlots = 4

// IVA rates understood by the contract, in percent.
const (
	IVAExempt   uint8 = 0
	IVAStandard uint8 = 15
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidProductName = errors.New("product name is required")
	ErrInvalidPrice       = errors.New("product price must be greater than zero")
	ErrInvalidIVA         = errors.New("iva must be 0 or 15")
	ErrInvalidProductID   = errors.New("product id must be greater than zero")
	ErrInvalidStockAmount = errors.New("stock amount must be greater than zero")
	ErrProductUnavailable = errors.New("product is not available")
)

// Product mirrors the contract's product record. Prices are in CBT.
type Product struct {
	ID          uint64
	CompanyRUC  string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       uint64
	IVA         uint8
	Active      bool
	Photos      [PhotoSlots]string
}

// Listed reports whether the storefront shows the product.
func (p Product) Listed() bool {
	return strings.TrimSpace(p.Name) != "" && p.Active
}

// CoverPhoto returns the first non-empty photo URL.
func (p Product) CoverPhoto() string {
	for _, photo := range p.Photos {
		if photo != "" {
			return photo
		}
	}
	return ""
}

// ProductDraft is the form for addProduct.
type ProductDraft struct {
	CompanyRUC  string
	Name        string
	Description string
	Photos      []string
	Price       decimal.Decimal
	Stock       uint64
	IVA         *uint8
}

// EffectiveIVA applies the back-office default of 15 percent.
func (d ProductDraft) EffectiveIVA() uint8 {
	if d.IVA == nil {
		return IVAStandard
	}
	return *d.IVA
}

func (d ProductDraft) Validate() error {
	if strings.TrimSpace(d.CompanyRUC) == "" {
		return ErrInvalidRUC
	}
	if strings.TrimSpace(d.Name) == "" {
		return ErrInvalidProductName
	}
	if !d.Price.IsPositive() {
		return ErrInvalidPrice
	}
	if !ValidIVA(d.EffectiveIVA()) {
		return ErrInvalidIVA
	}
	return nil
}

// ProductUpdate is the seller form for updateProduct.
type ProductUpdate struct {
	ID     uint64
	Name   string
	Photos []string
	Price  decimal.Decimal
	IVA    uint8
	Active bool
}

func (u ProductUpdate) Validate() error {
	if u.ID == 0 {
		return ErrInvalidProductID
	}
	if strings.TrimSpace(u.Name) == "" {
		return ErrInvalidProductName
	}
	if !u.Price.IsPositive() {
		return ErrInvalidPrice
	}
	if !ValidIVA(u.IVA) {
		return ErrInvalidIVA
	}
	return nil
}

// ValidIVA reports whether rate is one the contract taxes.
func ValidIVA(rate uint8) bool {
	return rate == IVAExempt || rate == IVAStandard
}

// PhotoArray pads or truncates urls to the contract's fixed slots.
func PhotoArray(urls []string) [PhotoSlots]string {
	var out [PhotoSlots]string
	i := 0
	for _, url := range urls {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}
		if i == PhotoSlots {
			break
		}
		out[i] = url
		i++
	}
	return out
}
