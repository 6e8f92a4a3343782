package domain

import (
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

// Fallback seller name when the company record cannot be read.
const UnknownSellerName = "Verified seller"

// Listing is a product as the storefront shows it.
type Listing struct {
	mdomain.Product
	CompanyName string
}

// CompanySummary is a registered seller as announced by CompanyRegistered.
type CompanySummary struct {
	RUC    string
	Name   string
	Wallet mdomain.Address
}
