// Package money converts CBT amounts between human decimals, token base
// units and card minor units.
package money

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimals is the CBT token precision.
const Decimals int32 = 6

// CentsPerCBT is the card minor-unit ratio; 1 CBT is pegged to 1 USD.
const CentsPerCBT = 100

var (
	ErrEmptyAmount     = errors.New("amount is empty")
	ErrMalformedAmount = errors.New("amount is not a number")
	ErrTooPrecise      = errors.New("amount has more than 6 decimals")
	ErrNegativeAmount  = errors.New("amount is negative")
)

// TaxRate is the IVA rate applied to lines flagged with IVA 15.
var TaxRate = decimal.NewFromInt(15).Div(decimal.NewFromInt(100))

// Parse reads a user supplied CBT amount such as "12.5".
func Parse(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, ErrEmptyAmount
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedAmount, raw)
	}
	return amount, nil
}

// ToUnits converts a CBT amount to token base units. Amounts with more
// precision than the token supports are rejected.
func ToUnits(amount decimal.Decimal) (*big.Int, error) {
	if amount.IsNegative() {
		return nil, ErrNegativeAmount
	}
	if !amount.Equal(amount.Truncate(Decimals)) {
		return nil, ErrTooPrecise
	}
	return amount.Shift(Decimals).BigInt(), nil
}

// RoundUnits converts to base units after rounding to the token precision.
func RoundUnits(amount decimal.Decimal) *big.Int {
	return amount.Round(Decimals).Shift(Decimals).BigInt()
}

// FromUnits converts token base units to a CBT amount.
func FromUnits(units *big.Int) decimal.Decimal {
	if units == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(units, -Decimals)
}

// ToCents converts a CBT amount to card minor units, rounding half away from zero.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(CentsPerCBT)).Round(0).IntPart()
}

// FromCents converts card minor units back to CBT.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Tax returns the IVA owed on amount.
func Tax(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(TaxRate)
}

// Format renders an amount with the two decimals the storefront displays.
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
