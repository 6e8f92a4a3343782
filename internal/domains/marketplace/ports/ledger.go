package ports

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

// ErrReverted wraps a contract revert. Adapters append the revert reason:
// fmt.Errorf("%w: %s", ErrReverted, reason).
var ErrReverted = errors.New("execution reverted")

// ErrTransactionNotFound is returned when no receipt exists for a hash.
var ErrTransactionNotFound = errors.New("transaction not found")

// Ledger is the marketplace contract as the applications use it. Every write
// is sent from the given wallet and returns once the transaction is mined.
type Ledger interface {
	Address() domain.Address

	Owner(ctx context.Context) (domain.Address, error)
	Company(ctx context.Context, ruc string) (*domain.Company, error)
	SellerRUC(ctx context.Context, wallet domain.Address) (string, error)
	RegisterCompany(ctx context.Context, from domain.Address, reg domain.CompanyRegistration) (*domain.TxReceipt, error)

	NextProductID(ctx context.Context) (uint64, error)
	Product(ctx context.Context, id uint64) (*domain.Product, error)
	ProductPhotos(ctx context.Context, id uint64) ([domain.PhotoSlots]string, error)
	AddProduct(ctx context.Context, from domain.Address, draft domain.ProductDraft) (*domain.TxReceipt, error)
	UpdateProduct(ctx context.Context, from domain.Address, update domain.ProductUpdate) (*domain.TxReceipt, error)
	BuyStock(ctx context.Context, from domain.Address, productID, amount uint64) (*domain.TxReceipt, error)

	Client(ctx context.Context, wallet domain.Address) (*domain.ClientProfile, error)
	RegisterClient(ctx context.Context, from domain.Address, profile domain.ClientProfile) (*domain.TxReceipt, error)

	AddToCart(ctx context.Context, from domain.Address, productID, quantity uint64) (*domain.TxReceipt, error)
	Checkout(ctx context.Context, from domain.Address) (*domain.TxReceipt, error)
	PayVIPSubscription(ctx context.Context, from domain.Address, ruc string) (*domain.TxReceipt, error)

	Invoice(ctx context.Context, key string) (*domain.Invoice, error)

	CompanyRegisteredEvents(ctx context.Context) ([]domain.CompanyRegistered, error)
	ProductAddedEvents(ctx context.Context) ([]domain.ProductAdded, error)
	// PurchaseCompletedEvents returns every purchase, or only the buyer's
	// when buyer is non-nil. Events are scanned from block 0.
	PurchaseCompletedEvents(ctx context.Context, buyer *domain.Address) ([]domain.PurchaseCompleted, error)
	BlockTime(ctx context.Context, blockNumber uint64) (time.Time, error)
}

// Token is the CBT ERC-20 contract. Amounts are whole CBT with up to six
// decimals.
type Token interface {
	Address() domain.Address

	BalanceOf(ctx context.Context, wallet domain.Address) (decimal.Decimal, error)
	Allowance(ctx context.Context, owner, spender domain.Address) (decimal.Decimal, error)
	Approve(ctx context.Context, from, spender domain.Address, amount decimal.Decimal) (*domain.TxReceipt, error)
	Transfer(ctx context.Context, from, to domain.Address, amount decimal.Decimal) (*domain.TxReceipt, error)
	TransferReceipt(ctx context.Context, txHash string) (*domain.TransferReceipt, error)
}

// Minter issues new CBT from the minting key.
type Minter interface {
	Mint(ctx context.Context, to domain.Address, amount decimal.Decimal) (*domain.TxReceipt, error)
}

// RevertReason strips the ErrReverted prefix for display.
func RevertReason(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	marker := ErrReverted.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}
