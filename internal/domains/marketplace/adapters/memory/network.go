package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/ports"
	"github.com/codecrypto/cbt-marketplace/internal/shared/money"
)

// Default deployment addresses of a fresh local node.
const (
	MarketplaceAddress domain.Address = "0x5fbdb2315678afecb367f032d93f642f64180aa3"
	TokenAddress       domain.Address = "0xe7f1725e7734ce288f8367e1bb143e90bb3f0512"
)

type Option func(*Network)

// WithClock overrides the block timestamp source.
func WithClock(now func() time.Time) Option {
	return func(n *Network) {
		if now != nil {
			n.now = now
		}
	}
}

type allowanceKey struct {
	owner   domain.Address
	spender domain.Address
}

type cartLine struct {
	productID uint64
	quantity  uint64
}

// Network simulates the marketplace and CBT contracts in process. Every write
// mines its own block; reverted writes leave state untouched.
type Network struct {
	mu  sync.Mutex
	now func() time.Time

	owner domain.Address
	block uint64
	txSeq uint64
	times map[uint64]time.Time

	companies     map[string]domain.Company
	rucByWallet   map[domain.Address]string
	products      map[uint64]domain.Product
	nextProductID uint64
	clients       map[domain.Address]domain.ClientProfile
	carts         map[domain.Address][]cartLine
	invoices      map[string]domain.Invoice
	invoiceSeq    map[string]uint64

	balances   map[domain.Address]decimal.Decimal
	allowances map[allowanceKey]decimal.Decimal
	receipts   map[string]domain.TransferReceipt

	companyEvents  []domain.CompanyRegistered
	productEvents  []domain.ProductAdded
	purchaseEvents []domain.PurchaseCompleted
}

// NewNetwork deploys both contracts with owner as the marketplace owner and
// CBT minter.
func NewNetwork(owner domain.Address, opts ...Option) *Network {
	n := &Network{
		now:           time.Now,
		owner:         normalize(owner),
		times:         map[uint64]time.Time{},
		companies:     map[string]domain.Company{},
		rucByWallet:   map[domain.Address]string{},
		products:      map[uint64]domain.Product{},
		nextProductID: 1,
		clients:       map[domain.Address]domain.ClientProfile{},
		carts:         map[domain.Address][]cartLine{},
		invoices:      map[string]domain.Invoice{},
		invoiceSeq:    map[string]uint64{},
		balances:      map[domain.Address]decimal.Decimal{},
		allowances:    map[allowanceKey]decimal.Decimal{},
		receipts:      map[string]domain.TransferReceipt{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	n.times[0] = n.now().UTC()
	return n
}

// Marketplace returns the ecommerce contract view.
func (n *Network) Marketplace() *Marketplace {
	return &Marketplace{n: n}
}

// Token returns the CBT contract view.
func (n *Network) Token() *Token {
	return &Token{n: n}
}

// Credit seeds a balance without mining a block.
func (n *Network) Credit(wallet domain.Address, amount decimal.Decimal) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.balances[normalize(wallet)] = n.balances[normalize(wallet)].Add(amount)
}

// SetOwner transfers contract ownership.
func (n *Network) SetOwner(owner domain.Address) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.owner = normalize(owner)
}

// mine must be called with n.mu held.
func (n *Network) mine() *domain.TxReceipt {
	n.block++
	n.txSeq++
	n.times[n.block] = n.now().UTC()
	return &domain.TxReceipt{Hash: fmt.Sprintf("0x%064x", n.txSeq), BlockNumber: n.block}
}

// move must be called with n.mu held and a checked balance.
func (n *Network) move(from, to domain.Address, amount decimal.Decimal) domain.TokenTransfer {
	n.balances[from] = n.balances[from].Sub(amount)
	n.balances[to] = n.balances[to].Add(amount)
	return domain.TokenTransfer{From: from, To: to, Amount: amount}
}

// spend consumes allowance granted to the marketplace, must be called with n.mu held.
func (n *Network) spend(from domain.Address, amount decimal.Decimal) error {
	key := allowanceKey{owner: from, spender: MarketplaceAddress}
	if n.allowances[key].LessThan(amount) {
		return revert("ERC20: insufficient allowance")
	}
	if n.balances[from].LessThan(amount) {
		return revert("ERC20: transfer amount exceeds balance")
	}
	n.allowances[key] = n.allowances[key].Sub(amount)
	return nil
}

func revert(reason string) error {
	return fmt.Errorf("%w: %s", ports.ErrReverted, reason)
}

func normalize(addr domain.Address) domain.Address {
	parsed, err := domain.ParseAddress(string(addr))
	if err != nil {
		return addr
	}
	return parsed
}

// exact rejects amounts the token cannot represent.
func exact(amount decimal.Decimal) (decimal.Decimal, error) {
	units, err := money.ToUnits(amount)
	if err != nil {
		return decimal.Zero, err
	}
	return money.FromUnits(units), nil
}

// CartLines reports the on-chain cart of wallet as product id to quantity.
func (n *Network) CartLines(wallet domain.Address) map[uint64]uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	lines := map[uint64]uint64{}
	for _, line := range n.carts[normalize(wallet)] {
		lines[line.productID] = line.quantity
	}
	return lines
}
