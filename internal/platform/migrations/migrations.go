package migrations

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for every locally owned table. Everything else
// lives on the ledger.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&cartRecord{},
		&sessionRecord{},
		&mintReceiptRecord{},
		&checkoutRunRecord{},
	)
}

// Cart schema mirrors the cart Postgres adapter.
type cartRecord struct {
	Owner      string          `gorm:"primaryKey;column:owner;size:42"`
	StorageKey string          `gorm:"column:storage_key;size:64;uniqueIndex"`
	Items      json.RawMessage `gorm:"column:items;type:jsonb"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;index"`
}

func (cartRecord) TableName() string { return "carts" }

// Session schema mirrors the wallet session store.
type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;type:text"`
	ID        string     `gorm:"column:session_id;size:36"`
	Wallet    string     `gorm:"column:wallet;size:42;index"`
	IssuedAt  time.Time  `gorm:"column:issued_at"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (sessionRecord) TableName() string { return "wallet_sessions" }

// Mint receipt schema mirrors the onramp Postgres adapter.
type mintReceiptRecord struct {
	PaymentIntentID string          `gorm:"primaryKey;column:payment_intent_id;size:255"`
	Wallet          string          `gorm:"column:wallet;size:42;index"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric(38,6)"`
	TxHash          string          `gorm:"column:tx_hash;size:66"`
	BlockNumber     uint64          `gorm:"column:block_number"`
	MintedAt        time.Time       `gorm:"column:minted_at"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (mintReceiptRecord) TableName() string { return "mint_receipts" }

// Checkout run schema mirrors the checkout Postgres adapter.
type checkoutRunRecord struct {
	ID         string          `gorm:"primaryKey;column:id;size:36"`
	Wallet     string          `gorm:"column:wallet;size:42;index:idx_checkout_runs_wallet_started"`
	SellerRUCs pq.StringArray  `gorm:"column:seller_rucs;type:text[]"`
	Total      decimal.Decimal `gorm:"column:total;type:numeric(38,6)"`
	Status     string          `gorm:"column:status;type:varchar(16);index"`
	ApprovalTx string          `gorm:"column:approval_tx;size:66"`
	ItemTxs    pq.StringArray  `gorm:"column:item_txs;type:text[]"`
	CheckoutTx string          `gorm:"column:checkout_tx;size:66"`
	Error      string          `gorm:"column:error;type:text"`
	StartedAt  time.Time       `gorm:"column:started_at;index:idx_checkout_runs_wallet_started"`
	FinishedAt *time.Time      `gorm:"column:finished_at"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
}

func (checkoutRunRecord) TableName() string { return "checkout_runs" }
