package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/onramp/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/onramp/ports"
)

var _ ports.ReceiptStore = (*ReceiptStore)(nil)

// ReceiptStore keeps mint receipts in PostgreSQL. The payment intent id is
// the primary key, so a second receipt for an intent is never written.
type ReceiptStore struct {
	db *gorm.DB
}

func NewReceiptStore(db *gorm.DB) *ReceiptStore {
	return &ReceiptStore{db: db}
}

type receiptRecord struct {
	PaymentIntentID string          `gorm:"primaryKey;column:payment_intent_id;size:255"`
	Wallet          string          `gorm:"column:wallet;size:42;index"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric(38,6)"`
	TxHash          string          `gorm:"column:tx_hash;size:66"`
	BlockNumber     uint64          `gorm:"column:block_number"`
	MintedAt        time.Time       `gorm:"column:minted_at"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (receiptRecord) TableName() string { return "mint_receipts" }

func (s *ReceiptStore) Get(ctx context.Context, paymentIntentID string) (*domain.MintReceipt, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record receiptRecord
	if err := s.db.WithContext(ctx).First(&record, "payment_intent_id = ?", paymentIntentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrReceiptNotFound
		}
		return nil, err
	}
	return &domain.MintReceipt{
		PaymentIntentID: record.PaymentIntentID,
		Wallet:          mdomain.Address(record.Wallet),
		Amount:          record.Amount,
		TxHash:          record.TxHash,
		BlockNumber:     record.BlockNumber,
		MintedAt:        record.MintedAt.UTC(),
	}, nil
}

func (s *ReceiptStore) Create(ctx context.Context, receipt domain.MintReceipt) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	record := receiptRecord{
		PaymentIntentID: receipt.PaymentIntentID,
		Wallet:          receipt.Wallet.String(),
		Amount:          receipt.Amount,
		TxHash:          receipt.TxHash,
		BlockNumber:     receipt.BlockNumber,
		MintedAt:        receipt.MintedAt,
	}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrReceiptExists
	}
	return nil
}

func (s *ReceiptStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres mint receipt store not configured")
	}
	return nil
}
