package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codecrypto/cbt-marketplace/internal/domains/checkout/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/checkout/ports"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

var _ ports.RunRepository = (*RunRepository)(nil)

// RunRepository persists checkout runs in PostgreSQL using GORM.
type RunRepository struct {
	db *gorm.DB
}

// NewRunRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

type runRecord struct {
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

func (runRecord) TableName() string { return "checkout_runs" }

// Save inserts or updates a run.
func (r *RunRepository) Save(ctx context.Context, run domain.Run) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if run.ID == "" {
		return errors.New("run id is required")
	}
	record := toRecord(run)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "approval_tx", "item_txs", "checkout_tx", "error", "finished_at", "updated_at",
			}),
		}).Create(&record).Error
}

func (r *RunRepository) Get(ctx context.Context, id string) (*domain.Run, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record runRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRunNotFound
		}
		return nil, err
	}
	run := record.toDomain()
	return &run, nil
}

func (r *RunRepository) ListByWallet(ctx context.Context, wallet mdomain.Address, limit int) ([]domain.Run, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Where("wallet = ?", wallet.String()).Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var records []runRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	runs := make([]domain.Run, 0, len(records))
	for i := range records {
		runs = append(runs, records[i].toDomain())
	}
	return runs, nil
}

func (r *RunRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres checkout run repository not configured")
	}
	return nil
}

func toRecord(run domain.Run) runRecord {
	return runRecord{
		ID:         run.ID,
		Wallet:     run.Wallet.String(),
		SellerRUCs: pq.StringArray(run.SellerRUCs),
		Total:      run.Total,
		Status:     string(run.Status),
		ApprovalTx: run.ApprovalTx,
		ItemTxs:    pq.StringArray(run.ItemTxs),
		CheckoutTx: run.CheckoutTx,
		Error:      run.Error,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
}

func (r runRecord) toDomain() domain.Run {
	run := domain.Run{
		ID:         r.ID,
		Wallet:     mdomain.Address(r.Wallet),
		SellerRUCs: []string(r.SellerRUCs),
		Total:      r.Total,
		Status:     domain.Status(r.Status),
		ApprovalTx: r.ApprovalTx,
		ItemTxs:    []string(r.ItemTxs),
		CheckoutTx: r.CheckoutTx,
		Error:      r.Error,
		StartedAt:  r.StartedAt.UTC(),
	}
	if r.FinishedAt != nil {
		finished := r.FinishedAt.UTC()
		run.FinishedAt = &finished
	}
	return run
}
