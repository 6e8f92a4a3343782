package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codecrypto/cbt-marketplace/internal/domains/cart/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/cart/ports"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists carts in PostgreSQL, one row per wallet with the lines as JSON.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type cartRecord struct {
	Owner      string          `gorm:"primaryKey;column:owner;size:42"`
	StorageKey string          `gorm:"column:storage_key;size:64;uniqueIndex"`
	Items      json.RawMessage `gorm:"column:items;type:jsonb"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;index"`
}

func (cartRecord) TableName() string { return "carts" }

type itemRecord struct {
	ProductID   uint64          `json:"productId"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    uint64          `json:"quantity"`
	IVA         uint8           `json:"iva"`
	CompanyRUC  string          `json:"companyRuc"`
	CompanyName string          `json:"companyName"`
	Photo       string          `json:"photo,omitempty"`
	Stock       uint64          `json:"stock"`
}

// Save upserts the wallet's cart.
func (r *Repository) Save(ctx context.Context, cart *domain.Cart) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if cart == nil {
		return errors.New("cart is nil")
	}
	if cart.Owner.IsZero() {
		return domain.ErrNoOwner
	}
	record, err := toRecord(cart)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "owner"}},
			DoUpdates: clause.Assignments(map[string]any{
				"items":      record.Items,
				"updated_at": record.UpdatedAt,
			}),
		}).Create(&record).Error
}

func (r *Repository) Load(ctx context.Context, owner mdomain.Address) (*domain.Cart, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record cartRecord
	if err := r.db.WithContext(ctx).First(&record, "storage_key = ?", domain.StorageKey(owner)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain()
}

func (r *Repository) Delete(ctx context.Context, owner mdomain.Address) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&cartRecord{}, "storage_key = ?", domain.StorageKey(owner))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) PurgeStale(ctx context.Context, before time.Time) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).Where("updated_at < ?", before).Delete(&cartRecord{})
	return result.RowsAffected, result.Error
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres cart repository not configured")
	}
	return nil
}

func toRecord(cart *domain.Cart) (cartRecord, error) {
	items := make([]itemRecord, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, itemRecord(item))
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return cartRecord{}, fmt.Errorf("encode cart items: %w", err)
	}
	return cartRecord{
		Owner:      cart.Owner.String(),
		StorageKey: domain.StorageKey(cart.Owner),
		Items:      raw,
		CreatedAt:  cart.CreatedAt,
		UpdatedAt:  cart.UpdatedAt,
	}, nil
}

func (r cartRecord) toDomain() (*domain.Cart, error) {
	var items []itemRecord
	if len(r.Items) > 0 {
		if err := json.Unmarshal(r.Items, &items); err != nil {
			return nil, fmt.Errorf("decode cart items: %w", err)
		}
	}
	cart := &domain.Cart{
		Owner:     mdomain.Address(r.Owner),
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
	for _, item := range items {
		cart.Items = append(cart.Items, domain.Item(item))
	}
	return cart, nil
}
