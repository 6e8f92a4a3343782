package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"

	"github.com/codecrypto/cbt-marketplace/internal/domains/cart/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/cart/ports"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

// DefaultTTL bounds how long an untouched cart survives in Redis.
const DefaultTTL = 30 * 24 * time.Hour

// Repository keeps carts under their storage key with a sliding expiry.
type Repository struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewRepository(client *goredis.Client, ttl time.Duration) *Repository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Repository{client: client, ttl: ttl}
}

type cartPayload struct {
	Owner     string        `json:"owner"`
	Items     []itemPayload `json:"items"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type itemPayload struct {
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

func (r *Repository) Load(ctx context.Context, owner mdomain.Address) (*domain.Cart, error) {
	raw, err := r.client.Get(ctx, domain.StorageKey(owner)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	var payload cartPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	cart := &domain.Cart{Owner: mdomain.Address(payload.Owner), CreatedAt: payload.CreatedAt, UpdatedAt: payload.UpdatedAt}
	for _, item := range payload.Items {
		cart.Items = append(cart.Items, domain.Item(item))
	}
	return cart, nil
}

func (r *Repository) Save(ctx context.Context, cart *domain.Cart) error {
	if cart == nil {
		return errors.New("cart is nil")
	}
	if cart.Owner.IsZero() {
		return domain.ErrNoOwner
	}
	payload := cartPayload{Owner: cart.Owner.String(), CreatedAt: cart.CreatedAt, UpdatedAt: cart.UpdatedAt}
	for _, item := range cart.Items {
		payload.Items = append(payload.Items, itemPayload(item))
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, domain.StorageKey(cart.Owner), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("store cart: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, owner mdomain.Address) error {
	n, err := r.client.Del(ctx, domain.StorageKey(owner)).Result()
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// PurgeStale is a no-op; Redis expires idle carts on its own.
func (r *Repository) PurgeStale(context.Context, time.Time) (int64, error) {
	return 0, nil
}

var _ ports.Repository = (*Repository)(nil)
