package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/codecrypto/cbt-marketplace/internal/domains/cart/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/cart/ports"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory cart store keyed by storage key.
type Repository struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

func NewRepository() *Repository {
	return &Repository{carts: map[string]*domain.Cart{}}
}

func (r *Repository) Load(_ context.Context, owner mdomain.Address) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cart, ok := r.carts[domain.StorageKey(owner)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cart.Clone(), nil
}

func (r *Repository) Save(_ context.Context, cart *domain.Cart) error {
	if cart == nil {
		return errors.New("cart is nil")
	}
	if cart.Owner.IsZero() {
		return domain.ErrNoOwner
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[domain.StorageKey(cart.Owner)] = cart.Clone()
	return nil
}

func (r *Repository) Delete(_ context.Context, owner mdomain.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := domain.StorageKey(owner)
	if _, ok := r.carts[key]; !ok {
		return ports.ErrNotFound
	}
	delete(r.carts, key)
	return nil
}

func (r *Repository) PurgeStale(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var purged int64
	for key, cart := range r.carts {
		if cart.UpdatedAt.Before(before) {
			delete(r.carts, key)
			purged++
		}
	}
	return purged, nil
}
