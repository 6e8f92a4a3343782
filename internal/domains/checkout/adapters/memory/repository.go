package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/codecrypto/cbt-marketplace/internal/domains/checkout/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/checkout/ports"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

var _ ports.RunRepository = (*RunRepository)(nil)

// RunRepository keeps checkout runs in memory.
type RunRepository struct {
	mu   sync.RWMutex
	runs map[string]domain.Run
}

func NewRunRepository() *RunRepository {
	return &RunRepository{runs: map[string]domain.Run{}}
}

func (r *RunRepository) Save(_ context.Context, run domain.Run) error {
	if run.ID == "" {
		return errors.New("run id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = clone(run)
	return nil
}

func (r *RunRepository) Get(_ context.Context, id string) (*domain.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	out := clone(run)
	return &out, nil
}

func (r *RunRepository) ListByWallet(_ context.Context, wallet mdomain.Address, limit int) ([]domain.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]domain.Run, 0)
	for _, run := range r.runs {
		if run.Wallet.Equal(wallet) {
			list = append(list, clone(run))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].StartedAt.After(list[j].StartedAt) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func clone(run domain.Run) domain.Run {
	run.SellerRUCs = append([]string(nil), run.SellerRUCs...)
	run.ItemTxs = append([]string(nil), run.ItemTxs...)
	if run.FinishedAt != nil {
		finished := *run.FinishedAt
		run.FinishedAt = &finished
	}
	return run
}
