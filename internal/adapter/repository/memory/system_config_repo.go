package memory

import (
	"context"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// SystemConfigRepository implements usecase.SystemConfigRepository.
type SystemConfigRepository struct {
	store *Store
}

// NewSystemConfigRepository creates a new SystemConfigRepository.
func NewSystemConfigRepository(store *Store) *SystemConfigRepository {
	return &SystemConfigRepository{store: store}
}

// Get returns the configuration snapshot.
func (r *SystemConfigRepository) Get(_ context.Context) (*domain.SystemConfig, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if r.store.config == nil {
		return nil, domain.ErrConfigNotFound
	}
	c := *r.store.config
	return &c, nil
}

// Upsert stages a configuration replacement.
func (r *SystemConfigRepository) Upsert(_ context.Context, tx usecase.Transaction, cfg *domain.SystemConfig) error {
	mtx, err := asTx(tx)
	if err != nil {
		return err
	}

	c := *cfg
	return mtx.stage(write{
		apply: func(s *Store) { s.config = &c },
	})
}

// Seed stores cfg only when no configuration exists.
func (r *SystemConfigRepository) Seed(_ context.Context, cfg *domain.SystemConfig) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.config == nil {
		c := *cfg
		r.store.config = &c
	}
	return nil
}
