package memory

import (
	"context"

	"github.com/iho/gowallet/internal/domain"
)

// BillingRecordRepository implements usecase.BillingRecordRepository.
type BillingRecordRepository struct {
	store *Store
}

// NewBillingRecordRepository creates a new BillingRecordRepository.
func NewBillingRecordRepository(store *Store) *BillingRecordRepository {
	return &BillingRecordRepository{store: store}
}

// Create stores a record; an existing id is left untouched.
func (r *BillingRecordRepository) Create(_ context.Context, record *domain.BillingRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.records[record.ID]; ok {
		return nil
	}
	c := *record
	r.store.records[record.ID] = &c
	return nil
}

// GetByID retrieves a record by ID.
func (r *BillingRecordRepository) GetByID(_ context.Context, id string) (*domain.BillingRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec, ok := r.store.records[id]
	if !ok {
		return nil, domain.ErrBillingRecordMissing
	}
	c := *rec
	return &c, nil
}
