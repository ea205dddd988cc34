package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/postgres/generated"
)

// BillingRecordRepository implements usecase.BillingRecordRepository.
// total_cost is a generated column and is never written.
type BillingRecordRepository struct {
	queries *generated.Queries
}

// NewBillingRecordRepository creates a new BillingRecordRepository.
func NewBillingRecordRepository(db generated.DBTX) *BillingRecordRepository {
	return &BillingRecordRepository{queries: generated.New(db)}
}

// Create inserts a record; an existing id is left untouched.
func (r *BillingRecordRepository) Create(ctx context.Context, record *domain.BillingRecord) error {
	id, err := stringToPgUUID(record.ID)
	if err != nil {
		return err
	}
	ownerID, err := stringToPgUUID(record.OwnerID)
	if err != nil {
		return err
	}

	var deploymentID pgtype.Text
	if record.DeploymentID != nil {
		deploymentID = pgtype.Text{String: *record.DeploymentID, Valid: true}
	}

	return r.queries.CreateBillingRecord(ctx, generated.CreateBillingRecordParams{
		ID:            id,
		OwnerID:       ownerID,
		DeploymentID:  deploymentID,
		CpuMillicores: record.CPUMillicores,
		MemoryMb:      record.MemoryMB,
		CostPerHour:   decimalToNumeric(record.CostPerHour),
		HoursUsed:     decimalToNumeric(record.HoursUsed),
		ChargedAt:     timeToPgTimestamptz(record.ChargedAt),
	})
}

// GetByID retrieves a record by ID.
func (r *BillingRecordRepository) GetByID(ctx context.Context, id string) (*domain.BillingRecord, error) {
	recordID, err := stringToPgUUID(id)
	if err != nil {
		return nil, err
	}

	row, err := r.queries.GetBillingRecordByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBillingRecordMissing
		}
		return nil, err
	}

	record := &domain.BillingRecord{
		ID:            pgUUIDToString(row.ID),
		OwnerID:       pgUUIDToString(row.OwnerID),
		CPUMillicores: row.CpuMillicores,
		MemoryMB:      row.MemoryMb,
		CostPerHour:   numericToDecimal(row.CostPerHour),
		HoursUsed:     numericToDecimal(row.HoursUsed),
		ChargedAt:     row.ChargedAt.Time,
	}
	if row.DeploymentID.Valid {
		deploymentID := row.DeploymentID.String
		record.DeploymentID = &deploymentID
	}

	return record, nil
}
