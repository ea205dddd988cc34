package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createBillingRecord = `-- name: CreateBillingRecord :exec
INSERT INTO billing_records (id, owner_id, deployment_id, cpu_millicores, memory_mb, cost_per_hour, hours_used, charged_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO NOTHING
`

type CreateBillingRecordParams struct {
	ID            pgtype.UUID        `json:"id"`
	OwnerID       pgtype.UUID        `json:"owner_id"`
	DeploymentID  pgtype.Text        `json:"deployment_id"`
	CpuMillicores int32              `json:"cpu_millicores"`
	MemoryMb      int32              `json:"memory_mb"`
	CostPerHour   pgtype.Numeric     `json:"cost_per_hour"`
	HoursUsed     pgtype.Numeric     `json:"hours_used"`
	ChargedAt     pgtype.Timestamptz `json:"charged_at"`
}

func (q *Queries) CreateBillingRecord(ctx context.Context, arg CreateBillingRecordParams) error {
	_, err := q.db.Exec(ctx, createBillingRecord,
		arg.ID,
		arg.OwnerID,
		arg.DeploymentID,
		arg.CpuMillicores,
		arg.MemoryMb,
		arg.CostPerHour,
		arg.HoursUsed,
		arg.ChargedAt,
	)
	return err
}

const getBillingRecordByID = `-- name: GetBillingRecordByID :one
SELECT id, owner_id, deployment_id, cpu_millicores, memory_mb, cost_per_hour, hours_used, total_cost, charged_at FROM billing_records WHERE id = $1
`

func (q *Queries) GetBillingRecordByID(ctx context.Context, id pgtype.UUID) (BillingRecord, error) {
	row := q.db.QueryRow(ctx, getBillingRecordByID, id)
	var i BillingRecord
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.DeploymentID,
		&i.CpuMillicores,
		&i.MemoryMb,
		&i.CostPerHour,
		&i.HoursUsed,
		&i.TotalCost,
		&i.ChargedAt,
	)
	return i, err
}
