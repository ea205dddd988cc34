package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getSystemConfig = `-- name: GetSystemConfig :one
SELECT id, bonus_enabled, bonus_amount, bonus_detail, updated_at FROM system_config WHERE id = 1
`

func (q *Queries) GetSystemConfig(ctx context.Context) (SystemConfig, error) {
	row := q.db.QueryRow(ctx, getSystemConfig)
	var i SystemConfig
	err := row.Scan(
		&i.ID,
		&i.BonusEnabled,
		&i.BonusAmount,
		&i.BonusDetail,
		&i.UpdatedAt,
	)
	return i, err
}

const seedSystemConfig = `-- name: SeedSystemConfig :exec
INSERT INTO system_config (id, bonus_enabled, bonus_amount, bonus_detail, updated_at)
VALUES (1, $1, $2, $3, $4)
ON CONFLICT (id) DO NOTHING
`

type SeedSystemConfigParams struct {
	BonusEnabled bool               `json:"bonus_enabled"`
	BonusAmount  pgtype.Numeric     `json:"bonus_amount"`
	BonusDetail  string             `json:"bonus_detail"`
	UpdatedAt    pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) SeedSystemConfig(ctx context.Context, arg SeedSystemConfigParams) error {
	_, err := q.db.Exec(ctx, seedSystemConfig,
		arg.BonusEnabled,
		arg.BonusAmount,
		arg.BonusDetail,
		arg.UpdatedAt,
	)
	return err
}

const upsertSystemConfig = `-- name: UpsertSystemConfig :exec
INSERT INTO system_config (id, bonus_enabled, bonus_amount, bonus_detail, updated_at)
VALUES (1, $1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET
    bonus_enabled = EXCLUDED.bonus_enabled,
    bonus_amount = EXCLUDED.bonus_amount,
    bonus_detail = EXCLUDED.bonus_detail,
    updated_at = EXCLUDED.updated_at
`

type UpsertSystemConfigParams struct {
	BonusEnabled bool               `json:"bonus_enabled"`
	BonusAmount  pgtype.Numeric     `json:"bonus_amount"`
	BonusDetail  string             `json:"bonus_detail"`
	UpdatedAt    pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpsertSystemConfig(ctx context.Context, arg UpsertSystemConfigParams) error {
	_, err := q.db.Exec(ctx, upsertSystemConfig,
		arg.BonusEnabled,
		arg.BonusAmount,
		arg.BonusDetail,
		arg.UpdatedAt,
	)
	return err
}
