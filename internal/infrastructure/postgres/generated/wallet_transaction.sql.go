package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const countWalletTransactionsByKind = `-- name: CountWalletTransactionsByKind :one
SELECT COUNT(*) FROM wallet_transactions WHERE wallet_id = $1 AND kind = $2
`

type CountWalletTransactionsByKindParams struct {
	WalletID string `json:"wallet_id"`
	Kind     string `json:"kind"`
}

func (q *Queries) CountWalletTransactionsByKind(ctx context.Context, arg CountWalletTransactionsByKindParams) (int64, error) {
	row := q.db.QueryRow(ctx, countWalletTransactionsByKind, arg.WalletID, arg.Kind)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createWalletTransaction = `-- name: CreateWalletTransaction :exec
INSERT INTO wallet_transactions (id, wallet_id, amount, kind, detail, billing_ref, balance_after, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type CreateWalletTransactionParams struct {
	ID           string             `json:"id"`
	WalletID     string             `json:"wallet_id"`
	Amount       pgtype.Numeric     `json:"amount"`
	Kind         string             `json:"kind"`
	Detail       string             `json:"detail"`
	BillingRef   pgtype.UUID        `json:"billing_ref"`
	BalanceAfter pgtype.Numeric     `json:"balance_after"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateWalletTransaction(ctx context.Context, arg CreateWalletTransactionParams) error {
	_, err := q.db.Exec(ctx, createWalletTransaction,
		arg.ID,
		arg.WalletID,
		arg.Amount,
		arg.Kind,
		arg.Detail,
		arg.BillingRef,
		arg.BalanceAfter,
		arg.CreatedAt,
	)
	return err
}

const getUsageChargeByBillingRef = `-- name: GetUsageChargeByBillingRef :one
SELECT id, wallet_id, amount, kind, detail, billing_ref, balance_after, created_at FROM wallet_transactions
WHERE billing_ref = $1 AND kind = 'usage_charge'
`

func (q *Queries) GetUsageChargeByBillingRef(ctx context.Context, billingRef pgtype.UUID) (WalletTransaction, error) {
	row := q.db.QueryRow(ctx, getUsageChargeByBillingRef, billingRef)
	var i WalletTransaction
	err := row.Scan(
		&i.ID,
		&i.WalletID,
		&i.Amount,
		&i.Kind,
		&i.Detail,
		&i.BillingRef,
		&i.BalanceAfter,
		&i.CreatedAt,
	)
	return i, err
}

const getWalletBalanceAtTime = `-- name: GetWalletBalanceAtTime :one
SELECT COALESCE(SUM(amount), 0)::NUMERIC AS balance FROM wallet_transactions
WHERE wallet_id = $1 AND created_at <= $2
`

type GetWalletBalanceAtTimeParams struct {
	WalletID  string             `json:"wallet_id"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) GetWalletBalanceAtTime(ctx context.Context, arg GetWalletBalanceAtTimeParams) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, getWalletBalanceAtTime, arg.WalletID, arg.CreatedAt)
	var balance pgtype.Numeric
	err := row.Scan(&balance)
	return balance, err
}

const getWalletTransactionByID = `-- name: GetWalletTransactionByID :one
SELECT id, wallet_id, amount, kind, detail, billing_ref, balance_after, created_at FROM wallet_transactions WHERE id = $1
`

func (q *Queries) GetWalletTransactionByID(ctx context.Context, id string) (WalletTransaction, error) {
	row := q.db.QueryRow(ctx, getWalletTransactionByID, id)
	var i WalletTransaction
	err := row.Scan(
		&i.ID,
		&i.WalletID,
		&i.Amount,
		&i.Kind,
		&i.Detail,
		&i.BillingRef,
		&i.BalanceAfter,
		&i.CreatedAt,
	)
	return i, err
}

const listWalletTransactions = `-- name: ListWalletTransactions :many
SELECT id, wallet_id, amount, kind, detail, billing_ref, balance_after, created_at FROM wallet_transactions
WHERE wallet_id = $1
ORDER BY seq
LIMIT $2 OFFSET $3
`

type ListWalletTransactionsParams struct {
	WalletID string `json:"wallet_id"`
	Limit    int32  `json:"limit"`
	Offset   int32  `json:"offset"`
}

func (q *Queries) ListWalletTransactions(ctx context.Context, arg ListWalletTransactionsParams) ([]WalletTransaction, error) {
	rows, err := q.db.Query(ctx, listWalletTransactions, arg.WalletID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []WalletTransaction{}
	for rows.Next() {
		var i WalletTransaction
		if err := rows.Scan(
			&i.ID,
			&i.WalletID,
			&i.Amount,
			&i.Kind,
			&i.Detail,
			&i.BillingRef,
			&i.BalanceAfter,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

