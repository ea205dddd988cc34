package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createWallet = `-- name: CreateWallet :one
INSERT INTO wallets (id, owner_id, currency, balance, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, owner_id, currency, balance, version, created_at, updated_at
`

type CreateWalletParams struct {
	ID        string             `json:"id"`
	OwnerID   pgtype.UUID        `json:"owner_id"`
	Currency  string             `json:"currency"`
	Balance   pgtype.Numeric     `json:"balance"`
	Version   int64              `json:"version"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateWallet(ctx context.Context, arg CreateWalletParams) (Wallet, error) {
	row := q.db.QueryRow(ctx, createWallet,
		arg.ID,
		arg.OwnerID,
		arg.Currency,
		arg.Balance,
		arg.Version,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var i Wallet
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Currency,
		&i.Balance,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getWalletByID = `-- name: GetWalletByID :one
SELECT id, owner_id, currency, balance, version, created_at, updated_at FROM wallets WHERE id = $1
`

func (q *Queries) GetWalletByID(ctx context.Context, id string) (Wallet, error) {
	row := q.db.QueryRow(ctx, getWalletByID, id)
	var i Wallet
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Currency,
		&i.Balance,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getWalletByIDForUpdate = `-- name: GetWalletByIDForUpdate :one
SELECT id, owner_id, currency, balance, version, created_at, updated_at FROM wallets WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetWalletByIDForUpdate(ctx context.Context, id string) (Wallet, error) {
	row := q.db.QueryRow(ctx, getWalletByIDForUpdate, id)
	var i Wallet
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Currency,
		&i.Balance,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getWalletByOwner = `-- name: GetWalletByOwner :one
SELECT id, owner_id, currency, balance, version, created_at, updated_at FROM wallets WHERE owner_id = $1
`

func (q *Queries) GetWalletByOwner(ctx context.Context, ownerID pgtype.UUID) (Wallet, error) {
	row := q.db.QueryRow(ctx, getWalletByOwner, ownerID)
	var i Wallet
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Currency,
		&i.Balance,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listWallets = `-- name: ListWallets :many
SELECT id, owner_id, currency, balance, version, created_at, updated_at FROM wallets ORDER BY created_at, id LIMIT $1 OFFSET $2
`

type ListWalletsParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListWallets(ctx context.Context, arg ListWalletsParams) ([]Wallet, error) {
	rows, err := q.db.Query(ctx, listWallets, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Wallet{}
	for rows.Next() {
		var i Wallet
		if err := rows.Scan(
			&i.ID,
			&i.OwnerID,
			&i.Currency,
			&i.Balance,
			&i.Version,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const updateWalletBalance = `-- name: UpdateWalletBalance :execrows
UPDATE wallets SET balance = $2, version = version + 1, updated_at = $3 WHERE id = $1
`

type UpdateWalletBalanceParams struct {
	ID        string             `json:"id"`
	Balance   pgtype.Numeric     `json:"balance"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateWalletBalance(ctx context.Context, arg UpdateWalletBalanceParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateWalletBalance, arg.ID, arg.Balance, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
