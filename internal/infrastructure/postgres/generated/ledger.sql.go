package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const checkLedgerConsistency = `-- name: CheckLedgerConsistency :one
SELECT
    (SELECT COALESCE(SUM(balance), 0) FROM wallets)::NUMERIC AS total_wallet_balance,
    (SELECT COALESCE(SUM(amount), 0) FROM wallet_transactions)::NUMERIC AS total_transaction_amount,
    (SELECT COUNT(*) FROM wallets WHERE balance < 0) AS negative_wallets
`

type CheckLedgerConsistencyRow struct {
	TotalWalletBalance     pgtype.Numeric `json:"total_wallet_balance"`
	TotalTransactionAmount pgtype.Numeric `json:"total_transaction_amount"`
	NegativeWallets        int64          `json:"negative_wallets"`
}

func (q *Queries) CheckLedgerConsistency(ctx context.Context) (CheckLedgerConsistencyRow, error) {
	row := q.db.QueryRow(ctx, checkLedgerConsistency)
	var i CheckLedgerConsistencyRow
	err := row.Scan(&i.TotalWalletBalance, &i.TotalTransactionAmount, &i.NegativeWallets)
	return i, err
}

const getWalletTotals = `-- name: GetWalletTotals :one
SELECT
    w.balance,
    (SELECT COALESCE(SUM(t.amount), 0) FROM wallet_transactions t WHERE t.wallet_id = w.id)::NUMERIC AS entry_sum
FROM wallets w
WHERE w.id = $1
`

type GetWalletTotalsRow struct {
	Balance  pgtype.Numeric `json:"balance"`
	EntrySum pgtype.Numeric `json:"entry_sum"`
}

func (q *Queries) GetWalletTotals(ctx context.Context, id string) (GetWalletTotalsRow, error) {
	row := q.db.QueryRow(ctx, getWalletTotals, id)
	var i GetWalletTotalsRow
	err := row.Scan(&i.Balance, &i.EntrySum)
	return i, err
}
