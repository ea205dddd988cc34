package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/postgres/generated"
	"github.com/iho/gowallet/internal/usecase"
)

// ErrForeignTx is returned when a repository receives a non-postgres transaction.
var ErrForeignTx = errors.New("transaction does not belong to the postgres store")

// PostgreSQL error codes and constraint names mapped to domain errors.
const (
	pgErrUniqueViolation = "23505"
	pgErrCheckViolation  = "23514"

	constraintWalletOwner     = "wallets_owner_id_key"
	constraintWalletBalance   = "wallets_balance_non_negative"
	constraintChargeReference = "wallet_transactions_charge_ref_key"
)

func txQueries(tx usecase.Transaction) (*generated.Queries, error) {
	pgTx, ok := tx.(*Tx)
	if !ok {
		return nil, ErrForeignTx
	}
	return generated.New(pgTx.PgxTx()), nil
}

// mapWriteError translates constraint violations into domain errors.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch {
	case pgErr.Code == pgErrUniqueViolation && pgErr.ConstraintName == constraintWalletOwner:
		return domain.ErrWalletAlreadyExists
	case pgErr.Code == pgErrUniqueViolation && pgErr.ConstraintName == constraintChargeReference:
		return domain.ErrDuplicateCharge
	case pgErr.Code == pgErrCheckViolation && pgErr.ConstraintName == constraintWalletBalance:
		return fmt.Errorf("%w: %s", domain.ErrInsufficientFunds, pgErr.Message)
	}
	return err
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func stringToPgUUID(s string) (pgtype.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("%w: %q", domain.ErrInvalidIDFormat, s)
	}
	return pgtype.UUID{Bytes: id, Valid: true}, nil
}

func optionalPgUUID(s *string) (pgtype.UUID, error) {
	if s == nil {
		return pgtype.UUID{}, nil
	}
	return stringToPgUUID(*s)
}

func pgUUIDToString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}

func pgUUIDToOptional(u pgtype.UUID) *string {
	if !u.Valid {
		return nil
	}
	s := pgUUIDToString(u)
	return &s
}
