package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type BillingRecord struct {
	ID            pgtype.UUID        `json:"id"`
	OwnerID       pgtype.UUID        `json:"owner_id"`
	DeploymentID  pgtype.Text        `json:"deployment_id"`
	CpuMillicores int32              `json:"cpu_millicores"`
	MemoryMb      int32              `json:"memory_mb"`
	CostPerHour   pgtype.Numeric     `json:"cost_per_hour"`
	HoursUsed     pgtype.Numeric     `json:"hours_used"`
	TotalCost     pgtype.Numeric     `json:"total_cost"`
	ChargedAt     pgtype.Timestamptz `json:"charged_at"`
}

type OutboxEvent struct {
	ID            string             `json:"id"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	PublishedAt   pgtype.Timestamptz `json:"published_at"`
	Published     bool               `json:"published"`
}

type SystemConfig struct {
	ID           int16              `json:"id"`
	BonusEnabled bool               `json:"bonus_enabled"`
	BonusAmount  pgtype.Numeric     `json:"bonus_amount"`
	BonusDetail  string             `json:"bonus_detail"`
	UpdatedAt    pgtype.Timestamptz `json:"updated_at"`
}

type Wallet struct {
	ID        string             `json:"id"`
	OwnerID   pgtype.UUID        `json:"owner_id"`
	Currency  string             `json:"currency"`
	Balance   pgtype.Numeric     `json:"balance"`
	Version   int64              `json:"version"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type WalletTransaction struct {
	ID           string             `json:"id"`
	WalletID     string             `json:"wallet_id"`
	Amount       pgtype.Numeric     `json:"amount"`
	Kind         string             `json:"kind"`
	Detail       string             `json:"detail"`
	BillingRef   pgtype.UUID        `json:"billing_ref"`
	BalanceAfter pgtype.Numeric     `json:"balance_after"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}
