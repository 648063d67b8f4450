package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the kind of balance movement.
type TransactionType string

// TransactionTypeTransfer covers both settlement payouts and peer transfers.
const TransactionTypeTransfer TransactionType = "transfer"

// Transaction is an immutable ledger entry recording one balance movement
// between two wallets. Rows are append-only: never updated, never deleted.
type Transaction struct {
	ID           uuid.UUID       `json:"id"`
	FromWalletID uuid.UUID       `json:"from_wallet_id"`
	ToWalletID   uuid.UUID       `json:"to_wallet_id"`
	Amount       decimal.Decimal `json:"amount"`
	Type         TransactionType `json:"type"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `json:"created_at"`
}
