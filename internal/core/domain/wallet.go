package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet holds one user's balance in the platform currency (UPBolis).
// There is exactly one wallet per owner, created lazily on first use.
// Balance is never negative at a committed state; only the settlement
// and transfer engines mutate it.
type Wallet struct {
	ID        uuid.UUID       `json:"id"`
	OwnerID   uuid.UUID       `json:"owner_id"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CanDebit reports whether the wallet holds at least amount.
func (w *Wallet) CanDebit(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}
