package ports

//go:generate mockgen -source=services.go -destination=mocks/services_mock.go -package=mocks

import (
	"context"
	"time"

	"upbolis-market/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one requested line of a cart, in caller-submitted order.
type CartItem struct {
	ProductID uuid.UUID
	Quantity  int32
}

// SettleRequest holds validated input for cart settlement.
type SettleRequest struct {
	BuyerID     uuid.UUID
	Items       []CartItem
	ReferenceID string // optional client idempotency reference; empty = no idempotency
}

// SettlementService converts a cart into a paid order plus balance and stock
// mutations, atomically. Any failure leaves no side effects.
type SettlementService interface {
	Settle(ctx context.Context, req SettleRequest) (*domain.OrderDetail, error)
}

// TransferRequest holds validated input for a peer-to-peer transfer.
type TransferRequest struct {
	SenderID    uuid.UUID
	RecipientID uuid.UUID
	Amount      decimal.Decimal
	Description string // empty = default description
}

// TransferResult reports the committed balances after a transfer.
type TransferResult struct {
	TransactionID    uuid.UUID
	SenderBalance    decimal.Decimal
	RecipientBalance decimal.Decimal
}

// TransferService moves funds between two wallets atomically.
type TransferService interface {
	Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error)
}

// ReportingService serves the read side: order history, ledger history and
// wallet balance for one user.
type ReportingService interface {
	ListOrders(ctx context.Context, buyerID uuid.UUID) ([]domain.OrderDetail, error)
	GetOrder(ctx context.Context, buyerID, orderID uuid.UUID) (*domain.OrderDetail, error)
	// ListTransactions returns all ledger entries touching the user's wallet.
	// A user without a wallet gets an empty list, not an error.
	ListTransactions(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error)
	GetWalletBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
}

// IdempotencyCache is the Redis-layer idempotency check (fast path).
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
