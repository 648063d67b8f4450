package ports

//go:generate mockgen -source=repositories.go -destination=mocks/repositories_mock.go -package=mocks

import (
	"context"

	"upbolis-market/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx run inside a unit of work and take a row lock
// (SELECT ... FOR UPDATE) so concurrent writers serialize on the wallet.
type WalletRepository interface {
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*domain.Wallet, error)
	// GetByOwnerIDForUpdate locks and returns the owner's wallet, or nil if
	// the owner has none.
	GetByOwnerIDForUpdate(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID) (*domain.Wallet, error)
	// GetOrCreateByOwnerIDForUpdate locks and returns the owner's wallet,
	// creating one with a zero balance if absent.
	GetOrCreateByOwnerIDForUpdate(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal) error
}

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	// GetByIDForUpdate locks and returns the product, or nil if absent.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Product, error)
	UpdateStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, stock int32) error
}

// OrderRepository defines persistence operations for orders and their lines.
// Orders are immutable once the creating unit of work commits.
type OrderRepository interface {
	Create(ctx context.Context, tx pgx.Tx, order *domain.Order) error
	CreateItem(ctx context.Context, tx pgx.Tx, item *domain.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByBuyerID(ctx context.Context, buyerID uuid.UUID) ([]domain.Order, error)
	ListItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error)
}

// TransactionRepository appends and reads immutable ledger entries.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error
	// ListByWalletID returns every entry where the wallet is source or
	// destination, newest first.
	ListByWalletID(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error)
}

// IdempotencyRepository defines persistence for settlement idempotency logs
// (the durable layer behind the Redis cache).
type IdempotencyRepository interface {
	Create(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error
	Get(ctx context.Context, key string) (*domain.IdempotencyLog, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
