package postgres

import (
	"context"
	"errors"
	"fmt"

	"upbolis-market/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

const walletColumns = `id, owner_id, balance, created_at, updated_at`

// GetByOwnerID fetches a wallet by its owner without locking.
// Returns nil, nil if the owner has no wallet.
func (r *WalletRepo) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE owner_id = $1`

	w, err := scanWallet(r.pool.QueryRow(ctx, query, ownerID))
	if err != nil {
		return nil, fmt.Errorf("get wallet by owner: %w", err)
	}
	return w, nil
}

// GetByOwnerIDForUpdate fetches a wallet by owner with a row lock held until
// the transaction commits. Returns nil, nil if absent.
func (r *WalletRepo) GetByOwnerIDForUpdate(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE owner_id = $1 FOR UPDATE`

	w, err := scanWallet(tx.QueryRow(ctx, query, ownerID))
	if err != nil {
		return nil, fmt.Errorf("get wallet for update: %w", err)
	}
	return w, nil
}

// GetOrCreateByOwnerIDForUpdate fetches the owner's wallet with a row lock,
// creating one with a zero balance first if the owner has none. The insert
// is race-safe: a concurrent creator wins the unique constraint and the
// follow-up locked read returns its row.
func (r *WalletRepo) GetOrCreateByOwnerIDForUpdate(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID) (*domain.Wallet, error) {
	insert := `INSERT INTO wallets (id, owner_id, balance, created_at, updated_at)
		VALUES ($1, $2, 0, now(), now())
		ON CONFLICT (owner_id) DO NOTHING`

	if _, err := tx.Exec(ctx, insert, uuid.New(), ownerID); err != nil {
		return nil, fmt.Errorf("create wallet: %w", err)
	}

	query := `SELECT ` + walletColumns + ` FROM wallets WHERE owner_id = $1 FOR UPDATE`
	w, err := scanWallet(tx.QueryRow(ctx, query, ownerID))
	if err != nil {
		return nil, fmt.Errorf("get created wallet: %w", err)
	}
	if w == nil {
		return nil, fmt.Errorf("wallet for owner %s vanished after insert", ownerID)
	}
	return w, nil
}

// UpdateBalance persists a wallet's balance within a transaction.
func (r *WalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal) error {
	query := `UPDATE wallets SET balance = $1, updated_at = now() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, balance, walletID)
	if err != nil {
		return fmt.Errorf("update wallet balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	return nil
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	err := row.Scan(&w.ID, &w.OwnerID, &w.Balance, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return w, nil
}
