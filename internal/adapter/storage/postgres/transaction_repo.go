package postgres

import (
	"context"
	"fmt"

	"upbolis-market/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository. The ledger is
// append-only; there is no update path.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create appends a ledger entry within a transaction.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error {
	query := `INSERT INTO transactions (id, from_wallet_id, to_wallet_id, amount, type, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		txn.ID, txn.FromWalletID, txn.ToWalletID, txn.Amount, txn.Type, txn.Description, txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ListByWalletID returns every ledger entry touching the wallet as source or
// destination, newest first.
func (r *TransactionRepo) ListByWalletID(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error) {
	query := `SELECT id, from_wallet_id, to_wallet_id, amount, type, description, created_at
		FROM transactions
		WHERE from_wallet_id = $1 OR to_wallet_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	txn := &domain.Transaction{}
	err := row.Scan(&txn.ID, &txn.FromWalletID, &txn.ToWalletID,
		&txn.Amount, &txn.Type, &txn.Description, &txn.CreatedAt)
	if err != nil {
		return nil, err
	}
	return txn, nil
}
