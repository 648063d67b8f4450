package postgres

import (
	"context"
	"testing"
	"time"

	"upbolis-market/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransaction(from, to uuid.UUID) *domain.Transaction {
	return &domain.Transaction{
		ID:           uuid.New(),
		FromWalletID: from,
		ToWalletID:   to,
		Amount:       decimal.RequireFromString("15.00"),
		Type:         domain.TransactionTypeTransfer,
		Description:  "peer transfer",
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

func transactionTestColumns() []string {
	return []string{"id", "from_wallet_id", "to_wallet_id", "amount", "type", "description", "created_at"}
}

func TestTransactionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction(uuid.New(), uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(txn.ID, txn.FromWalletID, txn.ToWalletID, txn.Amount, txn.Type, txn.Description, txn.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, txn)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListByWalletID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	walletID := uuid.New()
	outgoing := newTestTransaction(walletID, uuid.New())
	incoming := newTestTransaction(uuid.New(), walletID)

	rows := pgxmock.NewRows(transactionTestColumns()).
		AddRow(outgoing.ID, outgoing.FromWalletID, outgoing.ToWalletID,
			outgoing.Amount, outgoing.Type, outgoing.Description, outgoing.CreatedAt).
		AddRow(incoming.ID, incoming.FromWalletID, incoming.ToWalletID,
			incoming.Amount, incoming.Type, incoming.Description, incoming.CreatedAt)

	mock.ExpectQuery("SELECT .+ FROM transactions").
		WithArgs(walletID).
		WillReturnRows(rows)

	result, err := repo.ListByWalletID(context.Background(), walletID)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, outgoing.ID, result[0].ID)
	assert.Equal(t, incoming.ID, result[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListByWalletID_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	walletID := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM transactions").
		WithArgs(walletID).
		WillReturnRows(pgxmock.NewRows(transactionTestColumns()))

	result, err := repo.ListByWalletID(context.Background(), walletID)
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}
