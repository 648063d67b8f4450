package postgres

import (
	"context"
	"testing"
	"time"

	"upbolis-market/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIdempotencyRepo(mock)
	log := &domain.IdempotencyLog{
		Key:          domain.BuildIdempotencyKey(uuid.New(), "order-ref-1"),
		OrderID:      uuid.New(),
		ResponseJSON: []byte(`{"order":{}}`),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO idempotency_logs").
		WithArgs(log.Key, log.OrderID, log.ResponseJSON).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, log)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepo_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIdempotencyRepo(mock)
	key := domain.BuildIdempotencyKey(uuid.New(), "order-ref-1")
	orderID := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)

	rows := pgxmock.NewRows([]string{"key", "order_id", "response_json", "created_at"}).
		AddRow(key, orderID, []byte(`{"order":{}}`), now)

	mock.ExpectQuery("SELECT .+ FROM idempotency_logs WHERE key").
		WithArgs(key).
		WillReturnRows(rows)

	result, err := repo.Get(context.Background(), key)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, orderID, result.OrderID)
	assert.JSONEq(t, `{"order":{}}`, string(result.ResponseJSON))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepo_Get_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIdempotencyRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM idempotency_logs WHERE key").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"key", "order_id", "response_json", "created_at"}))

	result, err := repo.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}
