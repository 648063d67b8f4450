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

func newTestOrder(buyerID uuid.UUID) *domain.Order {
	txnID := uuid.New()
	return &domain.Order{
		ID:            uuid.New(),
		BuyerID:       buyerID,
		TotalAmount:   decimal.RequireFromString("60.00"),
		Status:        domain.OrderStatusPaid,
		TransactionID: &txnID,
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
}

func orderTestColumns() []string {
	return []string{"id", "buyer_id", "total_amount", "status", "transaction_id", "created_at"}
}

func orderRow(o *domain.Order) *pgxmock.Rows {
	return pgxmock.NewRows(orderTestColumns()).AddRow(
		o.ID, o.BuyerID, o.TotalAmount, o.Status, o.TransactionID, o.CreatedAt,
	)
}

func TestOrderRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	o := newTestOrder(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(o.ID, o.BuyerID, o.TotalAmount, o.Status, o.TransactionID, o.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, o)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_CreateItem(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	item := &domain.OrderItem{
		ID:        uuid.New(),
		OrderID:   uuid.New(),
		ProductID: uuid.New(),
		Quantity:  2,
		UnitPrice: decimal.RequireFromString("30.00"),
		Subtotal:  decimal.RequireFromString("60.00"),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal, item.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.CreateItem(context.Background(), tx, item)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	o := newTestOrder(uuid.New())

	mock.ExpectQuery("SELECT .+ FROM orders WHERE id").
		WithArgs(o.ID).
		WillReturnRows(orderRow(o))

	result, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, o.ID, result.ID)
	assert.Equal(t, o.BuyerID, result.BuyerID)
	require.NotNil(t, result.TransactionID)
	assert.Equal(t, *o.TransactionID, *result.TransactionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM orders WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(orderTestColumns()))

	result, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_ListByBuyerID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	buyerID := uuid.New()
	first := newTestOrder(buyerID)
	second := newTestOrder(buyerID)

	rows := pgxmock.NewRows(orderTestColumns()).
		AddRow(first.ID, first.BuyerID, first.TotalAmount, first.Status, first.TransactionID, first.CreatedAt).
		AddRow(second.ID, second.BuyerID, second.TotalAmount, second.Status, second.TransactionID, second.CreatedAt)

	mock.ExpectQuery("SELECT .+ FROM orders WHERE buyer_id").
		WithArgs(buyerID).
		WillReturnRows(rows)

	result, err := repo.ListByBuyerID(context.Background(), buyerID)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, first.ID, result[0].ID)
	assert.Equal(t, second.ID, result[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_ListItems(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	orderID := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)

	rows := pgxmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "unit_price", "subtotal", "created_at"}).
		AddRow(uuid.New(), orderID, uuid.New(), int32(2),
			decimal.RequireFromString("30.00"), decimal.RequireFromString("60.00"), now)

	mock.ExpectQuery("SELECT .+ FROM order_items WHERE order_id").
		WithArgs(orderID).
		WillReturnRows(rows)

	result, err := repo.ListItems(context.Background(), orderID)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, orderID, result[0].OrderID)
	assert.Equal(t, int32(2), result[0].Quantity)
	assert.True(t, result[0].Subtotal.Equal(decimal.RequireFromString("60.00")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
