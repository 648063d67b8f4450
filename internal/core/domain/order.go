package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order. The settlement engine is
// synchronous with payment, so it only ever produces paid orders.
type OrderStatus string

const OrderStatusPaid OrderStatus = "paid"

// Order is the header of a settled cart. TransactionID is set only when the
// settlement produced exactly one payout transaction; a multi-seller cart has
// no single representative ledger entry.
type Order struct {
	ID            uuid.UUID       `json:"id"`
	BuyerID       uuid.UUID       `json:"buyer_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        OrderStatus     `json:"status"`
	TransactionID *uuid.UUID      `json:"transaction_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderItem is one line of an order. UnitPrice and Subtotal are snapshots
// taken at settlement time; later price changes never alter them.
type OrderItem struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"order_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int32           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderItemDetail pairs a line item with the product it referenced, for
// presentation.
type OrderItemDetail struct {
	Item    OrderItem `json:"item"`
	Product Product   `json:"product"`
}

// OrderDetail is an order together with its line items.
type OrderDetail struct {
	Order Order             `json:"order"`
	Items []OrderItemDetail `json:"items"`
}
