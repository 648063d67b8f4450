package dto

import (
	"time"

	"upbolis-market/internal/core/domain"
	"upbolis-market/internal/core/ports"

	"github.com/samber/lo"
)

// OrderItemRequest is one cart line in a settlement request. Quantity is
// validated by the settlement engine so a zero or negative value maps to the
// proper business error instead of a binding failure.
type OrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int32  `json:"quantity"`
}

// CreateOrderRequest is the request body for cart settlement. Items carries
// dive so the per-element tags are enforced; an empty cart passes binding and
// is rejected by the settlement engine.
type CreateOrderRequest struct {
	Items       []OrderItemRequest `json:"items" binding:"omitempty,dive"`
	ReferenceID string             `json:"reference_id" binding:"omitempty,max=100"`
}

// TransferRequest is the request body for a peer-to-peer transfer. Amount is
// a decimal string so client float formatting can never change the value.
type TransferRequest struct {
	RecipientID string `json:"recipient_id" binding:"required,uuid"`
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description" binding:"omitempty,max=255"`
}

// OrderItemResponse is one settled line with its price snapshot.
type OrderItemResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int32  `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

// OrderResponse is the response body for a settled or fetched order.
type OrderResponse struct {
	ID            string              `json:"id"`
	Status        string              `json:"status"`
	TotalAmount   string              `json:"total_amount"`
	TransactionID *string             `json:"transaction_id,omitempty"`
	CreatedAt     string              `json:"created_at"`
	Items         []OrderItemResponse `json:"items"`
}

// TransferResponse is the response body for a completed transfer.
type TransferResponse struct {
	TransactionID    string `json:"transaction_id"`
	SenderBalance    string `json:"sender_balance"`
	RecipientBalance string `json:"recipient_balance"`
}

// WalletBalanceResponse is the response for a balance query.
type WalletBalanceResponse struct {
	Balance string `json:"balance"`
}

// TransactionResponse is one ledger entry in a transaction history.
type TransactionResponse struct {
	ID           string `json:"id"`
	FromWalletID string `json:"from_wallet_id"`
	ToWalletID   string `json:"to_wallet_id"`
	Amount       string `json:"amount"`
	Type         string `json:"type"`
	Description  string `json:"description"`
	CreatedAt    string `json:"created_at"`
}

// ToOrderResponse converts a settled order to its wire form.
func ToOrderResponse(detail *domain.OrderDetail) OrderResponse {
	resp := OrderResponse{
		ID:          detail.Order.ID.String(),
		Status:      string(detail.Order.Status),
		TotalAmount: detail.Order.TotalAmount.StringFixed(2),
		CreatedAt:   detail.Order.CreatedAt.Format(time.RFC3339),
		Items: lo.Map(detail.Items, func(d domain.OrderItemDetail, _ int) OrderItemResponse {
			return OrderItemResponse{
				ProductID:   d.Item.ProductID.String(),
				ProductName: d.Product.Name,
				Quantity:    d.Item.Quantity,
				UnitPrice:   d.Item.UnitPrice.StringFixed(2),
				Subtotal:    d.Item.Subtotal.StringFixed(2),
			}
		}),
	}
	if detail.Order.TransactionID != nil {
		id := detail.Order.TransactionID.String()
		resp.TransactionID = &id
	}
	return resp
}

// ToOrderResponses converts an order history to its wire form.
func ToOrderResponses(details []domain.OrderDetail) []OrderResponse {
	return lo.Map(details, func(d domain.OrderDetail, _ int) OrderResponse {
		return ToOrderResponse(&d)
	})
}

// ToTransferResponse converts a transfer result to its wire form.
func ToTransferResponse(result *ports.TransferResult) TransferResponse {
	return TransferResponse{
		TransactionID:    result.TransactionID.String(),
		SenderBalance:    result.SenderBalance.StringFixed(2),
		RecipientBalance: result.RecipientBalance.StringFixed(2),
	}
}

// ToTransactionResponses converts ledger entries to their wire form.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	return lo.Map(txns, func(txn domain.Transaction, _ int) TransactionResponse {
		return TransactionResponse{
			ID:           txn.ID.String(),
			FromWalletID: txn.FromWalletID.String(),
			ToWalletID:   txn.ToWalletID.String(),
			Amount:       txn.Amount.StringFixed(2),
			Type:         string(txn.Type),
			Description:  txn.Description,
			CreatedAt:    txn.CreatedAt.Format(time.RFC3339),
		}
	})
}
