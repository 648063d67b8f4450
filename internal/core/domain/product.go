package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. SellerID is nullable at the storage level
// (legacy rows), but a product without a seller cannot be sold.
type Product struct {
	ID        uuid.UUID       `json:"id"`
	SellerID  *uuid.UUID      `json:"seller_id,omitempty"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int32           `json:"stock"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// HasSeller reports whether the product can receive a payout.
func (p *Product) HasSeller() bool {
	return p.SellerID != nil
}

// InStock reports whether qty units can be sold without driving stock negative.
func (p *Product) InStock(qty int32) bool {
	return p.Stock >= qty
}
