package postgres

import (
	"context"
	"errors"
	"fmt"

	"upbolis-market/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepo implements ports.ProductRepository.
type ProductRepo struct {
	pool Pool
}

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(pool Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

const productColumns = `id, seller_id, name, price, stock, active, created_at, updated_at`

// GetByID fetches a product without locking. Returns nil, nil if absent.
func (r *ProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return p, nil
}

// GetByIDForUpdate fetches a product with a row lock held until the
// transaction commits, so the stock read stays valid for the later write.
// Returns nil, nil if absent.
func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`

	p, err := scanProduct(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}
	return p, nil
}

// UpdateStock persists a product's stock count within a transaction.
func (r *ProductRepo) UpdateStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, stock int32) error {
	query := `UPDATE products SET stock = $1, updated_at = now() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, stock, productID)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product not found: %s", productID)
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	p := &domain.Product{}
	err := row.Scan(&p.ID, &p.SellerID, &p.Name, &p.Price, &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}
