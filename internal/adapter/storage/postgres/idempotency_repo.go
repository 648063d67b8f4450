package postgres

import (
	"context"
	"errors"
	"fmt"

	"upbolis-market/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// IdempotencyRepo implements ports.IdempotencyRepository, the durable layer
// behind the Redis idempotency cache.
type IdempotencyRepo struct {
	pool Pool
}

// NewIdempotencyRepo creates a new IdempotencyRepo.
func NewIdempotencyRepo(pool Pool) *IdempotencyRepo {
	return &IdempotencyRepo{pool: pool}
}

// Create inserts an idempotency log within the settlement's transaction, so
// the log commits atomically with the order it records.
func (r *IdempotencyRepo) Create(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error {
	query := `INSERT INTO idempotency_logs (key, order_id, response_json, created_at)
		VALUES ($1, $2, $3, now())`

	_, err := tx.Exec(ctx, query, log.Key, log.OrderID, log.ResponseJSON)
	if err != nil {
		return fmt.Errorf("insert idempotency log: %w", err)
	}
	return nil
}

// Get fetches an idempotency log by key. Returns nil, nil if absent.
func (r *IdempotencyRepo) Get(ctx context.Context, key string) (*domain.IdempotencyLog, error) {
	query := `SELECT key, order_id, response_json, created_at FROM idempotency_logs WHERE key = $1`

	log := &domain.IdempotencyLog{}
	err := r.pool.QueryRow(ctx, query, key).
		Scan(&log.Key, &log.OrderID, &log.ResponseJSON, &log.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get idempotency log: %w", err)
	}
	return log, nil
}
