package service

import (
	"context"
	"errors"

	"upbolis-market/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// maxConflictAttempts bounds retries of a unit of work that lost a lock
// conflict. Business errors never retry; only storage-level conflicts do.
const maxConflictAttempts = 3

// serialization_failure and deadlock_detected
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

func isTransientConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
}

// withConflictRetry runs fn up to maxConflictAttempts times, retrying only
// when PostgreSQL reports a serialization failure or deadlock. Exhausted
// retries surface as a transient-conflict error the client may resubmit.
func withConflictRetry[T any](ctx context.Context, log zerolog.Logger, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 1; attempt <= maxConflictAttempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if !isTransientConflict(err) {
			return zero, err
		}
		lastErr = err
		log.Warn().
			Err(err).
			Str("op", op).
			Int("attempt", attempt).
			Msg("storage conflict, retrying")
	}
	return zero, apperror.ErrTransientConflict(lastErr)
}
