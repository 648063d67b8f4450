package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IdempotencyLog is the durable record of a settled order keyed by the
// client-supplied reference, so resubmissions return the original result.
type IdempotencyLog struct {
	Key          string
	OrderID      uuid.UUID
	ResponseJSON []byte
	CreatedAt    time.Time
}

// BuildIdempotencyKey namespaces a client reference by buyer.
func BuildIdempotencyKey(buyerID uuid.UUID, referenceID string) string {
	return fmt.Sprintf("%s:%s", buyerID, referenceID)
}
