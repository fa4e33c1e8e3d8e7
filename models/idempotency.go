package models

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyRecord is authoritative (invariant I8): if present, the
// recorded response must be returned verbatim. TTL is 24h.
type IdempotencyRecord struct {
	TenantID  uuid.UUID `db:"tenant_id"`
	Key       string    `db:"key"`
	Response  []byte    `db:"response"`
	ExpiresAt time.Time `db:"expires_at"`
}

const IdempotencyTTL = 24 * time.Hour
