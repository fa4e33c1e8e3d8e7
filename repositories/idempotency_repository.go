package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/padelhub/tournament-core/models"
)

// IdempotencyRepository is the authoritative Postgres store behind
// spec invariant I8. idempotency.Cache provides a Redis fast path in
// front of it; this repository is always the source of truth.
type IdempotencyRepository interface {
	Get(ctx context.Context, tenantID uuid.UUID, key string) (*models.IdempotencyRecord, error)
	Put(ctx context.Context, exec SQLExecutor, rec *models.IdempotencyRecord) error
}

type postgresIdempotencyRepository struct {
	db *sql.DB
}

func NewPostgresIdempotencyRepository(db *sql.DB) IdempotencyRepository {
	return &postgresIdempotencyRepository{db: db}
}

func (r *postgresIdempotencyRepository) Get(ctx context.Context, tenantID uuid.UUID, key string) (*models.IdempotencyRecord, error) {
	const q = `SELECT tenant_id, key, response, expires_at FROM idempotency_records
		WHERE tenant_id = $1 AND key = $2 AND expires_at > now()`
	var rec models.IdempotencyRecord
	err := r.db.QueryRowContext(ctx, q, tenantID, key).Scan(&rec.TenantID, &rec.Key, &rec.Response, &rec.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get idempotency record: %w", err)
	}
	return &rec, nil
}

func (r *postgresIdempotencyRepository) Put(ctx context.Context, exec SQLExecutor, rec *models.IdempotencyRecord) error {
	const q = `
		INSERT INTO idempotency_records (tenant_id, key, response, expires_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (tenant_id, key) DO UPDATE SET response = EXCLUDED.response, expires_at = EXCLUDED.expires_at`
	_, err := exec.ExecContext(ctx, q, rec.TenantID, rec.Key, rec.Response, rec.ExpiresAt)
	if err != nil {
		return fmt.Errorf("put idempotency record: %w", err)
	}
	return nil
}
