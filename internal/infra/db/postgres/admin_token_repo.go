package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"simvid/internal/domain/ports/repository"
)

var _ repository.AdminTokenRepository = (*adminTokenRepo)(nil)

// adminTokenRepo persists issued admin token IDs so sessions survive
// process restarts across web instances.
type adminTokenRepo struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

func NewAdminTokenRepo(pool *pgxpool.Pool, ttl time.Duration) *adminTokenRepo {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &adminTokenRepo{pool: pool, ttl: ttl}
}

// EnsureSchema creates the token table when missing.
func (r *adminTokenRepo) EnsureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS admin_tokens (
    token_id   VARCHAR(64) PRIMARY KEY,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`
	if _, err := r.pool.Exec(ctx, q); err != nil {
		return fmt.Errorf("ensure admin_tokens schema: %w", err)
	}
	return nil
}

func (r *adminTokenRepo) Store(ctx context.Context, tokenID string, issuedAt time.Time) error {
	const q = `INSERT INTO admin_tokens (token_id, created_at) VALUES ($1, $2) ON CONFLICT (token_id) DO NOTHING;`
	_, err := r.pool.Exec(ctx, q, tokenID, issuedAt)
	return err
}

func (r *adminTokenRepo) Valid(ctx context.Context, tokenID string) (bool, error) {
	const q = `SELECT 1 FROM admin_tokens WHERE token_id = $1 AND created_at > NOW() - make_interval(secs => $2);`
	rows, err := r.pool.Query(ctx, q, tokenID, r.ttl.Seconds())
	if err != nil {
		return false, err
	}
	defer rows.Close()
	return rows.Next(), rows.Err()
}

func (r *adminTokenRepo) PurgeExpired(ctx context.Context) error {
	const q = `DELETE FROM admin_tokens WHERE created_at < NOW() - make_interval(secs => $1);`
	_, err := r.pool.Exec(ctx, q, r.ttl.Seconds())
	return err
}
