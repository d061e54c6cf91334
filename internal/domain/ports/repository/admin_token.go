package repository

import (
	"context"
	"time"
)

// AdminTokenRepository records issued admin token IDs so sessions
// survive restarts and can be revoked server-side. Tokens older than
// the retention period stop validating.
type AdminTokenRepository interface {
	Store(ctx context.Context, tokenID string, issuedAt time.Time) error
	Valid(ctx context.Context, tokenID string) (bool, error)
	PurgeExpired(ctx context.Context) error
}
