package memory

import (
	"context"
	"sync"
	"time"

	"simvid/internal/domain/ports/repository"
)

var _ repository.AdminTokenRepository = (*TokenRepo)(nil)

// TokenRepo is the in-memory fallback for admin tokens when no database
// is configured. Tokens reset on restart.
type TokenRepo struct {
	mu     sync.Mutex
	issued map[string]time.Time
	ttl    time.Duration
}

func NewTokenRepo(ttl time.Duration) *TokenRepo {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenRepo{issued: make(map[string]time.Time), ttl: ttl}
}

func (r *TokenRepo) Store(ctx context.Context, tokenID string, issuedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issued[tokenID] = issuedAt
	return nil
}

func (r *TokenRepo) Valid(ctx context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	at, ok := r.issued[tokenID]
	if !ok {
		return false, nil
	}
	if time.Since(at) > r.ttl {
		delete(r.issued, tokenID)
		return false, nil
	}
	return true, nil
}

func (r *TokenRepo) PurgeExpired(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, at := range r.issued {
		if time.Since(at) > r.ttl {
			delete(r.issued, id)
		}
	}
	return nil
}
