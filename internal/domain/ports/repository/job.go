package repository

import (
	"context"

	"simvid/internal/domain/model"
)

// JobRepository persists job lifecycle records. Records expire after a
// retention window; an expired or unknown ID yields domain.ErrJobNotFound.
type JobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	Find(ctx context.Context, id string) (*model.Job, error)
	// Update overwrites the stored record. Callers mutate jobs through
	// the model methods, which enforce the monotonic-progress and
	// terminal-state rules.
	Update(ctx context.Context, job *model.Job) error
}
