package usecase

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"

	"simvid/internal/domain"
	"simvid/internal/domain/model"
	"simvid/internal/domain/ports/repository"
)

// JobUseCase exposes job status to the API layer. Records expire after
// the result TTL; an expired or unknown ID maps to ErrJobNotFound.
type JobUseCase interface {
	Status(ctx context.Context, jobID string) (*model.Job, error)
}

var _ JobUseCase = (*jobUseCase)(nil)

type jobUseCase struct {
	jobs repository.JobRepository
}

func NewJobUseCase(jobs repository.JobRepository) JobUseCase {
	return &jobUseCase{jobs: jobs}
}

func (uc *jobUseCase) Status(ctx context.Context, jobID string) (*model.Job, error) {
	if _, err := ulid.Parse(jobID); err != nil {
		return nil, fmt.Errorf("%w: malformed job id", domain.ErrInvalidArgument)
	}
	return uc.jobs.Find(ctx, jobID)
}
