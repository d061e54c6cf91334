package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"simvid/internal/domain"
	"simvid/internal/domain/model"
	"simvid/internal/domain/ports/repository"
)

var _ repository.JobRepository = (*JobRepo)(nil)

// JobRepo persists job records as JSON values with a TTL, so status
// polling from any web instance resolves consistently and records
// expire on their own after the retention window.
type JobRepo struct {
	client RedisClient
	ttl    time.Duration
}

func NewJobRepo(client RedisClient, ttl time.Duration) *JobRepo {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JobRepo{client: client, ttl: ttl}
}

func (r *JobRepo) key(id string) string { return fmt.Sprintf("video_job:%s", id) }

func (r *JobRepo) Create(ctx context.Context, job *model.Job) error {
	return r.write(ctx, job)
}

// Update rewrites the record and refreshes the TTL, so the retention
// window counts from the last transition (terminal included).
func (r *JobRepo) Update(ctx context.Context, job *model.Job) error {
	return r.write(ctx, job)
}

func (r *JobRepo) write(ctx context.Context, job *model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(job.ID), data, r.ttl)
}

func (r *JobRepo) Find(ctx context.Context, id string) (*model.Job, error) {
	data, err := r.client.Get(ctx, r.key(id))
	if err != nil {
		if IsNil(err) {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}
	var job model.Job
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, err
	}
	return &job, nil
}
