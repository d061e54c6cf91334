package memory

import (
	"context"
	"sync"
	"time"

	"simvid/internal/domain"
	"simvid/internal/domain/model"
	"simvid/internal/domain/ports/repository"
)

var _ repository.JobRepository = (*JobRepo)(nil)

type record struct {
	job       model.Job
	expiresAt time.Time
}

// JobRepo keeps job records in process memory for synchronous mode.
// Records honor the same retention window as the Redis-backed repo;
// Run drives the janitor that evicts expired entries.
type JobRepo struct {
	mu   sync.RWMutex
	jobs map[string]*record
	ttl  time.Duration
}

func NewJobRepo(ttl time.Duration) *JobRepo {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JobRepo{jobs: make(map[string]*record), ttl: ttl}
}

func (r *JobRepo) Create(ctx context.Context, job *model.Job) error {
	return r.put(job)
}

func (r *JobRepo) Update(ctx context.Context, job *model.Job) error {
	return r.put(job)
}

func (r *JobRepo) put(job *model.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = &record{job: *job, expiresAt: time.Now().Add(r.ttl)}
	return nil
}

func (r *JobRepo) Find(ctx context.Context, id string) (*model.Job, error) {
	r.mu.RLock()
	rec, ok := r.jobs[id]
	r.mu.RUnlock()
	if !ok || time.Now().After(rec.expiresAt) {
		return nil, domain.ErrJobNotFound
	}
	cp := rec.job
	return &cp, nil
}

// Run evicts expired records until ctx is done.
func (r *JobRepo) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.purge(time.Now())
		}
	}
}

func (r *JobRepo) purge(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rec := range r.jobs {
		if now.After(rec.expiresAt) {
			delete(r.jobs, id)
		}
	}
}
