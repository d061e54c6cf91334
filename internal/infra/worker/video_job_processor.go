package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"simvid/internal/domain"
	"simvid/internal/domain/ports/adapter"
	"simvid/internal/domain/ports/repository"
	"simvid/internal/usecase"
)

// dequeueWait bounds each BRPOP so shutdown is observed promptly.
const dequeueWait = 5 * time.Second

// VideoJobProcessor is the queue-mode consumer. It pulls payloads off
// the broker and runs them through the shared job runner on a pool.
type VideoJobProcessor struct {
	queue  adapter.JobQueue
	jobs   repository.JobRepository
	runner *usecase.JobRunner
	log    *zerolog.Logger
}

func NewVideoJobProcessor(
	queue adapter.JobQueue,
	jobs repository.JobRepository,
	runner *usecase.JobRunner,
	logger *zerolog.Logger,
) *VideoJobProcessor {
	l := logger.With().Str("component", "VideoJobProcessor").Logger()
	return &VideoJobProcessor{queue: queue, jobs: jobs, runner: runner, log: &l}
}

// Start runs the consume loop until the context ends.
// This should be run in a goroutine.
func (p *VideoJobProcessor) Start(ctx context.Context, pool *Pool) {
	p.log.Info().Msg("video job processor started")
	for {
		select {
		case <-ctx.Done():
			p.log.Info().Msg("video job processor stopping")
			return
		default:
		}

		payload, err := p.queue.Dequeue(ctx, dequeueWait)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.log.Error().Err(err).Msg("dequeue failed")
			time.Sleep(time.Second)
			continue
		}
		if payload == nil {
			continue // wait elapsed, nothing queued
		}

		pl := *payload
		if err := pool.SubmitWait(ctx, func(ctx context.Context) error {
			p.processOne(ctx, pl)
			return nil
		}); err != nil {
			p.log.Error().Err(err).Str("job_id", pl.JobID).Msg("could not hand job to pool")
		}
	}
}

func (p *VideoJobProcessor) processOne(ctx context.Context, payload adapter.QueuePayload) {
	job, err := p.jobs.Find(ctx, payload.JobID)
	if err != nil {
		if err != domain.ErrJobNotFound {
			p.log.Error().Err(err).Str("job_id", payload.JobID).Msg("job lookup failed")
		} else {
			// The record expired while the payload sat in the queue.
			p.log.Warn().Str("job_id", payload.JobID).Msg("dropping payload for expired job")
		}
		return
	}
	if job.Status.Terminal() {
		return
	}
	p.runner.Run(ctx, job, payload.Request())
}
