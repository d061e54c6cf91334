package usecase

import (
	"context"
	"fmt"

	"simvid/internal/domain"
	"simvid/internal/domain/model"
	"simvid/internal/domain/ports/adapter"
)

// Dispatcher hands a created job to one of the two execution modes.
// Inline runs the composition on the caller's goroutine and returns a
// terminal job; queue publishes a payload and returns immediately.
type Dispatcher interface {
	Dispatch(ctx context.Context, job *model.Job, req model.GenerateRequest) error
	Mode() string
}

var (
	_ Dispatcher = (*InlineDispatcher)(nil)
	_ Dispatcher = (*QueueDispatcher)(nil)
)

type InlineDispatcher struct {
	runner *JobRunner
}

func NewInlineDispatcher(runner *JobRunner) *InlineDispatcher {
	return &InlineDispatcher{runner: runner}
}

func (d *InlineDispatcher) Dispatch(ctx context.Context, job *model.Job, req model.GenerateRequest) error {
	d.runner.Run(ctx, job, req)
	return nil
}

func (d *InlineDispatcher) Mode() string { return "inline" }

type QueueDispatcher struct {
	queue adapter.JobQueue
}

func NewQueueDispatcher(queue adapter.JobQueue) *QueueDispatcher {
	return &QueueDispatcher{queue: queue}
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, job *model.Job, req model.GenerateRequest) error {
	payload := adapter.QueuePayload{
		JobID:      job.ID,
		SessionID:  req.SessionID,
		AudioID:    req.AudioID,
		Duration:   req.Duration,
		Transition: string(req.Transition),
		Resolution: req.Resolution,
	}
	if err := d.queue.Enqueue(ctx, payload); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrQueueUnavailable, err)
	}
	return nil
}

func (d *QueueDispatcher) Mode() string { return "queue" }
