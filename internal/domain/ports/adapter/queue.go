package adapter

import (
	"context"
	"time"

	"simvid/internal/domain/model"
)

// QueuePayload is the wire form of a generation request handed to the
// worker tier through the broker.
type QueuePayload struct {
	JobID      string  `json:"job_id"`
	SessionID  string  `json:"session_id"`
	AudioID    string  `json:"audio_id,omitempty"`
	Duration   float64 `json:"duration"`
	Transition string  `json:"transition"`
	Resolution string  `json:"resolution"`
}

func (p QueuePayload) Request() model.GenerateRequest {
	return model.GenerateRequest{
		SessionID:  p.SessionID,
		AudioID:    p.AudioID,
		Duration:   p.Duration,
		Transition: model.Transition(p.Transition),
		Resolution: p.Resolution,
	}
}

// JobQueue is the broker between the web tier and worker processes.
type JobQueue interface {
	Enqueue(ctx context.Context, payload QueuePayload) error
	// Dequeue blocks up to wait for the next payload. A nil payload
	// with nil error means the wait elapsed with nothing to do.
	Dequeue(ctx context.Context, wait time.Duration) (*QueuePayload, error)
}
