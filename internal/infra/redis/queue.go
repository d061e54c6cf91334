package redis

import (
	"context"
	"encoding/json"
	"time"

	"simvid/internal/domain/ports/adapter"
	"simvid/internal/infra/metrics"
)

var _ adapter.JobQueue = (*Queue)(nil)

// Queue is a Redis list carrying JSON payloads: LPUSH from the web
// tier, BRPOP in the workers. No admission control; depth is whatever
// the broker tolerates.
type Queue struct {
	client RedisClient
	name   string
}

func NewQueue(client RedisClient, name string) *Queue {
	if name == "" {
		name = "video_generation"
	}
	return &Queue{client: client, name: name}
}

func (q *Queue) Enqueue(ctx context.Context, payload adapter.QueuePayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := q.client.LPush(ctx, q.name, data); err != nil {
		return err
	}
	metrics.IncEnqueued()
	if depth, err := q.client.LLen(ctx, q.name); err == nil {
		metrics.SetQueueDepth(depth)
	}
	return nil
}

func (q *Queue) Dequeue(ctx context.Context, wait time.Duration) (*adapter.QueuePayload, error) {
	data, err := q.client.BRPop(ctx, wait, q.name)
	if err != nil {
		if IsNil(err) {
			return nil, nil
		}
		return nil, err
	}
	var payload adapter.QueuePayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil, err
	}
	if depth, err := q.client.LLen(ctx, q.name); err == nil {
		metrics.SetQueueDepth(depth)
	}
	return &payload, nil
}
