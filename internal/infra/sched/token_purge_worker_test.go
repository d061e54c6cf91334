//go:build !integration

package sched

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type countingTokenRepo struct {
	purges int32
}

func (r *countingTokenRepo) Store(ctx context.Context, tokenID string, issuedAt time.Time) error {
	return nil
}

func (r *countingTokenRepo) Valid(ctx context.Context, tokenID string) (bool, error) {
	return true, nil
}

func (r *countingTokenRepo) PurgeExpired(ctx context.Context) error {
	atomic.AddInt32(&r.purges, 1)
	return nil
}

func TestTokenPurgeWorker_Run(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := &countingTokenRepo{}
	logger := zerolog.Nop()
	w := NewTokenPurgeWorker(10*time.Millisecond, repo, &logger)

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for atomic.LoadInt32(&repo.purges) < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 2 purges, got %d", atomic.LoadInt32(&repo.purges))
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on cancel")
	}
}
