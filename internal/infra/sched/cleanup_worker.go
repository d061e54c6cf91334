package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"simvid/internal/domain/ports/repository"
)

// CleanupWorker periodically purges media older than the retention
// window so the data directory does not grow without bound.
type CleanupWorker struct {
	interval  time.Duration
	retention time.Duration
	media     repository.MediaStore
	log       *zerolog.Logger
}

func NewCleanupWorker(interval, retention time.Duration, media repository.MediaStore, logger *zerolog.Logger) *CleanupWorker {
	l := logger.With().Str("component", "CleanupWorker").Logger()
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &CleanupWorker{
		interval:  interval,
		retention: retention,
		media:     media,
		log:       &l,
	}
}

func (w *CleanupWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Dur("retention", w.retention).Msg("starting cleanup worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping cleanup worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.media.CleanOlderThan(w.retention)
			if err != nil {
				w.log.Error().Err(err).Msg("cleanup worker error")
			}
			if n > 0 {
				w.log.Info().Int("count", n).Msg("stale media removed")
			}
		}
	}
}
