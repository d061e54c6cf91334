package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"simvid/internal/domain/ports/repository"
)

// TokenPurgeWorker periodically drops expired admin tokens so the
// token store only holds sessions that can still validate.
type TokenPurgeWorker struct {
	interval time.Duration
	tokens   repository.AdminTokenRepository
	log      *zerolog.Logger
}

func NewTokenPurgeWorker(interval time.Duration, tokens repository.AdminTokenRepository, logger *zerolog.Logger) *TokenPurgeWorker {
	l := logger.With().Str("component", "TokenPurgeWorker").Logger()
	if interval <= 0 {
		interval = time.Hour
	}
	return &TokenPurgeWorker{interval: interval, tokens: tokens, log: &l}
}

func (w *TokenPurgeWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("starting token purge worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping token purge worker")
			return ctx.Err()
		case <-ticker.C:
			if err := w.tokens.PurgeExpired(ctx); err != nil {
				w.log.Error().Err(err).Msg("token purge error")
			}
		}
	}
}
