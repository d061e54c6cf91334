package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound         = errors.New("entity not found")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionEmpty     = errors.New("no images found in session")
	ErrAudioNotFound    = errors.New("audio not found")
	ErrVideoNotFound    = errors.New("video not found")
	ErrJobNotFound      = errors.New("job not found")
	ErrQueueUnavailable = errors.New("queue unavailable")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrOperationFailed  = errors.New("operation failed")
)
