package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"simvid/internal/domain"
	"simvid/internal/domain/model"
	"simvid/internal/domain/ports/repository"
	"simvid/internal/infra/metrics"
)

// UploadFile is one file pulled out of a multipart request.
type UploadFile struct {
	Name string
	Size int64
	R    io.Reader
}

// SessionUpload is the outcome of an image upload call.
type SessionUpload struct {
	SessionID string             `json:"session_id"`
	Files     []model.StoredFile `json:"files"`
	Count     int                `json:"count"`
}

// SessionUseCase manages upload sessions. A session is created on the
// first upload and can be extended by subsequent uploads carrying the
// same identifier.
type SessionUseCase interface {
	AddImages(ctx context.Context, sessionID string, files []UploadFile) (*SessionUpload, error)
}

var _ SessionUseCase = (*sessionUseCase)(nil)

type sessionUseCase struct {
	media     repository.MediaStore
	maxImages int
	log       *zerolog.Logger
}

func NewSessionUseCase(media repository.MediaStore, maxImages int, logger *zerolog.Logger) SessionUseCase {
	l := logger.With().Str("component", "SessionUseCase").Logger()
	if maxImages <= 0 {
		maxImages = 50
	}
	return &sessionUseCase{media: media, maxImages: maxImages, log: &l}
}

func (uc *sessionUseCase) AddImages(ctx context.Context, sessionID string, files []UploadFile) (*SessionUpload, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files provided", domain.ErrInvalidArgument)
	}
	for _, f := range files {
		if !model.AllowedImageFile(f.Name) {
			return nil, fmt.Errorf("%w: file type not allowed: %s", domain.ErrInvalidArgument, f.Name)
		}
	}

	var existing int
	switch {
	case sessionID == "":
		sessionID = uuid.NewString()
	default:
		if _, err := uuid.Parse(sessionID); err != nil {
			return nil, fmt.Errorf("%w: malformed session_id", domain.ErrInvalidArgument)
		}
		if uc.media.SessionExists(sessionID) {
			names, err := uc.media.SessionImages(sessionID)
			if err != nil {
				return nil, err
			}
			existing = len(names)
		}
	}
	if existing+len(files) > uc.maxImages {
		return nil, fmt.Errorf("%w: session image limit is %d", domain.ErrInvalidArgument, uc.maxImages)
	}

	stored := make([]model.StoredFile, 0, len(files))
	for i, f := range files {
		sf, err := uc.media.SaveSessionImage(ctx, sessionID, existing+i, f.Name, f.R)
		if err != nil {
			return nil, err
		}
		metrics.ObserveUpload("image", sf.Size)
		stored = append(stored, sf)
	}

	uc.log.Info().Str("session_id", sessionID).Int("files", len(stored)).Int("total", existing+len(stored)).Msg("images stored")
	return &SessionUpload{SessionID: sessionID, Files: stored, Count: existing + len(stored)}, nil
}
