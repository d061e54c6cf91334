package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"simvid/internal/domain"
	"simvid/internal/domain/ports/repository"
)

// DownloadUseCase resolves a generated video identifier to its file on
// disk for the download handler to serve.
type DownloadUseCase interface {
	Resolve(ctx context.Context, videoID string) (string, error)
}

var _ DownloadUseCase = (*downloadUseCase)(nil)

type downloadUseCase struct {
	media repository.MediaStore
}

func NewDownloadUseCase(media repository.MediaStore) DownloadUseCase {
	return &downloadUseCase{media: media}
}

func (uc *downloadUseCase) Resolve(ctx context.Context, videoID string) (string, error) {
	// The store resolves ids by glob, so anything that is not a UUID
	// must be stopped here.
	if _, err := uuid.Parse(videoID); err != nil {
		return "", fmt.Errorf("%w: malformed video id", domain.ErrInvalidArgument)
	}
	path, err := uc.media.FindVideo(videoID)
	if err != nil {
		return "", domain.ErrVideoNotFound
	}
	return path, nil
}
