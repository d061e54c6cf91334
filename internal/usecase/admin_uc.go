package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"simvid/internal/domain"
	"simvid/internal/domain/model"
	"simvid/internal/domain/ports/repository"
)

// DashboardStats are the aggregate counters shown on the admin dashboard.
type DashboardStats struct {
	Sessions       int    `json:"sessions"`
	AudioFiles     int    `json:"audio_files"`
	Videos         int    `json:"videos"`
	TotalSize      int64  `json:"total_size"`
	TotalSizeHuman string `json:"total_size_human"`
}

// DashboardData is the full admin inventory payload.
type DashboardData struct {
	Stats    DashboardStats       `json:"stats"`
	Sessions []*model.SessionInfo `json:"sessions"`
	Audio    []*model.AudioInfo   `json:"audio"`
	Videos   []*model.VideoInfo   `json:"videos"`
}

// AdminUseCase backs the management surface: inventory, targeted
// deletes and the manual cleanup trigger.
type AdminUseCase interface {
	Data(ctx context.Context) (*DashboardData, error)
	PreviewImage(ctx context.Context, sessionID, name string) (string, error)
	PreviewAudio(ctx context.Context, audioID string) (string, error)
	PreviewVideo(ctx context.Context, videoID string) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteAudio(ctx context.Context, audioID string) error
	DeleteVideo(ctx context.Context, videoID string) error
	Cleanup(ctx context.Context) (int, error)
}

var _ AdminUseCase = (*adminUseCase)(nil)

type adminUseCase struct {
	media     repository.MediaStore
	retention time.Duration
	log       *zerolog.Logger
}

func NewAdminUseCase(media repository.MediaStore, retention time.Duration, logger *zerolog.Logger) AdminUseCase {
	l := logger.With().Str("component", "AdminUseCase").Logger()
	return &adminUseCase{media: media, retention: retention, log: &l}
}

func (uc *adminUseCase) Data(ctx context.Context) (*DashboardData, error) {
	sessions, err := uc.media.ListSessions()
	if err != nil {
		return nil, err
	}
	audio, err := uc.media.ListAudio()
	if err != nil {
		return nil, err
	}
	videos, err := uc.media.ListVideos()
	if err != nil {
		return nil, err
	}

	var total int64
	for _, s := range sessions {
		total += s.TotalSize
	}
	for _, a := range audio {
		total += a.Size
	}
	for _, v := range videos {
		total += v.Size
	}

	return &DashboardData{
		Stats: DashboardStats{
			Sessions:       len(sessions),
			AudioFiles:     len(audio),
			Videos:         len(videos),
			TotalSize:      total,
			TotalSizeHuman: humanize.Bytes(uint64(total)),
		},
		Sessions: sessions,
		Audio:    audio,
		Videos:   videos,
	}, nil
}

func (uc *adminUseCase) PreviewImage(ctx context.Context, sessionID, name string) (string, error) {
	if err := requireUUID(sessionID); err != nil {
		return "", err
	}
	if name == "" {
		return "", fmt.Errorf("%w: file name is required", domain.ErrInvalidArgument)
	}
	return uc.media.SessionImagePath(sessionID, name)
}

func (uc *adminUseCase) PreviewAudio(ctx context.Context, audioID string) (string, error) {
	if err := requireUUID(audioID); err != nil {
		return "", err
	}
	return uc.media.FindAudio(audioID)
}

func (uc *adminUseCase) PreviewVideo(ctx context.Context, videoID string) (string, error) {
	if err := requireUUID(videoID); err != nil {
		return "", err
	}
	return uc.media.FindVideo(videoID)
}

func (uc *adminUseCase) DeleteSession(ctx context.Context, sessionID string) error {
	if err := requireUUID(sessionID); err != nil {
		return err
	}
	uc.log.Info().Str("session_id", sessionID).Msg("admin delete session")
	return uc.media.DeleteSession(sessionID)
}

func (uc *adminUseCase) DeleteAudio(ctx context.Context, audioID string) error {
	if err := requireUUID(audioID); err != nil {
		return err
	}
	uc.log.Info().Str("audio_id", audioID).Msg("admin delete audio")
	return uc.media.DeleteAudio(audioID)
}

func (uc *adminUseCase) DeleteVideo(ctx context.Context, videoID string) error {
	if err := requireUUID(videoID); err != nil {
		return err
	}
	uc.log.Info().Str("video_id", videoID).Msg("admin delete video")
	return uc.media.DeleteVideo(videoID)
}

func (uc *adminUseCase) Cleanup(ctx context.Context) (int, error) {
	removed, err := uc.media.CleanOlderThan(uc.retention)
	if err != nil {
		return 0, err
	}
	uc.log.Info().Int("removed", removed).Msg("manual cleanup finished")
	return removed, nil
}

func requireUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: malformed identifier", domain.ErrInvalidArgument)
	}
	return nil
}
