package usecase

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"simvid/internal/domain"
	"simvid/internal/domain/model"
	"simvid/internal/domain/ports/adapter"
	"simvid/internal/domain/ports/repository"
	"simvid/internal/infra/metrics"
)

// youtubeHosts is the accepted set for the download endpoint.
var youtubeHosts = map[string]bool{
	"youtube.com":     true,
	"www.youtube.com": true,
	"m.youtube.com":   true,
	"youtu.be":        true,
}

const maxTrimSeconds = 7200

// AudioAsset describes one stored audio track returned to the client.
type AudioAsset struct {
	AudioID  string  `json:"audio_id"`
	Title    string  `json:"title,omitempty"`
	Duration float64 `json:"duration"`
}

// AudioUseCase stores audio either from a direct file upload or by
// pulling the audio track of a YouTube video.
type AudioUseCase interface {
	Upload(ctx context.Context, filename string, r *UploadFile) (*AudioAsset, error)
	DownloadYouTube(ctx context.Context, rawURL string, trim *model.TrimWindow) (*AudioAsset, error)
}

var _ AudioUseCase = (*audioUseCase)(nil)

type audioUseCase struct {
	media   repository.MediaStore
	fetcher adapter.AudioFetcher
	prober  adapter.AudioProber
	log     *zerolog.Logger
}

func NewAudioUseCase(
	media repository.MediaStore,
	fetcher adapter.AudioFetcher,
	prober adapter.AudioProber,
	logger *zerolog.Logger,
) AudioUseCase {
	l := logger.With().Str("component", "AudioUseCase").Logger()
	return &audioUseCase{media: media, fetcher: fetcher, prober: prober, log: &l}
}

func (uc *audioUseCase) Upload(ctx context.Context, filename string, f *UploadFile) (*AudioAsset, error) {
	if f == nil || filename == "" {
		return nil, fmt.Errorf("%w: no audio file provided", domain.ErrInvalidArgument)
	}
	if !model.AllowedAudioFile(filename) {
		return nil, fmt.Errorf("%w: file type not allowed: %s", domain.ErrInvalidArgument, filename)
	}

	audioID := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	path, err := uc.media.SaveAudio(ctx, audioID, ext, f.R)
	if err != nil {
		return nil, err
	}
	metrics.ObserveUpload("audio", f.Size)

	duration, err := uc.prober.Duration(ctx, path)
	if err != nil {
		// An unreadable file would fail composition anyway; reject it now.
		_ = uc.media.DeleteAudio(audioID)
		return nil, fmt.Errorf("%w: audio file is not decodable", domain.ErrInvalidArgument)
	}

	uc.log.Info().Str("audio_id", audioID).Float64("duration", duration).Msg("audio uploaded")
	return &AudioAsset{AudioID: audioID, Title: filename, Duration: duration}, nil
}

func (uc *audioUseCase) DownloadYouTube(ctx context.Context, rawURL string, trim *model.TrimWindow) (*AudioAsset, error) {
	if err := validateYouTubeURL(rawURL); err != nil {
		return nil, err
	}
	if trim != nil {
		if err := validateTrim(*trim); err != nil {
			return nil, err
		}
	}

	audioID := uuid.NewString()
	fetched, err := uc.fetcher.Fetch(ctx, rawURL, audioID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOperationFailed, err)
	}

	duration := fetched.Duration
	if trim != nil {
		if err := uc.media.SaveTrim(audioID, *trim); err != nil {
			return nil, err
		}
		duration = effectiveDuration(fetched.Duration, *trim)
	}

	uc.log.Info().Str("audio_id", audioID).Str("title", fetched.Title).Float64("duration", duration).Msg("youtube audio stored")
	return &AudioAsset{AudioID: audioID, Title: fetched.Title, Duration: duration}, nil
}

func validateYouTubeURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: malformed URL", domain.ErrInvalidArgument)
	}
	if !youtubeHosts[strings.ToLower(u.Hostname())] {
		return fmt.Errorf("%w: only YouTube URLs are accepted", domain.ErrInvalidArgument)
	}
	return nil
}

func validateTrim(trim model.TrimWindow) error {
	if trim.Start < 0 || trim.Start > maxTrimSeconds || trim.End < 0 || trim.End > maxTrimSeconds {
		return fmt.Errorf("%w: trim bounds must be within 0 and %d seconds", domain.ErrInvalidArgument, maxTrimSeconds)
	}
	if trim.End > 0 && trim.End <= trim.Start {
		return fmt.Errorf("%w: trim end must be after trim start", domain.ErrInvalidArgument)
	}
	return nil
}

// effectiveDuration is the audible length after the trim window is applied.
func effectiveDuration(total float64, trim model.TrimWindow) float64 {
	end := total
	if trim.End > 0 && trim.End < total {
		end = trim.End
	}
	if trim.Start >= end {
		return 0
	}
	return end - trim.Start
}
