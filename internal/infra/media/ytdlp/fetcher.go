package ytdlp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"simvid/internal/domain"
	"simvid/internal/domain/ports/adapter"
	"simvid/internal/domain/ports/repository"
)

var _ adapter.AudioFetcher = (*Fetcher)(nil)

// Fetcher acquires the best audio track of a video URL with the yt-dlp
// binary and stores it in the media store's audio area.
type Fetcher struct {
	binary string
	media  repository.MediaStore
	log    *zerolog.Logger
}

func NewFetcher(binary string, media repository.MediaStore, logger *zerolog.Logger) (*Fetcher, error) {
	if binary == "" {
		binary = "yt-dlp"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return nil, fmt.Errorf("yt-dlp binary not found: %w", err)
	}
	l := logger.With().Str("component", "ytdlp").Logger()
	return &Fetcher{binary: binary, media: media, log: &l}, nil
}

// infoJSON is the subset of yt-dlp --dump-json output we care about.
type infoJSON struct {
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
}

func (f *Fetcher) Fetch(ctx context.Context, url, audioID string) (*adapter.FetchedAudio, error) {
	info, err := f.extractInfo(ctx, url)
	if err != nil {
		return nil, err
	}

	args := []string{
		"--no-warnings",
		"--newline",
		"-f", "bestaudio/best",
		"-o", f.media.AudioPathTemplate(audioID),
		url,
	}
	cmd := exec.CommandContext(ctx, f.binary, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start yt-dlp: %w", err)
	}

	var lastError string
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		f.log.Debug().Str("ytdlp", line).Msg("yt-dlp output")
		if strings.HasPrefix(line, "ERROR:") {
			lastError = strings.TrimSpace(strings.TrimPrefix(line, "ERROR:"))
		}
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if lastError != "" {
			return nil, fmt.Errorf("yt-dlp: %s", lastError)
		}
		return nil, fmt.Errorf("yt-dlp: %w", err)
	}

	path, err := f.media.FindAudio(audioID)
	if err != nil {
		return nil, domain.ErrAudioNotFound
	}
	f.log.Info().Str("url", url).Str("audio_id", audioID).Msg("audio download complete")
	return &adapter.FetchedAudio{Title: info.Title, Duration: info.Duration, Path: path}, nil
}

// extractInfo runs yt-dlp --dump-json to get metadata without downloading.
func (f *Fetcher) extractInfo(ctx context.Context, url string) (*infoJSON, error) {
	cmd := exec.CommandContext(ctx, f.binary, "--dump-json", "--no-warnings", "--no-download", url)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp info: %w", err)
	}
	var info infoJSON
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("parse info: %w", err)
	}
	return &info, nil
}
