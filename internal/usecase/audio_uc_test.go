//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"simvid/internal/domain"
	"simvid/internal/domain/model"
	"simvid/internal/usecase"
)

func TestAudioUseCase_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("should store a decodable audio file and report its duration", func(t *testing.T) {
		media := newMockMediaStore()
		uc := usecase.NewAudioUseCase(media, &mockFetcher{}, &mockProber{duration: 181.5}, newTestLogger())

		asset, err := uc.Upload(ctx, "track.mp3", &usecase.UploadFile{Name: "track.mp3", Size: 1024, R: strings.NewReader("data")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if asset.AudioID == "" {
			t.Fatal("expected an audio id")
		}
		if asset.Duration != 181.5 {
			t.Errorf("expected probed duration, got %g", asset.Duration)
		}
		if _, err := media.FindAudio(asset.AudioID); err != nil {
			t.Errorf("expected the audio to be findable: %v", err)
		}
	})

	t.Run("should reject a disallowed extension", func(t *testing.T) {
		uc := usecase.NewAudioUseCase(newMockMediaStore(), &mockFetcher{}, &mockProber{}, newTestLogger())

		_, err := uc.Upload(ctx, "track.exe", &usecase.UploadFile{Name: "track.exe", R: strings.NewReader("x")})
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("should delete the file when it cannot be probed", func(t *testing.T) {
		media := newMockMediaStore()
		uc := usecase.NewAudioUseCase(media, &mockFetcher{}, &mockProber{err: errors.New("not audio")}, newTestLogger())

		_, err := uc.Upload(ctx, "track.mp3", &usecase.UploadFile{Name: "track.mp3", R: strings.NewReader("x")})
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
		if len(media.audio) != 0 {
			t.Error("expected the undecodable file to be removed")
		}
	})
}

func TestAudioUseCase_DownloadYouTube(t *testing.T) {
	ctx := context.Background()

	t.Run("should accept youtube hosts only", func(t *testing.T) {
		media := newMockMediaStore()
		uc := usecase.NewAudioUseCase(media, &mockFetcher{title: "Song", duration: 240, media: media}, &mockProber{}, newTestLogger())

		for _, ok := range []string{
			"https://www.youtube.com/watch?v=abc",
			"https://youtu.be/abc",
			"http://m.youtube.com/watch?v=abc",
		} {
			if _, err := uc.DownloadYouTube(ctx, ok, nil); err != nil {
				t.Errorf("expected %s to be accepted: %v", ok, err)
			}
		}
		for _, bad := range []string{
			"https://example.com/watch?v=abc",
			"ftp://youtube.com/abc",
			"not a url at all ://",
			"https://youtube.com.evil.net/watch",
		} {
			if _, err := uc.DownloadYouTube(ctx, bad, nil); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("expected %s to be rejected, got %v", bad, err)
			}
		}
	})

	t.Run("should validate the trim window", func(t *testing.T) {
		media := newMockMediaStore()
		uc := usecase.NewAudioUseCase(media, &mockFetcher{duration: 240, media: media}, &mockProber{}, newTestLogger())

		cases := []model.TrimWindow{
			{Start: -1},
			{Start: 0, End: 7201},
			{Start: 60, End: 30},
			{Start: 60, End: 60},
		}
		for _, trim := range cases {
			tr := trim
			if _, err := uc.DownloadYouTube(ctx, "https://youtu.be/abc", &tr); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("expected trim %+v to be rejected, got %v", trim, err)
			}
		}
	})

	t.Run("should persist the trim and report the effective duration", func(t *testing.T) {
		media := newMockMediaStore()
		uc := usecase.NewAudioUseCase(media, &mockFetcher{title: "Song", duration: 240, media: media}, &mockProber{}, newTestLogger())

		asset, err := uc.DownloadYouTube(ctx, "https://youtu.be/abc", &model.TrimWindow{Start: 30, End: 90})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if asset.Duration != 60 {
			t.Errorf("expected effective duration 60, got %g", asset.Duration)
		}
		trim, err := media.LoadTrim(asset.AudioID)
		if err != nil || trim == nil {
			t.Fatalf("expected a stored trim, got %v %v", trim, err)
		}
		if trim.Start != 30 || trim.End != 90 {
			t.Errorf("unexpected stored trim %+v", trim)
		}
	})

	t.Run("should cap the trim end at the track length", func(t *testing.T) {
		media := newMockMediaStore()
		uc := usecase.NewAudioUseCase(media, &mockFetcher{duration: 100, media: media}, &mockProber{}, newTestLogger())

		asset, err := uc.DownloadYouTube(ctx, "https://youtu.be/abc", &model.TrimWindow{Start: 40, End: 500})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if asset.Duration != 60 {
			t.Errorf("expected effective duration 60, got %g", asset.Duration)
		}
	})

	t.Run("should surface fetcher failures as operation errors", func(t *testing.T) {
		media := newMockMediaStore()
		uc := usecase.NewAudioUseCase(media, &mockFetcher{err: errors.New("video unavailable")}, &mockProber{}, newTestLogger())

		_, err := uc.DownloadYouTube(ctx, "https://youtu.be/abc", nil)
		if !errors.Is(err, domain.ErrOperationFailed) {
			t.Fatalf("expected ErrOperationFailed, got %v", err)
		}
	})
}
