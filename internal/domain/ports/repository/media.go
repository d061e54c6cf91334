package repository

import (
	"context"
	"io"
	"time"

	"simvid/internal/domain/model"
)

// MediaStore owns the on-disk layout of uploaded images, audio assets
// and generated videos. All identifiers are validated UUIDs; paths
// returned are absolute and guaranteed to live under the store root.
type MediaStore interface {
	// Sessions (uploaded images).
	SaveSessionImage(ctx context.Context, sessionID string, seq int, name string, r io.Reader) (model.StoredFile, error)
	SessionExists(sessionID string) bool
	SessionImages(sessionID string) ([]string, error)
	// SessionImagePath resolves one stored file by its name inside a
	// session, for preview serving.
	SessionImagePath(sessionID, name string) (string, error)
	DeleteSession(sessionID string) error

	// Audio assets.
	SaveAudio(ctx context.Context, audioID, ext string, r io.Reader) (string, error)
	FindAudio(audioID string) (string, error)
	AudioPathTemplate(audioID string) string
	SaveTrim(audioID string, trim model.TrimWindow) error
	LoadTrim(audioID string) (*model.TrimWindow, error)
	DeleteAudio(audioID string) error

	// Generated videos.
	VideoPath(videoID string) string
	FindVideo(videoID string) (string, error)
	DeleteVideo(videoID string) error

	// Admin inventory.
	ListSessions() ([]*model.SessionInfo, error)
	ListAudio() ([]*model.AudioInfo, error)
	ListVideos() ([]*model.VideoInfo, error)

	// CleanOlderThan removes sessions, audio and videos whose files are
	// older than the given age. Returns the number of entries removed.
	CleanOlderThan(age time.Duration) (int, error)
}
