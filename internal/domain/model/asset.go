package model

import (
	"path/filepath"
	"strings"
	"time"
)

var (
	imageExts = map[string]bool{
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true, ".webp": true,
	}
	audioExts = map[string]bool{
		".mp3": true, ".wav": true, ".m4a": true, ".aac": true, ".ogg": true, ".webm": true, ".opus": true,
	}
)

func AllowedImageFile(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

func AllowedAudioFile(name string) bool {
	return audioExts[strings.ToLower(filepath.Ext(name))]
}

// StoredFile describes one file inside a session or asset folder.
type StoredFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// SessionInfo is the admin-facing inventory of one upload session.
type SessionInfo struct {
	SessionID  string       `json:"session_id"`
	CreatedAt  time.Time    `json:"created"`
	Images     []StoredFile `json:"images"`
	ImageCount int          `json:"image_count"`
	TotalSize  int64        `json:"total_size"`
}

// AudioInfo is the admin-facing inventory of one stored audio asset.
type AudioInfo struct {
	AudioID   string    `json:"id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created"`
	Trimmed   bool      `json:"trimmed"`
}

// VideoInfo is the admin-facing inventory of one generated video.
type VideoInfo struct {
	VideoID   string    `json:"id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created"`
}
