package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"simvid/internal/domain"
	"simvid/internal/domain/model"
	"simvid/internal/domain/ports/repository"
)

var _ repository.MediaStore = (*FileStore)(nil)

// FileStore lays media out under a single data root:
//
//	<root>/uploads/<session>/<seq>_<name>
//	<root>/audio/<id>.<ext>   (+ <id>_trim.json sidecar)
//	<root>/output/<id>.mp4
//
// One root keeps single-volume deployments trivial. All public paths go
// through safeJoin so a crafted identifier can never escape the root.
type FileStore struct {
	uploadDir string
	audioDir  string
	outputDir string
}

func NewFileStore(dataDir string) (*FileStore, error) {
	s := &FileStore{
		uploadDir: filepath.Join(dataDir, "uploads"),
		audioDir:  filepath.Join(dataDir, "audio"),
		outputDir: filepath.Join(dataDir, "output"),
	}
	for _, dir := range []string{s.uploadDir, s.audioDir, s.outputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return s, nil
}

// safeJoin joins below base and rejects directory traversal.
func safeJoin(base string, parts ...string) (string, error) {
	p := filepath.Join(append([]string{base}, parts...)...)
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if absPath != absBase && !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", domain.ErrInvalidArgument
	}
	return absPath, nil
}

// ---- sessions ----

func (s *FileStore) SaveSessionImage(ctx context.Context, sessionID string, seq int, name string, r io.Reader) (model.StoredFile, error) {
	// Zero-padded sequence prefix keeps lexical order equal to upload order.
	stored := fmt.Sprintf("%03d_%s", seq, sanitizeName(name))
	path, err := safeJoin(s.uploadDir, sessionID, stored)
	if err != nil {
		return model.StoredFile{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return model.StoredFile{}, err
	}
	f, err := os.Create(path)
	if err != nil {
		return model.StoredFile{}, err
	}
	defer f.Close()
	n, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return model.StoredFile{}, err
	}
	return model.StoredFile{Name: stored, Size: n}, nil
}

func (s *FileStore) SessionExists(sessionID string) bool {
	path, err := safeJoin(s.uploadDir, sessionID)
	if err != nil {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func (s *FileStore) SessionImages(sessionID string) ([]string, error) {
	dir, err := safeJoin(s.uploadDir, sessionID)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	var images []string
	for _, e := range entries {
		if e.IsDir() || !model.AllowedImageFile(e.Name()) {
			continue
		}
		images = append(images, filepath.Join(dir, e.Name()))
	}
	sort.Strings(images)
	return images, nil
}

func (s *FileStore) SessionImagePath(sessionID, name string) (string, error) {
	path, err := safeJoin(s.uploadDir, sessionID, name)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return "", domain.ErrNotFound
	}
	return path, nil
}

func (s *FileStore) DeleteSession(sessionID string) error {
	dir, err := safeJoin(s.uploadDir, sessionID)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return domain.ErrSessionNotFound
	}
	return os.RemoveAll(dir)
}

// ---- audio ----

func (s *FileStore) SaveAudio(ctx context.Context, audioID, ext string, r io.Reader) (string, error) {
	path, err := safeJoin(s.audioDir, audioID+"."+strings.TrimPrefix(ext, "."))
	if err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func (s *FileStore) FindAudio(audioID string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.audioDir, audioID+".*"))
	if err != nil {
		return "", err
	}
	for _, m := range matches {
		if strings.HasSuffix(m, "_trim.json") {
			continue
		}
		return m, nil
	}
	return "", domain.ErrAudioNotFound
}

// AudioPathTemplate is the yt-dlp output template for a new asset; the
// extension placeholder is filled in by the downloader.
func (s *FileStore) AudioPathTemplate(audioID string) string {
	return filepath.Join(s.audioDir, audioID+".%(ext)s")
}

func (s *FileStore) trimPath(audioID string) (string, error) {
	return safeJoin(s.audioDir, audioID+"_trim.json")
}

func (s *FileStore) SaveTrim(audioID string, trim model.TrimWindow) error {
	path, err := s.trimPath(audioID)
	if err != nil {
		return err
	}
	data, err := json.Marshal(trim)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *FileStore) LoadTrim(audioID string) (*model.TrimWindow, error) {
	path, err := s.trimPath(audioID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // no trim requested
		}
		return nil, err
	}
	var trim model.TrimWindow
	if err := json.Unmarshal(data, &trim); err != nil {
		return nil, err
	}
	return &trim, nil
}

func (s *FileStore) DeleteAudio(audioID string) error {
	path, err := s.FindAudio(audioID)
	if err != nil {
		return err
	}
	if tp, err := s.trimPath(audioID); err == nil {
		os.Remove(tp)
	}
	return os.Remove(path)
}

// ---- videos ----

func (s *FileStore) VideoPath(videoID string) string {
	return filepath.Join(s.outputDir, videoID+".mp4")
}

func (s *FileStore) FindVideo(videoID string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.outputDir, videoID+".*"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", domain.ErrVideoNotFound
	}
	return matches[0], nil
}

func (s *FileStore) DeleteVideo(videoID string) error {
	path, err := s.FindVideo(videoID)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// ---- admin inventory ----

func (s *FileStore) ListSessions() ([]*model.SessionInfo, error) {
	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		return nil, err
	}
	out := make([]*model.SessionInfo, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(s.uploadDir, e.Name())
		fi, err := os.Stat(dir)
		if err != nil {
			continue
		}
		info := &model.SessionInfo{SessionID: e.Name(), CreatedAt: fi.ModTime()}
		files, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, f := range files {
			st, err := f.Info()
			if err != nil || st.IsDir() {
				continue
			}
			info.Images = append(info.Images, model.StoredFile{Name: f.Name(), Size: st.Size()})
			info.TotalSize += st.Size()
		}
		info.ImageCount = len(info.Images)
		if info.ImageCount > 0 {
			out = append(out, info)
		}
	}
	return out, nil
}

func (s *FileStore) ListAudio() ([]*model.AudioInfo, error) {
	entries, err := os.ReadDir(s.audioDir)
	if err != nil {
		return nil, err
	}
	out := make([]*model.AudioInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), "_trim.json") {
			continue
		}
		st, err := e.Info()
		if err != nil {
			continue
		}
		id := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		_, trimErr := os.Stat(filepath.Join(s.audioDir, id+"_trim.json"))
		out = append(out, &model.AudioInfo{
			AudioID:   id,
			Name:      e.Name(),
			Size:      st.Size(),
			CreatedAt: st.ModTime(),
			Trimmed:   trimErr == nil,
		})
	}
	return out, nil
}

func (s *FileStore) ListVideos() ([]*model.VideoInfo, error) {
	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		return nil, err
	}
	out := make([]*model.VideoInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".mp4") {
			continue
		}
		st, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, &model.VideoInfo{
			VideoID:   strings.TrimSuffix(e.Name(), ".mp4"),
			Name:      e.Name(),
			Size:      st.Size(),
			CreatedAt: st.ModTime(),
		})
	}
	return out, nil
}

// ---- retention ----

func (s *FileStore) CleanOlderThan(age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)
	deleted := 0
	for _, dir := range []string{s.uploadDir, s.audioDir, s.outputDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			st, err := e.Info()
			if err != nil || st.ModTime().After(cutoff) {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if err := os.RemoveAll(path); err == nil {
				deleted++
			}
		}
	}
	return deleted, nil
}

// sanitizeName strips path separators and control characters, keeping a
// predictable file name for the stored copy.
func sanitizeName(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
