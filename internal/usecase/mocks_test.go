//go:build !integration

package usecase_test

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"simvid/internal/domain"
	"simvid/internal/domain/model"
	"simvid/internal/domain/ports/adapter"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// mockMediaStore is a small in-memory media store used by unit tests.
type mockMediaStore struct {
	mu       sync.Mutex
	sessions map[string][]string
	audio    map[string]string
	trims    map[string]model.TrimWindow
	videos   map[string]string
	saveErr  error
	cleaned  int
}

func newMockMediaStore() *mockMediaStore {
	return &mockMediaStore{
		sessions: make(map[string][]string),
		audio:    make(map[string]string),
		trims:    make(map[string]model.TrimWindow),
		videos:   make(map[string]string),
	}
}

func (m *mockMediaStore) SaveSessionImage(ctx context.Context, sessionID string, seq int, name string, r io.Reader) (model.StoredFile, error) {
	if m.saveErr != nil {
		return model.StoredFile{}, m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := fmt.Sprintf("%03d_%s", seq, name)
	m.sessions[sessionID] = append(m.sessions[sessionID], stored)
	return model.StoredFile{Name: stored, Size: 128}, nil
}

func (m *mockMediaStore) SessionExists(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[sessionID]
	return ok
}

func (m *mockMediaStore) SessionImages(sessionID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sessions[sessionID]...), nil
}

func (m *mockMediaStore) SessionImagePath(sessionID, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, stored := range m.sessions[sessionID] {
		if stored == name {
			return "/tmp/uploads/" + sessionID + "/" + name, nil
		}
	}
	return "", domain.ErrNotFound
}

func (m *mockMediaStore) DeleteSession(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sessionID]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(m.sessions, sessionID)
	return nil
}

func (m *mockMediaStore) SaveAudio(ctx context.Context, audioID, ext string, r io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path := "/tmp/audio/" + audioID + ext
	m.audio[audioID] = path
	return path, nil
}

func (m *mockMediaStore) FindAudio(audioID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path, ok := m.audio[audioID]
	if !ok {
		return "", domain.ErrAudioNotFound
	}
	return path, nil
}

func (m *mockMediaStore) AudioPathTemplate(audioID string) string {
	return "/tmp/audio/" + audioID + ".%(ext)s"
}

func (m *mockMediaStore) SaveTrim(audioID string, trim model.TrimWindow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trims[audioID] = trim
	return nil
}

func (m *mockMediaStore) LoadTrim(audioID string) (*model.TrimWindow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	trim, ok := m.trims[audioID]
	if !ok {
		return nil, nil
	}
	cp := trim
	return &cp, nil
}

func (m *mockMediaStore) DeleteAudio(audioID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.audio[audioID]; !ok {
		return domain.ErrAudioNotFound
	}
	delete(m.audio, audioID)
	delete(m.trims, audioID)
	return nil
}

func (m *mockMediaStore) VideoPath(videoID string) string {
	return "/tmp/output/" + videoID + ".mp4"
}

func (m *mockMediaStore) FindVideo(videoID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path, ok := m.videos[videoID]
	if !ok {
		return "", domain.ErrVideoNotFound
	}
	return path, nil
}

func (m *mockMediaStore) DeleteVideo(videoID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.videos[videoID]; !ok {
		return domain.ErrVideoNotFound
	}
	delete(m.videos, videoID)
	return nil
}

func (m *mockMediaStore) ListSessions() ([]*model.SessionInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.SessionInfo, 0, len(m.sessions))
	for id, imgs := range m.sessions {
		out = append(out, &model.SessionInfo{SessionID: id, ImageCount: len(imgs), TotalSize: int64(len(imgs)) * 128})
	}
	return out, nil
}

func (m *mockMediaStore) ListAudio() ([]*model.AudioInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.AudioInfo, 0, len(m.audio))
	for id := range m.audio {
		_, trimmed := m.trims[id]
		out = append(out, &model.AudioInfo{AudioID: id, Size: 256, Trimmed: trimmed})
	}
	return out, nil
}

func (m *mockMediaStore) ListVideos() ([]*model.VideoInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.VideoInfo, 0, len(m.videos))
	for id := range m.videos {
		out = append(out, &model.VideoInfo{VideoID: id, Size: 512})
	}
	return out, nil
}

func (m *mockMediaStore) CleanOlderThan(age time.Duration) (int, error) {
	return m.cleaned, nil
}

// mockJobRepo keeps jobs in a map and records update counts.
type mockJobRepo struct {
	mu      sync.Mutex
	jobs    map[string]*model.Job
	updates int
}

func newMockJobRepo() *mockJobRepo {
	return &mockJobRepo{jobs: make(map[string]*model.Job)}
}

func (m *mockJobRepo) Create(ctx context.Context, job *model.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *job
	m.jobs[job.ID] = &cp
	return nil
}

func (m *mockJobRepo) Update(ctx context.Context, job *model.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *job
	m.jobs[job.ID] = &cp
	m.updates++
	return nil
}

func (m *mockJobRepo) Find(ctx context.Context, id string) (*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	cp := *job
	return &cp, nil
}

// mockQueue records enqueued payloads.
type mockQueue struct {
	mu       sync.Mutex
	payloads []adapter.QueuePayload
	err      error
}

func (m *mockQueue) Enqueue(ctx context.Context, payload adapter.QueuePayload) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads = append(m.payloads, payload)
	return nil
}

func (m *mockQueue) Dequeue(ctx context.Context, wait time.Duration) (*adapter.QueuePayload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.payloads) == 0 {
		return nil, nil
	}
	p := m.payloads[0]
	m.payloads = m.payloads[1:]
	return &p, nil
}

// mockComposer reports fixed progress checkpoints and succeeds.
type mockComposer struct {
	err  error
	size int64
}

func (m *mockComposer) Compose(ctx context.Context, spec adapter.CompositionSpec, onProgress adapter.ProgressFunc) (int64, error) {
	if onProgress != nil {
		onProgress(10, "processing", "")
		onProgress(75, "encoding", "")
	}
	if m.err != nil {
		return 0, m.err
	}
	if m.size == 0 {
		return 2048, nil
	}
	return m.size, nil
}

// mockFetcher returns a canned download result.
type mockFetcher struct {
	err      error
	title    string
	duration float64
	media    *mockMediaStore
}

func (m *mockFetcher) Fetch(ctx context.Context, url, audioID string) (*adapter.FetchedAudio, error) {
	if m.err != nil {
		return nil, m.err
	}
	path := "/tmp/audio/" + audioID + ".m4a"
	if m.media != nil {
		m.media.mu.Lock()
		m.media.audio[audioID] = path
		m.media.mu.Unlock()
	}
	return &adapter.FetchedAudio{Title: m.title, Duration: m.duration, Path: path}, nil
}

// mockProber returns a fixed duration.
type mockProber struct {
	duration float64
	err      error
}

func (m *mockProber) Duration(ctx context.Context, path string) (float64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.duration, nil
}
