//go:build !integration

package web

import (
	"context"

	"github.com/rs/zerolog"

	"simvid/internal/domain"
	"simvid/internal/domain/model"
	"simvid/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// --- Use case stubs ---

type stubSessionUC struct {
	res *usecase.SessionUpload
	err error
}

func (s *stubSessionUC) AddImages(ctx context.Context, sessionID string, files []usecase.UploadFile) (*usecase.SessionUpload, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.res, nil
}

type stubAudioUC struct {
	asset   *usecase.AudioAsset
	err     error
	lastURL string
}

func (s *stubAudioUC) Upload(ctx context.Context, filename string, f *usecase.UploadFile) (*usecase.AudioAsset, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.asset, nil
}

func (s *stubAudioUC) DownloadYouTube(ctx context.Context, rawURL string, trim *model.TrimWindow) (*usecase.AudioAsset, error) {
	s.lastURL = rawURL
	if s.err != nil {
		return nil, s.err
	}
	return s.asset, nil
}

type stubGenerateUC struct {
	job  *model.Job
	err  error
	mode string
	last model.GenerateRequest
}

func (s *stubGenerateUC) Submit(ctx context.Context, req model.GenerateRequest) (*model.Job, error) {
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return s.job, nil
}

func (s *stubGenerateUC) Mode() string { return s.mode }

type stubJobUC struct {
	jobs map[string]*model.Job
	err  error
}

func (s *stubJobUC) Status(ctx context.Context, jobID string) (*model.Job, error) {
	if s.err != nil {
		return nil, s.err
	}
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return job, nil
}

type stubDownloadUC struct {
	path string
	err  error
}

func (s *stubDownloadUC) Resolve(ctx context.Context, videoID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.path, nil
}

type stubAdminUC struct {
	data    *usecase.DashboardData
	path    string
	err     error
	removed int
	deleted []string
}

func (s *stubAdminUC) PreviewImage(ctx context.Context, sessionID, name string) (string, error) {
	return s.path, s.err
}

func (s *stubAdminUC) PreviewAudio(ctx context.Context, audioID string) (string, error) {
	return s.path, s.err
}

func (s *stubAdminUC) PreviewVideo(ctx context.Context, videoID string) (string, error) {
	return s.path, s.err
}

func (s *stubAdminUC) Data(ctx context.Context) (*usecase.DashboardData, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func (s *stubAdminUC) DeleteSession(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, "session:"+id)
	return s.err
}

func (s *stubAdminUC) DeleteAudio(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, "audio:"+id)
	return s.err
}

func (s *stubAdminUC) DeleteVideo(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, "video:"+id)
	return s.err
}

func (s *stubAdminUC) Cleanup(ctx context.Context) (int, error) {
	return s.removed, s.err
}
