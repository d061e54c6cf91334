//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"simvid/internal/domain"
	"simvid/internal/domain/model"
	"simvid/internal/usecase"
)

func inlineGenerateUC(media *mockMediaStore, jobs *mockJobRepo) usecase.GenerateUseCase {
	runner := usecase.NewJobRunner(jobs, media, &mockComposer{}, "", time.Minute, "inline", newTestLogger())
	return usecase.NewGenerateUseCase(jobs, media, usecase.NewInlineDispatcher(runner), newTestLogger())
}

func TestGenerateUseCase_Submit(t *testing.T) {
	ctx := context.Background()
	sessionID := uuid.NewString()

	t.Run("should reject an out-of-range duration before creating a job", func(t *testing.T) {
		media := newMockMediaStore()
		jobs := newMockJobRepo()
		uc := inlineGenerateUC(media, jobs)

		_, err := uc.Submit(ctx, model.GenerateRequest{SessionID: sessionID, Duration: 11})
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
		if len(jobs.jobs) != 0 {
			t.Error("expected no job record for a rejected request")
		}
	})

	t.Run("should reject an unknown resolution", func(t *testing.T) {
		media := newMockMediaStore()
		uc := inlineGenerateUC(media, newMockJobRepo())

		_, err := uc.Submit(ctx, model.GenerateRequest{SessionID: sessionID, Resolution: "123x456"})
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("should reject a missing session", func(t *testing.T) {
		media := newMockMediaStore()
		uc := inlineGenerateUC(media, newMockJobRepo())

		_, err := uc.Submit(ctx, model.GenerateRequest{SessionID: sessionID})
		if !errors.Is(err, domain.ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("should reject a session with no images", func(t *testing.T) {
		media := newMockMediaStore()
		media.sessions[sessionID] = nil
		uc := inlineGenerateUC(media, newMockJobRepo())

		_, err := uc.Submit(ctx, model.GenerateRequest{SessionID: sessionID})
		if !errors.Is(err, domain.ErrSessionEmpty) {
			t.Fatalf("expected ErrSessionEmpty, got %v", err)
		}
	})

	t.Run("should reject a reference to missing audio", func(t *testing.T) {
		media := newMockMediaStore()
		media.sessions[sessionID] = []string{"000_a.jpg"}
		uc := inlineGenerateUC(media, newMockJobRepo())

		_, err := uc.Submit(ctx, model.GenerateRequest{SessionID: sessionID, AudioID: uuid.NewString()})
		if !errors.Is(err, domain.ErrAudioNotFound) {
			t.Fatalf("expected ErrAudioNotFound, got %v", err)
		}
	})

	t.Run("inline mode should return a terminal succeeded job", func(t *testing.T) {
		media := newMockMediaStore()
		media.sessions[sessionID] = []string{"000_a.jpg", "001_b.jpg"}
		jobs := newMockJobRepo()
		uc := inlineGenerateUC(media, jobs)

		job, err := uc.Submit(ctx, model.GenerateRequest{SessionID: sessionID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if job.Status != model.JobStatusSucceeded {
			t.Fatalf("expected succeeded, got %s", job.Status)
		}
		if job.Result == nil || job.Result.VideoID == "" {
			t.Fatal("expected a result with a video id")
		}
		if job.Result.DownloadURL != "/api/download/"+job.Result.VideoID {
			t.Errorf("unexpected download url %s", job.Result.DownloadURL)
		}
	})

	t.Run("queue mode should enqueue a payload and return a queued job", func(t *testing.T) {
		media := newMockMediaStore()
		media.sessions[sessionID] = []string{"000_a.jpg"}
		jobs := newMockJobRepo()
		queue := &mockQueue{}
		uc := usecase.NewGenerateUseCase(jobs, media, usecase.NewQueueDispatcher(queue), newTestLogger())

		job, err := uc.Submit(ctx, model.GenerateRequest{SessionID: sessionID, Duration: 3})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if job.Status != model.JobStatusQueued {
			t.Fatalf("expected queued, got %s", job.Status)
		}
		if len(queue.payloads) != 1 {
			t.Fatalf("expected one payload, got %d", len(queue.payloads))
		}
		p := queue.payloads[0]
		if p.JobID != job.ID || p.SessionID != sessionID || p.Duration != 3 {
			t.Errorf("payload does not match request: %+v", p)
		}
		// Defaults were applied before dispatch.
		if p.Resolution != model.DefaultResolution {
			t.Errorf("expected default resolution in payload, got %s", p.Resolution)
		}
	})

	t.Run("should fail the job when the broker is down", func(t *testing.T) {
		media := newMockMediaStore()
		media.sessions[sessionID] = []string{"000_a.jpg"}
		jobs := newMockJobRepo()
		queue := &mockQueue{err: errors.New("connection refused")}
		uc := usecase.NewGenerateUseCase(jobs, media, usecase.NewQueueDispatcher(queue), newTestLogger())

		_, err := uc.Submit(ctx, model.GenerateRequest{SessionID: sessionID})
		if !errors.Is(err, domain.ErrQueueUnavailable) {
			t.Fatalf("expected ErrQueueUnavailable, got %v", err)
		}
		for _, j := range jobs.jobs {
			if j.Status != model.JobStatusFailed {
				t.Errorf("expected the orphaned job to be failed, got %s", j.Status)
			}
		}
	})
}

func TestJobRunner_Run(t *testing.T) {
	ctx := context.Background()
	sessionID := uuid.NewString()

	t.Run("should fail the job when composition fails and keep the error", func(t *testing.T) {
		media := newMockMediaStore()
		media.sessions[sessionID] = []string{"000_a.jpg"}
		jobs := newMockJobRepo()
		runner := usecase.NewJobRunner(jobs, media, &mockComposer{err: errors.New("encoder exploded")}, "", time.Minute, "queue", newTestLogger())

		job := model.NewJob("job-err")
		_ = jobs.Create(ctx, job)
		runner.Run(ctx, job, model.GenerateRequest{SessionID: sessionID, Duration: 2, Transition: model.TransitionNone, Resolution: model.DefaultResolution})

		stored, err := jobs.Find(ctx, "job-err")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stored.Status != model.JobStatusFailed {
			t.Fatalf("expected failed, got %s", stored.Status)
		}
		if stored.Error != "encoder exploded" {
			t.Errorf("expected error message to be kept, got %q", stored.Error)
		}
	})

	t.Run("should prefix the download url with the configured base url", func(t *testing.T) {
		media := newMockMediaStore()
		media.sessions[sessionID] = []string{"000_a.jpg"}
		jobs := newMockJobRepo()
		runner := usecase.NewJobRunner(jobs, media, &mockComposer{}, "https://vid.example.com/", time.Minute, "queue", newTestLogger())

		job := model.NewJob("job-base")
		_ = jobs.Create(ctx, job)
		runner.Run(ctx, job, model.GenerateRequest{SessionID: sessionID, Duration: 2, Transition: model.TransitionNone, Resolution: model.DefaultResolution})

		stored, _ := jobs.Find(ctx, "job-base")
		if stored.Result == nil {
			t.Fatalf("expected a result, job is %+v", stored)
		}
		want := "https://vid.example.com/api/download/" + stored.Result.VideoID
		if stored.Result.DownloadURL != want {
			t.Errorf("expected %s, got %s", want, stored.Result.DownloadURL)
		}
	})

	t.Run("should compose without audio when the asset vanished", func(t *testing.T) {
		media := newMockMediaStore()
		media.sessions[sessionID] = []string{"000_a.jpg"}
		jobs := newMockJobRepo()
		runner := usecase.NewJobRunner(jobs, media, &mockComposer{}, "", time.Minute, "queue", newTestLogger())

		job := model.NewJob("job-noaudio")
		_ = jobs.Create(ctx, job)
		runner.Run(ctx, job, model.GenerateRequest{
			SessionID: sessionID, AudioID: uuid.NewString(),
			Duration: 2, Transition: model.TransitionNone, Resolution: model.DefaultResolution,
		})

		stored, _ := jobs.Find(ctx, "job-noaudio")
		if stored.Status != model.JobStatusSucceeded {
			t.Fatalf("expected succeeded, got %s (%s)", stored.Status, stored.Error)
		}
	})
}
