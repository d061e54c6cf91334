package usecase

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"simvid/internal/domain/model"
	"simvid/internal/domain/ports/adapter"
	"simvid/internal/domain/ports/repository"
	"simvid/internal/infra/metrics"
)

// JobRunner executes one validated generation request to a terminal
// state. Both execution modes converge here: the inline dispatcher calls
// it on the request goroutine, the queue worker calls it per payload.
type JobRunner struct {
	jobs     repository.JobRepository
	media    repository.MediaStore
	composer adapter.VideoComposer
	baseURL  string // optional public prefix for download URLs
	timeout  time.Duration
	mode     string // "inline" | "queue"
	log      *zerolog.Logger
}

func NewJobRunner(
	jobs repository.JobRepository,
	media repository.MediaStore,
	composer adapter.VideoComposer,
	baseURL string,
	timeout time.Duration,
	mode string,
	logger *zerolog.Logger,
) *JobRunner {
	l := logger.With().Str("component", "JobRunner").Str("mode", mode).Logger()
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return &JobRunner{
		jobs:     jobs,
		media:    media,
		composer: composer,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		timeout:  timeout,
		mode:     mode,
		log:      &l,
	}
}

// Run drives the job to succeeded or failed. The final state is always
// persisted with a background context so a canceled request context
// cannot lose the terminal transition.
func (r *JobRunner) Run(ctx context.Context, job *model.Job, req model.GenerateRequest) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	r.log.Info().Str("job_id", job.ID).Str("session_id", req.SessionID).Msg("processing video job")

	job.Advance(0, "initializing", "Starting video generation")
	_ = r.jobs.Update(ctx, job)

	videoID, size, err := r.compose(ctx, job, req)
	elapsed := time.Since(start)

	if err != nil {
		job.Fail(err.Error())
		r.log.Error().Err(err).Str("job_id", job.ID).Msg("video job failed")
	} else {
		job.Succeed(model.JobResult{
			VideoID:     videoID,
			FileSize:    size,
			DownloadURL: r.baseURL + "/api/download/" + videoID,
		})
	}

	metrics.IncVideoJob(string(job.Status), r.mode)
	metrics.ObserveEncodeDuration(elapsed.Seconds())
	_ = r.jobs.Update(context.Background(), job)
	r.log.Info().Str("job_id", job.ID).Str("status", string(job.Status)).Dur("duration", elapsed).Msg("video job finished")
}

func (r *JobRunner) compose(ctx context.Context, job *model.Job, req model.GenerateRequest) (string, int64, error) {
	images, err := r.media.SessionImages(req.SessionID)
	if err != nil {
		return "", 0, err
	}

	var audioPath string
	var trim *model.TrimWindow
	if req.AudioID != "" {
		audioPath, err = r.media.FindAudio(req.AudioID)
		if err != nil {
			// Match the source behavior: a vanished audio asset degrades
			// to a silent video instead of failing the whole job.
			r.log.Warn().Str("job_id", job.ID).Str("audio_id", req.AudioID).Msg("audio asset missing, composing without audio")
			audioPath = ""
		} else if trim, err = r.media.LoadTrim(req.AudioID); err != nil {
			r.log.Warn().Err(err).Str("audio_id", req.AudioID).Msg("trim sidecar unreadable, using full audio")
			trim = nil
		}
	}

	width, height, err := model.ParseResolution(req.Resolution)
	if err != nil {
		return "", 0, err
	}

	videoID := uuid.NewString()
	outputPath := r.media.VideoPath(videoID)

	spec := adapter.CompositionSpec{
		Images:     images,
		AudioPath:  audioPath,
		Trim:       trim,
		Duration:   req.Duration,
		Transition: req.Transition,
		Width:      width,
		Height:     height,
		OutputPath: outputPath,
	}

	onProgress := func(progress int, stage, message string) {
		job.Advance(progress, stage, message)
		_ = r.jobs.Update(ctx, job)
	}

	size, err := r.composer.Compose(ctx, spec, onProgress)
	if err != nil {
		os.Remove(outputPath) // drop partial output
		return "", 0, err
	}
	return videoID, size, nil
}
