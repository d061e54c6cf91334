package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"simvid/internal/domain"
	"simvid/internal/domain/model"
	"simvid/internal/domain/ports/repository"
)

var validate = validator.New()

// GenerateUseCase accepts a generation request, creates the job record
// and hands it to the configured dispatcher.
type GenerateUseCase interface {
	// Submit returns the job in whatever state the dispatcher left it:
	// terminal for inline execution, queued for queue execution.
	Submit(ctx context.Context, req model.GenerateRequest) (*model.Job, error)
	Mode() string
}

var _ GenerateUseCase = (*generateUseCase)(nil)

type generateUseCase struct {
	jobs       repository.JobRepository
	media      repository.MediaStore
	dispatcher Dispatcher
	log        *zerolog.Logger
}

func NewGenerateUseCase(
	jobs repository.JobRepository,
	media repository.MediaStore,
	dispatcher Dispatcher,
	logger *zerolog.Logger,
) GenerateUseCase {
	l := logger.With().Str("component", "GenerateUseCase").Logger()
	return &generateUseCase{jobs: jobs, media: media, dispatcher: dispatcher, log: &l}
}

func (uc *generateUseCase) Mode() string { return uc.dispatcher.Mode() }

func (uc *generateUseCase) Submit(ctx context.Context, req model.GenerateRequest) (*model.Job, error) {
	req.ApplyDefaults()
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidArgument, validationMessage(err))
	}

	if !uc.media.SessionExists(req.SessionID) {
		return nil, domain.ErrSessionNotFound
	}
	images, err := uc.media.SessionImages(req.SessionID)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, domain.ErrSessionEmpty
	}
	if req.AudioID != "" {
		if _, err := uc.media.FindAudio(req.AudioID); err != nil {
			return nil, domain.ErrAudioNotFound
		}
	}

	job := model.NewJob(ulid.Make().String())
	if err := uc.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("job_id", job.ID).
		Str("session_id", req.SessionID).
		Int("images", len(images)).
		Str("mode", uc.dispatcher.Mode()).
		Msg("job accepted")

	if err := uc.dispatcher.Dispatch(ctx, job, req); err != nil {
		job.Fail(err.Error())
		_ = uc.jobs.Update(ctx, job)
		return nil, err
	}
	return job, nil
}

// validationMessage flattens validator output into the single human
// message the API returns.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Field() {
	case "SessionID":
		return "session_id must be a valid session identifier"
	case "AudioID":
		return "audio_id must be a valid audio identifier"
	case "Duration":
		return fmt.Sprintf("duration must be between %g and %g seconds", model.MinDuration, model.MaxDuration)
	case "Transition":
		return "transition must be one of: none, fade"
	case "Resolution":
		return "resolution is not supported"
	default:
		return fe.Error()
	}
}
