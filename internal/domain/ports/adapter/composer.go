package adapter

import (
	"context"

	"simvid/internal/domain/model"
)

// CompositionSpec carries everything the composer needs to build one
// slideshow. Images are absolute paths in upload order.
type CompositionSpec struct {
	Images     []string
	AudioPath  string // empty when no audio
	Trim       *model.TrimWindow
	Duration   float64 // seconds per image
	Transition model.Transition
	Width      int
	Height     int
	OutputPath string
}

// ProgressFunc reports composition progress. Stage labels follow the
// job lifecycle vocabulary (processing, concatenating, audio, encoding).
type ProgressFunc func(progress int, stage, message string)

// VideoComposer produces an MP4 from a validated spec. Implementations
// delegate the actual frame work to an external encoder.
type VideoComposer interface {
	Compose(ctx context.Context, spec CompositionSpec, onProgress ProgressFunc) (fileSize int64, err error)
}

// AudioProber reports the duration of an audio file in seconds.
type AudioProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}
