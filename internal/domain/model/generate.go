package model

import (
	"fmt"
	"strconv"
	"strings"
)

type Transition string

const (
	TransitionNone Transition = "none"
	TransitionFade Transition = "fade"
)

const (
	DefaultDuration   = 2.0
	DefaultTransition = TransitionFade
	DefaultResolution = "1280x720"

	MinDuration = 0.5
	MaxDuration = 10.0

	// FrameRate is fixed for all outputs.
	FrameRate = 30
)

// Resolutions is the whitelist of accepted output sizes, landscape and
// portrait (Stories/Reels) variants.
var Resolutions = []string{
	"640x480", "854x480", "1280x720", "1920x1080", "2560x1440", "3840x2160",
	"480x640", "480x854", "720x1280", "1080x1920", "1440x2560", "2160x3840",
}

// GenerateRequest is the submission payload for a video-generation job.
// Identifier and range rules follow the upload/session conventions; the
// oneof list must stay in sync with Resolutions.
type GenerateRequest struct {
	SessionID  string     `json:"session_id" validate:"required,uuid4"`
	AudioID    string     `json:"audio_id,omitempty" validate:"omitempty,uuid4"`
	Duration   float64    `json:"duration" validate:"gte=0.5,lte=10"`
	Transition Transition `json:"transition" validate:"oneof=none fade"`
	Resolution string     `json:"resolution" validate:"oneof=640x480 854x480 1280x720 1920x1080 2560x1440 3840x2160 480x640 480x854 720x1280 1080x1920 1440x2560 2160x3840"`
}

// ApplyDefaults fills zero-valued optional fields before validation.
func (r *GenerateRequest) ApplyDefaults() {
	if r.Duration == 0 {
		r.Duration = DefaultDuration
	}
	if r.Transition == "" {
		r.Transition = DefaultTransition
	}
	if r.Resolution == "" {
		r.Resolution = DefaultResolution
	}
}

// ParseResolution splits a validated "WxH" string.
func ParseResolution(res string) (width, height int, err error) {
	parts := strings.SplitN(res, "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed resolution %q", res)
	}
	width, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed resolution %q", res)
	}
	height, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed resolution %q", res)
	}
	return width, height, nil
}

// BitrateFor returns the encoder bitrate tier for a pixel area.
func BitrateFor(width, height int) string {
	switch px := width * height; {
	case px >= 3840*2160:
		return "20000k"
	case px >= 2560*1440:
		return "12000k"
	case px >= 1920*1080:
		return "8000k"
	case px >= 1280*720:
		return "5000k"
	default:
		return "2500k"
	}
}

// TrimWindow is an optional audio trim range in seconds, persisted next
// to downloaded audio and applied at composition time.
type TrimWindow struct {
	Start float64 `json:"start"`
	End   float64 `json:"end,omitempty"` // 0 means "until the end"
}
