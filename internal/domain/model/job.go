package model

import "time"

type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusStarted   JobStatus = "started"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// Terminal reports whether the status is final. Terminal jobs never
// change again; polling a terminal job must keep returning it until the
// record expires.
func (s JobStatus) Terminal() bool {
	return s == JobStatusSucceeded || s == JobStatusFailed
}

// JobResult references the artifact of a succeeded job.
type JobResult struct {
	VideoID     string `json:"video_id"`
	FileSize    int64  `json:"file_size"`
	DownloadURL string `json:"download_url"`
}

// Job is one unit of video-generation work with a trackable lifecycle.
type Job struct {
	ID        string     `json:"id"`
	Status    JobStatus  `json:"status"`
	Progress  int        `json:"progress"`
	Stage     string     `json:"stage"`
	Message   string     `json:"message,omitempty"`
	Result    *JobResult `json:"result,omitempty"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewJob(id string) *Job {
	now := time.Now()
	return &Job{
		ID:        id,
		Status:    JobStatusQueued,
		Progress:  0,
		Stage:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Advance moves the job to an intermediate state. Progress never goes
// backwards and a terminal job is never mutated.
func (j *Job) Advance(progress int, stage, message string) {
	if j.Status.Terminal() {
		return
	}
	j.Status = JobStatusStarted
	if progress > j.Progress {
		j.Progress = progress
	}
	j.Stage = stage
	j.Message = message
	j.UpdatedAt = time.Now()
}

// Succeed marks the job finished with its result. No-op if already terminal.
func (j *Job) Succeed(res JobResult) {
	if j.Status.Terminal() {
		return
	}
	j.Status = JobStatusSucceeded
	j.Progress = 100
	j.Stage = "completed"
	j.Message = "Video generation complete"
	j.Result = &res
	j.UpdatedAt = time.Now()
}

// Fail marks the job terminally failed. No-op if already terminal.
func (j *Job) Fail(errMsg string) {
	if j.Status.Terminal() {
		return
	}
	j.Status = JobStatusFailed
	j.Stage = "error"
	j.Error = errMsg
	j.UpdatedAt = time.Now()
}
