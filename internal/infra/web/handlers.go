package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"simvid/internal/domain"
	"simvid/internal/domain/model"
	"simvid/internal/usecase"
)

const (
	// progressPollInterval paces the SSE stream.
	progressPollInterval = 500 * time.Millisecond
	// progressStreamTimeout caps a single SSE connection. Slightly above
	// the job timeout so a stuck client cannot hold the handler forever.
	progressStreamTimeout = 35 * time.Minute
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain sentinels onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrSessionEmpty):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrAudioNotFound),
		errors.Is(err, domain.ErrVideoNotFound),
		errors.Is(err, domain.ErrJobNotFound),
		errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrQueueUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *Server) handleUploadImages(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed multipart request"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["images"]
	files := make([]usecase.UploadFile, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, c := range opened {
			c.Close()
		}
	}()
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unreadable file part"})
			return
		}
		opened = append(opened, f)
		files = append(files, usecase.UploadFile{Name: fh.Filename, Size: fh.Size, R: f})
	}

	res, err := s.sessionUC.AddImages(r.Context(), r.FormValue("session_id"), files)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleUploadAudio(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	f, fh, err := r.FormFile("audio")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no audio file provided"})
		return
	}
	defer f.Close()

	asset, err := s.audioUC.Upload(r.Context(), fh.Filename, &usecase.UploadFile{Name: fh.Filename, Size: fh.Size, R: f})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

type youtubeRequest struct {
	URL       string   `json:"url"`
	TrimStart *float64 `json:"trim_start,omitempty"`
	TrimEnd   *float64 `json:"trim_end,omitempty"`
}

func (s *Server) handleDownloadYouTube(w http.ResponseWriter, r *http.Request) {
	var req youtubeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	var trim *model.TrimWindow
	if req.TrimStart != nil || req.TrimEnd != nil {
		trim = &model.TrimWindow{}
		if req.TrimStart != nil {
			trim.Start = *req.TrimStart
		}
		if req.TrimEnd != nil {
			trim.End = *req.TrimEnd
		}
	}

	asset, err := s.audioUC.DownloadYouTube(r.Context(), req.URL, trim)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (s *Server) handleGenerateVideo(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	job, err := s.generateUC.Submit(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	// Inline execution returns the finished job; queue mode acknowledges
	// with a pointer to the status endpoint.
	if job.Status.Terminal() {
		writeJSON(w, http.StatusOK, job)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"job_id":     job.ID,
		"status":     string(job.Status),
		"status_url": fmt.Sprintf("/api/job_status/%s", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobUC.Status(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// handleProgress streams job state over Server-Sent Events until the
// job reaches a terminal status or the client goes away.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ctx, cancel := context.WithTimeout(r.Context(), progressStreamTimeout)
	defer cancel()

	ticker := time.NewTicker(progressPollInterval)
	defer ticker.Stop()

	var lastUpdated time.Time
	for {
		job, err := s.jobUC.Status(ctx, jobID)
		if err != nil {
			payload, _ := json.Marshal(errorResponse{Error: err.Error()})
			fmt.Fprintf(w, "event: error\ndata: %s\n\n", payload)
			flusher.Flush()
			return
		}

		if job.UpdatedAt.After(lastUpdated) {
			lastUpdated = job.UpdatedAt
			payload, _ := json.Marshal(job)
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
		if job.Status.Terminal() {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoID")
	path, err := s.downloadUC.Resolve(r.Context(), videoID)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="slideshow_%s.mp4"`, videoID))
	w.Header().Set("Content-Type", "video/mp4")
	http.ServeFile(w, r, path)
}
