package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

type loginRequest struct {
	Password string `json:"password"`
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "password is required"})
		return
	}
	token, err := s.auth.Login(r, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleAdminVerify(w http.ResponseWriter, r *http.Request) {
	// Reaching this handler means the middleware accepted the token.
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

func (s *Server) handleAdminData(w http.ResponseWriter, r *http.Request) {
	data, err := s.adminUC.Data(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleAdminPreviewImage(w http.ResponseWriter, r *http.Request) {
	path, err := s.adminUC.PreviewImage(r.Context(), chi.URLParam(r, "sessionID"), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	http.ServeFile(w, r, path)
}

func (s *Server) handleAdminPreviewAudio(w http.ResponseWriter, r *http.Request) {
	path, err := s.adminUC.PreviewAudio(r.Context(), chi.URLParam(r, "audioID"))
	if err != nil {
		writeError(w, err)
		return
	}
	http.ServeFile(w, r, path)
}

func (s *Server) handleAdminPreviewVideo(w http.ResponseWriter, r *http.Request) {
	path, err := s.adminUC.PreviewVideo(r.Context(), chi.URLParam(r, "videoID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "video/mp4")
	http.ServeFile(w, r, path)
}

func (s *Server) handleAdminDownloadAudio(w http.ResponseWriter, r *http.Request) {
	path, err := s.adminUC.PreviewAudio(r.Context(), chi.URLParam(r, "audioID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filepath.Base(path)))
	http.ServeFile(w, r, path)
}

func (s *Server) handleAdminDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.adminUC.DeleteSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleAdminDeleteAudio(w http.ResponseWriter, r *http.Request) {
	if err := s.adminUC.DeleteAudio(r.Context(), chi.URLParam(r, "audioID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleAdminDeleteVideo(w http.ResponseWriter, r *http.Request) {
	if err := s.adminUC.DeleteVideo(r.Context(), chi.URLParam(r, "videoID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleAdminCleanup(w http.ResponseWriter, r *http.Request) {
	removed, err := s.adminUC.Cleanup(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}
