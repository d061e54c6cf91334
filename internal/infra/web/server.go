package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"simvid/internal/infra/logging"
	"simvid/internal/infra/metrics"
	"simvid/internal/usecase"
)

type Server struct {
	sessionUC  usecase.SessionUseCase
	audioUC    usecase.AudioUseCase
	generateUC usecase.GenerateUseCase
	jobUC      usecase.JobUseCase
	downloadUC usecase.DownloadUseCase
	adminUC    usecase.AdminUseCase
	auth       *AuthService
	maxUpload  int64
	log        *zerolog.Logger
}

func NewServer(
	sessionUC usecase.SessionUseCase,
	audioUC usecase.AudioUseCase,
	generateUC usecase.GenerateUseCase,
	jobUC usecase.JobUseCase,
	downloadUC usecase.DownloadUseCase,
	adminUC usecase.AdminUseCase,
	auth *AuthService,
	maxUploadBytes int64,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "web").Logger()
	return &Server{
		sessionUC:  sessionUC,
		audioUC:    audioUC,
		generateUC: generateUC,
		jobUC:      jobUC,
		downloadUC: downloadUC,
		adminUC:    adminUC,
		auth:       auth,
		maxUpload:  maxUploadBytes,
		log:        &l,
	}
}

// Router builds the full route tree, public API plus admin surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/upload_images", s.handleUploadImages)
		r.Post("/upload_audio", s.handleUploadAudio)
		r.Post("/download_youtube", s.handleDownloadYouTube)
		r.Post("/generate_video", s.handleGenerateVideo)
		r.Get("/job_status/{jobID}", s.handleJobStatus)
		r.Get("/progress/{jobID}", s.handleProgress)
		r.Get("/download/{videoID}", s.handleDownload)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", s.handleAdminLogin)
		r.Group(func(r chi.Router) {
			r.Use(s.auth.Middleware)
			r.Get("/verify", s.handleAdminVerify)
			r.Get("/data", s.handleAdminData)
			r.Get("/preview/image/{sessionID}/{name}", s.handleAdminPreviewImage)
			r.Get("/preview/audio/{audioID}", s.handleAdminPreviewAudio)
			r.Get("/preview/video/{videoID}", s.handleAdminPreviewVideo)
			r.Get("/download/audio/{audioID}", s.handleAdminDownloadAudio)
			r.Delete("/session/{sessionID}", s.handleAdminDeleteSession)
			r.Delete("/audio/{audioID}", s.handleAdminDeleteAudio)
			r.Delete("/video/{videoID}", s.handleAdminDeleteVideo)
			r.Post("/cleanup", s.handleAdminCleanup)
		})
	})

	return r
}

// requestLogger attaches a request-scoped logger and records per-route
// counters once the handler returns.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		ctx := logging.WithRequestID(r.Context(), reqID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		metrics.IncHTTPRequest(route, ww.Status())
		s.log.Info().
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("route", route).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
