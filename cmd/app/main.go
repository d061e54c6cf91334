package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"simvid/internal/config"
	"simvid/internal/domain/ports/repository"
	pg "simvid/internal/infra/db/postgres"
	"simvid/internal/infra/logging"
	"simvid/internal/infra/media/ffmpeg"
	"simvid/internal/infra/media/ytdlp"
	"simvid/internal/infra/memory"
	"simvid/internal/infra/metrics"
	red "simvid/internal/infra/redis"
	"simvid/internal/infra/sched"
	"simvid/internal/infra/storage"
	"simvid/internal/infra/web"
	"simvid/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = godotenv.Load()

	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "console logging and relaxed defaults")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	store, err := storage.NewFileStore(cfg.Storage.DataDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("media store")
	}

	composer, err := ffmpeg.NewComposer(cfg.Media.FFmpegBin, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("ffmpeg")
	}
	prober, err := ffmpeg.NewProber(cfg.Media.FFprobeBin)
	if err != nil {
		logger.Fatal().Err(err).Msg("ffprobe")
	}
	fetcher, err := ytdlp.NewFetcher(cfg.Media.YtDlpBin, store, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("yt-dlp")
	}

	// Execution mode: a configured broker selects queue mode, otherwise
	// jobs run synchronously inside the request.
	var (
		jobRepo    repository.JobRepository
		dispatcher usecase.Dispatcher
	)
	if cfg.QueueMode() {
		client, err := red.NewClient(ctx, &cfg.Queue)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer client.Close()
		jobRepo = red.NewJobRepo(client, cfg.Queue.ResultTTL)
		dispatcher = usecase.NewQueueDispatcher(red.NewQueue(client, cfg.Queue.Name))
		logger.Info().Str("queue", cfg.Queue.Name).Msg("queue mode enabled")
	} else {
		memRepo := memory.NewJobRepo(cfg.Queue.ResultTTL)
		go memRepo.Run(ctx)
		jobRepo = memRepo
		runner := usecase.NewJobRunner(jobRepo, store, composer, cfg.Server.BaseURL, cfg.Queue.JobTimeout, "inline", logger)
		dispatcher = usecase.NewInlineDispatcher(runner)
		logger.Info().Msg("inline mode: no broker configured")
	}

	// Admin tokens persist in Postgres when available, else in memory.
	var tokenRepo repository.AdminTokenRepository
	if cfg.Database.URL != "" {
		pool, err := pg.Connect(ctx, cfg.Database.URL)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres")
		}
		defer pool.Close()
		repo := pg.NewAdminTokenRepo(pool, cfg.Admin.TokenTTL)
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("postgres schema")
		}
		tokenRepo = repo
	} else {
		logger.Warn().Msg("no database configured, admin sessions reset on restart")
		tokenRepo = memory.NewTokenRepo(cfg.Admin.TokenTTL)
	}

	sessionUC := usecase.NewSessionUseCase(store, cfg.Server.MaxImages, logger)
	audioUC := usecase.NewAudioUseCase(store, fetcher, prober, logger)
	generateUC := usecase.NewGenerateUseCase(jobRepo, store, dispatcher, logger)
	jobUC := usecase.NewJobUseCase(jobRepo)
	downloadUC := usecase.NewDownloadUseCase(store)
	adminUC := usecase.NewAdminUseCase(store, cfg.Storage.Retention, logger)

	auth := web.NewAuthService(cfg.Admin.PasswordHash, cfg.Admin.JWTSecret, cfg.Admin.TokenTTL, tokenRepo, logger)
	server := web.NewServer(sessionUC, audioUC, generateUC, jobUC, downloadUC, adminUC, auth,
		cfg.Server.MaxUploadMB<<20, logger)

	cleanup := sched.NewCleanupWorker(10*time.Minute, cfg.Storage.Retention, store, logger)
	go func() { _ = cleanup.Run(ctx) }()
	tokenPurge := sched.NewTokenPurgeWorker(time.Hour, tokenRepo, logger)
	go func() { _ = tokenPurge.Run(ctx) }()

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Router(),
	}
	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)
	cancel()
}
