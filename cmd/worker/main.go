package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"simvid/internal/config"
	"simvid/internal/infra/logging"
	"simvid/internal/infra/media/ffmpeg"
	"simvid/internal/infra/metrics"
	red "simvid/internal/infra/redis"
	"simvid/internal/infra/sched"
	"simvid/internal/infra/storage"
	"simvid/internal/infra/worker"
	"simvid/internal/usecase"
)

// The worker process consumes the generation queue. It only runs in
// queue mode; inline deployments do not start it.
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
	if !cfg.QueueMode() {
		log.Fatal("worker requires queue.redis_url to be configured")
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

	client, err := red.NewClient(ctx, &cfg.Queue)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer client.Close()

	jobRepo := red.NewJobRepo(client, cfg.Queue.ResultTTL)
	queue := red.NewQueue(client, cfg.Queue.Name)
	runner := usecase.NewJobRunner(jobRepo, store, composer, cfg.Server.BaseURL, cfg.Queue.JobTimeout, "queue", logger)

	pool := worker.NewPool(cfg.Queue.Workers, logger)
	pool.Start(ctx)

	processor := worker.NewVideoJobProcessor(queue, jobRepo, runner, logger)
	go processor.Start(ctx, pool)

	cleanup := sched.NewCleanupWorker(10*time.Minute, cfg.Storage.Retention, store, logger)
	go func() { _ = cleanup.Run(ctx) }()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
	pool.Stop()
}
