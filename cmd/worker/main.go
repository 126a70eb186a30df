package main

import (
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"github.com/nikhilbhutani/memocast/internal/config"
	"github.com/nikhilbhutani/memocast/internal/queue"
	"github.com/nikhilbhutani/memocast/internal/queue/workers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	const concurrency = 4
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"default": 3,
				"low":     1,
			},
		},
	)

	registry := queue.NewHandlersRegistry()

	// Register workers
	sweepWorker := workers.NewSweepWorker(cfg.Storage.Dir)
	registry.Register(queue.TypeAudioSweep, asynq.HandlerFunc(sweepWorker.ProcessTask))

	slog.Info("starting worker",
		"concurrency", concurrency,
		"storage_dir", cfg.Storage.Dir,
		"task_types", registry.Types(),
	)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
