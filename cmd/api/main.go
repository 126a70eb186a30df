package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nikhilbhutani/memocast/internal/api"
	"github.com/nikhilbhutani/memocast/internal/api/handlers"
	"github.com/nikhilbhutani/memocast/internal/cache"
	"github.com/nikhilbhutani/memocast/internal/config"
	"github.com/nikhilbhutani/memocast/internal/database"
	"github.com/nikhilbhutani/memocast/internal/memo"
	"github.com/nikhilbhutani/memocast/internal/queue"
	"github.com/nikhilbhutani/memocast/internal/storage"
	"github.com/nikhilbhutani/memocast/internal/tts"
	"github.com/nikhilbhutani/memocast/internal/voice"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.Log.Level)}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	voices, err := loadVoices(cfg.TTS.VoicesFile)
	if err != nil {
		slog.Error("failed to load voices", "error", err)
		os.Exit(1)
	}

	mode, err := tts.NormalizeMode(cfg.TTS.Mode)
	if err != nil {
		slog.Error("invalid TTS mode", "error", err)
		os.Exit(1)
	}
	provider, err := tts.New(tts.Config{
		Mode:        mode,
		HTTPTimeout: cfg.TTS.HTTPTimeout,
		ElevenLabs: tts.ElevenLabsConfig{
			APIKey:  cfg.TTS.ElevenLabsKey,
			BaseURL: cfg.TTS.ElevenLabsBaseURL,
			Model:   cfg.TTS.ElevenLabsModel,
		},
		Edge: tts.EdgeConfig{BaseURL: cfg.TTS.EdgeURL},
	})
	if err != nil {
		slog.Error("failed to create TTS provider", "error", err)
		os.Exit(1)
	}
	if mode == tts.ModePaidAPI && cfg.TTS.ElevenLabsKey == "" {
		slog.Warn("ELEVENLABS_API_KEY not set, memo creation will fail until it is configured")
	}

	store, checks, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialise storage", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	svc := memo.NewService(voices, provider, store, memo.Options{
		Mode:          mode,
		MaxTextLength: cfg.Memo.MaxTextLength,
	})

	router := api.NewRouter(cfg, svc, checks)
	defer router.Close()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.TTS.HTTPTimeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logBanner(cfg, svc)

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}

func loadVoices(path string) (*voice.Registry, error) {
	if path == "" {
		return voice.Default(), nil
	}
	return voice.LoadFile(path)
}

// buildStore assembles the configured artifact store together with its
// readiness checks and a cleanup func that releases connections.
func buildStore(ctx context.Context, cfg *config.Config) (storage.Store, map[string]handlers.Check, func(), error) {
	checks := map[string]handlers.Check{}
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	newRedis := func() *redis.Client {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { rdb.Close() })
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		return rdb
	}

	switch cfg.Storage.Backend {
	case config.StoreRedis:
		c := cache.NewCache(newRedis(), "memocast:")
		if err := c.Ping(ctx); err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		checks["redis"] = c.Ping
		return storage.NewRedisStore(c, cfg.Server.BaseURL, cfg.Storage.AudioTTL), checks, cleanup, nil
	}

	var opts []storage.DirectoryOption

	if cfg.Storage.Index == config.IndexPostgres {
		pool, err := database.NewPool(ctx, cfg.Database)
		if err != nil {
			cleanup()
			return nil, nil, nil, err
		}
		closers = append(closers, pool.Close)
		if err := database.RunMigrations(ctx, pool); err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		checks["database"] = pool.Ping
		opts = append(opts, storage.WithIndex(storage.NewPostgresIndex(pool)))
	}

	if cfg.Storage.OrphanSweep {
		newRedis()
		qc := queue.NewClient(cfg.Redis)
		closers = append(closers, func() { qc.Close() })
		opts = append(opts, storage.WithOrphanReporter(qc))
	}

	return storage.NewDirectoryStore(cfg.Storage.Dir, cfg.Server.BaseURL, opts...), checks, cleanup, nil
}

func logBanner(cfg *config.Config, svc *memo.Service) {
	names := make([]string, 0)
	for _, v := range svc.Voices() {
		names = append(names, fmt.Sprintf("%s (%s)", v.Name, v.Gender))
	}
	attrs := []any{
		"base_url", cfg.Server.BaseURL,
		"tts_mode", svc.Mode(),
		"store", svc.StoreName(),
		"voices", strings.Join(names, ", "),
	}
	if cfg.Storage.Backend == config.StoreRedis {
		attrs = append(attrs, "audio_ttl", cfg.Storage.AudioTTL.String())
	} else {
		attrs = append(attrs, "storage_dir", cfg.Storage.Dir, "index", cfg.Storage.Index)
	}
	slog.Info("memocast ready", attrs...)
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
