package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDirectory = "directory"
	StoreRedis     = "redis"

	IndexMemory   = "memory"
	IndexPostgres = "postgres"
)

type Config struct {
	Server    ServerConfig
	TTS       TTSConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Database  DatabaseConfig
	Memo      MemoConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	BaseURL     string
	CORSOrigins []string
}

type TTSConfig struct {
	Mode              string // "simulation", "free-streaming" or "paid-api"
	HTTPTimeout       time.Duration
	ElevenLabsKey     string
	ElevenLabsBaseURL string
	ElevenLabsModel   string
	EdgeURL           string
	VoicesFile        string
}

type StorageConfig struct {
	Backend     string // "directory" or "redis"
	Dir         string
	Index       string // "memory" or "postgres", directory backend only
	AudioTTL    time.Duration
	OrphanSweep bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

type MemoConfig struct {
	MaxTextLength int
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type LogConfig struct {
	Level string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	port, err := getEnvInt("PORT", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	if port == 0 {
		if port, err = getEnvInt("SERVER_PORT", 3000); err != nil {
			return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
		}
	}

	httpTimeout, err := getEnvDuration("TTS_HTTP_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid TTS_HTTP_TIMEOUT: %w", err)
	}

	audioTTL, err := getEnvDuration("AUDIO_TTL", 10*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid AUDIO_TTL: %w", err)
	}

	orphanSweep, err := getEnvBool("ORPHAN_SWEEP_ENABLED", false)
	if err != nil {
		return nil, fmt.Errorf("invalid ORPHAN_SWEEP_ENABLED: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 2)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	maxText, err := getEnvInt("MEMO_MAX_TEXT_LENGTH", 5000)
	if err != nil {
		return nil, fmt.Errorf("invalid MEMO_MAX_TEXT_LENGTH: %w", err)
	}

	rps, err := getEnvFloat("RATE_LIMIT_RPS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}

	burst, err := getEnvInt("RATE_LIMIT_BURST", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        port,
			BaseURL:     getEnv("BASE_URL", ""),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		},
		TTS: TTSConfig{
			Mode:              getEnv("TTS_MODE", "simulation"),
			HTTPTimeout:       httpTimeout,
			ElevenLabsKey:     getEnv("ELEVENLABS_API_KEY", ""),
			ElevenLabsBaseURL: getEnv("ELEVENLABS_API_BASE_URL", "https://api.elevenlabs.io/v1"),
			ElevenLabsModel:   getEnv("ELEVENLABS_MODEL", "eleven_monolingual_v1"),
			EdgeURL:           getEnv("EDGE_TTS_URL", ""),
			VoicesFile:        getEnv("VOICES_FILE", ""),
		},
		Storage: StorageConfig{
			Backend:     strings.ToLower(getEnv("STORE_BACKEND", StoreDirectory)),
			Dir:         getEnv("STORAGE_DIR", "storage"),
			Index:       strings.ToLower(getEnv("INDEX_BACKEND", IndexMemory)),
			AudioTTL:    audioTTL,
			OrphanSweep: orphanSweep,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			MaxConns: maxConns,
			MinConns: minConns,
		},
		Memo: MemoConfig{
			MaxTextLength: maxText,
		},
		RateLimit: RateLimitConfig{
			RPS:   rps,
			Burst: burst,
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var problems []string

	switch c.Storage.Backend {
	case StoreDirectory, StoreRedis:
	default:
		problems = append(problems, fmt.Sprintf("STORE_BACKEND must be %q or %q, got %q", StoreDirectory, StoreRedis, c.Storage.Backend))
	}
	switch c.Storage.Index {
	case IndexMemory:
	case IndexPostgres:
		if c.Database.URL == "" {
			problems = append(problems, "DATABASE_URL is required when INDEX_BACKEND=postgres")
		}
	default:
		problems = append(problems, fmt.Sprintf("INDEX_BACKEND must be %q or %q, got %q", IndexMemory, IndexPostgres, c.Storage.Index))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("port %d out of range", c.Server.Port))
	}
	if c.Storage.AudioTTL <= 0 {
		problems = append(problems, "AUDIO_TTL must be positive")
	}
	if c.TTS.HTTPTimeout <= 0 {
		problems = append(problems, "TTS_HTTP_TIMEOUT must be positive")
	}
	if c.Memo.MaxTextLength <= 0 {
		problems = append(problems, "MEMO_MAX_TEXT_LENGTH must be positive")
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		problems = append(problems, "rate limit values must not be negative")
	} else if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		problems = append(problems, "RATE_LIMIT_BURST must be at least 1 when RATE_LIMIT_RPS is set")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseBool(v)
}

// getEnvDuration accepts Go duration strings ("90s", "10m") or a bare number
// of seconds.
func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
