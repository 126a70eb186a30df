package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nikhilbhutani/memocast/internal/apperr"
	"github.com/nikhilbhutani/memocast/internal/cache"
	"github.com/nikhilbhutani/memocast/internal/metrics"
	"github.com/nikhilbhutani/memocast/internal/models"
)

// DefaultAudioTTL is how long cached audio stays retrievable.
const DefaultAudioTTL = 10 * time.Minute

// RedisStore keeps audio in a TTL cache keyed by its URL path. No memo
// metadata is kept, so lookup, listing and deletion are unsupported.
type RedisStore struct {
	cache   *cache.Cache
	baseURL string
	ttl     time.Duration
}

func NewRedisStore(c *cache.Cache, baseURL string, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultAudioTTL
	}
	return &RedisStore{cache: c, baseURL: baseURL, ttl: ttl}
}

func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) URL(filename string) string {
	return audioURL(s.baseURL, filename)
}

func (s *RedisStore) Supports(Capability) bool { return false }

// TTL returns the fixed validity window applied to new artifacts.
func (s *RedisStore) TTL() time.Duration { return s.ttl }

func (s *RedisStore) Save(ctx context.Context, memo *models.Memo, audio []byte) error {
	err := s.cache.SetBytes(ctx, cacheKey(memo.Audio.Filename), audio, s.ttl)
	metrics.ObserveStore(s.Name(), "save", err)
	if err != nil {
		return apperr.Store("cache audio", err)
	}
	slog.Info("audio cached", "filename", memo.Audio.Filename, "ttl", s.ttl)
	return nil
}

func (s *RedisStore) Audio(ctx context.Context, filename string) (*Audio, error) {
	if !ValidFilename(filename) {
		return nil, audioNotFound(filename)
	}

	key := cacheKey(filename)
	data, err := s.cache.GetBytes(ctx, key)
	if errors.Is(err, cache.ErrMiss) {
		return nil, audioNotFound(filename)
	}
	if err != nil {
		return nil, apperr.Store("read cached audio", err)
	}

	ttl, err := s.cache.TTL(ctx, key)
	if err != nil && !errors.Is(err, cache.ErrMiss) {
		slog.Warn("failed to read audio ttl", "filename", filename, "error", err)
	}

	return &Audio{Filename: filename, Data: data, ContentType: contentTypeMPEG, TTL: ttl}, nil
}

func (s *RedisStore) Get(context.Context, string) (*models.Memo, error) {
	return nil, apperr.Unsupported("get memo",
		"Memo retrieval not supported in ephemeral storage mode",
		"Use the audio URL from the memo creation response")
}

func (s *RedisStore) List(context.Context, int, int) (*models.MemoPage, error) {
	return nil, apperr.Unsupported("list memos",
		"Memo listing not supported in ephemeral storage mode",
		"Audio files are cached for "+s.ttl.String()+", not persisted")
}

func (s *RedisStore) Delete(context.Context, string) error {
	return apperr.Unsupported("delete memo",
		"Memo deletion not supported in ephemeral storage mode",
		"Audio files expire automatically after "+s.ttl.String())
}

// cacheKey mirrors the URL path the artifact is served under.
func cacheKey(filename string) string {
	return "/audio/" + filename
}

var _ Store = (*RedisStore)(nil)
