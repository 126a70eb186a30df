// Package memo orchestrates memo creation: validate, resolve the voice,
// synthesize, persist.
package memo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/nikhilbhutani/memocast/internal/apperr"
	"github.com/nikhilbhutani/memocast/internal/metrics"
	"github.com/nikhilbhutani/memocast/internal/models"
	"github.com/nikhilbhutani/memocast/internal/storage"
	"github.com/nikhilbhutani/memocast/internal/tts"
	"github.com/nikhilbhutani/memocast/internal/voice"
)

const DefaultMaxTextLength = 5000

type CreateRequest struct {
	Text  string
	Voice string
}

type Options struct {
	// Mode is reported by health checks and used as the metrics label.
	Mode          string
	MaxTextLength int
}

type Service struct {
	voices   *voice.Registry
	provider tts.Provider
	store    storage.Store
	mode     string
	maxText  int
	now      func() time.Time
	newID    func() string
}

func NewService(voices *voice.Registry, provider tts.Provider, store storage.Store, opts Options) *Service {
	if opts.MaxTextLength <= 0 {
		opts.MaxTextLength = DefaultMaxTextLength
	}
	if opts.Mode == "" {
		opts.Mode = provider.Name()
	}
	return &Service{
		voices:   voices,
		provider: provider,
		store:    store,
		mode:     opts.Mode,
		maxText:  opts.MaxTextLength,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Create synthesizes req.Text and stores the audio. Nothing is persisted
// unless synthesis succeeds.
func (s *Service) Create(ctx context.Context, req CreateRequest) (m *models.Memo, err error) {
	defer func() { metrics.ObserveMemoCreated(s.mode, err) }()

	if strings.TrimSpace(req.Text) == "" {
		return nil, apperr.InvalidInput("create memo", "Invalid input: text is required and must be a string")
	}
	if strings.TrimSpace(req.Voice) == "" {
		return nil, apperr.InvalidInput("create memo", "Invalid input: voice is required and must be a string")
	}
	if n := utf8.RuneCountInString(req.Text); n > s.maxText {
		return nil, apperr.InvalidInput("create memo",
			fmt.Sprintf("Invalid input: text must be at most %d characters", s.maxText)).
			WithDetail("length", n).
			WithDetail("maxLength", s.maxText)
	}

	v, err := s.voices.Resolve(req.Voice)
	if err != nil {
		return nil, err
	}

	slog.Info("creating memo",
		"voice", v.Key,
		"mode", s.mode,
		"text_preview", preview(req.Text, 100),
	)

	start := time.Now()
	result, err := s.provider.Synthesize(ctx, req.Text, v)
	if err != nil {
		metrics.ObserveSynthesis(s.mode, time.Since(start), 0, err)
		return nil, fmt.Errorf("synthesize audio with %s: %w", s.provider.Name(), err)
	}
	metrics.ObserveSynthesis(s.mode, time.Since(start), len(result.Audio), nil)

	id := s.newID()
	filename := storage.Filename(id)
	m = &models.Memo{
		ID:    id,
		Text:  req.Text,
		Voice: models.MemoVoice{ID: v.Key, Name: v.DisplayName},
		Audio: models.AudioMetadata{
			Filename: filename,
			URL:      s.store.URL(filename),
			Length:   len(result.Audio),
			Format:   models.AudioFormatMP3,
		},
		CreatedAt: s.now().UTC(),
	}

	if err := s.store.Save(ctx, m, result.Audio); err != nil {
		return nil, fmt.Errorf("save memo %s: %w", id, err)
	}

	slog.Info("memo created", "memo_id", id, "bytes", len(result.Audio), "store", s.store.Name())
	return m, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Memo, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) (*models.MemoPage, error) {
	return s.store.List(ctx, limit, offset)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("memo deleted", "memo_id", id)
	return nil
}

func (s *Service) Audio(ctx context.Context, filename string) (*storage.Audio, error) {
	return s.store.Audio(ctx, filename)
}

func (s *Service) Voices() []voice.Summary {
	return s.voices.List()
}

func (s *Service) Mode() string { return s.mode }

func (s *Service) StoreName() string { return s.store.Name() }

func preview(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + "..."
}
