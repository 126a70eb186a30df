package storage

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nikhilbhutani/memocast/internal/apperr"
	"github.com/nikhilbhutani/memocast/internal/metrics"
	"github.com/nikhilbhutani/memocast/internal/models"
)

// DirectoryStore writes audio files into a flat directory and keeps memo
// metadata in an Index.
type DirectoryStore struct {
	dir      string
	baseURL  string
	index    Index
	orphans  OrphanReporter
	remove   func(string) error
	fileMode os.FileMode
}

type DirectoryOption func(*DirectoryStore)

// WithIndex replaces the default in-memory index.
func WithIndex(idx Index) DirectoryOption {
	return func(s *DirectoryStore) {
		s.index = idx
	}
}

// WithOrphanReporter hands files that could not be unlinked to r.
func WithOrphanReporter(r OrphanReporter) DirectoryOption {
	return func(s *DirectoryStore) {
		s.orphans = r
	}
}

func NewDirectoryStore(dir, baseURL string, opts ...DirectoryOption) *DirectoryStore {
	s := &DirectoryStore{
		dir:      dir,
		baseURL:  baseURL,
		index:    NewMemoryIndex(),
		remove:   os.Remove,
		fileMode: 0o644,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DirectoryStore) Name() string { return "directory" }

func (s *DirectoryStore) Dir() string { return s.dir }

func (s *DirectoryStore) URL(filename string) string {
	return audioURL(s.baseURL, filename)
}

func (s *DirectoryStore) Supports(Capability) bool { return true }

func (s *DirectoryStore) Save(ctx context.Context, memo *models.Memo, audio []byte) (err error) {
	defer func() { metrics.ObserveStore(s.Name(), "save", err) }()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return apperr.Store("create storage dir", err)
	}

	path := filepath.Join(s.dir, memo.Audio.Filename)
	if err := os.WriteFile(path, audio, s.fileMode); err != nil {
		return apperr.Store("write audio", err)
	}

	if err := s.index.Put(ctx, memo); err != nil {
		if rmErr := s.remove(path); rmErr != nil {
			slog.Warn("failed to remove audio after index failure", "path", path, "error", rmErr)
		}
		return apperr.Store("index memo", err)
	}
	return nil
}

func (s *DirectoryStore) Audio(_ context.Context, filename string) (*Audio, error) {
	if !ValidFilename(filename) {
		return nil, audioNotFound(filename)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, audioNotFound(filename)
	}
	if err != nil {
		return nil, apperr.Store("read audio", err)
	}

	return &Audio{Filename: filename, Data: data, ContentType: contentTypeMPEG}, nil
}

func (s *DirectoryStore) Get(ctx context.Context, id string) (*models.Memo, error) {
	return s.index.Get(ctx, id)
}

func (s *DirectoryStore) List(ctx context.Context, limit, offset int) (*models.MemoPage, error) {
	memos, total, err := s.index.List(ctx, limit, offset)
	if err != nil {
		return nil, apperr.Store("list memos", err)
	}
	return &models.MemoPage{
		Memos:      memos,
		Pagination: models.NewPagination(total, limit, offset),
	}, nil
}

// Delete drops the index entry and unlinks the audio file. A failed unlink is
// logged and reported as an orphan but does not fail the delete.
func (s *DirectoryStore) Delete(ctx context.Context, id string) error {
	memo, err := s.index.Remove(ctx, id)
	if err != nil {
		return err
	}

	path := filepath.Join(s.dir, memo.Audio.Filename)
	if err := s.remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to delete audio file", "memo_id", id, "path", path, "error", err)
		metrics.ObserveStore(s.Name(), "unlink", err)
		if s.orphans != nil {
			if rerr := s.orphans.ReportOrphan(ctx, path); rerr != nil {
				slog.Error("failed to report orphaned audio", "path", path, "error", rerr)
			}
		}
	}
	metrics.ObserveStore(s.Name(), "delete", nil)
	return nil
}

func audioNotFound(filename string) *apperr.Error {
	return apperr.NotFound("audio lookup", "Audio not found or expired").WithDetail("filename", filename)
}

var _ Store = (*DirectoryStore)(nil)
