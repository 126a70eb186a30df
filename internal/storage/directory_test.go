package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/memocast/internal/apperr"
	"github.com/nikhilbhutani/memocast/internal/models"
)

func newMemo(s Store, id string, size int, at time.Time) *models.Memo {
	filename := Filename(id)
	return &models.Memo{
		ID:    id,
		Text:  "text " + id,
		Voice: models.MemoVoice{ID: "june", Name: "June"},
		Audio: models.AudioMetadata{
			Filename: filename,
			URL:      s.URL(filename),
			Length:   size,
			Format:   models.AudioFormatMP3,
		},
		CreatedAt: at,
	}
}

func TestDirectoryStore_SaveAndFetch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "storage")
	s := NewDirectoryStore(dir, "http://localhost:3000/")
	ctx := context.Background()

	audio := []byte{0xFF, 0xFB, 1, 2, 3}
	memo := newMemo(s, "abc-123", len(audio), time.Now())
	require.NoError(t, s.Save(ctx, memo, audio))

	assert.Equal(t, "http://localhost:3000/audio/memo_abc-123.mp3", memo.Audio.URL)

	got, err := s.Audio(ctx, "memo_abc-123.mp3")
	require.NoError(t, err)
	assert.Equal(t, audio, got.Data)
	assert.Equal(t, "audio/mpeg", got.ContentType)
	assert.Zero(t, got.TTL)

	stored, err := s.Get(ctx, "abc-123")
	require.NoError(t, err)
	assert.Equal(t, memo.Text, stored.Text)

	onDisk, err := os.ReadFile(filepath.Join(dir, "memo_abc-123.mp3"))
	require.NoError(t, err)
	assert.Equal(t, audio, onDisk)
}

func TestDirectoryStore_AudioNotFound(t *testing.T) {
	s := NewDirectoryStore(t.TempDir(), "http://x")
	ctx := context.Background()

	for _, name := range []string{"memo_missing.mp3", "../etc/passwd", "memo_a/b.mp3", "other.wav"} {
		_, err := s.Audio(ctx, name)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound), name)
	}
}

func TestDirectoryStore_ListPagination(t *testing.T) {
	s := NewDirectoryStore(t.TempDir(), "http://x")
	ctx := context.Background()

	const n = 7
	base := time.Now()
	for i := 0; i < n; i++ {
		memo := newMemo(s, fmt.Sprintf("m%d", i), 1, base.Add(time.Duration(i)*time.Second))
		require.NoError(t, s.Save(ctx, memo, []byte{byte(i)}))
	}

	cases := []struct{ limit, offset int }{
		{20, 0}, {3, 0}, {3, 3}, {3, 6}, {3, 7}, {5, 10}, {7, 0}, {1, 5},
		{20, math.MaxInt}, {math.MaxInt, 1},
	}
	for _, tc := range cases {
		page, err := s.List(ctx, tc.limit, tc.offset)
		require.NoError(t, err)

		want := min(tc.limit, max(0, n-tc.offset))
		assert.Len(t, page.Memos, want, "limit=%d offset=%d", tc.limit, tc.offset)
		assert.Equal(t, tc.offset < n && tc.limit < n-tc.offset, page.Pagination.HasMore,
			"limit=%d offset=%d", tc.limit, tc.offset)
		assert.Equal(t, n, page.Pagination.Total)
		assert.Equal(t, tc.limit, page.Pagination.Limit)
		assert.Equal(t, tc.offset, page.Pagination.Offset)

		for i, m := range page.Memos {
			assert.Equal(t, fmt.Sprintf("m%d", n-1-tc.offset-i), m.ID)
			if i > 0 {
				assert.True(t, m.CreatedAt.Before(page.Memos[i-1].CreatedAt))
			}
		}
	}
}

func TestDirectoryStore_DeleteIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	s := NewDirectoryStore(dir, "http://x")
	ctx := context.Background()

	err := s.Delete(ctx, "nope")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	err = s.Delete(ctx, "nope")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	memo := newMemo(s, "gone", 3, time.Now())
	require.NoError(t, s.Save(ctx, memo, []byte("abc")))
	require.NoError(t, s.Delete(ctx, "gone"))

	_, err = s.Get(ctx, "gone")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	_, err = os.Stat(filepath.Join(dir, memo.Audio.Filename))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	err = s.Delete(ctx, "gone")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

type recordingReporter struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingReporter) ReportOrphan(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return nil
}

func TestDirectoryStore_DeleteUnlinkFailureReportsOrphan(t *testing.T) {
	dir := t.TempDir()
	reporter := &recordingReporter{}
	s := NewDirectoryStore(dir, "http://x", WithOrphanReporter(reporter))
	s.remove = func(string) error { return errors.New("permission denied") }
	ctx := context.Background()

	memo := newMemo(s, "stuck", 1, time.Now())
	require.NoError(t, s.Save(ctx, memo, []byte{1}))

	require.NoError(t, s.Delete(ctx, "stuck"), "unlink failure must not fail the delete")

	_, err := s.Get(ctx, "stuck")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.Equal(t, []string{filepath.Join(dir, "memo_stuck.mp3")}, reporter.paths)
}

type failingIndex struct{ *MemoryIndex }

func (failingIndex) Put(context.Context, *models.Memo) error { return errors.New("index down") }

func TestDirectoryStore_SaveIndexFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	s := NewDirectoryStore(dir, "http://x", WithIndex(failingIndex{NewMemoryIndex()}))

	memo := newMemo(s, "partial", 1, time.Now())
	err := s.Save(context.Background(), memo, []byte{1})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindStore))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDirectoryStore_Capabilities(t *testing.T) {
	s := NewDirectoryStore(t.TempDir(), "http://x")
	assert.True(t, s.Supports(CapabilityGet))
	assert.True(t, s.Supports(CapabilityList))
	assert.True(t, s.Supports(CapabilityDelete))
}

func TestMemoryIndex_ConcurrentDeletes(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()
	require.NoError(t, idx.Put(ctx, &models.Memo{ID: "x"}))

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := idx.Remove(ctx, "x")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, notFound int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case apperr.IsKind(err, apperr.KindNotFound):
			notFound++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, notFound)
}

func TestMemoryIndex_NegativeOffset(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()
	require.NoError(t, idx.Put(ctx, &models.Memo{ID: "a"}))

	memos, total, err := idx.List(ctx, 10, -5)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, memos, 1)
}

func TestValidFilename(t *testing.T) {
	assert.True(t, ValidFilename(Filename("3f1c2a9e-8b7d-4c1e-9f00-1234567890ab")))
	assert.False(t, ValidFilename("memo_.mp3"))
	assert.False(t, ValidFilename("memo_x.mp3.exe"))
	assert.False(t, ValidFilename(".."))
}
