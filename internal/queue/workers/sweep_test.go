package workers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/memocast/internal/queue"
)

func sweepTask(t *testing.T, path string) *asynq.Task {
	t.Helper()
	task, err := queue.NewAudioSweepTask(path)
	require.NoError(t, err)
	return task
}

func TestSweepWorker_RemovesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "memo_abc.mp3")
	require.NoError(t, os.WriteFile(path, []byte{1}, 0o644))

	w := NewSweepWorker(dir)
	require.NoError(t, w.ProcessTask(context.Background(), sweepTask(t, path)))

	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSweepWorker_MissingFileSucceeds(t *testing.T) {
	dir := t.TempDir()
	w := NewSweepWorker(dir)
	assert.NoError(t, w.ProcessTask(context.Background(), sweepTask(t, filepath.Join(dir, "memo_gone.mp3"))))
}

func TestSweepWorker_RefusesOutsideRoot(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	victim := filepath.Join(other, "memo_keep.mp3")
	require.NoError(t, os.WriteFile(victim, []byte{1}, 0o644))

	w := NewSweepWorker(dir)
	for _, p := range []string{
		victim,
		filepath.Join(dir, "..", filepath.Base(other), "memo_keep.mp3"),
		filepath.Join(dir, "notes.txt"),
	} {
		err := w.ProcessTask(context.Background(), sweepTask(t, p))
		require.Error(t, err, p)
		assert.True(t, errors.Is(err, asynq.SkipRetry))
	}

	_, err := os.Stat(victim)
	assert.NoError(t, err)
}

func TestSweepWorker_BadPayload(t *testing.T) {
	w := NewSweepWorker(t.TempDir())
	err := w.ProcessTask(context.Background(), asynq.NewTask(queue.TypeAudioSweep, []byte("nope")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
