package workers

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hibiken/asynq"

	"github.com/nikhilbhutani/memocast/internal/queue"
	"github.com/nikhilbhutani/memocast/internal/storage"
)

// SweepWorker removes audio files left behind by deletes whose unlink failed.
type SweepWorker struct {
	root string
}

// NewSweepWorker only touches files directly under root.
func NewSweepWorker(root string) *SweepWorker {
	return &SweepWorker{root: root}
}

func (w *SweepWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	payload, err := queue.ParseAudioSweepPayload(t)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	path, err := w.resolve(payload.Path)
	if err != nil {
		slog.Warn("refusing audio sweep", "path", payload.Path, "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("orphaned audio already gone", "path", path)
			return nil
		}
		return fmt.Errorf("remove %s: %w", path, err)
	}

	slog.Info("orphaned audio removed", "path", path)
	return nil
}

func (w *SweepWorker) resolve(path string) (string, error) {
	root, err := filepath.Abs(w.root)
	if err != nil {
		return "", fmt.Errorf("resolve storage root: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	if filepath.Dir(abs) != root || !storage.ValidFilename(filepath.Base(abs)) {
		return "", fmt.Errorf("%s is not an audio file under %s", path, root)
	}
	return abs, nil
}
