package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/nikhilbhutani/memocast/internal/config"
)

const sweepQueue = "low"

type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) EnqueueAudioSweep(ctx context.Context, path string) error {
	task, err := NewAudioSweepTask(path)
	if err != nil {
		return err
	}
	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(sweepQueue),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeAudioSweep, err)
	}
	slog.Info("audio sweep enqueued", "task_id", info.ID, "path", path)
	return nil
}

// ReportOrphan lets the client act as a storage.OrphanReporter.
func (c *Client) ReportOrphan(ctx context.Context, path string) error {
	return c.EnqueueAudioSweep(ctx, path)
}
