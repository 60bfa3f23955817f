package scheduler

import (
	"context"
	"fmt"
	"time"

	"offerdesk_backend/platform/config"
	"offerdesk_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Client enqueues maintenance tasks.
type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	addr := cfg.GetRedisAddr()
	if addr == "" {
		return nil, fmt.Errorf("redis addr not configured")
	}

	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: addr}),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueExpirySweep enqueues one sweep run.
func (c *Client) EnqueueExpirySweep(ctx context.Context, maxAge time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewOfferExpirySweepTask(OfferExpirySweepPayload{
		MaxAgeSeconds: int64(maxAge.Seconds()),
	})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task)
	return err
}

// RunPeriodic enqueues a sweep immediately and then on every interval tick
// until the context is cancelled.
func (c *Client) RunPeriodic(ctx context.Context, interval, maxAge time.Duration, log *logger.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}

	if err := c.EnqueueExpirySweep(ctx, maxAge); err != nil {
		log.Warn("failed to enqueue expiry sweep", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.EnqueueExpirySweep(ctx, maxAge); err != nil {
				log.Warn("failed to enqueue expiry sweep", "error", err)
			}
		}
	}
}
