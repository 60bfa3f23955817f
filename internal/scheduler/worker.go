package scheduler

import (
	"context"
	"fmt"
	"time"

	"offerdesk_backend/internal/offers/repository"
	"offerdesk_backend/platform/config"
	"offerdesk_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Worker consumes maintenance tasks. It currently handles the offer expiry
// sweep: open offers older than the configured age are moved to expired.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   repository.Repository
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, log *logger.Logger) (*Worker, error) {
	addr := cfg.GetRedisAddr()
	if addr == "" {
		return nil, fmt.Errorf("redis addr not configured")
	}

	server := asynq.NewServer(asynq.RedisClientOpt{Addr: addr}, asynq.Config{
		Concurrency: 2,
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   repository.New(pool),
		log:    log,
	}

	mux.HandleFunc(TaskOfferExpirySweep, w.handleExpirySweep)

	return w, nil
}

func (w *Worker) handleExpirySweep(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseOfferExpirySweepPayload(task)
	if err != nil {
		return err
	}
	if payload.MaxAgeSeconds <= 0 {
		return nil
	}

	cutoff := time.Now().Add(-time.Duration(payload.MaxAgeSeconds) * time.Second)
	expired, err := w.repo.ExpireOpenOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}

	if expired > 0 {
		w.log.Info("expired stale open offers", "count", expired, "cutoff", cutoff)
	}
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
