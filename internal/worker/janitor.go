package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// KeyPurger - хранилище, из которого можно удалять старые ключи идемпотентности
type KeyPurger interface {
	PurgeIdempotencyKeys(ctx context.Context, cutoff time.Time) (int64, error)
}

// Janitor периодически удаляет ключи идемпотентности старше ttl
type Janitor struct {
	store    KeyPurger
	logger   *zap.Logger
	interval time.Duration
	ttl      time.Duration
	now      func() time.Time
	wg       sync.WaitGroup
	stop     chan struct{}
}

func NewJanitor(store KeyPurger, logger *zap.Logger, interval, ttl time.Duration) *Janitor {
	return &Janitor{
		store:    store,
		logger:   logger,
		interval: interval,
		ttl:      ttl,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

func (j *Janitor) Start(ctx context.Context) {
	j.logger.Info("Starting idempotency key janitor",
		zap.Duration("interval", j.interval),
		zap.Duration("ttl", j.ttl),
	)

	j.wg.Add(1)
	go j.run(ctx)
}

func (j *Janitor) Stop() {
	j.logger.Info("Stopping idempotency key janitor...")
	close(j.stop)
	j.wg.Wait()
	j.logger.Info("Janitor stopped")
}

func (j *Janitor) run(ctx context.Context) {
	defer j.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := j.Sweep(ctx); err != nil {
				j.logger.Error("janitor error", zap.Error(err))
			}
		}
	}
}

// Sweep runs a single purge pass and returns the number of removed keys.
func (j *Janitor) Sweep(ctx context.Context) (int64, error) {
	removed, err := j.store.PurgeIdempotencyKeys(ctx, j.now().Add(-j.ttl))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		j.logger.Info("Purged idempotency keys", zap.Int64("removed", removed))
	}
	return removed, nil
}
