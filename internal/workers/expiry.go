package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const sweepTimeout = 30 * time.Second

type Expirer interface {
	ExpireFoodItems(ctx context.Context, now time.Time) (int64, error)
}

// ExpirySweeper periodically marks unsold food past its expiry time as
// expired and closes its flash sales.
type ExpirySweeper struct {
	store    Expirer
	log      *zap.Logger
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewExpirySweeper(s Expirer, logger *zap.Logger, interval time.Duration) *ExpirySweeper {
	return &ExpirySweeper{
		store:    s,
		log:      logger,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start runs one sweep right away, then one per interval.
func (w *ExpirySweeper) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("expiry sweeper started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *ExpirySweeper) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("expiry sweeper stopped")
}

func (w *ExpirySweeper) run() {
	defer w.wg.Done()

	w.Sweep()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep expires everything due at the current time and returns the count.
func (w *ExpirySweeper) Sweep() int64 {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	count, err := w.store.ExpireFoodItems(ctx, w.now())
	if err != nil {
		w.log.Error("failed to expire food items", zap.Error(err))
		return 0
	}

	if count > 0 {
		w.log.Info("expired food items", zap.Int64("count", count))
	}
	return count
}
