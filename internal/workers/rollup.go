package workers

import (
	"context"
	"sync"
	"time"

	"replate-backend/internal/analytics"
	"replate-backend/internal/models"
	"replate-backend/internal/store"

	"go.uber.org/zap"
)

type Rollupper interface {
	ActivityForDay(ctx context.Context, day time.Time) (*store.DayActivity, error)
	UpsertAnalytics(ctx context.Context, rows []models.AnalyticsDaily) error
}

// AnalyticsRollup rebuilds the per-canteen daily analytics rows for
// today and yesterday (UTC). Yesterday is redone so late writes around
// midnight are still counted.
type AnalyticsRollup struct {
	store    Rollupper
	log      *zap.Logger
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewAnalyticsRollup(s Rollupper, logger *zap.Logger, interval time.Duration) *AnalyticsRollup {
	return &AnalyticsRollup{
		store:    s,
		log:      logger,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

func (w *AnalyticsRollup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("analytics rollup started", zap.Duration("interval", w.interval))
}

func (w *AnalyticsRollup) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("analytics rollup stopped")
}

func (w *AnalyticsRollup) run() {
	defer w.wg.Done()

	w.Run()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Run()
		}
	}
}

// Run rolls up yesterday and today and returns how many rows it wrote.
func (w *AnalyticsRollup) Run() int {
	today := w.now().UTC()
	written := 0
	for _, day := range []time.Time{today.AddDate(0, 0, -1), today} {
		n, err := w.RollupDay(day)
		if err != nil {
			w.log.Error("analytics rollup failed",
				zap.String("date", day.Format(time.DateOnly)), zap.Error(err))
			continue
		}
		written += n
	}
	if written > 0 {
		w.log.Info("analytics rolled up", zap.Int("rows", written))
	}
	return written
}

func (w *AnalyticsRollup) RollupDay(day time.Time) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	act, err := w.store.ActivityForDay(ctx, day)
	if err != nil {
		return 0, err
	}
	rows := analytics.DailyRollup(day, act.Items, act.Claims, act.Donations)
	if err := w.store.UpsertAnalytics(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
