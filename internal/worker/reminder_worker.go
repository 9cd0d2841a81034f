package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultRunTimeout = 2 * time.Minute

// ReminderSender sends every insurance reminder that is currently due.
type ReminderSender interface {
	SendDueReminders(ctx context.Context) (int, error)
}

// ReminderWorker sends insurance expiry reminders on a fixed interval.
type ReminderWorker struct {
	sender   ReminderSender
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	running bool
}

// NewReminderWorker builds the worker.
func NewReminderWorker(sender ReminderSender, interval time.Duration, logger *zap.Logger) *ReminderWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderWorker{sender: sender, interval: interval, logger: logger}
}

// Run sends once immediately and then on every tick until ctx is cancelled.
func (w *ReminderWorker) Run(ctx context.Context) {
	w.logger.Info("reminder worker started", zap.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.RunOnce(ctx)
	for {
		select {
		case <-ticker.C:
			w.RunOnce(ctx)
		case <-ctx.Done():
			w.logger.Info("reminder worker stopped")
			return
		}
	}
}

// RunOnce performs a single pass. Overlapping passes are skipped.
func (w *ReminderWorker) RunOnce(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		w.logger.Debug("reminder pass already running; skipping")
		return
	}
	w.running = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	runCtx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	started := time.Now()
	sent, err := w.sender.SendDueReminders(runCtx)
	if err != nil {
		w.logger.Error("reminder pass failed", zap.Int("sent", sent), zap.Error(err))
		return
	}
	w.logger.Info("reminder pass complete", zap.Int("sent", sent), zap.Duration("took", time.Since(started)))
}
