package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// HandlerRegistrar subscribes event handlers on the dispatcher.
type HandlerRegistrar interface {
	RegisterHandlers()
}

// Background tracks the jobs started next to the HTTP server.
type Background struct {
	wg     sync.WaitGroup
	logger *zap.Logger
}

// Start registers the notification handlers and, when reminders is non-nil, runs the reminder
// worker until ctx is cancelled.
func Start(ctx context.Context, notifications HandlerRegistrar, reminders *ReminderWorker, logger *zap.Logger) *Background {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Background{logger: logger}

	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if reminders == nil {
		logger.Info("reminder worker disabled")
		return b
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		reminders.Run(ctx)
	}()
	return b
}

// Wait blocks until every job has returned or timeout elapses. It reports whether all jobs
// finished in time.
func (b *Background) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		b.logger.Warn("background jobs still running at shutdown", zap.Duration("waited", timeout))
		return false
	}
}
