package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingSender struct {
	calls atomic.Int32
	err   error
}

func (s *countingSender) SendDueReminders(context.Context) (int, error) {
	s.calls.Add(1)
	return 1, s.err
}

func TestReminderWorkerRunsUntilCancelled(t *testing.T) {
	sender := &countingSender{}
	w := NewReminderWorker(sender, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return sender.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestReminderWorkerSurvivesErrors(t *testing.T) {
	sender := &countingSender{err: errors.New("store down")}
	w := NewReminderWorker(sender, time.Hour, nil)

	w.RunOnce(context.Background())
	w.RunOnce(context.Background())
	assert.Equal(t, int32(2), sender.calls.Load())
}
