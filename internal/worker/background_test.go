package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type registrar struct {
	calls int
}

func (r *registrar) RegisterHandlers() {
	r.calls++
}

func TestStartRegistersHandlersAndStopsReminders(t *testing.T) {
	handlers := &registrar{}
	sender := &countingSender{}
	ctx, cancel := context.WithCancel(context.Background())

	bg := Start(ctx, handlers, NewReminderWorker(sender, 10*time.Millisecond, nil), nil)

	assert.Equal(t, 1, handlers.calls)
	assert.Eventually(t, func() bool { return sender.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.True(t, bg.Wait(time.Second))
}

func TestStartWithoutReminders(t *testing.T) {
	handlers := &registrar{}

	bg := Start(context.Background(), handlers, nil, nil)

	assert.Equal(t, 1, handlers.calls)
	assert.True(t, bg.Wait(10*time.Millisecond))
}
