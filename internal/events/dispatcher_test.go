package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPublishRunsEveryHandler(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	boom := errors.New("boom")
	var seen []string

	d.Subscribe(EventTaskAssigned, func(_ context.Context, e Event) error {
		seen = append(seen, "first:"+e.EntityID)
		return boom
	})
	d.Subscribe(EventTaskAssigned, func(_ context.Context, e Event) error {
		seen = append(seen, "second:"+e.EntityID)
		return nil
	})

	err := d.Publish(context.Background(), New(EventTaskAssigned, "t1", "u1", time.Now(), nil))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first:t1", "second:t1"}, seen)

	assert.NoError(t, d.Publish(context.Background(), New(EventInsuranceVerified, "p1", "u1", time.Now(), nil)))
}
