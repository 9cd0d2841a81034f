package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskSetStatusTracksCompletion(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	task := &Task{Status: TaskStatusPending}

	task.SetStatus(TaskStatusCompleted, now)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, now, *task.CompletedAt)

	task.SetStatus(TaskStatusCompleted, now.Add(time.Hour))
	assert.Equal(t, now, *task.CompletedAt)

	task.SetStatus(TaskStatusInProgress, now)
	assert.Nil(t, task.CompletedAt)
	assert.Equal(t, TaskStatusInProgress, task.Status)
}

func TestTrailerLeaseAndReturn(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := &Trailer{Status: TrailerMaintenance}
	assert.ErrorIs(t, tr.Lease("c1", start, start.AddDate(0, 6, 0)), ErrTrailerNotAvailable)

	tr.Status = TrailerActive
	require.NoError(t, tr.Lease("c1", start, start.AddDate(0, 6, 0)))
	assert.Equal(t, TrailerLeased, tr.Status)
	assert.Equal(t, "c1", *tr.LeasedTo)

	require.NoError(t, tr.Return())
	assert.Equal(t, TrailerActive, tr.Status)
	assert.Nil(t, tr.LeasedTo)
	assert.ErrorIs(t, tr.Return(), ErrTrailerNotLeased)
}
