package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateAcceptsCalendarDatesAndTimestamps(t *testing.T) {
	var req TaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"dueDate":"2024-04-01"}`), &req))
	assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), *req.DueDate.Ptr())

	require.NoError(t, json.Unmarshal([]byte(`{"dueDate":"2024-04-01T09:30:00Z"}`), &req))
	assert.Equal(t, 9, req.DueDate.Hour())

	var empty InsuranceRequest
	require.NoError(t, json.Unmarshal([]byte(`{"provider":"Acme"}`), &empty))
	assert.Nil(t, empty.ExpiryDate.Ptr())

	assert.Error(t, json.Unmarshal([]byte(`{"dueDate":"next tuesday"}`), &req))
}

func TestInsuranceRequestInput(t *testing.T) {
	var req InsuranceRequest
	require.NoError(t, json.Unmarshal([]byte(`{"trailer":"t-1","premium":"950.50","expiryDate":"2025-01-31","notifyByEmail":false}`), &req))

	in := req.Input()
	assert.Equal(t, "t-1", in.TrailerID)
	assert.Equal(t, "950.5", in.Premium.String())
	require.NotNil(t, in.NotifyByEmail)
	assert.False(t, *in.NotifyByEmail)
	assert.Nil(t, in.StartDate)
}
