package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/futsal-ai/pkg/logger"
)

func TestUsageTracker_RequestWindow(t *testing.T) {
	tracker := NewUsageTracker(2, 0, logger.NewTestLogger())

	require.NoError(t, tracker.Reserve())
	require.NoError(t, tracker.Reserve())

	err := tracker.Reserve()
	assert.True(t, errors.Is(err, ErrUsageLimit))
	assert.Contains(t, err.Error(), "2/2 requests per minute")

	tracker.resetMinute()
	assert.NoError(t, tracker.Reserve())
}

func TestUsageTracker_TokenWindow(t *testing.T) {
	tracker := NewUsageTracker(0, 100, logger.NewTestLogger())

	require.NoError(t, tracker.Reserve())
	tracker.RecordTokens(60)
	require.NoError(t, tracker.Reserve())
	tracker.RecordTokens(40)

	assert.ErrorIs(t, tracker.Reserve(), ErrUsageLimit)

	tracker.resetHour()
	assert.NoError(t, tracker.Reserve())
	assert.Equal(t, UsageStats{MinuteRequests: 3, HourlyTokens: 0, TokenLimit: 100}, tracker.Stats())
}

func TestUsageTracker_NilIsUnlimited(t *testing.T) {
	var tracker *UsageTracker

	assert.NoError(t, tracker.Reserve())
	tracker.RecordTokens(10)
	assert.Equal(t, UsageStats{}, tracker.Stats())
}

func TestUsageTracker_StartStop(t *testing.T) {
	tracker := NewUsageTracker(1, 1, logger.NewTestLogger())

	require.NoError(t, tracker.Start())
	tracker.Stop()
	tracker.Stop()
}
