package services

import (
	"testing"
	"time"

	"skillnexis/backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartStatsScheduler(t *testing.T) {
	m, _, _ := newTestManager(t)

	c, err := StartStatsScheduler(m, "@every 1h", time.UTC, utils.DiscardLogger())
	require.NoError(t, err)
	defer c.Stop()

	assert.Len(t, c.Entries(), 1)
}

func TestStartStatsSchedulerRejectsBadSchedule(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, err := StartStatsScheduler(m, "not a schedule", time.UTC, utils.DiscardLogger())
	assert.Error(t, err)
}
