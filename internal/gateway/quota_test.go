package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amazon11335/fraudwatch/internal/store"
)

func TestQuotaAcquireUpToCeiling(t *testing.T) {
	q := NewQuota(nil, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, q.Acquire(), "acquire %d", i)
	}
	assert.False(t, q.Acquire())

	usage := q.Snapshot()
	assert.Equal(t, 3, usage.RequestCount)
	assert.Equal(t, 0, usage.Remaining)
}

func TestQuotaReleaseReturnsReservation(t *testing.T) {
	q := NewQuota(nil, 1)

	require.True(t, q.Acquire())
	require.False(t, q.Acquire())

	q.Release()
	assert.True(t, q.Acquire())
}

func TestQuotaReleaseNeverGoesNegative(t *testing.T) {
	q := NewQuota(nil, 5)

	q.Release()
	q.Release()
	assert.Equal(t, 0, q.Snapshot().RequestCount)
}

func TestQuotaDailyReset(t *testing.T) {
	q := NewQuota(nil, 2)

	day := time.Date(2026, 8, 28, 23, 0, 0, 0, time.Local)
	q.now = func() time.Time { return day }
	q.state.LastResetDate = q.today()

	require.True(t, q.Acquire())
	require.True(t, q.Acquire())
	require.False(t, q.Acquire())

	// Crossing midnight resets the count exactly once.
	day = day.Add(2 * time.Hour)
	assert.Equal(t, 0, q.Snapshot().RequestCount)
	assert.True(t, q.Acquire())

	// Repeated checks on the same day do not reset again.
	day = day.Add(time.Hour)
	assert.Equal(t, 1, q.Snapshot().RequestCount)
}

func TestQuotaPersistsAcrossRestarts(t *testing.T) {
	st := store.NewMemStore()

	q := NewQuota(st, 10)
	require.True(t, q.Acquire())
	require.True(t, q.Acquire())

	reloaded := NewQuota(st, 10)
	assert.Equal(t, 2, reloaded.Snapshot().RequestCount)
}

func TestQuotaDefaultCeiling(t *testing.T) {
	q := NewQuota(nil, 0)
	assert.Equal(t, 100, q.Snapshot().MaxRequests)
}
