package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain/shared/daterange"
)

func rangeOf(t *testing.T, in, out string) daterange.DateRange {
	t.Helper()
	dr, err := daterange.Parse(in, out)
	require.NoError(t, err)
	return dr
}

func TestHasOverlap(t *testing.T) {
	cal := NewCalendar("listing-1")
	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, cal.Reserve(rangeOf(t, "2024-03-01", "2024-03-04"), "booking-1", now))

	// Back-to-back stay shares only the boundary day.
	assert.False(t, cal.HasOverlap(rangeOf(t, "2024-03-04", "2024-03-06")))
	assert.True(t, cal.HasOverlap(rangeOf(t, "2024-03-03", "2024-03-06")))
	assert.True(t, cal.HasOverlap(rangeOf(t, "2024-02-28", "2024-03-02")))
	assert.False(t, cal.HasOverlap(rangeOf(t, "2024-02-27", "2024-03-01")))
}

func TestReserveRejectsConflicts(t *testing.T) {
	cal := NewCalendar("listing-1")
	now := time.Now()
	require.NoError(t, cal.Reserve(rangeOf(t, "2024-03-01", "2024-03-04"), "booking-1", now))

	err := cal.Reserve(rangeOf(t, "2024-03-03", "2024-03-06"), "booking-2", now)
	assert.ErrorIs(t, err, ErrOverlappingRange)
	assert.Len(t, cal.Blocks, 1)

	require.NoError(t, cal.Reserve(rangeOf(t, "2024-03-04", "2024-03-06"), "booking-3", now))
	assert.Len(t, cal.Blocks, 2)
}

func TestReleaseFreesRange(t *testing.T) {
	cal := NewCalendar("listing-1")
	now := time.Now()
	dr := rangeOf(t, "2024-03-01", "2024-03-04")
	require.NoError(t, cal.Reserve(dr, "booking-1", now))
	require.True(t, cal.HasOverlap(dr))

	require.NoError(t, cal.Release("booking-1", now))
	assert.False(t, cal.HasOverlap(dr))

	assert.ErrorIs(t, cal.Release("booking-1", now), ErrRangeNotFound)
}

func TestHostBlockAndWindow(t *testing.T) {
	cal := NewCalendar("listing-1")
	now := time.Now()
	require.NoError(t, cal.BlockRange(rangeOf(t, "2024-03-10", "2024-03-15"), "maintenance", now))
	require.NoError(t, cal.Reserve(rangeOf(t, "2024-03-01", "2024-03-04"), "booking-1", now))

	within := cal.BlocksWithin(rangeOf(t, "2024-03-03", "2024-03-11"))
	assert.Len(t, within, 2)

	within = cal.BlocksWithin(rangeOf(t, "2024-04-01", "2024-04-30"))
	assert.Empty(t, within)
}
