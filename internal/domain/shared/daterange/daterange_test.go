package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidRange(t *testing.T) {
	dr, err := Parse("2024-03-01", "2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, 3, dr.Nights())
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), dr.CheckIn)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), dr.CheckOut)
}

func TestParseRejectsInvertedRange(t *testing.T) {
	_, err := Parse("2024-03-04", "2024-03-01")
	require.ErrorIs(t, err, ErrInvalidOrder)
}

func TestParseRejectsSameDay(t *testing.T) {
	_, err := Parse("2024-03-01", "2024-03-01")
	require.ErrorIs(t, err, ErrInvalidOrder)
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, tc := range []struct{ in, out string }{
		{"not-a-date", "2024-03-04"},
		{"2024-03-01", "04/03/2024"},
		{"", ""},
		{"2024-13-01", "2024-13-05"},
	} {
		_, err := Parse(tc.in, tc.out)
		assert.ErrorIs(t, err, ErrUnparseable, "in=%q out=%q", tc.in, tc.out)
	}
}

func TestNewTruncatesTimeOfDay(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Late evening local instants on distinct days must keep their
	// calendar-day distance once normalized.
	in := time.Date(2024, 3, 1, 23, 45, 0, 0, loc)
	out := time.Date(2024, 3, 4, 1, 15, 0, 0, loc)
	dr, err := New(in.UTC(), out.UTC())
	require.NoError(t, err)
	assert.Equal(t, 2, dr.Nights()) // 2024-03-02 .. 2024-03-04 in UTC
	assert.True(t, dr.CheckIn.Equal(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)))
}

func TestNightsSpansDaylightSaving(t *testing.T) {
	// US DST starts 2024-03-10; calendar arithmetic must not drift.
	dr, err := Parse("2024-03-09", "2024-03-12")
	require.NoError(t, err)
	assert.Equal(t, 3, dr.Nights())
}

func TestNightsIndependentOfLocalZone(t *testing.T) {
	dr1, err := Parse("2024-07-01", "2024-07-08")
	require.NoError(t, err)

	loc, err := time.LoadLocation("Pacific/Kiritimati")
	require.NoError(t, err)
	dr2, err := New(
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC).In(loc),
		time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC).In(loc),
	)
	require.NoError(t, err)
	assert.Equal(t, dr1.Nights(), dr2.Nights())
}

func mustParse(t *testing.T, in, out string) DateRange {
	t.Helper()
	dr, err := Parse(in, out)
	require.NoError(t, err)
	return dr
}

func TestOverlapsHalfOpen(t *testing.T) {
	existing := mustParse(t, "2024-03-01", "2024-03-04")

	backToBack := mustParse(t, "2024-03-04", "2024-03-06")
	assert.False(t, existing.Overlaps(backToBack))
	assert.False(t, backToBack.Overlaps(existing))

	overlapping := mustParse(t, "2024-03-03", "2024-03-06")
	assert.True(t, existing.Overlaps(overlapping))
	assert.True(t, overlapping.Overlaps(existing))

	contained := mustParse(t, "2024-03-02", "2024-03-03")
	assert.True(t, existing.Overlaps(contained))
	assert.True(t, contained.Overlaps(existing))

	before := mustParse(t, "2024-02-01", "2024-02-10")
	assert.False(t, existing.Overlaps(before))
}

func TestOverlapsIsSymmetric(t *testing.T) {
	ranges := []DateRange{
		mustParse(t, "2024-03-01", "2024-03-04"),
		mustParse(t, "2024-03-03", "2024-03-06"),
		mustParse(t, "2024-03-04", "2024-03-08"),
		mustParse(t, "2024-02-20", "2024-03-02"),
	}
	for i, a := range ranges {
		for j, b := range ranges {
			assert.Equal(t, a.Overlaps(b), b.Overlaps(a), "ranges %d and %d", i, j)
		}
	}
}

func TestAdjacentAndMerge(t *testing.T) {
	a := mustParse(t, "2024-03-01", "2024-03-04")
	b := mustParse(t, "2024-03-04", "2024-03-06")
	assert.True(t, a.Adjacent(b))

	merged, ok := a.Merge(b)
	require.True(t, ok)
	assert.Equal(t, 5, merged.Nights())

	c := mustParse(t, "2024-03-10", "2024-03-12")
	_, ok = a.Merge(c)
	assert.False(t, ok)
}

func TestContainsDate(t *testing.T) {
	dr := mustParse(t, "2024-03-01", "2024-03-04")
	assert.True(t, dr.ContainsDate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, dr.ContainsDate(time.Date(2024, 3, 3, 15, 0, 0, 0, time.UTC)))
	assert.False(t, dr.ContainsDate(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)))
}
