package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/pricing"
	"staybook/internal/domain/shared/daterange"
)

func testListing(t *testing.T, instantBook bool) *listings.Listing {
	t.Helper()
	l, err := listings.NewListing(listings.CreateListingParams{
		ID:               "listing-1",
		Host:             "host-1",
		Title:            "Seaside cottage",
		Address:          listings.Address{City: "Lisbon", Country: "PT"},
		MaxGuests:        4,
		NightlyRateCents: 15000,
		CleaningFeeCents: 5000,
		Currency:         "USD",
		InstantBook:      instantBook,
		Now:              time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return l
}

func testRange(t *testing.T, in, out string) daterange.DateRange {
	t.Helper()
	dr, err := daterange.Parse(in, out)
	require.NoError(t, err)
	return dr
}

func TestNewBookingComputesTotal(t *testing.T) {
	b, err := NewBooking(CreateParams{
		ID:        "booking-1",
		Listing:   testListing(t, false),
		GuestID:   "guest-1",
		Range:     testRange(t, "2024-03-01", "2024-03-04"),
		Guests:    2,
		CreatedAt: time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, b.Price.Nights)
	assert.Equal(t, int64(50000), b.Price.Total.Amount)
	assert.Equal(t, ModeRequest, b.Mode)
	assert.Equal(t, StatusPending, b.Status)

	events := b.PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "booking.requested", events[0].EventName())
}

func TestNewBookingInstantBookConfirmsImmediately(t *testing.T) {
	b, err := NewBooking(CreateParams{
		ID:        "booking-1",
		Listing:   testListing(t, true),
		GuestID:   "guest-1",
		Range:     testRange(t, "2024-03-01", "2024-03-04"),
		Guests:    2,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, ModeInstant, b.Mode)
	assert.Equal(t, StatusConfirmed, b.Status)

	events := b.PendingEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "booking.confirmed", events[1].EventName())
}

func TestNewBookingGuestBounds(t *testing.T) {
	listing := testListing(t, false)
	dr := testRange(t, "2024-03-01", "2024-03-04")

	for _, guests := range []int{0, -1, 5} {
		_, err := NewBooking(CreateParams{ID: "b", Listing: listing, GuestID: "g", Range: dr, Guests: guests, CreatedAt: time.Now()})
		assert.ErrorIs(t, err, ErrGuestCountOutOfRange, "guests=%d", guests)
	}
	for guests := 1; guests <= listing.MaxGuests; guests++ {
		_, err := NewBooking(CreateParams{ID: "b", Listing: listing, GuestID: "g", Range: dr, Guests: guests, CreatedAt: time.Now()})
		assert.NoError(t, err, "guests=%d", guests)
	}
}

func TestNewBookingRequiresGuestID(t *testing.T) {
	_, err := NewBooking(CreateParams{
		ID:        "b",
		Listing:   testListing(t, false),
		GuestID:   "  ",
		Range:     testRange(t, "2024-03-01", "2024-03-04"),
		Guests:    1,
		CreatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, ErrGuestRequired)
}

func TestNewBookingRejectsZeroRate(t *testing.T) {
	listing := testListing(t, false)
	listing.NightlyRateCents = 0
	_, err := NewBooking(CreateParams{
		ID:        "b",
		Listing:   listing,
		GuestID:   "g",
		Range:     testRange(t, "2024-03-01", "2024-03-04"),
		Guests:    1,
		CreatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, pricing.ErrInvalidAmount)
}

func TestValidateDateRange(t *testing.T) {
	now := time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC)
	assert.ErrorIs(t, ValidateDateRange(testRange(t, "2024-03-01", "2024-03-04"), now), ErrCheckInInPast)
	assert.NoError(t, ValidateDateRange(testRange(t, "2024-03-02", "2024-03-04"), now))
	assert.NoError(t, ValidateDateRange(testRange(t, "2024-03-10", "2024-03-12"), now))
}

func TestConfirmAndDeclineTransitions(t *testing.T) {
	build := func() *Booking {
		b, err := NewBooking(CreateParams{
			ID:        "booking-1",
			Listing:   testListing(t, false),
			GuestID:   "guest-1",
			Range:     testRange(t, "2024-03-01", "2024-03-04"),
			Guests:    2,
			CreatedAt: time.Now(),
		})
		require.NoError(t, err)
		return b
	}
	now := time.Now()

	b := build()
	require.NoError(t, b.Confirm(now))
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.ErrorIs(t, b.Confirm(now), ErrInvalidState)
	assert.ErrorIs(t, b.Decline("late", now), ErrInvalidState)

	b = build()
	require.NoError(t, b.Decline("host declined", now))
	assert.Equal(t, StatusCancelled, b.Status)
	assert.ErrorIs(t, b.Confirm(now), ErrInvalidState)
}
