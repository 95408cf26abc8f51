package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/infra/storage/memory"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestFactory(t *testing.T) (memory.Factory, *memory.ListingRepository) {
	t.Helper()
	listings := memory.NewListingRepository()
	return memory.Factory{
		ListingsRepo:     listings,
		AvailabilityRepo: memory.NewAvailabilityRepository(),
		BookingRepo:      memory.NewBookingRepository(),
		FavoritesRepo:    memory.NewFavoritesRepository(),
	}, listings
}

func seedListing(t *testing.T, repo *memory.ListingRepository, instantBook bool) *domainlistings.Listing {
	t.Helper()
	listing, err := domainlistings.NewListing(domainlistings.CreateListingParams{
		ID:               "listing-1",
		Host:             "host-1",
		Title:            "Canal loft",
		Address:          domainlistings.Address{City: "Amsterdam", Country: "NL"},
		MaxGuests:        3,
		NightlyRateCents: 20000,
		CleaningFeeCents: 4000,
		Currency:         "EUR",
		InstantBook:      instantBook,
		Now:              fixedNow,
	})
	require.NoError(t, err)
	require.NoError(t, listing.Publish(fixedNow))
	require.NoError(t, repo.Save(context.Background(), listing))
	return listing
}

func requestCommand(id, checkIn, checkOut string) RequestBookingCommand {
	return RequestBookingCommand{
		CommandID: id,
		ListingID: "listing-1",
		GuestID:   "guest-1",
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    2,
	}
}

func TestRequestBookingPersistsBookingAndBlock(t *testing.T) {
	factory, listings := newTestFactory(t)
	seedListing(t, listings, false)
	box := memory.NewOutbox()

	handler := &RequestBookingHandler{
		UoWFactory: factory,
		Outbox:     box,
		Encoder:    outbox.JSONEventEncoder{},
		Now:        func() time.Time { return fixedNow },
	}

	result, err := handler.Handle(context.Background(), requestCommand("booking-1", "2024-06-01", "2024-06-04"))
	require.NoError(t, err)
	assert.Equal(t, "booking-1", result.BookingID)
	assert.Equal(t, string(domainbooking.StatusPending), result.Status)
	assert.Equal(t, int64(64000), result.Total)
	assert.Equal(t, "EUR", result.Currency)

	unit, err := factory.Begin(context.Background(), uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	stored, err := unit.Bookings().ByID(context.Background(), "booking-1")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusPending, stored.Status)

	calendar, err := unit.Availability().Calendar(context.Background(), "listing-1")
	require.NoError(t, err)
	assert.True(t, calendar.HasOverlap(stored.Range))

	records, err := box.Pending(context.Background(), 10)
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, "booking.requested", records[0].Name)
}

func TestRequestBookingInstantBookConfirms(t *testing.T) {
	factory, listings := newTestFactory(t)
	seedListing(t, listings, true)

	handler := &RequestBookingHandler{
		UoWFactory: factory,
		Outbox:     memory.NewOutbox(),
		Encoder:    outbox.JSONEventEncoder{},
		Now:        func() time.Time { return fixedNow },
	}

	result, err := handler.Handle(context.Background(), requestCommand("booking-2", "2024-07-10", "2024-07-12"))
	require.NoError(t, err)
	assert.Equal(t, string(domainbooking.StatusConfirmed), result.Status)
	assert.Equal(t, string(domainbooking.ModeInstant), result.Mode)
}

func TestRequestBookingRejectsOverlap(t *testing.T) {
	factory, listings := newTestFactory(t)
	seedListing(t, listings, false)

	handler := &RequestBookingHandler{
		UoWFactory: factory,
		Outbox:     memory.NewOutbox(),
		Encoder:    outbox.JSONEventEncoder{},
		Now:        func() time.Time { return fixedNow },
	}

	_, err := handler.Handle(context.Background(), requestCommand("booking-3", "2024-06-01", "2024-06-05"))
	require.NoError(t, err)

	_, err = handler.Handle(context.Background(), requestCommand("booking-4", "2024-06-03", "2024-06-07"))
	assert.ErrorIs(t, err, domainbooking.ErrDatesUnavailable)
}

func TestRequestBookingRejectsPastCheckIn(t *testing.T) {
	factory, listings := newTestFactory(t)
	seedListing(t, listings, false)

	handler := &RequestBookingHandler{
		UoWFactory: factory,
		Outbox:     memory.NewOutbox(),
		Encoder:    outbox.JSONEventEncoder{},
		Now:        func() time.Time { return fixedNow },
	}

	_, err := handler.Handle(context.Background(), requestCommand("booking-5", "2024-04-01", "2024-04-03"))
	assert.Error(t, err)
}
