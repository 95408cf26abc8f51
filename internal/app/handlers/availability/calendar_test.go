package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	domainavailability "staybook/internal/domain/availability"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/infra/storage/memory"
)

var calNow = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func calendarFixture(t *testing.T) (memory.Factory, context.Context) {
	t.Helper()
	listings := memory.NewListingRepository()
	listing, err := domainlistings.NewListing(domainlistings.CreateListingParams{
		ID:               "listing-1",
		Host:             "host-1",
		Title:            "Attic room",
		Address:          domainlistings.Address{City: "Delft", Country: "NL"},
		MaxGuests:        2,
		NightlyRateCents: 7000,
		Currency:         "EUR",
		Now:              calNow,
	})
	require.NoError(t, err)
	require.NoError(t, listing.Publish(calNow))
	require.NoError(t, listings.Save(context.Background(), listing))

	factory := memory.Factory{
		ListingsRepo:     listings,
		AvailabilityRepo: memory.NewAvailabilityRepository(),
		BookingRepo:      memory.NewBookingRepository(),
		FavoritesRepo:    memory.NewFavoritesRepository(),
	}
	unit, err := factory.Begin(context.Background(), uow.TxOptions{})
	require.NoError(t, err)
	return factory, uow.ContextWithUnitOfWork(context.Background(), unit)
}

func blockHandler() *BlockDatesHandler {
	return &BlockDatesHandler{
		Outbox:  memory.NewOutbox(),
		Encoder: outbox.JSONEventEncoder{},
		Now:     func() time.Time { return calNow },
	}
}

func TestBlockDatesThenCheckAvailability(t *testing.T) {
	factory, ctx := calendarFixture(t)

	cal, err := blockHandler().Handle(ctx, BlockDatesCommand{
		HostID:    "host-1",
		ListingID: "listing-1",
		CheckIn:   "2024-06-10",
		CheckOut:  "2024-06-15",
		Reference: "renovation",
	})
	require.NoError(t, err)
	require.Len(t, cal.Blocks, 1)

	check := &CheckAvailabilityHandler{UoWFactory: factory}
	result, err := check.Handle(context.Background(), CheckAvailabilityQuery{
		ListingID: "listing-1",
		CheckIn:   "2024-06-12",
		CheckOut:  "2024-06-14",
	})
	require.NoError(t, err)
	assert.False(t, result.Available)

	result, err = check.Handle(context.Background(), CheckAvailabilityQuery{
		ListingID: "listing-1",
		CheckIn:   "2024-06-15",
		CheckOut:  "2024-06-18",
	})
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestBlockDatesRejectsForeignHost(t *testing.T) {
	_, ctx := calendarFixture(t)

	_, err := blockHandler().Handle(ctx, BlockDatesCommand{
		HostID:    "intruder",
		ListingID: "listing-1",
		CheckIn:   "2024-06-10",
		CheckOut:  "2024-06-12",
	})
	assert.ErrorIs(t, err, ErrCalendarNotOwned)
}

func TestReleaseBlockReopensDates(t *testing.T) {
	factory, ctx := calendarFixture(t)

	_, err := blockHandler().Handle(ctx, BlockDatesCommand{
		HostID:    "host-1",
		ListingID: "listing-1",
		CheckIn:   "2024-06-10",
		CheckOut:  "2024-06-15",
		Reference: "renovation",
	})
	require.NoError(t, err)

	release := &ReleaseBlockHandler{
		Outbox:  memory.NewOutbox(),
		Encoder: outbox.JSONEventEncoder{},
		Now:     func() time.Time { return calNow },
	}
	cal, err := release.Handle(ctx, ReleaseBlockCommand{
		HostID:    "host-1",
		ListingID: "listing-1",
		Reference: "renovation",
	})
	require.NoError(t, err)
	assert.Empty(t, cal.Blocks)

	check := &CheckAvailabilityHandler{UoWFactory: factory}
	result, err := check.Handle(context.Background(), CheckAvailabilityQuery{
		ListingID: "listing-1",
		CheckIn:   "2024-06-11",
		CheckOut:  "2024-06-13",
	})
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestReleaseUnknownReference(t *testing.T) {
	_, ctx := calendarFixture(t)

	release := &ReleaseBlockHandler{
		Outbox:  memory.NewOutbox(),
		Encoder: outbox.JSONEventEncoder{},
		Now:     func() time.Time { return calNow },
	}
	_, err := release.Handle(ctx, ReleaseBlockCommand{
		HostID:    "host-1",
		ListingID: "listing-1",
		Reference: "nope",
	})
	assert.ErrorIs(t, err, domainavailability.ErrRangeNotFound)
}
