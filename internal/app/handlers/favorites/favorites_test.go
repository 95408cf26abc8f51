package favorites

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/app/uow"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/infra/storage/memory"
)

var toggleNow = time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) (memory.Factory, context.Context) {
	t.Helper()
	listings := memory.NewListingRepository()
	listing, err := domainlistings.NewListing(domainlistings.CreateListingParams{
		ID:               "listing-1",
		Host:             "host-1",
		Title:            "Garden studio",
		Address:          domainlistings.Address{City: "Utrecht", Country: "NL"},
		MaxGuests:        2,
		NightlyRateCents: 9000,
		Currency:         "EUR",
		Now:              toggleNow,
	})
	require.NoError(t, err)
	require.NoError(t, listing.Publish(toggleNow))
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

func TestToggleFavoriteAddsThenRemoves(t *testing.T) {
	_, ctx := newFixture(t)
	handler := &ToggleFavoriteHandler{Now: func() time.Time { return toggleNow }}

	result, err := handler.Handle(ctx, ToggleFavoriteCommand{UserID: "user-1", ListingID: "listing-1"})
	require.NoError(t, err)
	assert.True(t, result.Favorite)

	result, err = handler.Handle(ctx, ToggleFavoriteCommand{UserID: "user-1", ListingID: "listing-1"})
	require.NoError(t, err)
	assert.False(t, result.Favorite)
}

func TestToggleFavoriteUnknownListing(t *testing.T) {
	_, ctx := newFixture(t)
	handler := &ToggleFavoriteHandler{}

	_, err := handler.Handle(ctx, ToggleFavoriteCommand{UserID: "user-1", ListingID: "ghost"})
	assert.ErrorIs(t, err, domainlistings.ErrNotFound)
}

func TestListFavoritesReturnsSavedListings(t *testing.T) {
	factory, ctx := newFixture(t)
	toggle := &ToggleFavoriteHandler{Now: func() time.Time { return toggleNow }}
	_, err := toggle.Handle(ctx, ToggleFavoriteCommand{UserID: "user-1", ListingID: "listing-1"})
	require.NoError(t, err)

	list := &ListFavoritesHandler{UoWFactory: factory}
	collection, err := list.Handle(context.Background(), ListFavoritesQuery{UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, collection.Items, 1)
	assert.Equal(t, "listing-1", collection.Items[0].Listing.ID)
	assert.Equal(t, toggleNow, collection.Items[0].AddedAt)
}

func TestListFavoritesEmpty(t *testing.T) {
	factory, _ := newFixture(t)
	list := &ListFavoritesHandler{UoWFactory: factory}
	collection, err := list.Handle(context.Background(), ListFavoritesQuery{UserID: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, collection.Items)
}
