package listings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/infra/storage/memory"
)

var createNow = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

func listingFactory(t *testing.T) (memory.Factory, context.Context, *memory.Outbox) {
	t.Helper()
	factory := memory.Factory{
		ListingsRepo:     memory.NewListingRepository(),
		AvailabilityRepo: memory.NewAvailabilityRepository(),
		BookingRepo:      memory.NewBookingRepository(),
		FavoritesRepo:    memory.NewFavoritesRepository(),
	}
	unit, err := factory.Begin(context.Background(), uow.TxOptions{})
	require.NoError(t, err)
	box := memory.NewOutbox()
	return factory, uow.ContextWithUnitOfWork(context.Background(), unit), box
}

func validPayload() HostListingPayload {
	return HostListingPayload{
		Title:            "Harbour flat",
		Description:      "Two rooms over the water",
		PropertyType:     "apartment",
		Address:          domainlistings.Address{Line1: "Pier 4", City: "Bergen", Country: "NO"},
		Amenities:        []string{"wifi"},
		MaxGuests:        4,
		NightlyRateCents: 18000,
		CleaningFeeCents: 3000,
		Currency:         "NOK",
	}
}

func createListing(t *testing.T, ctx context.Context, box *memory.Outbox) string {
	t.Helper()
	handler := &CreateHostListingHandler{
		Outbox:  box,
		Encoder: outbox.JSONEventEncoder{},
		Now:     func() time.Time { return createNow },
	}
	detail, err := handler.Handle(ctx, CreateHostListingCommand{HostID: "host-1", Payload: validPayload()})
	require.NoError(t, err)
	return detail.ID
}

func TestCreateHostListingStartsAsDraft(t *testing.T) {
	factory, ctx, box := listingFactory(t)
	id := createListing(t, ctx, box)

	catalog, err := (&SearchCatalogHandler{UoWFactory: factory}).Handle(context.Background(), SearchCatalogQuery{})
	require.NoError(t, err)
	assert.Empty(t, catalog.Items)

	records, err := box.Pending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "listing.created", records[0].Name)
	assert.NotEmpty(t, id)
}

func TestPublishMakesListingSearchable(t *testing.T) {
	factory, ctx, box := listingFactory(t)
	id := createListing(t, ctx, box)

	publish := &PublishHostListingHandler{Outbox: box, Encoder: outbox.JSONEventEncoder{}}
	detail, err := publish.Handle(ctx, PublishHostListingCommand{HostID: "host-1", ListingID: id})
	require.NoError(t, err)
	assert.Equal(t, string(domainlistings.ListingActive), detail.State)

	catalog, err := (&SearchCatalogHandler{UoWFactory: factory}).Handle(context.Background(), SearchCatalogQuery{City: "Bergen"})
	require.NoError(t, err)
	require.Len(t, catalog.Items, 1)
	assert.Equal(t, id, catalog.Items[0].ID)
}

func TestPublishRejectsForeignHost(t *testing.T) {
	_, ctx, box := listingFactory(t)
	id := createListing(t, ctx, box)

	publish := &PublishHostListingHandler{Outbox: box, Encoder: outbox.JSONEventEncoder{}}
	_, err := publish.Handle(ctx, PublishHostListingCommand{HostID: "intruder", ListingID: id})
	assert.ErrorIs(t, err, ErrListingNotOwned)
}

func TestUnpublishHidesListing(t *testing.T) {
	factory, ctx, box := listingFactory(t)
	id := createListing(t, ctx, box)

	publish := &PublishHostListingHandler{Outbox: box, Encoder: outbox.JSONEventEncoder{}}
	_, err := publish.Handle(ctx, PublishHostListingCommand{HostID: "host-1", ListingID: id})
	require.NoError(t, err)

	unpublish := &UnpublishHostListingHandler{Outbox: box, Encoder: outbox.JSONEventEncoder{}}
	_, err = unpublish.Handle(ctx, UnpublishHostListingCommand{HostID: "host-1", ListingID: id})
	require.NoError(t, err)

	_, err = (&GetListingHandler{UoWFactory: factory}).Handle(context.Background(), GetListingQuery{ListingID: id})
	assert.ErrorIs(t, err, domainlistings.ErrNotFound)
}

func TestUpdateListingAttributes(t *testing.T) {
	_, ctx, box := listingFactory(t)
	id := createListing(t, ctx, box)

	payload := validPayload()
	payload.Title = "Harbour flat deluxe"
	payload.MaxGuests = 6

	update := &UpdateHostListingHandler{}
	detail, err := update.Handle(ctx, UpdateHostListingCommand{HostID: "host-1", ListingID: id, Payload: payload})
	require.NoError(t, err)
	assert.Equal(t, "Harbour flat deluxe", detail.Title)
	assert.Equal(t, 6, detail.MaxGuests)
}

func TestSetListingPricing(t *testing.T) {
	_, ctx, box := listingFactory(t)
	id := createListing(t, ctx, box)

	pricing := &SetListingPricingHandler{}
	detail, err := pricing.Handle(ctx, SetListingPricingCommand{
		HostID:           "host-1",
		ListingID:        id,
		NightlyRateCents: 25000,
		CleaningFeeCents: 5000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(25000), detail.Nightly.Amount)
}

func TestListHostListingsFiltersByStatus(t *testing.T) {
	factory, ctx, box := listingFactory(t)
	draftID := createListing(t, ctx, box)

	publishedID := createListing(t, ctx, box)
	publish := &PublishHostListingHandler{Outbox: box, Encoder: outbox.JSONEventEncoder{}}
	_, err := publish.Handle(ctx, PublishHostListingCommand{HostID: "host-1", ListingID: publishedID})
	require.NoError(t, err)

	list := &ListHostListingsHandler{UoWFactory: factory}
	drafts, err := list.Handle(context.Background(), ListHostListingsQuery{HostID: "host-1", Status: "draft"})
	require.NoError(t, err)
	require.Len(t, drafts.Items, 1)
	assert.Equal(t, draftID, drafts.Items[0].ID)

	published, err := list.Handle(context.Background(), ListHostListingsQuery{HostID: "host-1", Status: "published"})
	require.NoError(t, err)
	require.Len(t, published.Items, 1)
	assert.Equal(t, publishedID, published.Items[0].ID)
}
