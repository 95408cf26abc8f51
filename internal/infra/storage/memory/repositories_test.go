package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainlistings "staybook/internal/domain/listings"
)

var seedTime = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func storeListing(t *testing.T, repo *ListingRepository, id, city string, nightly int64, instant, active bool) {
	t.Helper()
	listing, err := domainlistings.NewListing(domainlistings.CreateListingParams{
		ID:               domainlistings.ListingID(id),
		Host:             "host-1",
		Title:            "Place in " + city,
		PropertyType:     "apartment",
		Address:          domainlistings.Address{Line1: "Main 1", City: city, Country: "NL"},
		Amenities:        []string{"wifi", "kitchen"},
		MaxGuests:        4,
		NightlyRateCents: nightly,
		CleaningFeeCents: 2500,
		Currency:         "EUR",
		InstantBook:      instant,
		Now:              seedTime,
	})
	require.NoError(t, err)
	if active {
		require.NoError(t, listing.Publish(seedTime))
	}
	require.NoError(t, repo.Save(context.Background(), listing))
}

func TestSearchFiltersDraftsWhenOnlyActive(t *testing.T) {
	repo := NewListingRepository()
	storeListing(t, repo, "l1", "Amsterdam", 10000, false, true)
	storeListing(t, repo, "l2", "Amsterdam", 12000, false, false)

	result, err := repo.Search(context.Background(), domainlistings.SearchParams{OnlyActive: true}.Normalized())
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, domainlistings.ListingID("l1"), result.Items[0].ID)
}

func TestSearchFiltersByCityAndPrice(t *testing.T) {
	repo := NewListingRepository()
	storeListing(t, repo, "l1", "Amsterdam", 10000, false, true)
	storeListing(t, repo, "l2", "Rotterdam", 8000, false, true)
	storeListing(t, repo, "l3", "Amsterdam", 30000, false, true)

	result, err := repo.Search(context.Background(), domainlistings.SearchParams{
		OnlyActive:    true,
		City:          "amsterdam",
		PriceMaxCents: 20000,
	}.Normalized())
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, domainlistings.ListingID("l1"), result.Items[0].ID)
}

func TestSearchInstantBookOnly(t *testing.T) {
	repo := NewListingRepository()
	storeListing(t, repo, "l1", "Amsterdam", 10000, true, true)
	storeListing(t, repo, "l2", "Amsterdam", 11000, false, true)

	result, err := repo.Search(context.Background(), domainlistings.SearchParams{
		OnlyActive:      true,
		InstantBookOnly: true,
	}.Normalized())
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, domainlistings.ListingID("l1"), result.Items[0].ID)
}

func TestSearchSortsByPriceAndPaginates(t *testing.T) {
	repo := NewListingRepository()
	storeListing(t, repo, "l1", "Amsterdam", 30000, false, true)
	storeListing(t, repo, "l2", "Amsterdam", 10000, false, true)
	storeListing(t, repo, "l3", "Amsterdam", 20000, false, true)

	result, err := repo.Search(context.Background(), domainlistings.SearchParams{
		OnlyActive: true,
		Sort:       domainlistings.SortByPriceAsc,
		Limit:      2,
	}.Normalized())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	require.Len(t, result.Items, 2)
	assert.Equal(t, domainlistings.ListingID("l2"), result.Items[0].ID)
	assert.Equal(t, domainlistings.ListingID("l3"), result.Items[1].ID)
}

func TestSaveBumpsVersion(t *testing.T) {
	repo := NewListingRepository()
	storeListing(t, repo, "l1", "Amsterdam", 10000, false, true)

	first, err := repo.ByID(context.Background(), "l1")
	require.NoError(t, err)
	v1 := first.Version

	require.NoError(t, repo.Save(context.Background(), first))
	second, err := repo.ByID(context.Background(), "l1")
	require.NoError(t, err)
	assert.Equal(t, v1+1, second.Version)
}
