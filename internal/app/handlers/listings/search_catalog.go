package listings

import (
	"context"

	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainlistings "staybook/internal/domain/listings"
)

const (
	searchCatalogKey = "listings.catalog"
	getListingKey    = "listings.get"
)

// SearchCatalogQuery describes guest-facing catalog filters. Only
// active listings are visible here.
type SearchCatalogQuery struct {
	City            string
	Country         string
	LocationQuery   string
	Amenities       []string
	PropertyTypes   []string
	MinGuests       int
	PriceMinCents   int64
	PriceMaxCents   int64
	InstantBookOnly bool
	Sort            string
	Limit           int
	Offset          int
}

func (q SearchCatalogQuery) Key() string { return searchCatalogKey }

type SearchCatalogHandler struct {
	UoWFactory uow.Factory
}

func (h *SearchCatalogHandler) Handle(ctx context.Context, q SearchCatalogQuery) (dto.ListingCatalog, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ListingCatalog{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	params := domainlistings.SearchParams{
		City:            q.City,
		Country:         q.Country,
		LocationQuery:   q.LocationQuery,
		Amenities:       append([]string(nil), q.Amenities...),
		PropertyTypes:   append([]string(nil), q.PropertyTypes...),
		MinGuests:       q.MinGuests,
		PriceMinCents:   q.PriceMinCents,
		PriceMaxCents:   q.PriceMaxCents,
		InstantBookOnly: q.InstantBookOnly,
		Sort:            domainlistings.CatalogSort(q.Sort),
		Limit:           q.Limit,
		Offset:          q.Offset,
		OnlyActive:      true,
	}.Normalized()

	result, err := unit.Listings().Search(execCtx, params)
	if err != nil {
		return dto.ListingCatalog{}, err
	}
	return dto.MapCatalog(result, params), nil
}

// GetListingQuery loads one publicly visible listing.
type GetListingQuery struct {
	ListingID string `validate:"required"`
}

func (q GetListingQuery) Key() string { return getListingKey }

type GetListingHandler struct {
	UoWFactory uow.Factory
}

func (h *GetListingHandler) Handle(ctx context.Context, q GetListingQuery) (dto.ListingDetail, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ListingDetail{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	listing, err := unit.Listings().ByID(execCtx, domainlistings.ListingID(q.ListingID))
	if err != nil {
		return dto.ListingDetail{}, err
	}
	if listing.State != domainlistings.ListingActive {
		return dto.ListingDetail{}, domainlistings.ErrNotFound
	}
	return dto.MapListingDetail(listing), nil
}

var _ queries.Handler[SearchCatalogQuery, dto.ListingCatalog] = (*SearchCatalogHandler)(nil)
var _ queries.Handler[GetListingQuery, dto.ListingDetail] = (*GetListingHandler)(nil)
