package listings

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainlistings "staybook/internal/domain/listings"
)

const (
	listHostListingsKey = "host.listings.list"
	getHostListingKey   = "host.listings.get"
)

var ErrListingNotOwned = errors.New("listing not found for host")

type ListHostListingsQuery struct {
	HostID string `validate:"required"`
	Status string
	Limit  int
	Offset int
}

func (q ListHostListingsQuery) Key() string { return listHostListingsKey }

type ListHostListingsHandler struct {
	UoWFactory uow.Factory
	Logger     *slog.Logger
}

func (h *ListHostListingsHandler) Handle(ctx context.Context, q ListHostListingsQuery) (dto.ListingCatalog, error) {
	if strings.TrimSpace(q.HostID) == "" {
		return dto.ListingCatalog{}, errors.New("host id is required")
	}
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ListingCatalog{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	params := domainlistings.SearchParams{
		Host:   domainlistings.HostID(q.HostID),
		States: statesForStatus(q.Status),
		Sort:   domainlistings.SortByNewest,
		Limit:  q.Limit,
		Offset: q.Offset,
	}.Normalized()

	result, err := unit.Listings().Search(execCtx, params)
	if err != nil {
		return dto.ListingCatalog{}, err
	}
	if h.Logger != nil {
		h.Logger.Debug("host listings queried", "host_id", q.HostID, "count", len(result.Items))
	}
	return dto.MapCatalog(result, params), nil
}

type GetHostListingQuery struct {
	HostID    string `validate:"required"`
	ListingID string `validate:"required"`
}

func (q GetHostListingQuery) Key() string { return getHostListingKey }

type GetHostListingHandler struct {
	UoWFactory uow.Factory
}

func (h *GetHostListingHandler) Handle(ctx context.Context, q GetHostListingQuery) (dto.ListingDetail, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ListingDetail{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	listing, err := loadOwnedListing(execCtx, unit, q.HostID, q.ListingID)
	if err != nil {
		return dto.ListingDetail{}, err
	}
	return dto.MapListingDetail(listing), nil
}

// loadOwnedListing fetches a listing and verifies the acting host owns it.
func loadOwnedListing(ctx context.Context, unit uow.UnitOfWork, hostID, listingID string) (*domainlistings.Listing, error) {
	listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(listingID))
	if err != nil {
		return nil, err
	}
	if listing.Host != domainlistings.HostID(hostID) {
		return nil, ErrListingNotOwned
	}
	return listing, nil
}

func statesForStatus(raw string) []domainlistings.ListingState {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "draft":
		return []domainlistings.ListingState{domainlistings.ListingDraft}
	case "published":
		return []domainlistings.ListingState{domainlistings.ListingActive}
	case "archived":
		return []domainlistings.ListingState{domainlistings.ListingSuspended}
	default:
		return nil
	}
}

var _ queries.Handler[ListHostListingsQuery, dto.ListingCatalog] = (*ListHostListingsHandler)(nil)
var _ queries.Handler[GetHostListingQuery, dto.ListingDetail] = (*GetHostListingHandler)(nil)
