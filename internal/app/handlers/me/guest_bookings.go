package me

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

const listGuestBookingsKey = "me.bookings.list"

type ListGuestBookingsQuery struct {
	GuestID string `validate:"required"`
}

func (q ListGuestBookingsQuery) Key() string { return listGuestBookingsKey }

type ListGuestBookingsHandler struct {
	UoWFactory uow.Factory
	Logger     *slog.Logger
}

func (h *ListGuestBookingsHandler) Handle(ctx context.Context, q ListGuestBookingsQuery) (dto.GuestBookingCollection, error) {
	guestID := strings.TrimSpace(q.GuestID)
	if guestID == "" {
		return dto.GuestBookingCollection{}, errors.New("guest id is required")
	}
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.GuestBookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	bookings, err := unit.Bookings().ListByGuest(execCtx, guestID)
	if err != nil {
		return dto.GuestBookingCollection{}, err
	}

	listingCache := make(map[domainlistings.ListingID]*domainlistings.Listing)
	items := make([]dto.GuestBookingSummary, 0, len(bookings))
	for _, booking := range bookings {
		listing, err := loadListing(execCtx, unit.Listings(), booking.ListingID, listingCache)
		if err != nil && h.Logger != nil {
			h.Logger.Warn("listing snapshot missing for booking", "booking_id", booking.ID, "listing_id", booking.ListingID, "error", err)
		}
		items = append(items, dto.MapGuestBookingSummary(booking, listing))
	}

	if h.Logger != nil {
		h.Logger.Debug("guest bookings listed", "guest_id", guestID, "count", len(items))
	}
	return dto.GuestBookingCollection{Items: items}, nil
}

func loadListing(
	ctx context.Context,
	repo domainlistings.ListingRepository,
	id domainlistings.ListingID,
	cache map[domainlistings.ListingID]*domainlistings.Listing,
) (*domainlistings.Listing, error) {
	if listing, ok := cache[id]; ok {
		return listing, nil
	}
	listing, err := repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cache[id] = listing
	return listing, nil
}

var _ queries.Handler[ListGuestBookingsQuery, dto.GuestBookingCollection] = (*ListGuestBookingsHandler)(nil)
