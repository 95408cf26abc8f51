package booking

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/outbox"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainavailability "staybook/internal/domain/availability"
	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
)

const (
	listHostBookingsKey   = "host.bookings.list"
	confirmHostBookingKey = "host.bookings.confirm"
	declineHostBookingKey = "host.bookings.decline"

	defaultHostListLimit   = 60
	allStatusesFilterValue = "all"
)

var ErrBookingNotOwned = errors.New("booking: not owned by host")

type ListHostBookingsQuery struct {
	HostID string `validate:"required"`
	Status string
}

func (q ListHostBookingsQuery) Key() string { return listHostBookingsKey }

type ListHostBookingsHandler struct {
	UoWFactory uow.Factory
	Logger     *slog.Logger
}

func (h *ListHostBookingsHandler) Handle(ctx context.Context, q ListHostBookingsQuery) (dto.HostBookingCollection, error) {
	hostID := strings.TrimSpace(q.HostID)
	if hostID == "" {
		return dto.HostBookingCollection{}, errors.New("host id is required")
	}
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.HostBookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	listingsResult, err := unit.Listings().Search(execCtx, domainlistings.SearchParams{
		Host:  domainlistings.HostID(hostID),
		Limit: defaultHostListLimit,
	})
	if err != nil {
		return dto.HostBookingCollection{}, err
	}

	statusFilter := strings.ToLower(strings.TrimSpace(q.Status))
	if statusFilter == "" {
		statusFilter = string(domainbooking.StatusPending)
	}
	allStatuses := statusFilter == allStatusesFilterValue

	items := make([]dto.HostBookingSummary, 0)
	for _, listing := range listingsResult.Items {
		bookings, err := unit.Bookings().ListByListing(execCtx, listing.ID)
		if err != nil {
			return dto.HostBookingCollection{}, err
		}
		for _, booking := range bookings {
			if !allStatuses && string(booking.Status) != statusFilter {
				continue
			}
			items = append(items, dto.MapHostBookingSummary(booking, listing))
		}
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	if h.Logger != nil {
		h.Logger.Debug("host bookings listed", "host_id", hostID, "count", len(items), "status", statusFilter)
	}

	return dto.HostBookingCollection{Items: items}, nil
}

type ConfirmHostBookingCommand struct {
	HostID    string `validate:"required"`
	BookingID string `validate:"required"`
}

func (c ConfirmHostBookingCommand) Key() string { return confirmHostBookingKey }

type DeclineHostBookingCommand struct {
	HostID    string `validate:"required"`
	BookingID string `validate:"required"`
	Reason    string
}

func (c DeclineHostBookingCommand) Key() string { return declineHostBookingKey }

type HostBookingActionResult struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

// loadOwnedBooking fetches the booking and verifies the acting host
// owns its listing.
func loadOwnedBooking(ctx context.Context, unit uow.UnitOfWork, hostID, bookingID string) (*domainbooking.Booking, error) {
	booking, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(bookingID))
	if err != nil {
		return nil, err
	}
	listing, err := unit.Listings().ByID(ctx, booking.ListingID)
	if err != nil {
		return nil, err
	}
	if listing.Host != domainlistings.HostID(hostID) {
		return nil, ErrBookingNotOwned
	}
	return booking, nil
}

type ConfirmHostBookingHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *ConfirmHostBookingHandler) Handle(ctx context.Context, cmd ConfirmHostBookingCommand) (*HostBookingActionResult, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	booking, err := loadOwnedBooking(ctx, unit, strings.TrimSpace(cmd.HostID), strings.TrimSpace(cmd.BookingID))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := booking.Confirm(now); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, booking); err != nil {
		return nil, err
	}
	if err := outbox.DrainSources(ctx, h.Outbox, h.Encoder, booking); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("host booking confirmed", "booking_id", booking.ID, "listing_id", booking.ListingID)
	}
	return &HostBookingActionResult{BookingID: string(booking.ID), Status: string(booking.Status)}, nil
}

type DeclineHostBookingHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *DeclineHostBookingHandler) Handle(ctx context.Context, cmd DeclineHostBookingCommand) (*HostBookingActionResult, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	booking, err := loadOwnedBooking(ctx, unit, strings.TrimSpace(cmd.HostID), strings.TrimSpace(cmd.BookingID))
	if err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(cmd.Reason)
	if reason == "" {
		reason = "host-declined"
	}

	now := time.Now().UTC()
	if err := booking.Decline(reason, now); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, booking); err != nil {
		return nil, err
	}

	// Declining frees the dates for other guests.
	calendar, err := unit.Availability().Calendar(ctx, booking.ListingID)
	if err != nil {
		return nil, err
	}
	if err := calendar.Release(string(booking.ID), now); err != nil {
		// A missing block means the dates were never held; nothing to free.
		if !errors.Is(err, domainavailability.ErrRangeNotFound) {
			return nil, err
		}
	}
	if err := unit.Availability().Save(ctx, calendar); err != nil {
		return nil, err
	}

	if err := outbox.DrainSources(ctx, h.Outbox, h.Encoder, booking, calendar); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("host booking declined", "booking_id", booking.ID, "listing_id", booking.ListingID, "reason", reason)
	}
	return &HostBookingActionResult{BookingID: string(booking.ID), Status: string(booking.Status)}, nil
}

var _ queries.Handler[ListHostBookingsQuery, dto.HostBookingCollection] = (*ListHostBookingsHandler)(nil)
var _ commands.Handler[ConfirmHostBookingCommand, *HostBookingActionResult] = (*ConfirmHostBookingHandler)(nil)
var _ commands.Handler[DeclineHostBookingCommand, *HostBookingActionResult] = (*DeclineHostBookingHandler)(nil)
