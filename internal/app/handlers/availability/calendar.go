package availability

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/outbox"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainavailability "staybook/internal/domain/availability"
	domainlistings "staybook/internal/domain/listings"
	domainrange "staybook/internal/domain/shared/daterange"
)

const (
	getCalendarKey       = "availability.calendar"
	checkAvailabilityKey = "availability.check"
	blockDatesKey        = "host.calendar.block"
	releaseBlockKey      = "host.calendar.release"

	defaultCalendarWindowDays = 365
)

var ErrCalendarNotOwned = errors.New("availability: calendar not owned by host")

// GetCalendarQuery returns the occupied ranges of a listing within a
// window. Empty bounds default to the next year.
type GetCalendarQuery struct {
	ListingID string `validate:"required"`
	From      string
	To        string
}

func (q GetCalendarQuery) Key() string { return getCalendarKey }

type GetCalendarHandler struct {
	UoWFactory uow.Factory
	Now        func() time.Time
}

func (h *GetCalendarHandler) Handle(ctx context.Context, q GetCalendarQuery) (dto.Calendar, error) {
	window, err := h.window(q.From, q.To)
	if err != nil {
		return dto.Calendar{}, err
	}

	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Calendar{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	calendar, err := unit.Availability().Calendar(execCtx, domainlistings.ListingID(q.ListingID))
	if err != nil {
		return dto.Calendar{}, err
	}
	return dto.MapCalendar(q.ListingID, calendar.BlocksWithin(window)), nil
}

func (h *GetCalendarHandler) window(from, to string) (domainrange.DateRange, error) {
	if from != "" && to != "" {
		return domainrange.Parse(from, to)
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return domainrange.New(start, start.AddDate(0, 0, defaultCalendarWindowDays))
}

// CheckAvailabilityQuery answers whether a stay can be booked without
// creating anything.
type CheckAvailabilityQuery struct {
	ListingID string `validate:"required"`
	CheckIn   string `validate:"required"`
	CheckOut  string `validate:"required"`
}

func (q CheckAvailabilityQuery) Key() string { return checkAvailabilityKey }

type AvailabilityResult struct {
	ListingID string `json:"listing_id"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Available bool   `json:"available"`
}

type CheckAvailabilityHandler struct {
	UoWFactory uow.Factory
}

func (h *CheckAvailabilityHandler) Handle(ctx context.Context, q CheckAvailabilityQuery) (AvailabilityResult, error) {
	dr, err := domainrange.Parse(q.CheckIn, q.CheckOut)
	if err != nil {
		return AvailabilityResult{}, err
	}

	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return AvailabilityResult{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	calendar, err := unit.Availability().Calendar(execCtx, domainlistings.ListingID(q.ListingID))
	if err != nil {
		return AvailabilityResult{}, err
	}
	return AvailabilityResult{
		ListingID: q.ListingID,
		CheckIn:   dr.CheckIn.Format(domainrange.Layout),
		CheckOut:  dr.CheckOut.Format(domainrange.Layout),
		Available: !calendar.HasOverlap(dr),
	}, nil
}

// BlockDatesCommand lets a host close dates for maintenance or personal use.
type BlockDatesCommand struct {
	HostID    string `validate:"required"`
	ListingID string `validate:"required"`
	CheckIn   string `validate:"required"`
	CheckOut  string `validate:"required"`
	Reference string
}

func (c BlockDatesCommand) Key() string { return blockDatesKey }

type BlockDatesHandler struct {
	Logger  *slog.Logger
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Now     func() time.Time
}

func (h *BlockDatesHandler) Handle(ctx context.Context, cmd BlockDatesCommand) (dto.Calendar, error) {
	dr, err := domainrange.Parse(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return dto.Calendar{}, err
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return dto.Calendar{}, uow.ErrUnitOfWorkMissing
	}
	calendar, err := loadOwnedCalendar(ctx, unit, cmd.HostID, cmd.ListingID)
	if err != nil {
		return dto.Calendar{}, err
	}

	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	reference := cmd.Reference
	if reference == "" {
		reference = "host-block"
	}
	if err := calendar.BlockRange(dr, reference, now); err != nil {
		return dto.Calendar{}, err
	}
	if err := unit.Availability().Save(ctx, calendar); err != nil {
		return dto.Calendar{}, err
	}
	if err := outbox.DrainSources(ctx, h.Outbox, h.Encoder, calendar); err != nil {
		return dto.Calendar{}, err
	}

	if h.Logger != nil {
		h.Logger.Info("dates blocked", "listing_id", cmd.ListingID, "check_in", cmd.CheckIn, "check_out", cmd.CheckOut)
	}
	return dto.MapCalendar(cmd.ListingID, calendar.Blocks), nil
}

// ReleaseBlockCommand reopens a host block by its reference.
type ReleaseBlockCommand struct {
	HostID    string `validate:"required"`
	ListingID string `validate:"required"`
	Reference string `validate:"required"`
}

func (c ReleaseBlockCommand) Key() string { return releaseBlockKey }

type ReleaseBlockHandler struct {
	Logger  *slog.Logger
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Now     func() time.Time
}

func (h *ReleaseBlockHandler) Handle(ctx context.Context, cmd ReleaseBlockCommand) (dto.Calendar, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return dto.Calendar{}, uow.ErrUnitOfWorkMissing
	}
	calendar, err := loadOwnedCalendar(ctx, unit, cmd.HostID, cmd.ListingID)
	if err != nil {
		return dto.Calendar{}, err
	}

	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	if err := calendar.Release(cmd.Reference, now); err != nil {
		return dto.Calendar{}, err
	}
	if err := unit.Availability().Save(ctx, calendar); err != nil {
		return dto.Calendar{}, err
	}
	if err := outbox.DrainSources(ctx, h.Outbox, h.Encoder, calendar); err != nil {
		return dto.Calendar{}, err
	}

	if h.Logger != nil {
		h.Logger.Info("calendar block released", "listing_id", cmd.ListingID, "reference", cmd.Reference)
	}
	return dto.MapCalendar(cmd.ListingID, calendar.Blocks), nil
}

func loadOwnedCalendar(ctx context.Context, unit uow.UnitOfWork, hostID, listingID string) (*domainavailability.Calendar, error) {
	listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(listingID))
	if err != nil {
		return nil, err
	}
	if listing.Host != domainlistings.HostID(hostID) {
		return nil, ErrCalendarNotOwned
	}
	return unit.Availability().Calendar(ctx, listing.ID)
}

var (
	_ queries.Handler[GetCalendarQuery, dto.Calendar]              = (*GetCalendarHandler)(nil)
	_ queries.Handler[CheckAvailabilityQuery, AvailabilityResult]  = (*CheckAvailabilityHandler)(nil)
	_ commands.Handler[BlockDatesCommand, dto.Calendar]            = (*BlockDatesHandler)(nil)
	_ commands.Handler[ReleaseBlockCommand, dto.Calendar]          = (*ReleaseBlockHandler)(nil)
)
