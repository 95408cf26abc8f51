package booking

import (
	"context"
	"errors"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/middleware"
	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	domainrange "staybook/internal/domain/shared/daterange"
)

const requestBookingKey = "booking.request"

var ErrUnitOfWorkRequired = errors.New("booking: unit of work required")

// RequestBookingCommand carries a guest's booking attempt. Dates travel
// as calendar-date strings straight from the client form.
type RequestBookingCommand struct {
	CommandID       string `validate:"required"`
	ListingID       string `validate:"required"`
	GuestID         string `validate:"required"`
	CheckIn         string `validate:"required"`
	CheckOut        string `validate:"required"`
	Guests          int    `validate:"min=1"`
	IdempotencyKeyV string
}

func (c RequestBookingCommand) Key() string { return requestBookingKey }

func (c RequestBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RequestBookingCommand) ResultPrototype() any { return &RequestBookingResult{} }

type RequestBookingResult struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
	Mode      string `json:"mode"`
	Total     int64  `json:"total"`
	Currency  string `json:"currency"`
}

type RequestBookingHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

// Handle validates the request, quotes it, checks the listing's
// calendar and persists the booking plus its calendar block in one
// unit of work. Every validation failure surfaces before any write.
func (h *RequestBookingHandler) Handle(ctx context.Context, cmd RequestBookingCommand) (*RequestBookingResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, ErrUnitOfWorkRequired
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	dr, err := domainrange.Parse(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}
	now := h.now()
	if err := domainbooking.ValidateDateRange(dr, now); err != nil {
		return nil, err
	}

	listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(cmd.ListingID))
	if err != nil {
		return nil, err
	}

	calendar, err := unit.Availability().Calendar(ctx, listing.ID)
	if err != nil {
		return nil, err
	}
	if calendar.HasOverlap(dr) {
		return nil, domainbooking.ErrDatesUnavailable
	}

	booking, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:        domainbooking.BookingID(cmd.CommandID),
		Listing:   listing,
		GuestID:   cmd.GuestID,
		Range:     dr,
		Guests:    cmd.Guests,
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	if err := calendar.Reserve(dr, string(booking.ID), now); err != nil {
		return nil, err
	}
	if err := unit.Availability().Save(ctx, calendar); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, booking); err != nil {
		return nil, err
	}

	if err := outbox.DrainSources(ctx, h.Outbox, h.Encoder, booking, calendar); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	return &RequestBookingResult{
		BookingID: string(booking.ID),
		Status:    string(booking.Status),
		Mode:      string(booking.Mode),
		Total:     booking.Price.Total.Amount,
		Currency:  booking.Price.Total.Currency,
	}, nil
}

func (h *RequestBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[RequestBookingCommand, *RequestBookingResult] = (*RequestBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*RequestBookingCommand)(nil)
