package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/pricing"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/events"
)

var (
	ErrGuestCountOutOfRange = errors.New("booking: guest count outside the listing's capacity")
	ErrNonPositiveTotal     = errors.New("booking: total must be positive")
	ErrGuestRequired        = errors.New("booking: guest id required")
	ErrDatesUnavailable     = errors.New("booking: dates overlap an existing booking")
	ErrCheckInInPast        = errors.New("booking: check-in date is in the past")
	ErrInvalidState         = errors.New("booking: invalid state transition")
	ErrBookingNotFound      = errors.New("booking: not found")
)

type BookingID string

// Mode distinguishes instant bookings from host-approved requests.
type Mode string

const (
	ModeInstant Mode = "instant"
	ModeRequest Mode = "request"
)

// Status is the lifecycle of a booking. A booking starts confirmed when
// the listing allows instant book, pending otherwise, and never starts
// cancelled. Confirmed and cancelled are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

type Booking struct {
	ID        BookingID
	ListingID listings.ListingID
	GuestID   string
	Range     daterange.DateRange
	Guests    int
	Price     pricing.PriceBreakdown
	Mode      Mode
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	ListByGuest(ctx context.Context, guestID string) ([]*Booking, error)
	ListByListing(ctx context.Context, listingID listings.ListingID) ([]*Booking, error)
}

// ValidateDateRange rejects stays whose check-in is already behind the
// calendar day of now.
func ValidateDateRange(dr daterange.DateRange, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if dr.CheckIn.Before(today) {
		return ErrCheckInInPast
	}
	return nil
}

// CreateParams assembles a booking request. The listing is supplied as
// data by the catalog; the builder never fetches it.
type CreateParams struct {
	ID        BookingID
	Listing   *listings.Listing
	GuestID   string
	Range     daterange.DateRange
	Guests    int
	CreatedAt time.Time
}

// NewBooking validates the request and computes its price. Mode and the
// initial status are derived from the listing's instant-book flag; all
// failures surface here, before anything is persisted.
func NewBooking(params CreateParams) (*Booking, error) {
	if params.Listing == nil {
		return nil, listings.ErrNotFound
	}
	if strings.TrimSpace(params.GuestID) == "" {
		return nil, ErrGuestRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if params.Guests < 1 || params.Guests > params.Listing.MaxGuests {
		return nil, ErrGuestCountOutOfRange
	}

	price, err := pricing.ComputeTotal(params.Listing.NightlyRate(), params.Listing.CleaningFee(), params.Range)
	if err != nil {
		return nil, err
	}
	if price.Total.Amount <= 0 {
		return nil, ErrNonPositiveTotal
	}

	mode := ModeRequest
	status := StatusPending
	if params.Listing.InstantBook {
		mode = ModeInstant
		status = StatusConfirmed
	}

	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:        params.ID,
		ListingID: params.Listing.ID,
		GuestID:   strings.TrimSpace(params.GuestID),
		Range:     params.Range,
		Guests:    params.Guests,
		Price:     price,
		Mode:      mode,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.Record(BookingRequested{BookingID: b.ID, ListingID: b.ListingID, GuestID: b.GuestID, Range: b.Range, Guests: b.Guests, Total: price.Total, Mode: mode, At: now})
	if status == StatusConfirmed {
		b.Record(BookingConfirmed{BookingID: b.ID, ListingID: b.ListingID, Range: b.Range, Total: price.Total, At: now})
	}
	return b, nil
}

// Confirm moves a pending request to confirmed after host approval.
func (b *Booking) Confirm(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.Status = StatusConfirmed
	b.UpdatedAt = now.UTC()
	b.Record(BookingConfirmed{BookingID: b.ID, ListingID: b.ListingID, Range: b.Range, Total: b.Price.Total, At: b.UpdatedAt})
	return nil
}

// Decline cancels a pending request on host refusal.
func (b *Booking) Decline(reason string, now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now.UTC()
	b.Record(BookingDeclined{BookingID: b.ID, ListingID: b.ListingID, Reason: reason, At: b.UpdatedAt})
	return nil
}
