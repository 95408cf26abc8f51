package availability

import (
	"context"
	"errors"
	"time"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/events"
)

var (
	ErrOverlappingRange = errors.New("availability: range overlaps with an existing block")
	ErrRangeNotFound    = errors.New("availability: range not found")
)

type BlockReason string

const (
	ReasonBooking   BlockReason = "BOOKING"
	ReasonHostBlock BlockReason = "HOST_BLOCK"
)

// Block marks a half-open date range as unavailable. Reference points
// back at the booking or host action that created it.
type Block struct {
	Range     daterange.DateRange
	Reason    BlockReason
	Reference string
	CreatedAt time.Time
}

// Calendar tracks the occupied ranges of a single listing. A requested
// stay is available iff it overlaps none of the blocks; a stay checking
// in on the day another checks out is allowed.
type Calendar struct {
	ListingID listings.ListingID
	Blocks    []Block
	Version   int64
	events.EventRecorder
}

type Repository interface {
	Calendar(ctx context.Context, id listings.ListingID) (*Calendar, error)
	Save(ctx context.Context, calendar *Calendar) error
}

func NewCalendar(id listings.ListingID) *Calendar {
	return &Calendar{ListingID: id}
}

// HasOverlap reports whether the range collides with any existing block.
func (c *Calendar) HasOverlap(r daterange.DateRange) bool {
	for _, block := range c.Blocks {
		if block.Range.Overlaps(r) {
			return true
		}
	}
	return false
}

// Reserve blocks the range for a booking, rejecting conflicts.
func (c *Calendar) Reserve(r daterange.DateRange, bookingID string, now time.Time) error {
	if c.HasOverlap(r) {
		return ErrOverlappingRange
	}
	c.Blocks = append(c.Blocks, Block{Range: r, Reason: ReasonBooking, Reference: bookingID, CreatedAt: now.UTC()})
	c.Record(CalendarBlocked{ListingID: c.ListingID, Range: r, Reason: ReasonBooking, At: now.UTC()})
	return nil
}

// BlockRange lets a host mark dates unavailable outside of bookings.
func (c *Calendar) BlockRange(r daterange.DateRange, reference string, now time.Time) error {
	if c.HasOverlap(r) {
		return ErrOverlappingRange
	}
	c.Blocks = append(c.Blocks, Block{Range: r, Reason: ReasonHostBlock, Reference: reference, CreatedAt: now.UTC()})
	c.Record(CalendarBlocked{ListingID: c.ListingID, Range: r, Reason: ReasonHostBlock, At: now.UTC()})
	return nil
}

// Release drops the block identified by reference, typically after a
// booking is declined.
func (c *Calendar) Release(reference string, now time.Time) error {
	idx := -1
	for i, block := range c.Blocks {
		if block.Reference == reference {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrRangeNotFound
	}
	removed := c.Blocks[idx]
	c.Blocks = append(c.Blocks[:idx], c.Blocks[idx+1:]...)
	c.Record(CalendarReleased{ListingID: c.ListingID, Range: removed.Range, Reason: removed.Reason, At: now.UTC()})
	return nil
}

// BlocksWithin returns the blocks overlapping the window, for calendar views.
func (c *Calendar) BlocksWithin(window daterange.DateRange) []Block {
	out := make([]Block, 0)
	for _, block := range c.Blocks {
		if block.Range.Overlaps(window) {
			out = append(out, block)
		}
	}
	return out
}
