package daterange

import (
	"errors"
	"time"
)

var (
	ErrInvalidOrder = errors.New("daterange: checkout must be after checkin")
	ErrUnparseable  = errors.New("daterange: invalid calendar date")
)

// Layout is the wire format for calendar dates. Parsing it with
// time.Parse yields UTC midnight, so the same date string produces the
// same instant no matter where the process runs.
const Layout = "2006-01-02"

// DateRange represents a half-open interval [CheckIn, CheckOut).
// Both endpoints are calendar dates stored as UTC midnight; a range is
// never constructed with checkout on or before checkin.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// New builds a range from two instants, truncating each to its UTC
// calendar day.
func New(checkIn, checkOut time.Time) (DateRange, error) {
	dr := DateRange{CheckIn: truncateToDay(checkIn), CheckOut: truncateToDay(checkOut)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Parse builds a range from two "2006-01-02" date strings.
func Parse(checkIn, checkOut string) (DateRange, error) {
	in, err := ParseDate(checkIn)
	if err != nil {
		return DateRange{}, err
	}
	out, err := ParseDate(checkOut)
	if err != nil {
		return DateRange{}, err
	}
	return New(in, out)
}

// ParseDate parses a single calendar date string.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(Layout, value)
	if err != nil {
		return time.Time{}, ErrUnparseable
	}
	return t, nil
}

func (dr DateRange) Validate() error {
	if dr.CheckIn.IsZero() || dr.CheckOut.IsZero() {
		return ErrInvalidOrder
	}
	if !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidOrder
	}
	return nil
}

// Nights counts the calendar days between checkin and checkout. Both
// endpoints are UTC midnights, so day arithmetic is exact and immune
// to daylight-saving shifts. Always >= 1 for a validated range.
func (dr DateRange) Nights() int {
	return int(dayNumber(dr.CheckOut) - dayNumber(dr.CheckIn))
}

// Overlaps reports whether two half-open ranges share at least one
// night. Ranges that only touch at a boundary day do not overlap,
// which allows back-to-back stays.
func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(dr.CheckOut)
}

func (dr DateRange) Contains(other DateRange) bool {
	return !dr.CheckIn.After(other.CheckIn) && !dr.CheckOut.Before(other.CheckOut)
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	t = truncateToDay(t)
	return !t.Before(dr.CheckIn) && t.Before(dr.CheckOut)
}

func (dr DateRange) Adjacent(other DateRange) bool {
	return dr.CheckOut.Equal(other.CheckIn) || dr.CheckIn.Equal(other.CheckOut)
}

// Merge unions two overlapping or adjacent ranges.
func (dr DateRange) Merge(other DateRange) (DateRange, bool) {
	if !(dr.Overlaps(other) || dr.Adjacent(other)) {
		return DateRange{}, false
	}
	start := dr.CheckIn
	if other.CheckIn.Before(start) {
		start = other.CheckIn
	}
	end := dr.CheckOut
	if other.CheckOut.After(end) {
		end = other.CheckOut
	}
	return DateRange{CheckIn: start, CheckOut: end}, true
}

func (dr DateRange) String() string {
	return dr.CheckIn.Format(Layout) + "/" + dr.CheckOut.Format(Layout)
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayNumber(t time.Time) int64 {
	return t.Unix() / (24 * 60 * 60)
}
