package listings

import (
	"context"
	"errors"
	"strings"
	"time"

	"staybook/internal/domain/shared/events"
	"staybook/internal/domain/shared/money"
)

var (
	ErrGuestsLimit     = errors.New("listings: guests limit must be at least 1")
	ErrInvalidState    = errors.New("listings: invalid state transition")
	ErrAddressRequired = errors.New("listings: address must be provided when publishing")
	ErrTitleRequired   = errors.New("listings: title is required")
	ErrNightlyRate     = errors.New("listings: nightly rate must be positive")
	ErrCleaningFee     = errors.New("listings: cleaning fee must be non-negative")
	ErrNotFound        = errors.New("listings: not found")
)

type ListingID string
type HostID string

type ListingState string

const (
	ListingDraft     ListingState = "DRAFT"
	ListingActive    ListingState = "ACTIVE"
	ListingSuspended ListingState = "SUSPENDED"
)

type Address struct {
	Line1   string
	City    string
	Region  string
	Country string
	Lat     float64
	Lon     float64
}

func (a Address) Valid() bool {
	return strings.TrimSpace(a.City) != "" && strings.TrimSpace(a.Country) != ""
}

// Listing is a rentable property owned by a host. Nightly rate and
// cleaning fee are kept in minor units of Currency.
type Listing struct {
	ID               ListingID
	Host             HostID
	Title            string
	Description      string
	PropertyType     string
	Address          Address
	Amenities        []string
	MaxGuests        int
	Bedrooms         int
	Bathrooms        int
	NightlyRateCents int64
	CleaningFeeCents int64
	Currency         string
	InstantBook      bool
	State            ListingState
	ThumbnailURL     string
	Photos           []string
	Rating           float64
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
	events.EventRecorder
}

type ListingRepository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	Save(ctx context.Context, listing *Listing) error
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
}

type CreateListingParams struct {
	ID               ListingID
	Host             HostID
	Title            string
	Description      string
	PropertyType     string
	Address          Address
	Amenities        []string
	MaxGuests        int
	Bedrooms         int
	Bathrooms        int
	NightlyRateCents int64
	CleaningFeeCents int64
	Currency         string
	InstantBook      bool
	ThumbnailURL     string
	Photos           []string
	Now              time.Time
}

func NewListing(params CreateListingParams) (*Listing, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("listings: id is required")
	}
	if strings.TrimSpace(string(params.Host)) == "" {
		return nil, errors.New("listings: host is required")
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if params.MaxGuests < 1 {
		return nil, ErrGuestsLimit
	}
	if params.NightlyRateCents <= 0 {
		return nil, ErrNightlyRate
	}
	if params.CleaningFeeCents < 0 {
		return nil, ErrCleaningFee
	}
	currency := strings.ToUpper(strings.TrimSpace(params.Currency))
	if len(currency) != 3 {
		return nil, money.ErrInvalidCurrency
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	l := &Listing{
		ID:               params.ID,
		Host:             params.Host,
		Title:            strings.TrimSpace(params.Title),
		Description:      params.Description,
		PropertyType:     strings.TrimSpace(params.PropertyType),
		Address:          params.Address,
		Amenities:        append([]string(nil), params.Amenities...),
		MaxGuests:        params.MaxGuests,
		Bedrooms:         params.Bedrooms,
		Bathrooms:        params.Bathrooms,
		NightlyRateCents: params.NightlyRateCents,
		CleaningFeeCents: params.CleaningFeeCents,
		Currency:         currency,
		InstantBook:      params.InstantBook,
		ThumbnailURL:     params.ThumbnailURL,
		Photos:           append([]string(nil), params.Photos...),
		State:            ListingDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	l.Record(ListingCreated{ListingID: l.ID, Host: l.Host, At: now})
	return l, nil
}

type UpdateListingParams struct {
	Title            string
	Description      string
	PropertyType     string
	Address          Address
	Amenities        []string
	MaxGuests        int
	Bedrooms         int
	Bathrooms        int
	NightlyRateCents int64
	CleaningFeeCents int64
	InstantBook      bool
	ThumbnailURL     string
	Now              time.Time
}

// UpdateAttributes replaces the editable fields wholesale, the way the
// host form submits them.
func (l *Listing) UpdateAttributes(params UpdateListingParams) error {
	if strings.TrimSpace(params.Title) == "" {
		return ErrTitleRequired
	}
	if params.MaxGuests < 1 {
		return ErrGuestsLimit
	}
	if params.NightlyRateCents <= 0 {
		return ErrNightlyRate
	}
	if params.CleaningFeeCents < 0 {
		return ErrCleaningFee
	}
	l.Title = strings.TrimSpace(params.Title)
	l.Description = params.Description
	l.PropertyType = strings.TrimSpace(params.PropertyType)
	l.Address = params.Address
	l.Amenities = append([]string(nil), params.Amenities...)
	l.MaxGuests = params.MaxGuests
	l.Bedrooms = params.Bedrooms
	l.Bathrooms = params.Bathrooms
	l.NightlyRateCents = params.NightlyRateCents
	l.CleaningFeeCents = params.CleaningFeeCents
	l.InstantBook = params.InstantBook
	if trimmed := strings.TrimSpace(params.ThumbnailURL); trimmed != "" {
		l.ThumbnailURL = trimmed
	}
	l.touch(params.Now)
	return nil
}

// NightlyRate returns the nightly rate as a money value.
func (l *Listing) NightlyRate() money.Money {
	return money.Money{Amount: l.NightlyRateCents, Currency: l.Currency}
}

// CleaningFee returns the flat cleaning fee as a money value.
func (l *Listing) CleaningFee() money.Money {
	return money.Money{Amount: l.CleaningFeeCents, Currency: l.Currency}
}

// Publish makes the listing visible in the catalog.
func (l *Listing) Publish(now time.Time) error {
	if l.State == ListingActive {
		return nil
	}
	if l.State != ListingDraft && l.State != ListingSuspended {
		return ErrInvalidState
	}
	if !l.Address.Valid() {
		return ErrAddressRequired
	}
	l.State = ListingActive
	l.touch(now)
	l.Record(ListingPublished{ListingID: l.ID, At: l.UpdatedAt})
	return nil
}

// Unpublish removes the listing from the catalog without deleting it.
func (l *Listing) Unpublish(now time.Time) error {
	if l.State == ListingSuspended {
		return nil
	}
	if l.State != ListingActive {
		return ErrInvalidState
	}
	l.State = ListingSuspended
	l.touch(now)
	l.Record(ListingUnpublished{ListingID: l.ID, At: l.UpdatedAt})
	return nil
}

// SetPricing replaces the rate and cleaning fee.
func (l *Listing) SetPricing(nightlyCents, cleaningCents int64, now time.Time) error {
	if nightlyCents <= 0 {
		return ErrNightlyRate
	}
	if cleaningCents < 0 {
		return ErrCleaningFee
	}
	l.NightlyRateCents = nightlyCents
	l.CleaningFeeCents = cleaningCents
	l.touch(now)
	return nil
}

// AddPhoto appends an uploaded photo URL, promoting the first one to thumbnail.
func (l *Listing) AddPhoto(url string, now time.Time) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	l.Photos = append(l.Photos, url)
	if l.ThumbnailURL == "" {
		l.ThumbnailURL = url
	}
	l.touch(now)
}

func (l *Listing) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	l.UpdatedAt = now.UTC()
}
