package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainavailability "staybook/internal/domain/availability"
	domainbooking "staybook/internal/domain/booking"
	domainfavorites "staybook/internal/domain/favorites"
	domainlistings "staybook/internal/domain/listings"
)

// ListingRepository is an in-memory listing store for tests and the
// single-node setup.
type ListingRepository struct {
	mu    sync.RWMutex
	items map[domainlistings.ListingID]*domainlistings.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{items: make(map[domainlistings.ListingID]*domainlistings.Listing)}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.items[id]
	if !ok {
		return nil, domainlistings.ErrNotFound
	}
	return listing, nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	listing.Version++
	r.items[listing.ID] = listing
	return nil
}

// Search applies catalog filters over the full set. Fine for the sizes
// this store is meant for.
func (r *ListingRepository) Search(ctx context.Context, params domainlistings.SearchParams) (domainlistings.SearchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	opts := params.Normalized()
	matches := make([]*domainlistings.Listing, 0, len(r.items))
	for _, listing := range r.items {
		select {
		case <-ctx.Done():
			return domainlistings.SearchResult{}, ctx.Err()
		default:
		}

		if opts.OnlyActive && listing.State != domainlistings.ListingActive {
			continue
		}
		if opts.Host != "" && listing.Host != opts.Host {
			continue
		}
		if len(opts.States) > 0 && !stateIncluded(listing.State, opts.States) {
			continue
		}
		if opts.City != "" && !strings.EqualFold(listing.Address.City, opts.City) {
			continue
		}
		if opts.Country != "" && !strings.EqualFold(listing.Address.Country, opts.Country) {
			continue
		}
		if opts.LocationQuery != "" && !matchLocation(listing, opts.LocationQuery) {
			continue
		}
		if opts.MinGuests > 0 && listing.MaxGuests < opts.MinGuests {
			continue
		}
		if opts.PriceMinCents > 0 && listing.NightlyRateCents < opts.PriceMinCents {
			continue
		}
		if opts.PriceMaxCents > 0 && listing.NightlyRateCents > opts.PriceMaxCents {
			continue
		}
		if opts.InstantBookOnly && !listing.InstantBook {
			continue
		}
		if !tokensMatch(listing.Amenities, opts.Amenities) {
			continue
		}
		if len(opts.PropertyTypes) > 0 && !propertyTypeMatches(listing.PropertyType, opts.PropertyTypes) {
			continue
		}
		matches = append(matches, listing)
	}

	sort.Slice(matches, func(i, j int) bool {
		switch opts.Sort {
		case domainlistings.SortByPriceDesc:
			if matches[i].NightlyRateCents == matches[j].NightlyRateCents {
				return matches[i].Rating > matches[j].Rating
			}
			return matches[i].NightlyRateCents > matches[j].NightlyRateCents
		case domainlistings.SortByRating:
			if matches[i].Rating == matches[j].Rating {
				return matches[i].NightlyRateCents < matches[j].NightlyRateCents
			}
			return matches[i].Rating > matches[j].Rating
		case domainlistings.SortByNewest:
			if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
				return matches[i].NightlyRateCents < matches[j].NightlyRateCents
			}
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		default:
			if matches[i].NightlyRateCents == matches[j].NightlyRateCents {
				return matches[i].Rating > matches[j].Rating
			}
			return matches[i].NightlyRateCents < matches[j].NightlyRateCents
		}
	})

	total := len(matches)
	start := opts.Offset
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return domainlistings.SearchResult{Items: matches[start:end], Total: total}, nil
}

func tokensMatch(values []string, required []string) bool {
	if len(required) == 0 {
		return true
	}
	if len(values) == 0 {
		return false
	}
	index := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(strings.ToLower(value))
		if value == "" {
			continue
		}
		index[value] = struct{}{}
	}
	for _, token := range required {
		if _, ok := index[token]; !ok {
			return false
		}
	}
	return true
}

func matchLocation(listing *domainlistings.Listing, needle string) bool {
	full := strings.ToLower(strings.Join([]string{
		listing.Address.City,
		listing.Address.Country,
		listing.Address.Line1,
		listing.Title,
	}, " "))
	return strings.Contains(full, needle)
}

func propertyTypeMatches(value string, allowed []string) bool {
	current := strings.TrimSpace(strings.ToLower(value))
	if current == "" {
		return false
	}
	for _, option := range allowed {
		if current == option {
			return true
		}
	}
	return false
}

func stateIncluded(state domainlistings.ListingState, allowed []domainlistings.ListingState) bool {
	for _, candidate := range allowed {
		if state == candidate {
			return true
		}
	}
	return false
}

// AvailabilityRepository keeps calendars in memory, lazily creating one
// per listing.
type AvailabilityRepository struct {
	mu        sync.Mutex
	calendars map[domainlistings.ListingID]*domainavailability.Calendar
}

func NewAvailabilityRepository() *AvailabilityRepository {
	return &AvailabilityRepository{calendars: make(map[domainlistings.ListingID]*domainavailability.Calendar)}
}

func (r *AvailabilityRepository) Calendar(ctx context.Context, id domainlistings.ListingID) (*domainavailability.Calendar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cal, ok := r.calendars[id]; ok {
		return cal, nil
	}
	cal := domainavailability.NewCalendar(id)
	r.calendars[id] = cal
	return cal, nil
}

func (r *AvailabilityRepository) Save(ctx context.Context, calendar *domainavailability.Calendar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	calendar.Version++
	r.calendars[calendar.ListingID] = calendar
	return nil
}

// BookingRepository stores bookings in memory.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	booking, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	return booking, nil
}

func (r *BookingRepository) Save(ctx context.Context, booking *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking.Version++
	r.items[booking.ID] = booking
	return nil
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainbooking.Booking, 0)
	for _, booking := range r.items {
		if booking.GuestID == strings.TrimSpace(guestID) {
			matches = append(matches, booking)
		}
	}
	sortByCreatedDesc(matches)
	return matches, nil
}

func (r *BookingRepository) ListByListing(ctx context.Context, listingID domainlistings.ListingID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainbooking.Booking, 0)
	for _, booking := range r.items {
		if booking.ListingID == listingID {
			matches = append(matches, booking)
		}
	}
	sortByCreatedDesc(matches)
	return matches, nil
}

func sortByCreatedDesc(bookings []*domainbooking.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
}

// FavoritesRepository keeps saved listings per user.
type FavoritesRepository struct {
	mu    sync.RWMutex
	items map[string][]domainfavorites.Favorite
}

func NewFavoritesRepository() *FavoritesRepository {
	return &FavoritesRepository{items: make(map[string][]domainfavorites.Favorite)}
}

func (r *FavoritesRepository) List(ctx context.Context, userID string) ([]domainfavorites.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	favs := r.items[userID]
	out := make([]domainfavorites.Favorite, len(favs))
	copy(out, favs)
	sort.Slice(out, func(i, j int) bool {
		return out[i].AddedAt.After(out[j].AddedAt)
	})
	return out, nil
}

func (r *FavoritesRepository) IsFavorite(ctx context.Context, userID string, listingID domainlistings.ListingID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, fav := range r.items[userID] {
		if fav.ListingID == listingID {
			return true, nil
		}
	}
	return false, nil
}

func (r *FavoritesRepository) Add(ctx context.Context, fav domainfavorites.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items[fav.UserID] {
		if existing.ListingID == fav.ListingID {
			return nil
		}
	}
	r.items[fav.UserID] = append(r.items[fav.UserID], fav)
	return nil
}

func (r *FavoritesRepository) Remove(ctx context.Context, userID string, listingID domainlistings.ListingID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	favs := r.items[userID]
	for i, fav := range favs {
		if fav.ListingID == listingID {
			r.items[userID] = append(favs[:i], favs[i+1:]...)
			return nil
		}
	}
	return nil
}

var (
	_ domainlistings.ListingRepository = (*ListingRepository)(nil)
	_ domainavailability.Repository    = (*AvailabilityRepository)(nil)
	_ domainbooking.Repository         = (*BookingRepository)(nil)
	_ domainfavorites.Repository       = (*FavoritesRepository)(nil)
)
