package favorites

import (
	"context"
	"errors"
	"strings"
	"time"

	"staybook/internal/domain/listings"
)

var (
	ErrUserRequired    = errors.New("favorites: user id is required")
	ErrListingRequired = errors.New("favorites: listing id is required")
)

// Favorite marks a listing saved by a guest.
type Favorite struct {
	UserID    string
	ListingID listings.ListingID
	AddedAt   time.Time
}

type Repository interface {
	List(ctx context.Context, userID string) ([]Favorite, error)
	IsFavorite(ctx context.Context, userID string, listingID listings.ListingID) (bool, error)
	Add(ctx context.Context, fav Favorite) error
	Remove(ctx context.Context, userID string, listingID listings.ListingID) error
}

func New(userID string, listingID listings.ListingID, now time.Time) (Favorite, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Favorite{}, ErrUserRequired
	}
	if strings.TrimSpace(string(listingID)) == "" {
		return Favorite{}, ErrListingRequired
	}
	if now.IsZero() {
		now = time.Now()
	}
	return Favorite{UserID: userID, ListingID: listingID, AddedAt: now.UTC()}, nil
}
