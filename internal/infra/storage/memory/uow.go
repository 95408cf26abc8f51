package memory

import (
	"context"
	"errors"

	"staybook/internal/app/uow"
	domainavailability "staybook/internal/domain/availability"
	domainbooking "staybook/internal/domain/booking"
	domainfavorites "staybook/internal/domain/favorites"
	domainlistings "staybook/internal/domain/listings"
)

var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires in-memory repositories into a unit-of-work boundary.
// No isolation is provided; the abstraction matches the application
// ports so the same handlers run against mongo.
type Factory struct {
	ListingsRepo     domainlistings.ListingRepository
	AvailabilityRepo domainavailability.Repository
	BookingRepo      domainbooking.Repository
	FavoritesRepo    domainfavorites.Repository
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.ListingsRepo == nil || f.AvailabilityRepo == nil || f.BookingRepo == nil || f.FavoritesRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		listings:     f.ListingsRepo,
		availability: f.AvailabilityRepo,
		bookings:     f.BookingRepo,
		favorites:    f.FavoritesRepo,
	}, nil
}

type Unit struct {
	listings     domainlistings.ListingRepository
	availability domainavailability.Repository
	bookings     domainbooking.Repository
	favorites    domainfavorites.Repository
}

func (u *Unit) Listings() domainlistings.ListingRepository   { return u.listings }
func (u *Unit) Availability() domainavailability.Repository  { return u.availability }
func (u *Unit) Bookings() domainbooking.Repository           { return u.bookings }
func (u *Unit) Favorites() domainfavorites.Repository        { return u.favorites }

func (u *Unit) Commit(ctx context.Context) error   { return nil }
func (u *Unit) Rollback(ctx context.Context) error { return nil }

var _ uow.Factory = Factory{}
var _ uow.UnitOfWork = (*Unit)(nil)
