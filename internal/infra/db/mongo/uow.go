package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staybook/internal/app/uow"
	domainavailability "staybook/internal/domain/availability"
	domainbooking "staybook/internal/domain/booking"
	domainfavorites "staybook/internal/domain/favorites"
	domainlistings "staybook/internal/domain/listings"
)

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Factory wires Mongo sessions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	ListingsRepo     domainlistings.ListingRepository
	AvailabilityRepo domainavailability.Repository
	BookingRepo      domainbooking.Repository
	FavoritesRepo    domainfavorites.Repository
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().
		SetReadConcern(f.DB.ReadConcern()).
		SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		session:      session,
		listings:     f.ListingsRepo,
		availability: f.AvailabilityRepo,
		bookings:     f.BookingRepo,
		favorites:    f.FavoritesRepo,
	}, nil
}

type Unit struct {
	session mongo.Session

	listings     domainlistings.ListingRepository
	availability domainavailability.Repository
	bookings     domainbooking.Repository
	favorites    domainfavorites.Repository
}

func (u *Unit) Listings() domainlistings.ListingRepository  { return u.listings }
func (u *Unit) Availability() domainavailability.Repository { return u.availability }
func (u *Unit) Bookings() domainbooking.Repository          { return u.bookings }
func (u *Unit) Favorites() domainfavorites.Repository       { return u.favorites }

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext makes the Mongo session visible to downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var _ uow.Factory = Factory{}
var _ uow.UnitOfWork = (*Unit)(nil)
