package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainavailability "staybook/internal/domain/availability"
	domainlistings "staybook/internal/domain/listings"
	domainrange "staybook/internal/domain/shared/daterange"
)

type AvailabilityRepository struct {
	col *mongo.Collection
}

func NewAvailabilityRepository(db *mongo.Database) *AvailabilityRepository {
	return &AvailabilityRepository{col: db.Collection("agg_calendar")}
}

// Calendar loads a listing's calendar, returning an empty one when the
// listing has never been booked or blocked.
func (r *AvailabilityRepository) Calendar(ctx context.Context, id domainlistings.ListingID) (*domainavailability.Calendar, error) {
	var doc calendarDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domainavailability.NewCalendar(id), nil
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *AvailabilityRepository) Save(ctx context.Context, calendar *domainavailability.Calendar) error {
	doc := newCalendarDocument(calendar)
	filter := bson.M{"_id": doc.ID, "version": calendar.Version}
	doc.Version = calendar.Version + 1
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	calendar.Version = doc.Version
	return nil
}

type calendarDocument struct {
	ID      string          `bson:"_id"`
	Blocks  []blockDocument `bson:"blocks"`
	Version int64           `bson:"version"`
}

type blockDocument struct {
	Range     rangeDocument `bson:"range"`
	Reason    string        `bson:"reason"`
	Reference string        `bson:"reference"`
	CreatedAt int64         `bson:"created_at"`
}

func newCalendarDocument(c *domainavailability.Calendar) calendarDocument {
	blocks := make([]blockDocument, 0, len(c.Blocks))
	for _, block := range c.Blocks {
		blocks = append(blocks, blockDocument{
			Range:     rangeDocument{CheckIn: block.Range.CheckIn.UnixMilli(), CheckOut: block.Range.CheckOut.UnixMilli()},
			Reason:    string(block.Reason),
			Reference: block.Reference,
			CreatedAt: block.CreatedAt.UnixMilli(),
		})
	}
	return calendarDocument{ID: string(c.ListingID), Blocks: blocks, Version: c.Version}
}

func (d calendarDocument) toAggregate() *domainavailability.Calendar {
	calendar := domainavailability.NewCalendar(domainlistings.ListingID(d.ID))
	calendar.Version = d.Version
	for _, block := range d.Blocks {
		calendar.Blocks = append(calendar.Blocks, domainavailability.Block{
			Range:     domainrange.DateRange{CheckIn: timestampToTime(block.Range.CheckIn), CheckOut: timestampToTime(block.Range.CheckOut)},
			Reason:    domainavailability.BlockReason(block.Reason),
			Reference: block.Reference,
			CreatedAt: timestampToTime(block.CreatedAt),
		})
	}
	return calendar
}

var _ domainavailability.Repository = (*AvailabilityRepository)(nil)
