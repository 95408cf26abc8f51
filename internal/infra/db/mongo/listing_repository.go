package mongo

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlistings "staybook/internal/domain/listings"
)

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection("agg_listing")}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlistings.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	doc := newListingDocument(listing)
	filter := bson.M{"_id": doc.ID, "version": listing.Version}
	doc.Version = listing.Version + 1
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
	listing.Version = doc.Version
	return nil
}

func (r *ListingRepository) Search(ctx context.Context, params domainlistings.SearchParams) (domainlistings.SearchResult, error) {
	opts := params.Normalized()
	filter := searchFilter(opts)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return domainlistings.SearchResult{}, err
	}

	findOpts := options.Find().
		SetSort(sortSpec(opts.Sort)).
		SetSkip(int64(opts.Offset)).
		SetLimit(int64(opts.Limit))
	cursor, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return domainlistings.SearchResult{}, err
	}
	defer cursor.Close(ctx)

	items := make([]*domainlistings.Listing, 0)
	for cursor.Next(ctx) {
		var doc listingDocument
		if err := cursor.Decode(&doc); err != nil {
			return domainlistings.SearchResult{}, err
		}
		items = append(items, doc.toAggregate())
	}
	if err := cursor.Err(); err != nil {
		return domainlistings.SearchResult{}, err
	}
	return domainlistings.SearchResult{Items: items, Total: int(total)}, nil
}

func searchFilter(opts domainlistings.SearchParams) bson.M {
	filter := bson.M{}
	if opts.OnlyActive {
		filter["state"] = string(domainlistings.ListingActive)
	}
	if opts.Host != "" {
		filter["host_id"] = string(opts.Host)
	}
	if len(opts.States) > 0 {
		states := make([]string, 0, len(opts.States))
		for _, state := range opts.States {
			states = append(states, string(state))
		}
		filter["state"] = bson.M{"$in": states}
	}
	if opts.City != "" {
		filter["address.city_lower"] = opts.City
	}
	if opts.Country != "" {
		filter["address.country_lower"] = opts.Country
	}
	if opts.LocationQuery != "" {
		pattern := primitive.Regex{Pattern: regexEscape(opts.LocationQuery), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"address.city": pattern},
			bson.M{"address.country": pattern},
			bson.M{"address.line1": pattern},
		}
	}
	if opts.MinGuests > 0 {
		filter["max_guests"] = bson.M{"$gte": opts.MinGuests}
	}
	price := bson.M{}
	if opts.PriceMinCents > 0 {
		price["$gte"] = opts.PriceMinCents
	}
	if opts.PriceMaxCents > 0 {
		price["$lte"] = opts.PriceMaxCents
	}
	if len(price) > 0 {
		filter["nightly_rate_cents"] = price
	}
	if opts.InstantBookOnly {
		filter["instant_book"] = true
	}
	if len(opts.Amenities) > 0 {
		filter["amenities_lower"] = bson.M{"$all": opts.Amenities}
	}
	if len(opts.PropertyTypes) > 0 {
		filter["property_type_lower"] = bson.M{"$in": opts.PropertyTypes}
	}
	return filter
}

func sortSpec(sort domainlistings.CatalogSort) bson.D {
	switch sort {
	case domainlistings.SortByPriceDesc:
		return bson.D{{Key: "nightly_rate_cents", Value: -1}, {Key: "rating", Value: -1}}
	case domainlistings.SortByRating:
		return bson.D{{Key: "rating", Value: -1}, {Key: "nightly_rate_cents", Value: 1}}
	case domainlistings.SortByNewest:
		return bson.D{{Key: "created_at", Value: -1}}
	default:
		return bson.D{{Key: "nightly_rate_cents", Value: 1}, {Key: "rating", Value: -1}}
	}
}

func regexEscape(s string) string {
	escaped := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '.', '+', '*', '?', '(', ')', '|', '[', ']', '{', '}', '^', '$':
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, s[i])
	}
	return string(escaped)
}

type listingDocument struct {
	ID                string          `bson:"_id"`
	HostID            string          `bson:"host_id"`
	Title             string          `bson:"title"`
	Description       string          `bson:"description"`
	PropertyType      string          `bson:"property_type"`
	PropertyTypeLower string          `bson:"property_type_lower"`
	Address           addressDocument `bson:"address"`
	Amenities         []string        `bson:"amenities"`
	AmenitiesLower    []string        `bson:"amenities_lower"`
	MaxGuests         int             `bson:"max_guests"`
	Bedrooms          int             `bson:"bedrooms"`
	Bathrooms         int             `bson:"bathrooms"`
	NightlyRateCents  int64           `bson:"nightly_rate_cents"`
	CleaningFeeCents  int64           `bson:"cleaning_fee_cents"`
	Currency          string          `bson:"currency"`
	InstantBook       bool            `bson:"instant_book"`
	State             string          `bson:"state"`
	ThumbnailURL      string          `bson:"thumbnail_url"`
	Photos            []string        `bson:"photos"`
	Rating            float64         `bson:"rating"`
	CreatedAt         int64           `bson:"created_at"`
	UpdatedAt         int64           `bson:"updated_at"`
	Version           int64           `bson:"version"`
}

type addressDocument struct {
	Line1        string  `bson:"line1"`
	City         string  `bson:"city"`
	CityLower    string  `bson:"city_lower"`
	Region       string  `bson:"region"`
	Country      string  `bson:"country"`
	CountryLower string  `bson:"country_lower"`
	Lat          float64 `bson:"lat"`
	Lon          float64 `bson:"lon"`
}

func newListingDocument(l *domainlistings.Listing) listingDocument {
	return listingDocument{
		ID:                string(l.ID),
		HostID:            string(l.Host),
		Title:             l.Title,
		Description:       l.Description,
		PropertyType:      l.PropertyType,
		PropertyTypeLower: lower(l.PropertyType),
		Address: addressDocument{
			Line1:        l.Address.Line1,
			City:         l.Address.City,
			CityLower:    lower(l.Address.City),
			Region:       l.Address.Region,
			Country:      l.Address.Country,
			CountryLower: lower(l.Address.Country),
			Lat:          l.Address.Lat,
			Lon:          l.Address.Lon,
		},
		Amenities:        l.Amenities,
		AmenitiesLower:   lowerAll(l.Amenities),
		MaxGuests:        l.MaxGuests,
		Bedrooms:         l.Bedrooms,
		Bathrooms:        l.Bathrooms,
		NightlyRateCents: l.NightlyRateCents,
		CleaningFeeCents: l.CleaningFeeCents,
		Currency:         l.Currency,
		InstantBook:      l.InstantBook,
		State:            string(l.State),
		ThumbnailURL:     l.ThumbnailURL,
		Photos:           l.Photos,
		Rating:           l.Rating,
		CreatedAt:        l.CreatedAt.UnixMilli(),
		UpdatedAt:        l.UpdatedAt.UnixMilli(),
		Version:          l.Version,
	}
}

func (d listingDocument) toAggregate() *domainlistings.Listing {
	return &domainlistings.Listing{
		ID:           domainlistings.ListingID(d.ID),
		Host:         domainlistings.HostID(d.HostID),
		Title:        d.Title,
		Description:  d.Description,
		PropertyType: d.PropertyType,
		Address: domainlistings.Address{
			Line1:   d.Address.Line1,
			City:    d.Address.City,
			Region:  d.Address.Region,
			Country: d.Address.Country,
			Lat:     d.Address.Lat,
			Lon:     d.Address.Lon,
		},
		Amenities:        d.Amenities,
		MaxGuests:        d.MaxGuests,
		Bedrooms:         d.Bedrooms,
		Bathrooms:        d.Bathrooms,
		NightlyRateCents: d.NightlyRateCents,
		CleaningFeeCents: d.CleaningFeeCents,
		Currency:         d.Currency,
		InstantBook:      d.InstantBook,
		State:            domainlistings.ListingState(d.State),
		ThumbnailURL:     d.ThumbnailURL,
		Photos:           d.Photos,
		Rating:           d.Rating,
		CreatedAt:        timestampToTime(d.CreatedAt),
		UpdatedAt:        timestampToTime(d.UpdatedAt),
		Version:          d.Version,
	}
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func lowerAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, lower(value))
	}
	return out
}

var _ domainlistings.ListingRepository = (*ListingRepository)(nil)
