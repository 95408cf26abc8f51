package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainfavorites "staybook/internal/domain/favorites"
	domainlistings "staybook/internal/domain/listings"
)

type FavoritesRepository struct {
	col *mongo.Collection
}

func NewFavoritesRepository(db *mongo.Database) *FavoritesRepository {
	return &FavoritesRepository{col: db.Collection("favorites")}
}

func (r *FavoritesRepository) List(ctx context.Context, userID string) ([]domainfavorites.Favorite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "added_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]domainfavorites.Favorite, 0)
	for cursor.Next(ctx) {
		var doc favoriteDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toFavorite())
	}
	return out, cursor.Err()
}

func (r *FavoritesRepository) IsFavorite(ctx context.Context, userID string, listingID domainlistings.ListingID) (bool, error) {
	err := r.col.FindOne(ctx, bson.M{"_id": favoriteKey(userID, listingID)}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

func (r *FavoritesRepository) Add(ctx context.Context, fav domainfavorites.Favorite) error {
	doc := favoriteDocument{
		ID:        favoriteKey(fav.UserID, fav.ListingID),
		UserID:    fav.UserID,
		ListingID: string(fav.ListingID),
		AddedAt:   fav.AddedAt.UnixMilli(),
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *FavoritesRepository) Remove(ctx context.Context, userID string, listingID domainlistings.ListingID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": favoriteKey(userID, listingID)})
	return err
}

type favoriteDocument struct {
	ID        string `bson:"_id"`
	UserID    string `bson:"user_id"`
	ListingID string `bson:"listing_id"`
	AddedAt   int64  `bson:"added_at"`
}

func (d favoriteDocument) toFavorite() domainfavorites.Favorite {
	return domainfavorites.Favorite{
		UserID:    d.UserID,
		ListingID: domainlistings.ListingID(d.ListingID),
		AddedAt:   timestampToTime(d.AddedAt),
	}
}

func favoriteKey(userID string, listingID domainlistings.ListingID) string {
	return userID + ":" + string(listingID)
}

var _ domainfavorites.Repository = (*FavoritesRepository)(nil)
