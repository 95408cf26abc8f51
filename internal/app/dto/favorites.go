package dto

import "time"

type FavoriteItem struct {
	Listing ListingCard `json:"listing"`
	AddedAt time.Time   `json:"added_at"`
}

type FavoriteCollection struct {
	Items []FavoriteItem `json:"items"`
}

type FavoriteToggleResult struct {
	ListingID string `json:"listing_id"`
	Favorite  bool   `json:"favorite"`
}
