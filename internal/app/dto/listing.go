package dto

import (
	domainlistings "staybook/internal/domain/listings"
)

type ListingCard struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	City         string   `json:"city"`
	Country      string   `json:"country"`
	PropertyType string   `json:"property_type"`
	MaxGuests    int      `json:"max_guests"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    int      `json:"bathrooms"`
	Nightly      MoneyDTO `json:"nightly"`
	CleaningFee  MoneyDTO `json:"cleaning_fee"`
	InstantBook  bool     `json:"instant_book"`
	Rating       float64  `json:"rating"`
	ThumbnailURL string   `json:"thumbnail_url"`
	Amenities    []string `json:"amenities,omitempty"`
}

type ListingDetail struct {
	ListingCard
	Description string   `json:"description"`
	Photos      []string `json:"photos,omitempty"`
	State       string   `json:"state"`
}

type ListingCatalog struct {
	Items  []ListingCard `json:"items"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

func MapListingCard(listing *domainlistings.Listing) ListingCard {
	return ListingCard{
		ID:           string(listing.ID),
		Title:        listing.Title,
		City:         listing.Address.City,
		Country:      listing.Address.Country,
		PropertyType: listing.PropertyType,
		MaxGuests:    listing.MaxGuests,
		Bedrooms:     listing.Bedrooms,
		Bathrooms:    listing.Bathrooms,
		Nightly:      MapMoney(listing.NightlyRate()),
		CleaningFee:  MapMoney(listing.CleaningFee()),
		InstantBook:  listing.InstantBook,
		Rating:       listing.Rating,
		ThumbnailURL: listing.ThumbnailURL,
		Amenities:    append([]string(nil), listing.Amenities...),
	}
}

func MapListingDetail(listing *domainlistings.Listing) ListingDetail {
	return ListingDetail{
		ListingCard: MapListingCard(listing),
		Description: listing.Description,
		Photos:      append([]string(nil), listing.Photos...),
		State:       string(listing.State),
	}
}

func MapCatalog(result domainlistings.SearchResult, params domainlistings.SearchParams) ListingCatalog {
	items := make([]ListingCard, 0, len(result.Items))
	for _, listing := range result.Items {
		items = append(items, MapListingCard(listing))
	}
	return ListingCatalog{
		Items:  items,
		Total:  result.Total,
		Limit:  params.Limit,
		Offset: params.Offset,
	}
}
