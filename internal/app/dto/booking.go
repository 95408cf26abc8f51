package dto

import (
	"time"

	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/pricing"
	"staybook/internal/domain/shared/money"
)

type MoneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type PriceBreakdownDTO struct {
	Nights       int      `json:"nights"`
	Nightly      MoneyDTO `json:"nightly"`
	NightlyTotal MoneyDTO `json:"nightly_total"`
	CleaningFee  MoneyDTO `json:"cleaning_fee"`
	Total        MoneyDTO `json:"total"`
}

type BookingListingSnapshot struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	City         string `json:"city"`
	Country      string `json:"country"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type GuestBookingSummary struct {
	ID        string                 `json:"id"`
	Listing   BookingListingSnapshot `json:"listing"`
	CheckIn   string                 `json:"check_in"`
	CheckOut  string                 `json:"check_out"`
	Nights    int                    `json:"nights"`
	Guests    int                    `json:"guests"`
	Mode      string                 `json:"mode"`
	Status    string                 `json:"status"`
	Total     MoneyDTO               `json:"total"`
	CreatedAt time.Time              `json:"created_at"`
}

type GuestBookingCollection struct {
	Items []GuestBookingSummary `json:"items"`
}

type HostBookingSummary struct {
	ID        string                 `json:"id"`
	Listing   BookingListingSnapshot `json:"listing"`
	GuestID   string                 `json:"guest_id"`
	CheckIn   string                 `json:"check_in"`
	CheckOut  string                 `json:"check_out"`
	Nights    int                    `json:"nights"`
	Guests    int                    `json:"guests"`
	Mode      string                 `json:"mode"`
	Status    string                 `json:"status"`
	Total     MoneyDTO               `json:"total"`
	CreatedAt time.Time              `json:"created_at"`
}

type HostBookingCollection struct {
	Items []HostBookingSummary `json:"items"`
}

func MapMoney(value money.Money) MoneyDTO {
	return MoneyDTO{Amount: value.Amount, Currency: value.Currency}
}

func MapPriceBreakdown(p pricing.PriceBreakdown) PriceBreakdownDTO {
	return PriceBreakdownDTO{
		Nights:       p.Nights,
		Nightly:      MapMoney(p.Nightly),
		NightlyTotal: MapMoney(p.NightlyTotal),
		CleaningFee:  MapMoney(p.CleaningFee),
		Total:        MapMoney(p.Total),
	}
}

func mapListingSnapshot(listingID domainlistings.ListingID, listing *domainlistings.Listing) BookingListingSnapshot {
	snapshot := BookingListingSnapshot{ID: string(listingID)}
	if listing != nil {
		snapshot.Title = listing.Title
		snapshot.City = listing.Address.City
		snapshot.Country = listing.Address.Country
		snapshot.ThumbnailURL = listing.ThumbnailURL
	}
	return snapshot
}

func MapGuestBookingSummary(booking *domainbooking.Booking, listing *domainlistings.Listing) GuestBookingSummary {
	return GuestBookingSummary{
		ID:        string(booking.ID),
		Listing:   mapListingSnapshot(booking.ListingID, listing),
		CheckIn:   booking.Range.CheckIn.Format("2006-01-02"),
		CheckOut:  booking.Range.CheckOut.Format("2006-01-02"),
		Nights:    booking.Price.Nights,
		Guests:    booking.Guests,
		Mode:      string(booking.Mode),
		Status:    string(booking.Status),
		Total:     MapMoney(booking.Price.Total),
		CreatedAt: booking.CreatedAt,
	}
}

func MapHostBookingSummary(booking *domainbooking.Booking, listing *domainlistings.Listing) HostBookingSummary {
	return HostBookingSummary{
		ID:        string(booking.ID),
		Listing:   mapListingSnapshot(booking.ListingID, listing),
		GuestID:   booking.GuestID,
		CheckIn:   booking.Range.CheckIn.Format("2006-01-02"),
		CheckOut:  booking.Range.CheckOut.Format("2006-01-02"),
		Nights:    booking.Price.Nights,
		Guests:    booking.Guests,
		Mode:      string(booking.Mode),
		Status:    string(booking.Status),
		Total:     MapMoney(booking.Price.Total),
		CreatedAt: booking.CreatedAt,
	}
}
