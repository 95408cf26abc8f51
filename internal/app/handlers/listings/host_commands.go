package listings

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	domainlistings "staybook/internal/domain/listings"
)

const (
	createHostListingKey    = "host.listings.create"
	updateHostListingKey    = "host.listings.update"
	publishHostListingKey   = "host.listings.publish"
	unpublishHostListingKey = "host.listings.unpublish"
	setListingPricingKey    = "host.listings.pricing"
)

// HostListingPayload mirrors the host's listing form.
type HostListingPayload struct {
	Title            string `validate:"required"`
	Description      string
	PropertyType     string
	Address          domainlistings.Address
	Amenities        []string
	MaxGuests        int   `validate:"min=1"`
	Bedrooms         int   `validate:"min=0"`
	Bathrooms        int   `validate:"min=0"`
	NightlyRateCents int64 `validate:"gt=0"`
	CleaningFeeCents int64 `validate:"min=0"`
	Currency         string
	InstantBook      bool
	ThumbnailURL     string
	Photos           []string
}

type CreateHostListingCommand struct {
	HostID  string `validate:"required"`
	Payload HostListingPayload
}

func (c CreateHostListingCommand) Key() string { return createHostListingKey }

type CreateHostListingHandler struct {
	Logger  *slog.Logger
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Now     func() time.Time
}

func (h *CreateHostListingHandler) Handle(ctx context.Context, cmd CreateHostListingCommand) (*dto.ListingDetail, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	listing, err := domainlistings.NewListing(domainlistings.CreateListingParams{
		ID:               domainlistings.ListingID(uuid.NewString()),
		Host:             domainlistings.HostID(cmd.HostID),
		Title:            cmd.Payload.Title,
		Description:      cmd.Payload.Description,
		PropertyType:     cmd.Payload.PropertyType,
		Address:          cmd.Payload.Address,
		Amenities:        cmd.Payload.Amenities,
		MaxGuests:        cmd.Payload.MaxGuests,
		Bedrooms:         cmd.Payload.Bedrooms,
		Bathrooms:        cmd.Payload.Bathrooms,
		NightlyRateCents: cmd.Payload.NightlyRateCents,
		CleaningFeeCents: cmd.Payload.CleaningFeeCents,
		Currency:         cmd.Payload.Currency,
		InstantBook:      cmd.Payload.InstantBook,
		ThumbnailURL:     cmd.Payload.ThumbnailURL,
		Photos:           cmd.Payload.Photos,
		Now:              h.now(),
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Listings().Save(ctx, listing); err != nil {
		return nil, err
	}
	if err := outbox.DrainSources(ctx, h.Outbox, h.Encoder, listing); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("host listing created", "listing_id", listing.ID, "host_id", cmd.HostID)
	}
	result := dto.MapListingDetail(listing)
	return &result, nil
}

func (h *CreateHostListingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

type UpdateHostListingCommand struct {
	HostID    string `validate:"required"`
	ListingID string `validate:"required"`
	Payload   HostListingPayload
}

func (c UpdateHostListingCommand) Key() string { return updateHostListingKey }

type UpdateHostListingHandler struct {
	Logger *slog.Logger
}

func (h *UpdateHostListingHandler) Handle(ctx context.Context, cmd UpdateHostListingCommand) (*dto.ListingDetail, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	listing, err := loadOwnedListing(ctx, unit, cmd.HostID, cmd.ListingID)
	if err != nil {
		return nil, err
	}

	if err := listing.UpdateAttributes(domainlistings.UpdateListingParams{
		Title:            cmd.Payload.Title,
		Description:      cmd.Payload.Description,
		PropertyType:     cmd.Payload.PropertyType,
		Address:          cmd.Payload.Address,
		Amenities:        cmd.Payload.Amenities,
		MaxGuests:        cmd.Payload.MaxGuests,
		Bedrooms:         cmd.Payload.Bedrooms,
		Bathrooms:        cmd.Payload.Bathrooms,
		NightlyRateCents: cmd.Payload.NightlyRateCents,
		CleaningFeeCents: cmd.Payload.CleaningFeeCents,
		InstantBook:      cmd.Payload.InstantBook,
		ThumbnailURL:     cmd.Payload.ThumbnailURL,
		Now:              time.Now(),
	}); err != nil {
		return nil, err
	}
	if err := unit.Listings().Save(ctx, listing); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("host listing updated", "listing_id", listing.ID, "host_id", cmd.HostID)
	}
	result := dto.MapListingDetail(listing)
	return &result, nil
}

type PublishHostListingCommand struct {
	HostID    string `validate:"required"`
	ListingID string `validate:"required"`
}

func (c PublishHostListingCommand) Key() string { return publishHostListingKey }

type PublishHostListingHandler struct {
	Logger  *slog.Logger
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
}

func (h *PublishHostListingHandler) Handle(ctx context.Context, cmd PublishHostListingCommand) (*dto.ListingDetail, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	listing, err := loadOwnedListing(ctx, unit, cmd.HostID, cmd.ListingID)
	if err != nil {
		return nil, err
	}

	if err := listing.Publish(time.Now()); err != nil {
		return nil, err
	}
	if err := unit.Listings().Save(ctx, listing); err != nil {
		return nil, err
	}
	if err := outbox.DrainSources(ctx, h.Outbox, h.Encoder, listing); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("host listing published", "listing_id", listing.ID, "host_id", cmd.HostID)
	}
	result := dto.MapListingDetail(listing)
	return &result, nil
}

type UnpublishHostListingCommand struct {
	HostID    string `validate:"required"`
	ListingID string `validate:"required"`
}

func (c UnpublishHostListingCommand) Key() string { return unpublishHostListingKey }

type UnpublishHostListingHandler struct {
	Logger  *slog.Logger
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
}

func (h *UnpublishHostListingHandler) Handle(ctx context.Context, cmd UnpublishHostListingCommand) (*dto.ListingDetail, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	listing, err := loadOwnedListing(ctx, unit, cmd.HostID, cmd.ListingID)
	if err != nil {
		return nil, err
	}

	if err := listing.Unpublish(time.Now()); err != nil {
		return nil, err
	}
	if err := unit.Listings().Save(ctx, listing); err != nil {
		return nil, err
	}
	if err := outbox.DrainSources(ctx, h.Outbox, h.Encoder, listing); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("host listing unpublished", "listing_id", listing.ID, "host_id", cmd.HostID)
	}
	result := dto.MapListingDetail(listing)
	return &result, nil
}

// SetListingPricingCommand changes the nightly rate and cleaning fee
// without touching the rest of the listing.
type SetListingPricingCommand struct {
	HostID           string `validate:"required"`
	ListingID        string `validate:"required"`
	NightlyRateCents int64  `validate:"gt=0"`
	CleaningFeeCents int64  `validate:"min=0"`
}

func (c SetListingPricingCommand) Key() string { return setListingPricingKey }

type SetListingPricingHandler struct {
	Logger *slog.Logger
}

func (h *SetListingPricingHandler) Handle(ctx context.Context, cmd SetListingPricingCommand) (*dto.ListingDetail, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	listing, err := loadOwnedListing(ctx, unit, cmd.HostID, cmd.ListingID)
	if err != nil {
		return nil, err
	}

	if err := listing.SetPricing(cmd.NightlyRateCents, cmd.CleaningFeeCents, time.Now()); err != nil {
		return nil, err
	}
	if err := unit.Listings().Save(ctx, listing); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("listing pricing updated", "listing_id", listing.ID, "nightly_cents", cmd.NightlyRateCents, "cleaning_cents", cmd.CleaningFeeCents)
	}
	result := dto.MapListingDetail(listing)
	return &result, nil
}

var (
	_ commands.Handler[CreateHostListingCommand, *dto.ListingDetail]    = (*CreateHostListingHandler)(nil)
	_ commands.Handler[UpdateHostListingCommand, *dto.ListingDetail]    = (*UpdateHostListingHandler)(nil)
	_ commands.Handler[PublishHostListingCommand, *dto.ListingDetail]   = (*PublishHostListingHandler)(nil)
	_ commands.Handler[UnpublishHostListingCommand, *dto.ListingDetail] = (*UnpublishHostListingHandler)(nil)
	_ commands.Handler[SetListingPricingCommand, *dto.ListingDetail]    = (*SetListingPricingHandler)(nil)
)
