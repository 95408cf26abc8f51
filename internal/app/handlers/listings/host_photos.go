package listings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/uow"
	"staybook/internal/infra/storage/s3"
)

const uploadHostListingPhotoKey = "host.listings.photos.upload"

type UploadHostListingPhotoCommand struct {
	HostID      string `validate:"required"`
	ListingID   string `validate:"required"`
	ObjectKey   string `validate:"required"`
	ContentType string
	Reader      io.Reader
}

func (c UploadHostListingPhotoCommand) Key() string { return uploadHostListingPhotoKey }

type HostListingPhotoUploadResult struct {
	ListingID    string   `json:"listing_id"`
	Photos       []string `json:"photos"`
	ThumbnailURL string   `json:"thumbnail_url"`
}

type UploadHostListingPhotoHandler struct {
	Logger   *slog.Logger
	Uploader s3.Uploader
	Now      func() time.Time
}

func (h *UploadHostListingPhotoHandler) Handle(ctx context.Context, cmd UploadHostListingPhotoCommand) (*HostListingPhotoUploadResult, error) {
	if h.Uploader == nil {
		return nil, errors.New("photo uploader unavailable")
	}
	if cmd.Reader == nil {
		return nil, errors.New("photo reader is required")
	}
	if strings.TrimSpace(cmd.ObjectKey) == "" {
		return nil, errors.New("object key is required")
	}

	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	listing, err := loadOwnedListing(ctx, unit, cmd.HostID, cmd.ListingID)
	if err != nil {
		return nil, err
	}

	publicURL, err := h.Uploader.Upload(ctx, cmd.ObjectKey, cmd.Reader, cmd.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}

	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	listing.AddPhoto(publicURL, now)
	if err := unit.Listings().Save(ctx, listing); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("listing photo added", "listing_id", listing.ID, "host_id", cmd.HostID, "object_key", cmd.ObjectKey)
	}
	return &HostListingPhotoUploadResult{
		ListingID:    string(listing.ID),
		Photos:       append([]string(nil), listing.Photos...),
		ThumbnailURL: listing.ThumbnailURL,
	}, nil
}

var _ commands.Handler[UploadHostListingPhotoCommand, *HostListingPhotoUploadResult] = (*UploadHostListingPhotoHandler)(nil)
