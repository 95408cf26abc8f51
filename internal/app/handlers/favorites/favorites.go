package favorites

import (
	"context"
	"log/slog"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainfavorites "staybook/internal/domain/favorites"
	domainlistings "staybook/internal/domain/listings"
)

const (
	toggleFavoriteKey = "me.favorites.toggle"
	listFavoritesKey  = "me.favorites.list"
)

// ToggleFavoriteCommand flips the saved state of one listing for a user.
type ToggleFavoriteCommand struct {
	UserID    string `validate:"required"`
	ListingID string `validate:"required"`
}

func (c ToggleFavoriteCommand) Key() string { return toggleFavoriteKey }

type ToggleFavoriteHandler struct {
	Logger *slog.Logger
	Now    func() time.Time
}

func (h *ToggleFavoriteHandler) Handle(ctx context.Context, cmd ToggleFavoriteCommand) (*dto.FavoriteToggleResult, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	listingID := domainlistings.ListingID(cmd.ListingID)
	// The listing must exist; toggling a phantom id is a client bug.
	if _, err := unit.Listings().ByID(ctx, listingID); err != nil {
		return nil, err
	}

	saved, err := unit.Favorites().IsFavorite(ctx, cmd.UserID, listingID)
	if err != nil {
		return nil, err
	}

	if saved {
		if err := unit.Favorites().Remove(ctx, cmd.UserID, listingID); err != nil {
			return nil, err
		}
	} else {
		now := time.Now()
		if h.Now != nil {
			now = h.Now()
		}
		fav, err := domainfavorites.New(cmd.UserID, listingID, now)
		if err != nil {
			return nil, err
		}
		if err := unit.Favorites().Add(ctx, fav); err != nil {
			return nil, err
		}
	}

	if h.Logger != nil {
		h.Logger.Debug("favorite toggled", "user_id", cmd.UserID, "listing_id", cmd.ListingID, "favorite", !saved)
	}
	return &dto.FavoriteToggleResult{ListingID: cmd.ListingID, Favorite: !saved}, nil
}

type ListFavoritesQuery struct {
	UserID string `validate:"required"`
}

func (q ListFavoritesQuery) Key() string { return listFavoritesKey }

type ListFavoritesHandler struct {
	UoWFactory uow.Factory
	Logger     *slog.Logger
}

func (h *ListFavoritesHandler) Handle(ctx context.Context, q ListFavoritesQuery) (dto.FavoriteCollection, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.FavoriteCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	favs, err := unit.Favorites().List(execCtx, q.UserID)
	if err != nil {
		return dto.FavoriteCollection{}, err
	}

	items := make([]dto.FavoriteItem, 0, len(favs))
	for _, fav := range favs {
		listing, err := unit.Listings().ByID(execCtx, fav.ListingID)
		if err != nil {
			// Listings removed since the save just drop out of the shelf.
			if h.Logger != nil {
				h.Logger.Warn("favorite points at missing listing", "user_id", q.UserID, "listing_id", fav.ListingID)
			}
			continue
		}
		items = append(items, dto.FavoriteItem{Listing: dto.MapListingCard(listing), AddedAt: fav.AddedAt})
	}
	return dto.FavoriteCollection{Items: items}, nil
}

var _ commands.Handler[ToggleFavoriteCommand, *dto.FavoriteToggleResult] = (*ToggleFavoriteHandler)(nil)
var _ queries.Handler[ListFavoritesQuery, dto.FavoriteCollection] = (*ListFavoritesHandler)(nil)
