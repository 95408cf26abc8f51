package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	favoritesapp "staybook/internal/app/handlers/favorites"
	meapp "staybook/internal/app/handlers/me"
	"staybook/internal/app/queries"
)

type MeHTTP interface {
	Bookings(c *gin.Context)
	Favorites(c *gin.Context)
	ToggleFavorite(c *gin.Context)
}

type MeHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

func (h MeHandler) Bookings(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	query := meapp.ListGuestBookingsQuery{GuestID: user.ID}
	result, err := queries.Ask[meapp.ListGuestBookingsQuery, dto.GuestBookingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h MeHandler) Favorites(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	query := favoritesapp.ListFavoritesQuery{UserID: user.ID}
	result, err := queries.Ask[favoritesapp.ListFavoritesQuery, dto.FavoriteCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h MeHandler) ToggleFavorite(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	cmd := favoritesapp.ToggleFavoriteCommand{UserID: user.ID, ListingID: c.Param("id")}
	result, err := commands.Dispatch[favoritesapp.ToggleFavoriteCommand, *dto.FavoriteToggleResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ MeHTTP = MeHandler{}
