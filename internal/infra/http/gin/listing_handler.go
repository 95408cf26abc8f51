package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/dto"
	availabilityapp "staybook/internal/app/handlers/availability"
	listingsapp "staybook/internal/app/handlers/listings"
	"staybook/internal/app/queries"
)

type ListingHTTP interface {
	Catalog(c *gin.Context)
	Detail(c *gin.Context)
	Calendar(c *gin.Context)
	Availability(c *gin.Context)
}

type ListingHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

func (h ListingHandler) Catalog(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := listingsapp.SearchCatalogQuery{
		City:            c.Query("city"),
		Country:         c.Query("country"),
		LocationQuery:   c.Query("q"),
		Amenities:       csvQuery(c, "amenities"),
		PropertyTypes:   csvQuery(c, "property_types"),
		MinGuests:       intQuery(c, "guests"),
		PriceMinCents:   int64Query(c, "price_min"),
		PriceMaxCents:   int64Query(c, "price_max"),
		InstantBookOnly: boolQuery(c, "instant_book"),
		Sort:            c.Query("sort"),
		Limit:           intQuery(c, "limit"),
		Offset:          intQuery(c, "offset"),
	}
	result, err := queries.Ask[listingsapp.SearchCatalogQuery, dto.ListingCatalog](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ListingHandler) Detail(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := listingsapp.GetListingQuery{ListingID: c.Param("id")}
	result, err := queries.Ask[listingsapp.GetListingQuery, dto.ListingDetail](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ListingHandler) Calendar(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := availabilityapp.GetCalendarQuery{
		ListingID: c.Param("id"),
		From:      c.Query("from"),
		To:        c.Query("to"),
	}
	result, err := queries.Ask[availabilityapp.GetCalendarQuery, dto.Calendar](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Availability answers the yes/no question a guest asks before booking.
func (h ListingHandler) Availability(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := availabilityapp.CheckAvailabilityQuery{
		ListingID: c.Param("id"),
		CheckIn:   c.Query("check_in"),
		CheckOut:  c.Query("check_out"),
	}
	result, err := queries.Ask[availabilityapp.CheckAvailabilityQuery, availabilityapp.AvailabilityResult](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ListingHTTP = ListingHandler{}
