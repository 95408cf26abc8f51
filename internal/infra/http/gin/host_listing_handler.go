package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	listingsapp "staybook/internal/app/handlers/listings"
	"staybook/internal/app/queries"
	domainlistings "staybook/internal/domain/listings"
)

type HostListingHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Publish(c *gin.Context)
	Unpublish(c *gin.Context)
	SetPricing(c *gin.Context)
	UploadPhoto(c *gin.Context)
}

type HostListingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type listingPayloadRequest struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	PropertyType     string   `json:"property_type"`
	AddressLine1     string   `json:"address_line1"`
	City             string   `json:"city"`
	Region           string   `json:"region"`
	Country          string   `json:"country"`
	Lat              float64  `json:"lat"`
	Lon              float64  `json:"lon"`
	Amenities        []string `json:"amenities"`
	MaxGuests        int      `json:"max_guests"`
	Bedrooms         int      `json:"bedrooms"`
	Bathrooms        int      `json:"bathrooms"`
	NightlyRateCents int64    `json:"nightly_rate_cents"`
	CleaningFeeCents int64    `json:"cleaning_fee_cents"`
	Currency         string   `json:"currency"`
	InstantBook      bool     `json:"instant_book"`
	ThumbnailURL     string   `json:"thumbnail_url"`
	Photos           []string `json:"photos"`
}

func (r listingPayloadRequest) toPayload() listingsapp.HostListingPayload {
	return listingsapp.HostListingPayload{
		Title:        r.Title,
		Description:  r.Description,
		PropertyType: r.PropertyType,
		Address: domainlistings.Address{
			Line1:   r.AddressLine1,
			City:    r.City,
			Region:  r.Region,
			Country: r.Country,
			Lat:     r.Lat,
			Lon:     r.Lon,
		},
		Amenities:        r.Amenities,
		MaxGuests:        r.MaxGuests,
		Bedrooms:         r.Bedrooms,
		Bathrooms:        r.Bathrooms,
		NightlyRateCents: r.NightlyRateCents,
		CleaningFeeCents: r.CleaningFeeCents,
		Currency:         r.Currency,
		InstantBook:      r.InstantBook,
		ThumbnailURL:     r.ThumbnailURL,
		Photos:           r.Photos,
	}
}

func (h HostListingHandler) List(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	query := listingsapp.ListHostListingsQuery{
		HostID: host.ID,
		Status: c.Query("status"),
		Limit:  intQuery(c, "limit"),
		Offset: intQuery(c, "offset"),
	}
	result, err := queries.Ask[listingsapp.ListHostListingsQuery, dto.ListingCatalog](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostListingHandler) Create(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	var req listingPayloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := listingsapp.CreateHostListingCommand{HostID: host.ID, Payload: req.toPayload()}
	result, err := commands.Dispatch[listingsapp.CreateHostListingCommand, *dto.ListingDetail](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h HostListingHandler) Get(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	query := listingsapp.GetHostListingQuery{HostID: host.ID, ListingID: c.Param("id")}
	result, err := queries.Ask[listingsapp.GetHostListingQuery, dto.ListingDetail](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostListingHandler) Update(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	var req listingPayloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := listingsapp.UpdateHostListingCommand{HostID: host.ID, ListingID: c.Param("id"), Payload: req.toPayload()}
	result, err := commands.Dispatch[listingsapp.UpdateHostListingCommand, *dto.ListingDetail](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostListingHandler) Publish(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	cmd := listingsapp.PublishHostListingCommand{HostID: host.ID, ListingID: c.Param("id")}
	result, err := commands.Dispatch[listingsapp.PublishHostListingCommand, *dto.ListingDetail](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostListingHandler) Unpublish(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	cmd := listingsapp.UnpublishHostListingCommand{HostID: host.ID, ListingID: c.Param("id")}
	result, err := commands.Dispatch[listingsapp.UnpublishHostListingCommand, *dto.ListingDetail](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type setPricingRequest struct {
	NightlyRateCents int64 `json:"nightly_rate_cents"`
	CleaningFeeCents int64 `json:"cleaning_fee_cents"`
}

func (h HostListingHandler) SetPricing(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	var req setPricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := listingsapp.SetListingPricingCommand{
		HostID:           host.ID,
		ListingID:        c.Param("id"),
		NightlyRateCents: req.NightlyRateCents,
		CleaningFeeCents: req.CleaningFeeCents,
	}
	result, err := commands.Dispatch[listingsapp.SetListingPricingCommand, *dto.ListingDetail](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UploadPhoto accepts a multipart form with a single "photo" file.
func (h HostListingHandler) UploadPhoto(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	reader, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read photo"})
		return
	}
	defer reader.Close()

	listingID := c.Param("id")
	cmd := listingsapp.UploadHostListingPhotoCommand{
		HostID:      host.ID,
		ListingID:   listingID,
		ObjectKey:   "listings/" + listingID + "/" + file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Reader:      reader,
	}
	result, err := commands.Dispatch[listingsapp.UploadHostListingPhotoCommand, *listingsapp.HostListingPhotoUploadResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

var _ HostListingHTTP = HostListingHandler{}
