package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"staybook/internal/infra/config"
	"staybook/internal/infra/obs"
)

type Handlers struct {
	Auth           AuthHTTP
	Booking        BookingHTTP
	Listing        ListingHTTP
	HostListing    HostListingHTTP
	HostBooking    HostBookingHTTP
	Me             MeHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	registerSwaggerRoutes(router)

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
		api.POST("/auth/become-host", h.Auth.BecomeHost)
	}
	if h.Listing != nil {
		api.GET("/listings", h.Listing.Catalog)
		api.GET("/listings/:id", h.Listing.Detail)
		api.GET("/listings/:id/calendar", h.Listing.Calendar)
		api.GET("/listings/:id/availability", h.Listing.Availability)
	}
	if h.Booking != nil {
		api.GET("/listings/:id/quote", h.Booking.Quote)
		api.POST("/bookings", h.Booking.Create)
	}
	if h.HostListing != nil {
		hostListings := api.Group("/host/listings")
		hostListings.GET("", h.HostListing.List)
		hostListings.POST("", h.HostListing.Create)
		hostListings.GET("/:id", h.HostListing.Get)
		hostListings.PUT("/:id", h.HostListing.Update)
		hostListings.POST("/:id/publish", h.HostListing.Publish)
		hostListings.POST("/:id/unpublish", h.HostListing.Unpublish)
		hostListings.PUT("/:id/pricing", h.HostListing.SetPricing)
		hostListings.POST("/:id/photos", h.HostListing.UploadPhoto)
	}
	if h.HostBooking != nil {
		api.GET("/host/bookings", h.HostBooking.List)
		api.POST("/host/bookings/:id/confirm", h.HostBooking.Confirm)
		api.POST("/host/bookings/:id/decline", h.HostBooking.Decline)
		api.POST("/host/listings/:id/calendar/blocks", h.HostBooking.BlockDates)
		api.DELETE("/host/listings/:id/calendar/blocks/:reference", h.HostBooking.ReleaseBlock)
	}
	if h.Me != nil {
		meGroup := api.Group("/me")
		meGroup.GET("/bookings", h.Me.Bookings)
		meGroup.GET("/favorites", h.Me.Favorites)
		meGroup.POST("/favorites/:id", h.Me.ToggleFavorite)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowOrigins = []string{"*"}
	}
	return cfg
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
