package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	availabilityapp "staybook/internal/app/handlers/availability"
	bookingapp "staybook/internal/app/handlers/booking"
	listingsapp "staybook/internal/app/handlers/listings"
	"staybook/internal/app/validation"
	domainavailability "staybook/internal/domain/availability"
	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	domainpricing "staybook/internal/domain/pricing"
	domainrange "staybook/internal/domain/shared/daterange"
	domainmoney "staybook/internal/domain/shared/money"
)

// respondError maps domain failures onto HTTP statuses. Anything not
// recognized is a 500 with a generic body so internals stay internal.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domainrange.ErrUnparseable),
		errors.Is(err, domainrange.ErrInvalidOrder),
		errors.Is(err, domainbooking.ErrCheckInInPast),
		errors.Is(err, domainbooking.ErrGuestCountOutOfRange),
		errors.Is(err, domainbooking.ErrGuestRequired),
		errors.Is(err, domainbooking.ErrNonPositiveTotal),
		errors.Is(err, domainpricing.ErrInvalidAmount),
		errors.Is(err, domainpricing.ErrCurrencyUnset),
		errors.Is(err, domainmoney.ErrCurrencyMismatch),
		errors.Is(err, domainlistings.ErrTitleRequired),
		errors.Is(err, domainlistings.ErrGuestsLimit),
		errors.Is(err, domainlistings.ErrNightlyRate),
		errors.Is(err, domainlistings.ErrCleaningFee),
		errors.Is(err, domainlistings.ErrAddressRequired),
		errors.Is(err, validation.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domainbooking.ErrDatesUnavailable),
		errors.Is(err, domainavailability.ErrOverlappingRange),
		errors.Is(err, domainbooking.ErrInvalidState),
		errors.Is(err, domainlistings.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainlistings.ErrNotFound),
		errors.Is(err, domainbooking.ErrBookingNotFound),
		errors.Is(err, domainavailability.ErrRangeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, bookingapp.ErrBookingNotOwned),
		errors.Is(err, listingsapp.ErrListingNotOwned),
		errors.Is(err, availabilityapp.ErrCalendarNotOwned):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		if logger != nil {
			logger.Error("request failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
